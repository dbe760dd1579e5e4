package mat

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrColMismatch = errors.New("column size mismatch")
	ErrEmptyAxis   = errors.New("empty axis")
)

// NewDenseFromArray builds a row major dense matrix from a slice of rows. An empty input
// panics with mat.ErrZeroLength as gonum does.
func NewDenseFromArray(x [][]float64) (*mat.Dense, error) {
	m := len(x)

	n := -1
	for i, row := range x {
		if n >= 0 && len(row) != n {
			return nil, fmt.Errorf("at row %d, %w", i, ErrColMismatch)
		}
		if n < 0 {
			n = len(row)
		}
	}
	if n < 0 {
		n = 0
	}

	// flatten to row order
	data := make([]float64, 0, m*n)
	for _, row := range x {
		data = append(data, row...)
	}
	return mat.NewDense(m, n, data), nil
}

// Linspace returns n evenly spaced values from start to end inclusive
func Linspace(start, end float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{start}
	}
	return floats.Span(make([]float64, n), start, end)
}

// Axis returns n coordinates. A centered axis spans -(n-1)/2 to (n-1)/2, otherwise 0 to n-1.
func Axis(n int, centered bool) []float64 {
	if centered {
		half := float64(n-1) / 2
		return Linspace(-half, half, n)
	}
	return Linspace(0, float64(n-1), n)
}

// Meshgrid returns coordinate matrices of shape len(y) x len(x). Each row of the first matrix
// is a copy of x and each column of the second is a copy of y.
func Meshgrid(x, y []float64) (*mat.Dense, *mat.Dense, error) {
	if len(x) == 0 || len(y) == 0 {
		return nil, nil, fmt.Errorf("x has %d values and y has %d, %w", len(x), len(y), ErrEmptyAxis)
	}
	m, n := len(y), len(x)
	xx := mat.NewDense(m, n, nil)
	yy := mat.NewDense(m, n, nil)
	for i := 0; i < m; i++ {
		xx.SetRow(i, x)
		for j := 0; j < n; j++ {
			yy.Set(i, j, y[i])
		}
	}
	return xx, yy, nil
}

// Gradient computes the numerical gradient of a matrix along its rows (axis 0) and columns
// (axis 1) with unit spacing. Interior points use second order central differences and the
// edges first order one sided differences. A single row or column has zero gradient along it.
func Gradient(a mat.Matrix) (*mat.Dense, *mat.Dense) {
	m, n := a.Dims()
	dRow := mat.NewDense(m, n, nil)
	dCol := mat.NewDense(m, n, nil)

	if m > 1 {
		for j := 0; j < n; j++ {
			dRow.Set(0, j, a.At(1, j)-a.At(0, j))
			dRow.Set(m-1, j, a.At(m-1, j)-a.At(m-2, j))
			for i := 1; i < m-1; i++ {
				dRow.Set(i, j, (a.At(i+1, j)-a.At(i-1, j))/2)
			}
		}
	}
	if n > 1 {
		for i := 0; i < m; i++ {
			dCol.Set(i, 0, a.At(i, 1)-a.At(i, 0))
			dCol.Set(i, n-1, a.At(i, n-1)-a.At(i, n-2))
			for j := 1; j < n-1; j++ {
				dCol.Set(i, j, (a.At(i, j+1)-a.At(i, j-1))/2)
			}
		}
	}
	return dRow, dCol
}
