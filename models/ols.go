package models

import (
	"fmt"

	"github.com/aouyang1/go-labfit/errs"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrNegativeDegree       = fmt.Errorf("negative polynomial degree, %w", errs.ErrInvalidArgument)
	ErrInsufficientSamples  = fmt.Errorf("fewer samples than polynomial coefficients, %w", errs.ErrInvalidArgument)
	ErrTargetLenMismatch    = fmt.Errorf("target length does not match training length, %w", errs.ErrInvalidArgument)
	ErrSingularDesignMatrix = fmt.Errorf("singular design matrix, %w", errs.ErrComputationUndefined)
)

// PolynomialGuess computes ordinary least squares polynomial coefficients using QR
// factorization. The result is ordered by ascending power and is meant to be used as the
// initial guess of a Polynomial fit.
func PolynomialGuess(x, y []float64, degree int) ([]float64, error) {
	if degree < 0 {
		return nil, ErrNegativeDegree
	}
	m := len(x)
	if len(y) != m {
		return nil, fmt.Errorf("training data has %d rows and target has %d rows, %w", m, len(y), ErrTargetLenMismatch)
	}
	n := degree + 1
	if m < n {
		return nil, fmt.Errorf("got %d samples for %d coefficients, %w", m, n, ErrInsufficientSamples)
	}

	X := vandermonde(x, degree)
	Y := mat.NewDense(1, m, y)

	qr := new(mat.QR)
	qr.Factorize(X)

	q := new(mat.Dense)
	r := new(mat.Dense)

	qr.QTo(q)
	qr.RTo(r)
	yq := new(mat.Dense)
	yq.Mul(Y, q)

	c := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		if r.At(i, i) == 0 {
			return nil, fmt.Errorf("zero pivot at column %d, %w", i, ErrSingularDesignMatrix)
		}
		c[i] = yq.At(0, i)
		for j := i + 1; j < n; j++ {
			c[i] -= c[j] * r.At(i, j)
		}
		c[i] /= r.At(i, i)
	}
	return c, nil
}

// vandermonde builds the m x (degree+1) matrix of ascending powers of a
func vandermonde(a []float64, degree int) *mat.Dense {
	x := mat.NewDense(len(a), degree+1, nil)
	for i := range a {
		for j, p := 0, 1.0; j <= degree; j, p = j+1, p*a[i] {
			x.Set(i, j, p)
		}
	}
	return x
}
