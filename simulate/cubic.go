package simulate

import (
	"github.com/aouyang1/go-labfit/dataset"
)

const (
	CubicColumnX    = "x"
	CubicColumnY    = "y"
	CubicColumnErrX = "error x"
	CubicColumnErrY = "error y"

	// CubicMarker pairs the cubic columns with their errors as a prefix
	CubicMarker = "error"
)

// CubicOptions describes a noisy cubic y = a x^3 + b x^2 + c x + d sampled on a uniform grid
// with constant measurement errors
type CubicOptions struct {
	// Coef are the ascending coefficients d, c, b, a
	Coef []float64

	Start, End float64
	NumPoints  int

	// ErrX and ErrY are the constant standard deviations of every point
	ErrX, ErrY float64

	// Noise is the standard deviation of the gaussian noise added to y
	Noise float64

	Seed uint64
}

// NewDefaultCubicOptions returns y = 0.5x³ - 1.2x² + 3x + 2.5 on 50 points in [-5, 5] with
// noise and y errors of 5 and x errors of 0.05
func NewDefaultCubicOptions() *CubicOptions {
	return &CubicOptions{
		Coef:      []float64{2.5, 3.0, -1.2, 0.5},
		Start:     -5,
		End:       5,
		NumPoints: 50,
		ErrX:      0.05,
		ErrY:      5,
		Noise:     5,
		Seed:      42,
	}
}

// Cubic generates the cubic measurement table with columns x, y, "error x" and "error y"
func Cubic(opt *CubicOptions) (*dataset.Dataset, error) {
	if opt == nil {
		opt = NewDefaultCubicOptions()
	}
	x := Linspace(opt.Start, opt.End, opt.NumPoints)
	y := GeneratePolynomial(x, opt.Coef).
		Add(GenerateNoise(len(x), opt.Noise, NewRand(opt.Seed)))

	return dataset.New("cubic", []string{CubicColumnX, CubicColumnY, CubicColumnErrX, CubicColumnErrY}, [][]float64{
		x,
		y,
		GenerateConstY(len(x), opt.ErrX),
		GenerateConstY(len(x), opt.ErrY),
	})
}
