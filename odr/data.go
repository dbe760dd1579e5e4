package odr

import (
	"fmt"
	"math"

	"github.com/aouyang1/go-labfit/errs"
)

var (
	ErrNoData            = fmt.Errorf("no data points, %w", errs.ErrInvalidArgument)
	ErrDataLenMismatch   = fmt.Errorf("data arrays have different lengths, %w", errs.ErrInvalidArgument)
	ErrNonPositiveError  = fmt.Errorf("measurement errors must be positive and finite, %w", errs.ErrInvalidArgument)
	ErrNonFiniteData     = fmt.Errorf("data contains non finite values, %w", errs.ErrInvalidArgument)
	ErrNonPositiveWeight = fmt.Errorf("weights must be positive and finite, %w", errs.ErrInvalidArgument)
)

// Data holds the observations and the weights of each point. A nil weight slice weighs every
// point with 1.
type Data struct {
	X []float64
	Y []float64

	// WeightX weighs the squared orthogonal correction of each x
	WeightX []float64

	// WeightY weighs the squared residual of each y
	WeightY []float64
}

// NewData builds the weighted data from the observations and their standard deviations. A nil
// standard deviation slice means no error on that variable. Weights are 1/sigma^2.
func NewData(x, y, sx, sy []float64) (*Data, error) {
	if len(x) == 0 {
		return nil, ErrNoData
	}
	if len(y) != len(x) {
		return nil, fmt.Errorf("x has %d values and y has %d, %w", len(x), len(y), ErrDataLenMismatch)
	}
	for i := range x {
		if !isFinite(x[i]) || !isFinite(y[i]) {
			return nil, fmt.Errorf("at index %d, %w", i, ErrNonFiniteData)
		}
	}

	wx, err := weights("x", sx, len(x))
	if err != nil {
		return nil, err
	}
	wy, err := weights("y", sy, len(x))
	if err != nil {
		return nil, err
	}

	return &Data{
		X:       x,
		Y:       y,
		WeightX: wx,
		WeightY: wy,
	}, nil
}

func (d *Data) validate() error {
	if d == nil || len(d.X) == 0 {
		return ErrNoData
	}
	n := len(d.X)
	if len(d.Y) != n {
		return fmt.Errorf("x has %d values and y has %d, %w", n, len(d.Y), ErrDataLenMismatch)
	}
	for name, w := range map[string][]float64{"x": d.WeightX, "y": d.WeightY} {
		if w == nil {
			continue
		}
		if len(w) != n {
			return fmt.Errorf("%s weights have %d values instead of %d, %w", name, len(w), n, ErrDataLenMismatch)
		}
		for i, v := range w {
			if !isFinite(v) || v <= 0 {
				return fmt.Errorf("%s weight at index %d is %g, %w", name, i, v, ErrNonPositiveWeight)
			}
		}
	}
	return nil
}

func weights(name string, sigma []float64, n int) ([]float64, error) {
	if sigma == nil {
		return nil, nil
	}
	if len(sigma) != n {
		return nil, fmt.Errorf("%s errors have %d values instead of %d, %w", name, len(sigma), n, ErrDataLenMismatch)
	}
	w := make([]float64, n)
	for i, s := range sigma {
		if !isFinite(s) || s <= 0 {
			return nil, fmt.Errorf("%s error at index %d is %g, %w", name, i, s, ErrNonPositiveError)
		}
		w[i] = 1 / (s * s)
	}
	return w, nil
}

func weightAt(w []float64, i int) float64 {
	if w == nil {
		return 1
	}
	return w[i]
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
