package odr

import (
	"fmt"
	"math"

	"github.com/aouyang1/go-labfit/errs"
)

const DefaultMaxIterations = 50

var (
	// DefaultSumSquaresTol is the relative sum of squares reduction below which the fit is
	// considered converged
	DefaultSumSquaresTol = math.Sqrt(eps)

	// DefaultParamTol is the relative parameter change below which the fit is considered
	// converged
	DefaultParamTol = math.Pow(eps, 2.0/3.0)
)

var (
	ErrNegativeSumSquaresTol = fmt.Errorf("negative sum of squares tolerance, %w", errs.ErrInvalidArgument)
	ErrNegativeParamTol      = fmt.Errorf("negative parameter tolerance, %w", errs.ErrInvalidArgument)
	ErrNegativeIterations    = fmt.Errorf("negative max iterations, %w", errs.ErrInvalidArgument)
)

// Options controls convergence of the solver. Zero values select the defaults.
type Options struct {
	// SumSquaresTol stops the iterations once the relative reduction of the weighted sum of
	// squares falls below it.
	SumSquaresTol float64 `json:"sum_squares_tol"`

	// ParamTol stops the iterations once the relative change of the parameters falls below it.
	ParamTol float64 `json:"param_tol"`

	// MaxIterations is the maximum number of accepted Levenberg-Marquardt steps.
	MaxIterations int `json:"max_iterations"`
}

// NewDefaultOptions returns the default solver options
func NewDefaultOptions() *Options {
	return &Options{
		SumSquaresTol: DefaultSumSquaresTol,
		ParamTol:      DefaultParamTol,
		MaxIterations: DefaultMaxIterations,
	}
}

// Validate returns a copy of the options with defaults filled in
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	if o.SumSquaresTol < 0 {
		return nil, ErrNegativeSumSquaresTol
	}
	if o.ParamTol < 0 {
		return nil, ErrNegativeParamTol
	}
	if o.MaxIterations < 0 {
		return nil, ErrNegativeIterations
	}

	res := *o
	if res.SumSquaresTol == 0 {
		res.SumSquaresTol = DefaultSumSquaresTol
	}
	if res.ParamTol == 0 {
		res.ParamTol = DefaultParamTol
	}
	if res.MaxIterations == 0 {
		res.MaxIterations = DefaultMaxIterations
	}
	return &res, nil
}
