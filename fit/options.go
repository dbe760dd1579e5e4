package fit

import (
	"github.com/aouyang1/go-labfit/odr"
)

// Options configures a fit
type Options struct {
	// ErrX are the standard deviations of x. Nil means x is exact up to the solver's
	// unit weighting.
	ErrX []float64 `json:"-"`

	// ErrY are the standard deviations of y
	ErrY []float64 `json:"-"`

	// SkipStats leaves residuals, R² and adjusted R² uncomputed after the fit
	SkipStats bool `json:"skip_stats"`

	SumSquaresTol float64 `json:"sum_squares_tol"`
	ParamTol      float64 `json:"param_tol"`
	MaxIterations int     `json:"max_iterations"`
}

// NewDefaultOptions computes the fit statistics and leaves the solver controls to their
// defaults
func NewDefaultOptions() *Options {
	return &Options{}
}

// Validate returns a copy of the options with the solver defaults filled in
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	solver, err := o.solverOptions().Validate()
	if err != nil {
		return nil, err
	}

	res := *o
	res.SumSquaresTol = solver.SumSquaresTol
	res.ParamTol = solver.ParamTol
	res.MaxIterations = solver.MaxIterations
	return &res, nil
}

func (o *Options) solverOptions() *odr.Options {
	return &odr.Options{
		SumSquaresTol: o.SumSquaresTol,
		ParamTol:      o.ParamTol,
		MaxIterations: o.MaxIterations,
	}
}

// without returns a copy of the options whose error arrays skip the given indices
func (o *Options) without(drop map[int]struct{}) *Options {
	res := *o
	res.ErrX = without(o.ErrX, drop)
	res.ErrY = without(o.ErrY, drop)
	return &res
}
