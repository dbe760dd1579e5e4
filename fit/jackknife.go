package fit

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/aouyang1/go-labfit/errs"
	"github.com/aouyang1/go-labfit/models"
	"github.com/aouyang1/go-labfit/stats"
	"github.com/aouyang1/go-labfit/uncertain"
)

var (
	ErrNilLeaveOut   = fmt.Errorf("nil leave out scheme, %w", errs.ErrInvalidArgument)
	ErrSubsetFit     = fmt.Errorf("jackknife subset fit failed, %w", errs.ErrInvalidArgument)
	ErrParamMismatch = fmt.Errorf("initial parameters do not match the reference fit, %w", errs.ErrInvalidArgument)
)

// JackknifeOptions configures the subset fits of a jackknife
type JackknifeOptions struct {
	// Fit configures every fit. The error arrays follow the subsets. Nil uses the options of
	// the reference fit, or the defaults for Jackknife.
	Fit *Options

	// InitialParams seeds the subset fits. Defaults to the reference parameters. Jackknife
	// also uses it to fit the full data.
	InitialParams []float64
}

// JackknifeReport holds the jackknife estimate of the parameters and every subset fit
type JackknifeReport struct {
	// Params are the bias corrected parameters with their jackknife standard errors
	Params []uncertain.Value `json:"params"`

	// Reference are the parameters fitted on all points
	Reference []float64 `json:"reference"`

	// Subsets are the indices left out of each subset fit
	Subsets [][]int `json:"subsets"`

	// Fits are the subset fits in the order of Subsets
	Fits []*Result `json:"fits"`
}

// Jackknife fits the full data and then the subsets produced by scheme
func Jackknife(model models.Model, x, y []float64, scheme LeaveOut, opt *JackknifeOptions) (*JackknifeReport, error) {
	return errs.Call("fit.Jackknife", func() (*JackknifeReport, error) {
		if opt == nil {
			opt = &JackknifeOptions{}
		}
		ref, err := fit(model, x, y, opt.InitialParams, opt.Fit)
		if err != nil {
			return nil, fmt.Errorf("reference fit, %w", err)
		}
		return ref.jackknife(model, x, y, scheme, opt)
	})
}

// Jackknife estimates the parameter uncertainty by refitting the subsets produced by scheme.
// The receiver provides the reference parameters.
func (r *Result) Jackknife(model models.Model, x, y []float64, scheme LeaveOut, opt *JackknifeOptions) (*JackknifeReport, error) {
	return errs.Call("fit.Result.Jackknife", func() (*JackknifeReport, error) {
		return r.jackknife(model, x, y, scheme, opt)
	})
}

func (r *Result) jackknife(model models.Model, x, y []float64, scheme LeaveOut, opt *JackknifeOptions) (*JackknifeReport, error) {
	if scheme == nil {
		return nil, ErrNilLeaveOut
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("x has %d values and y has %d, %w", len(x), len(y), ErrLenMismatch)
	}
	if opt == nil {
		opt = &JackknifeOptions{}
	}

	reference := r.Nominals()
	p0 := opt.InitialParams
	if p0 == nil {
		p0 = reference
	}
	if len(p0) != len(reference) {
		return nil, fmt.Errorf("%d initial parameters for %d fitted, %w", len(p0), len(reference), ErrParamMismatch)
	}
	fitOpt := opt.Fit
	if fitOpt == nil {
		fitOpt = r.opt
	}
	fitOpt, err := fitOpt.Validate()
	if err != nil {
		return nil, err
	}

	subsets, err := scheme.Subsets(len(x))
	if err != nil {
		return nil, err
	}

	fits := make([]*Result, len(subsets))
	estimates := make([][]float64, len(reference))
	for i := range estimates {
		estimates[i] = make([]float64, len(subsets))
	}
	for s, left := range subsets {
		drop := make(map[int]struct{}, len(left))
		for _, i := range left {
			drop[i] = struct{}{}
		}
		res, err := fit(model, without(x, drop), without(y, drop), p0, fitOpt.without(drop))
		if err != nil {
			return nil, fmt.Errorf("subset %d leaving out %v, %w, %w", s, left, ErrSubsetFit, err)
		}
		fits[s] = res
		for i, b := range res.Nominals() {
			estimates[i][s] = b
		}
	}

	groups := scheme.Groups(len(x))
	params := make([]uncertain.Value, len(reference))
	for i, ref := range reference {
		nominal, variance := stats.Jackknife(ref, estimates[i], groups)
		params[i] = uncertain.New(nominal, math.Sqrt(variance))
	}
	slog.Debug("jackknife complete", "subsets", len(subsets), "groups", groups, "params", len(params))

	return &JackknifeReport{
		Params:    params,
		Reference: reference,
		Subsets:   subsets,
		Fits:      fits,
	}, nil
}
