// Package fit runs orthogonal distance regression fits of model functions, scores them and
// estimates parameter uncertainty by jackknife resampling.
package fit

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/aouyang1/go-labfit/errs"
	"github.com/aouyang1/go-labfit/floatsunrolled"
	"github.com/aouyang1/go-labfit/models"
	"github.com/aouyang1/go-labfit/odr"
	"github.com/aouyang1/go-labfit/uncertain"
)

var (
	ErrNilModel     = fmt.Errorf("nil model, %w", errs.ErrInvalidArgument)
	ErrNoParams     = fmt.Errorf("no initial parameters, %w", errs.ErrInvalidArgument)
	ErrLenMismatch  = fmt.Errorf("x and y have different lengths, %w", errs.ErrInvalidArgument)
	ErrTooFewPoints = fmt.Errorf("fewer points than parameters, %w", errs.ErrInvalidArgument)
)

// Fit fits model to the points (x, y) starting from p0. Measurement errors are passed through
// the options and weigh each point by 1/sigma^2.
func Fit(model models.Model, x, y, p0 []float64, opt *Options) (*Result, error) {
	return errs.Call("fit.Fit", func() (*Result, error) {
		return fit(model, x, y, p0, opt)
	})
}

// FitValues fits uncertainty tagged points. Standard deviations of an array that are all zero
// mean that variable has no error. Error arrays set in opt are replaced.
func FitValues(model models.Model, x, y []uncertain.Value, p0 []float64, opt *Options) (*Result, error) {
	return errs.Call("fit.FitValues", func() (*Result, error) {
		opt, err := opt.Validate()
		if err != nil {
			return nil, err
		}
		opt.ErrX, opt.ErrY = nil, nil
		if uncertain.HasUncertainty(x) {
			opt.ErrX = uncertain.StdDevs(x)
		}
		if uncertain.HasUncertainty(y) {
			opt.ErrY = uncertain.StdDevs(y)
		}
		return fit(model, uncertain.Nominals(x), uncertain.Nominals(y), p0, opt)
	})
}

func fit(model models.Model, x, y, p0 []float64, opt *Options) (*Result, error) {
	if model == nil {
		return nil, ErrNilModel
	}
	if len(p0) == 0 {
		return nil, ErrNoParams
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("x has %d values and y has %d, %w", len(x), len(y), ErrLenMismatch)
	}
	n, p := len(x), len(p0)
	if n < p {
		return nil, fmt.Errorf("%d points for %d parameters, %w", n, p, ErrTooFewPoints)
	}

	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}

	data, err := odr.NewData(x, y, opt.ErrX, opt.ErrY)
	if err != nil {
		return nil, err
	}
	out, err := odr.Run(odr.Func(model), data, p0, opt.solverOptions())
	if err != nil {
		return nil, err
	}

	params := make([]uncertain.Value, len(out.Beta))
	for i, b := range out.Beta {
		params[i] = uncertain.New(b, out.SDBeta[i])
	}

	res := &Result{
		Params:     params,
		R2:         math.NaN(),
		AdjustedR2: math.NaN(),
		NumPoints:  n,
		Output:     out,
		model:      model,
		opt:        opt,
	}
	if !opt.SkipStats {
		res.scores(x, y)
	}
	slog.Debug("fit complete", "points", n, "params", p, "iterations", out.Iterations, "info", out.Info)
	return res, nil
}

// scores fills in the residuals and determination coefficients. Undefined statistics are
// logged and left as NaN.
func (r *Result) scores(x, y []float64) {
	predicted := r.model(r.Output.Beta, x)
	r.Residuals = floatsunrolled.SubTo(nil, y, predicted)

	r2, err := RSquared(predicted, y)
	if err != nil {
		slog.Warn("r-squared undefined", "points", len(y), "error", err.Error())
		return
	}
	r.R2 = r2

	adj, err := AdjustedRSquared(r2, len(y), len(r.Params))
	if err != nil {
		slog.Warn("adjusted r-squared undefined", "points", len(y), "params", len(r.Params), "error", err.Error())
		return
	}
	r.AdjustedR2 = adj
}
