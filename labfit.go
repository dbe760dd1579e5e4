// Package labfit pairs measured columns with their uncertainties, fits a model to them with
// orthogonal distance regression, estimates the parameter errors by jackknife and reports or
// plots the outcome.
package labfit

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aouyang1/go-labfit/dataset"
	"github.com/aouyang1/go-labfit/errs"
	"github.com/aouyang1/go-labfit/fit"
	"github.com/aouyang1/go-labfit/models"
	"github.com/aouyang1/go-labfit/uncertain"
)

// CustomModelName names models passed to Run without a registry entry
const CustomModelName = "custom"

var (
	ErrNilDataset = fmt.Errorf("nil dataset, %w", errs.ErrInvalidArgument)
	ErrNoResult   = fmt.Errorf("no analysis has been run, %w", errs.ErrInvalidArgument)
)

// Analysis fits a model to two columns of a dataset and keeps the outcome
type Analysis struct {
	opt *Options

	dataset *dataset.Dataset
	xCol    string
	yCol    string
	entry   models.Entry
	x       []uncertain.Value
	y       []uncertain.Value

	result    *fit.Result
	jackknife *fit.JackknifeReport
}

// New creates an analysis with the provided options. If no options are provided the defaults
// are used.
func New(opt *Options) (*Analysis, error) {
	return errs.Call("labfit.New", func() (*Analysis, error) {
		opt, err := opt.Validate()
		if err != nil {
			return nil, err
		}
		return &Analysis{opt: opt}, nil
	})
}

// Run fits model to columns xCol and yCol starting from p0. Columns with a matching error
// column carry its values as measurement errors, the others are treated as exact.
func (a *Analysis) Run(ds *dataset.Dataset, xCol, yCol string, model models.Model, p0 []float64) error {
	return a.RunModel(ds, xCol, yCol, models.Entry{Name: CustomModelName, Model: model}, p0)
}

// RunModel is Run for a registered model. The parameter count is checked against the entry
// and its name is kept for the report.
func (a *Analysis) RunModel(ds *dataset.Dataset, xCol, yCol string, entry models.Entry, p0 []float64) error {
	return errs.Do("labfit.Analysis.Run", func() error {
		if ds == nil {
			return ErrNilDataset
		}
		if err := entry.CheckParams(p0); err != nil {
			return err
		}

		pairs, err := ds.PairWithUncertainty(a.opt.Marker, a.opt.Position)
		if err != nil {
			return err
		}
		x, err := values(ds, pairs, xCol)
		if err != nil {
			return err
		}
		y, err := values(ds, pairs, yCol)
		if err != nil {
			return err
		}

		res, err := fit.FitValues(entry.Model, x, y, p0, a.opt.Fit)
		if err != nil {
			return err
		}

		var jk *fit.JackknifeReport
		if a.opt.Jackknife != nil {
			jk, err = res.Jackknife(entry.Model, uncertain.Nominals(x), uncertain.Nominals(y), a.opt.Jackknife, nil)
			if err != nil {
				return err
			}
		}

		a.dataset = ds
		a.xCol, a.yCol = xCol, yCol
		a.entry = entry
		a.x, a.y = x, y
		a.result = res
		a.jackknife = jk

		slog.Info("analysis complete",
			"dataset", ds.Path(),
			"x", xCol,
			"y", yCol,
			"model", entry.Name,
			"points", res.NumPoints,
			"r_squared", res.R2,
			"jackknife", jk != nil,
		)
		return nil
	})
}

// values returns the column with its paired errors, or exact values when it has none
func values(ds *dataset.Dataset, pairs map[string][]uncertain.Value, col string) ([]uncertain.Value, error) {
	if vals, exists := pairs[col]; exists {
		return vals, nil
	}
	nominal, err := ds.Col(col)
	if err != nil {
		return nil, err
	}
	vals := make([]uncertain.Value, len(nominal))
	for i, v := range nominal {
		vals[i] = uncertain.Exact(v)
	}
	return vals, nil
}

// Result returns the fit of the last run, nil before any run
func (a *Analysis) Result() *fit.Result {
	return a.result
}

// Jackknife returns the jackknife of the last run, nil when disabled or before any run
func (a *Analysis) Jackknife() *fit.JackknifeReport {
	return a.jackknife
}

// Predict evaluates the fitted model at x
func (a *Analysis) Predict(x []float64) ([]float64, error) {
	if a.result == nil {
		return nil, errs.Wrap("labfit.Analysis.Predict", ErrNoResult)
	}
	return a.result.Predict(x), nil
}

// TablePrint writes the report of the last run as aligned tables
func (a *Analysis) TablePrint(w io.Writer) error {
	r, err := a.Report()
	if err != nil {
		return err
	}
	return r.TablePrint(w)
}
