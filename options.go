package labfit

import (
	"fmt"

	"github.com/aouyang1/go-labfit/dataset"
	"github.com/aouyang1/go-labfit/fit"
)

const DefaultMarker = "err"

// Options configures an analysis
type Options struct {
	// Fit configures the fit. The error arrays are taken from the paired columns.
	Fit *fit.Options

	// Jackknife selects the subsets refitted to estimate the parameter uncertainty. Nil
	// disables the jackknife.
	Jackknife fit.LeaveOut

	// Marker identifies the error columns, e.g. "temp" pairs with "temp_err"
	Marker string

	// Position is where the marker sits in the error column names
	Position dataset.Position
}

func NewDefaultOptions() *Options {
	return &Options{
		Fit:      fit.NewDefaultOptions(),
		Marker:   DefaultMarker,
		Position: dataset.Suffix,
	}
}

// Validate returns a copy of the options with defaults filled in
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	res := *o
	if res.Marker == "" {
		res.Marker = DefaultMarker
	}
	if res.Position != dataset.Suffix && res.Position != dataset.Prefix {
		return nil, fmt.Errorf("%s, %w", res.Position, dataset.ErrInvalidPosition)
	}
	fitOpt, err := res.Fit.Validate()
	if err != nil {
		return nil, err
	}
	res.Fit = fitOpt
	return &res, nil
}
