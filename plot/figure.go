// Package plot renders measurement and fit figures as PNG images or interactive HTML pages.
package plot

import (
	"fmt"

	"github.com/aouyang1/go-labfit/errs"
)

const DefaultDPI = 150

var (
	ErrInvalidColumns    = fmt.Errorf("number of subplots must be at least 1, %w", errs.ErrInvalidArgument)
	ErrInvalidDPI        = fmt.Errorf("dpi must be at least 1, %w", errs.ErrInvalidArgument)
	ErrAxesIndex         = fmt.Errorf("subplot index out of range, %w", errs.ErrInvalidArgument)
	ErrSeriesLenMismatch = fmt.Errorf("series arrays have different lengths, %w", errs.ErrInvalidArgument)
)

// FigureOptions configures the subplots of a figure. Titles and labels are broadcast over the
// subplots: a single entry applies to all of them, missing entries are empty and extra
// entries are dropped.
type FigureOptions struct {
	Titles  []string
	XLabels []string
	YLabels []string

	// Columns is the number of subplots, laid out side by side
	Columns int

	DPI   int
	Style *Style
}

func NewDefaultFigureOptions() *FigureOptions {
	return &FigureOptions{
		Columns: 1,
		DPI:     DefaultDPI,
		Style:   DefaultStyle(),
	}
}

// Validate returns a copy of the options with defaults filled in. Zero columns or dpi select
// the defaults.
func (f *FigureOptions) Validate() (*FigureOptions, error) {
	if f == nil {
		return NewDefaultFigureOptions(), nil
	}
	res := *f
	if res.Columns == 0 {
		res.Columns = 1
	}
	if res.Columns < 1 {
		return nil, fmt.Errorf("got %d, %w", res.Columns, ErrInvalidColumns)
	}
	if res.DPI == 0 {
		res.DPI = DefaultDPI
	}
	if res.DPI < 1 {
		return nil, fmt.Errorf("got %d, %w", res.DPI, ErrInvalidDPI)
	}
	if res.Style == nil {
		res.Style = DefaultStyle()
	}
	if err := res.Style.Validate(); err != nil {
		return nil, err
	}
	return &res, nil
}

type seriesKind int

const (
	kindLine seriesKind = iota
	kindScatter
	kindErrorBar
)

type series struct {
	name string
	kind seriesKind
	x    []float64
	y    []float64
	yErr []float64
}

// Axes is one subplot of a figure
type Axes struct {
	Title  string
	XLabel string
	YLabel string

	series []series
}

func (a *Axes) add(s series) error {
	if len(s.x) != len(s.y) {
		return fmt.Errorf("%q has %d x and %d y values, %w", s.name, len(s.x), len(s.y), ErrSeriesLenMismatch)
	}
	if s.yErr != nil && len(s.yErr) != len(s.y) {
		return fmt.Errorf("%q has %d y and %d error values, %w", s.name, len(s.y), len(s.yErr), ErrSeriesLenMismatch)
	}
	a.series = append(a.series, s)
	return nil
}

// Line plots y against x joined by lines
func (a *Axes) Line(name string, x, y []float64) error {
	return errs.Do("plot.Axes.Line", func() error {
		return a.add(series{name: name, kind: kindLine, x: x, y: y})
	})
}

// Scatter plots the points without joining them
func (a *Axes) Scatter(name string, x, y []float64) error {
	return errs.Do("plot.Axes.Scatter", func() error {
		return a.add(series{name: name, kind: kindScatter, x: x, y: y})
	})
}

// ErrorBar plots the points with vertical bars of half length yErr
func (a *Axes) ErrorBar(name string, x, y, yErr []float64) error {
	return errs.Do("plot.Axes.ErrorBar", func() error {
		if yErr == nil {
			yErr = make([]float64, len(y))
		}
		return a.add(series{name: name, kind: kindErrorBar, x: x, y: y, yErr: yErr})
	})
}

// Figure is a row of subplots sharing a style
type Figure struct {
	axes []*Axes
	opt  *FigureOptions
}

// CreateFigure builds a figure with titled and labelled empty subplots
func CreateFigure(opt *FigureOptions) (*Figure, error) {
	return errs.Call("plot.CreateFigure", func() (*Figure, error) {
		opt, err := opt.Validate()
		if err != nil {
			return nil, err
		}
		titles := broadcast(opt.Titles, opt.Columns, "")
		xLabels := broadcast(opt.XLabels, opt.Columns, "")
		yLabels := broadcast(opt.YLabels, opt.Columns, "")

		fig := &Figure{opt: opt, axes: make([]*Axes, opt.Columns)}
		for i := range fig.axes {
			fig.axes[i] = &Axes{
				Title:  titles[i],
				XLabel: xLabels[i],
				YLabel: yLabels[i],
			}
		}
		return fig, nil
	})
}

// Axes returns the i-th subplot
func (f *Figure) Axes(i int) (*Axes, error) {
	if i < 0 || i >= len(f.axes) {
		return nil, errs.Wrap("plot.Figure.Axes", fmt.Errorf("index %d of %d subplots, %w", i, len(f.axes), ErrAxesIndex))
	}
	return f.axes[i], nil
}

// NumAxes returns the number of subplots
func (f *Figure) NumAxes() int {
	return len(f.axes)
}

// broadcast adjusts vals to n entries. A single value is repeated, shorter slices are padded
// with fill and longer ones truncated.
func broadcast[T any](vals []T, n int, fill T) []T {
	res := make([]T, n)
	if len(vals) == 1 {
		for i := range res {
			res[i] = vals[0]
		}
		return res
	}
	for i := range res {
		res[i] = fill
		if i < len(vals) {
			res[i] = vals[i]
		}
	}
	return res
}
