package plot

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/aouyang1/go-labfit/errs"
)

const DefaultOutputDir = "images"

var (
	ErrInvalidLimits  = fmt.Errorf("axis limits must satisfy min < max, %w", errs.ErrInvalidArgument)
	ErrNegativeLegend = fmt.Errorf("negative legend columns, %w", errs.ErrInvalidArgument)
)

// Limits bounds an axis
type Limits struct {
	Min float64
	Max float64
}

// RenderOptions configures the legends, axis limits and outputs of a figure. Per subplot
// settings are broadcast like the figure labels.
type RenderOptions struct {
	// LegendColumns sets the legend layout of each subplot. 0 hides it, 1 stacks the entries
	// and more lays them out in a row. Defaults to 1.
	LegendColumns []int

	// TightLayout reduces the padding around each subplot
	TightLayout bool

	// XLimits and YLimits fix the axis ranges. A nil entry fits the data.
	XLimits []*Limits
	YLimits []*Limits

	// Show receives the interactive HTML page when set
	Show io.Writer

	// SavePath is the file name under OutputDir. A .html extension writes the interactive page,
	// anything else a PNG image. Empty skips saving.
	SavePath string

	OutputDir string
}

func NewDefaultRenderOptions() *RenderOptions {
	return &RenderOptions{
		TightLayout: true,
		OutputDir:   DefaultOutputDir,
	}
}

// Validate returns a copy of the options with defaults filled in
func (r *RenderOptions) Validate() (*RenderOptions, error) {
	if r == nil {
		return NewDefaultRenderOptions(), nil
	}
	res := *r
	if res.OutputDir == "" {
		res.OutputDir = DefaultOutputDir
	}
	for _, c := range res.LegendColumns {
		if c < 0 {
			return nil, fmt.Errorf("got %d, %w", c, ErrNegativeLegend)
		}
	}
	for _, lims := range [][]*Limits{res.XLimits, res.YLimits} {
		for _, l := range lims {
			if l == nil {
				continue
			}
			if !(l.Min < l.Max) {
				return nil, fmt.Errorf("got [%g, %g], %w", l.Min, l.Max, ErrInvalidLimits)
			}
		}
	}
	return &res, nil
}

// axesLayout holds the resolved render settings of one subplot
type axesLayout struct {
	legendColumns int
	xRange        Limits
	yRange        Limits
	xFixed        bool
	yFixed        bool
}

func (f *Figure) layouts(opt *RenderOptions) []axesLayout {
	n := len(f.axes)
	legends := broadcast(opt.LegendColumns, n, 1)
	xLims := broadcast(opt.XLimits, n, nil)
	yLims := broadcast(opt.YLimits, n, nil)

	res := make([]axesLayout, n)
	for i, a := range f.axes {
		xr, yr := a.extents()
		l := axesLayout{legendColumns: legends[i], xRange: xr, yRange: yr}
		if xLims[i] != nil {
			l.xRange, l.xFixed = *xLims[i], true
		}
		if yLims[i] != nil {
			l.yRange, l.yFixed = *yLims[i], true
		}
		res[i] = l
	}
	return res
}

// extents returns the data ranges of the subplot padded by 5%. Empty or degenerate ranges are
// widened so they can be drawn.
func (a *Axes) extents() (Limits, Limits) {
	x := Limits{Min: math.Inf(1), Max: math.Inf(-1)}
	y := Limits{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, s := range a.series {
		for i := range s.x {
			if !finite(s.x[i]) || !finite(s.y[i]) {
				continue
			}
			var e float64
			if s.yErr != nil && finite(s.yErr[i]) {
				e = math.Abs(s.yErr[i])
			}
			x.Min, x.Max = math.Min(x.Min, s.x[i]), math.Max(x.Max, s.x[i])
			y.Min, y.Max = math.Min(y.Min, s.y[i]-e), math.Max(y.Max, s.y[i]+e)
		}
	}
	return pad(x), pad(y)
}

func pad(l Limits) Limits {
	if l.Min > l.Max {
		return Limits{Min: 0, Max: 1}
	}
	span := l.Max - l.Min
	if span == 0 {
		span = math.Max(math.Abs(l.Min), 1)
	}
	return Limits{Min: l.Min - 0.05*span, Max: l.Max + 0.05*span}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Render saves the figure and/or writes the interactive page to opt.Show
func (f *Figure) Render(opt *RenderOptions) error {
	return errs.Do("plot.Figure.Render", func() error {
		opt, err := opt.Validate()
		if err != nil {
			return err
		}
		layouts := f.layouts(opt)

		if opt.SavePath != "" {
			path := filepath.Join(opt.OutputDir, opt.SavePath)
			if err := f.save(path, layouts, opt.TightLayout); err != nil {
				return err
			}
			slog.Info("figure saved", "path", path)
		}
		if opt.Show != nil {
			if err := f.renderHTML(opt.Show, layouts); err != nil {
				return err
			}
		}
		return nil
	})
}

func (f *Figure) save(path string, layouts []axesLayout, tight bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(path), ".html") {
		err = f.renderHTML(file, layouts)
	} else {
		err = f.renderPNG(file, layouts, tight)
	}
	if err != nil {
		return err
	}
	return file.Close()
}
