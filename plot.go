package labfit

import (
	"github.com/aouyang1/go-labfit/errs"
	"github.com/aouyang1/go-labfit/plot"
	"github.com/aouyang1/go-labfit/uncertain"
	"gonum.org/v1/gonum/floats"
)

const DefaultCurvePoints = 200

// PlotOptions configures the fit figure
type PlotOptions struct {
	Style *plot.Style
	DPI   int

	// OutputDir is the directory the figure is saved under
	OutputDir string

	// CurvePoints is the number of points the fitted curve is sampled at
	CurvePoints int
}

// PlotFit saves a figure of the data with error bars and the fitted curve next to the
// residuals. A .html path produces an interactive page, anything else a PNG image.
func (a *Analysis) PlotFit(path string, opt *PlotOptions) error {
	return errs.Do("labfit.Analysis.PlotFit", func() error {
		if a.result == nil {
			return ErrNoResult
		}
		if opt == nil {
			opt = &PlotOptions{}
		}
		curvePoints := opt.CurvePoints
		if curvePoints < 2 {
			curvePoints = DefaultCurvePoints
		}

		fig, err := plot.CreateFigure(&plot.FigureOptions{
			Titles:  []string{"Fit", "Residuals"},
			XLabels: []string{a.xCol},
			YLabels: []string{a.yCol, "residual"},
			Columns: 2,
			DPI:     opt.DPI,
			Style:   opt.Style,
		})
		if err != nil {
			return err
		}

		x := uncertain.Nominals(a.x)
		y := uncertain.Nominals(a.y)
		yErr := uncertain.StdDevs(a.y)

		curveX := floats.Span(make([]float64, curvePoints), floats.Min(x), floats.Max(x))
		curveY := a.result.Predict(curveX)

		residuals := a.result.Residuals
		if residuals == nil {
			predicted := a.result.Predict(x)
			residuals = make([]float64, len(y))
			floats.SubTo(residuals, y, predicted)
		}

		data, err := fig.Axes(0)
		if err != nil {
			return err
		}
		if err := data.ErrorBar("data", x, y, yErr); err != nil {
			return err
		}
		if err := data.Line("fit", curveX, curveY); err != nil {
			return err
		}

		res, err := fig.Axes(1)
		if err != nil {
			return err
		}
		if err := res.ErrorBar("residuals", x, residuals, yErr); err != nil {
			return err
		}
		if err := res.Line("", []float64{curveX[0], curveX[len(curveX)-1]}, []float64{0, 0}); err != nil {
			return err
		}

		return fig.Render(&plot.RenderOptions{
			LegendColumns: []int{1, 0},
			TightLayout:   true,
			SavePath:      path,
			OutputDir:     opt.OutputDir,
		})
	})
}
