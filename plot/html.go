package plot

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// renderHTML writes an Apache Echarts page with one chart per subplot
func (f *Figure) renderHTML(w io.Writer, layouts []axesLayout) error {
	page := components.NewPage()
	for i, a := range f.axes {
		page.AddCharts(f.lineChart(a, layouts[i]))
	}
	return page.Render(w)
}

func (f *Figure) lineChart(a *Axes, layout axesLayout) *charts.Line {
	style := f.opt.Style
	dpi := float64(f.opt.DPI)
	width := int(math.Round(style.Width * dpi / float64(len(f.axes))))
	height := int(math.Round(style.Height * dpi))

	xAxis := opts.XAxis{Name: a.XLabel, Type: "value"}
	yAxis := opts.YAxis{Name: a.YLabel, Type: "value"}
	if layout.xFixed {
		xAxis.Min, xAxis.Max = layout.xRange.Min, layout.xRange.Max
	}
	if layout.yFixed {
		yAxis.Min, yAxis.Max = layout.yRange.Min, layout.yRange.Max
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(
			opts.Initialization{
				Width:           fmt.Sprintf("%dpx", width),
				Height:          fmt.Sprintf("%dpx", height),
				BackgroundColor: style.Colors.Background,
			},
		),
		charts.WithTitleOpts(
			opts.Title{
				Title: a.Title,
			},
		),
		charts.WithXAxisOpts(xAxis),
		charts.WithYAxisOpts(yAxis),
		charts.WithLegendOpts(
			opts.Legend{
				Show: opts.Bool(layout.legendColumns > 0),
			},
		),
	)

	for _, s := range a.series {
		x, y, yErr := finitePoints(s)
		switch s.kind {
		case kindLine:
			lineData := make([]opts.LineData, 0, len(x))
			for i := range x {
				lineData = append(lineData, opts.LineData{Value: []interface{}{x[i], y[i]}})
			}
			line.AddSeries(s.name, lineData)
		default:
			scatterData := make([]opts.ScatterData, 0, len(x))
			for i := range x {
				scatterData = append(scatterData, opts.ScatterData{Value: []interface{}{x[i], y[i]}})
			}
			scatter := charts.NewScatter()
			scatter.AddSeries(s.name, scatterData)
			line.Overlap(scatter)
		}

		if s.kind != kindErrorBar {
			continue
		}
		// one segment per point, separated by gaps, sharing the legend entry of the points
		bars := make([]opts.LineData, 0, 3*len(x))
		for i := range x {
			bars = append(bars,
				opts.LineData{Value: []interface{}{x[i], y[i] - yErr[i]}},
				opts.LineData{Value: []interface{}{x[i], y[i] + yErr[i]}},
				opts.LineData{Value: []interface{}{x[i], "-"}},
			)
		}
		line.AddSeries(s.name, bars)
	}
	return line
}
