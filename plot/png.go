package plot

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	tightPadding = 20
	loosePadding = 50

	lineWidth   = 2.0
	markerWidth = 3.0
	barWidth    = 1.0
)

// renderPNG draws every subplot with go-chart and composes them side by side
func (f *Figure) renderPNG(w io.Writer, layouts []axesLayout, tight bool) error {
	style := f.opt.Style
	dpi := float64(f.opt.DPI)
	width := int(math.Round(style.Width * dpi))
	height := int(math.Round(style.Height * dpi))
	cellWidth := width / len(f.axes)

	canvas := image.NewRGBA(image.Rect(0, 0, cellWidth*len(f.axes), height))
	bg := mustColor(style.Colors.Background)
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	for i, a := range f.axes {
		ch := f.chart(a, layouts[i], cellWidth, height, tight)

		var buf bytes.Buffer
		if err := ch.Render(chart.PNG, &buf); err != nil {
			return err
		}
		img, err := png.Decode(&buf)
		if err != nil {
			return err
		}
		offset := image.Pt(i*cellWidth, 0)
		draw.Draw(canvas, img.Bounds().Add(offset), img, img.Bounds().Min, draw.Over)
	}
	return png.Encode(w, canvas)
}

func (f *Figure) chart(a *Axes, layout axesLayout, width, height int, tight bool) chart.Chart {
	style := f.opt.Style
	textStyle := func(size float64, hex string) chart.Style {
		return chart.Style{FontSize: size, FontColor: mustColor(hex)}
	}
	padding := chart.Box{Top: loosePadding, Left: loosePadding, Right: loosePadding, Bottom: loosePadding}
	if tight {
		padding = chart.Box{Top: tightPadding, Left: tightPadding, Right: tightPadding, Bottom: tightPadding}
	}
	tickColor := mustColor(style.Colors.Ticks)
	gridStyle := chart.Style{StrokeColor: mustColor(style.Colors.Grid), StrokeWidth: 1}

	ch := chart.Chart{
		Title:      a.Title,
		TitleStyle: textStyle(style.FontSizes.Title, style.Colors.Title),
		Width:      width,
		Height:     height,
		DPI:        float64(f.opt.DPI),
		Background: chart.Style{
			FillColor: mustColor(style.Colors.Background),
			Padding:   padding,
		},
		Canvas: chart.Style{FillColor: mustColor(style.Colors.Background)},
		XAxis: chart.XAxis{
			Name:           a.XLabel,
			NameStyle:      textStyle(style.FontSizes.XAxis, style.Colors.XAxis),
			Style:          chart.Style{FontSize: style.FontSizes.Ticks, FontColor: tickColor, StrokeColor: tickColor},
			Range:          &chart.ContinuousRange{Min: layout.xRange.Min, Max: layout.xRange.Max},
			GridMajorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Name:           a.YLabel,
			NameStyle:      textStyle(style.FontSizes.YAxis, style.Colors.YAxis),
			Style:          chart.Style{FontSize: style.FontSizes.Ticks, FontColor: tickColor, StrokeColor: tickColor},
			Range:          &chart.ContinuousRange{Min: layout.yRange.Min, Max: layout.yRange.Max},
			GridMajorStyle: gridStyle,
		},
	}

	var named []chart.Series
	for idx, s := range a.series {
		color := chart.GetDefaultColor(idx)
		x, y, yErr := finitePoints(s)
		if len(x) == 0 {
			continue
		}

		var points chart.ContinuousSeries
		switch s.kind {
		case kindLine:
			points = chart.ContinuousSeries{
				Name:    s.name,
				XValues: x,
				YValues: y,
				Style:   chart.Style{StrokeColor: color, StrokeWidth: lineWidth},
			}
		default:
			points = chart.ContinuousSeries{
				Name:    s.name,
				XValues: x,
				YValues: y,
				Style:   chart.Style{StrokeWidth: chart.Disabled, DotWidth: markerWidth, DotColor: color},
			}
		}
		ch.Series = append(ch.Series, points)
		if s.name != "" {
			named = append(named, points)
		}

		if s.kind != kindErrorBar {
			continue
		}
		for i := range x {
			if yErr[i] == 0 {
				continue
			}
			ch.Series = append(ch.Series, chart.ContinuousSeries{
				XValues: []float64{x[i], x[i]},
				YValues: []float64{y[i] - yErr[i], y[i] + yErr[i]},
				Style:   chart.Style{StrokeColor: color, StrokeWidth: barWidth},
			})
		}
	}

	// go-chart needs a visible series to draw the axes, use one without stroke or dots
	if len(ch.Series) == 0 {
		invisible := drawing.Color{R: 255, G: 255, B: 255, A: 0}
		ch.Series = []chart.Series{chart.ContinuousSeries{
			XValues: []float64{layout.xRange.Min, layout.xRange.Max},
			YValues: []float64{layout.yRange.Min, layout.yRange.Max},
			Style:   chart.Style{StrokeColor: invisible, StrokeWidth: chart.Disabled},
		}}
	}

	if layout.legendColumns > 0 && len(named) > 0 {
		legendChart := ch
		legendChart.Series = named
		legendStyle := chart.Style{FontSize: style.FontSizes.Legend}
		if layout.legendColumns > 1 {
			ch.Elements = []chart.Renderable{chart.LegendThin(&legendChart, legendStyle)}
		} else {
			ch.Elements = []chart.Renderable{chart.Legend(&legendChart, legendStyle)}
		}
	}
	return ch
}

// finitePoints drops the points go-chart cannot place
func finitePoints(s series) ([]float64, []float64, []float64) {
	x := make([]float64, 0, len(s.x))
	y := make([]float64, 0, len(s.y))
	var yErr []float64
	for i := range s.x {
		if !finite(s.x[i]) || !finite(s.y[i]) {
			continue
		}
		x = append(x, s.x[i])
		y = append(y, s.y[i])
		if s.yErr != nil {
			e := s.yErr[i]
			if !finite(e) {
				e = 0
			}
			yErr = append(yErr, math.Abs(e))
		}
	}
	return x, y, yErr
}
