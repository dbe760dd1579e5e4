package plot

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/aouyang1/go-labfit/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

func TestParseStyle(t *testing.T) {
	testData := map[string]struct {
		content  string
		expected func() *Style
		err      error
	}{
		"empty": {
			expected: DefaultStyle,
		},
		"partial": {
			content: "colors:\n  grid: \"#000000\"\nfont_sizes:\n  title: 20\nwidth: 10\n",
			expected: func() *Style {
				s := DefaultStyle()
				s.Colors.Grid = "#000000"
				s.FontSizes.Title = 20
				s.Width = 10
				return s
			},
		},
		"unknown key": {
			content: "colour: red\n",
			err:     ErrStyleParse,
		},
		"bad color": {
			content: "colors:\n  title: blue\n",
			err:     ErrInvalidColor,
		},
		"bad font size": {
			content: "font_sizes:\n  legend: -1\n",
			err:     ErrInvalidFontSize,
		},
		"bad size": {
			content: "height: 0\n",
			err:     ErrInvalidSize,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			s, err := ParseStyle([]byte(td.content))
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				assert.ErrorIs(t, err, errs.ErrInvalidArgument)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected(), s)
		})
	}
}

func TestLoadStyle(t *testing.T) {
	_, err := LoadStyle(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrStyleFile)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	path := filepath.Join(t.TempDir(), "style.yaml")
	require.Nil(t, os.WriteFile(path, []byte("colors:\n  background: \"#F0F0F0\"\n"), 0o644))
	s, err := LoadStyle(path)
	require.Nil(t, err)
	assert.Equal(t, "#F0F0F0", s.Colors.Background)
	assert.Equal(t, DefaultStyle().Colors.Title, s.Colors.Title)
}

func TestParseColor(t *testing.T) {
	c, err := parseColor("#1F2020")
	require.Nil(t, err)
	assert.Equal(t, drawing.Color{R: 0x1F, G: 0x20, B: 0x20, A: 255}, c)

	c, err = parseColor("acacac")
	require.Nil(t, err)
	assert.Equal(t, drawing.Color{R: 0xAC, G: 0xAC, B: 0xAC, A: 255}, c)

	_, err = parseColor("#12345")
	assert.ErrorIs(t, err, ErrInvalidColor)
	_, err = parseColor("#GGGGGG")
	assert.ErrorIs(t, err, ErrInvalidColor)
	_, err = parseColor("#12G456")
	assert.ErrorIs(t, err, ErrInvalidColor)
	_, err = parseColor("#FFF")
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestBroadcast(t *testing.T) {
	testData := map[string]struct {
		vals     []string
		n        int
		expected []string
	}{
		"nil":      {n: 2, expected: []string{"", ""}},
		"single":   {vals: []string{"a"}, n: 3, expected: []string{"a", "a", "a"}},
		"shorter":  {vals: []string{"a", "b"}, n: 3, expected: []string{"a", "b", ""}},
		"longer":   {vals: []string{"a", "b", "c"}, n: 2, expected: []string{"a", "b"}},
		"matching": {vals: []string{"a", "b"}, n: 2, expected: []string{"a", "b"}},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, broadcast(td.vals, td.n, ""))
		})
	}
}

func TestCreateFigure(t *testing.T) {
	testData := map[string]struct {
		opt     *FigureOptions
		titles  []string
		yLabels []string
		err     error
	}{
		"default": {
			titles:  []string{""},
			yLabels: []string{""},
		},
		"broadcast labels": {
			opt: &FigureOptions{
				Titles:  []string{"data", "residuals"},
				YLabels: []string{"y"},
				Columns: 3,
			},
			titles:  []string{"data", "residuals", ""},
			yLabels: []string{"y", "y", "y"},
		},
		"negative columns": {
			opt: &FigureOptions{Columns: -1},
			err: ErrInvalidColumns,
		},
		"negative dpi": {
			opt: &FigureOptions{DPI: -5},
			err: ErrInvalidDPI,
		},
		"bad style": {
			opt: &FigureOptions{Style: &Style{}},
			err: ErrInvalidColor,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			fig, err := CreateFigure(td.opt)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			require.Equal(t, len(td.titles), fig.NumAxes())
			for i := range td.titles {
				a, err := fig.Axes(i)
				require.Nil(t, err)
				assert.Equal(t, td.titles[i], a.Title)
				assert.Equal(t, td.yLabels[i], a.YLabel)
			}
			_, err = fig.Axes(fig.NumAxes())
			assert.ErrorIs(t, err, ErrAxesIndex)
		})
	}
}

func TestAxesSeries(t *testing.T) {
	a := &Axes{}
	assert.ErrorIs(t, a.Line("l", []float64{1, 2}, []float64{1}), ErrSeriesLenMismatch)
	assert.ErrorIs(t, a.ErrorBar("e", []float64{1, 2}, []float64{1, 2}, []float64{1}), ErrSeriesLenMismatch)
	require.Nil(t, a.ErrorBar("e", []float64{1, 2}, []float64{1, 2}, nil))
	assert.Equal(t, []float64{0, 0}, a.series[0].yErr)
}

func TestExtents(t *testing.T) {
	a := &Axes{}
	x, y := a.extents()
	assert.Equal(t, Limits{Min: 0, Max: 1}, x)
	assert.Equal(t, Limits{Min: 0, Max: 1}, y)

	require.Nil(t, a.ErrorBar("e", []float64{0, 10, math.NaN()}, []float64{1, 3, 100}, []float64{1, 1, 1}))
	x, y = a.extents()
	assert.InDelta(t, -0.5, x.Min, 1e-12)
	assert.InDelta(t, 10.5, x.Max, 1e-12)
	assert.InDelta(t, -0.2, y.Min, 1e-12)
	assert.InDelta(t, 4.2, y.Max, 1e-12)
}

func TestRenderOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		opt      *RenderOptions
		expected *RenderOptions
		err      error
	}{
		"nil": {
			expected: NewDefaultRenderOptions(),
		},
		"output dir default": {
			opt:      &RenderOptions{SavePath: "fig.png"},
			expected: &RenderOptions{SavePath: "fig.png", OutputDir: DefaultOutputDir},
		},
		"bad limits": {
			opt: &RenderOptions{XLimits: []*Limits{nil, {Min: 1, Max: 1}}},
			err: ErrInvalidLimits,
		},
		"negative legend": {
			opt: &RenderOptions{LegendColumns: []int{-1}},
			err: ErrNegativeLegend,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt, err := td.opt.Validate()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, opt)
		})
	}
}

func testFigure(t *testing.T) *Figure {
	t.Helper()
	fig, err := CreateFigure(&FigureOptions{
		Titles:  []string{"Data", "Residuals"},
		XLabels: []string{"x"},
		YLabels: []string{"y", "r"},
		Columns: 2,
		DPI:     50,
	})
	require.Nil(t, err)

	x := []float64{1, 2, 3, 4}
	data, _ := fig.Axes(0)
	require.Nil(t, data.ErrorBar("measured", x, []float64{2.1, 3.9, 6.2, 7.8}, []float64{0.2, 0.2, 0.3, 0.3}))
	require.Nil(t, data.Line("fit", x, []float64{2, 4, 6, 8}))
	res, _ := fig.Axes(1)
	require.Nil(t, res.Scatter("residuals", x, []float64{0.1, -0.1, 0.2, -0.2}))
	return fig
}

func TestRenderPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "images")
	fig := testFigure(t)

	err := fig.Render(&RenderOptions{
		LegendColumns: []int{2, 0},
		XLimits:       []*Limits{{Min: 0, Max: 5}},
		SavePath:      "fit.png",
		OutputDir:     dir,
	})
	require.Nil(t, err)

	f, err := os.Open(filepath.Join(dir, "fit.png"))
	require.Nil(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.Nil(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 250, img.Bounds().Dy())
}

func TestRenderHTML(t *testing.T) {
	dir := t.TempDir()
	fig := testFigure(t)

	var shown bytes.Buffer
	err := fig.Render(&RenderOptions{
		SavePath:  "fit.html",
		OutputDir: dir,
		Show:      &shown,
	})
	require.Nil(t, err)

	saved, err := os.ReadFile(filepath.Join(dir, "fit.html"))
	require.Nil(t, err)
	assert.Contains(t, string(saved), "Residuals")
	assert.Contains(t, string(saved), "measured")
	assert.Contains(t, shown.String(), "Residuals")
}

func TestRenderEmptyFigure(t *testing.T) {
	dir := t.TempDir()
	fig, err := CreateFigure(&FigureOptions{Titles: []string{"empty"}, DPI: 40})
	require.Nil(t, err)

	require.Nil(t, fig.Render(&RenderOptions{SavePath: "empty.png", OutputDir: dir}))
	_, err = os.Stat(filepath.Join(dir, "empty.png"))
	assert.Nil(t, err)
}

func TestRenderNothing(t *testing.T) {
	fig := testFigure(t)
	assert.Nil(t, fig.Render(nil))

	err := fig.Render(&RenderOptions{YLimits: []*Limits{{Min: 2, Max: 1}}})
	assert.ErrorIs(t, err, ErrInvalidLimits)
}
