package labfit

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/aouyang1/go-labfit/dataset"
	"github.com/aouyang1/go-labfit/errs"
	"github.com/aouyang1/go-labfit/fit"
	"github.com/aouyang1/go-labfit/models"
	"github.com/aouyang1/go-labfit/simulate"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cubicAnalysis(t testing.TB, scheme fit.LeaveOut) *Analysis {
	t.Helper()
	ds, err := simulate.Cubic(nil)
	require.Nil(t, err)

	a, err := New(&Options{
		Marker:    simulate.CubicMarker,
		Position:  dataset.Prefix,
		Jackknife: scheme,
	})
	require.Nil(t, err)

	entry, err := models.Default().Get(models.NamePolynomial)
	require.Nil(t, err)
	require.Nil(t, a.RunModel(ds, simulate.CubicColumnX, simulate.CubicColumnY, entry, []float64{1, 1, 1, 1}))
	return a
}

func TestOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		opt      *Options
		expected *Options
		err      error
	}{
		"nil": {
			expected: NewDefaultOptions(),
		},
		"empty marker": {
			opt:      &Options{Position: dataset.Prefix},
			expected: &Options{Fit: fit.NewDefaultOptions(), Marker: DefaultMarker, Position: dataset.Prefix},
		},
		"invalid position": {
			opt: &Options{Position: dataset.Position(7)},
			err: dataset.ErrInvalidPosition,
		},
		"invalid fit options": {
			opt: &Options{Fit: &fit.Options{MaxIterations: -1}},
			err: errs.ErrInvalidArgument,
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

			// solver defaults are filled in
			expected, err := td.expected.Validate()
			require.Nil(t, err)
			assert.Equal(t, expected, opt)
		})
	}
}

func TestRunCubic(t *testing.T) {
	a := cubicAnalysis(t, fit.LeaveOneOut())

	res := a.Result()
	require.NotNil(t, res)
	assert.Equal(t, 50, res.NumPoints)
	require.Len(t, res.Params, 4)

	expected := simulate.NewDefaultCubicOptions().Coef
	assert.InDelta(t, expected[3], res.Params[3].Nominal, 0.2)
	assert.InDelta(t, expected[2], res.Params[2].Nominal, 0.6)
	for _, p := range res.Params {
		assert.Greater(t, p.StdDev, 0.0)
	}
	assert.Greater(t, res.R2, 0.9)

	jk := a.Jackknife()
	require.NotNil(t, jk)
	assert.Len(t, jk.Subsets, 50)
	assert.Len(t, jk.Params, 4)
	assert.InDelta(t, res.Params[3].Nominal, jk.Params[3].Nominal, 0.1)

	y, err := a.Predict([]float64{0})
	require.Nil(t, err)
	assert.InDelta(t, res.Params[0].Nominal, y[0], 1e-12)
}

func TestRunExactColumns(t *testing.T) {
	ds, err := dataset.New("line", []string{"time", "distance"}, [][]float64{
		{1, 2, 3, 4, 5},
		{3.1, 4.9, 7.2, 8.8, 11.1},
	})
	require.Nil(t, err)

	a, err := New(nil)
	require.Nil(t, err)
	require.Nil(t, a.Run(ds, "time", "distance", models.Linear, []float64{1, 1}))

	assert.InDelta(t, 2.0, a.Result().Params[1].Nominal, 0.1)
	assert.Nil(t, a.Jackknife())

	r, err := a.Report()
	require.Nil(t, err)
	assert.Equal(t, CustomModelName, r.Model)
	assert.Empty(t, r.Jackknife)
}

func TestRunPartialFitOptionsScore(t *testing.T) {
	ds, err := dataset.New("line", []string{"time", "distance"}, [][]float64{
		{1, 2, 3, 4, 5},
		{3.1, 4.9, 7.2, 8.8, 11.1},
	})
	require.Nil(t, err)

	a, err := New(&Options{Fit: &fit.Options{MaxIterations: 100}})
	require.Nil(t, err)
	require.Nil(t, a.Run(ds, "time", "distance", models.Linear, []float64{1, 1}))

	res := a.Result()
	assert.Greater(t, res.R2, 0.9)
	assert.Less(t, res.AdjustedR2, res.R2)
	assert.Len(t, res.Residuals, 5)
}

func TestRunErrors(t *testing.T) {
	ds, err := dataset.New("line", []string{"x", "y", "y_err"}, [][]float64{
		{1, 2, 3},
		{2, 4, 6},
		{0.1, 0.1, -0.1},
	})
	require.Nil(t, err)
	clean, err := dataset.New("line", []string{"x", "y"}, [][]float64{{1, 2, 3}, {2, 4, 6}})
	require.Nil(t, err)

	linear, err := models.Default().Get(models.NameLinear)
	require.Nil(t, err)

	testData := map[string]struct {
		ds    *dataset.Dataset
		xCol  string
		yCol  string
		entry models.Entry
		p0    []float64
		err   error
	}{
		"nil dataset": {
			entry: linear,
			p0:    []float64{1, 1},
			err:   ErrNilDataset,
		},
		"parameter count": {
			ds:    clean,
			xCol:  "x",
			yCol:  "y",
			entry: linear,
			p0:    []float64{1, 1, 1},
			err:   models.ErrParamCount,
		},
		"unknown column": {
			ds:    clean,
			xCol:  "x",
			yCol:  "z",
			entry: linear,
			p0:    []float64{1, 1},
			err:   dataset.ErrUnknownColumn,
		},
		"negative error column": {
			ds:    ds,
			xCol:  "x",
			yCol:  "y",
			entry: linear,
			p0:    []float64{1, 1},
			err:   errs.ErrInvalidArgument,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			a, err := New(nil)
			require.Nil(t, err)
			err = a.RunModel(td.ds, td.xCol, td.yCol, td.entry, td.p0)
			assert.ErrorIs(t, err, td.err)
			assert.Nil(t, a.Result())
		})
	}
}

func TestNoResult(t *testing.T) {
	a, err := New(nil)
	require.Nil(t, err)

	_, err = a.Report()
	assert.ErrorIs(t, err, ErrNoResult)
	_, err = a.Predict([]float64{1})
	assert.ErrorIs(t, err, ErrNoResult)
	assert.ErrorIs(t, a.TablePrint(&bytes.Buffer{}), ErrNoResult)
	assert.ErrorIs(t, a.PlotFit("fit.png", nil), ErrNoResult)
}

func TestReport(t *testing.T) {
	a := cubicAnalysis(t, fit.LeaveKOut(10))

	r, err := a.Report()
	require.Nil(t, err)
	assert.Equal(t, "cubic", r.Dataset)
	assert.Len(t, r.Fingerprint, 16)
	assert.Equal(t, models.NamePolynomial, r.Model)
	assert.Equal(t, "prefix", r.Position)
	assert.Equal(t, 5, r.JackknifeSubsets)
	assert.Len(t, r.Jackknife, 4)

	var buf bytes.Buffer
	require.Nil(t, r.WriteJSON(&buf))

	var decoded map[string]interface{}
	require.Nil(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, r.Fingerprint, decoded["fingerprint"])
	assert.Equal(t, "polynomial", decoded["model"])
	assert.Contains(t, decoded, "fit")
	assert.Contains(t, decoded, "jackknife")

	buf.Reset()
	require.Nil(t, a.TablePrint(&buf))
	out := buf.String()
	assert.Contains(t, out, "Dataset:\n  Path: cubic\n")
	assert.Contains(t, out, "  Model: polynomial\n")
	assert.Contains(t, out, "Fit:\n")
	assert.Contains(t, out, "Jackknife:\n  Subsets: 5\n")
}

func TestPlotFit(t *testing.T) {
	a := cubicAnalysis(t, nil)

	testData := map[string]struct {
		path string
	}{
		"png":  {path: "cubic.png"},
		"html": {path: "cubic.html"},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "figures")
			err := a.PlotFit(td.path, &PlotOptions{DPI: 40, OutputDir: dir, CurvePoints: 50})
			require.Nil(t, err)

			info, err := os.Stat(filepath.Join(dir, td.path))
			require.Nil(t, err)
			assert.Greater(t, info.Size(), int64(0))
		})
	}
}
