package fit

import (
	"testing"

	"github.com/aouyang1/go-labfit/errs"
	"github.com/aouyang1/go-labfit/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaveOutSubsets(t *testing.T) {
	testData := map[string]struct {
		scheme   LeaveOut
		n        int
		expected [][]int
		err      error
	}{
		"one out": {
			scheme:   LeaveOneOut(),
			n:        3,
			expected: [][]int{{0}, {1}, {2}},
		},
		"single index": {
			scheme:   LeaveOutIndex(2),
			n:        4,
			expected: [][]int{{2}},
		},
		"listed indices keep order": {
			scheme:   LeaveOutIndices(3, 0),
			n:        4,
			expected: [][]int{{3}, {0}},
		},
		"except": {
			scheme:   LeaveOneOutExcept(1, 3),
			n:        5,
			expected: [][]int{{0}, {2}, {4}},
		},
		"blocks": {
			scheme:   LeaveKOut(2),
			n:        5,
			expected: [][]int{{0, 1}, {2, 3}, {4}},
		},
		"out of range": {
			scheme: LeaveOutIndex(4),
			n:      4,
			err:    ErrLeaveOutIndex,
		},
		"negative index": {
			scheme: LeaveOneOutExcept(-1),
			n:      4,
			err:    ErrLeaveOutIndex,
		},
		"duplicate": {
			scheme: LeaveOutIndices(1, 1),
			n:      4,
			err:    ErrLeaveOutIndex,
		},
		"zero block": {
			scheme: LeaveKOut(0),
			n:      4,
			err:    ErrBlockSize,
		},
		"everything excepted": {
			scheme: LeaveOneOutExcept(0, 1),
			n:      2,
			err:    ErrNoSubsets,
		},
		"no indices": {
			scheme: LeaveOutIndices(),
			n:      2,
			err:    ErrNoSubsets,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			subsets, err := td.scheme.Subsets(td.n)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				assert.ErrorIs(t, err, errs.ErrInvalidArgument)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, subsets)
		})
	}
}

func TestJackknifeIdenticalFits(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6}
	y := models.Linear([]float64{1, 2}, x)

	report, err := Jackknife(models.Linear, x, y, LeaveOneOut(), &JackknifeOptions{InitialParams: []float64{0, 1}})
	require.Nil(t, err)

	require.Len(t, report.Params, 2)
	assert.InDelta(t, 1.0, report.Params[0].Nominal, 1e-6)
	assert.InDelta(t, 2.0, report.Params[1].Nominal, 1e-6)
	assert.InDelta(t, 0.0, report.Params[0].StdDev, 1e-5)
	assert.InDelta(t, 0.0, report.Params[1].StdDev, 1e-5)
	assert.Len(t, report.Fits, len(x))
	assert.Equal(t, [][]int{{0}, {1}, {2}, {3}, {4}, {5}}, report.Subsets)
	assert.InDeltaSlice(t, []float64{1, 2}, report.Reference, 1e-6)
}

func TestResultJackknife(t *testing.T) {
	res, err := Fit(models.Linear, lineX, lineY, []float64{1, 1}, nil)
	require.Nil(t, err)

	report, err := res.Jackknife(models.Linear, lineX, lineY, LeaveOneOut(), nil)
	require.Nil(t, err)

	require.Len(t, report.Fits, len(lineX))
	assert.Equal(t, res.Nominals(), report.Reference)

	// subset fits see four points each
	for i, f := range report.Fits {
		assert.Equal(t, len(lineX)-1, f.NumPoints, "subset %d", i)
	}

	// mean of the subset estimates reconstructs the bias correction
	for i := range report.Params {
		var mean float64
		for _, f := range report.Fits {
			mean += f.Params[i].Nominal
		}
		mean /= float64(len(report.Fits))
		g := float64(len(report.Fits))
		assert.InDelta(t, g*report.Reference[i]-(g-1)*mean, report.Params[i].Nominal, 1e-9)
		assert.Greater(t, report.Params[i].StdDev, 0.0)
	}
}

func TestJackknifeSingleSubset(t *testing.T) {
	res, err := Fit(models.Linear, lineX, lineY, []float64{1, 1}, nil)
	require.Nil(t, err)

	report, err := res.Jackknife(models.Linear, lineX, lineY, LeaveOutIndex(0), nil)
	require.Nil(t, err)
	require.Len(t, report.Fits, 1)

	// scaled by the number of points, not the single subset
	n := float64(len(lineX))
	for i, p := range report.Params {
		expected := n*res.Params[i].Nominal - (n-1)*report.Fits[0].Params[i].Nominal
		assert.InDelta(t, expected, p.Nominal, 1e-12)
		assert.Equal(t, 0.0, p.StdDev)
	}
}

func TestJackknifePartialSchemes(t *testing.T) {
	// orthogonal regression of lineY, every group scaled by the 5 points
	testData := map[string]struct {
		scheme  LeaveOut
		nominal []float64
		stdDev  []float64
	}{
		"listed indices": {
			scheme:  LeaveOutIndices(0, 1, 2),
			nominal: []float64{1.1454012, 1.9771828},
			stdDev:  []float64{0.1447385, 0.0338581},
		},
		"except": {
			scheme:  LeaveOneOutExcept(3, 4),
			nominal: []float64{1.1454012, 1.9771828},
			stdDev:  []float64{0.1447385, 0.0338581},
		},
		"one out": {
			scheme:  LeaveOneOut(),
			nominal: []float64{1.0432395, 1.9999522},
			stdDev:  []float64{0.1746640, 0.0600815},
		},
		"blocks scale by the block count": {
			scheme:  LeaveKOut(2),
			nominal: []float64{0.9183614, 2.0296785},
			stdDev:  []float64{0.1089430, 0.0415376},
		},
	}

	res, err := Fit(models.Linear, lineX, lineY, []float64{1, 1}, nil)
	require.Nil(t, err)
	assert.InDeltaSlice(t, []float64{1.0371158, 1.9942947}, res.Nominals(), 1e-5)

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			report, err := res.Jackknife(models.Linear, lineX, lineY, td.scheme, nil)
			require.Nil(t, err)
			require.Len(t, report.Params, 2)
			for i, p := range report.Params {
				assert.InDelta(t, td.nominal[i], p.Nominal, 1e-4, "param %d", i)
				assert.InDelta(t, td.stdDev[i], p.StdDev, 1e-4, "param %d", i)
			}
		})
	}
}

func TestLeaveOutGroups(t *testing.T) {
	testData := map[string]struct {
		scheme   LeaveOut
		n        int
		expected int
	}{
		"one out":      {scheme: LeaveOneOut(), n: 6, expected: 6},
		"single index": {scheme: LeaveOutIndex(2), n: 6, expected: 6},
		"indices":      {scheme: LeaveOutIndices(0, 1), n: 6, expected: 6},
		"except":       {scheme: LeaveOneOutExcept(4), n: 6, expected: 6},
		"even blocks":  {scheme: LeaveKOut(2), n: 6, expected: 3},
		"short block":  {scheme: LeaveKOut(4), n: 6, expected: 2},
		"zero block":   {scheme: LeaveKOut(0), n: 6, expected: 0},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, td.scheme.Groups(td.n))
		})
	}
}

func TestJackknifeErrorArraysFollowSubsets(t *testing.T) {
	sy := []float64{0.1, 0.2, 0.1, 0.2, 0.1}
	opt := &Options{ErrY: sy}
	res, err := Fit(models.Linear, lineX, lineY, []float64{1, 1}, opt)
	require.Nil(t, err)

	report, err := res.Jackknife(models.Linear, lineX, lineY, LeaveOutIndex(1), nil)
	require.Nil(t, err)

	expected, err := Fit(models.Linear,
		[]float64{1, 3, 4, 5}, []float64{3.1, 7.2, 8.8, 11.1},
		res.Nominals(),
		&Options{ErrY: []float64{0.1, 0.1, 0.2, 0.1}},
	)
	require.Nil(t, err)
	assert.InDeltaSlice(t, expected.Nominals(), report.Fits[0].Nominals(), 1e-12)
}

func TestJackknifeErrors(t *testing.T) {
	res, err := Fit(models.Linear, lineX, lineY, []float64{1, 1}, nil)
	require.Nil(t, err)

	testData := map[string]struct {
		scheme LeaveOut
		x, y   []float64
		opt    *JackknifeOptions
		err    error
	}{
		"nil scheme": {
			x: lineX, y: lineY,
			err: ErrNilLeaveOut,
		},
		"length mismatch": {
			scheme: LeaveOneOut(), x: lineX, y: lineY[:2],
			err: ErrLenMismatch,
		},
		"param mismatch": {
			scheme: LeaveOneOut(), x: lineX, y: lineY,
			opt: &JackknifeOptions{InitialParams: []float64{1}},
			err: ErrParamMismatch,
		},
		"subset too small": {
			scheme: LeaveKOut(4), x: lineX, y: lineY,
			err: ErrSubsetFit,
		},
		"invalid scheme": {
			scheme: LeaveOutIndex(10), x: lineX, y: lineY,
			err: ErrLeaveOutIndex,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := res.Jackknife(models.Linear, td.x, td.y, td.scheme, td.opt)
			assert.ErrorIs(t, err, td.err)
			assert.ErrorIs(t, err, errs.ErrInvalidArgument)
		})
	}

	_, err = Jackknife(models.Linear, lineX, lineY, LeaveOneOut(), nil)
	assert.ErrorIs(t, err, ErrNoParams)
}
