package simulate

import (
	"testing"

	"github.com/aouyang1/go-labfit/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestSeries(t *testing.T) {
	numPnts := 7
	s := GenerateConstY(numPnts, 1)

	res := s.Add(GenerateConstY(numPnts, 2))
	require.Equal(t, Series([]float64{3, 3, 3, 3, 3, 3, 3}), res)

	assert.InDeltaSlice(t, []float64{-1, -0.5, 0, 0.5, 1}, Linspace(-1, 1, 5), 1e-12)
	assert.InDeltaSlice(t, []float64{1, 3, 9}, GeneratePolynomial([]float64{0, 1, 2}, []float64{1, 1, 1}), 1e-12)
}

func TestGenerateNoise(t *testing.T) {
	a := GenerateNoise(1000, 5, NewRand(42))
	b := GenerateNoise(1000, 5, NewRand(42))
	assert.Equal(t, a, b)

	c := GenerateNoise(1000, 5, NewRand(7))
	assert.NotEqual(t, a, c)

	assert.InDelta(t, 0.0, stat.Mean(a, nil), 0.5)
	assert.InDelta(t, 5.0, stat.StdDev(a, nil), 0.5)

	assert.Len(t, GenerateNoise(3, 1, nil), 3)
}

func TestCubic(t *testing.T) {
	ds, err := Cubic(nil)
	require.Nil(t, err)
	assert.Equal(t, 50, ds.Len())
	assert.Equal(t, []string{CubicColumnX, CubicColumnY, CubicColumnErrX, CubicColumnErrY}, ds.Names())

	pairs, err := ds.PairWithUncertainty(CubicMarker, dataset.Prefix)
	require.Nil(t, err)
	require.Contains(t, pairs, CubicColumnX)
	require.Contains(t, pairs, CubicColumnY)
	assert.Equal(t, -5.0, pairs[CubicColumnX][0].Nominal)
	assert.Equal(t, 0.05, pairs[CubicColumnX][0].StdDev)
	assert.Equal(t, 5.0, pairs[CubicColumnY][49].StdDev)

	again, err := Cubic(nil)
	require.Nil(t, err)
	fa, _ := ds.Fingerprint()
	fb, _ := again.Fingerprint()
	assert.Equal(t, fa, fb)
}
