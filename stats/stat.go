package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DetectOutliers returns the indices of the values outside the percentile range expanded by
// the tukey factor on each side
func DetectOutliers(y []float64, lowerPerc, upperPerc, tukeyFactor float64) []int {
	if len(y) == 0 {
		return nil
	}
	lowerPerc = math.Max(lowerPerc, 0.0)
	upperPerc = math.Min(upperPerc, 1.0)
	tukeyFactor = math.Max(tukeyFactor, 0.0)

	yCopy := make([]float64, len(y))
	copy(yCopy, y)
	sort.Float64s(yCopy)
	lowerIdx := int(math.Floor(float64(len(yCopy)) * lowerPerc))
	upperIdx := int(math.Ceil(float64(len(yCopy))*upperPerc)) - 1
	lowerIdx = min(max(lowerIdx, 0), len(yCopy)-1)
	upperIdx = min(max(upperIdx, lowerIdx), len(yCopy)-1)

	lower := yCopy[lowerIdx]
	upper := yCopy[upperIdx]
	innerRange := upper - lower
	lower -= innerRange * tukeyFactor
	upper += innerRange * tukeyFactor

	var outlierIdx []int
	for i := 0; i < len(y); i++ {
		if y[i] > upper || y[i] < lower {
			outlierIdx = append(outlierIdx, i)
		}
	}
	return outlierIdx
}

// Jackknife combines the estimate on the full data with the estimates on the resampled
// subsets of data split into g groups. The nominal value is bias corrected,
// g*reference - (g-1)*mean(estimates), and the variance is (g-1)/g * sum((estimate - mean)^2).
// A non positive g falls back to the number of estimates.
func Jackknife(reference float64, estimates []float64, g int) (nominal, variance float64) {
	if len(estimates) == 0 {
		return reference, 0
	}
	if g <= 0 {
		g = len(estimates)
	}
	gf := float64(g)
	mean := stat.Mean(estimates, nil)
	nominal = gf*reference - (gf-1)*mean

	dev := make([]float64, len(estimates))
	copy(dev, estimates)
	floats.AddConst(-mean, dev)
	variance = (gf - 1) / gf * floats.Dot(dev, dev)
	return nominal, variance
}
