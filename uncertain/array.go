package uncertain

import "fmt"

// NewArray pairs nominal values with their standard deviations
func NewArray(nominal, stdDev []float64) ([]Value, error) {
	if len(nominal) != len(stdDev) {
		return nil, fmt.Errorf("got %d nominal values and %d std devs, %w", len(nominal), len(stdDev), ErrLenMismatch)
	}
	res := make([]Value, len(nominal))
	for i := range nominal {
		if stdDev[i] < 0 {
			return nil, fmt.Errorf("at index %d, %w", i, ErrNegativeStdDev)
		}
		res[i] = Value{Nominal: nominal[i], StdDev: stdDev[i]}
	}
	return res, nil
}

// Nominals returns the nominal values of the array
func Nominals(vals []Value) []float64 {
	res := make([]float64, len(vals))
	for i, v := range vals {
		res[i] = v.Nominal
	}
	return res
}

// StdDevs returns the standard deviations of the array
func StdDevs(vals []Value) []float64 {
	res := make([]float64, len(vals))
	for i, v := range vals {
		res[i] = v.StdDev
	}
	return res
}

// HasUncertainty reports whether any element carries a non zero standard deviation
func HasUncertainty(vals []Value) bool {
	for _, v := range vals {
		if v.StdDev != 0 {
			return true
		}
	}
	return false
}
