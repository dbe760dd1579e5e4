// Package simulate generates synthetic measurement series
package simulate

import (
	"math/rand/v2"

	mat_ "github.com/aouyang1/go-labfit/mat"
	"github.com/aouyang1/go-labfit/models"
	"gonum.org/v1/gonum/floats"
)

type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

// NewRand returns a deterministic source for the given seed
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// Linspace returns n evenly spaced points from start to end inclusive
func Linspace(start, end float64, n int) Series {
	return Series(mat_.Linspace(start, end, n))
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

// GeneratePolynomial evaluates the polynomial with ascending coefficients at x
func GeneratePolynomial(x []float64, coef []float64) Series {
	return Series(models.Polynomial(coef, x))
}

// GenerateNoise draws n gaussian samples with zero mean and the given standard deviation. A nil
// source uses the global one.
func GenerateNoise(n int, stdDev float64, rng *rand.Rand) Series {
	norm := rand.NormFloat64
	if rng != nil {
		norm = rng.NormFloat64
	}
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, norm()*stdDev)
	}
	return Series(y)
}
