// Package models is a collection of model functions to be fit with orthogonal distance
// regression. A model maps a parameter vector and the independent variable to the dependent
// variable. The number of parameters is implied by the initial guess supplied at fit time.
package models

import (
	"fmt"
	"math"

	"github.com/aouyang1/go-labfit/errs"
)

const NumPseudoVoigtParams = 7

var ErrParamCount = fmt.Errorf("unexpected number of parameters, %w", errs.ErrInvalidArgument)

// Model evaluates the dependent variable for each point of x given the parameters beta. Models
// must be pure and evaluate each point of x independently.
type Model func(beta, x []float64) []float64

// Linear returns beta[0] + beta[1]*x
func Linear(beta, x []float64) []float64 {
	y := make([]float64, len(x))
	for i, xi := range x {
		y[i] = beta[0] + beta[1]*xi
	}
	return y
}

// Polynomial returns sum(beta[i] * x^i). The degree is len(beta)-1 and coefficients are
// ordered by ascending power.
func Polynomial(beta, x []float64) []float64 {
	y := make([]float64, len(x))
	for i, xi := range x {
		// horner
		var v float64
		for j := len(beta) - 1; j >= 0; j-- {
			v = v*xi + beta[j]
		}
		y[i] = v
	}
	return y
}

// AsymmetricPseudoVoigt models a peak as a blend of a gaussian and a lorentzian with separate
// width and mixing parameters on each side of the center.
//
//	beta[0] = A      amplitude
//	beta[1] = x0     center
//	beta[2] = sigma1 width for x < x0
//	beta[3] = eta1   gaussian fraction for x < x0, clipped to [0, 1]
//	beta[4] = sigma2 width for x >= x0
//	beta[5] = eta2   gaussian fraction for x >= x0, clipped to [0, 1]
//	beta[6] = y0     vertical offset
func AsymmetricPseudoVoigt(beta, x []float64) []float64 {
	a, x0, y0 := beta[0], beta[1], beta[6]
	sigma1, eta1 := beta[2], clip(beta[3], 0, 1)
	sigma2, eta2 := beta[4], clip(beta[5], 0, 1)

	y := make([]float64, len(x))
	for i, xi := range x {
		sigma, eta := sigma1, eta1
		if xi >= x0 {
			sigma, eta = sigma2, eta2
		}
		y[i] = a*pseudoVoigt(xi, x0, sigma, eta) + y0
	}
	return y
}

func pseudoVoigt(x, x0, sigma, eta float64) float64 {
	z := (x - x0) / sigma
	g := math.Exp(-z * z / 2)
	l := 1 / (1 + z*z)
	return eta*g + (1-eta)*l
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
