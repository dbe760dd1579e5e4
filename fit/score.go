package fit

import (
	"errors"
	"fmt"
	"math"

	"github.com/aouyang1/go-labfit/errs"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrResLenMismatch     = fmt.Errorf("predicted and actual have different lengths, %w", errs.ErrInvalidArgument)
	ErrConstantTarget     = fmt.Errorf("total sum of squares is zero, %w", errs.ErrComputationUndefined)
	ErrNoDegreesOfFreedom = fmt.Errorf("not enough points for the number of parameters, %w", errs.ErrComputationUndefined)
	errNoValues           = errors.New("no finite values")
)

// RSquared computes the coefficient of determination 1 - SCR/SCT where SCR is the residual sum
// of squares and SCT the total sum of squares of actual. NaN pairs are ignored. A constant
// target is only defined when the prediction is exact.
func RSquared(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return math.NaN(), fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}

	predictCopy := make([]float64, 0, len(predicted))
	actualCopy := make([]float64, 0, len(actual))
	for i := 0; i < len(predicted); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		predictCopy = append(predictCopy, predicted[i])
		actualCopy = append(actualCopy, actual[i])
	}
	if len(actualCopy) == 0 {
		return math.NaN(), fmt.Errorf("%w, %w", errNoValues, errs.ErrComputationUndefined)
	}

	mean := stat.Mean(actualCopy, nil)
	var scr, sct float64
	for i, a := range actualCopy {
		scr += (a - predictCopy[i]) * (a - predictCopy[i])
		sct += (a - mean) * (a - mean)
	}
	if sct == 0 {
		if scr == 0 {
			return 1.0, nil
		}
		return math.NaN(), ErrConstantTarget
	}
	return stat.RSquaredFrom(predictCopy, actualCopy, nil), nil
}

// AdjustedRSquared corrects r2 for numParams parameters fitted on n points,
// 1 - (1 - r2)(n - 1)/(n - numParams - 1)
func AdjustedRSquared(r2 float64, n, numParams int) (float64, error) {
	dof := n - numParams - 1
	if dof <= 0 {
		return math.NaN(), fmt.Errorf("%d points and %d parameters, %w", n, numParams, ErrNoDegreesOfFreedom)
	}
	return 1 - (1-r2)*float64(n-1)/float64(dof), nil
}
