package util

import (
	"math"
	"strconv"
)

func IndentExpand(indent string, growth int) string {
	indentByte := []byte(indent)
	out := make([]byte, 0, len(indent)*growth)
	for i := 0; i < growth; i++ {
		out = append(out, indentByte...)
	}
	return string(out)
}

// FormatFloat formats v with the printf verb precision, e.g. 'f' and 4 for "%.4f". Non finite
// values print as N/A.
func FormatFloat(v float64, verb byte, prec int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	return strconv.FormatFloat(v, verb, prec, 64)
}
