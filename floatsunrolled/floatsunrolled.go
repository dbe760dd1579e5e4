// floatsunrolled is inspired by the SIMD blog post
// https://github.com/camdencheek/simd_blog/blob/main/main.go
//
// Slices of any length are accepted: whole batches run unrolled and the remainder runs in a
// plain loop.
package floatsunrolled

import (
	"errors"
)

const UnrollBatch = 4

var (
	ErrSliceLengthMismatch       = errors.New("slices must have equal lengths")
	ErrOutputSliceLengthMismatch = errors.New("output slice length not the same as input")
)

// SumSquares returns the sum of the squared values of a
func SumSquares(a []float64) float64 {
	tail := len(a) - len(a)%UnrollBatch

	var sum float64
	for i := 0; i < tail; i += UnrollBatch {
		aTmp := a[i : i+UnrollBatch : i+UnrollBatch]
		s0 := aTmp[0] * aTmp[0]
		s1 := aTmp[1] * aTmp[1]
		s2 := aTmp[2] * aTmp[2]
		s3 := aTmp[3] * aTmp[3]
		sum += s0 + s1 + s2 + s3
	}
	for _, v := range a[tail:] {
		sum += v * v
	}
	return sum
}

// SubTo stores s - t in dst, allocating dst when nil
func SubTo(dst, s, t []float64) []float64 {
	if len(s) != len(t) {
		panic(ErrSliceLengthMismatch)
	}

	if dst == nil {
		dst = make([]float64, len(s))
	} else if len(dst) != len(s) {
		panic(ErrOutputSliceLengthMismatch)
	}

	tail := len(s) - len(s)%UnrollBatch
	for i := 0; i < tail; i += UnrollBatch {
		dstTmp := dst[i : i+UnrollBatch : i+UnrollBatch]
		sTmp := s[i : i+UnrollBatch : i+UnrollBatch]
		tTmp := t[i : i+UnrollBatch : i+UnrollBatch]
		dstTmp[0] = sTmp[0] - tTmp[0]
		dstTmp[1] = sTmp[1] - tTmp[1]
		dstTmp[2] = sTmp[2] - tTmp[2]
		dstTmp[3] = sTmp[3] - tTmp[3]
	}
	for i := tail; i < len(s); i++ {
		dst[i] = s[i] - t[i]
	}

	return dst
}
