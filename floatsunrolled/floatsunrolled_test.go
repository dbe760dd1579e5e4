package floatsunrolled

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
)

func checkPanic(t *testing.T, err error) {
	r := recover()
	if r == nil {
		return
	}
	if err != nil {
		rErr, ok := r.(error)
		assert.True(t, ok)
		assert.EqualError(t, rErr, err.Error())
		return
	}

	assert.Nil(t, r)
}

func TestSumSquares(t *testing.T) {
	testData := map[string]struct {
		a        []float64
		expected float64
	}{
		"empty": {
			expected: 0,
		},
		"tail only": {
			a:        []float64{1, -2, 3},
			expected: 14,
		},
		"batch": {
			a:        []float64{1, 2, 3, 4},
			expected: 30,
		},
		"batch with tail": {
			a:        []float64{1, 2, 3, 4, -5, 0.5},
			expected: 55.25,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, td.expected, SumSquares(td.a), 1e-12)
		})
	}
}

func TestSumSquaresMatchesDot(t *testing.T) {
	a := generateRandomSlice(1003)
	assert.InDelta(t, floats.Dot(a, a), SumSquares(a), 1e-9)
}

func TestSubTo(t *testing.T) {
	testData := map[string]struct {
		dst      []float64
		s        []float64
		t        []float64
		err      error
		expected []float64
	}{
		"subto length mismatch": {
			s:   []float64{1, 2, 3},
			t:   []float64{1, 2},
			err: ErrSliceLengthMismatch,
		},
		"subto tail only": {
			s:        []float64{1, 2, 3},
			t:        []float64{3, 2, 1},
			expected: []float64{-2, 0, 2},
		},
		"subto valid no destination": {
			s:        []float64{1, 2, 3, 4},
			t:        []float64{4, 3, 2, 1},
			expected: []float64{-3, -1, 1, 3},
		},
		"subto valid with destination": {
			dst:      make([]float64, 6),
			s:        []float64{1, 2, 3, 4, 5, 6},
			t:        []float64{4, 3, 2, 1, 1, 1},
			expected: []float64{-3, -1, 1, 3, 4, 5},
		},
		"subto invalid destination": {
			dst: make([]float64, 3),
			s:   []float64{1, 2, 3, 4},
			t:   []float64{4, 3, 2, 1},
			err: ErrOutputSliceLengthMismatch,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			defer checkPanic(t, td.err)
			res := SubTo(td.dst, td.s, td.t)
			assert.Equal(t, td.expected, res)
		})
	}
}

func generateRandomSlice(size int) []float64 {
	a := make([]float64, size)
	for i := 0; i < len(a); i++ {
		a[i] = rand.NormFloat64()
	}
	return a
}

func BenchmarkSumSquares(b *testing.B) {
	a := generateRandomSlice(1000)
	b.ResetTimer()
	for b.Loop() {
		SumSquares(a)
	}
}

func BenchmarkNaiveSumSquares(b *testing.B) {
	a := generateRandomSlice(1000)
	b.ResetTimer()
	for b.Loop() {
		floats.Dot(a, a)
	}
}

func BenchmarkSubTo(b *testing.B) {
	a := generateRandomSlice(1000)
	b.ResetTimer()
	for b.Loop() {
		SubTo(a, a, a)
	}
}

func BenchmarkNaiveSubTo(b *testing.B) {
	a := generateRandomSlice(1000)
	b.ResetTimer()
	for b.Loop() {
		floats.SubTo(a, a, a)
	}
}
