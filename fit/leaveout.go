package fit

import (
	"fmt"
	"slices"

	"github.com/aouyang1/go-labfit/errs"
)

var (
	ErrLeaveOutIndex = fmt.Errorf("invalid leave out index, %w", errs.ErrInvalidArgument)
	ErrBlockSize     = fmt.Errorf("leave out block size must be at least 1, %w", errs.ErrInvalidArgument)
	ErrNoSubsets     = fmt.Errorf("leave out scheme produces no subsets, %w", errs.ErrInvalidArgument)
)

// LeaveOut produces the groups of indices left out of each jackknife subset fit
type LeaveOut interface {
	// Subsets returns, in order, the indices left out of each subset of n points
	Subsets(n int) ([][]int, error)

	// Groups returns the number of groups n points split into. It scales the jackknife
	// aggregate even when only some of the groups are left out.
	Groups(n int) int
}

type leaveOneOut struct{}

// LeaveOneOut leaves every point out once
func LeaveOneOut() LeaveOut {
	return leaveOneOut{}
}

func (leaveOneOut) Groups(n int) int { return n }

func (leaveOneOut) Subsets(n int) ([][]int, error) {
	res := make([][]int, n)
	for i := range res {
		res[i] = []int{i}
	}
	return checkSubsets(res)
}

type leaveIndices struct {
	idx []int
}

// LeaveOutIndex builds a single subset without point i
func LeaveOutIndex(i int) LeaveOut {
	return leaveIndices{idx: []int{i}}
}

// LeaveOutIndices leaves each of the listed points out once, in the given order
func LeaveOutIndices(idx ...int) LeaveOut {
	return leaveIndices{idx: slices.Clone(idx)}
}

func (leaveIndices) Groups(n int) int { return n }

func (l leaveIndices) Subsets(n int) ([][]int, error) {
	if err := checkIndices(l.idx, n); err != nil {
		return nil, err
	}
	res := make([][]int, len(l.idx))
	for i, idx := range l.idx {
		res[i] = []int{idx}
	}
	return checkSubsets(res)
}

type leaveOneOutExcept struct {
	except []int
}

// LeaveOneOutExcept leaves every point out once except the listed ones, which stay in every
// subset
func LeaveOneOutExcept(idx ...int) LeaveOut {
	return leaveOneOutExcept{except: slices.Clone(idx)}
}

func (leaveOneOutExcept) Groups(n int) int { return n }

func (l leaveOneOutExcept) Subsets(n int) ([][]int, error) {
	if err := checkIndices(l.except, n); err != nil {
		return nil, err
	}
	res := make([][]int, 0, n)
	for i := 0; i < n; i++ {
		if slices.Contains(l.except, i) {
			continue
		}
		res = append(res, []int{i})
	}
	return checkSubsets(res)
}

type leaveKOut struct {
	k int
}

// LeaveKOut leaves out consecutive blocks of k points. A trailing block shorter than k is
// also left out.
func LeaveKOut(k int) LeaveOut {
	return leaveKOut{k: k}
}

// Groups counts the blocks, including a short trailing block
func (l leaveKOut) Groups(n int) int {
	if l.k < 1 {
		return 0
	}
	return (n + l.k - 1) / l.k
}

func (l leaveKOut) Subsets(n int) ([][]int, error) {
	if l.k < 1 {
		return nil, fmt.Errorf("got %d, %w", l.k, ErrBlockSize)
	}
	var res [][]int
	for start := 0; start < n; start += l.k {
		end := min(start+l.k, n)
		block := make([]int, 0, end-start)
		for i := start; i < end; i++ {
			block = append(block, i)
		}
		res = append(res, block)
	}
	return checkSubsets(res)
}

func checkIndices(idx []int, n int) error {
	seen := make(map[int]struct{}, len(idx))
	for _, i := range idx {
		if i < 0 || i >= n {
			return fmt.Errorf("index %d out of range [0, %d), %w", i, n, ErrLeaveOutIndex)
		}
		if _, dup := seen[i]; dup {
			return fmt.Errorf("duplicate index %d, %w", i, ErrLeaveOutIndex)
		}
		seen[i] = struct{}{}
	}
	return nil
}

func checkSubsets(subsets [][]int) ([][]int, error) {
	if len(subsets) == 0 {
		return nil, ErrNoSubsets
	}
	return subsets, nil
}

// without returns a copy of vals skipping the dropped indices. Nil stays nil.
func without(vals []float64, drop map[int]struct{}) []float64 {
	if vals == nil {
		return nil
	}
	res := make([]float64, 0, len(vals))
	for i, v := range vals {
		if _, dropped := drop[i]; dropped {
			continue
		}
		res = append(res, v)
	}
	return res
}
