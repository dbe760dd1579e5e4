package dataset

import (
	"fmt"
	"log/slog"

	"github.com/aouyang1/go-labfit/errs"
)

var (
	ErrNilCondition    = fmt.Errorf("nil condition, %w", errs.ErrInvalidArgument)
	ErrMaskLenMismatch = fmt.Errorf("mask length does not match, %w", errs.ErrInvalidArgument)
	ErrMaskIndex       = fmt.Errorf("invalid mask index, %w", errs.ErrInvalidArgument)
)

// Condition selects rows of a dataset. It is one of Expression, Expressions, Mask or
// Predicate.
type Condition interface {
	// keep returns one flag per row of ds
	keep(ds *Dataset, preserveUnspecified bool) ([]bool, error)
}

// Expression is a boolean expression over column identifiers, e.g. "temp > 20 and p_err < 0.1".
// Columns are bound by their name when it is a valid identifier and by their normalized name.
// Go operators plus and, or and not are accepted and the math package is available. Use
// parentheses with not, as in "not (x > 1)".
type Expression string

func (e Expression) keep(ds *Dataset, _ bool) ([]bool, error) {
	names := ds.df.Names()
	binds := bindings(names)
	fn, err := compile(string(e), binds)
	if err != nil {
		return nil, err
	}
	return evalRows(fn, string(e), names, ds.rows(), binds)
}

// Expressions applies each expression in turn to the rows kept by the previous one
type Expressions []string

func (e Expressions) keep(ds *Dataset, preserve bool) ([]bool, error) {
	mask := make([]bool, ds.Len())
	remaining := make([]int, ds.Len())
	for i := range remaining {
		remaining[i] = i
		mask[i] = true
	}

	cur := ds
	for _, expr := range e {
		m, err := Expression(expr).keep(cur, preserve)
		if err != nil {
			return nil, err
		}
		next := remaining[:0:0]
		for i, k := range m {
			if k {
				next = append(next, remaining[i])
			} else {
				mask[remaining[i]] = false
			}
		}
		remaining = next
		cur = ds.subset(remaining)
	}
	return mask, nil
}

// Mask flags rows to keep. With a nil Index, Values is aligned with the rows and must have the
// same length. Otherwise Values[i] applies to row Index[i] and rows not listed are kept or
// dropped depending on the preserveUnspecified argument of Filter.
type Mask struct {
	Index  []int
	Values []bool
}

func (m Mask) keep(ds *Dataset, preserve bool) ([]bool, error) {
	n := ds.Len()
	if m.Index == nil {
		if len(m.Values) != n {
			return nil, fmt.Errorf("%d values for %d rows, %w", len(m.Values), n, ErrMaskLenMismatch)
		}
		res := make([]bool, n)
		copy(res, m.Values)
		return res, nil
	}

	if len(m.Index) != len(m.Values) {
		return nil, fmt.Errorf("%d indices for %d values, %w", len(m.Index), len(m.Values), ErrMaskLenMismatch)
	}
	res := make([]bool, n)
	for i := range res {
		res[i] = preserve
	}
	seen := make(map[int]struct{}, len(m.Index))
	for i, idx := range m.Index {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("index %d out of range [0, %d), %w", idx, n, ErrMaskIndex)
		}
		if _, dup := seen[idx]; dup {
			return nil, fmt.Errorf("duplicate index %d, %w", idx, ErrMaskIndex)
		}
		seen[idx] = struct{}{}
		res[idx] = m.Values[i]
	}
	return res, nil
}

// Predicate computes a mask from the dataset
type Predicate func(ds *Dataset) (Mask, error)

func (p Predicate) keep(ds *Dataset, preserve bool) ([]bool, error) {
	if p == nil {
		return nil, ErrNilCondition
	}
	m, err := p(ds)
	if err != nil {
		return nil, err
	}
	return m.keep(ds, preserve)
}

// Filter returns a new dataset with the rows selected by cond. The receiver is not modified.
func (d *Dataset) Filter(cond Condition, preserveUnspecified bool) (*Dataset, error) {
	return errs.Call("dataset.Filter", func() (*Dataset, error) {
		if err := d.loaded(); err != nil {
			return nil, err
		}
		if cond == nil {
			return nil, ErrNilCondition
		}

		mask, err := cond.keep(d, preserveUnspecified)
		if err != nil {
			return nil, err
		}
		idx := make([]int, 0, len(mask))
		for i, k := range mask {
			if k {
				idx = append(idx, i)
			}
		}
		slog.Debug("dataset filtered", "path", d.path, "rows", d.Len(), "kept", len(idx))
		return d.subset(idx), nil
	})
}
