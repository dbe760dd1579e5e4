// Package dataset wraps a table of named float columns loaded from delimited text files and
// provides filtering, uncertainty pairing and grid helpers over it.
package dataset

import (
	"encoding/binary"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/aouyang1/go-labfit/errs"
	"github.com/cespare/xxhash/v2"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var (
	ErrNoData            = fmt.Errorf("dataset has no data loaded, %w", errs.ErrInvalidArgument)
	ErrUnknownColumn     = fmt.Errorf("unknown column, %w", errs.ErrInvalidArgument)
	ErrColumnLenMismatch = fmt.Errorf("columns have different lengths, %w", errs.ErrInvalidArgument)
	ErrNamesMismatch     = fmt.Errorf("number of names does not match number of columns, %w", errs.ErrInvalidArgument)
	ErrDuplicateColumn   = fmt.Errorf("duplicate column name, %w", errs.ErrInvalidArgument)
)

// Dataset is an ordered table of named float64 columns together with the path it was read
// from. The zero value is an empty dataset and every operation on it returns ErrNoData.
type Dataset struct {
	path string
	df   *dataframe.DataFrame
}

// New builds a dataset from in memory columns
func New(path string, names []string, cols [][]float64) (*Dataset, error) {
	return errs.Call("dataset.New", func() (*Dataset, error) {
		if len(names) != len(cols) {
			return nil, fmt.Errorf("%d names for %d columns, %w", len(names), len(cols), ErrNamesMismatch)
		}
		if len(cols) == 0 {
			return nil, ErrNoData
		}
		seen := make(map[string]struct{}, len(names))
		for i, name := range names {
			if _, exists := seen[name]; exists {
				return nil, fmt.Errorf("%q, %w", name, ErrDuplicateColumn)
			}
			seen[name] = struct{}{}
			if len(cols[i]) != len(cols[0]) {
				return nil, fmt.Errorf("column %q has %d values instead of %d, %w", name, len(cols[i]), len(cols[0]), ErrColumnLenMismatch)
			}
		}
		return fromColumns(path, names, cols), nil
	})
}

func fromColumns(path string, names []string, cols [][]float64) *Dataset {
	s := make([]series.Series, len(cols))
	for i, col := range cols {
		vals := make([]float64, len(col))
		copy(vals, col)
		s[i] = series.New(vals, series.Float, names[i])
	}
	df := dataframe.New(s...)
	return &Dataset{path: path, df: &df}
}

func (d *Dataset) loaded() error {
	if d == nil || d.df == nil {
		return ErrNoData
	}
	return nil
}

// Path returns the file the dataset was read from
func (d *Dataset) Path() string {
	if d == nil {
		return ""
	}
	return d.path
}

// Names returns the column names in table order
func (d *Dataset) Names() []string {
	if d.loaded() != nil {
		return nil
	}
	return d.df.Names()
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	if d.loaded() != nil {
		return 0
	}
	return d.df.Nrow()
}

// Col returns a copy of the named column
func (d *Dataset) Col(name string) ([]float64, error) {
	return errs.Call("dataset.Col", func() ([]float64, error) {
		if err := d.loaded(); err != nil {
			return nil, err
		}
		if !d.hasColumn(name) {
			return nil, fmt.Errorf("%q, %w", name, ErrUnknownColumn)
		}
		return d.df.Col(name).Float(), nil
	})
}

func (d *Dataset) hasColumn(name string) bool {
	for _, n := range d.df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Columns returns the values split by column, in table order
func (d *Dataset) Columns() ([][]float64, error) {
	return errs.Call("dataset.Columns", func() ([][]float64, error) {
		if err := d.loaded(); err != nil {
			return nil, err
		}
		return d.columns(), nil
	})
}

func (d *Dataset) columns() [][]float64 {
	names := d.df.Names()
	cols := make([][]float64, len(names))
	for i, name := range names {
		cols[i] = d.df.Col(name).Float()
	}
	return cols
}

// Rows returns the values split by row
func (d *Dataset) Rows() ([][]float64, error) {
	return errs.Call("dataset.Rows", func() ([][]float64, error) {
		if err := d.loaded(); err != nil {
			return nil, err
		}
		return d.rows(), nil
	})
}

func (d *Dataset) rows() [][]float64 {
	cols := d.columns()
	rows := make([][]float64, d.df.Nrow())
	for i := range rows {
		row := make([]float64, len(cols))
		for j, col := range cols {
			row[j] = col[i]
		}
		rows[i] = row
	}
	return rows
}

// subset returns a new dataset holding the given rows in order
func (d *Dataset) subset(idx []int) *Dataset {
	if len(idx) == 0 {
		names := d.df.Names()
		return fromColumns(d.path, names, make([][]float64, len(names)))
	}
	df := d.df.Subset(idx)
	return &Dataset{path: d.path, df: &df}
}

// Fingerprint hashes the column names and the raw bits of every value. Two datasets with the
// same names and values in the same order share a fingerprint.
func (d *Dataset) Fingerprint() (uint64, error) {
	return errs.Call("dataset.Fingerprint", func() (uint64, error) {
		if err := d.loaded(); err != nil {
			return 0, err
		}
		h := xxhash.New()
		buf := make([]byte, 8)
		for i, col := range d.columns() {
			if _, err := h.WriteString(d.df.Names()[i]); err != nil {
				return 0, err
			}
			for _, v := range col {
				binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
				if _, err := h.Write(buf); err != nil {
					return 0, err
				}
			}
		}
		return h.Sum64(), nil
	})
}

func (d *Dataset) String() string {
	if d.loaded() != nil {
		return "empty dataset: no data loaded"
	}
	return d.df.String()
}

var (
	separatorRe = regexp.MustCompile(`[ \-.]+`)
	repeatedRe  = regexp.MustCompile(`_+`)
	invalidRe   = regexp.MustCompile(`[^a-z0-9_]`)
)

// NormalizeName lower cases a column name, maps spaces, dashes and dots to underscores,
// collapses repeated underscores and trims them from both ends. Anything outside [a-z0-9_] is
// dropped last, so "a °" becomes "a_".
func NormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = separatorRe.ReplaceAllString(s, "_")
	s = repeatedRe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	return invalidRe.ReplaceAllString(s, "")
}
