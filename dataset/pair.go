package dataset

import (
	"fmt"
	"strings"

	"github.com/aouyang1/go-labfit/errs"
	"github.com/aouyang1/go-labfit/uncertain"
)

var ErrInvalidPosition = fmt.Errorf("position must be prefix or suffix, %w", errs.ErrInvalidArgument)

// Position is where the uncertainty marker sits in an error column name
type Position int

const (
	// Suffix pairs "temp" with "temp_err"
	Suffix Position = iota

	// Prefix pairs "temp" with "err_temp"
	Prefix
)

func (p Position) String() string {
	switch p {
	case Suffix:
		return "suffix"
	case Prefix:
		return "prefix"
	}
	return fmt.Sprintf("Position(%d)", int(p))
}

// ParsePosition parses "suffix" or "prefix"
func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "suffix":
		return Suffix, nil
	case "prefix":
		return Prefix, nil
	}
	return 0, fmt.Errorf("%q, %w", s, ErrInvalidPosition)
}

// PairWithUncertainty matches every nominal column with its error column and returns the
// uncertainty tagged values keyed by the original nominal column name. Names are compared
// after normalization, so "Temp (K)" pairs with "temp_k_err". Columns without an error column
// are left out.
func (d *Dataset) PairWithUncertainty(marker string, pos Position) (map[string][]uncertain.Value, error) {
	return errs.Call("dataset.PairWithUncertainty", func() (map[string][]uncertain.Value, error) {
		if err := d.loaded(); err != nil {
			return nil, err
		}
		if pos != Suffix && pos != Prefix {
			return nil, fmt.Errorf("%s, %w", pos, ErrInvalidPosition)
		}
		marker = NormalizeName(marker)

		names := d.df.Names()
		normToOrig := make(map[string]string, len(names))
		for _, name := range names {
			normToOrig[NormalizeName(name)] = name
		}

		res := make(map[string][]uncertain.Value)
		for _, name := range names {
			target := NormalizeName(name) + "_" + marker
			if pos == Prefix {
				target = marker + "_" + NormalizeName(name)
			}
			errCol, ok := normToOrig[target]
			if !ok {
				continue
			}
			vals, err := uncertain.NewArray(d.df.Col(name).Float(), d.df.Col(errCol).Float())
			if err != nil {
				return nil, fmt.Errorf("pairing %q with %q, %w", name, errCol, err)
			}
			res[name] = vals
		}
		return res, nil
	})
}
