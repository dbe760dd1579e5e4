// Package uncertain provides a value type carrying a nominal magnitude and a standard
// deviation. Arithmetic propagates the uncertainty to first order assuming the operands are
// independent.
package uncertain

import (
	"fmt"
	"math"

	"github.com/aouyang1/go-labfit/errs"
)

var (
	ErrLenMismatch    = fmt.Errorf("nominal and std dev slices have different lengths, %w", errs.ErrInvalidArgument)
	ErrNegativeStdDev = fmt.Errorf("negative standard deviation, %w", errs.ErrInvalidArgument)
)

// Value is a measurement with its standard deviation
type Value struct {
	Nominal float64 `json:"nominal"`
	StdDev  float64 `json:"std_dev"`
}

// New returns a Value. The standard deviation is stored as an absolute value.
func New(nominal, stdDev float64) Value {
	return Value{Nominal: nominal, StdDev: math.Abs(stdDev)}
}

// Exact returns a Value without uncertainty
func Exact(nominal float64) Value {
	return Value{Nominal: nominal}
}

// Variance returns the squared standard deviation
func (v Value) Variance() float64 {
	return v.StdDev * v.StdDev
}

// RelErr returns the relative uncertainty |σ/x|. NaN for a zero nominal value.
func (v Value) RelErr() float64 {
	if v.Nominal == 0 {
		return math.NaN()
	}
	return math.Abs(v.StdDev / v.Nominal)
}

func (v Value) Add(o Value) Value {
	return Value{Nominal: v.Nominal + o.Nominal, StdDev: math.Hypot(v.StdDev, o.StdDev)}
}

func (v Value) Sub(o Value) Value {
	return Value{Nominal: v.Nominal - o.Nominal, StdDev: math.Hypot(v.StdDev, o.StdDev)}
}

func (v Value) Mul(o Value) Value {
	return Value{
		Nominal: v.Nominal * o.Nominal,
		StdDev:  math.Hypot(o.Nominal*v.StdDev, v.Nominal*o.StdDev),
	}
}

func (v Value) Div(o Value) Value {
	n := v.Nominal / o.Nominal
	// d(a/b) = da/b - a db/b²
	return Value{
		Nominal: n,
		StdDev:  math.Hypot(v.StdDev/o.Nominal, v.Nominal*o.StdDev/(o.Nominal*o.Nominal)),
	}
}

// Scale multiplies by an exact constant
func (v Value) Scale(c float64) Value {
	return Value{Nominal: c * v.Nominal, StdDev: math.Abs(c) * v.StdDev}
}

// Pow raises the value to an exact power
func (v Value) Pow(p float64) Value {
	n := math.Pow(v.Nominal, p)
	d := p * math.Pow(v.Nominal, p-1)
	return Value{Nominal: n, StdDev: math.Abs(d) * v.StdDev}
}

func (v Value) Sqrt() Value {
	return v.Pow(0.5)
}

func (v Value) Exp() Value {
	n := math.Exp(v.Nominal)
	return Value{Nominal: n, StdDev: n * v.StdDev}
}

func (v Value) Log() Value {
	return Value{Nominal: math.Log(v.Nominal), StdDev: math.Abs(v.StdDev / v.Nominal)}
}

// String formats the value as "nominal ± std" with 4 and 2 significant digits
func (v Value) String() string {
	return fmt.Sprintf("%.4g ± %.2g", v.Nominal, v.StdDev)
}
