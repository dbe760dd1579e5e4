package dataset

import (
	"fmt"
	"go/token"
	"regexp"
	"strings"

	"github.com/aouyang1/go-labfit/errs"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

var ErrExpression = fmt.Errorf("unable to evaluate expression, %w", errs.ErrInvalidArgument)

var (
	andRe = regexp.MustCompile(`\band\b`)
	orRe  = regexp.MustCompile(`\bor\b`)
	notRe = regexp.MustCompile(`\bnot\b`)
)

// reserved identifiers stay usable inside expressions
var reserved = map[string]struct{}{
	"math": {}, "row": {}, "true": {}, "false": {}, "float64": {}, "int": {}, "len": {},
}

// rowFunc reports whether a row, keyed by bound column identifier, satisfies an expression
type rowFunc func(row map[string]float64) bool

// translate maps the word operators and, or and not to their Go forms
func translate(expr string) string {
	expr = andRe.ReplaceAllString(expr, "&&")
	expr = orRe.ReplaceAllString(expr, "||")
	return notRe.ReplaceAllString(expr, "!")
}

// bindings maps each Go identifier usable in an expression to the column it reads. Columns are
// bound by their raw name when it is an identifier and by their normalized name. The first
// column claiming an identifier wins.
func bindings(names []string) map[string]string {
	res := make(map[string]string)
	bind := func(ident, col string) {
		if !token.IsIdentifier(ident) {
			return
		}
		if _, r := reserved[ident]; r {
			return
		}
		if _, exists := res[ident]; !exists {
			res[ident] = col
		}
	}
	for _, name := range names {
		bind(name, name)
	}
	for _, name := range names {
		bind(NormalizeName(name), name)
	}
	return res
}

// compile builds a row function from a boolean expression over the bound column identifiers.
// The expression is Go syntax plus and, or and not, with the math package available.
func compile(expr string, binds map[string]string) (rowFunc, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("empty expression, %w", ErrExpression)
	}

	idents := make([]string, 0, len(binds))
	for ident := range binds {
		idents = append(idents, ident)
	}

	var src strings.Builder
	src.WriteString("package main\n\nimport \"math\"\n\nvar _ = math.Abs\n\n")
	src.WriteString("func Eval(row map[string]float64) bool {\n")
	for _, ident := range idents {
		fmt.Fprintf(&src, "\t%s := row[%q]\n\t_ = %s\n", ident, ident, ident)
	}
	fmt.Fprintf(&src, "\treturn %s\n}\n", translate(expr))

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, err
	}
	if _, err := i.Eval(src.String()); err != nil {
		return nil, fmt.Errorf("%q: %s, %w", expr, err.Error(), ErrExpression)
	}
	v, err := i.Eval("main.Eval")
	if err != nil {
		return nil, fmt.Errorf("%q: %s, %w", expr, err.Error(), ErrExpression)
	}
	fn, ok := v.Interface().(func(map[string]float64) bool)
	if !ok {
		return nil, fmt.Errorf("%q does not evaluate to a boolean, %w", expr, ErrExpression)
	}
	return fn, nil
}

// evalRows applies fn to every row and returns the resulting mask
func evalRows(fn rowFunc, expr string, names []string, rows [][]float64, binds map[string]string) (mask []bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%q: %v, %w", expr, r, ErrExpression)
		}
	}()

	colIdx := make(map[string]int, len(names))
	for i, name := range names {
		colIdx[name] = i
	}

	mask = make([]bool, len(rows))
	row := make(map[string]float64, len(binds))
	for i, vals := range rows {
		for ident, col := range binds {
			row[ident] = vals[colIdx[col]]
		}
		mask[i] = fn(row)
	}
	return mask, nil
}
