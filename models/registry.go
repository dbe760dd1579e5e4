package models

import (
	"fmt"
	"sort"

	"github.com/aouyang1/go-labfit/errs"
)

const (
	NameLinear                = "linear"
	NamePolynomial            = "polynomial"
	NameAsymmetricPseudoVoigt = "apv"
)

var (
	ErrUnknownModel = fmt.Errorf("unknown model, %w", errs.ErrInvalidArgument)
	ErrModelExists  = fmt.Errorf("model already registered, %w", errs.ErrInvalidArgument)
	ErrNilModel     = fmt.Errorf("nil model function, %w", errs.ErrInvalidArgument)
)

// Entry describes a registered model. NumParams is 0 when the model accepts any number of
// parameters.
type Entry struct {
	Name        string
	Description string
	NumParams   int
	Model       Model
}

// CheckParams validates a parameter vector length against the entry
func (e Entry) CheckParams(beta []float64) error {
	if e.NumParams > 0 && len(beta) != e.NumParams {
		return fmt.Errorf("model %s expects %d parameters but got %d, %w", e.Name, e.NumParams, len(beta), ErrParamCount)
	}
	return nil
}

// Registry holds named models
type Registry struct {
	entries map[string]Entry
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Default returns a registry populated with the linear, polynomial and asymmetric
// pseudo-Voigt models
func Default() *Registry {
	r := NewRegistry()
	r.entries[NameLinear] = Entry{
		Name:        NameLinear,
		Description: "y = b0 + b1*x",
		NumParams:   2,
		Model:       Linear,
	}
	r.entries[NamePolynomial] = Entry{
		Name:        NamePolynomial,
		Description: "y = b0 + b1*x + ... + bn*x^n, degree implied by the number of parameters",
		Model:       Polynomial,
	}
	r.entries[NameAsymmetricPseudoVoigt] = Entry{
		Name:        NameAsymmetricPseudoVoigt,
		Description: "asymmetric pseudo-Voigt peak (A, x0, sigma1, eta1, sigma2, eta2, y0)",
		NumParams:   NumPseudoVoigtParams,
		Model:       AsymmetricPseudoVoigt,
	}
	return r
}

// Register adds a model under name
func (r *Registry) Register(name string, m Model, description string, numParams int) error {
	if m == nil {
		return fmt.Errorf("%s, %w", name, ErrNilModel)
	}
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("%s, %w", name, ErrModelExists)
	}
	r.entries[name] = Entry{
		Name:        name,
		Description: description,
		NumParams:   numParams,
		Model:       m,
	}
	return nil
}

// Get returns the entry registered under name
func (r *Registry) Get(name string) (Entry, error) {
	e, exists := r.entries[name]
	if !exists {
		return Entry{}, fmt.Errorf("%s, %w", name, ErrUnknownModel)
	}
	return e, nil
}

// Names returns the sorted registered model names
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
