// Package errs defines the error kinds shared by every labfit package and the call boundary
// that adds operation context to failures before they reach the caller.
package errs

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrNotFound is returned when an input file does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument covers malformed separators, conditions, pairing positions and
	// array length mismatches.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrComputationUndefined is returned for degenerate statistics such as adjusted R²
	// without enough degrees of freedom.
	ErrComputationUndefined = errors.New("computation undefined")
)

// Kind returns the error kind err belongs to, or nil if it is not one of the labfit kinds.
func Kind(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrInvalidArgument):
		return ErrInvalidArgument
	case errors.Is(err, ErrComputationUndefined):
		return ErrComputationUndefined
	}
	return nil
}

// Wrap adds the operation name and a kind specific lead-in to err. A nil error stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var lead string
	switch Kind(err) {
	case ErrNotFound:
		lead = "file not found"
	case ErrInvalidArgument:
		lead = "invalid value"
	case ErrComputationUndefined:
		lead = "undefined computation"
	default:
		lead = "unexpected error"
	}
	return fmt.Errorf("[%s] %s, %w", op, lead, err)
}

// Call runs fn and, on failure, logs and returns the error wrapped with the operation name.
func Call[T any](op string, fn func() (T, error)) (T, error) {
	res, err := fn()
	if err != nil {
		var zero T
		err = Wrap(op, err)
		slog.Debug("operation failed", "op", op, "error", err.Error())
		return zero, err
	}
	return res, nil
}

// Do is Call for operations that only return an error.
func Do(op string, fn func() error) error {
	if err := fn(); err != nil {
		err = Wrap(op, err)
		slog.Debug("operation failed", "op", op, "error", err.Error())
		return err
	}
	return nil
}
