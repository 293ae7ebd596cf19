package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrDataUnavailable means the raw survey source is missing or malformed.
	// It is fatal: nothing downstream may run on a partial dataset.
	ErrDataUnavailable = errors.New("survey data unavailable")

	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrUnknownField     = errors.New("unknown grouping field")
)

// Error constructors with context
func NewColumnMissingError(column string) error {
	return fmt.Errorf("%w: required column %q not found", ErrDataUnavailable, column)
}

func NewSourceError(source string, err error) error {
	return fmt.Errorf("%w: source %s: %v", ErrDataUnavailable, source, err)
}

// Error checking helpers
func IsDataUnavailable(err error) bool {
	return errors.Is(err, ErrDataUnavailable)
}
