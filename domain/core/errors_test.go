package core

import (
	"errors"
	"strings"
	"testing"
)

// TestColumnMissingErrorWrapsDataUnavailable verifies the sentinel chain
func TestColumnMissingErrorWrapsDataUnavailable(t *testing.T) {
	err := NewColumnMissingError("Sesso")
	if !IsDataUnavailable(err) {
		t.Error("column-missing error should match ErrDataUnavailable")
	}
	if !strings.Contains(err.Error(), "Sesso") {
		t.Errorf("error %q should name the column", err)
	}
}

// TestSourceErrorWrapsDataUnavailable verifies source failures are fatal
func TestSourceErrorWrapsDataUnavailable(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewSourceError("postgres:survey_responses", cause)
	if !IsDataUnavailable(err) {
		t.Error("source error should match ErrDataUnavailable")
	}
	if !strings.Contains(err.Error(), "postgres:survey_responses") {
		t.Errorf("error %q should name the source", err)
	}
}

// TestIsDataUnavailableNegative verifies unrelated errors do not match
func TestIsDataUnavailableNegative(t *testing.T) {
	if IsDataUnavailable(errors.New("something else")) {
		t.Error("unrelated error should not match")
	}
	if IsDataUnavailable(ErrInsufficientData) {
		t.Error("ErrInsufficientData alone should not match ErrDataUnavailable")
	}
}
