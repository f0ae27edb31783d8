package config

import (
	"fmt"
	"strings"
)

// ValidationError collects every problem found in a config.
type ValidationError struct {
	Errors []error
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	if len(ve.Errors) == 0 {
		return "config validation failed"
	}
	if len(ve.Errors) == 1 {
		return fmt.Sprintf("config validation failed: %v", ve.Errors[0])
	}

	var buf strings.Builder
	fmt.Fprintf(&buf, "config validation failed with %d errors:\n", len(ve.Errors))
	for i, err := range ve.Errors {
		fmt.Fprintf(&buf, "  %d. %v\n", i+1, err)
	}
	return buf.String()
}

// Unwrap returns the underlying errors for errors.Is and errors.As.
func (ve *ValidationError) Unwrap() []error {
	return ve.Errors
}

func newValidationError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}
