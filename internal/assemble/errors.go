package assemble

import (
	"errors"
	"fmt"
)

// ErrConversion matches any *ConversionError with errors.Is.
var ErrConversion = errors.New("document conversion failed")

// ConversionError represents a converter that is missing or exited non-zero.
// Stage is "html" or "pdf".
type ConversionError struct {
	Tool     string
	Stage    string
	Message  string
	ExitCode int
	Stderr   string
	Cause    error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("conversion error (%s, %s): %s", e.Stage, e.Tool, e.Message)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *ConversionError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, ErrConversion) succeed.
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}

// SourceError represents a fragment or boilerplate file that could not be staged.
type SourceError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("source error (%s): %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("source error (%s): %s", e.Path, e.Message)
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}
