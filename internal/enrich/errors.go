// Package enrich looks up optional citation metrics for the CV. Lookups never
// fail the run: every problem is reported as a failed types.Outcome.
package enrich

import (
	"errors"
	"fmt"
)

// ErrEnrichmentUnavailable matches every error carried by a failed Outcome.
var ErrEnrichmentUnavailable = errors.New("enrich: service unavailable")

// UnavailableError reports why a metric service could not be used.
type UnavailableError struct {
	Service string
	ID      string
	Message string
	Cause   error
}

func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s lookup for %s unavailable: %s: %v", e.Service, e.ID, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s lookup for %s unavailable: %s", e.Service, e.ID, e.Message)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, ErrEnrichmentUnavailable) match.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrEnrichmentUnavailable
}
