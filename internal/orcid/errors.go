package orcid

import (
	"errors"
	"fmt"
)

// ErrUpstreamUnavailable matches every error returned by Client.Fetch.
var ErrUpstreamUnavailable = errors.New("orcid: upstream unavailable")

// UpstreamError reports that the ORCID record could not be retrieved or read.
// Nothing downstream can run without the record, so callers treat it as fatal.
type UpstreamError struct {
	ORCIDID string
	Message string
	Cause   error
}

func (e *UpstreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("orcid %s unavailable: %s: %v", e.ORCIDID, e.Message, e.Cause)
	}
	return fmt.Sprintf("orcid %s unavailable: %s", e.ORCIDID, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, ErrUpstreamUnavailable) match.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}
