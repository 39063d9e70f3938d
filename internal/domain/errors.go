package domain

import "fmt"

// MissingFieldError reports a required metric absent from an incoming
// record. Raised only at the parse boundary; enrichment itself never fails
// on values, however implausible.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// CollaboratorError wraps a failed call to an external collaborator
// (history store, persistence sink, alert dispatch). It is logged and
// counted but never aborts a batch; retrying is the caller's decision.
type CollaboratorError struct {
	Collaborator string
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }
