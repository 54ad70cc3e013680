package plan

import (
	"errors"
	"fmt"
)

// Sentinel errors for the plan lifecycle. Handlers translate these to HTTP
// status codes; services never retry on them.
var (
	// ErrNotFound indicates an unknown plan id.
	ErrNotFound = errors.New("care plan not found")

	// ErrNotEditable indicates a mutation attempted on a terminal plan.
	ErrNotEditable = errors.New("care plan is no longer editable")

	// ErrConflict indicates the caller's expected version does not match
	// the stored version (concurrent edit).
	ErrConflict = errors.New("care plan version conflict")
)

// ValidationError reports a malformed or missing required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ExternalServiceError wraps a failure or timeout of an external
// collaborator (visit-history lookup, document generator).
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsExternal reports whether err is an ExternalServiceError.
func IsExternal(err error) bool {
	var ee *ExternalServiceError
	return errors.As(err, &ee)
}
