package core

import "fmt"

// ValidationError reports input that fails a data-integrity rule. It is
// surfaced to the caller as a field-level message and never as a crash.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ConstraintViolation reports an operation that would break a cross-entity
// invariant, such as deleting a category still referenced by tasks. The
// offending operation must be refused before any storage call is made.
type ConstraintViolation struct {
	Reason string
}

func (e *ConstraintViolation) Error() string {
	return e.Reason
}
