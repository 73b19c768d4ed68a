package engine

import (
	"fmt"

	"github.com/mcdev12/outbreak/go/internal/models"
)

// ValidationError rejects malformed input before any state is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StateError rejects an operation that is not valid in the session's current
// phase or for the participant's current state.
type StateError struct {
	Op     string
	Phase  models.Phase
	Reason string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s not allowed in phase %s: %s", e.Op, e.Phase, e.Reason)
}

func validationErr(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func stateErr(op string, phase models.Phase, format string, args ...any) error {
	return &StateError{Op: op, Phase: phase, Reason: fmt.Sprintf(format, args...)}
}
