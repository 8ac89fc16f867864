// Package workflow implements the book generation pipeline for Inkwell.
// It provides the step catalog, persisted workflow state, and the accumulated
// draft types shared by the manual and auto-run drivers.
package workflow

import (
	"errors"
	"fmt"
)

// Sentinel errors for workflow operations.
var (
	ErrPrecondition = errors.New("step precondition not met")
	ErrGeneration   = errors.New("generation failed")
	ErrPersistence  = errors.New("persistence failed")
	ErrRender       = errors.New("render failed")
	ErrCancelled    = errors.New("auto-run cancelled")
	ErrInvalidStep  = errors.New("invalid workflow step")
)

// PreconditionError reports the draft field a step requires but found empty.
// It unwraps to ErrPrecondition so callers can branch with errors.Is.
type PreconditionError struct {
	Step  Step
	Field string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("step %s requires %s", e.Step, e.Field)
}

func (e *PreconditionError) Unwrap() error {
	return ErrPrecondition
}
