package contract

import (
	"errors"
	"fmt"
)

// Sentinel errors for each failure class. Match them with errors.Is.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrPartialData         = errors.New("partial data")
	ErrCollaboratorFailure = errors.New("collaborator failure")
	ErrComputation         = errors.New("computation error")
)

// InputError rejects a request before any computation happens.
type InputError struct {
	Field  string
	Reason string
}

// NewInputError creates an InputError for the given field.
func NewInputError(field, format string, args ...any) *InputError {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is matches ErrInvalidInput.
func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

// PartialDataError records records that were dropped during normalization.
// It is informational and never aborts a run.
type PartialDataError struct {
	RepositoryID string
	Skipped      int
	Total        int
}

func (e *PartialDataError) Error() string {
	return fmt.Sprintf("%s: skipped %d of %d records", e.RepositoryID, e.Skipped, e.Total)
}

// Is matches ErrPartialData.
func (e *PartialDataError) Is(target error) bool { return target == ErrPartialData }

// CollaboratorFailure wraps an error returned by a data source or sentiment scorer.
type CollaboratorFailure struct {
	Collaborator string // "data source" or "sentiment scorer"
	RepositoryID string
	Err          error
}

// NewCollaboratorFailure wraps err as a failure of the named collaborator.
func NewCollaboratorFailure(collaborator, repoID string, err error) *CollaboratorFailure {
	return &CollaboratorFailure{Collaborator: collaborator, RepositoryID: repoID, Err: err}
}

func (e *CollaboratorFailure) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Collaborator, e.RepositoryID, e.Err)
}

// Unwrap returns the underlying collaborator error.
func (e *CollaboratorFailure) Unwrap() error { return e.Err }

// Is matches ErrCollaboratorFailure.
func (e *CollaboratorFailure) Is(target error) bool { return target == ErrCollaboratorFailure }

// ComputationError reports a degenerate input reaching an aggregation step.
// Validation should make it unreachable.
type ComputationError struct {
	Op     string
	Reason string
}

// NewComputationError creates a ComputationError for the given operation.
func NewComputationError(op, reason string) *ComputationError {
	return &ComputationError{Op: op, Reason: reason}
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// Is matches ErrComputation.
func (e *ComputationError) Is(target error) bool { return target == ErrComputation }
