package models

import (
	"errors"
	"fmt"
)

// ErrBatchNotFound indicates a store lookup missed an id that was expected to
// exist. It is a data-integrity signal, never silently swallowed.
var ErrBatchNotFound = errors.New("batch not found")

// InvalidCountError reports egg/hatched counts that violate the batch invariants.
type InvalidCountError struct {
	EggCount     int
	HatchedCount int
}

func (e *InvalidCountError) Error() string {
	return fmt.Sprintf("invalid counts: egg_count=%d hatched_count=%d", e.EggCount, e.HatchedCount)
}

// ValidationError reports bad caller input rejected before any network or
// state effect.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// RemoteError reports that the remote batch API was unreachable or rejected
// the request. The operator can retry the originating action.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote api %s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// SchedulingError reports that the notification service rejected a reminder.
// Non-fatal: the batch persists without a reminder.
type SchedulingError struct {
	BatchID string
	Err     error
}

func (e *SchedulingError) Error() string {
	return fmt.Sprintf("schedule reminder for batch %s: %v", e.BatchID, e.Err)
}

func (e *SchedulingError) Unwrap() error { return e.Err }
