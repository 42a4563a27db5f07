package services

import (
	"errors"
	"fmt"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/docstore"
)

// ===== SENTINEL ERRORS =====

var (
	ErrStudentNotFound       = errors.New("student not found")
	ErrRosterNotFound        = errors.New("module roster not found")
	ErrStudentAlreadyExists  = errors.New("a student with that number already exists")
	ErrAlreadyEnrolled       = errors.New("student already enrolled in module")
	ErrEnrollmentPending     = errors.New("enrollment request already pending")
	ErrInvalidStatusChange   = errors.New("invalid enrollment status transition")
	ErrSameStudentNumber     = errors.New("new student number equals the current one")
	ErrScanWindowUnavailable = errors.New("attendance record unavailable")
)

// ===== ERROR TYPES =====

// NotFoundError reports a document a caller expected to exist.
type NotFoundError struct {
	Collection string
	ID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s/%s not found", e.Collection, e.ID)
}

func NewNotFoundError(collection, id string) *NotFoundError {
	return &NotFoundError{Collection: collection, ID: id}
}

// EntryNotFoundError reports a missing array entry within an existing
// document (a student absent from a roster that does exist).
type EntryNotFoundError struct {
	ModuleCode    string
	StudentNumber string
}

func (e *EntryNotFoundError) Error() string {
	return fmt.Sprintf("no roster entry for student %s in module %s", e.StudentNumber, e.ModuleCode)
}

func NewEntryNotFoundError(moduleCode, studentNumber string) *EntryNotFoundError {
	return &EntryNotFoundError{ModuleCode: moduleCode, StudentNumber: studentNumber}
}

// PersistenceError wraps a failed store read or write. The wrapped error is
// kept for logs; Error() stays free of raw store text so it can be surfaced.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s", e.Op)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

// CapacityExceededError reports a batch that would exceed the store's staged
// operation limit. The operation was not applied.
type CapacityExceededError struct {
	Staged int
	Limit  int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("operation requires %d staged writes, store limit is %d", e.Staged, e.Limit)
}

func NewCapacityExceededError(staged int) *CapacityExceededError {
	return &CapacityExceededError{Staged: staged, Limit: docstore.MaxBatchOperations}
}

// ===== CLASSIFIERS =====

func IsNotFoundError(err error) bool {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return true
	}
	return errors.Is(err, ErrStudentNotFound) || errors.Is(err, ErrRosterNotFound)
}

func IsEntryNotFoundError(err error) bool {
	var enf *EntryNotFoundError
	return errors.As(err, &enf)
}

func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

func IsCapacityExceededError(err error) bool {
	var ce *CapacityExceededError
	return errors.As(err, &ce)
}

func IsConflictError(err error) bool {
	return errors.Is(err, ErrStudentAlreadyExists) ||
		errors.Is(err, ErrAlreadyEnrolled) ||
		errors.Is(err, ErrEnrollmentPending)
}
