package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy for bookmark operations.
//
// ValidationError is caught before any store call. StoreError covers
// rejections by the store itself, including permission denial. FetchError
// covers availability failures during a list fetch; the caller keeps its
// last-known-good snapshot. None of these are fatal: every one is
// recoverable by retry or by the next successful reload trigger.

// ErrPermissionDenied marks a store rejection caused by an ownership
// mismatch. Wrapped inside a StoreError; check with errors.Is.
var ErrPermissionDenied = errors.New("permission denied")

// ValidationError reports invalid user input for a create operation.
type ValidationError struct {
	Field  string // "title" or "url"
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StoreError reports a rejection by the record store (insert, delete or
// select refused). Local state is never mutated when one is returned.
type StoreError struct {
	Op  string // "insert", "delete", "select"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// FetchError reports that a full list fetch could not complete (store
// unreachable or erroring). The previous items snapshot stays visible.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPermissionDenied reports whether err stems from an ownership mismatch.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}
