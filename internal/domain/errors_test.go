package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestStoreErrorUnwrapsPermissionDenied(t *testing.T) {
	err := &StoreError{Op: "delete", Err: fmt.Errorf("owner mismatch: %w", ErrPermissionDenied)}

	if !errors.Is(err, ErrPermissionDenied) {
		t.Error("StoreError wrapping ErrPermissionDenied should satisfy errors.Is")
	}
	if !IsPermissionDenied(err) {
		t.Error("IsPermissionDenied() = false, want true")
	}
}

func TestStoreErrorWithoutPermissionDenied(t *testing.T) {
	err := &StoreError{Op: "insert", Err: errors.New("connection reset")}

	if IsPermissionDenied(err) {
		t.Error("IsPermissionDenied() = true for ordinary store error, want false")
	}
}

func TestIsValidation(t *testing.T) {
	ve := &ValidationError{Field: "url", Reason: "missing scheme"}
	wrapped := fmt.Errorf("create: %w", ve)

	if !IsValidation(wrapped) {
		t.Error("IsValidation() = false for wrapped ValidationError, want true")
	}
	if IsValidation(errors.New("other")) {
		t.Error("IsValidation() = true for unrelated error, want false")
	}
}

func TestFetchErrorUnwrap(t *testing.T) {
	cause := errors.New("store unreachable")
	err := &FetchError{Err: cause}

	if !errors.Is(err, cause) {
		t.Error("FetchError should unwrap to its cause")
	}
}
