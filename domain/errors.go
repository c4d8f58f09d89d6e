package domain

import (
	"errors"
	"strings"
)

var (
	// ErrValidation marks malformed caller input (bad record id, unknown action).
	ErrValidation = errors.New("validation error")
	// ErrUnauthorized marks calls that need an authenticated, non-guest identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden marks authenticated callers lacking the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound marks a missing record or user.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a duplicate ledger entry or an already consumed guest snapshot.
	ErrConflict = errors.New("conflict")
	// ErrTransaction marks a rolled back multi-document mutation. Safe to retry.
	ErrTransaction = errors.New("transaction failed")
)

func ValidationError(msg string) error {
	return errors.Join(ErrValidation, errors.New(strings.TrimSpace(msg)))
}

func UnauthorizedError(msg string) error {
	return errors.Join(ErrUnauthorized, errors.New(strings.TrimSpace(msg)))
}

func ForbiddenError(msg string) error {
	return errors.Join(ErrForbidden, errors.New(strings.TrimSpace(msg)))
}

func NotFoundError(msg string) error {
	return errors.Join(ErrNotFound, errors.New(strings.TrimSpace(msg)))
}

func ConflictError(msg string) error {
	return errors.Join(ErrConflict, errors.New(strings.TrimSpace(msg)))
}

// TransactionError wraps cause so both ErrTransaction and the cause match errors.Is.
// Errors that already carry a client-facing kind are returned untouched.
func TransactionError(cause error) error {
	if cause == nil {
		return nil
	}
	if IsClientError(cause) {
		return cause
	}
	return errors.Join(ErrTransaction, cause)
}

// IsClientError reports whether err belongs to a caller-correctable kind.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict)
}

// Message returns the human readable part of a tagged error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		parts := joined.Unwrap()
		if len(parts) > 1 {
			return parts[len(parts)-1].Error()
		}
	}
	return err.Error()
}
