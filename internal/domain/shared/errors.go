// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation    = errors.New("validation error")
	ErrInvalidID     = errors.New("invalid ID")
	ErrInvalidInput  = errors.New("invalid input")
	ErrEmptyValue    = errors.New("value cannot be empty")
	ErrNegativeValue = errors.New("value cannot be negative")

	// Data integrity errors. Unlike validation errors these indicate a
	// corrupt record in the store, not bad user input.
	ErrInvalidCategory = errors.New("unknown kudos category")

	// Concurrency errors
	ErrConflict               = errors.New("write conflict")
	ErrConcurrentModification = errors.New("concurrent modification detected")

	// Infrastructure errors
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "kudos", "leaderboard", "stats"
	Op      string // Operation that failed, e.g., "ToggleLike", "Aggregate"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Kudos domain errors
var (
	ErrKudosNotFound    = NewDomainError("kudos", "Find", ErrNotFound, "kudos event not found")
	ErrEmptyMessage     = NewDomainError("kudos", "Validate", ErrEmptyValue, "kudos message cannot be empty")
	ErrMessageTooLong   = NewDomainError("kudos", "Validate", ErrInvalidInput, "kudos message exceeds maximum length")
	ErrLikeContention   = NewDomainError("kudos", "ToggleLike", ErrConflict, "like toggle lost the write race after all retries")
	ErrUnknownCategory  = NewDomainError("kudos", "Validate", ErrInvalidCategory, "category is not part of the fixed set")
	ErrMissingSender    = NewDomainError("kudos", "Validate", ErrInvalidID, "sender ID is required")
	ErrMissingRecipient = NewDomainError("kudos", "Validate", ErrInvalidID, "recipient ID is required")
)

// User directory errors
var (
	ErrUserNotFound = NewDomainError("user", "Find", ErrNotFound, "user not found")
)

// Progression errors
var (
	ErrNegativeKudosCount = NewDomainError("progression", "LevelOf", ErrNegativeValue, "kudos count cannot be negative")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue)
}

// IsConflict checks if the error is an unresolved write conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrConcurrentModification)
}

// IsDataIntegrity checks if the error indicates corrupt stored data.
func IsDataIntegrity(err error) bool {
	return errors.Is(err, ErrInvalidCategory)
}

// IsRetryable checks if the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrConcurrentModification)
}
