// Package bankerr defines the error kinds shared by the storage, operator,
// service and handler layers. Callers test for a kind with errors.Is.
package bankerr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a referenced client, account or transaction does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBusinessRule means the request broke a rule and must be corrected before resubmitting.
	ErrBusinessRule = errors.New("business rule violation")

	// ErrConflict means a concurrent writer won a race; the operation may be retried.
	ErrConflict = errors.New("conflict")

	// ErrStorage means the persistence layer failed or retries were exhausted.
	ErrStorage = errors.New("storage failure")
)

var (
	ErrInvalidAmount       = fmt.Errorf("%w: amount must be at least 0.01 with at most 2 decimal places", ErrBusinessRule)
	ErrMissingAccountID    = fmt.Errorf("%w: source and destination accounts are required", ErrBusinessRule)
	ErrSameAccount         = fmt.Errorf("%w: cannot transfer to the same account", ErrBusinessRule)
	ErrInsufficientFunds   = fmt.Errorf("%w: insufficient funds", ErrBusinessRule)
	ErrDescriptionTooLong  = fmt.Errorf("%w: description is too long", ErrBusinessRule)
	ErrInvalidAccountKind  = fmt.Errorf("%w: account kind must be CHECKING or SAVINGS", ErrBusinessRule)
	ErrDuplicateNaturalKey = fmt.Errorf("%w: natural person key already registered", ErrBusinessRule)
	ErrInvalidClient       = fmt.Errorf("%w: invalid client", ErrBusinessRule)
	ErrNaturalKeyImmutable = fmt.Errorf("%w: natural person key cannot be changed", ErrBusinessRule)
	ErrNumbersExhausted    = fmt.Errorf("%w: could not allocate a free account number", ErrBusinessRule)
)

// NotFound returns an ErrNotFound carrying which entity was missing.
func NotFound(entity string, key any) error {
	return fmt.Errorf("%w: %s %v", ErrNotFound, entity, key)
}

// Conflict wraps cause as a retryable conflict.
func Conflict(op string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrConflict, op)
	}
	return fmt.Errorf("%w: %s: %w", ErrConflict, op, cause)
}

// Storage wraps cause as a storage failure. The cause stays in the chain.
func Storage(op string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, cause)
}

// InvalidClient describes why client input was rejected.
func InvalidClient(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidClient, reason)
}

// IsRetryable reports whether err is a conflict that has not already been
// turned into a storage failure.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict) && !errors.Is(err, ErrStorage)
}
