package bankerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleErrors_AreBusinessRuleViolations(t *testing.T) {
	for _, err := range []error{
		ErrInvalidAmount,
		ErrMissingAccountID,
		ErrSameAccount,
		ErrInsufficientFunds,
		ErrDescriptionTooLong,
		ErrInvalidAccountKind,
		ErrDuplicateNaturalKey,
		ErrInvalidClient,
		ErrNaturalKeyImmutable,
		ErrNumbersExhausted,
	} {
		assert.ErrorIs(t, err, ErrBusinessRule, err.Error())
		assert.NotErrorIs(t, err, ErrNotFound)
	}
}

func TestNotFound(t *testing.T) {
	err := NotFound("account", "abc")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "not found: account abc", err.Error())
}

func TestConflict_KeepsCause(t *testing.T) {
	cause := errors.New("version mismatch")
	err := Conflict("update balance", cause)

	assert.ErrorIs(t, err, ErrConflict)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsRetryable(err))
}

func TestStorage_WrappingConflictIsNotRetryable(t *testing.T) {
	err := Storage("transfer", Conflict("update balance", nil))

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, ErrConflict)
	assert.False(t, IsRetryable(err))
}

func TestInvalidClient(t *testing.T) {
	err := InvalidClient("full name is required")

	assert.ErrorIs(t, err, ErrBusinessRule)
	assert.ErrorIs(t, err, ErrInvalidClient)
	assert.Contains(t, err.Error(), "full name is required")
}
