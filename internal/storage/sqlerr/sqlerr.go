// Package sqlerr turns driver errors into bankerr kinds so the layers above
// never inspect Postgres error codes.
package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
)

const (
	codeUniqueViolation      pq.ErrorCode = "23505"
	codeSerializationFailure pq.ErrorCode = "40001"
	codeDeadlockDetected     pq.ErrorCode = "40P01"
)

// Classify wraps err with the bankerr kind it belongs to. Errors that already
// carry a kind are returned untouched.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, bankerr.ErrNotFound) ||
		errors.Is(err, bankerr.ErrBusinessRule) ||
		errors.Is(err, bankerr.ErrConflict) ||
		errors.Is(err, bankerr.ErrStorage) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", bankerr.ErrNotFound, op)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeUniqueViolation, codeSerializationFailure, codeDeadlockDetected:
			return bankerr.Conflict(op, err)
		}
	}
	return bankerr.Storage(op, err)
}

// IsUniqueViolation reports whether err is a unique violation on constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == codeUniqueViolation && pqErr.Constraint == constraint
}

func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
