// Package httperr turns service errors into huma status errors.
package httperr

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
)

// FromService maps an error kind to its HTTP status. Not found and business
// rule errors carry their message to the caller; the rest get msg only.
func FromService(err error, msg string) error {
	switch {
	case errors.Is(err, bankerr.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, bankerr.ErrBusinessRule):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, bankerr.ErrStorage):
		return huma.Error503ServiceUnavailable(msg, err)
	case errors.Is(err, bankerr.ErrConflict):
		return huma.Error409Conflict(msg, err)
	default:
		return huma.Error500InternalServerError(msg, err)
	}
}
