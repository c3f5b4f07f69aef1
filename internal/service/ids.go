package service

import (
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
)

// parseID turns a caller supplied id into a UUID. A malformed id cannot name
// an existing entity, so it is reported as not found.
func parseID(entity string, raw string) (uuid.UUID, error) {
	id, err := uuid.FromString(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, bankerr.NotFound(entity, raw)
	}
	return id, nil
}
