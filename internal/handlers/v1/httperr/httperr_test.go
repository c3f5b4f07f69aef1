package httperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
)

func TestFromService(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
	}{
		"not found":          {bankerr.NotFound("account", "x"), http.StatusNotFound},
		"business rule":      {bankerr.ErrInsufficientFunds, http.StatusBadRequest},
		"conflict":           {bankerr.Conflict("update", nil), http.StatusConflict},
		"storage":            {bankerr.Storage("select", errors.New("down")), http.StatusServiceUnavailable},
		"retries exhausted":  {bankerr.Storage("transfer", bankerr.Conflict("update", nil)), http.StatusServiceUnavailable},
		"unclassified error": {errors.New("boom"), http.StatusInternalServerError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var se huma.StatusError
			require.ErrorAs(t, FromService(tc.err, "failed"), &se)
			assert.Equal(t, tc.status, se.GetStatus())
		})
	}
}

func TestFromService_BusinessRuleKeepsMessage(t *testing.T) {
	err := FromService(bankerr.ErrSameAccount, "failed")
	assert.Contains(t, err.Error(), "same account")
}
