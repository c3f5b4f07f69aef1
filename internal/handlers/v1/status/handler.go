package status

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/carson-networks/bank-ledger/internal/logging"
)

const pingTimeout = 2 * time.Second

// pinger is satisfied by *sql.DB.
type pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	DB pinger
}

// NewHandler returns a status handler. db may be nil when the ledger runs on
// the in-memory store.
func NewHandler(db pinger) Handler {
	return Handler{DB: db}
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("status: method not GET")
	}

	if h.DB != nil {
		ctx, cancel := context.WithTimeout(req.Context(), pingTimeout)
		defer cancel()

		stopTimer := logData.AddTiming("pingMs")
		err := h.DB.PingContext(ctx)
		stopTimer()
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return fmt.Errorf("status: database ping: %w", err)
		}
	}

	w.WriteHeader(http.StatusOK)
	return nil
}
