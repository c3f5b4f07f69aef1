// Package natsrpc answers balance lookups sent as NATS requests. The request
// payload is the account id; the reply is a JSON balanceReply.
package natsrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
	"github.com/carson-networks/bank-ledger/internal/service"
)

const requestTimeout = 2 * time.Second

type balanceService interface {
	GetBalance(ctx context.Context, id string) (*service.Balance, error)
}

type balanceReply struct {
	AccountID     string `json:"accountID,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	Balance       string `json:"balance,omitempty"`
	Error         string `json:"error,omitempty"`
	NotFound      bool   `json:"notFound,omitempty"`
}

type BalanceResponder struct {
	conn    *nats.Conn
	subject string
	svc     balanceService
	log     *logrus.Logger
	sub     *nats.Subscription
}

func NewBalanceResponder(conn *nats.Conn, subject string, svc balanceService, log *logrus.Logger) *BalanceResponder {
	return &BalanceResponder{conn: conn, subject: subject, svc: svc, log: log}
}

// Start subscribes to the balance subject. Replies are sent from the NATS
// callback goroutine.
func (r *BalanceResponder) Start() error {
	sub, err := r.conn.Subscribe(r.subject, func(msg *nats.Msg) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := msg.Respond(r.handle(ctx, msg.Data)); err != nil {
			r.log.WithError(err).Warn("BalanceResponder.Respond.failed")
		}
	})
	if err != nil {
		return fmt.Errorf("natsrpc: subscribe %s: %w", r.subject, err)
	}
	r.sub = sub
	r.log.WithField("subject", r.subject).Info("BalanceResponder.Start.subscribed")
	return nil
}

// Stop drains the subscription so in-flight requests still get a reply.
func (r *BalanceResponder) Stop() error {
	if r.sub == nil {
		return nil
	}
	return r.sub.Drain()
}

func (r *BalanceResponder) handle(ctx context.Context, data []byte) []byte {
	var reply balanceReply
	balance, err := r.svc.GetBalance(ctx, strings.TrimSpace(string(data)))
	switch {
	case errors.Is(err, bankerr.ErrNotFound):
		reply = balanceReply{Error: err.Error(), NotFound: true}
	case err != nil:
		r.log.WithError(err).Error("BalanceResponder.GetBalance.failed")
		reply = balanceReply{Error: "balance lookup failed"}
	default:
		reply = balanceReply{
			AccountID:     balance.AccountID.String(),
			AccountNumber: balance.AccountNumber,
			Balance:       balance.Balance.StringFixed(2),
		}
	}

	out, err := json.Marshal(reply)
	if err != nil {
		return []byte(`{"error":"encode reply"}`)
	}
	return out
}
