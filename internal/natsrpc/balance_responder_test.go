package natsrpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
	"github.com/carson-networks/bank-ledger/internal/service"
)

type mockBalanceService struct {
	mock.Mock
}

func (m *mockBalanceService) GetBalance(ctx context.Context, id string) (*service.Balance, error) {
	args := m.Called(ctx, id)
	if b := args.Get(0); b != nil {
		return b.(*service.Balance), args.Error(1)
	}
	return nil, args.Error(1)
}

func newResponder(svc balanceService) *BalanceResponder {
	log := logrus.New()
	log.Out = io.Discard
	return NewBalanceResponder(nil, "bank.balance", svc, log)
}

func decode(t *testing.T, raw []byte) balanceReply {
	t.Helper()
	var reply balanceReply
	require.NoError(t, json.Unmarshal(raw, &reply))
	return reply
}

func TestHandle_Balance(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	svc := &mockBalanceService{}
	svc.On("GetBalance", mock.Anything, id.String()).Return(&service.Balance{
		AccountID:     id,
		AccountNumber: "0000000042",
		Balance:       decimal.RequireFromString("12.5"),
	}, nil)

	reply := decode(t, newResponder(svc).handle(context.Background(), []byte(" "+id.String()+"\n")))

	assert.Equal(t, id.String(), reply.AccountID)
	assert.Equal(t, "0000000042", reply.AccountNumber)
	assert.Equal(t, "12.50", reply.Balance)
	assert.Empty(t, reply.Error)
	svc.AssertExpectations(t)
}

func TestHandle_NotFound(t *testing.T) {
	svc := &mockBalanceService{}
	svc.On("GetBalance", mock.Anything, "nope").Return(nil, bankerr.NotFound("account", "nope"))

	reply := decode(t, newResponder(svc).handle(context.Background(), []byte("nope")))

	assert.True(t, reply.NotFound)
	assert.Contains(t, reply.Error, "not found")
}

func TestHandle_StorageFailureHidesCause(t *testing.T) {
	svc := &mockBalanceService{}
	svc.On("GetBalance", mock.Anything, "x").Return(nil, bankerr.Storage("find account", errors.New("connection refused")))

	reply := decode(t, newResponder(svc).handle(context.Background(), []byte("x")))

	assert.False(t, reply.NotFound)
	assert.Equal(t, "balance lookup failed", reply.Error)
}

func TestStop_BeforeStart(t *testing.T) {
	assert.NoError(t, newResponder(&mockBalanceService{}).Stop())
}
