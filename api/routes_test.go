package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/bank-ledger/internal/events"
	"github.com/carson-networks/bank-ledger/internal/operator"
	"github.com/carson-networks/bank-ledger/internal/service"
	"github.com/carson-networks/bank-ledger/internal/storage/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := logrus.New()
	log.Out = io.Discard

	store := memory.NewStorage()
	delegator := operator.NewOperatorDelegator(store, operator.Config{
		Workers:        2,
		QueueSize:      16,
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}, log)
	delegator.Start()
	t.Cleanup(delegator.Stop)

	svc := service.NewService(store, delegator, events.NopPublisher{}, log)
	server := httptest.NewServer(NewRest(log, "0", svc, nil).Handler())
	t.Cleanup(server.Close)
	return server
}

func do(t *testing.T, method string, url string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestStatus(t *testing.T) {
	server := newTestServer(t)
	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, server.URL+"/status", nil, nil))
}

func TestTransferFlow(t *testing.T) {
	server := newTestServer(t)

	openAccount := func(naturalKey string) (id string, number string) {
		var c struct {
			ID string `json:"id"`
		}
		require.Equal(t, http.StatusCreated, do(t, http.MethodPost, server.URL+"/v1/clients", map[string]string{
			"fullName":   "Grace Hopper",
			"naturalKey": naturalKey,
			"birthDate":  "1985-07-01",
		}, &c))

		var a struct {
			ID            string `json:"id"`
			AccountNumber string `json:"accountNumber"`
			Balance       string `json:"balance"`
		}
		require.Equal(t, http.StatusCreated, do(t, http.MethodPost, server.URL+"/v1/accounts", map[string]string{
			"clientID": c.ID,
			"kind":     "CHECKING",
		}, &a))
		assert.Equal(t, "100.00", a.Balance)
		return a.ID, a.AccountNumber
	}
	source, _ := openAccount("11111111111")
	destination, destinationNumber := openAccount("22222222222")

	var tx struct {
		ID                       string `json:"id"`
		DestinationAccountNumber string `json:"destinationAccountNumber"`
	}
	status := do(t, http.MethodPost, server.URL+"/v1/transactions", map[string]string{
		"sourceAccountID":      source,
		"destinationAccountID": destination,
		"amount":               "40.00",
	}, &tx)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, destinationNumber, tx.DestinationAccountNumber)

	var balance struct {
		Balance string `json:"balance"`
	}
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, server.URL+"/v1/accounts/"+source+"/balance", nil, &balance))
	assert.Equal(t, "60.00", balance.Balance)

	status = do(t, http.MethodPost, server.URL+"/v1/transactions", map[string]string{
		"sourceAccountID":      source,
		"destinationAccountID": destination,
		"amount":               "60.01",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	var statement struct {
		Transactions []struct {
			ID string `json:"id"`
		} `json:"transactions"`
	}
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, server.URL+"/v1/accounts/"+destination+"/statement", nil, &statement))
	require.Len(t, statement.Transactions, 1)
	assert.Equal(t, tx.ID, statement.Transactions[0].ID)
}
