package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
	"github.com/carson-networks/bank-ledger/internal/service"
)

type mockClientService struct {
	mock.Mock
}

func (m *mockClientService) CreateClient(ctx context.Context, input service.ClientInput) (*service.Client, error) {
	args := m.Called(ctx, input)
	c, _ := args.Get(0).(*service.Client)
	return c, args.Error(1)
}

func (m *mockClientService) GetClient(ctx context.Context, id string) (*service.Client, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*service.Client)
	return c, args.Error(1)
}

func (m *mockClientService) GetClientByNaturalKey(ctx context.Context, naturalKey string) (*service.Client, error) {
	args := m.Called(ctx, naturalKey)
	c, _ := args.Get(0).(*service.Client)
	return c, args.Error(1)
}

func (m *mockClientService) UpdateClient(ctx context.Context, id string, input service.ClientInput) (*service.Client, error) {
	args := m.Called(ctx, id, input)
	c, _ := args.Get(0).(*service.Client)
	return c, args.Error(1)
}

func (m *mockClientService) ListClients(ctx context.Context, cursor *service.ClientCursor) ([]service.Client, *service.ClientCursor, error) {
	args := m.Called(ctx, cursor)
	clients, _ := args.Get(0).([]service.Client)
	next, _ := args.Get(1).(*service.ClientCursor)
	return clients, next, args.Error(2)
}

func newTestAPI(t *testing.T, svc *mockClientService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewCreateClientHandler(svc).Register(api)
	NewGetClientHandler(svc).Register(api)
	NewUpdateClientHandler(svc).Register(api)
	NewListClientsHandler(svc).Register(api)
	return api
}

func sampleClient() *service.Client {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &service.Client{
		ID:         uuid.Must(uuid.NewV4()),
		FullName:   "Ada Lovelace",
		NaturalKey: "12345678901",
		BirthDate:  time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC),
		CreatedAt:  created,
		UpdatedAt:  created,
	}
}

func TestHTTP_CreateClient_Success(t *testing.T) {
	c := sampleClient()
	svc := new(mockClientService)
	svc.On("CreateClient", mock.Anything, mock.MatchedBy(func(in service.ClientInput) bool {
		return in.FullName == "Ada Lovelace" &&
			in.NaturalKey == "12345678901" &&
			in.BirthDate.Equal(c.BirthDate)
	})).Return(c, nil)

	resp := newTestAPI(t, svc).Post("/v1/clients", ClientBody{
		FullName:   "Ada Lovelace",
		NaturalKey: "12345678901",
		BirthDate:  "1990-12-10",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body Client
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, c.ID.String(), body.ID)
	assert.Equal(t, "1990-12-10", body.BirthDate)
	svc.AssertExpectations(t)
}

func TestHTTP_CreateClient_InvalidBirthDate(t *testing.T) {
	svc := new(mockClientService)

	resp := newTestAPI(t, svc).Post("/v1/clients", ClientBody{
		FullName:   "Ada Lovelace",
		NaturalKey: "12345678901",
		BirthDate:  "10/12/1990",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	svc.AssertNotCalled(t, "CreateClient", mock.Anything, mock.Anything)
}

func TestHTTP_CreateClient_DuplicateKey(t *testing.T) {
	svc := new(mockClientService)
	svc.On("CreateClient", mock.Anything, mock.Anything).Return(nil, bankerr.ErrDuplicateNaturalKey)

	resp := newTestAPI(t, svc).Post("/v1/clients", ClientBody{
		FullName:   "Ada Lovelace",
		NaturalKey: "12345678901",
		BirthDate:  "1990-12-10",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHTTP_GetClient(t *testing.T) {
	c := sampleClient()
	svc := new(mockClientService)
	svc.On("GetClient", mock.Anything, c.ID.String()).Return(c, nil)
	svc.On("GetClientByNaturalKey", mock.Anything, "12345678901").Return(c, nil)
	api := newTestAPI(t, svc)

	resp := api.Get("/v1/clients/" + c.ID.String())
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = api.Get("/v1/client-keys/12345678901")
	assert.Equal(t, http.StatusOK, resp.Code)
	var body Client
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, c.ID.String(), body.ID)
}

func TestHTTP_GetClient_NotFound(t *testing.T) {
	svc := new(mockClientService)
	svc.On("GetClient", mock.Anything, "missing").Return(nil, bankerr.NotFound("client", "missing"))

	resp := newTestAPI(t, svc).Get("/v1/clients/missing")

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHTTP_UpdateClient(t *testing.T) {
	c := sampleClient()
	c.FullName = "Ada King"
	svc := new(mockClientService)
	svc.On("UpdateClient", mock.Anything, c.ID.String(), mock.MatchedBy(func(in service.ClientInput) bool {
		return in.FullName == "Ada King"
	})).Return(c, nil)

	resp := newTestAPI(t, svc).Put("/v1/clients/"+c.ID.String(), ClientBody{
		FullName:   "Ada King",
		NaturalKey: "12345678901",
		BirthDate:  "1990-12-10",
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body Client
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Ada King", body.FullName)
}

func TestHTTP_ListClients(t *testing.T) {
	c := sampleClient()
	svc := new(mockClientService)
	svc.On("ListClients", mock.Anything, &service.ClientCursor{Position: 0, Limit: 1}).
		Return([]service.Client{*c}, &service.ClientCursor{Position: 1, Limit: 1}, nil)

	resp := newTestAPI(t, svc).Get("/v1/clients?limit=1")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListClientsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Clients, 1)
	require.NotNil(t, body.NextCursor)
	assert.Equal(t, 1, body.NextCursor.Position)
}

func TestHTTP_ListClients_StorageFailure(t *testing.T) {
	svc := new(mockClientService)
	svc.On("ListClients", mock.Anything, mock.Anything).Return(nil, nil, bankerr.Storage("list clients", errors.New("down")))

	resp := newTestAPI(t, svc).Get("/v1/clients")

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}
