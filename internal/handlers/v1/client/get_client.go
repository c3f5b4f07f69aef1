package client

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/bank-ledger/internal/handlers/v1/httperr"
	"github.com/carson-networks/bank-ledger/internal/service"
)

type GetClientInput struct {
	ID string `path:"id" doc:"Client UUID"`
}

type GetClientByNaturalKeyInput struct {
	NaturalKey string `path:"naturalKey" doc:"11 digit natural person key"`
}

type GetClientOutput struct {
	Body Client
}

type clientGetter interface {
	GetClient(ctx context.Context, id string) (*service.Client, error)
	GetClientByNaturalKey(ctx context.Context, naturalKey string) (*service.Client, error)
}

// GetClientHandler serves client lookups by id and by natural key.
type GetClientHandler struct {
	ClientService clientGetter
}

func NewGetClientHandler(svc clientGetter) *GetClientHandler {
	return &GetClientHandler{ClientService: svc}
}

func (h *GetClientHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-client",
		Method:      http.MethodGet,
		Path:        "/v1/clients/{id}",
		Summary:     "Get a client",
		Tags:        []string{"Clients"},
	}, h.handleByID)

	huma.Register(api, huma.Operation{
		OperationID: "get-client-by-natural-key",
		Method:      http.MethodGet,
		Path:        "/v1/client-keys/{naturalKey}",
		Summary:     "Get a client by natural person key",
		Tags:        []string{"Clients"},
	}, h.handleByNaturalKey)
}

func (h *GetClientHandler) handleByID(ctx context.Context, input *GetClientInput) (*GetClientOutput, error) {
	c, err := h.ClientService.GetClient(ctx, input.ID)
	if err != nil {
		return nil, httperr.FromService(err, "failed to get client")
	}
	return &GetClientOutput{Body: toClient(c)}, nil
}

func (h *GetClientHandler) handleByNaturalKey(ctx context.Context, input *GetClientByNaturalKeyInput) (*GetClientOutput, error) {
	c, err := h.ClientService.GetClientByNaturalKey(ctx, input.NaturalKey)
	if err != nil {
		return nil, httperr.FromService(err, "failed to get client")
	}
	return &GetClientOutput{Body: toClient(c)}, nil
}
