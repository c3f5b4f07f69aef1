package client

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/bank-ledger/internal/handlers/v1/httperr"
	"github.com/carson-networks/bank-ledger/internal/logging"
	"github.com/carson-networks/bank-ledger/internal/service"
)

// CreateClientInput is the Huma input for registering a client.
type CreateClientInput struct {
	Body ClientBody
}

// CreateClientOutput is the response for registering a client.
type CreateClientOutput struct {
	Status int
	Body   Client
}

type clientCreator interface {
	CreateClient(ctx context.Context, input service.ClientInput) (*service.Client, error)
}

// CreateClientHandler handles POST /v1/clients.
type CreateClientHandler struct {
	ClientService clientCreator
}

func NewCreateClientHandler(svc clientCreator) *CreateClientHandler {
	return &CreateClientHandler{ClientService: svc}
}

// Register registers the create client endpoint with the Huma API.
func (h *CreateClientHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-client",
		Method:      http.MethodPost,
		Path:        "/v1/clients",
		Summary:     "Register a client",
		Description: "Registers a client. The natural person key must not already be registered.",
		Tags:        []string{"Clients"},
	}, h.handle)
}

func (h *CreateClientHandler) handle(ctx context.Context, input *CreateClientInput) (*CreateClientOutput, error) {
	clientInput, err := parseClientBody(input.Body)
	if err != nil {
		return nil, err
	}

	var created *service.Client
	err = logging.Timed(ctx, "createClientMs", func() error {
		var createErr error
		created, createErr = h.ClientService.CreateClient(ctx, clientInput)
		return createErr
	})
	if err != nil {
		return nil, httperr.FromService(err, "failed to create client")
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("clientID", created.ID.String())
	}

	return &CreateClientOutput{Status: http.StatusCreated, Body: toClient(created)}, nil
}
