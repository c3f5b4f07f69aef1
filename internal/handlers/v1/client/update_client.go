package client

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/bank-ledger/internal/handlers/v1/httperr"
	"github.com/carson-networks/bank-ledger/internal/logging"
	"github.com/carson-networks/bank-ledger/internal/service"
)

// UpdateClientInput is the Huma input for replacing a client's details.
type UpdateClientInput struct {
	ID   string `path:"id" doc:"Client UUID"`
	Body ClientBody
}

type UpdateClientOutput struct {
	Body Client
}

type clientUpdater interface {
	UpdateClient(ctx context.Context, id string, input service.ClientInput) (*service.Client, error)
}

// UpdateClientHandler handles PUT /v1/clients/{id}.
type UpdateClientHandler struct {
	ClientService clientUpdater
}

func NewUpdateClientHandler(svc clientUpdater) *UpdateClientHandler {
	return &UpdateClientHandler{ClientService: svc}
}

func (h *UpdateClientHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-client",
		Method:      http.MethodPut,
		Path:        "/v1/clients/{id}",
		Summary:     "Update a client",
		Description: "Replaces the client's name and birth date. The natural person key must match the stored one.",
		Tags:        []string{"Clients"},
	}, h.handle)
}

func (h *UpdateClientHandler) handle(ctx context.Context, input *UpdateClientInput) (*UpdateClientOutput, error) {
	clientInput, err := parseClientBody(input.Body)
	if err != nil {
		return nil, err
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("clientID", input.ID)
	}

	updated, err := h.ClientService.UpdateClient(ctx, input.ID, clientInput)
	if err != nil {
		return nil, httperr.FromService(err, "failed to update client")
	}
	return &UpdateClientOutput{Body: toClient(updated)}, nil
}
