package client

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/bank-ledger/internal/handlers/v1/httperr"
	"github.com/carson-networks/bank-ledger/internal/logging"
	"github.com/carson-networks/bank-ledger/internal/service"
)

// ListClientsInput is the Huma input for listing clients.
type ListClientsInput struct {
	Position int `query:"position" minimum:"0" doc:"Offset for pagination"`
	Limit    int `query:"limit" minimum:"0" maximum:"100" doc:"Page size, default 20"`
}

type ListClientsCursor struct {
	Position int `json:"position" doc:"Offset for next page"`
	Limit    int `json:"limit" doc:"Page size"`
}

// ListClientsResponseBody is the response body for listing clients.
type ListClientsResponseBody struct {
	Clients    []Client           `json:"clients" doc:"Page of clients"`
	NextCursor *ListClientsCursor `json:"nextCursor,omitempty" doc:"Cursor to fetch the next page, absent on the last page"`
}

type ListClientsOutput struct {
	Body ListClientsResponseBody
}

type clientLister interface {
	ListClients(ctx context.Context, cursor *service.ClientCursor) ([]service.Client, *service.ClientCursor, error)
}

// ListClientsHandler handles GET /v1/clients.
type ListClientsHandler struct {
	ClientService clientLister
}

func NewListClientsHandler(svc clientLister) *ListClientsHandler {
	return &ListClientsHandler{ClientService: svc}
}

func (h *ListClientsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-clients",
		Method:      http.MethodGet,
		Path:        "/v1/clients",
		Summary:     "List clients",
		Description: "Returns a paginated list of clients, oldest first.",
		Tags:        []string{"Clients"},
	}, h.handle)
}

func (h *ListClientsHandler) handle(ctx context.Context, input *ListClientsInput) (*ListClientsOutput, error) {
	logData := logging.GetLogData(ctx)

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("listClientsMs")
	}
	clients, next, err := h.ClientService.ListClients(ctx, &service.ClientCursor{
		Position: input.Position,
		Limit:    input.Limit,
	})
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, httperr.FromService(err, "failed to list clients")
	}

	if logData != nil {
		logData.AddData("clientCount", len(clients))
	}

	resp := ListClientsResponseBody{Clients: make([]Client, len(clients))}
	for i := range clients {
		resp.Clients[i] = toClient(&clients[i])
	}
	if next != nil {
		resp.NextCursor = &ListClientsCursor{Position: next.Position, Limit: next.Limit}
	}
	return &ListClientsOutput{Body: resp}, nil
}
