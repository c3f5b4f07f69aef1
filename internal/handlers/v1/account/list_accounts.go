package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/bank-ledger/internal/handlers/v1/httperr"
	"github.com/carson-networks/bank-ledger/internal/logging"
	"github.com/carson-networks/bank-ledger/internal/service"
)

// ListAccountsInput is the Huma input for listing accounts.
type ListAccountsInput struct {
	Position int `query:"position" minimum:"0" doc:"Offset for pagination"`
	Limit    int `query:"limit" minimum:"0" maximum:"100" doc:"Page size, default 20"`
}

type ListAccountsCursor struct {
	Position int `json:"position" doc:"Offset for next page"`
	Limit    int `json:"limit" doc:"Page size"`
}

// ListAccountsResponseBody is the response body for listing accounts.
type ListAccountsResponseBody struct {
	Accounts   []Account           `json:"accounts" doc:"Page of accounts"`
	NextCursor *ListAccountsCursor `json:"nextCursor,omitempty" doc:"Cursor to fetch the next page, absent on the last page"`
}

// ListAccountsOutput is the Huma output for listing accounts.
type ListAccountsOutput struct {
	Body ListAccountsResponseBody
}

type ListClientAccountsInput struct {
	ClientID string `path:"id" doc:"Client UUID"`
}

type ListClientAccountsOutput struct {
	Body struct {
		Accounts []Account `json:"accounts" doc:"Every account the client holds, oldest first"`
	}
}

type accountLister interface {
	ListAccounts(ctx context.Context, cursor *service.AccountCursor) ([]service.Account, *service.AccountCursor, error)
	ListAccountsByClient(ctx context.Context, clientID string) ([]service.Account, error)
}

// ListAccountsHandler handles GET /v1/accounts and GET /v1/clients/{id}/accounts.
type ListAccountsHandler struct {
	AccountService accountLister
}

// NewListAccountsHandler creates a new ListAccountsHandler.
func NewListAccountsHandler(svc accountLister) *ListAccountsHandler {
	return &ListAccountsHandler{AccountService: svc}
}

// Register registers the list accounts endpoints with the Huma API.
func (h *ListAccountsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-accounts",
		Method:      http.MethodGet,
		Path:        "/v1/accounts",
		Summary:     "List accounts",
		Description: "Returns a paginated list of accounts.",
		Tags:        []string{"Accounts"},
	}, h.handle)

	huma.Register(api, huma.Operation{
		OperationID: "list-client-accounts",
		Method:      http.MethodGet,
		Path:        "/v1/clients/{id}/accounts",
		Summary:     "List a client's accounts",
		Tags:        []string{"Accounts", "Clients"},
	}, h.handleByClient)
}

func (h *ListAccountsHandler) handle(ctx context.Context, input *ListAccountsInput) (*ListAccountsOutput, error) {
	logData := logging.GetLogData(ctx)

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("listAccountsMs")
	}
	accounts, next, err := h.AccountService.ListAccounts(ctx, &service.AccountCursor{
		Position: input.Position,
		Limit:    input.Limit,
	})
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, httperr.FromService(err, "failed to list accounts")
	}

	if logData != nil {
		logData.AddData("accountCount", len(accounts))
	}

	resp := ListAccountsResponseBody{Accounts: toAccounts(accounts)}
	if next != nil {
		resp.NextCursor = &ListAccountsCursor{Position: next.Position, Limit: next.Limit}
	}
	return &ListAccountsOutput{Body: resp}, nil
}

func (h *ListAccountsHandler) handleByClient(ctx context.Context, input *ListClientAccountsInput) (*ListClientAccountsOutput, error) {
	accounts, err := h.AccountService.ListAccountsByClient(ctx, input.ClientID)
	if err != nil {
		return nil, httperr.FromService(err, "failed to list client accounts")
	}

	out := &ListClientAccountsOutput{}
	out.Body.Accounts = toAccounts(accounts)
	return out, nil
}
