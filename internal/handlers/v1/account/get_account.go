package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/bank-ledger/internal/handlers/v1/httperr"
	"github.com/carson-networks/bank-ledger/internal/service"
)

type GetAccountInput struct {
	ID string `path:"id" doc:"Account UUID"`
}

type GetAccountByNumberInput struct {
	AccountNumber string `path:"accountNumber" doc:"10 digit account number"`
}

type GetAccountOutput struct {
	Body Account
}

type BalanceBody struct {
	AccountID     string `json:"accountID" doc:"Account UUID"`
	AccountNumber string `json:"accountNumber" doc:"10 digit account number"`
	Balance       string `json:"balance" doc:"Committed balance"`
}

type GetBalanceOutput struct {
	Body BalanceBody
}

type accountGetter interface {
	GetAccount(ctx context.Context, id string) (*service.Account, error)
	GetAccountByNumber(ctx context.Context, number string) (*service.Account, error)
	GetBalance(ctx context.Context, id string) (*service.Balance, error)
}

// GetAccountHandler serves single account reads.
type GetAccountHandler struct {
	AccountService accountGetter
}

func NewGetAccountHandler(svc accountGetter) *GetAccountHandler {
	return &GetAccountHandler{AccountService: svc}
}

func (h *GetAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-account",
		Method:      http.MethodGet,
		Path:        "/v1/accounts/{id}",
		Summary:     "Get an account",
		Tags:        []string{"Accounts"},
	}, h.handleByID)

	huma.Register(api, huma.Operation{
		OperationID: "get-account-by-number",
		Method:      http.MethodGet,
		Path:        "/v1/account-numbers/{accountNumber}",
		Summary:     "Get an account by account number",
		Tags:        []string{"Accounts"},
	}, h.handleByNumber)

	huma.Register(api, huma.Operation{
		OperationID: "get-account-balance",
		Method:      http.MethodGet,
		Path:        "/v1/accounts/{id}/balance",
		Summary:     "Get an account balance",
		Description: "Returns the balance as of the last committed transfer.",
		Tags:        []string{"Accounts"},
	}, h.handleBalance)
}

func (h *GetAccountHandler) handleByID(ctx context.Context, input *GetAccountInput) (*GetAccountOutput, error) {
	a, err := h.AccountService.GetAccount(ctx, input.ID)
	if err != nil {
		return nil, httperr.FromService(err, "failed to get account")
	}
	return &GetAccountOutput{Body: toAccount(a)}, nil
}

func (h *GetAccountHandler) handleByNumber(ctx context.Context, input *GetAccountByNumberInput) (*GetAccountOutput, error) {
	a, err := h.AccountService.GetAccountByNumber(ctx, input.AccountNumber)
	if err != nil {
		return nil, httperr.FromService(err, "failed to get account")
	}
	return &GetAccountOutput{Body: toAccount(a)}, nil
}

func (h *GetAccountHandler) handleBalance(ctx context.Context, input *GetAccountInput) (*GetBalanceOutput, error) {
	b, err := h.AccountService.GetBalance(ctx, input.ID)
	if err != nil {
		return nil, httperr.FromService(err, "failed to get balance")
	}
	return &GetBalanceOutput{Body: BalanceBody{
		AccountID:     b.AccountID.String(),
		AccountNumber: b.AccountNumber,
		Balance:       b.Balance.StringFixed(2),
	}}, nil
}
