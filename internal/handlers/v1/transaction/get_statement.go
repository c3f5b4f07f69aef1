package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/bank-ledger/internal/handlers/v1/httperr"
	"github.com/carson-networks/bank-ledger/internal/logging"
	"github.com/carson-networks/bank-ledger/internal/service"
)

// GetStatementInput is the Huma input for an account statement. The window
// filters only when both bounds are given.
type GetStatementInput struct {
	AccountID string `path:"id" doc:"Account UUID"`
	StartTime string `query:"startTime" doc:"Inclusive RFC3339 lower bound, used together with endTime"`
	EndTime   string `query:"endTime" doc:"Inclusive RFC3339 upper bound, used together with startTime"`
}

type GetStatementResponseBody struct {
	AccountID    string        `json:"accountID" doc:"Account UUID"`
	Transactions []Transaction `json:"transactions" doc:"Transactions touching the account, oldest first"`
}

type GetStatementOutput struct {
	Body GetStatementResponseBody
}

type statementReader interface {
	GetStatement(ctx context.Context, accountID string, start *time.Time, end *time.Time) ([]service.Transaction, error)
}

// GetStatementHandler handles GET /v1/accounts/{id}/statement.
type GetStatementHandler struct {
	TransactionService statementReader
}

func NewGetStatementHandler(svc statementReader) *GetStatementHandler {
	return &GetStatementHandler{TransactionService: svc}
}

func (h *GetStatementHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-account-statement",
		Method:      http.MethodGet,
		Path:        "/v1/accounts/{id}/statement",
		Summary:     "Get an account statement",
		Description: "Lists every transaction where the account is source or destination, oldest first. When both startTime and endTime are given only transactions inside that inclusive window are returned; an inverted window returns an empty list.",
		Tags:        []string{"Accounts", "Transactions"},
	}, h.handle)
}

func parseBound(name string, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid "+name, err)
	}
	return &t, nil
}

func (h *GetStatementHandler) handle(ctx context.Context, input *GetStatementInput) (*GetStatementOutput, error) {
	start, err := parseBound("startTime", input.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseBound("endTime", input.EndTime)
	if err != nil {
		return nil, err
	}

	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		logData.AddData("accountID", input.AccountID)
		stopTimer = logData.AddTiming("statementMs")
	}
	txs, err := h.TransactionService.GetStatement(ctx, input.AccountID, start, end)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, httperr.FromService(err, "failed to build statement")
	}

	if logData != nil {
		logData.AddData("transactionCount", len(txs))
	}

	return &GetStatementOutput{Body: GetStatementResponseBody{
		AccountID:    input.AccountID,
		Transactions: toTransactions(txs),
	}}, nil
}
