package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
	"github.com/carson-networks/bank-ledger/internal/handlers/v1/httperr"
	"github.com/carson-networks/bank-ledger/internal/logging"
	"github.com/carson-networks/bank-ledger/internal/service"
)

// CreateTransferBody is the request body for a transfer. Missing ids and
// malformed amounts are reported as business rule violations, not schema
// errors, so the fields are optional at the schema level.
type CreateTransferBody struct {
	SourceAccountID      string `json:"sourceAccountID,omitempty" doc:"Account UUID to debit"`
	DestinationAccountID string `json:"destinationAccountID,omitempty" doc:"Account UUID to credit"`
	Amount               string `json:"amount,omitempty" doc:"Decimal amount, at least 0.01 with at most 2 decimal places"`
	Description          string `json:"description,omitempty" doc:"Optional description, at most 255 characters"`
}

// CreateTransferInput is the Huma input for creating a transfer.
type CreateTransferInput struct {
	Body CreateTransferBody
}

// CreateTransferOutput is the Huma output for creating a transfer.
type CreateTransferOutput struct {
	Status int
	Body   Transaction
}

type transferer interface {
	Transfer(ctx context.Context, req service.TransferRequest) (*service.Transaction, error)
}

// CreateTransferHandler handles POST /v1/transactions.
type CreateTransferHandler struct {
	TransferService transferer
}

// NewCreateTransferHandler creates a new CreateTransferHandler.
func NewCreateTransferHandler(svc transferer) *CreateTransferHandler {
	return &CreateTransferHandler{TransferService: svc}
}

// Register registers the create transfer endpoint with the Huma API.
func (h *CreateTransferHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-transfer",
		Method:      http.MethodPost,
		Path:        "/v1/transactions",
		Summary:     "Transfer funds",
		Description: "Moves funds between two accounts atomically and records the transaction.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func parseCreateTransferInput(input *CreateTransferInput) (service.TransferRequest, error) {
	amount, err := decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return service.TransferRequest{}, bankerr.ErrInvalidAmount
	}
	return service.TransferRequest{
		SourceAccountID:      input.Body.SourceAccountID,
		DestinationAccountID: input.Body.DestinationAccountID,
		Amount:               amount,
		Description:          input.Body.Description,
	}, nil
}

func (h *CreateTransferHandler) handle(ctx context.Context, input *CreateTransferInput) (*CreateTransferOutput, error) {
	req, err := parseCreateTransferInput(input)
	if err != nil {
		return nil, httperr.FromService(err, "invalid transfer")
	}

	var recorded *service.Transaction
	err = logging.Timed(ctx, "transferMs", func() error {
		var transferErr error
		recorded, transferErr = h.TransferService.Transfer(ctx, req)
		return transferErr
	})
	if err != nil {
		return nil, httperr.FromService(err, "failed to transfer")
	}

	return &CreateTransferOutput{Status: http.StatusCreated, Body: toTransaction(recorded)}, nil
}
