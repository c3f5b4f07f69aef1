package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/bank-ledger/internal/storage/transaction"
)

// Transaction represents a recorded transfer in the service layer.
type Transaction struct {
	ID                       uuid.UUID
	SourceAccountID          uuid.UUID
	SourceAccountNumber      string
	DestinationAccountID     uuid.UUID
	DestinationAccountNumber string
	Amount                   decimal.Decimal
	Kind                     string
	Description              string
	CreatedAt                time.Time
}

// TransactionCursor identifies a position in a paginated result set.
type TransactionCursor struct {
	Position        int
	Limit           int
	MaxCreationTime time.Time
}

// TransferRequest is an unvalidated transfer order. The ids are kept as the
// caller sent them so a malformed id can be reported as an unknown account.
type TransferRequest struct {
	SourceAccountID      string
	DestinationAccountID string
	Amount               decimal.Decimal
	Description          string
}

func transactionFromStorage(t *transaction.Transaction) Transaction {
	return Transaction{
		ID:                       t.ID,
		SourceAccountID:          t.SourceAccountID,
		SourceAccountNumber:      t.SourceAccountNumber,
		DestinationAccountID:     t.DestinationAccountID,
		DestinationAccountNumber: t.DestinationAccountNumber,
		Amount:                   t.Amount,
		Kind:                     string(t.Kind),
		Description:              t.Description,
		CreatedAt:                t.CreatedAt,
	}
}

func transactionsFromStorage(rows []*transaction.Transaction) []Transaction {
	result := make([]Transaction, len(rows))
	for i, row := range rows {
		result[i] = transactionFromStorage(row)
	}
	return result
}
