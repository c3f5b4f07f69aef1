package transaction

import (
	"time"

	"github.com/carson-networks/bank-ledger/internal/service"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID                       string `json:"id" doc:"Transaction UUID"`
	SourceAccountID          string `json:"sourceAccountID" doc:"Debited account UUID"`
	SourceAccountNumber      string `json:"sourceAccountNumber" doc:"Debited account number"`
	DestinationAccountID     string `json:"destinationAccountID" doc:"Credited account UUID"`
	DestinationAccountNumber string `json:"destinationAccountNumber" doc:"Credited account number"`
	Amount                   string `json:"amount" doc:"Decimal amount"`
	Kind                     string `json:"kind" doc:"Transaction kind"`
	Description              string `json:"description,omitempty" doc:"Free text description"`
	CreatedAt                string `json:"createdAt" doc:"RFC3339 commit time"`
}

func toTransaction(tx *service.Transaction) Transaction {
	return Transaction{
		ID:                       tx.ID.String(),
		SourceAccountID:          tx.SourceAccountID.String(),
		SourceAccountNumber:      tx.SourceAccountNumber,
		DestinationAccountID:     tx.DestinationAccountID.String(),
		DestinationAccountNumber: tx.DestinationAccountNumber,
		Amount:                   tx.Amount.StringFixed(2),
		Kind:                     tx.Kind,
		Description:              tx.Description,
		CreatedAt:                tx.CreatedAt.Format(time.RFC3339Nano),
	}
}

func toTransactions(txs []service.Transaction) []Transaction {
	result := make([]Transaction, len(txs))
	for i := range txs {
		result[i] = toTransaction(&txs[i])
	}
	return result
}
