package service

import (
	"context"
	"time"

	"github.com/carson-networks/bank-ledger/internal/storage"
	"github.com/carson-networks/bank-ledger/internal/storage/transaction"
)

// TransactionService answers statement and transaction queries. It never writes.
type TransactionService struct {
	storage *storage.Storage
}

func NewTransactionService(store *storage.Storage) *TransactionService {
	return &TransactionService{storage: store}
}

// GetStatement lists every transaction where the account is source or
// destination, oldest first. The window [start, end] is applied only when both
// bounds are given; otherwise the full history is returned. An inverted window
// yields an empty statement.
func (s *TransactionService) GetStatement(ctx context.Context, accountID string, start *time.Time, end *time.Time) ([]Transaction, error) {
	id, err := parseID("account", accountID)
	if err != nil {
		return nil, err
	}

	if _, err := s.storage.Read.Accounts.FindByID(ctx, id); err != nil {
		return nil, err
	}

	filter := &transaction.StatementFilter{AccountID: id}
	if start != nil && end != nil {
		filter.Range = &transaction.TimeRange{From: start.UTC(), To: end.UTC()}
	}

	rows, err := s.storage.Read.Transactions.ListForAccount(ctx, filter)
	if err != nil {
		return nil, err
	}
	return transactionsFromStorage(rows), nil
}

func (s *TransactionService) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	txID, err := parseID("transaction", id)
	if err != nil {
		return nil, err
	}
	row, err := s.storage.Read.Transactions.FindByID(ctx, txID)
	if err != nil {
		return nil, err
	}
	found := transactionFromStorage(row)
	return &found, nil
}

// ListTransactions returns a page of transactions, newest first.
func (s *TransactionService) ListTransactions(ctx context.Context, cursor *TransactionCursor) ([]Transaction, *TransactionCursor, error) {
	filter := &transaction.TransactionFilter{}
	if cursor != nil {
		filter.Limit = cursor.Limit
		filter.Offset = cursor.Position
		if !cursor.MaxCreationTime.IsZero() {
			maxCreationTime := cursor.MaxCreationTime
			filter.MaxCreationTime = &maxCreationTime
		}
	}

	result, err := s.storage.Read.Transactions.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	if len(result.Transactions) == 0 {
		return nil, nil, nil
	}

	var next *TransactionCursor
	if result.NextCursor != nil {
		next = &TransactionCursor{
			Position:        result.NextCursor.Position,
			Limit:           result.NextCursor.Limit,
			MaxCreationTime: result.NextCursor.MaxCreationTime,
		}
	}
	return transactionsFromStorage(result.Transactions), next, nil
}
