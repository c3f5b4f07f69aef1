package transaction

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

const tableName = "transactions"

type Kind string

const KindTransfer Kind = "TRANSFER"

// Transaction represents an immutable transfer record. The account numbers
// are the ones the accounts carried when the transfer committed.
type Transaction struct {
	ID                       uuid.UUID
	SourceAccountID          uuid.UUID
	SourceAccountNumber      string
	DestinationAccountID     uuid.UUID
	DestinationAccountNumber string
	Amount                   decimal.Decimal
	Kind                     Kind
	Description              string
	CreatedAt                time.Time
}

// TransactionCreate is the input for recording a transaction.
type TransactionCreate struct {
	ID                       uuid.UUID
	SourceAccountID          uuid.UUID
	SourceAccountNumber      string
	DestinationAccountID     uuid.UUID
	DestinationAccountNumber string
	Amount                   decimal.Decimal
	Kind                     Kind
	Description              string
	CreatedAt                time.Time
}

// TimeRange is an inclusive [From, To] window. An inverted window matches nothing.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// StatementFilter selects the transactions touching one account. A nil Range
// selects the full history.
type StatementFilter struct {
	AccountID uuid.UUID
	Range     *TimeRange
}

// Matches reports whether tx belongs in the statement.
func (f *StatementFilter) Matches(tx *Transaction) bool {
	if tx.SourceAccountID != f.AccountID && tx.DestinationAccountID != f.AccountID {
		return false
	}
	if f.Range != nil && (tx.CreatedAt.Before(f.Range.From) || tx.CreatedAt.After(f.Range.To)) {
		return false
	}
	return true
}

// TransactionFilter specifies filters for listing transactions.
type TransactionFilter struct {
	AccountID       *uuid.UUID
	Limit           int
	Offset          int
	MaxCreationTime *time.Time
}

// TransactionCursor identifies a position in a paginated result set
// and carries the limit and maxCreationTime so subsequent pages are consistent.
type TransactionCursor struct {
	Position        int
	Limit           int
	MaxCreationTime time.Time
}

// TransactionListResult contains a page of transactions and an optional next cursor.
type TransactionListResult struct {
	Transactions []*Transaction
	NextCursor   *TransactionCursor
}

const DefaultListLimit = 20

//go:generate mockery --name ITransactionReader --output mock_ITransactionReader.go
type ITransactionReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	// ListForAccount returns the statement ordered by CreatedAt, then ID.
	ListForAccount(ctx context.Context, filter *StatementFilter) ([]*Transaction, error)
	// List returns transactions newest first.
	List(ctx context.Context, filter *TransactionFilter) (*TransactionListResult, error)
}

// ITransactionWriter has no update or delete; transactions are immutable.
type ITransactionWriter interface {
	ITransactionReader
	Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error)
}

func ListWindow(filter *TransactionFilter) (limit int, offset int) {
	limit = DefaultListLimit
	if filter != nil {
		if filter.Limit > 0 {
			limit = filter.Limit
		}
		offset = filter.Offset
	}
	return limit, offset
}

// PageOf trims rows fetched with limit+1 and builds the next cursor. The
// cursor pins maxCreationTime to the newest row of the first page so later
// pages ignore transactions committed in between.
func PageOf(rows []*Transaction, filter *TransactionFilter) *TransactionListResult {
	if len(rows) == 0 {
		return &TransactionListResult{}
	}
	limit, offset := ListWindow(filter)

	var nextCursor *TransactionCursor
	if len(rows) > limit {
		rows = rows[:limit]
		maxCreationTime := rows[0].CreatedAt
		if filter != nil && filter.MaxCreationTime != nil {
			maxCreationTime = *filter.MaxCreationTime
		}
		nextCursor = &TransactionCursor{
			Position:        offset + limit,
			Limit:           limit,
			MaxCreationTime: maxCreationTime,
		}
	}
	return &TransactionListResult{Transactions: rows, NextCursor: nextCursor}
}

type transactionRow struct {
	ID                       uuid.UUID       `db:"id"`
	SourceAccountID          uuid.UUID       `db:"source_account_id"`
	SourceAccountNumber      string          `db:"source_account_number"`
	DestinationAccountID     uuid.UUID       `db:"destination_account_id"`
	DestinationAccountNumber string          `db:"destination_account_number"`
	Amount                   decimal.Decimal `db:"amount"`
	Kind                     string          `db:"kind"`
	Description              string          `db:"description"`
	CreatedAt                time.Time       `db:"created_at"`
}

var columns = []any{
	"id",
	"source_account_id",
	"source_account_number",
	"destination_account_id",
	"destination_account_number",
	"amount",
	"kind",
	"description",
	"created_at",
}

func rowToTransaction(row transactionRow) *Transaction {
	return &Transaction{
		ID:                       row.ID,
		SourceAccountID:          row.SourceAccountID,
		SourceAccountNumber:      row.SourceAccountNumber,
		DestinationAccountID:     row.DestinationAccountID,
		DestinationAccountNumber: row.DestinationAccountNumber,
		Amount:                   row.Amount,
		Kind:                     Kind(row.Kind),
		Description:              row.Description,
		CreatedAt:                row.CreatedAt.UTC(),
	}
}

func rowsToTransactions(rows []transactionRow) []*Transaction {
	result := make([]*Transaction, len(rows))
	for i, row := range rows {
		result[i] = rowToTransaction(row)
	}
	return result
}
