package account

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

const (
	tableName = "accounts"

	// NumberConstraint is the unique constraint on account_number.
	NumberConstraint = "accounts_account_number_key"
)

type Kind string

const (
	KindChecking Kind = "CHECKING"
	KindSavings  Kind = "SAVINGS"
)

// Valid reports whether k is one of the supported account kinds.
func (k Kind) Valid() bool {
	return k == KindChecking || k == KindSavings
}

// Account represents an account record.
type Account struct {
	ID            uuid.UUID
	AccountNumber string
	ClientID      uuid.UUID
	Kind          Kind
	Balance       decimal.Decimal
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AccountCreate is the input for creating a new account. The caller assigns
// the id, number and opening balance.
type AccountCreate struct {
	ID            uuid.UUID
	AccountNumber string
	ClientID      uuid.UUID
	Kind          Kind
	Balance       decimal.Decimal
	CreatedAt     time.Time
}

// AccountFilter specifies filters for listing accounts.
type AccountFilter struct {
	Limit  int
	Offset int
}

// AccountCursor identifies a position in a paginated result set.
type AccountCursor struct {
	Position int
	Limit    int
}

// AccountListResult contains a page of accounts and an optional next cursor.
type AccountListResult struct {
	Accounts   []*Account
	NextCursor *AccountCursor
}

const DefaultListLimit = 20

//go:generate mockery --name IAccountReader --output mock_IAccountReader.go
type IAccountReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	FindByNumber(ctx context.Context, number string) (*Account, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*Account, error)
	List(ctx context.Context, filter *AccountFilter) (*AccountListResult, error)
}

// IAccountWriter is only available inside a storage transaction.
// UpdateBalance fails with bankerr.ErrConflict when the stored version is not
// expectedVersion; on success the version is incremented.
type IAccountWriter interface {
	IAccountReader
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Account, error)
	Insert(ctx context.Context, create *AccountCreate) (*Account, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal, expectedVersion int64) error
}

// ListWindow resolves the limit and offset a filter asks for.
func ListWindow(filter *AccountFilter) (limit int, offset int) {
	limit = DefaultListLimit
	if filter != nil {
		if filter.Limit > 0 {
			limit = filter.Limit
		}
		offset = filter.Offset
	}
	return limit, offset
}

// PageOf trims rows fetched with limit+1 and builds the next cursor.
func PageOf(rows []*Account, limit int, offset int) *AccountListResult {
	if len(rows) == 0 {
		return &AccountListResult{}
	}
	var nextCursor *AccountCursor
	if len(rows) > limit {
		rows = rows[:limit]
		nextCursor = &AccountCursor{
			Position: offset + limit,
			Limit:    limit,
		}
	}
	return &AccountListResult{Accounts: rows, NextCursor: nextCursor}
}

type accountRow struct {
	ID            uuid.UUID       `db:"id"`
	AccountNumber string          `db:"account_number"`
	ClientID      uuid.UUID       `db:"client_id"`
	Kind          string          `db:"kind"`
	Balance       decimal.Decimal `db:"balance"`
	Version       int64           `db:"version"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

var columns = []any{
	"id", "account_number", "client_id", "kind", "balance", "version", "created_at", "updated_at",
}

func rowToAccount(row accountRow) *Account {
	return &Account{
		ID:            row.ID,
		AccountNumber: row.AccountNumber,
		ClientID:      row.ClientID,
		Kind:          Kind(row.Kind),
		Balance:       row.Balance,
		Version:       row.Version,
		CreatedAt:     row.CreatedAt.UTC(),
		UpdatedAt:     row.UpdatedAt.UTC(),
	}
}

func rowsToAccounts(rows []accountRow) []*Account {
	result := make([]*Account, len(rows))
	for i, row := range rows {
		result[i] = rowToAccount(row)
	}
	return result
}
