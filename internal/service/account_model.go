package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/bank-ledger/internal/storage/account"
)

// AccountKind represents an account kind in the service layer.
type AccountKind string

const (
	AccountKindChecking AccountKind = "CHECKING"
	AccountKindSavings  AccountKind = "SAVINGS"
)

// Account represents an account in the service layer.
type Account struct {
	ID            uuid.UUID
	AccountNumber string
	ClientID      uuid.UUID
	Kind          AccountKind
	Balance       decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Balance is the current balance of one account.
type Balance struct {
	AccountID     uuid.UUID
	AccountNumber string
	Balance       decimal.Decimal
}

// AccountCursor identifies a position in a paginated result set.
type AccountCursor struct {
	Position int
	Limit    int
}

func accountKindToStorage(k AccountKind) account.Kind {
	return account.Kind(k)
}

func accountKindFromStorage(k account.Kind) AccountKind {
	return AccountKind(k)
}

func accountFromStorage(a *account.Account) Account {
	return Account{
		ID:            a.ID,
		AccountNumber: a.AccountNumber,
		ClientID:      a.ClientID,
		Kind:          accountKindFromStorage(a.Kind),
		Balance:       a.Balance,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func accountsFromStorage(rows []*account.Account) []Account {
	result := make([]Account, len(rows))
	for i, row := range rows {
		result[i] = accountFromStorage(row)
	}
	return result
}
