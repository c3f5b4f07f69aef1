package service

import (
	"context"
	"strings"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
	"github.com/carson-networks/bank-ledger/internal/operator/actions"
	"github.com/carson-networks/bank-ledger/internal/storage"
	"github.com/carson-networks/bank-ledger/internal/storage/account"
)

// AccountService handles account business logic.
type AccountService struct {
	storage   *storage.Storage
	processor IActionProcessor
	numbers   *actions.AccountNumberGenerator
	clock     actions.Clock
}

// NewAccountService creates a new AccountService.
func NewAccountService(store *storage.Storage, processor IActionProcessor) *AccountService {
	return &AccountService{
		storage:   store,
		processor: processor,
		numbers:   actions.NewAccountNumberGenerator(),
		clock:     actions.SystemClock,
	}
}

// CreateAccount opens an account for an existing client with the opening
// balance and a freshly allocated account number.
func (s *AccountService) CreateAccount(ctx context.Context, clientID string, kind AccountKind) (*Account, error) {
	storageKind := accountKindToStorage(kind)
	if !storageKind.Valid() {
		return nil, bankerr.ErrInvalidAccountKind
	}
	owner, err := parseID("client", clientID)
	if err != nil {
		return nil, err
	}

	action := &actions.CreateAccount{
		ClientID: owner,
		Kind:     storageKind,
		Numbers:  s.numbers,
		Clock:    s.clock,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	created := accountFromStorage(action.Result)
	return &created, nil
}

// GetAccount retrieves an account by ID.
func (s *AccountService) GetAccount(ctx context.Context, id string) (*Account, error) {
	accountID, err := parseID("account", id)
	if err != nil {
		return nil, err
	}
	row, err := s.storage.Read.Accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	found := accountFromStorage(row)
	return &found, nil
}

func (s *AccountService) GetAccountByNumber(ctx context.Context, number string) (*Account, error) {
	row, err := s.storage.Read.Accounts.FindByNumber(ctx, strings.TrimSpace(number))
	if err != nil {
		return nil, err
	}
	found := accountFromStorage(row)
	return &found, nil
}

// ListAccountsByClient returns the client's accounts oldest first.
func (s *AccountService) ListAccountsByClient(ctx context.Context, clientID string) ([]Account, error) {
	owner, err := parseID("client", clientID)
	if err != nil {
		return nil, err
	}
	exists, err := s.storage.Read.Clients.ExistsByID(ctx, owner)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, bankerr.NotFound("client", owner)
	}

	rows, err := s.storage.Read.Accounts.ListByClient(ctx, owner)
	if err != nil {
		return nil, err
	}
	return accountsFromStorage(rows), nil
}

// ListAccounts returns a page of accounts using cursor pagination.
func (s *AccountService) ListAccounts(ctx context.Context, cursor *AccountCursor) ([]Account, *AccountCursor, error) {
	filter := &account.AccountFilter{}
	if cursor != nil {
		filter.Limit = cursor.Limit
		filter.Offset = cursor.Position
	}

	result, err := s.storage.Read.Accounts.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	if len(result.Accounts) == 0 {
		return nil, nil, nil
	}

	var next *AccountCursor
	if result.NextCursor != nil {
		next = &AccountCursor{Position: result.NextCursor.Position, Limit: result.NextCursor.Limit}
	}
	return accountsFromStorage(result.Accounts), next, nil
}

// GetBalance reads the committed balance straight from storage.
func (s *AccountService) GetBalance(ctx context.Context, id string) (*Balance, error) {
	accountID, err := parseID("account", id)
	if err != nil {
		return nil, err
	}
	row, err := s.storage.Read.Accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &Balance{
		AccountID:     row.ID,
		AccountNumber: row.AccountNumber,
		Balance:       row.Balance,
	}, nil
}
