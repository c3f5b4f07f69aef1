package memory

import (
	"bytes"
	"context"
	"slices"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
	"github.com/carson-networks/bank-ledger/internal/storage/account"
	"github.com/carson-networks/bank-ledger/internal/storage/client"
	"github.com/carson-networks/bank-ledger/internal/storage/transaction"
)

// view is what readers see: the committed store, or a unit of work layered
// over it.
type view interface {
	getAccount(id uuid.UUID) (account.Account, bool)
	allAccounts() []account.Account
	getClient(id uuid.UUID) (client.Client, bool)
	allClients() []client.Client
	getTransaction(id uuid.UUID) (transaction.Transaction, bool)
	allTransactions() []transaction.Transaction
}

func byCreation(a time.Time, aID uuid.UUID, b time.Time, bID uuid.UUID) int {
	if c := a.Compare(b); c != 0 {
		return c
	}
	return bytes.Compare(aID.Bytes(), bID.Bytes())
}

// window returns the limit+1 rows a SQL LIMIT/OFFSET would.
func window[T any](rows []T, limit int, offset int) []T {
	if offset >= len(rows) {
		return nil
	}
	rows = rows[offset:]
	if len(rows) > limit+1 {
		rows = rows[:limit+1]
	}
	return rows
}

type accountReader struct {
	v view
}

var _ account.IAccountReader = (*accountReader)(nil)

func (r *accountReader) FindByID(_ context.Context, id uuid.UUID) (*account.Account, error) {
	a, ok := r.v.getAccount(id)
	if !ok {
		return nil, bankerr.NotFound("account", id)
	}
	return &a, nil
}

func (r *accountReader) FindByNumber(_ context.Context, number string) (*account.Account, error) {
	for _, a := range r.v.allAccounts() {
		if a.AccountNumber == number {
			return &a, nil
		}
	}
	return nil, bankerr.NotFound("account number", number)
}

func (r *accountReader) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	_, err := r.FindByNumber(ctx, number)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *accountReader) ListByClient(_ context.Context, clientID uuid.UUID) ([]*account.Account, error) {
	var result []*account.Account
	for _, a := range sortedAccounts(r.v.allAccounts()) {
		if a.ClientID == clientID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *accountReader) List(_ context.Context, filter *account.AccountFilter) (*account.AccountListResult, error) {
	limit, offset := account.ListWindow(filter)
	rows := window(sortedAccounts(r.v.allAccounts()), limit, offset)
	return account.PageOf(rows, limit, offset), nil
}

func sortedAccounts(accounts []account.Account) []*account.Account {
	result := make([]*account.Account, len(accounts))
	for i := range accounts {
		result[i] = &accounts[i]
	}
	slices.SortFunc(result, func(a, b *account.Account) int {
		return byCreation(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
	})
	return result
}

type clientReader struct {
	v view
}

var _ client.IClientReader = (*clientReader)(nil)

func (r *clientReader) FindByID(_ context.Context, id uuid.UUID) (*client.Client, error) {
	c, ok := r.v.getClient(id)
	if !ok {
		return nil, bankerr.NotFound("client", id)
	}
	return &c, nil
}

func (r *clientReader) FindByNaturalKey(_ context.Context, naturalKey string) (*client.Client, error) {
	for _, c := range r.v.allClients() {
		if c.NaturalKey == naturalKey {
			return &c, nil
		}
	}
	return nil, bankerr.NotFound("client", naturalKey)
}

func (r *clientReader) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.v.getClient(id)
	return ok, nil
}

func (r *clientReader) ExistsByNaturalKey(ctx context.Context, naturalKey string) (bool, error) {
	_, err := r.FindByNaturalKey(ctx, naturalKey)
	return err == nil, nil
}

func (r *clientReader) List(_ context.Context, filter *client.ClientFilter) (*client.ClientListResult, error) {
	limit, offset := client.ListWindow(filter)

	clients := r.v.allClients()
	sorted := make([]*client.Client, len(clients))
	for i := range clients {
		sorted[i] = &clients[i]
	}
	slices.SortFunc(sorted, func(a, b *client.Client) int {
		return byCreation(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
	})
	return client.PageOf(window(sorted, limit, offset), limit, offset), nil
}

type transactionReader struct {
	v view
}

var _ transaction.ITransactionReader = (*transactionReader)(nil)

func (r *transactionReader) FindByID(_ context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	tx, ok := r.v.getTransaction(id)
	if !ok {
		return nil, bankerr.NotFound("transaction", id)
	}
	return &tx, nil
}

func (r *transactionReader) ListForAccount(_ context.Context, filter *transaction.StatementFilter) ([]*transaction.Transaction, error) {
	var result []*transaction.Transaction
	for _, tx := range r.v.allTransactions() {
		if filter.Matches(&tx) {
			result = append(result, &tx)
		}
	}
	slices.SortFunc(result, func(a, b *transaction.Transaction) int {
		return byCreation(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
	})
	return result, nil
}

func (r *transactionReader) List(_ context.Context, filter *transaction.TransactionFilter) (*transaction.TransactionListResult, error) {
	limit, offset := transaction.ListWindow(filter)

	var rows []*transaction.Transaction
	for _, tx := range r.v.allTransactions() {
		if filter != nil {
			if filter.AccountID != nil && tx.SourceAccountID != *filter.AccountID && tx.DestinationAccountID != *filter.AccountID {
				continue
			}
			if filter.MaxCreationTime != nil && tx.CreatedAt.After(*filter.MaxCreationTime) {
				continue
			}
		}
		rows = append(rows, &tx)
	}
	slices.SortFunc(rows, func(a, b *transaction.Transaction) int {
		return byCreation(b.CreatedAt, b.ID, a.CreatedAt, a.ID)
	})
	return transaction.PageOf(window(rows, limit, offset), filter), nil
}
