package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
	"github.com/carson-networks/bank-ledger/internal/storage/account"
	"github.com/carson-networks/bank-ledger/internal/storage/client"
	"github.com/carson-networks/bank-ledger/internal/storage/transaction"
)

// unitOfWork stages writes over the committed store. Like a database
// transaction it belongs to one goroutine at a time.
type unitOfWork struct {
	store *store
	done  bool
	held  []uuid.UUID

	accounts    map[uuid.UUID]account.Account
	newAccounts map[uuid.UUID]bool
	// committed version each touched existing account was read at
	versions map[uuid.UUID]int64

	clients    map[uuid.UUID]client.Client
	newClients map[uuid.UUID]bool

	transactions []transaction.Transaction
}

func newUnitOfWork(s *store) *unitOfWork {
	return &unitOfWork{
		store:       s,
		accounts:    make(map[uuid.UUID]account.Account),
		newAccounts: make(map[uuid.UUID]bool),
		versions:    make(map[uuid.UUID]int64),
		clients:     make(map[uuid.UUID]client.Client),
		newClients:  make(map[uuid.UUID]bool),
	}
}

func (u *unitOfWork) getAccount(id uuid.UUID) (account.Account, bool) {
	if a, ok := u.accounts[id]; ok {
		return a, true
	}
	return u.store.getAccount(id)
}

func (u *unitOfWork) allAccounts() []account.Account {
	result := u.store.allAccounts()
	for i, a := range result {
		if staged, ok := u.accounts[a.ID]; ok {
			result[i] = staged
		}
	}
	for id := range u.newAccounts {
		result = append(result, u.accounts[id])
	}
	return result
}

func (u *unitOfWork) getClient(id uuid.UUID) (client.Client, bool) {
	if c, ok := u.clients[id]; ok {
		return c, true
	}
	return u.store.getClient(id)
}

func (u *unitOfWork) allClients() []client.Client {
	result := u.store.allClients()
	for i, c := range result {
		if staged, ok := u.clients[c.ID]; ok {
			result[i] = staged
		}
	}
	for id := range u.newClients {
		result = append(result, u.clients[id])
	}
	return result
}

func (u *unitOfWork) getTransaction(id uuid.UUID) (transaction.Transaction, bool) {
	for _, tx := range u.transactions {
		if tx.ID == id {
			return tx, true
		}
	}
	return u.store.getTransaction(id)
}

func (u *unitOfWork) allTransactions() []transaction.Transaction {
	return append(u.store.allTransactions(), u.transactions...)
}

func (u *unitOfWork) lockAccount(ctx context.Context, id uuid.UUID) error {
	for _, held := range u.held {
		if held == id {
			return nil
		}
	}
	if err := u.store.lock(ctx, id); err != nil {
		return err
	}
	u.held = append(u.held, id)
	return nil
}

// Commit applies every staged write or none of them.
func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.done {
		return sql.ErrTxDone
	}
	defer u.finish()

	if err := ctx.Err(); err != nil {
		return bankerr.Storage("commit", err)
	}

	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := u.validateLocked(); err != nil {
		return err
	}
	for id, c := range u.clients {
		s.clients[id] = c
	}
	for id, a := range u.accounts {
		s.accounts[id] = a
	}
	for _, tx := range u.transactions {
		s.transactions[tx.ID] = tx
	}
	return nil
}

func (u *unitOfWork) Rollback(_ context.Context) error {
	if u.done {
		return sql.ErrTxDone
	}
	u.finish()
	return nil
}

func (u *unitOfWork) finish() {
	u.done = true
	for i := len(u.held) - 1; i >= 0; i-- {
		u.store.unlock(u.held[i])
	}
	u.held = nil
}

// validateLocked re-checks the constraints a concurrent commit could have
// broken since the writes were staged. The caller holds store.mu.
func (u *unitOfWork) validateLocked() error {
	s := u.store
	for id, expected := range u.versions {
		current, ok := s.accounts[id]
		if !ok || current.Version != expected {
			return bankerr.Conflict("commit", fmt.Errorf("account %s changed since it was read", id))
		}
	}
	for id := range u.newAccounts {
		if _, exists := s.accounts[id]; exists {
			return bankerr.Conflict("commit", fmt.Errorf("account %s already exists", id))
		}
		number := u.accounts[id].AccountNumber
		for _, other := range s.accounts {
			if other.AccountNumber == number {
				return bankerr.Conflict("commit", fmt.Errorf("duplicate key value violates %s", account.NumberConstraint))
			}
		}
	}
	for id, staged := range u.clients {
		if u.newClients[id] {
			if _, exists := s.clients[id]; exists {
				return bankerr.Conflict("commit", fmt.Errorf("client %s already exists", id))
			}
		}
		for _, other := range s.clients {
			if other.ID == id {
				continue
			}
			if _, restaged := u.clients[other.ID]; restaged {
				continue
			}
			if other.NaturalKey == staged.NaturalKey {
				return bankerr.ErrDuplicateNaturalKey
			}
		}
	}
	for _, tx := range u.transactions {
		if _, exists := s.transactions[tx.ID]; exists {
			return bankerr.Conflict("commit", fmt.Errorf("transaction %s already exists", tx.ID))
		}
	}
	return nil
}

func (u *unitOfWork) checkOpen() error {
	if u.done {
		return bankerr.Storage("write", sql.ErrTxDone)
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

type accountWriter struct {
	accountReader
	u *unitOfWork
}

var _ account.IAccountWriter = (*accountWriter)(nil)

func (w *accountWriter) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	if err := w.u.checkOpen(); err != nil {
		return nil, err
	}
	if err := w.u.lockAccount(ctx, id); err != nil {
		return nil, err
	}
	return w.FindByID(ctx, id)
}

func (w *accountWriter) Insert(ctx context.Context, create *account.AccountCreate) (*account.Account, error) {
	if err := w.u.checkOpen(); err != nil {
		return nil, err
	}
	if _, exists := w.u.getAccount(create.ID); exists {
		return nil, bankerr.Conflict("insert account", fmt.Errorf("account %s already exists", create.ID))
	}
	taken, err := w.ExistsByNumber(ctx, create.AccountNumber)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, bankerr.Conflict("insert account", fmt.Errorf("duplicate key value violates %s", account.NumberConstraint))
	}
	if _, ok := w.u.getClient(create.ClientID); !ok {
		return nil, bankerr.Storage("insert account", fmt.Errorf("client %s does not exist", create.ClientID))
	}

	a := account.Account{
		ID:            create.ID,
		AccountNumber: create.AccountNumber,
		ClientID:      create.ClientID,
		Kind:          create.Kind,
		Balance:       create.Balance,
		Version:       0,
		CreatedAt:     create.CreatedAt,
		UpdatedAt:     create.CreatedAt,
	}
	w.u.accounts[a.ID] = a
	w.u.newAccounts[a.ID] = true
	return &a, nil
}

func (w *accountWriter) UpdateBalance(_ context.Context, id uuid.UUID, balance decimal.Decimal, expectedVersion int64) error {
	if err := w.u.checkOpen(); err != nil {
		return err
	}
	current, ok := w.u.getAccount(id)
	if !ok || current.Version != expectedVersion {
		return bankerr.Conflict("update balance", fmt.Errorf("account %s is no longer at version %d", id, expectedVersion))
	}
	if _, staged := w.u.accounts[id]; !staged {
		w.u.versions[id] = current.Version
	}

	current.Balance = balance
	current.Version++
	current.UpdatedAt = now()
	w.u.accounts[id] = current
	return nil
}

type clientWriter struct {
	clientReader
	u *unitOfWork
}

var _ client.IClientWriter = (*clientWriter)(nil)

func (w *clientWriter) Insert(ctx context.Context, create *client.ClientCreate) (*client.Client, error) {
	if err := w.u.checkOpen(); err != nil {
		return nil, err
	}
	if _, exists := w.u.getClient(create.ID); exists {
		return nil, bankerr.Conflict("insert client", fmt.Errorf("client %s already exists", create.ID))
	}
	if err := w.ensureKeyFree(ctx, create.NaturalKey, create.ID); err != nil {
		return nil, err
	}

	c := client.Client{
		ID:         create.ID,
		FullName:   create.FullName,
		NaturalKey: create.NaturalKey,
		BirthDate:  create.BirthDate,
		CreatedAt:  create.CreatedAt,
		UpdatedAt:  create.CreatedAt,
	}
	w.u.clients[c.ID] = c
	w.u.newClients[c.ID] = true
	return &c, nil
}

func (w *clientWriter) Update(_ context.Context, update *client.ClientUpdate) (*client.Client, error) {
	if err := w.u.checkOpen(); err != nil {
		return nil, err
	}
	current, ok := w.u.getClient(update.ID)
	if !ok {
		return nil, bankerr.NotFound("client", update.ID)
	}

	current.FullName = update.FullName
	current.BirthDate = update.BirthDate
	current.UpdatedAt = update.UpdatedAt
	w.u.clients[current.ID] = current
	return &current, nil
}

func (w *clientWriter) ensureKeyFree(ctx context.Context, naturalKey string, owner uuid.UUID) error {
	holder, err := w.FindByNaturalKey(ctx, naturalKey)
	if errors.Is(err, bankerr.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if holder.ID != owner {
		return bankerr.ErrDuplicateNaturalKey
	}
	return nil
}

type transactionWriter struct {
	transactionReader
	u *unitOfWork
}

var _ transaction.ITransactionWriter = (*transactionWriter)(nil)

func (w *transactionWriter) Insert(_ context.Context, create *transaction.TransactionCreate) (*transaction.Transaction, error) {
	if err := w.u.checkOpen(); err != nil {
		return nil, err
	}
	if !create.Amount.IsPositive() {
		return nil, bankerr.Storage("insert transaction", fmt.Errorf("amount %s violates transactions_amount_check", create.Amount))
	}
	if _, exists := w.u.getTransaction(create.ID); exists {
		return nil, bankerr.Conflict("insert transaction", fmt.Errorf("transaction %s already exists", create.ID))
	}

	tx := transaction.Transaction{
		ID:                       create.ID,
		SourceAccountID:          create.SourceAccountID,
		SourceAccountNumber:      create.SourceAccountNumber,
		DestinationAccountID:     create.DestinationAccountID,
		DestinationAccountNumber: create.DestinationAccountNumber,
		Amount:                   create.Amount,
		Kind:                     create.Kind,
		Description:              create.Description,
		CreatedAt:                create.CreatedAt,
	}
	w.u.transactions = append(w.u.transactions, tx)
	return &tx, nil
}
