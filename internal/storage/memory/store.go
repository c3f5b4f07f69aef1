// Package memory is an in-process implementation of the storage interfaces.
// It keeps the transactional guarantees of the Postgres store: writes are
// staged per unit of work and applied atomically on Commit, accounts loaded
// for update are locked until the unit of work ends, and balance writes are
// checked against the version they were read at.
package memory

import (
	"context"
	"sync"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
	"github.com/carson-networks/bank-ledger/internal/storage"
	"github.com/carson-networks/bank-ledger/internal/storage/account"
	"github.com/carson-networks/bank-ledger/internal/storage/client"
	"github.com/carson-networks/bank-ledger/internal/storage/transaction"
)

type store struct {
	mu           sync.RWMutex
	clients      map[uuid.UUID]client.Client
	accounts     map[uuid.UUID]account.Account
	transactions map[uuid.UUID]transaction.Transaction

	locksMu sync.Mutex
	locks   map[uuid.UUID]chan struct{}
}

// NewStorage returns an empty Storage held in memory.
func NewStorage() *storage.Storage {
	s := &store{
		clients:      make(map[uuid.UUID]client.Client),
		accounts:     make(map[uuid.UUID]account.Account),
		transactions: make(map[uuid.UUID]transaction.Transaction),
		locks:        make(map[uuid.UUID]chan struct{}),
	}
	read := &storage.Reader{
		Accounts:     &accountReader{v: s},
		Clients:      &clientReader{v: s},
		Transactions: &transactionReader{v: s},
	}
	return storage.New(read, s.begin, nil)
}

func (s *store) begin(ctx context.Context) (*storage.Writer, error) {
	if err := ctx.Err(); err != nil {
		return nil, bankerr.Storage("begin", err)
	}
	u := newUnitOfWork(s)
	return storage.NewWriter(
		u,
		&accountWriter{accountReader: accountReader{v: u}, u: u},
		&clientWriter{clientReader: clientReader{v: u}, u: u},
		&transactionWriter{transactionReader: transactionReader{v: u}, u: u},
	), nil
}

// lock blocks until the account lock is free or ctx is done.
func (s *store) lock(ctx context.Context, id uuid.UUID) error {
	s.locksMu.Lock()
	ch, ok := s.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[id] = ch
	}
	s.locksMu.Unlock()

	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return bankerr.Storage("lock account", ctx.Err())
	}
}

func (s *store) unlock(id uuid.UUID) {
	s.locksMu.Lock()
	ch := s.locks[id]
	s.locksMu.Unlock()
	<-ch
}

func (s *store) getAccount(id uuid.UUID) (account.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	return a, ok
}

func (s *store) allAccounts() []account.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]account.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		result = append(result, a)
	}
	return result
}

func (s *store) getClient(id uuid.UUID) (client.Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	return c, ok
}

func (s *store) allClients() []client.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]client.Client, 0, len(s.clients))
	for _, c := range s.clients {
		result = append(result, c)
	}
	return result
}

func (s *store) getTransaction(id uuid.UUID) (transaction.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.transactions[id]
	return tx, ok
}

func (s *store) allTransactions() []transaction.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]transaction.Transaction, 0, len(s.transactions))
	for _, tx := range s.transactions {
		result = append(result, tx)
	}
	return result
}
