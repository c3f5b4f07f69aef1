package storage_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
	"github.com/carson-networks/bank-ledger/internal/operator/actions"
	"github.com/carson-networks/bank-ledger/internal/storage"
	"github.com/carson-networks/bank-ledger/internal/storage/account"
	"github.com/carson-networks/bank-ledger/internal/storage/client"
	"github.com/carson-networks/bank-ledger/internal/storage/migrations"
	"github.com/carson-networks/bank-ledger/internal/storage/transaction"
)

// startPostgres runs a throwaway Postgres with the schema applied.
func startPostgres(t *testing.T) *storage.Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres integration test")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("ledger"),
		postgres.WithUsername("ledger"),
		postgres.WithPassword("ledger"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	migrationDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	m, err := migrations.New(migrationDB)
	require.NoError(t, err)
	status, err := m.Up()
	require.NoError(t, err)
	assert.Equal(t, uint(0), status.Before)
	assert.Equal(t, uint(3), status.After)
	require.NoError(t, m.Close())

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	s := storage.FromDB(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func insertClient(t *testing.T, s *storage.Storage, naturalKey string) *client.Client {
	t.Helper()
	ctx := context.Background()
	w, err := s.Write(ctx)
	require.NoError(t, err)
	c, err := w.Clients.Insert(ctx, &client.ClientCreate{
		ID:         uuid.Must(uuid.NewV4()),
		FullName:   "Ada Lovelace",
		NaturalKey: naturalKey,
		BirthDate:  time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC),
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	})
	require.NoError(t, err)
	require.NoError(t, w.Commit(ctx))
	return c
}

func insertAccount(t *testing.T, s *storage.Storage, clientID uuid.UUID, number string, balance string) *account.Account {
	t.Helper()
	ctx := context.Background()
	w, err := s.Write(ctx)
	require.NoError(t, err)
	a, err := w.Accounts.Insert(ctx, &account.AccountCreate{
		ID:            uuid.Must(uuid.NewV4()),
		AccountNumber: number,
		ClientID:      clientID,
		Kind:          account.KindChecking,
		Balance:       decimal.RequireFromString(balance),
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	})
	require.NoError(t, err)
	require.NoError(t, w.Commit(ctx))
	return a
}

func TestPostgres_ReadersAndWriters(t *testing.T) {
	s := startPostgres(t)
	ctx := context.Background()

	c := insertClient(t, s, "12345678901")
	a := insertAccount(t, s, c.ID, "0000000001", "100.00")

	t.Run("client lookups", func(t *testing.T) {
		byKey, err := s.Read.Clients.FindByNaturalKey(ctx, "12345678901")
		require.NoError(t, err)
		assert.Equal(t, c.ID, byKey.ID)

		exists, err := s.Read.Clients.ExistsByID(ctx, c.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		_, err = s.Read.Clients.FindByID(ctx, uuid.Must(uuid.NewV4()))
		assert.ErrorIs(t, err, bankerr.ErrNotFound)
	})

	t.Run("account lookups", func(t *testing.T) {
		byNumber, err := s.Read.Accounts.FindByNumber(ctx, "0000000001")
		require.NoError(t, err)
		assert.Equal(t, a.ID, byNumber.ID)
		assert.True(t, byNumber.Balance.Equal(decimal.RequireFromString("100")))

		taken, err := s.Read.Accounts.ExistsByNumber(ctx, "0000000001")
		require.NoError(t, err)
		assert.True(t, taken)

		owned, err := s.Read.Accounts.ListByClient(ctx, c.ID)
		require.NoError(t, err)
		assert.Len(t, owned, 1)
	})

	t.Run("duplicate natural key", func(t *testing.T) {
		w, err := s.Write(ctx)
		require.NoError(t, err)
		defer func() { _ = w.Rollback(ctx) }()

		_, err = w.Clients.Insert(ctx, &client.ClientCreate{
			ID:         uuid.Must(uuid.NewV4()),
			FullName:   "Copy",
			NaturalKey: "12345678901",
			BirthDate:  time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC),
			CreatedAt:  time.Now().UTC(),
		})
		assert.ErrorIs(t, err, bankerr.ErrDuplicateNaturalKey)
	})

	t.Run("stale version is a conflict", func(t *testing.T) {
		w, err := s.Write(ctx)
		require.NoError(t, err)
		defer func() { _ = w.Rollback(ctx) }()

		err = w.Accounts.UpdateBalance(ctx, a.ID, decimal.RequireFromString("1.00"), a.Version+1)
		assert.ErrorIs(t, err, bankerr.ErrConflict)
	})

	t.Run("rollback discards writes", func(t *testing.T) {
		w, err := s.Write(ctx)
		require.NoError(t, err)
		locked, err := w.Accounts.FindByIDForUpdate(ctx, a.ID)
		require.NoError(t, err)
		require.NoError(t, w.Accounts.UpdateBalance(ctx, a.ID, decimal.RequireFromString("5.00"), locked.Version))
		require.NoError(t, w.Rollback(ctx))

		after, err := s.Read.Accounts.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.True(t, after.Balance.Equal(decimal.RequireFromString("100.00")))
	})
}

func runTransfer(ctx context.Context, s *storage.Storage, transfer *actions.Transfer) error {
	w, err := s.Write(ctx)
	if err != nil {
		return err
	}
	if err := transfer.Perform(ctx, w); err != nil {
		_ = w.Rollback(ctx)
		return err
	}
	return w.Commit(ctx)
}

func TestPostgres_TransferAndStatement(t *testing.T) {
	s := startPostgres(t)
	ctx := context.Background()

	c := insertClient(t, s, "12345678901")
	source := insertAccount(t, s, c.ID, "0000000001", "1000.00")
	destination := insertAccount(t, s, c.ID, "0000000002", "500.00")

	transfer := &actions.Transfer{
		SourceAccountID:      source.ID,
		DestinationAccountID: destination.ID,
		Amount:               decimal.RequireFromString("100.00"),
		Description:          "rent",
	}
	require.NoError(t, runTransfer(ctx, s, transfer))

	after, err := s.Read.Accounts.FindByID(ctx, source.ID)
	require.NoError(t, err)
	assert.True(t, after.Balance.Equal(decimal.RequireFromString("900.00")))
	assert.Equal(t, source.Version+1, after.Version)

	statement, err := s.Read.Transactions.ListForAccount(ctx, &transaction.StatementFilter{AccountID: destination.ID})
	require.NoError(t, err)
	require.Len(t, statement, 1)
	assert.Equal(t, transfer.Result.ID, statement[0].ID)
	assert.Equal(t, "0000000001", statement[0].SourceAccountNumber)

	overdraw := &actions.Transfer{
		SourceAccountID:      source.ID,
		DestinationAccountID: destination.ID,
		Amount:               decimal.RequireFromString("900.01"),
	}
	assert.ErrorIs(t, runTransfer(ctx, s, overdraw), bankerr.ErrInsufficientFunds)

	list, err := s.Read.Transactions.List(ctx, &transaction.TransactionFilter{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, list.Transactions, 1)
}

func TestPostgres_ConcurrentTransfersSerialize(t *testing.T) {
	s := startPostgres(t)
	ctx := context.Background()

	c := insertClient(t, s, "12345678901")
	a := insertAccount(t, s, c.ID, "0000000001", "100.00")
	b := insertAccount(t, s, c.ID, "0000000002", "100.00")

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			from, to := a.ID, b.ID
			if i%2 == 1 {
				from, to = b.ID, a.ID
			}
			_ = runTransfer(ctx, s, &actions.Transfer{
				SourceAccountID:      from,
				DestinationAccountID: to,
				Amount:               decimal.RequireFromString("10.00"),
			})
		}()
	}
	wg.Wait()

	afterA, err := s.Read.Accounts.FindByID(ctx, a.ID)
	require.NoError(t, err)
	afterB, err := s.Read.Accounts.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, afterA.Balance.Add(afterB.Balance).Equal(decimal.RequireFromString("200.00")))
}
