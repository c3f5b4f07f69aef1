package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/bank-ledger/internal/config"
	"github.com/carson-networks/bank-ledger/internal/storage/sqlerr"
)

// BeginFunc opens a new storage transaction.
type BeginFunc func(ctx context.Context) (*Writer, error)

type Storage struct {
	Read  *Reader
	begin BeginFunc
	close func() error
}

func New(read *Reader, begin BeginFunc, closeFn func() error) *Storage {
	return &Storage{
		Read:  read,
		begin: begin,
		close: closeFn,
	}
}

// Write begins a storage transaction. The caller must Commit or Rollback it.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	return s.begin(ctx)
}

func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// NewPostgresStorage opens and pings the configured database.
func NewPostgresStorage(ctx context.Context, env *config.Config) (*Storage, *sql.DB, error) {
	db, err := sql.Open("postgres", env.PostgresDSN())
	if err != nil {
		return nil, nil, fmt.Errorf("storage: open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("storage: ping postgres: %w", err)
	}
	return FromDB(db), db, nil
}

// FromDB builds a Storage over an open database handle.
func FromDB(db *sql.DB) *Storage {
	bobDB := bob.NewDB(db)
	return New(
		NewReader(bobDB),
		func(ctx context.Context) (*Writer, error) {
			tx, err := bobDB.BeginTx(ctx, nil)
			if err != nil {
				return nil, sqlerr.Classify("begin", err)
			}
			return newPostgresWriter(tx), nil
		},
		db.Close,
	)
}
