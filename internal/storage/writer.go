package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/carson-networks/bank-ledger/internal/storage/account"
	"github.com/carson-networks/bank-ledger/internal/storage/client"
	"github.com/carson-networks/bank-ledger/internal/storage/transaction"
	"github.com/carson-networks/bank-ledger/internal/storage/sqlerr"
)

// Tx is the unit of work behind a Writer.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Writer groups the table writers of one storage transaction. Nothing written
// through it is visible to other readers until Commit succeeds.
type Writer struct {
	tx           Tx
	Accounts     account.IAccountWriter
	Clients      client.IClientWriter
	Transactions transaction.ITransactionWriter
}

func NewWriter(
	tx Tx,
	accounts account.IAccountWriter,
	clients client.IClientWriter,
	transactions transaction.ITransactionWriter,
) *Writer {
	return &Writer{
		tx:           tx,
		Accounts:     accounts,
		Clients:      clients,
		Transactions: transactions,
	}
}

func newPostgresWriter(tx bob.Tx) *Writer {
	return NewWriter(tx, account.NewWriter(tx), client.NewWriter(tx), transaction.NewWriter(tx))
}

func (w *Writer) Commit(ctx context.Context) error {
	return sqlerr.Classify("commit", w.tx.Commit(ctx))
}

func (w *Writer) Rollback(ctx context.Context) error {
	return w.tx.Rollback(ctx)
}
