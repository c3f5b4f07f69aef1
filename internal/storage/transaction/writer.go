package transaction

import (
	"context"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/bank-ledger/internal/storage/sqlerr"
)

var _ ITransactionWriter = (*Writer)(nil)

type Writer struct {
	tx bob.Tx
	Reader
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

// Insert records a transaction and returns the stored row.
func (w *Writer) Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error) {
	query := psql.Insert(
		im.Into(tableName,
			"id",
			"source_account_id",
			"source_account_number",
			"destination_account_id",
			"destination_account_number",
			"amount",
			"kind",
			"description",
			"created_at",
		),
		im.Values(psql.Arg(
			create.ID,
			create.SourceAccountID,
			create.SourceAccountNumber,
			create.DestinationAccountID,
			create.DestinationAccountNumber,
			create.Amount,
			string(create.Kind),
			create.Description,
			create.CreatedAt,
		)),
		im.Returning(columns...),
	)
	row, err := bob.One(ctx, w.tx, query, scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, sqlerr.Classify("insert transaction", err)
	}
	return rowToTransaction(row), nil
}
