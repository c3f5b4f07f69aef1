package transaction

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
	"github.com/carson-networks/bank-ledger/internal/storage/sqlerr"
)

var _ ITransactionReader = (*Reader)(nil)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

// FindByID retrieves a transaction by primary key.
func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	query := psql.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, r.exec, query, scan.StructMapper[transactionRow]())
	if err != nil {
		if sqlerr.IsNoRows(err) {
			return nil, bankerr.NotFound("transaction", id)
		}
		return nil, sqlerr.Classify("find transaction", err)
	}
	return rowToTransaction(row), nil
}

func (r *Reader) ListForAccount(ctx context.Context, filter *StatementFilter) ([]*Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(touchesAccount(filter.AccountID)),
	}
	if filter.Range != nil {
		queryMods = append(queryMods,
			sm.Where(psql.Quote("created_at").GTE(psql.Arg(filter.Range.From))),
			sm.Where(psql.Quote("created_at").LTE(psql.Arg(filter.Range.To))),
		)
	}
	queryMods = append(queryMods,
		sm.OrderBy("created_at").Asc(),
		sm.OrderBy("id").Asc(),
	)

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, sqlerr.Classify("list statement", err)
	}
	return rowsToTransactions(rows), nil
}

// List returns transactions matching the filter, newest first.
func (r *Reader) List(ctx context.Context, filter *TransactionFilter) (*TransactionListResult, error) {
	limit, offset := ListWindow(filter)

	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
	}
	if filter != nil {
		if filter.AccountID != nil {
			queryMods = append(queryMods, sm.Where(touchesAccount(*filter.AccountID)))
		}
		if filter.MaxCreationTime != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("created_at").LTE(psql.Arg(*filter.MaxCreationTime))))
		}
	}
	queryMods = append(queryMods,
		sm.OrderBy("created_at").Desc(),
		sm.OrderBy("id").Desc(),
		sm.Limit(limit+1),
		sm.Offset(offset),
	)

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, sqlerr.Classify("list transactions", err)
	}
	return PageOf(rowsToTransactions(rows), filter), nil
}

func touchesAccount(accountID uuid.UUID) bob.Expression {
	return psql.Group(psql.Or(
		psql.Quote("source_account_id").EQ(psql.Arg(accountID)),
		psql.Quote("destination_account_id").EQ(psql.Arg(accountID)),
	))
}
