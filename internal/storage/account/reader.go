package account

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

var _ IAccountReader = (*Reader)(nil)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) List(ctx context.Context, filter *AccountFilter) (*AccountListResult, error) {
	limit, offset := ListWindow(filter)

	query := psql.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.OrderBy("created_at").Asc(),
		sm.OrderBy("id").Asc(),
		sm.Limit(limit+1),
		sm.Offset(offset),
	)
	rows, err := bob.All(ctx, r.exec, query, scan.StructMapper[accountRow]())
	if err != nil {
		return nil, sqlerr.Classify("list accounts", err)
	}
	return PageOf(rowsToAccounts(rows), limit, offset), nil
}

func (r *Reader) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*Account, error) {
	query := psql.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("client_id").EQ(psql.Arg(clientID))),
		sm.OrderBy("created_at").Asc(),
		sm.OrderBy("id").Asc(),
	)
	rows, err := bob.All(ctx, r.exec, query, scan.StructMapper[accountRow]())
	if err != nil {
		return nil, sqlerr.Classify("list client accounts", err)
	}
	return rowsToAccounts(rows), nil
}

func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	return r.findOne(ctx, "account", id, sm.Where(psql.Quote("id").EQ(psql.Arg(id))))
}

func (r *Reader) FindByNumber(ctx context.Context, number string) (*Account, error) {
	return r.findOne(ctx, "account number", number, sm.Where(psql.Quote("account_number").EQ(psql.Arg(number))))
}

func (r *Reader) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	query := psql.Select(
		sm.Columns("id"),
		sm.From(tableName),
		sm.Where(psql.Quote("account_number").EQ(psql.Arg(number))),
		sm.Limit(1),
	)
	ids, err := bob.All(ctx, r.exec, query, scan.SingleColumnMapper[uuid.UUID])
	if err != nil {
		return false, sqlerr.Classify("account number exists", err)
	}
	return len(ids) > 0, nil
}

func (r *Reader) findOne(ctx context.Context, entity string, key any, mods ...bob.Mod[*dialect.SelectQuery]) (*Account, error) {
	queryMods := append([]bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
	}, mods...)

	row, err := bob.One(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[accountRow]())
	if err != nil {
		if sqlerr.IsNoRows(err) {
			return nil, bankerr.NotFound(entity, key)
		}
		return nil, sqlerr.Classify("find "+entity, err)
	}
	return rowToAccount(row), nil
}
