package client

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
	"github.com/carson-networks/bank-ledger/internal/storage/sqlerr"
)

var _ IClientReader = (*Reader)(nil)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	return r.findBy(ctx, "id", id)
}

func (r *Reader) FindByNaturalKey(ctx context.Context, naturalKey string) (*Client, error) {
	return r.findBy(ctx, "natural_key", naturalKey)
}

func (r *Reader) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.existsBy(ctx, "id", id)
}

func (r *Reader) ExistsByNaturalKey(ctx context.Context, naturalKey string) (bool, error) {
	return r.existsBy(ctx, "natural_key", naturalKey)
}

func (r *Reader) List(ctx context.Context, filter *ClientFilter) (*ClientListResult, error) {
	limit, offset := ListWindow(filter)

	query := psql.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.OrderBy("created_at").Asc(),
		sm.OrderBy("id").Asc(),
		sm.Limit(limit+1),
		sm.Offset(offset),
	)
	rows, err := bob.All(ctx, r.exec, query, scan.StructMapper[clientRow]())
	if err != nil {
		return nil, sqlerr.Classify("list clients", err)
	}
	clients := make([]*Client, len(rows))
	for i, row := range rows {
		clients[i] = rowToClient(row)
	}
	return PageOf(clients, limit, offset), nil
}

func (r *Reader) findBy(ctx context.Context, column string, value any) (*Client, error) {
	query := psql.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote(column).EQ(psql.Arg(value))),
	)
	row, err := bob.One(ctx, r.exec, query, scan.StructMapper[clientRow]())
	if err != nil {
		if sqlerr.IsNoRows(err) {
			return nil, bankerr.NotFound("client", value)
		}
		return nil, sqlerr.Classify("find client", err)
	}
	return rowToClient(row), nil
}

func (r *Reader) existsBy(ctx context.Context, column string, value any) (bool, error) {
	query := psql.Select(
		sm.Columns("id"),
		sm.From(tableName),
		sm.Where(psql.Quote(column).EQ(psql.Arg(value))),
		sm.Limit(1),
	)
	ids, err := bob.All(ctx, r.exec, query, scan.SingleColumnMapper[uuid.UUID])
	if err != nil {
		return false, sqlerr.Classify("client exists", err)
	}
	return len(ids) > 0, nil
}
