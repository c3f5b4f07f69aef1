package client

import (
	"context"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
	"github.com/carson-networks/bank-ledger/internal/storage/sqlerr"
)

var _ IClientWriter = (*Writer)(nil)

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

func (w *Writer) Insert(ctx context.Context, create *ClientCreate) (*Client, error) {
	query := psql.Insert(
		im.Into(tableName, "id", "full_name", "natural_key", "birth_date", "created_at", "updated_at"),
		im.Values(psql.Arg(
			create.ID,
			create.FullName,
			create.NaturalKey,
			create.BirthDate,
			create.CreatedAt,
			create.CreatedAt,
		)),
		im.Returning(columns...),
	)
	row, err := bob.One(ctx, w.tx, query, scan.StructMapper[clientRow]())
	if err != nil {
		return nil, classifyWrite("insert client", err)
	}
	return rowToClient(row), nil
}

func (w *Writer) Update(ctx context.Context, update *ClientUpdate) (*Client, error) {
	query := psql.Update(
		um.Table(tableName),
		um.SetCol("full_name").ToArg(update.FullName),
		um.SetCol("birth_date").ToArg(update.BirthDate),
		um.SetCol("updated_at").ToArg(update.UpdatedAt),
		um.Where(psql.Quote("id").EQ(psql.Arg(update.ID))),
		um.Returning(columns...),
	)
	row, err := bob.One(ctx, w.tx, query, scan.StructMapper[clientRow]())
	if err != nil {
		if sqlerr.IsNoRows(err) {
			return nil, bankerr.NotFound("client", update.ID)
		}
		return nil, classifyWrite("update client", err)
	}
	return rowToClient(row), nil
}

func classifyWrite(op string, err error) error {
	if sqlerr.IsUniqueViolation(err, NaturalKeyConstraint) {
		return bankerr.ErrDuplicateNaturalKey
	}
	return sqlerr.Classify(op, err)
}
