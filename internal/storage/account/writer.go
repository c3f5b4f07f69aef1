package account

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
	"github.com/carson-networks/bank-ledger/internal/storage/sqlerr"
)

var _ IAccountWriter = (*Writer)(nil)

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

// FindByIDForUpdate loads the account and holds its row lock until the
// surrounding transaction ends.
func (w *Writer) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Account, error) {
	return w.findOne(ctx, "account", id,
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		sm.ForUpdate(),
	)
}

func (w *Writer) Insert(ctx context.Context, create *AccountCreate) (*Account, error) {
	query := psql.Insert(
		im.Into(tableName, "id", "account_number", "client_id", "kind", "balance", "version", "created_at", "updated_at"),
		im.Values(psql.Arg(
			create.ID,
			create.AccountNumber,
			create.ClientID,
			string(create.Kind),
			create.Balance,
			0,
			create.CreatedAt,
			create.CreatedAt,
		)),
		im.Returning(columns...),
	)
	row, err := bob.One(ctx, w.tx, query, scan.StructMapper[accountRow]())
	if err != nil {
		return nil, sqlerr.Classify("insert account", err)
	}
	return rowToAccount(row), nil
}

func (w *Writer) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal, expectedVersion int64) error {
	query := psql.Update(
		um.Table(tableName),
		um.SetCol("balance").ToArg(balance),
		um.SetCol("version").To(psql.Raw("version + 1")),
		um.SetCol("updated_at").To(psql.Raw("now()")),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Where(psql.Quote("version").EQ(psql.Arg(expectedVersion))),
	)
	result, err := bob.Exec(ctx, w.tx, query)
	if err != nil {
		return sqlerr.Classify("update balance", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return sqlerr.Classify("update balance", err)
	}
	if affected == 0 {
		return bankerr.Conflict("update balance", fmt.Errorf("account %s is no longer at version %d", id, expectedVersion))
	}
	return nil
}
