package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
	"github.com/carson-networks/bank-ledger/internal/storage"
	"github.com/carson-networks/bank-ledger/internal/storage/client"
)

type UpdateClient struct {
	ID         uuid.UUID
	FullName   string
	NaturalKey string
	BirthDate  time.Time
	Clock      Clock

	Result *client.Client
}

func (u *UpdateClient) Name() string {
	return "UpdateClient"
}

func (u *UpdateClient) Perform(ctx context.Context, writer *storage.Writer) error {
	u.Result = nil

	current, err := writer.Clients.FindByID(ctx, u.ID)
	if err != nil {
		return err
	}

	if current.NaturalKey != u.NaturalKey {
		return bankerr.ErrNaturalKeyImmutable
	}

	updated, err := writer.Clients.Update(ctx, &client.ClientUpdate{
		ID:        u.ID,
		FullName:  u.FullName,
		BirthDate: u.BirthDate,
		UpdatedAt: now(u.Clock),
	})
	if err != nil {
		return err
	}

	u.Result = updated
	return nil
}
