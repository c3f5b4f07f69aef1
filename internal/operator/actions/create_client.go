package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
	"github.com/carson-networks/bank-ledger/internal/storage"
	"github.com/carson-networks/bank-ledger/internal/storage/client"
)

type CreateClient struct {
	FullName   string
	NaturalKey string
	BirthDate  time.Time
	Clock      Clock

	Result *client.Client
}

func (c *CreateClient) Name() string {
	return "CreateClient"
}

func (c *CreateClient) Perform(ctx context.Context, writer *storage.Writer) error {
	c.Result = nil

	taken, err := writer.Clients.ExistsByNaturalKey(ctx, c.NaturalKey)
	if err != nil {
		return err
	}
	if taken {
		return bankerr.ErrDuplicateNaturalKey
	}

	id, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("generate client id: %w", err)
	}
	created, err := writer.Clients.Insert(ctx, &client.ClientCreate{
		ID:         id,
		FullName:   c.FullName,
		NaturalKey: c.NaturalKey,
		BirthDate:  c.BirthDate,
		CreatedAt:  now(c.Clock),
	})
	if err != nil {
		return err
	}

	c.Result = created
	return nil
}
