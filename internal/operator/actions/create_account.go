package actions

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
	"github.com/carson-networks/bank-ledger/internal/storage"
	"github.com/carson-networks/bank-ledger/internal/storage/account"
)

// OpeningBalance is credited to every new account.
var OpeningBalance = decimal.New(10000, -2)

type CreateAccount struct {
	ClientID uuid.UUID
	Kind     account.Kind
	Numbers  *AccountNumberGenerator
	Clock    Clock

	Result *account.Account
}

func (c *CreateAccount) Name() string {
	return "CreateAccount"
}

func (c *CreateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	c.Result = nil

	if !c.Kind.Valid() {
		return bankerr.ErrInvalidAccountKind
	}

	exists, err := writer.Clients.ExistsByID(ctx, c.ClientID)
	if err != nil {
		return err
	}
	if !exists {
		return bankerr.NotFound("client", c.ClientID)
	}

	numbers := c.Numbers
	if numbers == nil {
		numbers = NewAccountNumberGenerator()
	}
	number, err := numbers.Next(ctx, writer.Accounts)
	if err != nil {
		return err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("generate account id: %w", err)
	}
	created, err := writer.Accounts.Insert(ctx, &account.AccountCreate{
		ID:            id,
		AccountNumber: number,
		ClientID:      c.ClientID,
		Kind:          c.Kind,
		Balance:       OpeningBalance,
		CreatedAt:     now(c.Clock),
	})
	if err != nil {
		return err
	}

	c.Result = created
	return nil
}
