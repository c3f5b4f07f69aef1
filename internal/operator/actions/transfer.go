package actions

import (
	"bytes"
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
	"github.com/carson-networks/bank-ledger/internal/storage"
	"github.com/carson-networks/bank-ledger/internal/storage/account"
	"github.com/carson-networks/bank-ledger/internal/storage/transaction"
)

type TransferState string

const (
	StateValidated           TransferState = "VALIDATED"
	StateAccountsLoaded      TransferState = "ACCOUNTS_LOADED"
	StateFundsReserved       TransferState = "FUNDS_RESERVED"
	StateTransactionRecorded TransferState = "TRANSACTION_RECORDED"
	StateCommitted           TransferState = "COMMITTED"
	StateRejected            TransferState = "REJECTED"
)

// Transfer moves Amount from the source to the destination account and
// records the transaction. Both accounts are locked in ascending id order so
// two transfers between the same pair in opposite directions cannot deadlock.
type Transfer struct {
	SourceAccountID      uuid.UUID
	DestinationAccountID uuid.UUID
	Amount               decimal.Decimal
	Description          string
	Clock                Clock

	Result *transaction.Transaction
	state  TransferState
}

func (t *Transfer) Name() string {
	return "Transfer"
}

// State is the furthest state the last attempt reached.
func (t *Transfer) State() TransferState {
	return t.state
}

func (t *Transfer) Finished(err error) {
	if err != nil {
		t.state = StateRejected
		t.Result = nil
		return
	}
	t.state = StateCommitted
}

func (t *Transfer) Perform(ctx context.Context, writer *storage.Writer) error {
	t.Result = nil
	t.state = StateValidated

	if !t.Amount.IsPositive() {
		return t.reject(bankerr.ErrInvalidAmount)
	}

	first, second := lockOrder(t.SourceAccountID, t.DestinationAccountID)
	loaded := make(map[uuid.UUID]*account.Account, 2)
	for _, id := range []uuid.UUID{first, second} {
		if _, ok := loaded[id]; ok {
			continue
		}
		a, err := writer.Accounts.FindByIDForUpdate(ctx, id)
		if err != nil {
			return t.reject(err)
		}
		loaded[id] = a
	}
	t.state = StateAccountsLoaded

	source := loaded[t.SourceAccountID]
	destination := loaded[t.DestinationAccountID]
	if source.ID == destination.ID {
		return t.reject(bankerr.ErrSameAccount)
	}
	if source.Balance.LessThan(t.Amount) {
		return t.reject(bankerr.ErrInsufficientFunds)
	}

	balances := map[uuid.UUID]decimal.Decimal{
		source.ID:      source.Balance.Sub(t.Amount),
		destination.ID: destination.Balance.Add(t.Amount),
	}
	for _, id := range []uuid.UUID{first, second} {
		if err := writer.Accounts.UpdateBalance(ctx, id, balances[id], loaded[id].Version); err != nil {
			return t.reject(err)
		}
	}
	t.state = StateFundsReserved

	id, err := uuid.NewV7()
	if err != nil {
		return t.reject(fmt.Errorf("generate transaction id: %w", err))
	}
	recorded, err := writer.Transactions.Insert(ctx, &transaction.TransactionCreate{
		ID:                       id,
		SourceAccountID:          source.ID,
		SourceAccountNumber:      source.AccountNumber,
		DestinationAccountID:     destination.ID,
		DestinationAccountNumber: destination.AccountNumber,
		Amount:                   t.Amount,
		Kind:                     transaction.KindTransfer,
		Description:              t.Description,
		CreatedAt:                now(t.Clock),
	})
	if err != nil {
		return t.reject(err)
	}

	t.state = StateTransactionRecorded
	t.Result = recorded
	return nil
}

func (t *Transfer) reject(err error) error {
	t.state = StateRejected
	return err
}

func lockOrder(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a.Bytes(), b.Bytes()) <= 0 {
		return a, b
	}
	return b, a
}
