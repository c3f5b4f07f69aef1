package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/bank-ledger/internal/events"
	"github.com/carson-networks/bank-ledger/internal/operator/actions"
	"github.com/carson-networks/bank-ledger/internal/storage"
)

// IActionProcessor runs write actions inside a storage transaction.
// *operator.OperatorDelegator is the production implementation.
type IActionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Service holds all business logic services.
type Service struct {
	Client      *ClientService
	Account     *AccountService
	Transaction *TransactionService
	Transfer    *TransferService
}

// NewService creates a new Service with the given storage.
func NewService(store *storage.Storage, processor IActionProcessor, publisher events.Publisher, log *logrus.Logger) *Service {
	return &Service{
		Client:      NewClientService(store, processor),
		Account:     NewAccountService(store, processor),
		Transaction: NewTransactionService(store),
		Transfer:    NewTransferService(processor, publisher, log),
	}
}
