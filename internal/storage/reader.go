package storage

import (
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/bank-ledger/internal/storage/account"
	"github.com/carson-networks/bank-ledger/internal/storage/client"
	"github.com/carson-networks/bank-ledger/internal/storage/transaction"
)

// Reader serves reads outside of any write transaction.
type Reader struct {
	Accounts     account.IAccountReader
	Clients      client.IClientReader
	Transactions transaction.ITransactionReader
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{
		Accounts:     account.NewReader(exec),
		Clients:      client.NewReader(exec),
		Transactions: transaction.NewReader(exec),
	}
}
