package account

import (
	"time"

	"github.com/carson-networks/bank-ledger/internal/service"
)

// Account is the API response model for an account.
type Account struct {
	ID            string `json:"id" doc:"Account UUID"`
	AccountNumber string `json:"accountNumber" doc:"10 digit account number"`
	ClientID      string `json:"clientID" doc:"Owning client UUID"`
	Kind          string `json:"kind" enum:"CHECKING,SAVINGS" doc:"Account kind"`
	Balance       string `json:"balance" doc:"Decimal balance"`
	CreatedAt     string `json:"createdAt" doc:"RFC3339 creation time"`
}

func toAccount(a *service.Account) Account {
	return Account{
		ID:            a.ID.String(),
		AccountNumber: a.AccountNumber,
		ClientID:      a.ClientID.String(),
		Kind:          string(a.Kind),
		Balance:       a.Balance.StringFixed(2),
		CreatedAt:     a.CreatedAt.Format(time.RFC3339Nano),
	}
}

func toAccounts(accounts []service.Account) []Account {
	result := make([]Account, len(accounts))
	for i := range accounts {
		result[i] = toAccount(&accounts[i])
	}
	return result
}
