package actions

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
)

const (
	numberSpace    = 10_000_000_000
	maxNumberDraws = 16
)

type numberChecker interface {
	ExistsByNumber(ctx context.Context, number string) (bool, error)
}

// AccountNumberGenerator draws random 10-digit account numbers until one is
// free. The unique constraint on accounts still decides races between two
// concurrent allocations.
type AccountNumberGenerator struct {
	draw func() string
}

func NewAccountNumberGenerator() *AccountNumberGenerator {
	return &AccountNumberGenerator{draw: randomAccountNumber}
}

// NewAccountNumberGeneratorFrom uses draw instead of the random source.
func NewAccountNumberGeneratorFrom(draw func() string) *AccountNumberGenerator {
	return &AccountNumberGenerator{draw: draw}
}

func randomAccountNumber() string {
	return fmt.Sprintf("%010d", rand.Int64N(numberSpace))
}

func (g *AccountNumberGenerator) Next(ctx context.Context, accounts numberChecker) (string, error) {
	for range maxNumberDraws {
		number := g.draw()
		taken, err := accounts.ExistsByNumber(ctx, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
	return "", bankerr.ErrNumbersExhausted
}
