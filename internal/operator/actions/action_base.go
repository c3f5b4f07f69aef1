package actions

import (
	"context"
	"time"

	"github.com/carson-networks/bank-ledger/internal/storage"
)

// IAction is a unit of work the operator runs inside one storage
// transaction. Perform may be called more than once when a conflict forces a
// retry, so it must not carry state from a previous attempt.
type IAction interface {
	Name() string
	Perform(ctx context.Context, writer *storage.Writer) error
}

// IOutcomeObserver is implemented by actions that want to know how their last
// attempt ended: err is nil once the storage transaction has committed.
type IOutcomeObserver interface {
	Finished(err error)
}

// Clock returns the current time.
type Clock func() time.Time

// SystemClock is UTC wall time truncated to the precision Postgres stores.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func now(clock Clock) time.Time {
	if clock == nil {
		return SystemClock()
	}
	return clock().UTC().Truncate(time.Microsecond)
}
