package operator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
	"github.com/carson-networks/bank-ledger/internal/logging"
	"github.com/carson-networks/bank-ledger/internal/operator/actions"
	"github.com/carson-networks/bank-ledger/internal/storage"
)

// Operator is the worker that processes items from the queue. Every attempt
// at an action runs in its own storage transaction; conflicts are retried
// with backoff until MaxAttempts is reached.
type Operator struct {
	storage *storage.Storage
	queue   <-chan ActionItem
	done    <-chan struct{}
	cfg     Config
	log     *logrus.Logger
}

func NewOperator(s *storage.Storage, queue <-chan ActionItem, done <-chan struct{}, cfg Config, log *logrus.Logger) *Operator {
	return &Operator{
		storage: s,
		queue:   queue,
		done:    done,
		cfg:     cfg,
		log:     log,
	}
}

// Run processes items until the delegator stops.
func (o *Operator) Run() {
	for {
		select {
		case item := <-o.queue:
			o.processItem(item)
		case <-o.done:
			return
		}
	}
}

func (o *Operator) processItem(item ActionItem) {
	err := o.performWithRetry(item.ctx, item.action)
	if observer, ok := item.action.(actions.IOutcomeObserver); ok {
		observer.Finished(err)
	}
	item.response <- ActionItemResponse{err: err}
}

func (o *Operator) performWithRetry(ctx context.Context, action actions.IAction) error {
	name := action.Name()
	attempts := 0

	policy := backoff.WithContext(
		backoff.WithMaxRetries(o.newBackOff(), uint64(o.cfg.MaxAttempts-1)),
		ctx,
	)
	operation := func() error {
		attempts++
		err := o.performOnce(ctx, action)
		if err == nil || bankerr.IsRetryable(err) {
			return err
		}
		return backoff.Permanent(err)
	}
	notify := func(err error, wait time.Duration) {
		o.log.WithError(err).WithFields(logrus.Fields{
			"attempt": attempts,
			"waitMs":  wait.Milliseconds(),
		}).Warn("Operator." + name + ".retry")
	}

	err := backoff.RetryNotify(operation, policy, notify)
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("operatorAttempts", attempts)
	}

	switch {
	case err == nil:
		o.log.WithField("attempts", attempts).Debug("Operator." + name + ".committed")
		return nil
	case bankerr.IsRetryable(err):
		err = bankerr.Storage(fmt.Sprintf("%s gave up after %d attempts", name, attempts), err)
	case ctx.Err() != nil && errors.Is(err, ctx.Err()) && !errors.Is(err, bankerr.ErrStorage):
		err = bankerr.Storage(name, err)
	}

	entry := o.log.WithError(err).WithField("attempts", attempts)
	if errors.Is(err, bankerr.ErrBusinessRule) || errors.Is(err, bankerr.ErrNotFound) {
		entry.Info("Operator." + name + ".rejected")
	} else {
		entry.Error("Operator." + name + ".failed")
	}
	return err
}

func (o *Operator) performOnce(ctx context.Context, action actions.IAction) error {
	writer, err := o.storage.Write(ctx)
	if err != nil {
		return err
	}

	if err = action.Perform(ctx, writer); err != nil {
		o.rollback(ctx, writer, action)
		return err
	}

	if err = writer.Commit(ctx); err != nil {
		o.rollback(ctx, writer, action)
		return err
	}
	return nil
}

func (o *Operator) rollback(ctx context.Context, writer *storage.Writer, action actions.IAction) {
	err := writer.Rollback(context.WithoutCancel(ctx))
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		o.log.WithError(err).Warn("Operator." + action.Name() + ".rollback")
	}
}

func (o *Operator) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = o.cfg.InitialBackoff
	b.MaxInterval = o.cfg.MaxBackoff
	b.MaxElapsedTime = 0
	return b
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
