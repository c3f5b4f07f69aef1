package operator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
	"github.com/carson-networks/bank-ledger/internal/operator/actions"
	"github.com/carson-networks/bank-ledger/internal/storage"
)

var ErrStopped = bankerr.Storage("operator", errors.New("delegator stopped"))

type Config struct {
	Workers     int
	QueueSize   int
	MaxAttempts int

	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func (c Config) withDefaults() Config {
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.QueueSize < 1 {
		c.QueueSize = 1000
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 1
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 5 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 200 * time.Millisecond
	}
	return c
}

// OperatorDelegator manages the queue, starts/stops Operators (workers), and enqueues items.
type OperatorDelegator struct {
	storage  *storage.Storage
	cfg      Config
	log      *logrus.Logger
	queue    chan ActionItem
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewOperatorDelegator(s *storage.Storage, cfg Config, log *logrus.Logger) *OperatorDelegator {
	cfg = cfg.withDefaults()
	return &OperatorDelegator{
		storage: s,
		cfg:     cfg,
		log:     log,
		queue:   make(chan ActionItem, cfg.QueueSize),
		done:    make(chan struct{}),
	}
}

func (d *OperatorDelegator) Start() {
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		op := NewOperator(d.storage, d.queue, d.done, d.cfg, d.log)
		go func() {
			defer d.wg.Done()
			op.Run()
		}()
	}
}

// Stop waits for in-flight actions to finish. Queued actions that no worker
// picked up fail with ErrStopped.
func (d *OperatorDelegator) Stop() {
	d.stopOnce.Do(func() {
		close(d.done)
		d.wg.Wait()
	})
}

// Process runs action on a worker and waits for its outcome. ctx only bounds
// the wait for a queue slot; once enqueued, the worker owns the action and
// Process reports whatever it decided. The worker passes ctx to storage, so a
// cancelled caller still gets an answer promptly.
func (d *OperatorDelegator) Process(ctx context.Context, action actions.IAction) error {
	respCh := make(chan ActionItemResponse, 1)
	item := ActionItem{
		ctx:      ctx,
		action:   action,
		response: respCh,
	}

	select {
	case d.queue <- item:
	case <-d.done:
		return ErrStopped
	case <-ctx.Done():
		return bankerr.Storage("enqueue "+action.Name(), ctx.Err())
	}

	select {
	case resp := <-respCh:
		return resp.err
	case <-d.done:
		d.wg.Wait()
		select {
		case resp := <-respCh:
			return resp.err
		default:
			return ErrStopped
		}
	}
}
