package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/nexacorp/accounts-api/internal/api/metrics"
	"github.com/nexacorp/accounts-api/internal/core/domain"
	"github.com/nexacorp/accounts-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher fans credit audit events out to a fixed set of workers using
// consistent hashing on the account id, so one account's audit entries are
// written in debit order. The debit path only enqueues; it never waits on
// the ledger write.
type Dispatcher struct {
	workers []chan domain.CreditEvent
	ledger  ports.LedgerRepository
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, ledger ports.LedgerRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.CreditEvent, numWorkers),
		ledger:  ledger,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.CreditEvent, channelBuffer)
	}
	return d
}

var _ ports.CreditAuditor = (*Dispatcher)(nil)

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its account.
// Non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(event domain.CreditEvent) {
	i := d.shardIndex(event.AccountID.String())
	d.workers[i] <- event
	metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

// shardIndex maps an account id deterministically to a worker index.
func (d *Dispatcher) shardIndex(accountID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(accountID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.CreditEvent) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.ledger.Record(ctx, &event); err != nil {
				d.log.Error().Err(err).
					Str("account_id", event.AccountID.String()).
					Int("worker_id", id).
					Msg("audit record failed")
			}
			metrics.AuditQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
		}
	}
}
