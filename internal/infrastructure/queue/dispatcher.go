package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/chirpnet/social-api/internal/api/metrics"
	"github.com/chirpnet/social-api/internal/core/domain"
	"github.com/chirpnet/social-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher is the asynchronous notification sink. Notifications are routed
// to a fixed set of workers by recipient, so each recipient's notifications
// are stored in emission order. Emit never blocks: when a worker channel is
// full the notification is dropped and counted.
type Dispatcher struct {
	workers []chan domain.Notification
	repo    ports.NotificationRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.NotificationRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.Notification, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Notification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their channel and stop
// once ctx is cancelled; Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Emit enqueues n for the worker responsible for its recipient. The request
// context is not used for the write: the notification outlives the request.
func (d *Dispatcher) Emit(_ context.Context, n domain.Notification) {
	idx := d.shardIndex(n.To)
	select {
	case d.workers[idx] <- n:
		// Approximate: the worker may be receiving concurrently.
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.NotificationsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("from", n.From).
			Str("to", n.To).
			Str("kind", string(n.Kind)).
			Int("worker_id", idx).
			Msg("notification queue full, dropping")
	}
}

// shardIndex maps a recipient id deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipientID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipientID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Notification) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case n := <-ch:
			metrics.NotificationQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			// select may pick a buffered item after cancellation; the write
			// must still go through.
			d.store(context.WithoutCancel(ctx), id, n)
		}
	}
}

// drain stores whatever is still buffered when shutdown begins.
func (d *Dispatcher) drain(id int, ch <-chan domain.Notification) {
	ctx := context.Background()
	for {
		select {
		case n := <-ch:
			d.store(ctx, id, n)
		default:
			return
		}
	}
}

func (d *Dispatcher) store(ctx context.Context, id int, n domain.Notification) {
	if err := d.repo.Insert(ctx, &n); err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("from", n.From).
			Str("to", n.To).
			Int("worker_id", id).
			Msg("notification insert failed")
		return
	}
	metrics.NotificationsTotal.WithLabelValues("stored").Inc()
}
