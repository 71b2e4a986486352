package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/plans-system/internal/api/metrics"
	"github.com/99minutos/plans-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

type job struct {
	in         ports.NotifyInput
	recipients []string
}

// Dispatcher moves notification writes off the request path. Jobs are routed
// to a fixed set of workers by hashing the target id, so notifications about
// the same plan are recorded in the order they were raised.
type Dispatcher struct {
	workers []chan job
	next    ports.Notifier
	log     zerolog.Logger
}

var _ ports.Notifier = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers that
// deliver through next. If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, next ports.Notifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan job, numWorkers),
		next:    next,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Notify queues a single-recipient notification.
func (d *Dispatcher) Notify(ctx context.Context, in ports.NotifyInput, recipientID string) error {
	return d.enqueue(ctx, job{in: in, recipients: []string{recipientID}})
}

// NotifyMany queues one notification per recipient as a single job.
func (d *Dispatcher) NotifyMany(ctx context.Context, in ports.NotifyInput, recipientIDs []string) error {
	if len(recipientIDs) == 0 {
		return nil
	}
	return d.enqueue(ctx, job{in: in, recipients: append([]string(nil), recipientIDs...)})
}

// enqueue blocks while the worker channel is full, up to ctx.
func (d *Dispatcher) enqueue(ctx context.Context, j job) error {
	idx := d.shardIndex(j.in.Target.ID)
	select {
	case d.workers[idx] <- j:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a target id deterministically to a worker index.
func (d *Dispatcher) shardIndex(targetID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(targetID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan job) {
	depth := metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			d.deliver(ctx, id, j)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, worker int, j job) {
	action := string(j.in.Action)
	start := time.Now()

	var err error
	if len(j.recipients) == 1 {
		err = d.next.Notify(ctx, j.in, j.recipients[0])
	} else {
		err = d.next.NotifyMany(ctx, j.in, j.recipients)
	}
	metrics.NotificationDeliveryDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.NotificationsDispatchedTotal.WithLabelValues(action, "error").Inc()
		d.log.Error().Err(err).
			Str("action", action).
			Str("target_id", j.in.Target.ID).
			Int("recipients", len(j.recipients)).
			Int("worker_id", worker).
			Msg("notification delivery failed")
		return
	}
	metrics.NotificationsDispatchedTotal.WithLabelValues(action, "ok").Inc()
}
