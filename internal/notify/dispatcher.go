// Package notify delivers booking notifications off the request path.
// Dispatcher.Notify only enqueues; a single worker publishes with a
// per-message timeout.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/Husnain-278/EventHub/internal/metrics"
	"github.com/Husnain-278/EventHub/internal/model"
	"github.com/Husnain-278/EventHub/internal/queue"
)

// ErrQueueFull is returned by Notify when the buffer is full; the
// notification is dropped.
var ErrQueueFull = errors.New("notify: queue full")

// Publisher delivers one event to the outside world.
type Publisher interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}

// Options tune a Dispatcher.  Zero values pick the defaults.
type Options struct {
	Buffer  int           // default 256
	Timeout time.Duration // per publish, default 5s
}

// Dispatcher implements booking.Notifier on top of a Publisher.
type Dispatcher struct {
	pub     Publisher
	queue   chan queue.BookingEvent
	timeout time.Duration
	logger  *log.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// New returns a Dispatcher.  Call Run to start delivering.
func New(pub Publisher, opts Options, logger *log.Logger, m *metrics.Metrics) *Dispatcher {
	if opts.Buffer <= 0 {
		opts.Buffer = 256
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if logger == nil {
		logger = log.New("notify")
	}
	return &Dispatcher{
		pub:     pub,
		queue:   make(chan queue.BookingEvent, opts.Buffer),
		timeout: opts.Timeout,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// Notify builds the event for snap and enqueues it without blocking.
func (d *Dispatcher) Notify(_ context.Context, kind model.EventKind, snap model.BookingSnapshot) error {
	ev := queue.NewBookingEvent(kind, snap, d.now())
	select {
	case d.queue <- ev:
		d.metrics.SetQueueDepth(len(d.queue))
		return nil
	default:
		d.metrics.NotificationFailed(ev.Kind, "queue_full")
		return fmt.Errorf("%w: booking %d", ErrQueueFull, snap.BookingID)
	}
}

// Run publishes queued events until ctx is cancelled, then drains what
// is still buffered and returns nil.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			d.drain()
			return nil
		case ev := <-d.queue:
			d.deliver(context.WithoutCancel(ctx), ev)
		}
	}
}

func (d *Dispatcher) drain() {
	for {
		select {
		case ev := <-d.queue:
			d.deliver(context.Background(), ev)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(parent context.Context, ev queue.BookingEvent) {
	d.metrics.SetQueueDepth(len(d.queue))
	ctx, cancel := context.WithTimeout(parent, d.timeout)
	defer cancel()

	err := d.publish(ctx, ev)
	if err != nil {
		reason := "publish"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
		}
		d.metrics.NotificationFailed(ev.Kind, reason)
		d.logger.Errorj(log.JSON{
			"msg":        "notification delivery failed",
			"event_id":   ev.EventID,
			"kind":       ev.Kind,
			"booking_id": ev.BookingID,
			"reason":     reason,
			"error":      err.Error(),
		})
		return
	}
	d.metrics.NotificationSent(ev.Kind)
	d.logger.Debugj(log.JSON{"msg": "notification delivered", "event_id": ev.EventID, "booking_id": ev.BookingID})
}

// publish calls the publisher, converting a panic into an error.
func (d *Dispatcher) publish(ctx context.Context, ev queue.BookingEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("publisher panic: %v", r)
		}
	}()
	return d.pub.Publish(ctx, ev)
}

// LogPublisher writes events to the logger instead of a broker.  It
// serves NOTIFY_ENABLED=false deployments.
type LogPublisher struct {
	Logger *log.Logger
}

func (p LogPublisher) Publish(_ context.Context, ev queue.BookingEvent) error {
	p.Logger.Infoj(log.JSON{
		"msg":        "booking notification",
		"event_id":   ev.EventID,
		"kind":       ev.Kind,
		"booking_id": ev.BookingID,
		"to":         ev.CustomerEmail,
		"status":     ev.Status,
		"total_cost": ev.TotalCost,
	})
	return nil
}
