package services

import (
	"cab-booking-service/internal/domain"
	"cab-booking-service/internal/platform/obs"
	"cab-booking-service/internal/ports"
	"context"
	"fmt"
	"sync"
	"time"
)

// NotificationDispatcher delivers lifecycle notifications on a background
// worker. Enqueue never blocks the caller; a full queue drops the
// notification and logs it.
type NotificationDispatcher struct {
	sink        ports.NotificationSink
	queue       chan ports.Notification
	timeout     time.Duration
	onDelivered func(ctx context.Context, n ports.Notification) error

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewNotificationDispatcher(sink ports.NotificationSink, queueSize int) *NotificationDispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &NotificationDispatcher{
		sink:    sink,
		queue:   make(chan ports.Notification, queueSize),
		timeout: 10 * time.Second,
	}
}

// OnDelivered registers a hook run after each successful delivery.
// It must be set before Start.
func (d *NotificationDispatcher) OnDelivered(fn func(ctx context.Context, n ports.Notification) error) {
	d.onDelivered = fn
}

// Start launches the worker. It stops when ctx is done or after Close has
// drained the queue.
func (d *NotificationDispatcher) Start(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-d.queue:
				if !ok {
					return
				}
				d.deliver(ctx, n)
			}
		}
	}()
}

// Enqueue schedules n for delivery and reports whether it was accepted.
func (d *NotificationDispatcher) Enqueue(ctx context.Context, n ports.Notification) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		obs.Event(ctx, "notify.enqueue", "booking_id=%s event=%s dropped=closed", n.Booking.ID, n.Event)
		return false
	}

	select {
	case d.queue <- n:
		return true
	default:
		obs.Event(ctx, "notify.enqueue", "booking_id=%s event=%s dropped=queue_full", n.Booking.ID, n.Event)
		return false
	}
}

// Close stops accepting notifications and waits for queued ones to drain.
func (d *NotificationDispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *NotificationDispatcher) deliver(parent context.Context, n ports.Notification) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), d.timeout)
	defer cancel()

	var err error
	defer obs.Time(ctx, "notify.dispatch")(&err)

	if err = d.sink.Notify(ctx, n); err != nil {
		err = fmt.Errorf("%w: booking %s event %s: %w", domain.ErrNotificationFailure, n.Booking.ID, n.Event, err)
		return
	}

	if d.onDelivered != nil {
		if hookErr := d.onDelivered(ctx, n); hookErr != nil {
			err = fmt.Errorf("after delivery of booking %s: %w", n.Booking.ID, hookErr)
		}
	}
}
