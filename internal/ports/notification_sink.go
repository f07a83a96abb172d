package ports

import (
	"cab-booking-service/internal/domain"
	"context"
)

// LifecycleEvent tags a booking notification.
type LifecycleEvent string

const (
	EventCreated       LifecycleEvent = "created"
	EventStatusChanged LifecycleEvent = "status-changed"
)

// Notification is the snapshot handed to a NotificationSink.
type Notification struct {
	Event   LifecycleEvent
	Booking domain.Booking
	Vehicle domain.Vehicle
}

// Contract for delivering booking notifications. Failures are observed only
// through logs; they never affect the booking they describe.
type NotificationSink interface {
	Notify(ctx context.Context, n Notification) error
}
