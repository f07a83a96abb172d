package notify

import (
	"cab-booking-service/internal/platform/obs"
	"cab-booking-service/internal/ports"
	"context"
)

// LogSink writes one log line per notification. It is the default when no
// broker is configured.
type LogSink struct{}

func (LogSink) Notify(ctx context.Context, n ports.Notification) error {
	obs.Event(ctx, "notify.log", "event=%s booking_id=%s code=%s contact=%s status=%s vehicle_id=%s",
		n.Event, n.Booking.ID, n.Booking.HumanCode, n.Booking.RiderContact, n.Booking.Status, n.Booking.VehicleID)
	return nil
}
