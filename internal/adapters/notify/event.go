package notify

import (
	"cab-booking-service/internal/domain"
	"cab-booking-service/internal/ports"
	"encoding/json"
	"fmt"
	"time"
)

// BookingEvent is the wire shape shared by every notification sink.
type BookingEvent struct {
	Event         ports.LifecycleEvent `json:"event"`
	BookingID     string               `json:"booking_id"`
	HumanCode     string               `json:"human_code"`
	RiderContact  string               `json:"rider_contact"`
	Status        domain.BookingStatus `json:"status"`
	Source        domain.Location      `json:"source"`
	Destination   domain.Location      `json:"destination"`
	Path          []domain.Location    `json:"path"`
	TotalDuration int                  `json:"total_duration_minutes"`
	EstimatedCost float64              `json:"estimated_cost"`
	Start         time.Time            `json:"start"`
	End           time.Time            `json:"end"`
	VehicleID     string               `json:"vehicle_id"`
	VehicleName   string               `json:"vehicle_name"`
	OccurredAt    time.Time            `json:"occurred_at"`
}

func NewBookingEvent(n ports.Notification) BookingEvent {
	b := n.Booking
	return BookingEvent{
		Event:         n.Event,
		BookingID:     b.ID,
		HumanCode:     b.HumanCode,
		RiderContact:  b.RiderContact,
		Status:        b.Status,
		Source:        b.Source,
		Destination:   b.Destination,
		Path:          b.Path,
		TotalDuration: b.TotalDuration,
		EstimatedCost: b.EstimatedCost,
		Start:         b.Start,
		End:           b.End,
		VehicleID:     b.VehicleID,
		VehicleName:   n.Vehicle.Name,
		OccurredAt:    b.UpdatedAt,
	}
}

func encodeEvent(n ports.Notification) ([]byte, error) {
	body, err := json.Marshal(NewBookingEvent(n))
	if err != nil {
		return nil, fmt.Errorf("encode booking event %s: %w", n.Booking.ID, err)
	}
	return body, nil
}

// routingKey maps a lifecycle event to its topic routing key.
func routingKey(e ports.LifecycleEvent) string {
	switch e {
	case ports.EventCreated:
		return "booking.created"
	case ports.EventStatusChanged:
		return "booking.status_changed"
	default:
		return "booking." + string(e)
	}
}
