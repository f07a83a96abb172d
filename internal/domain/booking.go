package domain

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
)

var contactPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeContact lower-cases and trims an optional e-mail contact.
// An empty result means no contact was given.
func NormalizeContact(s string) (string, error) {
	c := strings.ToLower(strings.TrimSpace(s))
	if c == "" {
		return "", nil
	}
	if !contactPattern.MatchString(c) {
		return "", fmt.Errorf("%w: %q is not an e-mail address", ErrInvalidContact, s)
	}
	return c, nil
}

// Booking is a committed trip on one vehicle.
//
// Path, TotalDuration and EstimatedCost are computed once at creation and are
// never recomputed; a booking is a point-in-time snapshot of the route network.
// Bookings are never mutated in place: transitions produce a new value that
// replaces the stored one.
type Booking struct {
	ID               string        `json:"id"`
	HumanCode        string        `json:"human_code"`
	RiderContact     string        `json:"rider_contact,omitempty"`
	Source           Location      `json:"source"`
	Destination      Location      `json:"destination"`
	VehicleID        string        `json:"vehicle_id"`
	Path             []Location    `json:"path"`
	TotalDuration    int           `json:"total_duration_minutes"`
	EstimatedCost    float64       `json:"estimated_cost"`
	Start            time.Time     `json:"start"`
	End              time.Time     `json:"end"`
	Status           BookingStatus `json:"status"`
	NotificationSent bool          `json:"notification_sent"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// Reservation returns the vehicle reservation entry this booking owns.
func (b Booking) Reservation() Reservation {
	return Reservation{BookingID: b.ID, Start: b.Start, End: b.End}
}

// Transition returns a copy of b in status next, or ErrInvalidTransition.
func (b Booking) Transition(next BookingStatus, at time.Time) (Booking, error) {
	if !next.Valid() {
		return Booking{}, ErrInvalidStatus
	}
	if !b.Status.CanTransitionTo(next) {
		return Booking{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, next)
	}
	out := b.Clone()
	out.Status = next
	out.UpdatedAt = at.UTC()
	return out, nil
}

// WithNotificationSent returns a copy of b flagged as notified.
func (b Booking) WithNotificationSent(at time.Time) Booking {
	out := b.Clone()
	out.NotificationSent = true
	out.UpdatedAt = at.UTC()
	return out
}

// Clone returns a deep copy of b.
func (b Booking) Clone() Booking {
	out := b
	out.Path = slices.Clone(b.Path)
	return out
}
