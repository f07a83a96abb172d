package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Reservation is a committed time window on a vehicle, tied to one booking.
// The window is half-open: [Start, End).
type Reservation struct {
	BookingID string    `json:"booking_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

// Vehicle is a bookable cab with a per-minute rate and its committed reservations.
// Reservations are kept ordered by start time, then booking id.
type Vehicle struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	RatePerMinute float64       `json:"rate_per_minute"`
	Active        bool          `json:"active"`
	Reservations  []Reservation `json:"reservations"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// NewVehicle creates an active vehicle with no reservations.
func NewVehicle(id, name string, ratePerMinute float64) (Vehicle, error) {
	now := time.Now().UTC()
	v := Vehicle{
		ID:            strings.TrimSpace(id),
		Name:          strings.TrimSpace(name),
		RatePerMinute: ratePerMinute,
		Active:        true,
		Reservations:  []Reservation{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := v.Validate(); err != nil {
		return Vehicle{}, err
	}
	return v, nil
}

func (v Vehicle) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidVehicle)
	}
	if v.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidVehicle)
	}
	if v.RatePerMinute < 0 {
		return fmt.Errorf("%w: rate per minute must be non-negative", ErrInvalidVehicle)
	}
	return nil
}

// Intervals returns the committed windows as [start, end) pairs.
func (v Vehicle) Intervals() []Interval {
	out := make([]Interval, 0, len(v.Reservations))
	for _, r := range v.Reservations {
		out = append(out, Interval{Start: r.Start, End: r.End})
	}
	return out
}

// HasReservation reports whether a reservation for bookingID is recorded.
func (v Vehicle) HasReservation(bookingID string) bool {
	return slices.ContainsFunc(v.Reservations, func(r Reservation) bool { return r.BookingID == bookingID })
}

// WithReservation returns a copy of v with r inserted in order.
func (v Vehicle) WithReservation(r Reservation) Vehicle {
	next := v.Clone()
	idx, _ := slices.BinarySearchFunc(next.Reservations, r, compareReservations)
	next.Reservations = slices.Insert(next.Reservations, idx, r)
	next.UpdatedAt = time.Now().UTC()
	return next
}

// WithoutReservation returns a copy of v without the reservation for bookingID.
func (v Vehicle) WithoutReservation(bookingID string) Vehicle {
	next := v.Clone()
	next.Reservations = slices.DeleteFunc(next.Reservations, func(r Reservation) bool { return r.BookingID == bookingID })
	next.UpdatedAt = time.Now().UTC()
	return next
}

// WithReservations returns a copy of v holding a sorted copy of rs.
func (v Vehicle) WithReservations(rs []Reservation) Vehicle {
	next := v
	next.Reservations = slices.Clone(rs)
	if next.Reservations == nil {
		next.Reservations = []Reservation{}
	}
	slices.SortFunc(next.Reservations, compareReservations)
	return next
}

// Clone returns a deep copy of v.
func (v Vehicle) Clone() Vehicle {
	return v.WithReservations(v.Reservations)
}

func compareReservations(a, b Reservation) int {
	if c := a.Start.Compare(b.Start); c != 0 {
		return c
	}
	return strings.Compare(a.BookingID, b.BookingID)
}

// Interval is a half-open time window [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}
