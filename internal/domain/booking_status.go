package domain

import "strings"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in-progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// ParseBookingStatus normalizes (lower-case, trimmed) and validates a status string.
func ParseBookingStatus(in string) (BookingStatus, error) {
	s := BookingStatus(strings.ToLower(strings.TrimSpace(in)))
	if s.Valid() {
		return s, nil
	}
	return "", ErrInvalidStatus
}

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s BookingStatus) String() string { return string(s) }

// Terminal reports whether no further transitions are accepted from s.
func (s BookingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ReleasesReservation reports whether entering s frees the vehicle's window.
func (s BookingStatus) ReleasesReservation() bool {
	return s.Terminal()
}

// CanTransitionTo reports whether the lifecycle allows s -> next.
//
//	confirmed   -> in-progress | cancelled
//	in-progress -> completed   | cancelled
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusConfirmed:
		return next == StatusInProgress || next == StatusCancelled
	case StatusInProgress:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}
