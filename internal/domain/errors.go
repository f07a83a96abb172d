package domain

import "errors"

// Route graph construction.
var (
	ErrInvalidEdge   = errors.New("invalid route edge")
	ErrDuplicateEdge = errors.New("duplicate route edge")
	ErrEdgeNotFound  = errors.New("route edge not found")
)

// Routing queries.
var (
	ErrUnknownLocation        = errors.New("unknown location")
	ErrUnreachableDestination = errors.New("destination unreachable")
	ErrSameLocation           = errors.New("source and destination must differ")
)

// Booking and fleet.
var (
	ErrInvalidBooking      = errors.New("invalid booking request")
	ErrInvalidContact      = errors.New("invalid contact")
	ErrInvalidVehicle      = errors.New("invalid vehicle")
	ErrVehicleNotFound     = errors.New("vehicle not found or inactive")
	ErrVehicleUnavailable  = errors.New("vehicle unavailable for the requested window")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrInvalidStatus       = errors.New("invalid booking status")
	ErrInvalidTransition   = errors.New("invalid booking status transition")
	ErrNotificationFailure = errors.New("notification failed")
)
