package ports

import (
	"cab-booking-service/internal/domain"
	"context"
)

// Port: a boundary producing the directed edges RouteGraph is rebuilt from.
type EdgeSource interface {
	ListEdges(ctx context.Context) ([]domain.RouteEdge, error)
}

// Port: a boundary for reading fleet vehicles.
type FleetSource interface {
	// Return the vehicle with id, or ErrNotFound.
	GetVehicle(ctx context.Context, id string) (domain.Vehicle, error)
	// Return all active vehicles ordered by id.
	ListActiveVehicles(ctx context.Context) ([]domain.Vehicle, error)
}

// Port: read-only booking projections.
type BookingFinder interface {
	GetBooking(ctx context.Context, id string) (domain.Booking, error)
	FindByHumanCode(ctx context.Context, code string) (domain.Booking, error)
	FindByContact(ctx context.Context, contact string) ([]domain.Booking, error)
	ListBookings(ctx context.Context) ([]domain.Booking, error)
}
