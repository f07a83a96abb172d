package store

import (
	"cab-booking-service/internal/domain"
	"cab-booking-service/internal/ports"
	"context"
	"fmt"
	"slices"
	"strings"
)

// EdgeRepository projects the store's edge collection onto ports.EdgeSource.
type EdgeRepository struct{ Store ports.Store }

func NewEdgeRepository(st ports.Store) *EdgeRepository {
	return &EdgeRepository{Store: st}
}

func (r *EdgeRepository) ListEdges(ctx context.Context) ([]domain.RouteEdge, error) {
	edges, err := r.Store.Edges().Scan(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list edges: %w", err)
	}
	return edges, nil
}

// FleetRepository projects the vehicle collection onto ports.FleetSource.
type FleetRepository struct{ Store ports.Store }

func NewFleetRepository(st ports.Store) *FleetRepository {
	return &FleetRepository{Store: st}
}

func (r *FleetRepository) GetVehicle(ctx context.Context, id string) (domain.Vehicle, error) {
	return r.Store.Vehicles().Get(ctx, id)
}

func (r *FleetRepository) ListActiveVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	vs, err := r.Store.Vehicles().Scan(ctx, func(v domain.Vehicle) bool { return v.Active })
	if err != nil {
		return nil, fmt.Errorf("list active vehicles: %w", err)
	}
	return vs, nil
}

// BookingRepository implements ports.BookingFinder over the booking collection.
type BookingRepository struct{ Store ports.Store }

func NewBookingRepository(st ports.Store) *BookingRepository {
	return &BookingRepository{Store: st}
}

func (r *BookingRepository) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	return r.Store.Bookings().Get(ctx, strings.TrimSpace(id))
}

// FindByHumanCode matches the public code case-insensitively.
func (r *BookingRepository) FindByHumanCode(ctx context.Context, code string) (domain.Booking, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return domain.Booking{}, ports.ErrNotFound
	}

	bs, err := r.Store.Bookings().Scan(ctx, func(b domain.Booking) bool { return b.HumanCode == code })
	if err != nil {
		return domain.Booking{}, fmt.Errorf("find booking by code: %w", err)
	}
	if len(bs) == 0 {
		return domain.Booking{}, ports.ErrNotFound
	}
	return bs[0], nil
}

// FindByContact returns the contact's bookings, newest first.
func (r *BookingRepository) FindByContact(ctx context.Context, contact string) ([]domain.Booking, error) {
	contact = strings.ToLower(strings.TrimSpace(contact))
	if contact == "" {
		return []domain.Booking{}, nil
	}

	bs, err := r.Store.Bookings().Scan(ctx, func(b domain.Booking) bool { return b.RiderContact == contact })
	if err != nil {
		return nil, fmt.Errorf("find bookings by contact: %w", err)
	}
	sortNewestFirst(bs)
	return bs, nil
}

// ListBookings returns every booking, newest first.
func (r *BookingRepository) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	bs, err := r.Store.Bookings().Scan(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	sortNewestFirst(bs)
	return bs, nil
}

func sortNewestFirst(bs []domain.Booking) {
	slices.SortStableFunc(bs, func(a, b domain.Booking) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
