package services

import (
	"cab-booking-service/internal/domain"
	"cab-booking-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultVehicles seeds an empty fleet.
var DefaultVehicles = []domain.Vehicle{
	{ID: "1", Name: "Economic Cab", RatePerMinute: 2.5, Active: true},
	{ID: "2", Name: "Standard Cab", RatePerMinute: 3.0, Active: true},
	{ID: "3", Name: "Premium Cab", RatePerMinute: 4.5, Active: true},
	{ID: "4", Name: "Luxury Cab", RatePerMinute: 6.0, Active: true},
	{ID: "5", Name: "SUV Cab", RatePerMinute: 5.5, Active: true},
}

// VehicleUpdate carries the optional fields of a fleet edit.
type VehicleUpdate struct {
	Name          *string
	RatePerMinute *float64
	Active        *bool
}

// FleetService manages vehicles. Reads go through Fleet; edits run inside the
// vehicle's exclusive section because the stored record also carries its
// reservations.
type FleetService struct {
	Store ports.Store
	Fleet ports.FleetSource
	Locks *VehicleLocks
}

func NewFleetService(store ports.Store, fleet ports.FleetSource, locks *VehicleLocks) *FleetService {
	return &FleetService{Store: store, Fleet: fleet, Locks: locks}
}

func (s *FleetService) ListActive(ctx context.Context) ([]domain.Vehicle, error) {
	return s.Fleet.ListActiveVehicles(ctx)
}

func (s *FleetService) Get(ctx context.Context, id string) (domain.Vehicle, error) {
	v, err := s.Fleet.GetVehicle(ctx, strings.TrimSpace(id))
	if errors.Is(err, ports.ErrNotFound) {
		return domain.Vehicle{}, fmt.Errorf("get vehicle: %w: %q", domain.ErrVehicleNotFound, id)
	}
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("get vehicle: %w", err)
	}
	return v, nil
}

// Create registers a new active vehicle. The rate must be positive.
func (s *FleetService) Create(ctx context.Context, name string, ratePerMinute float64) (domain.Vehicle, error) {
	if ratePerMinute <= 0 {
		return domain.Vehicle{}, fmt.Errorf("create vehicle: %w: rate per minute must be positive", domain.ErrInvalidVehicle)
	}

	v, err := domain.NewVehicle(uuid.NewString(), name, ratePerMinute)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("create vehicle: %w", err)
	}

	if err := s.Store.Vehicles().Upsert(ctx, v.ID, v); err != nil {
		return domain.Vehicle{}, fmt.Errorf("create vehicle: %w", err)
	}
	return v, nil
}

// Update applies the non-nil fields of u to vehicle id.
func (s *FleetService) Update(ctx context.Context, id string, u VehicleUpdate) (domain.Vehicle, error) {
	id = strings.TrimSpace(id)
	if u.RatePerMinute != nil && *u.RatePerMinute <= 0 {
		return domain.Vehicle{}, fmt.Errorf("update vehicle: %w: rate per minute must be positive", domain.ErrInvalidVehicle)
	}

	unlock, err := s.Locks.Lock(ctx, id)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("update vehicle: %w", err)
	}
	defer unlock()

	current, err := s.Get(ctx, id)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("update vehicle: %w", err)
	}

	next := current.WithReservations(current.Reservations)
	if u.Name != nil {
		next.Name = strings.TrimSpace(*u.Name)
	}
	if u.RatePerMinute != nil {
		next.RatePerMinute = *u.RatePerMinute
	}
	if u.Active != nil {
		next.Active = *u.Active
	}
	next.UpdatedAt = time.Now().UTC()

	if err := next.Validate(); err != nil {
		return domain.Vehicle{}, fmt.Errorf("update vehicle: %w", err)
	}
	if err := s.Store.Vehicles().Upsert(ctx, next.ID, next); err != nil {
		return domain.Vehicle{}, fmt.Errorf("update vehicle: %w", err)
	}
	return next, nil
}

// Deactivate soft-deletes a vehicle: it stays on record but takes no new bookings.
func (s *FleetService) Deactivate(ctx context.Context, id string) (domain.Vehicle, error) {
	inactive := false
	return s.Update(ctx, id, VehicleUpdate{Active: &inactive})
}

// CheckAvailability reports whether vehicle id is free over [start, end).
func (s *FleetService) CheckAvailability(ctx context.Context, id string, start, end time.Time) (bool, error) {
	if !start.Before(end) {
		return false, fmt.Errorf("check availability: %w: start must be before end", domain.ErrInvalidBooking)
	}

	v, err := s.Get(ctx, id)
	if err != nil {
		return false, fmt.Errorf("check availability: %w", err)
	}
	return IsAvailable(v.Intervals(), domain.Interval{Start: start.UTC(), End: end.UTC()}), nil
}
