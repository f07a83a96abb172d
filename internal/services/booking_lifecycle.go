package services

import (
	"cab-booking-service/internal/domain"
	"cab-booking-service/internal/platform/obs"
	"cab-booking-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Notifier accepts lifecycle notifications without blocking.
type Notifier interface {
	Enqueue(ctx context.Context, n ports.Notification) bool
}

type CreateBookingRequest struct {
	Source       string
	Destination  string
	VehicleID    string
	Start        time.Time
	RiderContact string
}

// BookingLifecycle owns booking creation and status transitions.
//
// Every write touching a vehicle's reservations runs inside that vehicle's
// exclusive section and inside one store transaction, so a booking and its
// reservation entry are always committed (or released) together.
type BookingLifecycle struct {
	Store    ports.Store
	Planner  *TripPlanner
	Locks    *VehicleLocks
	Notifier Notifier

	now   func() time.Time
	newID func() (id string, humanCode string)
}

func NewBookingLifecycle(store ports.Store, planner *TripPlanner, locks *VehicleLocks, notifier Notifier) *BookingLifecycle {
	return &BookingLifecycle{
		Store:    store,
		Planner:  planner,
		Locks:    locks,
		Notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    newBookingID,
	}
}

// newBookingID returns a UUID and its first 8 hex characters, upper-cased,
// as the public code.
func newBookingID() (string, string) {
	id := uuid.NewString()
	return id, strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8])
}

// Create validates req, resolves its route, and commits a confirmed booking
// together with the vehicle reservation.
func (l *BookingLifecycle) Create(ctx context.Context, req CreateBookingRequest) (_ domain.Booking, err error) {
	defer obs.Time(ctx, "lifecycle.Create")(&err)

	src, dst, err := normalizeEndpoints(req.Source, req.Destination)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("create booking: %w", err)
	}

	contact, err := domain.NormalizeContact(req.RiderContact)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("create booking: %w", err)
	}

	if req.Start.IsZero() {
		return domain.Booking{}, fmt.Errorf("create booking: %w: start time is required", domain.ErrInvalidBooking)
	}

	route, err := l.Planner.Route(ctx, string(src), string(dst))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("create booking: %w", err)
	}

	vehicleID := strings.TrimSpace(req.VehicleID)
	vehicle, err := l.activeVehicle(ctx, l.Store, vehicleID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("create booking: %w", err)
	}

	start := req.Start.UTC()
	end := start.Add(time.Duration(route.TotalDuration) * time.Minute)

	id, code := l.newID()
	now := l.now()
	booking := domain.Booking{
		ID:            id,
		HumanCode:     code,
		RiderContact:  contact,
		Source:        src,
		Destination:   dst,
		VehicleID:     vehicle.ID,
		Path:          slices.Clone(route.Path),
		TotalDuration: route.TotalDuration,
		EstimatedCost: EstimateCost(route.TotalDuration, vehicle.RatePerMinute),
		Start:         start,
		End:           end,
		Status:        domain.StatusConfirmed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var committed domain.Vehicle
	err = l.withVehicle(ctx, vehicle.ID, func(ctx context.Context, tx ports.Tx) error {
		// Re-read inside the section: the reservations seen before locking may be stale.
		current, err := l.activeVehicle(ctx, tx, vehicle.ID)
		if err != nil {
			return err
		}

		candidate := domain.Interval{Start: start, End: end}
		if !IsAvailable(current.Intervals(), candidate) {
			return fmt.Errorf("%w: vehicle %s between %s and %s",
				domain.ErrVehicleUnavailable, current.ID, start.Format(time.RFC3339), end.Format(time.RFC3339))
		}

		// Price against the rate committed with the reservation.
		booking.EstimatedCost = EstimateCost(route.TotalDuration, current.RatePerMinute)

		if err := tx.Bookings().Upsert(ctx, booking.ID, booking); err != nil {
			return fmt.Errorf("persist booking: %w", err)
		}

		committed = current.WithReservation(booking.Reservation())
		if err := tx.Vehicles().Upsert(ctx, committed.ID, committed); err != nil {
			return fmt.Errorf("persist reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("create booking: %w", err)
	}

	if booking.RiderContact != "" {
		l.notify(ctx, ports.EventCreated, booking, committed)
	}

	return booking, nil
}

// Transition moves a booking to status. Entering completed or cancelled
// releases the vehicle reservation in the same unit of work.
func (l *BookingLifecycle) Transition(ctx context.Context, bookingID string, status string) (_ domain.Booking, err error) {
	defer obs.Time(ctx, "lifecycle.Transition")(&err)

	next, err := domain.ParseBookingStatus(status)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("transition booking: %w: %q", err, status)
	}
	if next == domain.StatusConfirmed {
		return domain.Booking{}, fmt.Errorf("transition booking: %w: cannot return to %s", domain.ErrInvalidTransition, next)
	}

	existing, err := l.getBooking(ctx, l.Store, bookingID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("transition booking: %w", err)
	}

	var (
		updated domain.Booking
		vehicle domain.Vehicle
	)
	err = l.withVehicle(ctx, existing.VehicleID, func(ctx context.Context, tx ports.Tx) error {
		current, err := l.getBooking(ctx, tx, existing.ID)
		if err != nil {
			return err
		}

		updated, err = current.Transition(next, l.now())
		if err != nil {
			return err
		}

		vehicle, err = tx.Vehicles().Get(ctx, current.VehicleID)
		switch {
		case errors.Is(err, ports.ErrNotFound):
			obs.Event(ctx, "lifecycle.Transition", "booking_id=%s vehicle_id=%s warn=vehicle_missing", current.ID, current.VehicleID)
		case err != nil:
			return fmt.Errorf("get vehicle %s: %w", current.VehicleID, err)
		case next.ReleasesReservation():
			vehicle = vehicle.WithoutReservation(current.ID)
			if err := tx.Vehicles().Upsert(ctx, vehicle.ID, vehicle); err != nil {
				return fmt.Errorf("release reservation: %w", err)
			}
		}

		if err := tx.Bookings().Upsert(ctx, updated.ID, updated); err != nil {
			return fmt.Errorf("persist booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("transition booking %s: %w", bookingID, err)
	}

	if updated.RiderContact != "" {
		l.notify(ctx, ports.EventStatusChanged, updated, vehicle)
	}

	return updated, nil
}

// MarkNotified flags a booking once its creation notice was delivered.
// It is registered as the dispatcher's delivery hook.
func (l *BookingLifecycle) MarkNotified(ctx context.Context, n ports.Notification) error {
	if n.Event != ports.EventCreated {
		return nil
	}

	err := l.withVehicle(ctx, n.Booking.VehicleID, func(ctx context.Context, tx ports.Tx) error {
		current, err := l.getBooking(ctx, tx, n.Booking.ID)
		if err != nil {
			return err
		}
		if current.NotificationSent {
			return nil
		}
		flagged := current.WithNotificationSent(l.now())
		return tx.Bookings().Upsert(ctx, flagged.ID, flagged)
	})
	if err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}
	return nil
}

// withVehicle runs fn in one store transaction inside the vehicle's exclusive
// section. The section is released when withVehicle returns, so callers
// notify only after it.
func (l *BookingLifecycle) withVehicle(ctx context.Context, vehicleID string, fn func(ctx context.Context, tx ports.Tx) error) error {
	unlock, err := l.Locks.Lock(ctx, vehicleID)
	if err != nil {
		return fmt.Errorf("lock vehicle %s: %w", vehicleID, err)
	}
	defer unlock()

	return l.Store.WithinTx(ctx, fn)
}

func (l *BookingLifecycle) notify(ctx context.Context, event ports.LifecycleEvent, b domain.Booking, v domain.Vehicle) {
	if l.Notifier == nil {
		return
	}
	l.Notifier.Enqueue(ctx, ports.Notification{Event: event, Booking: b, Vehicle: v})
}

func (l *BookingLifecycle) activeVehicle(ctx context.Context, tx ports.Tx, id string) (domain.Vehicle, error) {
	if id == "" {
		return domain.Vehicle{}, fmt.Errorf("%w: vehicle id is required", domain.ErrVehicleNotFound)
	}
	v, err := tx.Vehicles().Get(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return domain.Vehicle{}, fmt.Errorf("%w: %q", domain.ErrVehicleNotFound, id)
	}
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("get vehicle %s: %w", id, err)
	}
	if !v.Active {
		return domain.Vehicle{}, fmt.Errorf("%w: %q is inactive", domain.ErrVehicleNotFound, id)
	}
	return v, nil
}

func (l *BookingLifecycle) getBooking(ctx context.Context, tx ports.Tx, id string) (domain.Booking, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Booking{}, fmt.Errorf("%w: id is required", domain.ErrBookingNotFound)
	}
	b, err := tx.Bookings().Get(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return domain.Booking{}, fmt.Errorf("%w: %q", domain.ErrBookingNotFound, id)
	}
	if err != nil {
		return domain.Booking{}, fmt.Errorf("get booking %s: %w", id, err)
	}
	return b, nil
}
