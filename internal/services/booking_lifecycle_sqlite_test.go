package services

import (
	"cab-booking-service/internal/adapters/store"
	"cab-booking-service/internal/domain"
	"cab-booking-service/internal/platform/db"
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
)

// newSQLiteLifecycle wires a lifecycle over a fresh SQLite file with one A->B
// edge of 30 minutes and vehicle V.
func newSQLiteLifecycle(t *testing.T) (*BookingLifecycle, *store.SQLStore) {
	t.Helper()
	ctx := context.Background()

	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "cabs.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := store.InitSchema(ctx, conn, store.SQLiteDialect); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	st := store.NewSQLStore(conn, store.SQLiteDialect)

	for _, e := range edges("A", "B", 30) {
		if err := st.Edges().Upsert(ctx, e.Key(), e); err != nil {
			t.Fatalf("seed edge: %v", err)
		}
	}
	if err := st.Vehicles().Upsert(ctx, "V", cab("V", 1)); err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}

	planner := NewTripPlanner(store.NewEdgeRepository(st), store.NewFleetRepository(st))
	return NewBookingLifecycle(st, planner, NewVehicleLocks(), &recordingNotifier{}), st
}

func TestSQLiteLifecycleReservations(t *testing.T) {
	l, st := newSQLiteLifecycle(t)
	ctx := context.Background()

	first, err := l.Create(ctx, CreateBookingRequest{Source: "A", Destination: "B", VehicleID: "V", Start: at(10, 0)})
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}

	if _, err := l.Create(ctx, CreateBookingRequest{Source: "A", Destination: "B", VehicleID: "V", Start: at(10, 15)}); !errors.Is(err, domain.ErrVehicleUnavailable) {
		t.Fatalf("overlapping booking err = %v, want ErrVehicleUnavailable", err)
	}
	if _, err := l.Create(ctx, CreateBookingRequest{Source: "A", Destination: "B", VehicleID: "V", Start: at(10, 30)}); err != nil {
		t.Fatalf("touching booking: %v", err)
	}

	if _, err := l.Transition(ctx, first.ID, "cancelled"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := l.Transition(ctx, first.ID, "cancelled"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("second cancel err = %v, want ErrInvalidTransition", err)
	}

	v, err := st.Vehicles().Get(ctx, "V")
	if err != nil {
		t.Fatalf("get vehicle: %v", err)
	}
	if v.HasReservation(first.ID) || len(v.Reservations) != 1 {
		t.Fatalf("reservations = %+v, want only the touching booking", v.Reservations)
	}

	stored, err := st.Bookings().Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if stored.Status != domain.StatusCancelled || !stored.Start.Equal(at(10, 0)) {
		t.Fatalf("stored booking = %+v", stored)
	}
}

func TestSQLiteConcurrentBookingsOnOneVehicle(t *testing.T) {
	l, st := newSQLiteLifecycle(t)
	ctx := context.Background()

	const n = 8
	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		ok          int
		unavailable int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Create(ctx, CreateBookingRequest{Source: "A", Destination: "B", VehicleID: "V", Start: at(10, 0)})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrVehicleUnavailable):
				unavailable++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 1 || unavailable != n-1 {
		t.Fatalf("ok=%d unavailable=%d, want 1 and %d", ok, unavailable, n-1)
	}

	v, err := st.Vehicles().Get(ctx, "V")
	if err != nil {
		t.Fatalf("get vehicle: %v", err)
	}
	if len(v.Reservations) != 1 {
		t.Fatalf("reservations = %d, want 1", len(v.Reservations))
	}
}
