package services

import (
	"cab-booking-service/internal/adapters/store"
	"cab-booking-service/internal/domain"
	"cab-booking-service/internal/ports"
	"context"
	"errors"
	"testing"
)

func TestFleetServiceCreateUpdateDeactivate(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := NewFleetService(st, store.NewFleetRepository(st), NewVehicleLocks())

	v, err := svc.Create(ctx, " Van Cab ", 4)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.ID == "" || v.Name != "Van Cab" || !v.Active {
		t.Fatalf("vehicle = %+v", v)
	}

	if _, err := svc.Create(ctx, "Free", 0); !errors.Is(err, domain.ErrInvalidVehicle) {
		t.Fatalf("zero rate err = %v", err)
	}
	if _, err := svc.Create(ctx, "  ", 3); !errors.Is(err, domain.ErrInvalidVehicle) {
		t.Fatalf("blank name err = %v", err)
	}

	rate := 5.5
	upd, err := svc.Update(ctx, v.ID, VehicleUpdate{RatePerMinute: &rate})
	if err != nil || upd.RatePerMinute != 5.5 || upd.Name != "Van Cab" {
		t.Fatalf("update = %+v, %v", upd, err)
	}

	neg := -1.0
	if _, err := svc.Update(ctx, v.ID, VehicleUpdate{RatePerMinute: &neg}); !errors.Is(err, domain.ErrInvalidVehicle) {
		t.Fatalf("negative rate err = %v", err)
	}

	if _, err := svc.Deactivate(ctx, v.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	active, _ := svc.ListActive(ctx)
	if len(active) != 0 {
		t.Fatalf("active after deactivate = %d, want 0", len(active))
	}

	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, domain.ErrVehicleNotFound) {
		t.Fatalf("missing err = %v", err)
	}
}

func TestFleetServiceUpdateKeepsReservations(t *testing.T) {
	f := newFixture(t, edges("A", "B", 30), cab("V", 1))
	ctx := context.Background()

	b, err := f.lifecycle.Create(ctx, CreateBookingRequest{Source: "A", Destination: "B", VehicleID: "V", Start: at(10, 0)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	svc := NewFleetService(f.store, store.NewFleetRepository(f.store), f.lifecycle.Locks)
	name := "Renamed"
	if _, err := svc.Update(ctx, "V", VehicleUpdate{Name: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if !f.vehicle(t, "V").HasReservation(b.ID) {
		t.Fatalf("update dropped the reservation")
	}

	free, err := svc.CheckAvailability(ctx, "V", at(10, 15), at(10, 45))
	if err != nil || free {
		t.Fatalf("overlapping window available=%v err=%v", free, err)
	}
	free, err = svc.CheckAvailability(ctx, "V", at(10, 30), at(11, 0))
	if err != nil || !free {
		t.Fatalf("touching window available=%v err=%v", free, err)
	}
	if _, err := svc.CheckAvailability(ctx, "V", at(11, 0), at(10, 0)); !errors.Is(err, domain.ErrInvalidBooking) {
		t.Fatalf("reversed window err = %v", err)
	}
}

// countingFleet wraps a FleetSource and counts reads.
type countingFleet struct {
	ports.FleetSource
	gets, lists int
}

func (c *countingFleet) GetVehicle(ctx context.Context, id string) (domain.Vehicle, error) {
	c.gets++
	return c.FleetSource.GetVehicle(ctx, id)
}

func (c *countingFleet) ListActiveVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	c.lists++
	return c.FleetSource.ListActiveVehicles(ctx)
}

func TestFleetServiceReadsThroughFleetSource(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	if err := st.Vehicles().Upsert(ctx, "V", cab("V", 2)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	src := &countingFleet{FleetSource: store.NewFleetRepository(st)}
	svc := NewFleetService(st, src, NewVehicleLocks())

	if v, err := svc.Get(ctx, " V "); err != nil || v.ID != "V" {
		t.Fatalf("get = %+v, %v", v, err)
	}
	if _, err := svc.Get(ctx, "nope"); !errors.Is(err, domain.ErrVehicleNotFound) {
		t.Fatalf("missing err = %v, want ErrVehicleNotFound", err)
	}
	if vs, err := svc.ListActive(ctx); err != nil || len(vs) != 1 {
		t.Fatalf("list = %v, %v", vs, err)
	}
	if free, err := svc.CheckAvailability(ctx, "V", at(9, 0), at(9, 30)); err != nil || !free {
		t.Fatalf("availability = %v, %v", free, err)
	}

	if src.gets != 3 || src.lists != 1 {
		t.Fatalf("gets=%d lists=%d, want 3 and 1", src.gets, src.lists)
	}
}
