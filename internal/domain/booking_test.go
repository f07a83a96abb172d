package domain

import (
	"errors"
	"testing"
	"time"
)

func TestBookingTransitionReturnsNewValue(t *testing.T) {
	// build test data
	created := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	b := Booking{
		ID:        "b1",
		Path:      []Location{"A", "B"},
		Status:    StatusConfirmed,
		CreatedAt: created,
		UpdatedAt: created,
	}

	// call the method under test
	later := created.Add(time.Hour)
	next, err := b.Transition(StatusInProgress, later)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if next.Status != StatusInProgress || !next.UpdatedAt.Equal(later) {
		t.Fatalf("next = %s at %s", next.Status, next.UpdatedAt)
	}
	if b.Status != StatusConfirmed || !b.UpdatedAt.Equal(created) {
		t.Fatalf("original booking mutated: %s at %s", b.Status, b.UpdatedAt)
	}

	next.Path[0] = "Z"
	if b.Path[0] != "A" {
		t.Fatalf("path shared between snapshots")
	}
}

func TestBookingTransitionTable(t *testing.T) {
	all := []BookingStatus{StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled}
	allowed := map[BookingStatus][]BookingStatus{
		StatusConfirmed:  {StatusInProgress, StatusCancelled},
		StatusInProgress: {StatusCompleted, StatusCancelled},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, ok := range allowed[from] {
				if ok == to {
					want = true
				}
			}

			_, err := Booking{Status: from}.Transition(to, time.Now())
			if want && err != nil {
				t.Fatalf("%s -> %s: unexpected error %v", from, to, err)
			}
			if !want && !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("%s -> %s: err = %v, want ErrInvalidTransition", from, to, err)
			}
		}
	}
}

func TestParseBookingStatus(t *testing.T) {
	s, err := ParseBookingStatus(" In-Progress ")
	if err != nil || s != StatusInProgress {
		t.Fatalf("parse = %q, %v", s, err)
	}
	if _, err := ParseBookingStatus("pending"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
	if !StatusCancelled.Terminal() || StatusInProgress.Terminal() {
		t.Fatalf("terminal states wrong")
	}
}

func TestNormalizeContact(t *testing.T) {
	got, err := NormalizeContact("  Rider@Example.COM ")
	if err != nil || got != "rider@example.com" {
		t.Fatalf("normalize = %q, %v", got, err)
	}

	if got, err := NormalizeContact("   "); err != nil || got != "" {
		t.Fatalf("blank contact = %q, %v", got, err)
	}

	for _, bad := range []string{"rider", "rider@", "@example.com", "a b@example.com", "rider@example"} {
		if _, err := NormalizeContact(bad); !errors.Is(err, ErrInvalidContact) {
			t.Fatalf("%q: err = %v, want ErrInvalidContact", bad, err)
		}
	}
}

func TestBookingWithNotificationSent(t *testing.T) {
	b := Booking{ID: "b1"}
	flagged := b.WithNotificationSent(time.Now())
	if !flagged.NotificationSent || b.NotificationSent {
		t.Fatalf("flagged=%v original=%v", flagged.NotificationSent, b.NotificationSent)
	}
}
