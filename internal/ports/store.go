package ports

import (
	"cab-booking-service/internal/domain"
	"context"
	"errors"
)

// ErrNotFound is returned by Collection.Get when the key is absent.
var ErrNotFound = errors.New("record not found")

// Collection is a keyed collection of records.
type Collection[V any] interface {
	// Return the record stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (V, error)
	// Insert or replace the record stored under key.
	Upsert(ctx context.Context, key string, v V) error
	// Remove the record stored under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Return every record matching pred, ordered by key. A nil pred matches all.
	Scan(ctx context.Context, pred func(V) bool) ([]V, error)
}

// Tx exposes the collections inside a unit of work.
type Tx interface {
	Edges() Collection[domain.RouteEdge]
	Vehicles() Collection[domain.Vehicle]
	Bookings() Collection[domain.Booking]
}

// Port: the record store backing routes, fleet and bookings.
type Store interface {
	Tx
	// Run fn as one unit: every write made through tx commits together, or none does.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
