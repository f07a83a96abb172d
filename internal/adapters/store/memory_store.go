package store

import (
	"cab-booking-service/internal/domain"
	"cab-booking-service/internal/ports"
	"context"
	"slices"
	"sync"
)

// MemoryStore is an in-process implementation of ports.Store.
// Records are copied on the way in and out so callers never share state
// with the store. Transactions stage writes and apply them on success.
type MemoryStore struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	edges    *memoryCollection[domain.RouteEdge]
	vehicles *memoryCollection[domain.Vehicle]
	bookings *memoryCollection[domain.Booking]
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	s.edges = newMemoryCollection(&s.mu, func(e domain.RouteEdge) domain.RouteEdge { return e })
	s.vehicles = newMemoryCollection(&s.mu, domain.Vehicle.Clone)
	s.bookings = newMemoryCollection(&s.mu, domain.Booking.Clone)
	return s
}

func (s *MemoryStore) Edges() ports.Collection[domain.RouteEdge] { return s.edges }
func (s *MemoryStore) Vehicles() ports.Collection[domain.Vehicle] { return s.vehicles }
func (s *MemoryStore) Bookings() ports.Collection[domain.Booking] { return s.bookings }

// WithinTx runs fn against staged copies of the collections. Transactions
// are serialized; staged writes become visible all at once when fn succeeds.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &memoryTx{
		edges:    newStagedCollection(s.edges),
		vehicles: newStagedCollection(s.vehicles),
		bookings: newStagedCollection(s.bookings),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tx.edges.apply()
	tx.vehicles.apply()
	tx.bookings.apply()
	return nil
}

type memoryTx struct {
	edges    *stagedCollection[domain.RouteEdge]
	vehicles *stagedCollection[domain.Vehicle]
	bookings *stagedCollection[domain.Booking]
}

func (t *memoryTx) Edges() ports.Collection[domain.RouteEdge] { return t.edges }
func (t *memoryTx) Vehicles() ports.Collection[domain.Vehicle] { return t.vehicles }
func (t *memoryTx) Bookings() ports.Collection[domain.Booking] { return t.bookings }

type memoryCollection[V any] struct {
	mu    *sync.RWMutex
	rows  map[string]V
	clone func(V) V
}

func newMemoryCollection[V any](mu *sync.RWMutex, clone func(V) V) *memoryCollection[V] {
	return &memoryCollection[V]{mu: mu, rows: make(map[string]V), clone: clone}
}

func (c *memoryCollection[V]) Get(ctx context.Context, key string) (V, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.getLocked(key)
}

func (c *memoryCollection[V]) getLocked(key string) (V, error) {
	v, ok := c.rows[key]
	if !ok {
		var zero V
		return zero, ports.ErrNotFound
	}
	return c.clone(v), nil
}

func (c *memoryCollection[V]) Upsert(ctx context.Context, key string, v V) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows[key] = c.clone(v)
	return nil
}

func (c *memoryCollection[V]) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rows, key)
	return nil
}

func (c *memoryCollection[V]) Scan(ctx context.Context, pred func(V) bool) ([]V, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.rows))
	for k := range c.rows {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]V, 0, len(keys))
	for _, k := range keys {
		v := c.rows[k]
		if pred == nil || pred(v) {
			out = append(out, c.clone(v))
		}
	}
	return out, nil
}

// stagedCollection overlays pending writes on a memoryCollection.
// A nil entry in writes marks a pending delete.
type stagedCollection[V any] struct {
	base   *memoryCollection[V]
	writes map[string]*V
}

func newStagedCollection[V any](base *memoryCollection[V]) *stagedCollection[V] {
	return &stagedCollection[V]{base: base, writes: make(map[string]*V)}
}

func (c *stagedCollection[V]) Get(ctx context.Context, key string) (V, error) {
	if w, ok := c.writes[key]; ok {
		if w == nil {
			var zero V
			return zero, ports.ErrNotFound
		}
		return c.base.clone(*w), nil
	}
	return c.base.Get(ctx, key)
}

func (c *stagedCollection[V]) Upsert(ctx context.Context, key string, v V) error {
	cp := c.base.clone(v)
	c.writes[key] = &cp
	return nil
}

func (c *stagedCollection[V]) Delete(ctx context.Context, key string) error {
	c.writes[key] = nil
	return nil
}

func (c *stagedCollection[V]) Scan(ctx context.Context, pred func(V) bool) ([]V, error) {
	c.base.mu.RLock()
	merged := make(map[string]V, len(c.base.rows)+len(c.writes))
	for k, v := range c.base.rows {
		merged[k] = v
	}
	c.base.mu.RUnlock()

	for k, w := range c.writes {
		if w == nil {
			delete(merged, k)
			continue
		}
		merged[k] = *w
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]V, 0, len(keys))
	for _, k := range keys {
		v := merged[k]
		if pred == nil || pred(v) {
			out = append(out, c.base.clone(v))
		}
	}
	return out, nil
}

// apply must be called with the base lock held for writing.
func (c *stagedCollection[V]) apply() {
	for k, w := range c.writes {
		if w == nil {
			delete(c.base.rows, k)
			continue
		}
		c.base.rows[k] = *w
	}
}
