package store

import (
	"cab-booking-service/internal/domain"
	"cab-booking-service/internal/ports"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// InitSchema creates the record tables if they do not exist.
func InitSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	tables := []string{tableRouteEdges, tableVehicles, tableBookings}
	for i, table := range tables {
		stmt := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		record_key TEXT PRIMARY KEY,
		doc %s NOT NULL
	);
	`, table, dialect.DocType)
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}
	return nil
}

// Seed is the on-disk shape of the default network and fleet.
type Seed struct {
	Routes []RouteSeed `json:"routes"`
	Cabs   []CabSeed   `json:"cabs"`
}

type RouteSeed struct {
	From            string `json:"from"`
	To              string `json:"to"`
	DurationMinutes int    `json:"duration_minutes"`
}

type CabSeed struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	RatePerMinute float64 `json:"rate_per_minute"`
}

// LoadSeed reads and validates a seed file.
func LoadSeed(path string) (Seed, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("load seed: read %q: %w", path, err)
	}

	var seed Seed
	if err := json.Unmarshal(bytes, &seed); err != nil {
		return Seed{}, fmt.Errorf("load seed: parse json: %w", err)
	}

	for i, c := range seed.Cabs {
		if strings.TrimSpace(c.ID) == "" {
			return Seed{}, fmt.Errorf("load seed: cab at index %d: id cannot be empty", i+1)
		}
		if c.RatePerMinute <= 0 {
			return Seed{}, fmt.Errorf("load seed: cab %q: rate per minute must be positive", c.ID)
		}
	}
	return seed, nil
}

// Apply inserts the seed's routes and cabs that are not stored yet, in one
// transaction. Existing records are left untouched so reseeding keeps
// reservations and edits.
func (s Seed) Apply(ctx context.Context, st ports.Store) (routes, cabs int, err error) {
	edges := make([]domain.RouteEdge, 0, len(s.Routes))
	for i, r := range s.Routes {
		e, err := domain.NewRouteEdge(r.From, r.To, r.DurationMinutes)
		if err != nil {
			return 0, 0, fmt.Errorf("seed: route at index %d: %w", i+1, err)
		}
		edges = append(edges, e)
	}

	vehicles := make([]domain.Vehicle, 0, len(s.Cabs))
	for i, c := range s.Cabs {
		v, err := domain.NewVehicle(c.ID, c.Name, c.RatePerMinute)
		if err != nil {
			return 0, 0, fmt.Errorf("seed: cab at index %d: %w", i+1, err)
		}
		vehicles = append(vehicles, v)
	}

	err = st.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		for _, e := range edges {
			inserted, err := insertIfAbsent(ctx, tx.Edges(), e.Key(), e)
			if err != nil {
				return fmt.Errorf("seed: route %s: %w", e.Key(), err)
			}
			if inserted {
				routes++
			}
		}
		for _, v := range vehicles {
			inserted, err := insertIfAbsent(ctx, tx.Vehicles(), v.ID, v)
			if err != nil {
				return fmt.Errorf("seed: cab %s: %w", v.ID, err)
			}
			if inserted {
				cabs++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return routes, cabs, nil
}

// SeedFromJSON loads the seed at path into st.
func SeedFromJSON(ctx context.Context, st ports.Store, path string) (routes, cabs int, err error) {
	seed, err := LoadSeed(path)
	if err != nil {
		return 0, 0, err
	}
	return seed.Apply(ctx, st)
}

func insertIfAbsent[V any](ctx context.Context, c ports.Collection[V], key string, v V) (bool, error) {
	_, err := c.Get(ctx, key)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, ports.ErrNotFound):
		return false, err
	}
	if err := c.Upsert(ctx, key, v); err != nil {
		return false, err
	}
	return true, nil
}
