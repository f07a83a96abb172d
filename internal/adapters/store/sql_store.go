package store

import (
	"cab-booking-service/internal/domain"
	"cab-booking-service/internal/ports"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Dialect captures the SQL differences between the supported databases.
type Dialect struct {
	Name string
	// Placeholder returns the bind marker for the n-th (1-based) argument.
	Placeholder func(n int) string
	// DocType is the column type used for JSON documents.
	DocType string
}

var (
	PostgresDialect = Dialect{
		Name:        "postgres",
		Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		DocType:     "TEXT",
	}
	SQLiteDialect = Dialect{
		Name:        "sqlite",
		Placeholder: func(int) string { return "?" },
		DocType:     "TEXT",
	}
)

// DialectFor returns the dialect registered under name.
func DialectFor(name string) (Dialect, error) {
	switch name {
	case PostgresDialect.Name:
		return PostgresDialect, nil
	case SQLiteDialect.Name:
		return SQLiteDialect, nil
	default:
		return Dialect{}, fmt.Errorf("unknown sql dialect %q", name)
	}
}

const (
	tableRouteEdges = "route_edges"
	tableVehicles   = "vehicles"
	tableBookings   = "bookings"
)

// querier is the subset of *sql.DB and *sql.Tx the collections use.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLStore keeps each collection in its own table as JSON documents keyed by
// record key.
type SQLStore struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{DB: db, Dialect: dialect}
}

func (s *SQLStore) Edges() ports.Collection[domain.RouteEdge] {
	return newSQLCollection[domain.RouteEdge](s.DB, s.Dialect, tableRouteEdges)
}

func (s *SQLStore) Vehicles() ports.Collection[domain.Vehicle] {
	return newSQLCollection[domain.Vehicle](s.DB, s.Dialect, tableVehicles)
}

func (s *SQLStore) Bookings() ports.Collection[domain.Booking] {
	return newSQLCollection[domain.Booking](s.DB, s.Dialect, tableBookings)
}

func (s *SQLStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	if s.DB == nil {
		return errors.New("sql store: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sql store: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(ctx, &sqlTx{tx: tx, dialect: s.Dialect}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sql store: commit tx: %w", err)
	}
	return nil
}

type sqlTx struct {
	tx      *sql.Tx
	dialect Dialect
}

func (t *sqlTx) Edges() ports.Collection[domain.RouteEdge] {
	return newSQLCollection[domain.RouteEdge](t.tx, t.dialect, tableRouteEdges)
}

func (t *sqlTx) Vehicles() ports.Collection[domain.Vehicle] {
	return newSQLCollection[domain.Vehicle](t.tx, t.dialect, tableVehicles)
}

func (t *sqlTx) Bookings() ports.Collection[domain.Booking] {
	return newSQLCollection[domain.Booking](t.tx, t.dialect, tableBookings)
}

type sqlCollection[V any] struct {
	q       querier
	dialect Dialect
	table   string
}

func newSQLCollection[V any](q querier, dialect Dialect, table string) *sqlCollection[V] {
	return &sqlCollection[V]{q: q, dialect: dialect, table: table}
}

func (c *sqlCollection[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V

	query := fmt.Sprintf(`SELECT doc FROM %s WHERE record_key = %s;`, c.table, c.dialect.Placeholder(1))

	var doc string
	err := c.q.QueryRowContext(ctx, query, key).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, ports.ErrNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("%s: get %q: %w", c.table, key, err)
	}

	var v V
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		return zero, fmt.Errorf("%s: decode %q: %w", c.table, key, err)
	}
	return v, nil
}

func (c *sqlCollection[V]) Upsert(ctx context.Context, key string, v V) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s: encode %q: %w", c.table, key, err)
	}

	query := fmt.Sprintf(`
	INSERT INTO %s (record_key, doc)
	VALUES (%s, %s)
	ON CONFLICT (record_key) DO UPDATE SET doc = excluded.doc;
	`, c.table, c.dialect.Placeholder(1), c.dialect.Placeholder(2))

	if _, err := c.q.ExecContext(ctx, query, key, string(doc)); err != nil {
		return fmt.Errorf("%s: upsert %q: %w", c.table, key, err)
	}
	return nil
}

func (c *sqlCollection[V]) Delete(ctx context.Context, key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE record_key = %s;`, c.table, c.dialect.Placeholder(1))
	if _, err := c.q.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("%s: delete %q: %w", c.table, key, err)
	}
	return nil
}

func (c *sqlCollection[V]) Scan(ctx context.Context, pred func(V) bool) ([]V, error) {
	query := fmt.Sprintf(`SELECT record_key, doc FROM %s ORDER BY record_key;`, c.table)

	rows, err := c.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: scan: %w", c.table, err)
	}
	defer rows.Close()

	out := make([]V, 0, 16)
	for rows.Next() {
		var key, doc string
		if err := rows.Scan(&key, &doc); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", c.table, err)
		}

		var v V
		if err := json.Unmarshal([]byte(doc), &v); err != nil {
			return nil, fmt.Errorf("%s: decode %q: %w", c.table, key, err)
		}
		if pred == nil || pred(v) {
			out = append(out, v)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: row iteration: %w", c.table, err)
	}
	return out, nil
}
