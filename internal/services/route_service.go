package services

import (
	"cab-booking-service/internal/domain"
	"cab-booking-service/internal/platform/obs"
	"cab-booking-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"sync"
)

// DefaultRoutes is the bidirectional A..F network the service ships with.
var DefaultRoutes = []domain.RouteEdge{
	{From: "A", To: "B", DurationMinutes: 5},
	{From: "B", To: "A", DurationMinutes: 5},
	{From: "A", To: "C", DurationMinutes: 10},
	{From: "C", To: "A", DurationMinutes: 10},
	{From: "B", To: "C", DurationMinutes: 8},
	{From: "C", To: "B", DurationMinutes: 8},
	{From: "C", To: "D", DurationMinutes: 7},
	{From: "D", To: "C", DurationMinutes: 7},
	{From: "D", To: "E", DurationMinutes: 12},
	{From: "E", To: "D", DurationMinutes: 12},
	{From: "D", To: "F", DurationMinutes: 20},
	{From: "F", To: "D", DurationMinutes: 20},
	{From: "E", To: "F", DurationMinutes: 15},
	{From: "F", To: "E", DurationMinutes: 15},
	{From: "B", To: "D", DurationMinutes: 25},
	{From: "D", To: "B", DurationMinutes: 25},
	{From: "A", To: "E", DurationMinutes: 30},
	{From: "E", To: "A", DurationMinutes: 30},
}

// RouteService manages the edge set RouteGraph is rebuilt from.
// Writers are serialized so the duplicate check and the insert cannot interleave.
type RouteService struct {
	Store ports.Store
	mu    sync.Mutex
}

func NewRouteService(store ports.Store) *RouteService {
	return &RouteService{Store: store}
}

func (s *RouteService) List(ctx context.Context) ([]domain.RouteEdge, error) {
	edges, err := s.Store.Edges().Scan(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	return edges, nil
}

// Add validates and stores a new directed edge.
func (s *RouteService) Add(ctx context.Context, from, to string, durationMinutes int) (_ domain.RouteEdge, err error) {
	defer obs.Time(ctx, "routes.Add")(&err)

	edge, err := domain.NewRouteEdge(from, to, durationMinutes)
	if err != nil {
		return domain.RouteEdge{}, fmt.Errorf("add route: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.Store.Edges().Get(ctx, edge.Key())
	switch {
	case err == nil:
		return domain.RouteEdge{}, fmt.Errorf("add route: %w: %s -> %s", domain.ErrDuplicateEdge, edge.From, edge.To)
	case !errors.Is(err, ports.ErrNotFound):
		return domain.RouteEdge{}, fmt.Errorf("add route: %w", err)
	}

	if err := s.Store.Edges().Upsert(ctx, edge.Key(), edge); err != nil {
		return domain.RouteEdge{}, fmt.Errorf("add route: %w", err)
	}
	return edge, nil
}

// UpdateDuration changes the travel time of an existing edge.
func (s *RouteService) UpdateDuration(ctx context.Context, from, to string, durationMinutes int) (domain.RouteEdge, error) {
	edge, err := domain.NewRouteEdge(from, to, durationMinutes)
	if err != nil {
		return domain.RouteEdge{}, fmt.Errorf("update route: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getEdge(ctx, edge.From, edge.To); err != nil {
		return domain.RouteEdge{}, fmt.Errorf("update route: %w", err)
	}
	if err := s.Store.Edges().Upsert(ctx, edge.Key(), edge); err != nil {
		return domain.RouteEdge{}, fmt.Errorf("update route: %w", err)
	}
	return edge, nil
}

func (s *RouteService) Delete(ctx context.Context, from, to string) error {
	f, t := domain.NormalizeLocation(from), domain.NormalizeLocation(to)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getEdge(ctx, f, t); err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	if err := s.Store.Edges().Delete(ctx, domain.EdgeKey(f, t)); err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	return nil
}

// Reset replaces the whole edge set with edges in one unit of work.
func (s *RouteService) Reset(ctx context.Context, edges []domain.RouteEdge) (err error) {
	defer obs.Time(ctx, "routes.Reset")(&err)

	// Building the graph applies every edge invariant before anything is written.
	if _, err := BuildRouteGraph(edges); err != nil {
		return fmt.Errorf("reset routes: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.Store.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		existing, err := tx.Edges().Scan(ctx, nil)
		if err != nil {
			return fmt.Errorf("reset routes: %w", err)
		}
		for _, e := range existing {
			if err := tx.Edges().Delete(ctx, e.Key()); err != nil {
				return fmt.Errorf("reset routes: delete %s: %w", e.Key(), err)
			}
		}
		for _, e := range edges {
			n, err := domain.NewRouteEdge(string(e.From), string(e.To), e.DurationMinutes)
			if err != nil {
				return fmt.Errorf("reset routes: %w", err)
			}
			if err := tx.Edges().Upsert(ctx, n.Key(), n); err != nil {
				return fmt.Errorf("reset routes: insert %s: %w", n.Key(), err)
			}
		}
		return nil
	})
}

func (s *RouteService) getEdge(ctx context.Context, from, to domain.Location) (domain.RouteEdge, error) {
	e, err := s.Store.Edges().Get(ctx, domain.EdgeKey(from, to))
	if errors.Is(err, ports.ErrNotFound) {
		return domain.RouteEdge{}, fmt.Errorf("%w: %s -> %s", domain.ErrEdgeNotFound, from, to)
	}
	return e, err
}
