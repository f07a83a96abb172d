package domain

import "fmt"

// RouteEdge is a directed, weighted connection between two locations.
// The reverse direction is a separate edge.
type RouteEdge struct {
	From            Location `json:"from"`
	To              Location `json:"to"`
	DurationMinutes int      `json:"duration_minutes"`
}

// NewRouteEdge normalizes both endpoints and validates the edge.
func NewRouteEdge(from, to string, durationMinutes int) (RouteEdge, error) {
	e := RouteEdge{
		From:            NormalizeLocation(from),
		To:              NormalizeLocation(to),
		DurationMinutes: durationMinutes,
	}
	if err := e.Validate(); err != nil {
		return RouteEdge{}, err
	}
	return e, nil
}

// Validate checks the edge invariants: non-empty distinct endpoints and a positive duration.
func (e RouteEdge) Validate() error {
	if e.From.Empty() || e.To.Empty() {
		return fmt.Errorf("%w: endpoints must be non-empty", ErrInvalidEdge)
	}
	if e.From == e.To {
		return fmt.Errorf("%w: %s -> %s is a self loop", ErrInvalidEdge, e.From, e.To)
	}
	if e.DurationMinutes <= 0 {
		return fmt.Errorf("%w: %s -> %s duration must be positive, got %d", ErrInvalidEdge, e.From, e.To, e.DurationMinutes)
	}
	return nil
}

// Key returns the storage key for the ordered (from, to) pair.
func (e RouteEdge) Key() string {
	return EdgeKey(e.From, e.To)
}

// EdgeKey builds the "FROM|TO" key used to index edges.
func EdgeKey(from, to Location) string {
	return string(from) + "|" + string(to)
}
