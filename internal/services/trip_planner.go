package services

import (
	"cab-booking-service/internal/domain"
	"cab-booking-service/internal/platform/obs"
	"cab-booking-service/internal/ports"
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
)

// QuoteTrip prices the shortest route from source to destination for each
// active vehicle. Options are sorted by estimated cost, then vehicle id.
// Routing failures from the graph are returned unchanged.
func QuoteTrip(
	graph *RouteGraph,
	source, destination domain.Location,
	activeVehicles []domain.Vehicle,
) (domain.Quote, error) {
	src, dst, err := normalizeEndpoints(string(source), string(destination))
	if err != nil {
		return domain.Quote{}, err
	}

	route, err := graph.ShortestPath(src, dst)
	if err != nil {
		return domain.Quote{}, err
	}

	options := make([]domain.VehicleOption, 0, len(activeVehicles))
	for _, v := range activeVehicles {
		if !v.Active {
			continue
		}
		options = append(options, domain.VehicleOption{
			VehicleID:     v.ID,
			Name:          v.Name,
			RatePerMinute: v.RatePerMinute,
			EstimatedCost: EstimateCost(route.TotalDuration, v.RatePerMinute),
		})
	}

	slices.SortFunc(options, func(a, b domain.VehicleOption) int {
		if c := cmp.Compare(a.EstimatedCost, b.EstimatedCost); c != 0 {
			return c
		}
		return strings.Compare(a.VehicleID, b.VehicleID)
	})

	return domain.Quote{
		Source:        src,
		Destination:   dst,
		Path:          route.Path,
		TotalDuration: route.TotalDuration,
		Options:       options,
	}, nil
}

// EstimateCost is duration (minutes) times the per-minute rate.
func EstimateCost(totalDurationMinutes int, ratePerMinute float64) float64 {
	return float64(totalDurationMinutes) * ratePerMinute
}

// normalizeEndpoints validates that both endpoints are non-empty and differ
// after normalization.
func normalizeEndpoints(source, destination string) (domain.Location, domain.Location, error) {
	src := domain.NormalizeLocation(source)
	dst := domain.NormalizeLocation(destination)
	if src.Empty() || dst.Empty() {
		return "", "", fmt.Errorf("%w: source and destination are required", domain.ErrSameLocation)
	}
	if src == dst {
		return "", "", fmt.Errorf("%w: %q", domain.ErrSameLocation, src)
	}
	return src, dst, nil
}

// TripPlanner answers routing and pricing queries against the latest edge set
// and fleet. It never reserves anything.
type TripPlanner struct {
	Edges ports.EdgeSource
	Fleet ports.FleetSource
}

func NewTripPlanner(edges ports.EdgeSource, fleet ports.FleetSource) *TripPlanner {
	return &TripPlanner{Edges: edges, Fleet: fleet}
}

// Graph rebuilds the route graph from the edge source.
func (p *TripPlanner) Graph(ctx context.Context) (_ *RouteGraph, err error) {
	defer obs.Time(ctx, "planner.Graph")(&err)

	edges, err := p.Edges.ListEdges(ctx)
	if err != nil {
		return nil, fmt.Errorf("trip planner: list edges: %w", err)
	}

	g, err := BuildRouteGraph(edges)
	if err != nil {
		return nil, fmt.Errorf("trip planner: %w", err)
	}
	return g, nil
}

// Route resolves the shortest path between two locations.
func (p *TripPlanner) Route(ctx context.Context, source, destination string) (Route, error) {
	src, dst, err := normalizeEndpoints(source, destination)
	if err != nil {
		return Route{}, err
	}

	g, err := p.Graph(ctx)
	if err != nil {
		return Route{}, err
	}

	return g.ShortestPath(src, dst)
}

// Quote computes the route and a price per active vehicle.
func (p *TripPlanner) Quote(ctx context.Context, source, destination string) (_ domain.Quote, err error) {
	defer obs.Time(ctx, "planner.Quote")(&err)

	src, dst, err := normalizeEndpoints(source, destination)
	if err != nil {
		return domain.Quote{}, err
	}

	g, err := p.Graph(ctx)
	if err != nil {
		return domain.Quote{}, err
	}

	vehicles, err := p.Fleet.ListActiveVehicles(ctx)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("trip planner: list active vehicles: %w", err)
	}

	return QuoteTrip(g, src, dst, vehicles)
}

// Sources lists every known location.
func (p *TripPlanner) Sources(ctx context.Context) ([]domain.Location, error) {
	g, err := p.Graph(ctx)
	if err != nil {
		return nil, err
	}
	return g.AllNodes(), nil
}

// Destinations lists every location truly reachable from source.
func (p *TripPlanner) Destinations(ctx context.Context, source string) ([]domain.Location, error) {
	g, err := p.Graph(ctx)
	if err != nil {
		return nil, err
	}

	src := domain.NormalizeLocation(source)
	if !g.HasNode(src) {
		return nil, fmt.Errorf("destinations: %w: %q", domain.ErrUnknownLocation, src)
	}
	return slices.Collect(g.ReachableFrom(src)), nil
}
