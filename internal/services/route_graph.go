package services

import (
	"cab-booking-service/internal/domain"
	"container/heap"
	"fmt"
	"iter"
	"slices"
)

// Route is a computed path between two locations and its summed travel time.
type Route struct {
	Path          []domain.Location
	TotalDuration int
}

// RouteGraph is a directed graph of locations weighted by travel minutes.
//
// A graph is built fresh from the edge source for every query and never
// mutated afterwards, so concurrent readers need no locking.
type RouteGraph struct {
	weights   map[domain.Location]map[domain.Location]int
	neighbors map[domain.Location][]domain.Location
	nodes     []domain.Location
}

// BuildRouteGraph constructs the adjacency structure from edges.
// Endpoints are normalized before validation. Two edges sharing the same
// ordered (from, to) pair are rejected with ErrDuplicateEdge.
func BuildRouteGraph(edges []domain.RouteEdge) (*RouteGraph, error) {
	g := &RouteGraph{
		weights:   make(map[domain.Location]map[domain.Location]int),
		neighbors: make(map[domain.Location][]domain.Location),
	}

	seen := make(map[domain.Location]struct{})
	for i, e := range edges {
		e.From = domain.NormalizeLocation(string(e.From))
		e.To = domain.NormalizeLocation(string(e.To))
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("build route graph: edge #%d: %w", i+1, err)
		}

		out, ok := g.weights[e.From]
		if !ok {
			out = make(map[domain.Location]int)
			g.weights[e.From] = out
		}
		if _, dup := out[e.To]; dup {
			return nil, fmt.Errorf("build route graph: edge #%d: %w: %s -> %s", i+1, domain.ErrDuplicateEdge, e.From, e.To)
		}
		out[e.To] = e.DurationMinutes
		g.neighbors[e.From] = append(g.neighbors[e.From], e.To)

		for _, n := range []domain.Location{e.From, e.To} {
			if _, ok := seen[n]; !ok {
				seen[n] = struct{}{}
				g.nodes = append(g.nodes, n)
			}
		}
	}

	// Sorted neighbor lists make relaxation order independent of map iteration.
	for from := range g.neighbors {
		slices.Sort(g.neighbors[from])
	}
	slices.Sort(g.nodes)

	return g, nil
}

// HasNode reports whether loc appears in any edge.
func (g *RouteGraph) HasNode(loc domain.Location) bool {
	_, ok := slices.BinarySearch(g.nodes, domain.NormalizeLocation(string(loc)))
	return ok
}

// AllNodes returns every location appearing in any edge, lexicographically ordered.
func (g *RouteGraph) AllNodes() []domain.Location {
	return slices.Clone(g.nodes)
}

// Weight returns the duration of the edge from -> to, if present.
func (g *RouteGraph) Weight(from, to domain.Location) (int, bool) {
	w, ok := g.weights[from][to]
	return w, ok
}

// ShortestPath runs Dijkstra from source and returns the cheapest-time path to
// destination, both endpoints included.
//
// Ties are resolved by a min-heap keyed on (distance, insertion order) with
// neighbors relaxed in lexicographic order, so identical input always yields
// the same path. The caller guarantees source != destination.
func (g *RouteGraph) ShortestPath(source, destination domain.Location) (Route, error) {
	source = domain.NormalizeLocation(string(source))
	destination = domain.NormalizeLocation(string(destination))

	if !g.HasNode(source) {
		return Route{}, fmt.Errorf("shortest path: %w: %q", domain.ErrUnknownLocation, source)
	}

	dist := map[domain.Location]int{source: 0}
	prev := make(map[domain.Location]domain.Location)
	settled := make(map[domain.Location]bool)

	pq := &distanceQueue{}
	seq := 0
	heap.Push(pq, queueItem{node: source, dist: 0, seq: seq})

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(queueItem)
		if settled[cur.node] {
			continue
		}
		settled[cur.node] = true

		if cur.node == destination {
			break
		}

		for _, next := range g.neighbors[cur.node] {
			if settled[next] {
				continue
			}
			cand := cur.dist + g.weights[cur.node][next]
			if d, ok := dist[next]; ok && cand >= d {
				continue
			}
			dist[next] = cand
			prev[next] = cur.node
			seq++
			heap.Push(pq, queueItem{node: next, dist: cand, seq: seq})
		}
	}

	if !settled[destination] {
		return Route{}, fmt.Errorf(
			"shortest path: %w: no path from %q to %q",
			domain.ErrUnreachableDestination, source, destination,
		)
	}

	path := []domain.Location{destination}
	for at := destination; at != source; {
		at = prev[at]
		path = append(path, at)
	}
	slices.Reverse(path)

	return Route{Path: path, TotalDuration: dist[destination]}, nil
}

// ReachableFrom yields, in lexicographic order, every location reachable from
// source by a path of positive weight. The source itself is not yielded.
// The sequence is lazy and restartable: each range recomputes the set.
// An unknown source yields nothing.
func (g *RouteGraph) ReachableFrom(source domain.Location) iter.Seq[domain.Location] {
	source = domain.NormalizeLocation(string(source))
	return func(yield func(domain.Location) bool) {
		if !g.HasNode(source) {
			return
		}

		visited := map[domain.Location]bool{source: true}
		stack := []domain.Location{source}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, next := range g.neighbors[cur] {
				if !visited[next] {
					visited[next] = true
					stack = append(stack, next)
				}
			}
		}

		for _, n := range g.nodes {
			if n == source || !visited[n] {
				continue
			}
			if !yield(n) {
				return
			}
		}
	}
}

type queueItem struct {
	node domain.Location
	dist int
	seq  int
}

// distanceQueue implements heap.Interface ordered by (dist, seq).
type distanceQueue []queueItem

func (q distanceQueue) Len() int { return len(q) }

func (q distanceQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].seq < q[j].seq
}

func (q distanceQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *distanceQueue) Push(x any) { *q = append(*q, x.(queueItem)) }

func (q *distanceQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
