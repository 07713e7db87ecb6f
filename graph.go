package main

import (
	"fmt"
	"log"
	"sort"
)

// Waypoint is a point on the floor plan. X and Y are percentages of the
// plan's width and height.
type Waypoint struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Position returns the waypoint's coordinates
func (w Waypoint) Position() Point {
	return Point{X: w.X, Y: w.Y}
}

// Edge is an undirected walkable connection between two waypoints
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// GraphIndex holds the immutable routing graph built from a map dataset.
// Locations are selectable waypoints, junctions only exist for routing.
type GraphIndex struct {
	locations map[string]Point
	junctions map[string]Point

	// locationOrder keeps declaration order for listings
	locationOrder []Waypoint

	adjacency map[string][]string
	edges     []Edge
}

// BuildGraphIndex folds every edge into the adjacency map twice, once per
// endpoint, preserving declaration order. Duplicate waypoint ids keep their
// first declaration; repeated neighbors are folded once.
func BuildGraphIndex(locations, junctions []Waypoint, edges []Edge) *GraphIndex {
	g := &GraphIndex{
		locations: make(map[string]Point, len(locations)),
		junctions: make(map[string]Point, len(junctions)),
		adjacency: make(map[string][]string),
	}

	for _, w := range locations {
		if _, dup := g.locations[w.ID]; dup {
			log.Printf("⚠️  Duplicate location %q ignored\n", w.ID)
			continue
		}
		g.locations[w.ID] = w.Position()
		g.locationOrder = append(g.locationOrder, w)
	}
	for _, w := range junctions {
		if _, dup := g.junctions[w.ID]; dup {
			log.Printf("⚠️  Duplicate junction %q ignored\n", w.ID)
			continue
		}
		g.junctions[w.ID] = w.Position()
	}

	for _, e := range edges {
		g.link(e.From, e.To)
		g.link(e.To, e.From)
		g.edges = append(g.edges, e)
	}

	return g
}

func (g *GraphIndex) link(from, to string) {
	for _, existing := range g.adjacency[from] {
		if existing == to {
			return
		}
	}
	g.adjacency[from] = append(g.adjacency[from], to)
}

// PositionOf looks an id up in the locations first, then the junctions.
// A miss is logged and reported through ok; callers skip the waypoint.
func (g *GraphIndex) PositionOf(id string) (Point, bool) {
	if p, ok := g.locations[id]; ok {
		return p, true
	}
	if p, ok := g.junctions[id]; ok {
		return p, true
	}
	log.Printf("⚠️  No coordinates for waypoint %q\n", id)
	positionMisses.Inc()
	return Point{}, false
}

// Lookup is PositionOf with an error instead of a flag
func (g *GraphIndex) Lookup(id string) (Point, error) {
	p, ok := g.PositionOf(id)
	if !ok {
		return Point{}, fmt.Errorf("%w: %s", ErrWaypointNotFound, id)
	}
	return p, nil
}

// NeighborsOf returns the ids directly connected to id in declaration
// order. An id without edges yields an empty, non-nil slice.
func (g *GraphIndex) NeighborsOf(id string) []string {
	neighbors := g.adjacency[id]
	out := make([]string, len(neighbors))
	copy(out, neighbors)
	return out
}

// HasNode reports whether id takes part in at least one edge
func (g *GraphIndex) HasNode(id string) bool {
	_, ok := g.adjacency[id]
	return ok
}

// IsLocation reports whether id names a selectable location
func (g *GraphIndex) IsLocation(id string) bool {
	_, ok := g.locations[id]
	return ok
}

// Locations returns the selectable waypoints in declaration order
func (g *GraphIndex) Locations() []Waypoint {
	out := make([]Waypoint, len(g.locationOrder))
	copy(out, g.locationOrder)
	return out
}

// Stats returns location, junction and edge counts
func (g *GraphIndex) Stats() (locations, junctions, edges int) {
	return len(g.locations), len(g.junctions), len(g.edges)
}

// Points resolves a route to coordinates, omitting ids without coordinates
func (g *GraphIndex) Points(route Route) []Point {
	points := make([]Point, 0, len(route))
	for _, id := range route {
		if p, ok := g.PositionOf(id); ok {
			points = append(points, p)
		}
	}
	return points
}

// EdgeSegments returns each undirected edge once as a two-point segment,
// for drawing the routing graph. Edges touching unknown ids are left out.
func (g *GraphIndex) EdgeSegments() [][]Point {
	lines := make([][]Point, 0, len(g.edges))

	// Use a map to avoid duplicate edges (since edges are bidirectional)
	seen := make(map[string]bool)

	for _, e := range g.edges {
		pair := []string{e.From, e.To}
		sort.Strings(pair)
		key := pair[0] + "\x00" + pair[1]
		if seen[key] {
			continue
		}
		seen[key] = true

		from, okFrom := g.PositionOf(e.From)
		to, okTo := g.PositionOf(e.To)
		if !okFrom || !okTo {
			continue
		}
		lines = append(lines, []Point{from, to})
	}

	return lines
}
