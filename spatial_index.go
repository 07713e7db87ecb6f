package main

import (
	"math"

	"github.com/dhconnelly/rtreego"
)

// pointTolerance is the half-size of the box a location occupies in the tree
const pointTolerance = 0.01

// locationEntry wraps a location for R-tree storage
type locationEntry struct {
	Waypoint Waypoint
	BBox     rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *locationEntry) Bounds() rtreego.Rect {
	return e.BBox
}

// LocationIndex answers "which location is at this point" for clicks that
// arrive as floor plan coordinates rather than element ids
type LocationIndex struct {
	tree  *rtreego.Rtree
	count int
}

// NewLocationIndex creates a new spatial index over the selectable locations
func NewLocationIndex(locations []Waypoint) *LocationIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	for _, w := range locations {
		tree.Insert(&locationEntry{
			Waypoint: w,
			BBox:     rtreego.Point{w.X, w.Y}.ToRect(pointTolerance),
		})
	}

	return &LocationIndex{tree: tree, count: len(locations)}
}

// Len returns the number of indexed locations
func (li *LocationIndex) Len() int {
	return li.count
}

// LocationAt returns the location closest to p within radius. Ties go to
// the lexically smaller id so repeated clicks resolve the same way.
func (li *LocationIndex) LocationAt(p Point, radius float64) (Waypoint, bool) {
	if li == nil || li.count == 0 || radius <= 0 {
		return Waypoint{}, false
	}

	bbox, err := rtreego.NewRect(
		rtreego.Point{p.X - radius, p.Y - radius},
		[]float64{2 * radius, 2 * radius},
	)
	if err != nil {
		return Waypoint{}, false
	}

	var best Waypoint
	bestDist := math.Inf(1)
	found := false

	for _, item := range li.tree.SearchIntersect(bbox) {
		w := item.(*locationEntry).Waypoint
		d := p.Distance(w.Position())
		if d > radius {
			continue
		}
		if d < bestDist || (d == bestDist && w.ID < best.ID) {
			best, bestDist, found = w, d, true
		}
	}

	return best, found
}

// Nearest returns the closest location regardless of distance
func (li *LocationIndex) Nearest(p Point) (Waypoint, bool) {
	if li == nil || li.count == 0 {
		return Waypoint{}, false
	}
	item := li.tree.NearestNeighbor(rtreego.Point{p.X, p.Y})
	if item == nil {
		return Waypoint{}, false
	}
	return item.(*locationEntry).Waypoint, true
}
