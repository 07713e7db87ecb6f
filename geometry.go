package main

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	return planar.Distance(p.orb(), other.orb())
}

// Lerp returns the point a fraction t of the way from p towards target.
// t is clamped to [0, 1]; at t == 1 the target is returned exactly.
func (p Point) Lerp(target Point, t float64) Point {
	t = clamp(t, 0, 1)
	if t == 1 {
		return target
	}
	return Point{
		X: p.X + (target.X-p.X)*t,
		Y: p.Y + (target.Y-p.Y)*t,
	}
}

// InPercentRange reports whether the point lies on the floor plan surface
func (p Point) InPercentRange() bool {
	return p.X >= 0 && p.X <= 100 && p.Y >= 0 && p.Y <= 100
}

func (p Point) orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

func pointFromOrb(o orb.Point) Point {
	return Point{X: o.X(), Y: o.Y()}
}

// lineString converts an ordered list of points into an orb line string
func lineString(points []Point) orb.LineString {
	ls := make(orb.LineString, 0, len(points))
	for _, p := range points {
		ls = append(ls, p.orb())
	}
	return ls
}

// PolylineLength sums the straight-line lengths of consecutive points
func PolylineLength(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}
	return planar.Length(lineString(points))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
