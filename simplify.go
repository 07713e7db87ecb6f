package main

import (
	"github.com/paulmach/orb/simplify"
)

// SimplifyRoutePoints reduces a drawn route polyline with Douglas-Peucker.
// Runs of nearly collinear junctions collapse into one stroke; the first and
// last points are always kept. epsilon is in map percent, 0 disables.
// Only the drawing is simplified, traversal still visits every waypoint.
func SimplifyRoutePoints(points []Point, epsilon float64) []Point {
	if epsilon <= 0 || len(points) <= 2 {
		return points
	}

	ls := simplify.DouglasPeucker(epsilon).LineString(lineString(points))

	simplified := make([]Point, 0, len(ls))
	for _, p := range ls {
		simplified = append(simplified, pointFromOrb(p))
	}
	return simplified
}
