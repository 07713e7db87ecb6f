package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// routesTotal counts route computations by outcome
	routesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "floornav_routes_total",
		Help: "Route computations by result (found, trivial, unreachable)",
	}, []string{"result"})

	// routeHops tracks the length of found routes
	routeHops = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "floornav_route_hops",
		Help:    "Number of hops in found routes",
		Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
	})

	// traversalsTotal counts entity walks by how they ended
	traversalsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "floornav_traversals_total",
		Help: "Entity traversals by result (completed, cancelled)",
	}, []string{"result"})

	// picksTotal counts location picks by the transition they caused
	picksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "floornav_picks_total",
		Help: "Location picks by resulting transition",
	}, []string{"transition"})

	positionMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "floornav_position_lookup_misses_total",
		Help: "Waypoint ids looked up without known coordinates",
	})

	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "floornav_sessions_active",
		Help: "Open WebSocket navigation sessions",
	})
)

func recordRoute(route Route) {
	switch {
	case len(route) == 0:
		routesTotal.WithLabelValues("unreachable").Inc()
	case len(route) == 1:
		routesTotal.WithLabelValues("trivial").Inc()
	default:
		routesTotal.WithLabelValues("found").Inc()
		routeHops.Observe(float64(route.Hops()))
	}
}
