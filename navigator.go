package main

import (
	"context"
	"log"
	"sync"
	"time"
)

// NavigatorOptions tune a navigation session
type NavigatorOptions struct {
	Segment         time.Duration
	Labels          Labels
	PickRadius      float64
	SimplifyEpsilon float64
}

// DefaultNavigatorOptions derives session options from the configuration
func DefaultNavigatorOptions(cfg *Config) NavigatorOptions {
	return NavigatorOptions{
		Segment:         cfg.SegmentDuration(),
		Labels:          cfg.Labels,
		PickRadius:      cfg.Pick.Radius,
		SimplifyEpsilon: cfg.Route.SimplifyEpsilon,
	}
}

// Navigator is one user's navigation session: it owns the selection, the
// moving entity and the current route, and serializes every event that
// touches them.
type Navigator struct {
	mu sync.Mutex

	graph     *GraphIndex
	locations *LocationIndex
	renderer  Renderer
	opts      NavigatorOptions

	selection *Selection
	motion    *Motion

	route Route
}

func NewNavigator(graph *GraphIndex, locations *LocationIndex, renderer Renderer, clock FrameClock, opts NavigatorOptions) *Navigator {
	if opts.Segment <= 0 {
		opts.Segment = DefaultSegmentDuration
	}
	n := &Navigator{
		graph:     graph,
		locations: locations,
		renderer:  renderer,
		opts:      opts,
		motion:    NewMotion(clock, renderer),
	}
	n.selection = NewSelection(renderer, opts.Labels, SelectionHooks{
		Halt:  n.halt,
		Place: n.placeAt,
	})
	return n
}

// Start pushes the initial labels, commit action and hidden entity
func (n *Navigator) Start() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.selection.Render()
	n.renderer.SetEntityVisible(false)
}

// Pick handles a click on a selectable location element
func (n *Navigator) Pick(el ElementRef, id string) Transition {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.graph.IsLocation(id) {
		log.Printf("⚠️  Ignoring pick of unknown location %q\n", id)
		picksTotal.WithLabelValues(string(TransitionIgnored)).Inc()
		return TransitionIgnored
	}

	transition := n.selection.Pick(el, id)
	picksTotal.WithLabelValues(string(transition)).Inc()
	return transition
}

// PickAt resolves a floor plan coordinate to the nearest location within
// the pick radius and picks it. ok is false when nothing is close enough.
func (n *Navigator) PickAt(p Point) (transition Transition, ok bool) {
	w, found := n.locations.LocationAt(p, n.opts.PickRadius)
	if !found {
		return TransitionIgnored, false
	}
	return n.Pick(ElementRef(w.ID), w.ID), true
}

// Navigate computes the route between the chosen ends, draws it and starts
// walking the entity along it. It does nothing unless both ends are set.
// The returned traversal is nil when no motion was started.
func (n *Navigator) Navigate(ctx context.Context) (*Traversal, Route) {
	n.mu.Lock()
	defer n.mu.Unlock()

	state := n.selection.State()
	if state.Phase() != Complete {
		return nil, nil
	}

	route := ShortestPath(n.graph, state.Start, state.Destination)
	recordRoute(route)

	if len(route) == 0 {
		log.Printf("⚠️  No route from %s to %s\n", state.Start, state.Destination)
		n.halt()
		n.route = route
		n.renderer.ClearRoute()
		return nil, route
	}
	n.route = route

	n.renderer.SetEntityVisible(false)
	if start, ok := n.graph.PositionOf(state.Start); ok {
		n.motion.Place(start)
	} else {
		n.motion.Cancel()
	}

	points := n.graph.Points(route)
	n.renderer.DrawRoute(SimplifyRoutePoints(points, n.opts.SimplifyEpsilon))

	n.renderer.SetEntityVisible(true)
	return n.motion.Traverse(ctx, route, n.graph.PositionOf, n.opts.Segment), route
}

// State returns the current selection
func (n *Navigator) State() SelectionState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.selection.State()
}

// Route returns the most recently computed route
func (n *Navigator) Route() Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append(Route(nil), n.route...)
}

// EntityPosition returns where the entity currently is
func (n *Navigator) EntityPosition() Point {
	return n.motion.Position()
}

// Close stops any traversal in flight
func (n *Navigator) Close() {
	n.motion.Cancel()
}

// halt runs with n.mu held
func (n *Navigator) halt() {
	n.motion.Cancel()
	n.route = nil
}

// placeAt runs with n.mu held
func (n *Navigator) placeAt(id string) {
	p, ok := n.graph.PositionOf(id)
	if !ok {
		return
	}
	n.motion.Place(p)
	n.renderer.SetEntityVisible(true)
}
