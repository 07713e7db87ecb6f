package main

import (
	"context"
	"slices"
	"sync"
	"time"
)

// renderState is what a recordingRenderer has been told so far
type renderState struct {
	calls      []string
	highlights map[ElementRef]string
	blinking   []ElementRef

	startLabel       string
	destinationLabel string

	route      []Point
	routeDrawn bool

	visible   bool
	positions []Point

	commitEnabled bool
	commitLabel   string
}

// recordingRenderer keeps the latest visual state and every entity position
type recordingRenderer struct {
	mu sync.Mutex
	renderState
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{renderState: renderState{highlights: make(map[ElementRef]string)}}
}

func (r *recordingRenderer) record(call string) {
	r.calls = append(r.calls, call)
}

func (r *recordingRenderer) HighlightAsStart(el ElementRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("highlightStart")
	r.highlights[el] = "start"
}

func (r *recordingRenderer) HighlightAsDestination(el ElementRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("highlightDestination")
	r.highlights[el] = "destination"
}

func (r *recordingRenderer) ClearHighlights(el ElementRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("clearHighlights")
	delete(r.highlights, el)
	r.blinking = slices.DeleteFunc(r.blinking, func(b ElementRef) bool { return b == el })
}

func (r *recordingRenderer) BlinkSynchronized(els []ElementRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("blink")
	r.blinking = slices.Clone(els)
}

func (r *recordingRenderer) SetStartLabel(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("startLabel")
	r.startLabel = text
}

func (r *recordingRenderer) SetDestinationLabel(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("destinationLabel")
	r.destinationLabel = text
}

func (r *recordingRenderer) DrawRoute(points []Point) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("drawRoute")
	r.route = slices.Clone(points)
	r.routeDrawn = true
}

func (r *recordingRenderer) ClearRoute() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("clearRoute")
	r.route = nil
	r.routeDrawn = false
}

func (r *recordingRenderer) SetEntityVisible(visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("entityVisible")
	r.visible = visible
}

func (r *recordingRenderer) SetEntityPosition(p Point) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.positions = append(r.positions, p)
}

func (r *recordingRenderer) SetCommitAction(enabled bool, label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("commitAction")
	r.commitEnabled = enabled
	r.commitLabel = label
}

func (r *recordingRenderer) snapshot() renderState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return renderState{
		calls:            slices.Clone(r.calls),
		highlights:       cloneHighlights(r.highlights),
		blinking:         slices.Clone(r.blinking),
		startLabel:       r.startLabel,
		destinationLabel: r.destinationLabel,
		route:            slices.Clone(r.route),
		routeDrawn:       r.routeDrawn,
		visible:          r.visible,
		positions:        slices.Clone(r.positions),
		commitEnabled:    r.commitEnabled,
		commitLabel:      r.commitLabel,
	}
}

func (r *recordingRenderer) resetPositions() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.positions = nil
}

func cloneHighlights(in map[ElementRef]string) map[ElementRef]string {
	out := make(map[ElementRef]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// virtualClock emits frames step apart starting one step after base,
// as fast as the consumer reads them
type virtualClock struct {
	base time.Time
	step time.Duration
}

func newVirtualClock(step time.Duration) virtualClock {
	return virtualClock{base: time.Unix(1_700_000_000, 0), step: step}
}

func (c virtualClock) Now() time.Time {
	return c.base
}

func (c virtualClock) Frames(ctx context.Context) <-chan time.Time {
	frames := make(chan time.Time)
	go func() {
		defer close(frames)
		for k := 1; ; k++ {
			select {
			case frames <- c.base.Add(time.Duration(k) * c.step):
			case <-ctx.Done():
				return
			}
		}
	}()
	return frames
}

// stalledClock never ticks, so traversals stay in flight until cancelled
type stalledClock struct{}

func (stalledClock) Now() time.Time {
	return time.Unix(1_700_000_000, 0)
}

func (stalledClock) Frames(ctx context.Context) <-chan time.Time {
	frames := make(chan time.Time)
	go func() {
		<-ctx.Done()
		close(frames)
	}()
	return frames
}

// fixtureGraph is the floor in testdata/map-floor1.json:
//
//	A(10,10) - B(40,10) - C(70,10)
//	                        |
//	                      D(70,40)
//	                        |
//	                      E(70,70)      F(90,90) isolated
func fixtureGraph() *GraphIndex {
	return BuildGraphIndex(
		[]Waypoint{{ID: "A", X: 10, Y: 10}, {ID: "C", X: 70, Y: 10}, {ID: "E", X: 70, Y: 70}, {ID: "F", X: 90, Y: 90}},
		[]Waypoint{{ID: "B", X: 40, Y: 10}, {ID: "D", X: 70, Y: 40}},
		[]Edge{{From: "A", To: "B"}, {From: "B", To: "C"}, {From: "C", To: "D"}, {From: "D", To: "E"}},
	)
}
