package main

import (
	"context"
	"sync"
	"time"
)

// FrameClock supplies render ticks to a traversal
type FrameClock interface {
	Now() time.Time
	// Frames delivers tick timestamps until ctx is done, then closes.
	Frames(ctx context.Context) <-chan time.Time
}

type tickerClock struct {
	interval time.Duration
}

// NewTickerClock returns a wall clock that ticks every interval
func NewTickerClock(interval time.Duration) FrameClock {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return tickerClock{interval: interval}
}

func (c tickerClock) Now() time.Time {
	return time.Now()
}

func (c tickerClock) Frames(ctx context.Context) <-chan time.Time {
	frames := make(chan time.Time)
	go func() {
		defer close(frames)
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				select {
				case frames <- now:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return frames
}

// Traversal is one in-flight walk of the entity along a route
type Traversal struct {
	done   chan struct{}
	cancel context.CancelFunc
	err    error
}

// Done is closed once the walk finishes or is cancelled
func (t *Traversal) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the walk ends. It returns nil when the last segment
// was reached and the context error when cancelled.
func (t *Traversal) Wait() error {
	<-t.done
	return t.err
}

// Motion moves the single entity along routes one segment at a time.
// At most one traversal drives the entity; starting a new one, placing the
// entity or calling Cancel stops the previous walk and waits for it.
type Motion struct {
	clock    FrameClock
	renderer EntityRenderer

	mu     sync.Mutex
	pos    Point
	active *Traversal
}

func NewMotion(clock FrameClock, renderer EntityRenderer) *Motion {
	return &Motion{clock: clock, renderer: renderer}
}

// Position returns where the entity currently is
func (m *Motion) Position() Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pos
}

// Place jumps the entity to p
func (m *Motion) Place(p Point) {
	m.Cancel()
	m.setPosition(p)
}

// Cancel stops the active traversal, if any, and waits for it to exit
func (m *Motion) Cancel() {
	m.mu.Lock()
	tr := m.active
	m.active = nil
	m.mu.Unlock()

	if tr != nil {
		tr.cancel()
		<-tr.done
	}
}

// Traverse walks the entity from its current position through every
// waypoint after route[0], interpolating linearly for segment per hop.
// Waypoints positionOf cannot resolve are skipped.
func (m *Motion) Traverse(ctx context.Context, route Route, positionOf func(id string) (Point, bool), segment time.Duration) *Traversal {
	m.Cancel()

	ctx, cancel := context.WithCancel(ctx)
	tr := &Traversal{done: make(chan struct{}), cancel: cancel}

	m.mu.Lock()
	m.active = tr
	m.mu.Unlock()

	go func() {
		defer cancel()
		tr.err = m.walk(ctx, route, positionOf, segment)

		result := "completed"
		if tr.err != nil {
			result = "cancelled"
		}
		traversalsTotal.WithLabelValues(result).Inc()

		m.mu.Lock()
		if m.active == tr {
			m.active = nil
		}
		m.mu.Unlock()
		close(tr.done)
	}()

	return tr
}

func (m *Motion) walk(ctx context.Context, route Route, positionOf func(id string) (Point, bool), segment time.Duration) error {
	if len(route) < 2 {
		return ctx.Err()
	}

	frames := m.clock.Frames(ctx)
	segmentStart := m.clock.Now()
	from := m.Position()

	for _, id := range route[1:] {
		target, ok := positionOf(id)
		if !ok {
			continue
		}

		end, err := m.animate(ctx, frames, from, target, segmentStart, segment)
		if err != nil {
			return err
		}
		from = target
		segmentStart = end
	}
	return nil
}

// animate interpolates one segment, sampling once per frame. It returns
// the timestamp of the frame on which the segment finished.
func (m *Motion) animate(ctx context.Context, frames <-chan time.Time, from, target Point, start time.Time, duration time.Duration) (time.Time, error) {
	for {
		select {
		case <-ctx.Done():
			return time.Time{}, ctx.Err()
		case now, ok := <-frames:
			if !ok {
				return time.Time{}, context.Canceled
			}

			t := 1.0
			if duration > 0 {
				t = clamp(float64(now.Sub(start))/float64(duration), 0, 1)
			}
			m.setPosition(from.Lerp(target, t))

			if t >= 1 {
				return now, nil
			}
		}
	}
}

func (m *Motion) setPosition(p Point) {
	m.mu.Lock()
	m.pos = p
	m.mu.Unlock()

	if m.renderer != nil {
		m.renderer.SetEntityPosition(p)
	}
}
