package main

// ElementRef identifies a rendered, selectable element on the floor plan
type ElementRef string

// Renderer is everything the navigation core asks of the drawing surface.
// Coordinates are floor plan percentages; converting them to pixels for the
// current surface size is the renderer's job. Implementations must be safe
// to call from a traversal goroutine while an event handler runs.
type Renderer interface {
	HighlightAsStart(el ElementRef)
	HighlightAsDestination(el ElementRef)
	ClearHighlights(el ElementRef)
	BlinkSynchronized(els []ElementRef)

	SetStartLabel(text string)
	SetDestinationLabel(text string)

	DrawRoute(points []Point)
	ClearRoute()

	SetEntityVisible(visible bool)
	SetEntityPosition(p Point)

	SetCommitAction(enabled bool, label string)
}

// EntityRenderer is the part of Renderer a traversal drives
type EntityRenderer interface {
	SetEntityPosition(p Point)
}
