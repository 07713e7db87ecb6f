package main

import "slices"

// SelectionPhase is where the user is in choosing a start/destination pair
type SelectionPhase int

const (
	Idle SelectionPhase = iota
	StartPicked
	Complete
)

func (p SelectionPhase) String() string {
	switch p {
	case Idle:
		return "idle"
	case StartPicked:
		return "start_picked"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Transition names what a pick did to the selection
type Transition string

const (
	TransitionStart       Transition = "start"
	TransitionDestination Transition = "destination"
	TransitionDeselect    Transition = "deselect"
	TransitionRestart     Transition = "restart"
	TransitionIgnored     Transition = "ignored"
)

// SelectionState is the current start/destination pair. Picked mirrors the
// chosen elements in pick order so their highlights can be cleaned up.
type SelectionState struct {
	Start       string       `json:"start,omitempty"`
	Destination string       `json:"destination,omitempty"`
	Picked      []ElementRef `json:"picked,omitempty"`
}

// Phase derives the selection phase. Destination is never set without Start.
func (s SelectionState) Phase() SelectionPhase {
	switch {
	case s.Start == "":
		return Idle
	case s.Destination == "":
		return StartPicked
	default:
		return Complete
	}
}

// SelectionHooks connect the selection to the entity it moves around
type SelectionHooks struct {
	// Halt stops any traversal in flight. Called before visual state is cleared.
	Halt func()
	// Place puts the entity on the waypoint and shows it.
	Place func(id string)
}

// Selection turns successive location picks into a start/destination pair
// and keeps the renderer's highlights, labels and commit action in step.
// It is not safe for concurrent use; the owning session serializes events.
type Selection struct {
	renderer Renderer
	labels   Labels
	hooks    SelectionHooks
	state    SelectionState
}

func NewSelection(renderer Renderer, labels Labels, hooks SelectionHooks) *Selection {
	return &Selection{
		renderer: renderer,
		labels:   labels.withDefaults(),
		hooks:    hooks,
	}
}

// State returns a copy of the current selection
func (s *Selection) State() SelectionState {
	state := s.state
	state.Picked = slices.Clone(s.state.Picked)
	return state
}

// Phase returns the current selection phase
func (s *Selection) Phase() SelectionPhase {
	return s.state.Phase()
}

// Render pushes labels and the commit action for the current state
func (s *Selection) Render() {
	s.renderer.SetStartLabel(s.labelOr(s.state.Start))
	s.renderer.SetDestinationLabel(s.labelOr(s.state.Destination))
	s.refreshCommit()
}

// Pick handles a click on a selectable element.
//
// Locations are matched by id, so the same location picked through a
// different element still counts as the same pick. Picking the lone start
// again deselects it. Picking anything while both ends are chosen clears
// the pair and starts a new one with this pick. Otherwise the pick fills
// the start, then the destination; picking a location that is already
// chosen does nothing.
func (s *Selection) Pick(el ElementRef, id string) Transition {
	if s.state.Phase() == StartPicked && id == s.state.Start {
		s.deselectStart(s.state.Picked[0])
		return TransitionDeselect
	}

	restarted := false
	if s.state.Phase() == Complete {
		s.Reset()
		restarted = true
	}

	if id == s.state.Start || id == s.state.Destination {
		return TransitionIgnored
	}

	transition := TransitionIgnored
	switch {
	case s.state.Start == "":
		s.renderer.HighlightAsStart(el)
		s.state.Start = id
		s.renderer.SetStartLabel(id)
		if s.hooks.Place != nil {
			s.hooks.Place(id)
		}
		transition = TransitionStart
		if restarted {
			transition = TransitionRestart
		}

	case s.state.Destination == "":
		s.renderer.HighlightAsDestination(el)
		s.state.Destination = id
		s.renderer.SetDestinationLabel(id)

		blinking := append(slices.Clone(s.state.Picked), el)
		s.renderer.BlinkSynchronized(blinking)
		transition = TransitionDestination
	}

	s.state.Picked = append(s.state.Picked, el)
	s.refreshCommit()
	return transition
}

// Reset clears both ends, every highlight, the drawn route and the entity
func (s *Selection) Reset() {
	s.halt()

	for _, el := range s.state.Picked {
		s.renderer.ClearHighlights(el)
	}
	s.state = SelectionState{}

	s.renderer.SetStartLabel(s.labels.Placeholder)
	s.renderer.SetDestinationLabel(s.labels.Placeholder)
	s.renderer.ClearRoute()
	s.renderer.SetEntityVisible(false)

	s.refreshCommit()
}

func (s *Selection) deselectStart(el ElementRef) {
	s.halt()

	s.renderer.ClearHighlights(el)
	s.state = SelectionState{}

	s.renderer.SetStartLabel(s.labels.Placeholder)
	s.renderer.SetDestinationLabel(s.labels.Placeholder)
	s.renderer.ClearRoute()
	s.renderer.SetEntityVisible(false)

	s.refreshCommit()
}

// CommitStatus says whether navigation can start and what the control reads
func (s *Selection) CommitStatus() (enabled bool, label string) {
	switch s.state.Phase() {
	case Idle:
		return false, s.labels.ChooseStart
	case StartPicked:
		return false, s.labels.ChooseDestination
	default:
		return true, s.labels.Navigate
	}
}

func (s *Selection) refreshCommit() {
	enabled, label := s.CommitStatus()
	s.renderer.SetCommitAction(enabled, label)
}

func (s *Selection) halt() {
	if s.hooks.Halt != nil {
		s.hooks.Halt()
	}
}

func (s *Selection) labelOr(text string) string {
	if text == "" {
		return s.labels.Placeholder
	}
	return text
}
