// Package session implements the interaction state machine that turns raw
// canvas clicks into a named, saved polygon.
package session

import (
	"context"
	"errors"
	"sync"

	"zone-marker/internal/api"
	"zone-marker/internal/app"
	"zone-marker/internal/draft"
	"zone-marker/internal/polygon"
	"zone-marker/pkg/geometry"
)

// State identifies the current interaction mode.
type State int

const (
	// StateIdle is the initial state; clicks are ignored.
	StateIdle State = iota
	// StateDrawing accumulates one point per click. "Ready to save" is not a
	// separate state but the derived predicate draft.CanSave.
	StateDrawing
	// StateNaming means the save dialog is open on the just-finished draft.
	StateNaming
)

// Remote is the subset of the sync controller the session needs.
type Remote interface {
	Loading() bool
	CreatePolygon(ctx context.Context, name string, points [][2]float64) error
}

// Session owns the draft and drives the Idle -> Drawing -> Naming cycle.
// Remote calls run off the UI goroutine, so transitions are locked.
type Session struct {
	mu     sync.Mutex
	state  State
	draft  *draft.Draft
	remote Remote
	events *app.Events
}

// New creates a session in the Idle state with an empty draft.
func New(remote Remote, events *app.Events) *Session {
	return &Session{
		state:  StateIdle,
		draft:  draft.New(),
		remote: remote,
		events: events,
	}
}

// State returns the current interaction state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// DraftPoints returns a snapshot of the draft point sequence.
func (s *Session) DraftPoints() []geometry.Point2D {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Points()
}

// CanShowSaveAffordance reports whether the save control should be visible.
func (s *Session) CanShowSaveAffordance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != StateIdle && s.draft.CanShowSaveAffordance()
}

// CanSave reports whether the draft is savable.
func (s *Session) CanSave() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != StateIdle && s.draft.CanSave()
}

// StartDrawing begins a drawing session with a cleared draft. It is a no-op
// while a remote call is in flight or a session is already active.
func (s *Session) StartDrawing() bool {
	if s.remote.Loading() {
		return false
	}

	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return false
	}
	s.state = StateDrawing
	s.draft.Reset()
	s.mu.Unlock()

	s.events.Emit(app.EventDraftChanged, nil)
	return true
}

// HandleClick appends a canvas-local point to the draft. Clicks outside the
// Drawing state are ignored.
func (s *Session) HandleClick(p geometry.Point2D) {
	s.mu.Lock()
	if s.state != StateDrawing {
		s.mu.Unlock()
		return
	}
	s.draft.AddPoint(p)
	s.mu.Unlock()

	s.events.Emit(app.EventDraftChanged, nil)
}

// CancelDrawing discards the draft unconditionally and returns to Idle.
func (s *Session) CancelDrawing() {
	s.mu.Lock()
	if s.state == StateIdle {
		s.mu.Unlock()
		return
	}
	s.state = StateIdle
	s.draft.Reset()
	s.mu.Unlock()

	s.events.Emit(app.EventDraftChanged, nil)
}

// RequestSave opens the naming step. Only actionable when drawing, not
// loading, and the draft is savable.
func (s *Session) RequestSave() bool {
	if s.remote.Loading() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateDrawing || !s.draft.CanSave() {
		return false
	}
	s.state = StateNaming
	return true
}

// ConfirmSave submits the draft under the given name.
//
// Outcomes:
//   - success: draft cleared, back to Idle.
//   - duplicate name or client-side validation failure: the session stays in
//     Naming with the draft intact so the user can correct the name.
//   - any other failure: draft discarded, back to Idle. The drawn points are
//     lost; the notification plus authoritative refetch leave the user with a
//     consistent canvas to restart from.
func (s *Session) ConfirmSave(ctx context.Context, name string) error {
	s.mu.Lock()
	if s.state != StateNaming {
		s.mu.Unlock()
		return errors.New("no save pending")
	}
	points := s.draft.WirePoints()
	s.mu.Unlock()

	err := s.remote.CreatePolygon(ctx, name, points)

	s.mu.Lock()
	switch {
	case err == nil:
		s.state = StateIdle
		s.draft.Reset()
	case errors.Is(err, api.ErrDuplicateName),
		errors.Is(err, polygon.ErrEmptyName),
		errors.Is(err, polygon.ErrNameTooLong),
		errors.Is(err, polygon.ErrTooFewPoints):
		// Keep the draft and the naming step alive for a retry.
	default:
		s.state = StateIdle
		s.draft.Reset()
	}
	s.mu.Unlock()

	s.events.Emit(app.EventDraftChanged, nil)
	return err
}

// CancelNaming closes the naming step and returns to Drawing with the draft
// retained, so the user can keep adding points or cancel outright.
func (s *Session) CancelNaming() {
	s.mu.Lock()
	if s.state == StateNaming {
		s.state = StateDrawing
	}
	s.mu.Unlock()
}
