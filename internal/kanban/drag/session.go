// Package drag turns a stream of drag events from a host UI into a single
// (active, over) pair for operations.MoveCard.
package drag

import (
	"kanbanstudio/internal/kanban/models"
	"kanbanstudio/internal/kanban/operations"
)

// Ref is the data a host attaches to a draggable card or a droppable region.
// A card carries both ids; a column body carries only ColumnID.
type Ref struct {
	CardID   string
	ColumnID string
}

// IsZero reports whether the ref points at nothing
func (r Ref) IsZero() bool {
	return r.CardID == "" && r.ColumnID == ""
}

// Move is the resolved outcome of a drag
type Move struct {
	ActiveID string
	OverID   string
}

type state int

const (
	stateIdle state = iota
	stateDragging
)

// Session tracks one drag gesture at a time: Idle -> Dragging -> Idle.
// The zero value is an idle session.
type Session struct {
	state          state
	activeCardID   string
	activeColumnID string
	lastOverID     string
}

// Start begins a drag of the given card. Without a card id the session stays idle.
func (s *Session) Start(active Ref) bool {
	if active.CardID == "" {
		s.reset()
		return false
	}
	s.state = stateDragging
	s.activeCardID = active.CardID
	s.activeColumnID = active.ColumnID
	s.lastOverID = ""
	return true
}

// Dragging reports whether a drag is in progress
func (s *Session) Dragging() bool {
	return s.state == stateDragging
}

// ActiveCardID returns the card being dragged, or "" when idle
func (s *Session) ActiveCardID() string {
	return s.activeCardID
}

// LastOverID returns the most recent hover target
func (s *Session) LastOverID() string {
	return s.lastOverID
}

// Over records a hover candidate. Hovering a region in another column records
// that column rather than the card under the pointer, so jitter near column
// edges settles on "this column".
func (s *Session) Over(over Ref) {
	if s.state != stateDragging || over.IsZero() {
		return
	}

	if s.crossColumn(over) {
		s.lastOverID = over.ColumnID
		return
	}

	if over.CardID != "" {
		s.lastOverID = over.CardID
		return
	}
	s.lastOverID = over.ColumnID
}

// End finishes the drag with the final hover region and applies the move to
// columns. It returns the next columns, the resolved move, and whether a move
// was attempted. Unresolvable drops return the input columns and false.
// The session is idle afterwards in every case.
func (s *Session) End(columns []models.Column, over Ref) ([]models.Column, Move, bool) {
	if s.state != stateDragging {
		s.reset()
		return columns, Move{}, false
	}

	activeID := s.activeCardID
	overID := s.resolve(over)
	s.reset()

	if overID == "" || overID == activeID {
		return columns, Move{}, false
	}

	move := Move{ActiveID: activeID, OverID: overID}
	return operations.MoveCard(columns, activeID, overID), move, true
}

// Cancel abandons the drag
func (s *Session) Cancel() {
	s.reset()
}

// resolve picks the over id: the final card (unless it is the active card or
// in another column), then the final column, then the last hover target.
func (s *Session) resolve(over Ref) string {
	if over.CardID != "" && over.CardID != s.activeCardID && !s.crossColumn(over) {
		return over.CardID
	}
	if over.ColumnID != "" {
		return over.ColumnID
	}
	return s.lastOverID
}

func (s *Session) crossColumn(over Ref) bool {
	return s.activeColumnID != "" && over.ColumnID != "" && s.activeColumnID != over.ColumnID
}

func (s *Session) reset() {
	s.state = stateIdle
	s.activeCardID = ""
	s.activeColumnID = ""
	s.lastOverID = ""
}
