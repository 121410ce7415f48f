// Package service owns the client's board state and talks to whichever
// backend holds the board of record.
package service

import (
	"context"
	"errors"

	"kanbanstudio/internal/api"
	"kanbanstudio/internal/kanban/models"
)

// Messages shown to the user when a backend call fails
const (
	MsgLoadFailed   = "Unable to load the board from the server."
	MsgColumnFailed = "Unable to save column changes."
	MsgAddFailed    = "Unable to add the card."
	MsgRemoveFailed = "Unable to remove the card."
	MsgMoveFailed   = "Unable to move the card."
	MsgUpdateFailed = "Unable to save card changes."
	MsgChatFailed   = "Unable to reach the assistant right now."
	MsgChatOffline  = "The assistant is not available offline."

	// ChatFallback is appended to the transcript when a chat exchange fails
	ChatFallback = "Something went wrong. Please try again."
)

// UserError carries a message fit for the status line plus the underlying cause
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// Message returns the user-facing text for err
func Message(err error) string {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Message
	}
	return err.Error()
}

// ChatReply is the outcome of one assistant exchange
type ChatReply struct {
	Message string
	Actions []string
	Model   string
}

// BoardService is what the CLI and TUI drive
type BoardService interface {
	Board() models.Board
	Refresh(ctx context.Context) error
	RenameColumn(ctx context.Context, columnID, title string) error
	AddCard(ctx context.Context, columnID, title, details string) error
	UpdateCard(ctx context.Context, cardID, title, details string) error
	DeleteCard(ctx context.Context, cardID string) error
	// MoveCard runs the reordering engine on the current board and persists the result
	MoveCard(ctx context.Context, activeID, overID string) error
	// ApplyDrop adopts columns already computed by a drag session and persists
	// the new location of activeID
	ApplyDrop(ctx context.Context, activeID string, next []models.Column) error
	Chat(ctx context.Context, message string) (ChatReply, error)
	History() []api.ChatMessage
}

// sameColumns reports whether b is the very slice a, which is how the
// reordering engine signals a no-op.
func sameColumns(a, b []models.Column) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
