package service

import (
	"context"
	"sync"

	"kanbanstudio/internal/api"
	"kanbanstudio/internal/kanban/models"
	"kanbanstudio/internal/kanban/operations"
	"kanbanstudio/internal/kanban/store"
	"kanbanstudio/internal/logs"
)

// Local works against a snapshot store with no server. Each change is
// saved wholesale.
type Local struct {
	store store.Store

	mu    sync.Mutex
	board models.Board
}

var _ BoardService = (*Local)(nil)

// NewLocal loads the stored board, seeding the store when it is empty
func NewLocal(ctx context.Context, s store.Store) (*Local, error) {
	board, err := store.LoadOrSeed(ctx, s)
	if err != nil {
		return nil, err
	}
	return &Local{store: s, board: board}, nil
}

func (l *Local) Board() models.Board {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.board.Clone()
}

func (l *Local) History() []api.ChatMessage {
	return nil
}

func (l *Local) Refresh(ctx context.Context) error {
	board, err := store.LoadOrSeed(ctx, l.store)
	if err != nil {
		return &UserError{Message: MsgLoadFailed, Err: err}
	}
	l.mu.Lock()
	l.board = operations.ReplaceBoard(board)
	l.mu.Unlock()
	return nil
}

func (l *Local) RenameColumn(ctx context.Context, columnID, title string) error {
	next, err := operations.RenameColumn(l.Board(), columnID, title)
	if err != nil {
		return err
	}
	return l.save(ctx, next, MsgColumnFailed)
}

func (l *Local) AddCard(ctx context.Context, columnID, title, details string) error {
	next, _, err := operations.AddCard(l.Board(), columnID, title, details)
	if err != nil {
		return err
	}
	return l.save(ctx, next, MsgAddFailed)
}

func (l *Local) UpdateCard(ctx context.Context, cardID, title, details string) error {
	next, err := operations.UpdateCard(l.Board(), cardID, title, details)
	if err != nil {
		return err
	}
	return l.save(ctx, next, MsgUpdateFailed)
}

func (l *Local) DeleteCard(ctx context.Context, cardID string) error {
	current := l.Board()
	next := operations.DeleteCard(current, cardID)
	if len(next.Cards) == len(current.Cards) && next.CardCount() == current.CardCount() {
		return nil
	}
	return l.save(ctx, next, MsgRemoveFailed)
}

func (l *Local) MoveCard(ctx context.Context, activeID, overID string) error {
	current := l.Board().Columns
	next := operations.MoveCard(current, activeID, overID)
	if sameColumns(current, next) {
		return nil
	}
	return l.ApplyDrop(ctx, activeID, next)
}

func (l *Local) ApplyDrop(ctx context.Context, activeID string, next []models.Column) error {
	board := l.Board()
	board.Columns = next
	return l.save(ctx, board, MsgMoveFailed)
}

func (l *Local) Chat(ctx context.Context, message string) (ChatReply, error) {
	return ChatReply{}, &UserError{Message: MsgChatOffline}
}

// save adopts board and writes it out. On failure the stored board is
// reloaded so memory matches storage.
func (l *Local) save(ctx context.Context, board models.Board, msg string) error {
	l.mu.Lock()
	l.board = board
	l.mu.Unlock()

	if err := l.store.Save(ctx, board); err != nil {
		logs.Logger.Printf("%s: %v", msg, err)
		if err := l.Refresh(ctx); err != nil {
			logs.Logger.Printf("%s: reload failed: %v", msg, err)
		}
		return &UserError{Message: msg, Err: err}
	}
	return nil
}
