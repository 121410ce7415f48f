package service

import (
	"context"
	"sync"

	"kanbanstudio/internal/api"
	"kanbanstudio/internal/kanban/models"
	"kanbanstudio/internal/kanban/operations"
	"kanbanstudio/internal/logs"
)

// Remote keeps an optimistic copy of the server board. Every mutation is
// applied locally, sent to the server and followed by a full reload, whether
// the call succeeded or not.
type Remote struct {
	client *api.Client

	mu      sync.Mutex
	board   models.Board
	history []api.ChatMessage
}

var _ BoardService = (*Remote)(nil)

// NewRemote starts from the seed board until the first Refresh
func NewRemote(client *api.Client) *Remote {
	return &Remote{client: client, board: models.InitialBoard()}
}

func (r *Remote) Board() models.Board {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.board.Clone()
}

func (r *Remote) History() []api.ChatMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]api.ChatMessage(nil), r.history...)
}

func (r *Remote) Refresh(ctx context.Context) error {
	resp, err := r.client.FetchBoard(ctx)
	if err != nil {
		logs.Logger.Printf("Board refresh failed: %v", err)
		return &UserError{Message: MsgLoadFailed, Err: err}
	}
	r.set(operations.ReplaceBoard(api.ToBoard(*resp)))
	return nil
}

func (r *Remote) RenameColumn(ctx context.Context, columnID, title string) error {
	next, err := operations.RenameColumn(r.Board(), columnID, title)
	if err != nil {
		return err
	}
	r.set(next)

	id, err := models.ColumnNumber(columnID)
	if err != nil {
		return r.abandon(ctx, MsgColumnFailed, err)
	}
	title = next.Columns[next.GetColumnIndex(columnID)].Title
	err = r.client.UpdateColumn(ctx, id, api.ColumnUpdate{Title: &title})
	return r.settle(ctx, MsgColumnFailed, err)
}

func (r *Remote) AddCard(ctx context.Context, columnID, title, details string) error {
	next, card, err := operations.AddCard(r.Board(), columnID, title, details)
	if err != nil {
		return err
	}
	r.set(next)

	id, err := models.ColumnNumber(columnID)
	if err != nil {
		return r.abandon(ctx, MsgAddFailed, err)
	}
	_, err = r.client.CreateCard(ctx, api.CardCreate{
		ColumnID: id,
		Title:    card.Title,
		Details:  card.Details,
	})
	return r.settle(ctx, MsgAddFailed, err)
}

func (r *Remote) UpdateCard(ctx context.Context, cardID, title, details string) error {
	next, err := operations.UpdateCard(r.Board(), cardID, title, details)
	if err != nil {
		return err
	}
	r.set(next)

	id, err := models.CardNumber(cardID)
	if err != nil {
		return r.abandon(ctx, MsgUpdateFailed, err)
	}
	card := next.Cards[cardID]
	err = r.client.UpdateCard(ctx, id, api.CardUpdate{Title: &card.Title, Details: &card.Details})
	return r.settle(ctx, MsgUpdateFailed, err)
}

func (r *Remote) DeleteCard(ctx context.Context, cardID string) error {
	r.set(operations.DeleteCard(r.Board(), cardID))

	id, err := models.CardNumber(cardID)
	if err != nil {
		return r.abandon(ctx, MsgRemoveFailed, err)
	}
	err = r.client.DeleteCard(ctx, id)
	return r.settle(ctx, MsgRemoveFailed, err)
}

func (r *Remote) MoveCard(ctx context.Context, activeID, overID string) error {
	current := r.Board().Columns
	next := operations.MoveCard(current, activeID, overID)
	if sameColumns(current, next) {
		return nil
	}
	return r.ApplyDrop(ctx, activeID, next)
}

// ApplyDrop sends the card's new column and index, as found in next
func (r *Remote) ApplyDrop(ctx context.Context, activeID string, next []models.Column) error {
	r.mu.Lock()
	r.board.Columns = next
	r.mu.Unlock()

	loc, ok := models.FindCardLocation(next, activeID)
	if !ok {
		return nil
	}

	cardID, err := models.CardNumber(activeID)
	if err != nil {
		return r.abandon(ctx, MsgMoveFailed, err)
	}
	columnID, err := models.ColumnNumber(loc.ColumnID)
	if err != nil {
		return r.abandon(ctx, MsgMoveFailed, err)
	}

	err = r.client.UpdateCard(ctx, cardID, api.CardUpdate{
		ColumnID: &columnID,
		Position: &loc.Index,
	})
	return r.settle(ctx, MsgMoveFailed, err)
}

// Chat sends message with the transcript so far. When the server returns a
// board it replaces local state.
func (r *Remote) Chat(ctx context.Context, message string) (ChatReply, error) {
	r.mu.Lock()
	history := append([]api.ChatMessage(nil), r.history...)
	r.history = append(r.history, api.ChatMessage{Role: api.RoleUser, Content: message})
	r.mu.Unlock()

	resp, err := r.client.SendChat(ctx, api.ChatRequest{
		Message:      message,
		History:      history,
		ApplyUpdates: true,
	})
	if err != nil {
		logs.Logger.Printf("Chat failed: %v", err)
		r.mu.Lock()
		r.history = append(r.history, api.ChatMessage{Role: api.RoleAssistant, Content: ChatFallback})
		r.mu.Unlock()
		return ChatReply{}, &UserError{Message: MsgChatFailed, Err: err}
	}

	r.mu.Lock()
	r.history = append(r.history, api.ChatMessage{Role: api.RoleAssistant, Content: resp.Response})
	if resp.Board != nil {
		r.board = operations.ReplaceBoard(api.ToBoard(*resp.Board))
	}
	r.mu.Unlock()

	reply := ChatReply{Message: resp.Response}
	for _, a := range resp.Actions {
		reply.Actions = append(reply.Actions, a.Summary())
	}
	if resp.Model != nil {
		reply.Model = *resp.Model
	}
	return reply, nil
}

func (r *Remote) set(board models.Board) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.board = board
}

// abandon drops a mutation whose ids cannot be sent and resyncs with the server
func (r *Remote) abandon(ctx context.Context, msg string, cause error) error {
	logs.Logger.Printf("%s: %v", msg, cause)
	if err := r.Refresh(ctx); err != nil {
		logs.Logger.Printf("%s: resync failed: %v", msg, err)
	}
	return &UserError{Message: msg, Err: cause}
}

// settle reloads the board after a mutation call. The mutation error wins
// over a failed reload.
func (r *Remote) settle(ctx context.Context, msg string, callErr error) error {
	refreshErr := r.Refresh(ctx)
	if callErr != nil {
		logs.Logger.Printf("%s: %v", msg, callErr)
		if refreshErr != nil {
			logs.Logger.Printf("%s: resync failed: %v", msg, refreshErr)
		}
		return &UserError{Message: msg, Err: callErr}
	}
	return refreshErr
}
