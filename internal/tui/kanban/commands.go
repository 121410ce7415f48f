package kanban

import (
	"context"
	"time"

	"kanbanstudio/internal/kanban/models"
	"kanbanstudio/internal/kanban/service"
	"kanbanstudio/internal/tui/messages"

	tea "github.com/charmbracelet/bubbletea"
)

// callTimeout bounds a whole service call, including the refresh that follows it
const callTimeout = time.Minute

// syncCmd runs fn against the service off the UI goroutine and reports the
// board the service holds afterwards.
func syncCmd(svc service.BoardService, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		err := fn(ctx)
		return messages.BoardSyncedMsg{Board: svc.Board(), Err: err}
	}
}

func refreshCmd(svc service.BoardService) tea.Cmd {
	return syncCmd(svc, svc.Refresh)
}

func renameColumnCmd(svc service.BoardService, columnID, title string) tea.Cmd {
	return syncCmd(svc, func(ctx context.Context) error {
		return svc.RenameColumn(ctx, columnID, title)
	})
}

func addCardCmd(svc service.BoardService, columnID, title string) tea.Cmd {
	return syncCmd(svc, func(ctx context.Context) error {
		return svc.AddCard(ctx, columnID, title, "")
	})
}

func updateCardCmd(svc service.BoardService, cardID, title, details string) tea.Cmd {
	return syncCmd(svc, func(ctx context.Context) error {
		return svc.UpdateCard(ctx, cardID, title, details)
	})
}

func deleteCardCmd(svc service.BoardService, cardID string) tea.Cmd {
	return syncCmd(svc, func(ctx context.Context) error {
		return svc.DeleteCard(ctx, cardID)
	})
}

func moveCardCmd(svc service.BoardService, activeID, overID string) tea.Cmd {
	return syncCmd(svc, func(ctx context.Context) error {
		return svc.MoveCard(ctx, activeID, overID)
	})
}

func applyDropCmd(svc service.BoardService, activeID string, next []models.Column) tea.Cmd {
	return syncCmd(svc, func(ctx context.Context) error {
		return svc.ApplyDrop(ctx, activeID, next)
	})
}
