package messages

import (
	"kanbanstudio/internal/auth"
	"kanbanstudio/internal/kanban/models"
	"kanbanstudio/internal/kanban/service"

	tea "github.com/charmbracelet/bubbletea"
)

// ViewType represents the different views in the application
type ViewType int

const (
	ViewLogin ViewType = iota
	ViewBoard
	ViewChat
)

// SwitchViewMsg is sent by child views to switch to a different view
type SwitchViewMsg struct {
	View ViewType
}

// LoggedInMsg is sent once the auth gate accepts a user
type LoggedInMsg struct {
	Session auth.Session
}

// LogoutMsg asks the app to end the session and return to the login form
type LogoutMsg struct{}

// BoardSyncedMsg carries the board held by the service after a call finished.
// Err is the call's failure, if any; the board is valid either way.
type BoardSyncedMsg struct {
	Board models.Board
	Err   error
}

// ChatRepliedMsg is the outcome of one assistant exchange
type ChatRepliedMsg struct {
	Reply service.ChatReply
	Board models.Board
	Err   error
}

func SwitchView(v ViewType) tea.Cmd {
	return func() tea.Msg {
		return SwitchViewMsg{View: v}
	}
}

func Logout() tea.Msg {
	return LogoutMsg{}
}
