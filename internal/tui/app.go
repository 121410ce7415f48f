package tui

import (
	"context"
	"time"

	"kanbanstudio/internal/auth"
	"kanbanstudio/internal/kanban/service"
	"kanbanstudio/internal/logs"
	chatview "kanbanstudio/internal/tui/chat"
	kanbanview "kanbanstudio/internal/tui/kanban"
	loginview "kanbanstudio/internal/tui/login"
	"kanbanstudio/internal/tui/messages"
	"kanbanstudio/internal/tui/shared"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type ViewType = messages.ViewType

const (
	ViewLogin = messages.ViewLogin
	ViewBoard = messages.ViewBoard
	ViewChat  = messages.ViewChat
)

const gateTimeout = 15 * time.Second

// ServiceFactory builds the board service for a signed-in user
type ServiceFactory func(ctx context.Context, session auth.Session) (service.BoardService, error)

type sessionCheckedMsg struct {
	session auth.Session
}

type serviceReadyMsg struct {
	svc service.BoardService
	err error
}

type loggedOutMsg struct {
	err error
}

// AppModel is the root model that dispatches to child views
type AppModel struct {
	gate        auth.Gate
	newService  ServiceFactory
	svc         service.BoardService
	session     auth.Session
	currentView ViewType
	loginView   loginview.Model
	boardView   kanbanview.BoardModel
	chatView    chatview.Model
	err         string
	showHelp    bool
	width       int
	height      int
	ready       bool
}

// NewAppModel creates the root application model
func NewAppModel(gate auth.Gate, newService ServiceFactory) AppModel {
	return AppModel{
		gate:        gate,
		newService:  newService,
		currentView: ViewLogin,
		loginView:   loginview.New(gate),
	}
}

// Init skips the login form when the gate already has a session
func (m AppModel) Init() tea.Cmd {
	gate := m.gate
	return tea.Batch(m.loginView.Init(), func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), gateTimeout)
		defer cancel()

		session, err := gate.Status(ctx)
		if err != nil {
			logs.Logger.Printf("Session check failed: %v", err)
		}
		return sessionCheckedMsg{session: session}
	})
}

func (m AppModel) contentHeight() int {
	return m.height - 2 // status bar
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.loginView.SetSize(msg.Width, m.contentHeight())
		if m.svc != nil {
			m.boardView.SetSize(msg.Width, m.contentHeight())
			m.chatView.SetSize(msg.Width, m.contentHeight())
		}
		return m, nil

	case sessionCheckedMsg:
		if !msg.session.Authenticated || m.svc != nil {
			return m, nil
		}
		return m.startSession(msg.session)

	case messages.LoggedInMsg:
		return m.startSession(msg.Session)

	case serviceReadyMsg:
		if msg.err != nil {
			m.err = service.Message(msg.err)
			logs.Logger.Printf("Unable to open board: %v", msg.err)
			m.currentView = ViewLogin
			m.loginView.Reset()
			return m, nil
		}
		m.err = ""
		m.svc = msg.svc
		m.boardView = kanbanview.NewBoardModel(m.svc)
		m.boardView.SetSize(m.width, m.contentHeight())
		m.chatView = chatview.New(m.svc)
		m.chatView.SetSize(m.width, m.contentHeight())
		m.currentView = ViewBoard
		return m, m.boardView.Init()

	case messages.LogoutMsg:
		gate := m.gate
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), gateTimeout)
			defer cancel()
			return loggedOutMsg{err: gate.Logout(ctx)}
		}

	case loggedOutMsg:
		if msg.err != nil {
			logs.Logger.Printf("Logout failed: %v", msg.err)
		}
		m.svc = nil
		m.session = auth.Session{}
		m.currentView = ViewLogin
		m.loginView.Reset()
		return m, nil

	case messages.SwitchViewMsg:
		if m.svc == nil {
			return m, nil
		}
		m.currentView = msg.View
		if msg.View == ViewChat {
			m.chatView.SetSize(m.width, m.contentHeight())
			return m, m.chatView.Init()
		}
		return m, nil

	case messages.BoardSyncedMsg:
		if m.svc == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.boardView, cmd = m.boardView.Update(msg)
		return m, cmd

	case messages.ChatRepliedMsg:
		if m.svc == nil {
			return m, nil
		}
		if msg.Err == nil {
			m.boardView.SetBoard(msg.Board)
		}
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		if m.currentView == ViewBoard && !m.boardView.IsInModalState() {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "?":
				m.showHelp = true
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewBoard:
		if m.svc != nil {
			m.boardView, cmd = m.boardView.Update(msg)
		}
	case ViewChat:
		if m.svc != nil {
			m.chatView, cmd = m.chatView.Update(msg)
		}
	}
	return m, cmd
}

func (m AppModel) startSession(session auth.Session) (tea.Model, tea.Cmd) {
	m.session = session
	logs.Logger.Printf("Signed in as %q", session.Username)

	newService := m.newService
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), gateTimeout)
		defer cancel()

		svc, err := newService(ctx, session)
		return serviceReadyMsg{svc: svc, err: err}
	}
}

func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return shared.RenderHelpPopup(kanbanview.HelpSections(), m.width, m.height)
	}

	var content, statusText string
	switch m.currentView {
	case ViewLogin:
		content = m.loginView.View()
		statusText = "Kanban Studio | ctrl+c: quit"
	case ViewBoard:
		content = m.boardView.View()
		statusText = m.session.Username + " | n:new m:move /:filter c:chat | ?:help | q:quit"
		if m.boardView.Busy() {
			statusText = m.session.Username + " | syncing..."
		}
	case ViewChat:
		content = m.chatView.View()
		statusText = m.session.Username + " | assistant | esc: back to board"
	}

	status := HelpStyle.Render(statusText)
	if m.err != "" {
		status = ErrorStyle.Render(m.err)
	}

	content = lipgloss.NewStyle().Height(m.contentHeight()).MaxHeight(m.contentHeight()).Render(content)
	statusBar := StatusBarStyle.Width(m.width).Render(status)
	return lipgloss.JoinVertical(lipgloss.Left, content, statusBar)
}
