// Package login renders the sign-in form shown before the board.
package login

import (
	"context"
	"errors"
	"strings"
	"time"

	"kanbanstudio/internal/auth"
	"kanbanstudio/internal/logs"
	"kanbanstudio/internal/tui/messages"
	"kanbanstudio/internal/tui/shared"
	"kanbanstudio/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const loginTimeout = 15 * time.Second

const (
	fieldUsername = iota
	fieldPassword
)

var (
	boxStyle   = theme.ModalBox.Width(46)
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(theme.Primary)
)

type loginFailedMsg struct {
	err error
}

// Model is the login form
type Model struct {
	gate       auth.Gate
	inputs     [2]textinput.Model
	focus      int
	submitting bool
	err        string
	width      int
	height     int
}

func New(gate auth.Gate) Model {
	username := textinput.New()
	username.Placeholder = "user"
	username.CharLimit = 64
	username.Width = 30
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.Width = 30
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return Model{gate: gate, inputs: [2]textinput.Model{username, password}}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Reset clears the form, keeping the last username
func (m *Model) Reset() {
	m.inputs[fieldPassword].SetValue("")
	m.err = ""
	m.submitting = false
	m.setFocus(fieldUsername)
}

// Err returns the message currently shown under the form
func (m Model) Err() string {
	return m.err
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginFailedMsg:
		m.submitting = false
		if errors.Is(msg.err, auth.ErrInvalidCredentials) {
			m.err = auth.LoginFailedMessage
		} else {
			m.err = msg.err.Error()
		}
		m.inputs[fieldPassword].SetValue("")
		m.setFocus(fieldPassword)
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.setFocus((m.focus + 1) % len(m.inputs))
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
			return m, nil
		case "enter":
			if m.focus == fieldUsername {
				m.setFocus(fieldPassword)
				return m, nil
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(field int) {
	m.focus = field
	for i := range m.inputs {
		if i == field {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m Model) submit() (Model, tea.Cmd) {
	username := strings.TrimSpace(m.inputs[fieldUsername].Value())
	password := m.inputs[fieldPassword].Value()
	m.submitting = true
	m.err = ""

	gate := m.gate
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
		defer cancel()

		session, err := gate.Login(ctx, username, password)
		if err != nil {
			logs.Logger.Printf("Login failed for %q: %v", username, err)
			return loginFailedMsg{err: err}
		}
		return messages.LoggedInMsg{Session: session}
	}
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(theme.ModalTitle.Render("Sign in to Kanban Studio"))
	s.WriteString("\n\n")
	s.WriteString(labelStyle.Render("Username") + "\n")
	s.WriteString(m.inputs[fieldUsername].View() + "\n\n")
	s.WriteString(labelStyle.Render("Password") + "\n")
	s.WriteString(m.inputs[fieldPassword].View())

	switch {
	case m.submitting:
		s.WriteString("\n\n" + theme.Muted.Render("Signing in..."))
	case m.err != "":
		s.WriteString("\n\n" + theme.Error.Render(m.err))
	}

	box := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, boxStyle.Render(s.String()))
	hints := theme.HelpHint.Render("tab: next field • enter: sign in • ctrl+c: quit")
	return shared.CenterWithBottomHints(box, hints, m.height)
}
