// Package chat is the assistant panel. The transcript lives in the service;
// this view only renders it and sends new messages.
package chat

import (
	"context"
	"strings"
	"time"

	"kanbanstudio/internal/api"
	"kanbanstudio/internal/kanban/service"
	"kanbanstudio/internal/tui/messages"
	"kanbanstudio/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const chatTimeout = 2 * time.Minute

var (
	actionStyle = lipgloss.NewStyle().Foreground(theme.Success).Italic(true)
	bodyStyle   = lipgloss.NewStyle().Foreground(theme.Text).PaddingLeft(2)
)

// Model is the chat panel
type Model struct {
	svc      service.BoardService
	viewport viewport.Model
	input    textinput.Model
	// actions applied by the assistant, keyed by transcript index
	actions map[int][]string
	model   string
	sending bool
	err     string
	width   int
	height  int
}

func New(svc service.BoardService) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask the assistant to change the board..."
	ti.CharLimit = 2000
	ti.Focus()

	m := Model{
		svc:      svc,
		viewport: viewport.New(0, 0),
		input:    ti,
		actions:  map[int][]string{},
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(width-6, 10)
	m.viewport.Width = width
	// title, blank, input, blank, hints
	m.viewport.Height = max(height-5, 1)
	m.refresh()
}

// Sending reports whether a message is waiting on the assistant
func (m Model) Sending() bool {
	return m.sending
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.ChatRepliedMsg:
		m.sending = false
		if msg.Err != nil {
			m.err = service.Message(msg.Err)
		} else {
			m.err = ""
			m.model = msg.Reply.Model
			if len(msg.Reply.Actions) > 0 {
				m.actions[len(m.svc.History())-1] = msg.Reply.Actions
			}
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, messages.SwitchView(messages.ViewBoard)
		case "enter":
			return m.send()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) send() (Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.sending {
		return m, nil
	}
	m.input.SetValue("")
	m.sending = true
	m.err = ""

	svc := m.svc
	cmd := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
		defer cancel()

		reply, err := svc.Chat(ctx, text)
		return messages.ChatRepliedMsg{Reply: reply, Board: svc.Board(), Err: err}
	}
	// Show the user's line before the reply arrives
	m.refreshWith(api.ChatMessage{Role: api.RoleUser, Content: text})
	return m, cmd
}

func (m *Model) refresh() {
	m.refreshWith()
}

func (m *Model) refreshWith(extra ...api.ChatMessage) {
	history := append(m.svc.History(), extra...)
	if len(history) == 0 {
		m.viewport.SetContent(theme.Muted.Render("No messages yet. Try \"move the first card to Done\"."))
		return
	}

	width := max(m.width-4, 10)
	var b strings.Builder
	for i, msg := range history {
		if i > 0 {
			b.WriteString("\n")
		}
		if msg.Role == api.RoleUser {
			b.WriteString(theme.UserRole.Render("You") + "\n")
		} else {
			b.WriteString(theme.AssistantRole.Render("Assistant") + "\n")
		}
		b.WriteString(bodyStyle.Width(width).Render(msg.Content) + "\n")
		for _, action := range m.actions[i] {
			b.WriteString(actionStyle.Render("  ✓ "+action) + "\n")
		}
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	title := theme.Title.Render("Assistant")
	if m.model != "" {
		title += theme.Muted.Render("  " + m.model)
	}

	status := theme.HelpHint.Render("enter: send • pgup/pgdown: scroll • esc: back to board")
	switch {
	case m.sending:
		status = theme.Muted.Render("Thinking...")
	case m.err != "":
		status = theme.Error.Render(m.err)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.viewport.View(),
		"",
		m.input.View(),
		status,
	)
}
