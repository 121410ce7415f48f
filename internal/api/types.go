package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is a server id. The board API sends ids as JSON strings but numeric
// ids are accepted too.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// IDFromInt formats a numeric server id
func IDFromInt(n int) ID {
	return ID(strconv.Itoa(n))
}

type BoardInfo struct {
	ID    ID     `json:"id"`
	Title string `json:"title"`
}

type ColumnWire struct {
	ID       ID     `json:"id"`
	Title    string `json:"title"`
	Position *int   `json:"position,omitempty"`
	CardIDs  []ID   `json:"cardIds"`
}

type CardWire struct {
	ID      ID     `json:"id"`
	Title   string `json:"title"`
	Details string `json:"details"`
}

// BoardResponse is the full board snapshot returned by GET /api/board
type BoardResponse struct {
	Board   BoardInfo           `json:"board"`
	Columns []ColumnWire        `json:"columns"`
	Cards   map[string]CardWire `json:"cards"`
}

type ColumnUpdate struct {
	Title    *string `json:"title,omitempty"`
	Position *int    `json:"position,omitempty"`
}

type CardCreate struct {
	ColumnID int    `json:"column_id"`
	Title    string `json:"title"`
	Details  string `json:"details"`
	Position *int   `json:"position,omitempty"`
}

type CardUpdate struct {
	Title    *string `json:"title,omitempty"`
	Details  *string `json:"details,omitempty"`
	ColumnID *int    `json:"column_id,omitempty"`
	Position *int    `json:"position,omitempty"`
}

type createdResponse struct {
	ID ID `json:"id"`
}

// Credentials is the login request body
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success  bool   `json:"success"`
	Username string `json:"username"`
}

type AuthStatus struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message      string        `json:"message"`
	History      []ChatMessage `json:"history"`
	ApplyUpdates bool          `json:"apply_updates"`
}

// Chat action types
const (
	ActionCreateCard = "create_card"
	ActionUpdateCard = "update_card"
	ActionMoveCard   = "move_card"
	ActionDeleteCard = "delete_card"
)

// ChatAction is one board change proposed (and possibly applied) by the assistant.
// Which fields are set depends on Type.
type ChatAction struct {
	Type     string  `json:"type"`
	CardID   ID      `json:"cardId,omitempty"`
	ColumnID ID      `json:"columnId,omitempty"`
	Title    *string `json:"title,omitempty"`
	Details  *string `json:"details,omitempty"`
	Position *int    `json:"position,omitempty"`
}

// Summary describes the action in one line for the chat transcript
func (a ChatAction) Summary() string {
	switch a.Type {
	case ActionCreateCard:
		return fmt.Sprintf("Created %q in column %s", deref(a.Title), a.ColumnID)
	case ActionUpdateCard:
		if a.Title != nil {
			return fmt.Sprintf("Updated card %s to %q", a.CardID, *a.Title)
		}
		return fmt.Sprintf("Updated card %s", a.CardID)
	case ActionMoveCard:
		if a.Position != nil {
			return fmt.Sprintf("Moved card %s to column %s at %d", a.CardID, a.ColumnID, *a.Position)
		}
		return fmt.Sprintf("Moved card %s to column %s", a.CardID, a.ColumnID)
	case ActionDeleteCard:
		return fmt.Sprintf("Deleted card %s", a.CardID)
	}
	return fmt.Sprintf("Unknown action %q", a.Type)
}

type ChatResponse struct {
	Response string         `json:"response"`
	Actions  []ChatAction   `json:"actions"`
	Board    *BoardResponse `json:"board,omitempty"`
	Model    *string        `json:"model,omitempty"`
}

// String returns a pointer to s, for optional request fields
func String(s string) *string {
	return &s
}

// Int returns a pointer to n, for optional request fields
func Int(n int) *int {
	return &n
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
