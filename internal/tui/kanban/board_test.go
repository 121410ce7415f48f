package kanban

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"kanbanstudio/internal/kanban/models"
	"kanbanstudio/internal/kanban/service"
	"kanbanstudio/internal/kanban/store"
	"kanbanstudio/internal/tui/messages"

	tea "github.com/charmbracelet/bubbletea"
)

type flakyStore struct {
	store.Store
	fail bool
}

func (f *flakyStore) Save(ctx context.Context, b models.Board) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.Store.Save(ctx, b)
}

func newTestBoard(t *testing.T) (BoardModel, *flakyStore) {
	t.Helper()
	fs := &flakyStore{Store: store.NewDiskStore(t.TempDir())}
	svc, err := service.NewLocal(context.Background(), fs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := NewBoardModel(svc)
	m.SetSize(200, 40)
	return m, fs
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// sendKeys feeds keys in order and returns the last command
func sendKeys(m BoardModel, keys ...string) (BoardModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(keyMsg(k))
	}
	return m, cmd
}

// settle runs cmd and feeds its message back, as the program loop would
func settle(t *testing.T, m BoardModel, cmd tea.Cmd) BoardModel {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m, _ = m.Update(cmd())
	return m
}

func mouse(m BoardModel, action tea.MouseAction, x, y int) BoardModel {
	m, _ = m.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
	return m
}

func TestBoardModel_KeyboardMoveWithinColumn(t *testing.T) {
	m, _ := newTestBoard(t)

	m, cmd := sendKeys(m, "m", "j", "enter")
	want := []string{"card-2", "card-1"}
	if got := m.Board().Columns[0].CardIDs; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected optimistic %v, got %v", want, got)
	}
	if m.mode != boardModeNormal {
		t.Errorf("expected normal mode after drop, got %v", m.mode)
	}
	if m.selectedCardID() != "card-1" {
		t.Errorf("expected cursor to follow the moved card, got %q", m.selectedCardID())
	}

	m = settle(t, m, cmd)
	if got := m.svc.Board().Columns[0].CardIDs; !reflect.DeepEqual(got, want) {
		t.Errorf("expected service board %v, got %v", want, got)
	}
	if m.Busy() {
		t.Error("expected no calls in flight")
	}
}

func TestBoardModel_KeyboardMoveToColumnEnd(t *testing.T) {
	m, _ := newTestBoard(t)

	m, cmd := sendKeys(m, "m", "l", "l", "j", "j", "j", "enter")
	m = settle(t, m, cmd)

	board := m.Board()
	if got := board.Columns[0].CardIDs; !reflect.DeepEqual(got, []string{"card-2"}) {
		t.Errorf("unexpected backlog %v", got)
	}
	if got := board.Columns[2].CardIDs; !reflect.DeepEqual(got, []string{"card-4", "card-5", "card-1"}) {
		t.Errorf("unexpected in progress %v", got)
	}
	if m.selectedCol != 2 || m.selectedCard != 2 {
		t.Errorf("expected cursor at (2, 2), got (%d, %d)", m.selectedCol, m.selectedCard)
	}
}

func TestBoardModel_KeyboardMoveOntoCard(t *testing.T) {
	m, _ := newTestBoard(t)

	// Hover card-5 in In Progress
	m, cmd := sendKeys(m, "m", "l", "l", "j", "enter")
	m = settle(t, m, cmd)

	if got := m.Board().Columns[2].CardIDs; !reflect.DeepEqual(got, []string{"card-4", "card-1", "card-5"}) {
		t.Errorf("unexpected in progress %v", got)
	}
}

func TestBoardModel_KeyboardMoveCancel(t *testing.T) {
	m, _ := newTestBoard(t)
	before := m.Board()

	m, cmd := sendKeys(m, "m", "l", "esc")
	if cmd != nil {
		t.Error("expected no command after cancel")
	}
	if m.mode != boardModeNormal {
		t.Errorf("expected normal mode, got %v", m.mode)
	}
	if !reflect.DeepEqual(m.Board().Columns, before.Columns) {
		t.Error("expected board unchanged")
	}

	// Dropping a card on itself does nothing
	m, cmd = sendKeys(m, "m", "enter")
	if cmd != nil {
		t.Error("expected no command for a drop on itself")
	}
}

func TestBoardModel_MouseDragAcrossColumns(t *testing.T) {
	m, _ := newTestBoard(t)

	// card-1 sits at (2..30, 6..8); card-3 at (34..62, 6..8)
	m = mouse(m, tea.MouseActionPress, 5, 6)
	if m.press == nil {
		t.Fatal("expected a press on card-1")
	}
	m = mouse(m, tea.MouseActionMotion, 36, 7)
	if m.mode != boardModeDrag || !m.session.Dragging() {
		t.Fatal("expected drag to start past the threshold")
	}
	if m.hover.CardID != "card-3" {
		t.Errorf("expected hover on card-3, got %+v", m.hover)
	}

	m, cmd := m.Update(tea.MouseMsg{X: 36, Y: 7, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if got := m.Board().Columns[1].CardIDs; !reflect.DeepEqual(got, []string{"card-3", "card-1"}) {
		t.Fatalf("expected card-1 appended to discovery, got %v", got)
	}
	m = settle(t, m, cmd)
	if got := m.svc.Board().Columns[1].CardIDs; !reflect.DeepEqual(got, []string{"card-3", "card-1"}) {
		t.Errorf("expected service to hold the drop, got %v", got)
	}
	if m.session.Dragging() {
		t.Error("expected session to be idle")
	}
}

func TestBoardModel_MouseDragOntoEmptyColumnArea(t *testing.T) {
	m, _ := newTestBoard(t)

	// Below the last Review card
	m = mouse(m, tea.MouseActionPress, 5, 6)
	m = mouse(m, tea.MouseActionMotion, 100, 25)
	if m.hover.ColumnID != "col-review" || m.hover.CardID != "" {
		t.Errorf("expected hover on review column, got %+v", m.hover)
	}
	m, cmd := m.Update(tea.MouseMsg{X: 100, Y: 25, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m = settle(t, m, cmd)

	if got := m.Board().Columns[3].CardIDs; !reflect.DeepEqual(got, []string{"card-6", "card-1"}) {
		t.Errorf("unexpected review column %v", got)
	}
}

func TestBoardModel_MouseReleaseOnOwnSlotCancels(t *testing.T) {
	m, _ := newTestBoard(t)
	before := m.Board()

	m = mouse(m, tea.MouseActionPress, 5, 6)
	m = mouse(m, tea.MouseActionMotion, 5, 9)
	if !m.session.Dragging() {
		t.Fatal("expected drag to start")
	}
	m, cmd := m.Update(tea.MouseMsg{X: 5, Y: 7, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if cmd != nil {
		t.Error("expected no command")
	}
	if !reflect.DeepEqual(m.Board().Columns, before.Columns) {
		t.Error("expected board unchanged")
	}
	if m.mode != boardModeNormal {
		t.Errorf("expected normal mode, got %v", m.mode)
	}
}

func TestBoardModel_ClickSelects(t *testing.T) {
	m, _ := newTestBoard(t)

	m = mouse(m, tea.MouseActionPress, 36, 6)
	m = mouse(m, tea.MouseActionRelease, 36, 6)

	if m.selectedCardID() != "card-3" {
		t.Errorf("expected card-3 selected, got %q", m.selectedCardID())
	}
	if m.session.Dragging() || m.mode != boardModeNormal {
		t.Error("a click must not start a drag")
	}
}

func TestBoardModel_AddCard(t *testing.T) {
	m, _ := newTestBoard(t)

	m, _ = sendKeys(m, "n")
	if m.mode != boardModeInput {
		t.Fatalf("expected input mode, got %v", m.mode)
	}

	// Empty titles never reach the service
	m, cmd := sendKeys(m, "enter")
	if cmd != nil || m.err != "card title cannot be empty" {
		t.Errorf("expected validation error, got %q", m.err)
	}

	m, _ = sendKeys(m, "Write tests")
	m, cmd = sendKeys(m, "enter")
	m = settle(t, m, cmd)

	board := m.Board()
	ids := board.Columns[0].CardIDs
	if len(ids) != 3 {
		t.Fatalf("expected 3 cards in backlog, got %v", ids)
	}
	card := board.Cards[ids[2]]
	if card.Title != "Write tests" || card.Details != models.DefaultDetails {
		t.Errorf("unexpected card %+v", card)
	}
}

func TestBoardModel_EditAndRename(t *testing.T) {
	m, _ := newTestBoard(t)

	m, _ = sendKeys(m, "e")
	m.input.SetValue("Align themes")
	m, cmd := sendKeys(m, "enter")
	if got := m.Board().Cards["card-1"].Title; got != "Align themes" {
		t.Errorf("expected optimistic title, got %q", got)
	}
	m = settle(t, m, cmd)

	m, _ = sendKeys(m, "r")
	if m.input.Value() != "Backlog" {
		t.Errorf("expected prefilled column title, got %q", m.input.Value())
	}
	m.input.SetValue("Ideas")
	m, cmd = sendKeys(m, "enter")
	m = settle(t, m, cmd)

	board := m.svc.Board()
	if board.Columns[0].Title != "Ideas" {
		t.Errorf("expected renamed column, got %q", board.Columns[0].Title)
	}
	if board.Cards["card-1"].Title != "Align themes" {
		t.Errorf("expected edited card, got %+v", board.Cards["card-1"])
	}
}

func TestBoardModel_DeleteWithConfirmation(t *testing.T) {
	m, _ := newTestBoard(t)

	m, _ = sendKeys(m, "d")
	if m.mode != boardModeConfirmDelete {
		t.Fatalf("expected confirm mode, got %v", m.mode)
	}

	// Declining keeps the card
	_, cmd := sendKeys(m, "n")
	declined, _ := m.Update(cmd())
	if _, ok := declined.Board().Cards["card-1"]; !ok {
		t.Error("expected card-1 to survive")
	}

	_, cmd = sendKeys(m, "y")
	m, cmd = m.Update(cmd())
	if _, ok := m.Board().Cards["card-1"]; ok {
		t.Error("expected card-1 removed optimistically")
	}
	m = settle(t, m, cmd)
	if _, ok := m.svc.Board().Cards["card-1"]; ok {
		t.Error("expected card-1 removed from the service")
	}
}

func TestBoardModel_FilterBlocksMoves(t *testing.T) {
	m, _ := newTestBoard(t)

	m, _ = sendKeys(m, "/", "roadmap", "enter")
	if m.filterQuery != "roadmap" {
		t.Fatalf("expected filter to stick, got %q", m.filterQuery)
	}
	found := false
	for _, id := range m.visibleCards(0) {
		if id == "card-1" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected card-1 to match, got %v", m.visibleCards(0))
	}

	m, _ = sendKeys(m, "m")
	if m.mode != boardModeNormal || m.err != "Clear the filter to move cards" {
		t.Errorf("expected move refused, mode %v err %q", m.mode, m.err)
	}

	m, _ = sendKeys(m, "esc")
	if m.filterQuery != "" || len(m.visibleCards(0)) != 2 {
		t.Errorf("expected filter cleared, got %q", m.filterQuery)
	}
}

func TestBoardModel_FailedSaveShowsMessage(t *testing.T) {
	m, fs := newTestBoard(t)
	before := m.Board()
	fs.fail = true

	m, cmd := sendKeys(m, "m", "j", "enter")
	m = settle(t, m, cmd)

	if m.err != service.MsgMoveFailed {
		t.Errorf("expected %q, got %q", service.MsgMoveFailed, m.err)
	}
	if !reflect.DeepEqual(m.Board().Columns, before.Columns) {
		t.Errorf("expected stored board restored, got %+v", m.Board().Columns)
	}
}

func TestBoardModel_KeysLeaveViewForChatAndLogout(t *testing.T) {
	m, _ := newTestBoard(t)

	_, cmd := sendKeys(m, "c")
	if msg, ok := cmd().(messages.SwitchViewMsg); !ok || msg.View != messages.ViewChat {
		t.Errorf("expected switch to chat, got %#v", cmd())
	}

	_, cmd = sendKeys(m, "L")
	if _, ok := cmd().(messages.LogoutMsg); !ok {
		t.Errorf("expected logout, got %#v", cmd())
	}
}
