package kanban

import (
	"fmt"
	"math"
	"strings"

	"kanbanstudio/internal/kanban/drag"
	"kanbanstudio/internal/kanban/models"
	"kanbanstudio/internal/kanban/operations"
	"kanbanstudio/internal/kanban/service"
	"kanbanstudio/internal/logs"
	"kanbanstudio/internal/tui/messages"
	"kanbanstudio/internal/tui/shared"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type boardMode int

const (
	boardModeNormal boardMode = iota
	boardModeMove
	boardModeDrag
	boardModeInput
	boardModeConfirmDelete
	boardModeFilter
)

type inputKind int

const (
	inputNewCard inputKind = iota
	inputEditTitle
	inputEditDetails
	inputRenameColumn
)

// dragThreshold is how far, in cells, the pointer must travel before a press
// on a card becomes a drag
const dragThreshold = 2

type press struct {
	ref    drag.Ref
	origin drag.Point
	rect   drag.Rect
}

// BoardModel is the board view. Every mutation is applied to the local copy
// right away and then handed to the service; the service's board replaces the
// local copy when the call returns.
type BoardModel struct {
	svc   service.BoardService
	board models.Board
	mode  boardMode

	selectedCol  int
	selectedCard int
	colOffset    int
	scroll       []int
	cursor       []int

	// keyboard move
	moveCardID string
	hoverCol   int
	hoverCard  int

	// pointer drag
	session drag.Session
	press   *press
	hover   drag.Ref

	input       textinput.Model
	inputKind   inputKind
	inputTarget string

	confirm       *shared.ConfirmationModal
	pendingDelete string

	filterInput textinput.Model
	filterQuery string
	matches     map[string]bool

	pending int
	message string
	err     string
	width   int
	height  int
}

func NewBoardModel(svc service.BoardService) BoardModel {
	fi := textinput.New()
	fi.Placeholder = "filter cards..."
	fi.CharLimit = 100
	fi.Width = 40

	m := BoardModel{svc: svc, filterInput: fi}
	m.setBoard(svc.Board())
	return m
}

// Init loads the board of record
func (m BoardModel) Init() tea.Cmd {
	return m.run(refreshCmd(m.svc), "Loading board...")
}

func (m *BoardModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ensureVisible(m.selectedCol, m.selectedCard)
}

// Board returns the board as currently displayed
func (m BoardModel) Board() models.Board {
	return m.board
}

// IsInModalState reports whether the view wants every key for itself
func (m BoardModel) IsInModalState() bool {
	return m.mode != boardModeNormal
}

// Busy reports whether a service call is in flight
func (m BoardModel) Busy() bool {
	return m.pending > 0
}

func (m BoardModel) Update(msg tea.Msg) (BoardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.BoardSyncedMsg:
		if m.pending > 0 {
			m.pending--
		}
		m.setBoard(msg.Board)
		if msg.Err != nil {
			m.err = service.Message(msg.Err)
			m.message = ""
			logs.Logger.Printf("Board call failed: %v", msg.Err)
		} else if m.pending == 0 && strings.HasSuffix(m.message, "...") {
			m.message = ""
		}
		return m, nil

	case shared.ConfirmationResultMsg:
		if m.mode != boardModeConfirmDelete {
			return m, nil
		}
		m.mode = boardModeNormal
		m.confirm = nil
		cardID := m.pendingDelete
		m.pendingDelete = ""
		if !msg.Confirmed || cardID == "" {
			return m, nil
		}
		return m.deleteCard(cardID)

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		switch m.mode {
		case boardModeMove:
			return m.updateMove(msg)
		case boardModeDrag:
			if msg.String() == "esc" {
				m.cancelDrag()
			}
			return m, nil
		case boardModeInput:
			return m.updateInput(msg)
		case boardModeConfirmDelete:
			return m, m.confirm.Update(msg)
		case boardModeFilter:
			return m.updateFilter(msg)
		}
		return m.updateNormal(msg)
	}

	return m, nil
}

func (m BoardModel) updateNormal(msg tea.KeyMsg) (BoardModel, tea.Cmd) {
	m.err = ""
	switch msg.String() {
	case "h", "left":
		m.selectColumn(m.selectedCol - 1)
	case "l", "right":
		m.selectColumn(m.selectedCol + 1)
	case "j", "down":
		m.selectCard(m.selectedCard + 1)
	case "k", "up":
		m.selectCard(m.selectedCard - 1)
	case "g":
		m.selectCard(0)
	case "G":
		m.selectCard(len(m.visibleCards(m.selectedCol)) - 1)

	case "m", " ":
		return m.startMove()
	case "n", "a":
		return m.openInput(inputNewCard)
	case "e":
		return m.openInput(inputEditTitle)
	case "D":
		return m.openInput(inputEditDetails)
	case "r":
		return m.openInput(inputRenameColumn)
	case "d", "x":
		return m.askDelete()

	case "/":
		m.mode = boardModeFilter
		m.filterInput.SetValue(m.filterQuery)
		m.filterInput.Focus()
		return m, textinput.Blink
	case "esc":
		if m.filterQuery != "" {
			m.setFilter("")
		}

	case "R":
		return m, m.run(refreshCmd(m.svc), "Refreshing...")
	case "c":
		return m, messages.SwitchView(messages.ViewChat)
	case "L":
		return m, messages.Logout
	}
	return m, nil
}

// run counts cmd as an in-flight call and shows status until it returns
func (m *BoardModel) run(cmd tea.Cmd, status string) tea.Cmd {
	m.pending++
	m.message = status
	return cmd
}

// --- board state ---

func (m *BoardModel) setBoard(b models.Board) {
	m.board = b
	if len(m.scroll) != len(b.Columns) {
		m.scroll = make([]int, len(b.Columns))
		m.cursor = make([]int, len(b.Columns))
	}
	if m.filterQuery != "" {
		m.recomputeFilter()
	}

	if m.mode == boardModeMove {
		if _, ok := m.board.Cards[m.moveCardID]; !ok {
			m.mode = boardModeNormal
			m.moveCardID = ""
		} else {
			m.clampHover()
		}
	}
	if m.mode == boardModeDrag {
		if _, ok := m.board.Cards[m.session.ActiveCardID()]; !ok {
			m.cancelDrag()
		}
	}

	if m.selectedCol >= len(m.board.Columns) {
		m.selectedCol = max(0, len(m.board.Columns)-1)
	}
	m.selectCard(m.selectedCard)
}

// visibleCards returns the card ids of column col that pass the filter
func (m BoardModel) visibleCards(col int) []string {
	if col < 0 || col >= len(m.board.Columns) {
		return nil
	}
	ids := m.board.Columns[col].CardIDs
	if m.filterQuery == "" {
		return ids
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if m.matches[id] {
			out = append(out, id)
		}
	}
	return out
}

func (m BoardModel) selectedColumn() (models.Column, bool) {
	if m.selectedCol < 0 || m.selectedCol >= len(m.board.Columns) {
		return models.Column{}, false
	}
	return m.board.Columns[m.selectedCol], true
}

func (m BoardModel) selectedCardID() string {
	cards := m.visibleCards(m.selectedCol)
	if m.selectedCard < 0 || m.selectedCard >= len(cards) {
		return ""
	}
	return cards[m.selectedCard]
}

// selectCardID moves the cursor onto cardID wherever it now lives
func (m *BoardModel) selectCardID(cardID string) {
	for col := range m.board.Columns {
		for idx, id := range m.visibleCards(col) {
			if id == cardID {
				m.selectedCol = col
				m.selectCard(idx)
				return
			}
		}
	}
}

// --- navigation ---

func (m *BoardModel) selectColumn(col int) {
	if col < 0 || col >= len(m.board.Columns) {
		return
	}
	m.cursor[m.selectedCol] = m.selectedCard
	m.selectedCol = col
	m.selectCard(m.cursor[col])
}

func (m *BoardModel) selectCard(idx int) {
	n := len(m.visibleCards(m.selectedCol))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	m.selectedCard = idx
	if m.selectedCol < len(m.cursor) {
		m.cursor[m.selectedCol] = idx
	}
	m.ensureVisible(m.selectedCol, idx)
}

// ensureVisible scrolls so that column col and its card idx are on screen
func (m *BoardModel) ensureVisible(col, idx int) {
	if col < 0 || col >= len(m.scroll) {
		return
	}
	if col < m.colOffset {
		m.colOffset = col
	}
	if visible := m.visibleColumns(); col >= m.colOffset+visible {
		m.colOffset = col - visible + 1
	}

	per := m.cardsPerColumn()
	if idx < m.scroll[col] {
		m.scroll[col] = idx
	}
	if idx >= m.scroll[col]+per {
		m.scroll[col] = idx - per + 1
	}
	if m.scroll[col] < 0 {
		m.scroll[col] = 0
	}
}

// --- keyboard move ---

func (m BoardModel) startMove() (BoardModel, tea.Cmd) {
	cardID := m.selectedCardID()
	if cardID == "" {
		return m, nil
	}
	if m.filterQuery != "" {
		m.err = "Clear the filter to move cards"
		return m, nil
	}
	m.mode = boardModeMove
	m.moveCardID = cardID
	m.hoverCol = m.selectedCol
	m.hoverCard = m.selectedCard
	m.message = ""
	return m, nil
}

func (m BoardModel) updateMove(msg tea.KeyMsg) (BoardModel, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		if m.hoverCol > 0 {
			m.hoverCol--
		}
	case "l", "right":
		if m.hoverCol < len(m.board.Columns)-1 {
			m.hoverCol++
		}
	case "j", "down":
		m.hoverCard++
	case "k", "up":
		m.hoverCard--
	case "enter", "m", " ":
		return m.dropMove()
	case "esc":
		m.mode = boardModeNormal
		m.moveCardID = ""
		return m, nil
	}
	m.clampHover()
	return m, nil
}

// clampHover keeps the hover slot inside its column. The slot after the
// last card stands for the column itself.
func (m *BoardModel) clampHover() {
	if m.hoverCol >= len(m.board.Columns) {
		m.hoverCol = len(m.board.Columns) - 1
	}
	n := len(m.board.Columns[m.hoverCol].CardIDs)
	if m.hoverCard > n {
		m.hoverCard = n
	}
	if m.hoverCard < 0 {
		m.hoverCard = 0
	}
	m.ensureVisible(m.hoverCol, min(m.hoverCard, max(n-1, 0)))
}

// hoverTarget is the over id for the current hover slot
func (m BoardModel) hoverTarget() string {
	col := m.board.Columns[m.hoverCol]
	if m.hoverCard < len(col.CardIDs) {
		return col.CardIDs[m.hoverCard]
	}
	return col.ID
}

func (m BoardModel) dropMove() (BoardModel, tea.Cmd) {
	activeID := m.moveCardID
	overID := m.hoverTarget()
	m.mode = boardModeNormal
	m.moveCardID = ""

	if overID == activeID {
		return m, nil
	}
	current := m.board.Columns
	next := operations.MoveCard(current, activeID, overID)
	if len(next) > 0 && &next[0] == &current[0] {
		return m, nil
	}

	m.board.Columns = next
	m.selectCardID(activeID)
	return m, m.run(moveCardCmd(m.svc, activeID, overID), "Moving card...")
}

// --- pointer drag ---

func (m BoardModel) updateMouse(msg tea.MouseMsg) (BoardModel, tea.Cmd) {
	p := drag.Point{X: float64(msg.X), Y: float64(msg.Y)}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || (m.mode != boardModeNormal && m.mode != boardModeDrag) {
			return m, nil
		}
		col, idx := m.hit(p)
		if col < 0 {
			return m, nil
		}
		m.err = ""
		m.selectColumn(col)
		if idx < 0 {
			return m, nil
		}
		m.selectCard(idx)
		if m.filterQuery != "" {
			return m, nil
		}
		rect, _ := m.cardRect(col, idx)
		m.press = &press{
			ref:    drag.Ref{CardID: m.visibleCards(col)[idx], ColumnID: m.board.Columns[col].ID},
			origin: p,
			rect:   rect,
		}
		return m, nil

	case tea.MouseActionMotion:
		if m.press == nil {
			return m, nil
		}
		if !m.session.Dragging() {
			if math.Hypot(p.X-m.press.origin.X, p.Y-m.press.origin.Y) < dragThreshold {
				return m, nil
			}
			if !m.session.Start(m.press.ref) {
				m.press = nil
				return m, nil
			}
			m.mode = boardModeDrag
		}
		m.hover = m.detect(m.press, p)
		m.session.Over(m.hover)
		return m, nil

	case tea.MouseActionRelease:
		if m.press == nil {
			return m, nil
		}
		pr := m.press
		m.press = nil
		if !m.session.Dragging() {
			return m, nil
		}
		m.mode = boardModeNormal
		if pr.rect.Contains(p) {
			m.cancelDrag()
			return m, nil
		}

		over := m.detect(pr, p)
		m.hover = drag.Ref{}
		next, move, ok := m.session.End(m.board.Columns, over)
		if !ok || (len(next) > 0 && &next[0] == &m.board.Columns[0]) {
			return m, nil
		}
		m.board.Columns = next
		m.selectCardID(move.ActiveID)
		return m, m.run(applyDropCmd(m.svc, move.ActiveID, m.board.Clone().Columns), "Moving card...")
	}
	return m, nil
}

// detect returns the region under the dragged card, which follows the pointer
func (m BoardModel) detect(pr *press, p drag.Point) drag.Ref {
	active := drag.Droppable{
		ID:   pr.ref.CardID,
		Ref:  pr.ref,
		Rect: pr.rect.Translate(p.X-pr.origin.X, p.Y-pr.origin.Y),
	}
	collisions := drag.Detect(p, active, m.droppables())
	if len(collisions) == 0 {
		return drag.Ref{}
	}
	return collisions[0].Ref
}

func (m *BoardModel) cancelDrag() {
	m.session.Cancel()
	m.press = nil
	m.hover = drag.Ref{}
	m.mode = boardModeNormal
}

// --- text input ---

func (m BoardModel) openInput(kind inputKind) (BoardModel, tea.Cmd) {
	col, ok := m.selectedColumn()
	if !ok {
		return m, nil
	}

	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 50

	switch kind {
	case inputNewCard:
		ti.Placeholder = "Card title"
		m.inputTarget = col.ID
	case inputRenameColumn:
		ti.Placeholder = "Column title"
		ti.SetValue(col.Title)
		m.inputTarget = col.ID
	case inputEditTitle, inputEditDetails:
		cardID := m.selectedCardID()
		if cardID == "" {
			return m, nil
		}
		card := m.board.Cards[cardID]
		if kind == inputEditTitle {
			ti.Placeholder = "Card title"
			ti.SetValue(card.Title)
		} else {
			ti.Placeholder = models.DefaultDetails
			ti.SetValue(card.Details)
		}
		m.inputTarget = cardID
	}

	ti.Focus()
	m.input = ti
	m.inputKind = kind
	m.mode = boardModeInput
	m.err = ""
	return m, textinput.Blink
}

func (m BoardModel) inputTitle() string {
	switch m.inputKind {
	case inputNewCard:
		return "New card in " + m.columnTitle(m.inputTarget)
	case inputRenameColumn:
		return "Rename column"
	case inputEditDetails:
		return "Edit card details"
	}
	return "Edit card title"
}

func (m BoardModel) columnTitle(columnID string) string {
	if col := m.board.GetColumn(columnID); col != nil {
		return col.Title
	}
	return columnID
}

func (m BoardModel) updateInput(msg tea.KeyMsg) (BoardModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = boardModeNormal
		return m, nil
	case "enter":
		return m.submitInput()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitInput validates locally first so bad input never reaches the service
func (m BoardModel) submitInput() (BoardModel, tea.Cmd) {
	value := m.input.Value()
	target := m.inputTarget

	switch m.inputKind {
	case inputNewCard:
		title, _, err := operations.ValidateCard(value, "")
		if err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.mode = boardModeNormal
		return m, m.run(addCardCmd(m.svc, target, title), "Adding card...")

	case inputRenameColumn:
		next, err := operations.RenameColumn(m.board, target, value)
		if err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.mode = boardModeNormal
		m.setBoard(next)
		return m, m.run(renameColumnCmd(m.svc, target, value), "Saving column...")

	default:
		card := m.board.Cards[target]
		title, details := card.Title, card.Details
		if m.inputKind == inputEditTitle {
			title = value
		} else {
			details = value
		}
		next, err := operations.UpdateCard(m.board, target, title, details)
		if err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.mode = boardModeNormal
		m.setBoard(next)
		return m, m.run(updateCardCmd(m.svc, target, title, details), "Saving card...")
	}
}

// --- delete ---

func (m BoardModel) askDelete() (BoardModel, tea.Cmd) {
	cardID := m.selectedCardID()
	if cardID == "" {
		return m, nil
	}
	card := m.board.Cards[cardID]
	m.pendingDelete = cardID
	m.confirm = shared.NewConfirmationModal("Delete this card?", fmt.Sprintf("%q", card.Title), 50)
	m.mode = boardModeConfirmDelete
	return m, nil
}

func (m BoardModel) deleteCard(cardID string) (BoardModel, tea.Cmd) {
	m.setBoard(operations.DeleteCard(m.board, cardID))
	return m, m.run(deleteCardCmd(m.svc, cardID), "Deleting card...")
}

// --- filter ---

func (m BoardModel) updateFilter(msg tea.KeyMsg) (BoardModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = boardModeNormal
		m.filterInput.Blur()
		m.setFilter(m.filterInput.Value())
		return m, nil
	case "esc":
		m.mode = boardModeNormal
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.setFilter("")
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.setFilter(m.filterInput.Value())
	return m, cmd
}

func (m *BoardModel) setFilter(query string) {
	m.filterQuery = strings.TrimSpace(query)
	m.matches = nil
	if m.filterQuery != "" {
		m.recomputeFilter()
	}
	for col := range m.scroll {
		m.scroll[col] = 0
		m.cursor[col] = 0
	}
	m.selectCard(0)
}

func (m *BoardModel) recomputeFilter() {
	matches := operations.SearchCards(m.board, m.filterQuery)
	m.matches = make(map[string]bool, len(matches))
	for _, match := range matches {
		m.matches[match.Card.ID] = true
	}
}

// SetBoard adopts a board produced outside this view, such as by the assistant
func (m *BoardModel) SetBoard(b models.Board) {
	m.setBoard(b)
}
