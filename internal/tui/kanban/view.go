package kanban

import (
	"fmt"
	"strings"

	"kanbanstudio/internal/kanban/models"
	"kanbanstudio/internal/tui/shared"
	"kanbanstudio/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (m BoardModel) View() string {
	switch m.mode {
	case boardModeInput:
		return m.renderInput()
	case boardModeConfirmDelete:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.confirm.View())
	}

	header := m.renderHeader()
	if len(m.board.Columns) == 0 {
		return header + "\n\n" + theme.Muted.Render("  No columns on this board")
	}

	end := min(m.colOffset+m.visibleColumns(), len(m.board.Columns))
	columns := make([]string, 0, end-m.colOffset)
	for col := m.colOffset; col < end; col++ {
		columns = append(columns, m.renderColumn(col))
	}

	return header + "\n\n" + lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func (m BoardModel) renderHeader() string {
	title := m.board.Title
	if title == "" {
		title = "Kanban Studio"
	}
	parts := []string{titleStyle.Render(title)}

	switch m.mode {
	case boardModeMove:
		parts = append(parts, modeIndicatorStyle(theme.Warning).Render("[MOVE]"))
	case boardModeDrag:
		parts = append(parts, modeIndicatorStyle(theme.Accent).Render("[DRAG]"))
	}

	switch {
	case m.mode == boardModeFilter:
		parts = append(parts, filterIndicatorStyle.Render("/")+m.filterInput.View())
	case m.filterQuery != "":
		parts = append(parts, filterIndicatorStyle.Render(fmt.Sprintf("[filter: %s]", m.filterQuery)))
	}

	switch {
	case m.err != "":
		parts = append(parts, errorStyle.Render(m.err))
	case m.message != "":
		parts = append(parts, successStyle.Render(m.message))
	}

	return strings.Join(parts, "  ")
}

func (m BoardModel) renderColumn(col int) string {
	column := m.board.Columns[col]
	cards := m.visibleCards(col)
	focused := col == m.selectedCol && m.mode == boardModeNormal

	style := columnStyle
	switch {
	case m.isDropColumn(col):
		style = dropColumnStyle
	case focused:
		style = selectedColumnStyle
	}

	headingStyle := columnTitleStyle
	if focused {
		headingStyle = selectedColumnTitleStyle
	}
	heading := fmt.Sprintf("%s (%d)", column.Title, len(cards))
	if m.scroll[col] > 0 || len(cards) > m.scroll[col]+m.cardsPerColumn() {
		heading += " ↕"
	}

	lines := []string{headingStyle.Render(shared.Truncate(heading, columnContentWidth)), ""}

	per := m.cardsPerColumn()
	last := min(m.scroll[col]+per, len(cards))
	for idx := m.scroll[col]; idx < last; idx++ {
		lines = append(lines, m.renderCard(col, idx, cards[idx]), "")
	}

	if m.mode == boardModeMove && m.hoverCol == col && m.hoverCard >= len(column.CardIDs) {
		lines = append(lines, dropSlotStyle.Render("▸ drop at end"))
	}

	body := strings.Join(lines, "\n")
	if pad := columnHeaderLines + per*cardStride - lipgloss.Height(body); pad > 0 {
		body += strings.Repeat("\n", pad)
	}
	return style.Render(body)
}

func (m BoardModel) renderCard(col, idx int, cardID string) string {
	card, ok := m.board.Cards[cardID]
	if !ok {
		card = models.Card{ID: cardID, Title: "(missing card)"}
	}

	style := cardStyle
	switch {
	case m.isDragged(cardID):
		style = draggedCardStyle
	case m.isDropCard(col, idx, cardID):
		style = dropCardStyle
	case m.mode == boardModeNormal && col == m.selectedCol && idx == m.selectedCard:
		style = selectedCardStyle
	}

	title := cardTitleStyle.Render(shared.Truncate(card.Title, cardTextWidth))
	preview := cardPreviewStyle.Render(shared.Truncate(card.Preview(0), cardTextWidth))
	return style.Render(title + "\n" + preview)
}

func (m BoardModel) isDragged(cardID string) bool {
	switch m.mode {
	case boardModeMove:
		return cardID == m.moveCardID
	case boardModeDrag:
		return cardID == m.session.ActiveCardID()
	}
	return false
}

func (m BoardModel) isDropCard(col, idx int, cardID string) bool {
	switch m.mode {
	case boardModeMove:
		return col == m.hoverCol && idx == m.hoverCard
	case boardModeDrag:
		return m.hover.CardID == cardID
	}
	return false
}

func (m BoardModel) isDropColumn(col int) bool {
	switch m.mode {
	case boardModeMove:
		return col == m.hoverCol
	case boardModeDrag:
		return m.hover.CardID == "" && m.hover.ColumnID == m.board.Columns[col].ID
	}
	return false
}

func (m BoardModel) renderInput() string {
	var s strings.Builder
	s.WriteString(theme.ModalTitle.Render(m.inputTitle()))
	s.WriteString("\n\n")
	s.WriteString(m.input.View())
	if m.err != "" {
		s.WriteString("\n\n" + errorStyle.Render(m.err))
	}
	s.WriteString("\n\n" + theme.ModalHelp.Render("enter: save • esc: cancel"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, inputBoxStyle.Render(s.String()))
}

// HelpSections lists the board keybinds for the help popup
func HelpSections() []shared.HelpSection {
	return []shared.HelpSection{
		{Title: "Board", Binds: []shared.HelpBind{
			{Key: "h / l", Desc: "Previous / next column"},
			{Key: "j / k", Desc: "Previous / next card"},
			{Key: "g / G", Desc: "First / last card"},
			{Key: "n", Desc: "New card"},
			{Key: "e", Desc: "Edit card title"},
			{Key: "D", Desc: "Edit card details"},
			{Key: "d", Desc: "Delete card"},
			{Key: "r", Desc: "Rename column"},
			{Key: "/", Desc: "Filter cards"},
			{Key: "R", Desc: "Reload board"},
		}},
		{Title: "Moving cards", Binds: []shared.HelpBind{
			{Key: "m / space", Desc: "Pick up card"},
			{Key: "hjkl", Desc: "Choose drop target"},
			{Key: "enter", Desc: "Drop"},
			{Key: "esc", Desc: "Cancel"},
			{Key: "mouse", Desc: "Drag a card onto a card or column"},
		}},
		{Title: "General", Binds: []shared.HelpBind{
			{Key: "c", Desc: "Assistant chat"},
			{Key: "L", Desc: "Log out"},
			{Key: "?", Desc: "Show this help"},
			{Key: "q", Desc: "Quit"},
		}},
	}
}
