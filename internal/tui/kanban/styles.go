package kanban

import (
	"kanbanstudio/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const (
	// Layout constants. Cards have a fixed height so hit regions can be
	// computed without rendering.
	columnWidth        = 30
	columnPadding      = 1
	columnOuterWidth   = columnWidth + 2
	columnContentWidth = columnWidth - 2*columnPadding
	cardWidth          = columnContentWidth - 1
	cardTextWidth      = cardWidth - 2
	cardHeight         = 2
	cardStride         = cardHeight + 1
	boardTop           = 2
	columnChromeTop    = 2
	columnHeaderLines  = 2
)

func columnBox(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(columnPadding).
		Width(columnWidth)
}

func cardBox(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), false, false, false, true).
		BorderForeground(border).
		Padding(0, 1).
		Width(cardWidth)
}

var (
	titleStyle = theme.Title.Padding(0, 1)

	columnStyle         = columnBox(theme.Border)
	selectedColumnStyle = columnBox(theme.BorderFocused)
	dropColumnStyle     = columnBox(theme.Warning)

	columnTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(theme.Primary).
				Width(columnContentWidth).
				Align(lipgloss.Center)

	selectedColumnTitleStyle = columnTitleStyle.
					Foreground(theme.Warning).
					Underline(true)

	cardStyle         = cardBox(theme.Border)
	selectedCardStyle = cardBox(theme.BorderFocused).Background(theme.Surface).Bold(true)
	draggedCardStyle  = cardBox(theme.Warning).Background(theme.DragSurface).Bold(true)
	dropCardStyle     = cardBox(theme.Warning)

	cardTitleStyle   = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	cardPreviewStyle = lipgloss.NewStyle().Foreground(theme.TextMuted)

	dropSlotStyle = lipgloss.NewStyle().Foreground(theme.Warning).Italic(true)

	filterIndicatorStyle = lipgloss.NewStyle().Foreground(theme.Warning).Bold(true)

	inputBoxStyle = theme.ModalBox.Width(60)

	errorStyle   = theme.Error
	successStyle = theme.Ok
)

func modeIndicatorStyle(color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(color)
}
