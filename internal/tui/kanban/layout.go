package kanban

import (
	"kanbanstudio/internal/kanban/drag"
)

// visibleColumns is how many columns fit side by side
func (m BoardModel) visibleColumns() int {
	n := m.width / columnOuterWidth
	if n < 1 {
		n = 1
	}
	return n
}

// cardsPerColumn is how many cards fit in a column body
func (m BoardModel) cardsPerColumn() int {
	avail := m.height - boardTop - 2*columnChromeTop - columnHeaderLines
	n := avail / cardStride
	if n < 1 {
		n = 1
	}
	return n
}

func (m BoardModel) columnHeight() int {
	return 2*columnChromeTop + columnHeaderLines + m.cardsPerColumn()*cardStride
}

// columnRect is the on-screen box of column col, or false when it is scrolled away
func (m BoardModel) columnRect(col int) (drag.Rect, bool) {
	slot := col - m.colOffset
	if slot < 0 || slot >= m.visibleColumns() || col >= len(m.board.Columns) {
		return drag.Rect{}, false
	}
	return drag.Rect{
		X:      float64(slot * columnOuterWidth),
		Y:      boardTop,
		Width:  columnOuterWidth,
		Height: float64(m.columnHeight()),
	}, true
}

// cardRect is the on-screen box of the card at visible index idx in column col
func (m BoardModel) cardRect(col, idx int) (drag.Rect, bool) {
	colRect, ok := m.columnRect(col)
	if !ok {
		return drag.Rect{}, false
	}
	row := idx - m.scroll[col]
	if row < 0 || row >= m.cardsPerColumn() {
		return drag.Rect{}, false
	}
	return drag.Rect{
		X:      colRect.X + columnChromeTop,
		Y:      colRect.Y + columnChromeTop + columnHeaderLines + float64(row*cardStride),
		Width:  columnContentWidth,
		Height: cardHeight,
	}, true
}

// droppables lists every on-screen column body and card
func (m BoardModel) droppables() []drag.Droppable {
	var out []drag.Droppable
	for col, column := range m.board.Columns {
		rect, ok := m.columnRect(col)
		if !ok {
			continue
		}
		out = append(out, drag.Droppable{
			ID:   column.ID,
			Ref:  drag.Ref{ColumnID: column.ID},
			Rect: rect,
		})
		for idx, cardID := range m.visibleCards(col) {
			if rect, ok := m.cardRect(col, idx); ok {
				out = append(out, drag.Droppable{
					ID:   cardID,
					Ref:  drag.Ref{CardID: cardID, ColumnID: column.ID},
					Rect: rect,
				})
			}
		}
	}
	return out
}

// hit returns the column and visible card index under p. card is -1 when p
// is over a column but not a card; col is -1 when p misses every column.
func (m BoardModel) hit(p drag.Point) (col, card int) {
	for c := range m.board.Columns {
		rect, ok := m.columnRect(c)
		if !ok || !rect.Contains(p) {
			continue
		}
		for idx := range m.visibleCards(c) {
			if r, ok := m.cardRect(c, idx); ok && r.Contains(p) {
				return c, idx
			}
		}
		return c, -1
	}
	return -1, -1
}
