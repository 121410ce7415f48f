package models

import (
	"fmt"
	"slices"
	"strings"
)

// Column is a fixed board stage holding an ordered list of card ids.
// The order of CardIDs is the display and priority order.
type Column struct {
	ID      string
	Title   string
	CardIDs []string
}

// Board is the single kanban board: ordered columns plus the card records they reference
type Board struct {
	ID      string
	Title   string
	Columns []Column
	Cards   map[string]Card
}

// CardLocation is where a card sits after a move
type CardLocation struct {
	ColumnID string
	Index    int
}

// GetColumn returns a pointer to the column with the given id
func (b *Board) GetColumn(id string) *Column {
	for i := range b.Columns {
		if b.Columns[i].ID == id {
			return &b.Columns[i]
		}
	}
	return nil
}

// GetColumnIndex returns the index of the column with the given id
func (b *Board) GetColumnIndex(id string) int {
	return ColumnIndex(b.Columns, id)
}

// ColumnCards resolves a column's card ids to card records, skipping dangling ids
func (b *Board) ColumnCards(columnID string) []Card {
	col := b.GetColumn(columnID)
	if col == nil {
		return nil
	}
	cards := make([]Card, 0, len(col.CardIDs))
	for _, id := range col.CardIDs {
		if card, ok := b.Cards[id]; ok {
			cards = append(cards, card)
		}
	}
	return cards
}

// CardCount returns the number of card references across all columns
func (b *Board) CardCount() int {
	n := 0
	for _, col := range b.Columns {
		n += len(col.CardIDs)
	}
	return n
}

// Clone returns a deep copy of the board
func (b Board) Clone() Board {
	out := Board{
		ID:      b.ID,
		Title:   b.Title,
		Columns: make([]Column, len(b.Columns)),
		Cards:   make(map[string]Card, len(b.Cards)),
	}
	for i, col := range b.Columns {
		ids := make([]string, len(col.CardIDs))
		copy(ids, col.CardIDs)
		col.CardIDs = ids
		out.Columns[i] = col
	}
	for id, card := range b.Cards {
		out.Cards[id] = card
	}
	return out
}

// Validate checks that every referenced card exists and that no card
// sits in more than one column.
func (b *Board) Validate() error {
	seen := make(map[string]string)
	var problems []string

	for _, col := range b.Columns {
		for _, id := range col.CardIDs {
			if prev, ok := seen[id]; ok {
				problems = append(problems, fmt.Sprintf("card %s in both %s and %s", id, prev, col.ID))
				continue
			}
			seen[id] = col.ID
			if _, ok := b.Cards[id]; !ok {
				problems = append(problems, fmt.Sprintf("card %s in %s has no record", id, col.ID))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid board: %s", strings.Join(problems, "; "))
	}
	return nil
}

// IsColumnID reports whether id names one of the columns
func IsColumnID(columns []Column, id string) bool {
	return ColumnIndex(columns, id) >= 0
}

// FindColumnID resolves an id to a column id. A column id resolves to itself;
// a card id resolves to the column that holds it. Column ids are checked first.
func FindColumnID(columns []Column, id string) (string, bool) {
	if IsColumnID(columns, id) {
		return id, true
	}
	for _, col := range columns {
		if slices.Index(col.CardIDs, id) >= 0 {
			return col.ID, true
		}
	}
	return "", false
}

// FindCardLocation returns the column and index holding cardID
func FindCardLocation(columns []Column, cardID string) (CardLocation, bool) {
	for _, col := range columns {
		if i := slices.Index(col.CardIDs, cardID); i >= 0 {
			return CardLocation{ColumnID: col.ID, Index: i}, true
		}
	}
	return CardLocation{}, false
}

// ColumnIndex returns the position of the column with id, or -1
func ColumnIndex(columns []Column, id string) int {
	return slices.IndexFunc(columns, func(c Column) bool { return c.ID == id })
}
