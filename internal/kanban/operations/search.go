package operations

import (
	"kanbanstudio/internal/kanban/models"

	"github.com/sahilm/fuzzy"
)

// CardMatch is a card found by SearchCards
type CardMatch struct {
	Card     models.Card
	ColumnID string
	Score    int
}

// searchItems implements fuzzy.Source over every card on the board in column order
type searchItems []CardMatch

func (s searchItems) Len() int { return len(s) }

func (s searchItems) String(i int) string {
	return s[i].Card.Title + " " + s[i].Card.Details
}

// SearchCards fuzzy-matches query against card titles and details.
// An empty query returns every card in board order.
func SearchCards(board models.Board, query string) []CardMatch {
	var items searchItems
	for _, col := range board.Columns {
		for _, id := range col.CardIDs {
			card, ok := board.Cards[id]
			if !ok {
				continue
			}
			items = append(items, CardMatch{Card: card, ColumnID: col.ID})
		}
	}

	if query == "" {
		return items
	}

	matches := fuzzy.FindFrom(query, items)
	out := make([]CardMatch, len(matches))
	for i, m := range matches {
		out[i] = items[m.Index]
		out[i].Score = m.Score
	}
	return out
}
