package api

import (
	"kanbanstudio/internal/kanban/models"
)

// ToBoard converts a wire snapshot into the client board. Every card and
// column id is tagged so the two id spaces cannot collide.
func ToBoard(resp BoardResponse) models.Board {
	board := models.Board{
		ID:      string(resp.Board.ID),
		Title:   resp.Board.Title,
		Columns: make([]models.Column, 0, len(resp.Columns)),
		Cards:   make(map[string]models.Card, len(resp.Cards)),
	}

	for key, card := range resp.Cards {
		raw := string(card.ID)
		if raw == "" {
			raw = key
		}
		id := models.ToCardID(raw)
		board.Cards[models.ToCardID(key)] = models.Card{
			ID:      id,
			Title:   card.Title,
			Details: card.Details,
		}
	}

	for _, col := range resp.Columns {
		ids := make([]string, 0, len(col.CardIDs))
		for _, cardID := range col.CardIDs {
			ids = append(ids, models.ToCardID(string(cardID)))
		}
		board.Columns = append(board.Columns, models.Column{
			ID:      models.ToColumnID(string(col.ID)),
			Title:   col.Title,
			CardIDs: ids,
		})
	}

	return board
}
