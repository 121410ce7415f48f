package operations

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"kanbanstudio/internal/kanban/models"
)

var (
	ErrCardNotFound   = errors.New("card not found")
	ErrColumnNotFound = errors.New("column not found")
)

const (
	maxCardTitle   = 500
	maxCardDetails = 5000
)

// AddCard appends a new card with a fresh id to the end of a column.
// Empty details are replaced with models.DefaultDetails.
func AddCard(board models.Board, columnID, title, details string) (models.Board, models.Card, error) {
	idx := board.GetColumnIndex(columnID)
	if idx < 0 {
		return board, models.Card{}, fmt.Errorf("%w: %s", ErrColumnNotFound, columnID)
	}

	title, details, err := ValidateCard(title, details)
	if err != nil {
		return board, models.Card{}, err
	}
	if details == "" {
		details = models.DefaultDetails
	}

	card := models.Card{
		ID:      models.CreateID(models.CardPrefix),
		Title:   title,
		Details: details,
	}

	cards := copyCards(board.Cards, 1)
	cards[card.ID] = card

	col := board.Columns[idx]
	board.Columns = replace(board.Columns, idx, insert(col.CardIDs, len(col.CardIDs), card.ID), -1, nil)
	board.Cards = cards

	return board, card, nil
}

// DeleteCard removes a card record and its reference from the owning column.
// Deleting an unknown id returns the board unchanged.
func DeleteCard(board models.Board, cardID string) models.Board {
	loc, inColumn := models.FindCardLocation(board.Columns, cardID)
	_, inCards := board.Cards[cardID]
	if !inColumn && !inCards {
		return board
	}

	if inColumn {
		idx := models.ColumnIndex(board.Columns, loc.ColumnID)
		board.Columns = replace(board.Columns, idx, without(board.Columns[idx].CardIDs, cardID), -1, nil)
	}

	cards := copyCards(board.Cards, 0)
	delete(cards, cardID)
	board.Cards = cards

	return board
}

// UpdateCard replaces a card's title and details
func UpdateCard(board models.Board, cardID, title, details string) (models.Board, error) {
	card, ok := board.Cards[cardID]
	if !ok {
		return board, fmt.Errorf("%w: %s", ErrCardNotFound, cardID)
	}

	title, details, err := ValidateCard(title, details)
	if err != nil {
		return board, err
	}

	card.Title = title
	card.Details = details

	cards := copyCards(board.Cards, 0)
	cards[cardID] = card
	board.Cards = cards

	return board, nil
}

// ReplaceBoard adopts a snapshot wholesale. A nil card map is normalised.
func ReplaceBoard(snapshot models.Board) models.Board {
	if snapshot.Cards == nil {
		snapshot.Cards = map[string]models.Card{}
	}
	return snapshot
}

// ValidateCard trims and checks card fields
func ValidateCard(title, details string) (string, string, error) {
	title = strings.TrimSpace(title)
	details = strings.TrimSpace(details)

	if title == "" {
		return "", "", fmt.Errorf("card title cannot be empty")
	}
	if utf8.RuneCountInString(title) > maxCardTitle {
		return "", "", fmt.Errorf("card title too long (max %d characters)", maxCardTitle)
	}
	if utf8.RuneCountInString(details) > maxCardDetails {
		return "", "", fmt.Errorf("card details too long (max %d characters)", maxCardDetails)
	}

	return title, details, nil
}

func copyCards(cards map[string]models.Card, extra int) map[string]models.Card {
	next := make(map[string]models.Card, len(cards)+extra)
	for id, card := range cards {
		next[id] = card
	}
	return next
}
