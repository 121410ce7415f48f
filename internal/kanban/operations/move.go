package operations

import (
	"slices"

	"kanbanstudio/internal/kanban/models"
)

// MoveCard relocates the card activeID relative to overID and returns the next
// columns. overID is either a card id (insert at that card's slot) or a column
// id (append to the end of that column).
//
// MoveCard never fails: an id that cannot be resolved, or a move that changes
// nothing, returns the input slice itself. Columns other than the source and
// destination keep their CardIDs backing arrays.
func MoveCard(columns []models.Column, activeID, overID string) []models.Column {
	activeLoc, ok := models.FindCardLocation(columns, activeID)
	if !ok {
		return columns
	}

	overColumnID, ok := models.FindColumnID(columns, overID)
	if !ok {
		return columns
	}

	activeIdx := models.ColumnIndex(columns, activeLoc.ColumnID)
	overIdx := models.ColumnIndex(columns, overColumnID)
	if activeIdx < 0 || overIdx < 0 {
		return columns
	}

	isOverColumn := models.IsColumnID(columns, overID)
	activeColumn := columns[activeIdx]

	if activeIdx == overIdx {
		if isOverColumn {
			oldIndex := slices.Index(activeColumn.CardIDs, activeID)
			if oldIndex == len(activeColumn.CardIDs)-1 {
				return columns
			}
			next := without(activeColumn.CardIDs, activeID)
			next = append(next, activeID)
			return replace(columns, activeIdx, next, -1, nil)
		}

		oldIndex := slices.Index(activeColumn.CardIDs, activeID)
		newIndex := slices.Index(activeColumn.CardIDs, overID)
		if oldIndex == -1 || newIndex == -1 || oldIndex == newIndex {
			return columns
		}

		return replace(columns, activeIdx, reposition(activeColumn.CardIDs, oldIndex, newIndex), -1, nil)
	}

	if slices.Index(activeColumn.CardIDs, activeID) == -1 {
		return columns
	}

	nextActive := without(activeColumn.CardIDs, activeID)

	overColumn := columns[overIdx]
	insertAt := len(overColumn.CardIDs)
	if !isOverColumn {
		if i := slices.Index(overColumn.CardIDs, overID); i >= 0 {
			insertAt = i
		}
	}
	nextOver := insert(overColumn.CardIDs, insertAt, activeID)

	return replace(columns, activeIdx, nextActive, overIdx, nextOver)
}

// ApplyMove runs MoveCard over the board's columns
func ApplyMove(board models.Board, activeID, overID string) models.Board {
	board.Columns = MoveCard(board.Columns, activeID, overID)
	return board
}

// replace copies columns into a new slice, swapping in new card id lists at
// index a and, when b >= 0, index b.
func replace(columns []models.Column, a int, aIDs []string, b int, bIDs []string) []models.Column {
	next := make([]models.Column, len(columns))
	copy(next, columns)
	next[a].CardIDs = aIDs
	if b >= 0 {
		next[b].CardIDs = bIDs
	}
	return next
}

func reposition(ids []string, from, to int) []string {
	moved := ids[from]
	next := make([]string, 0, len(ids))
	next = append(next, ids[:from]...)
	next = append(next, ids[from+1:]...)
	return insert(next, to, moved)
}

func insert(ids []string, at int, id string) []string {
	if at < 0 || at > len(ids) {
		at = len(ids)
	}
	next := make([]string, 0, len(ids)+1)
	next = append(next, ids[:at]...)
	next = append(next, id)
	next = append(next, ids[at:]...)
	return next
}

func without(ids []string, id string) []string {
	next := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			next = append(next, v)
		}
	}
	return next
}
