package operations

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"kanbanstudio/internal/kanban/models"
)

const maxColumnTitle = 200

// RenameColumn sets a column's title. Columns are fixed, so only the title changes.
func RenameColumn(board models.Board, columnID, title string) (models.Board, error) {
	idx := board.GetColumnIndex(columnID)
	if idx < 0 {
		return board, fmt.Errorf("%w: %s", ErrColumnNotFound, columnID)
	}

	validated, err := ValidateColumnName(title)
	if err != nil {
		return board, err
	}

	next := make([]models.Column, len(board.Columns))
	copy(next, board.Columns)
	next[idx].Title = validated
	board.Columns = next

	return board, nil
}

// ValidateColumnName checks if column name is valid (trim, length check)
func ValidateColumnName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return "", fmt.Errorf("column name cannot be empty")
	}

	if utf8.RuneCountInString(trimmed) > maxColumnTitle {
		return "", fmt.Errorf("column name too long (max %d characters)", maxColumnTitle)
	}

	return trimmed, nil
}
