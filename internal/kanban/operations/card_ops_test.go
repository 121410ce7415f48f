package operations

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"kanbanstudio/internal/kanban/models"
)

func TestAddThenDeleteRoundTrip(t *testing.T) {
	board := models.InitialBoard()
	before := append([]string(nil), board.GetColumn("col-review").CardIDs...)

	added, card, err := AddCard(board, "col-review", "New card", "Notes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.Title != "New card" || card.Details != "Notes" {
		t.Errorf("unexpected card %+v", card)
	}
	col := added.GetColumn("col-review")
	if col.CardIDs[len(col.CardIDs)-1] != card.ID {
		t.Errorf("expected new card at end, got %v", col.CardIDs)
	}
	if _, ok := added.Cards[card.ID]; !ok {
		t.Error("expected card record")
	}
	if _, ok := board.Cards[card.ID]; ok {
		t.Error("original board was mutated")
	}

	deleted := DeleteCard(added, card.ID)
	if !reflect.DeepEqual(deleted.GetColumn("col-review").CardIDs, before) {
		t.Errorf("expected %v after delete, got %v", before, deleted.GetColumn("col-review").CardIDs)
	}
	if _, ok := deleted.Cards[card.ID]; ok {
		t.Error("expected card record to be pruned")
	}
}

func TestAddCard_DefaultsAndErrors(t *testing.T) {
	board := models.InitialBoard()

	_, card, err := AddCard(board, "col-done", "  Trim me  ", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.Title != "Trim me" {
		t.Errorf("expected trimmed title, got %q", card.Title)
	}
	if card.Details != models.DefaultDetails {
		t.Errorf("expected default details, got %q", card.Details)
	}

	if _, _, err := AddCard(board, "col-nope", "x", ""); !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("expected ErrColumnNotFound, got %v", err)
	}
	if _, _, err := AddCard(board, "col-done", "   ", ""); err == nil {
		t.Error("expected empty title error")
	}
	if _, _, err := AddCard(board, "col-done", strings.Repeat("x", 501), ""); err == nil {
		t.Error("expected long title error")
	}
}

func TestDeleteCard_Unknown(t *testing.T) {
	board := models.InitialBoard()
	next := DeleteCard(board, "card-404")
	if !reflect.DeepEqual(next, board) {
		t.Error("expected unchanged board")
	}
}

func TestUpdateCard(t *testing.T) {
	board := models.InitialBoard()
	next, err := UpdateCard(board, "card-3", "Renamed", "New notes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Cards["card-3"].Title != "Renamed" {
		t.Errorf("expected title update, got %q", next.Cards["card-3"].Title)
	}
	if board.Cards["card-3"].Title != "Prototype analytics view" {
		t.Error("original board was mutated")
	}

	if _, err := UpdateCard(board, "card-404", "x", ""); !errors.Is(err, ErrCardNotFound) {
		t.Errorf("expected ErrCardNotFound, got %v", err)
	}
}

func TestRenameColumn(t *testing.T) {
	board := models.InitialBoard()
	next, err := RenameColumn(board, "col-review", "  QA  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.GetColumn("col-review").Title != "QA" {
		t.Errorf("expected QA, got %q", next.GetColumn("col-review").Title)
	}
	if board.GetColumn("col-review").Title != "Review" {
		t.Error("original board was mutated")
	}

	if _, err := RenameColumn(board, "col-review", ""); err == nil {
		t.Error("expected empty title error")
	}
	if _, err := RenameColumn(board, "col-x", "Title"); !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("expected ErrColumnNotFound, got %v", err)
	}
}

func TestValidateColumnName(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"Backlog", "Backlog", false},
		{"  Done ", "Done", false},
		{"", "", true},
		{strings.Repeat("a", 201), "", true},
	}

	for _, tt := range tests {
		got, err := ValidateColumnName(tt.input)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ValidateColumnName(%q): got (%q, %v)", tt.input, got, err)
		}
	}
}

func TestReplaceBoard(t *testing.T) {
	next := ReplaceBoard(models.Board{Title: "Server"})
	if next.Cards == nil {
		t.Error("expected card map")
	}
	if next.Title != "Server" {
		t.Errorf("expected title Server, got %q", next.Title)
	}
}
