package models

import (
	"errors"
	"regexp"
	"testing"
)

func TestCreateID_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^card-[0-9a-z]{6}[0-9a-z]+$`)
	seen := make(map[string]bool)

	for i := 0; i < 200; i++ {
		id := CreateID("card")
		if !pattern.MatchString(id) {
			t.Fatalf("unexpected id format %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestTaggedIDs(t *testing.T) {
	if got := ToCardID("12"); got != "card-12" {
		t.Errorf("expected card-12, got %q", got)
	}
	if got := ToCardID("card-12"); got != "card-12" {
		t.Errorf("ToCardID should be idempotent, got %q", got)
	}
	if got := ToColumnID("3"); got != "col-3" {
		t.Errorf("expected col-3, got %q", got)
	}
	if got := FromColumnID("col-3"); got != "3" {
		t.Errorf("expected 3, got %q", got)
	}

	n, err := CardNumber("card-42")
	if err != nil || n != 42 {
		t.Errorf("expected 42, got %d (%v)", n, err)
	}

	if _, err := ColumnNumber("col-backlog"); !errors.Is(err, ErrMalformedID) {
		t.Errorf("expected ErrMalformedID, got %v", err)
	}
}

func TestFindColumnID(t *testing.T) {
	columns := []Column{
		{ID: "col-a", CardIDs: []string{"card-1", "card-2"}},
		{ID: "col-b", CardIDs: []string{"card-3"}},
	}

	tests := []struct {
		id       string
		expected string
		found    bool
	}{
		{"col-a", "col-a", true},
		{"col-b", "col-b", true},
		{"card-2", "col-a", true},
		{"card-3", "col-b", true},
		{"card-9", "", false},
	}

	for _, tt := range tests {
		got, ok := FindColumnID(columns, tt.id)
		if got != tt.expected || ok != tt.found {
			t.Errorf("FindColumnID(%q): expected (%q, %v), got (%q, %v)", tt.id, tt.expected, tt.found, got, ok)
		}
	}
}

func TestColumnIndex(t *testing.T) {
	columns := []Column{{ID: "col-a"}, {ID: "col-b"}}

	tests := []struct {
		id       string
		expected int
	}{
		{"col-a", 0},
		{"col-b", 1},
		{"card-1", -1},
		{"", -1},
	}

	for _, tt := range tests {
		if got := ColumnIndex(columns, tt.id); got != tt.expected {
			t.Errorf("ColumnIndex(%q): expected %d, got %d", tt.id, tt.expected, got)
		}
	}
}

func TestFindColumnID_ColumnIDWins(t *testing.T) {
	// A card id colliding with a column id resolves to the column.
	columns := []Column{
		{ID: "x", CardIDs: []string{}},
		{ID: "col-b", CardIDs: []string{"x"}},
	}
	got, ok := FindColumnID(columns, "x")
	if !ok || got != "x" {
		t.Errorf("expected column x, got %q", got)
	}
}

func TestFindCardLocation(t *testing.T) {
	board := InitialBoard()
	loc, ok := FindCardLocation(board.Columns, "card-5")
	if !ok {
		t.Fatal("expected card-5 to be found")
	}
	if loc.ColumnID != "col-progress" || loc.Index != 1 {
		t.Errorf("unexpected location %+v", loc)
	}
}

func TestInitialBoard_Valid(t *testing.T) {
	board := InitialBoard()
	if err := board.Validate(); err != nil {
		t.Fatalf("seed board invalid: %v", err)
	}
	if len(board.Columns) != 5 {
		t.Errorf("expected 5 columns, got %d", len(board.Columns))
	}
	if board.CardCount() != 8 {
		t.Errorf("expected 8 cards, got %d", board.CardCount())
	}
}

func TestValidate_Detects(t *testing.T) {
	board := Board{
		Columns: []Column{
			{ID: "col-a", CardIDs: []string{"card-1"}},
			{ID: "col-b", CardIDs: []string{"card-1", "card-2"}},
		},
		Cards: map[string]Card{"card-1": {ID: "card-1"}},
	}
	if err := board.Validate(); err == nil {
		t.Error("expected duplicate and dangling references to be reported")
	}
}

func TestClone_Independent(t *testing.T) {
	board := InitialBoard()
	clone := board.Clone()
	clone.Columns[0].CardIDs[0] = "changed"
	clone.Cards["card-1"] = Card{ID: "card-1", Title: "changed"}

	if board.Columns[0].CardIDs[0] != "card-1" {
		t.Error("clone shares column storage")
	}
	if board.Cards["card-1"].Title == "changed" {
		t.Error("clone shares card map")
	}
}

func TestCardPreview(t *testing.T) {
	card := Card{Details: "First line here\nsecond"}
	if got := card.Preview(40); got != "First line here" {
		t.Errorf("unexpected preview %q", got)
	}
	if got := card.Preview(8); got != "First..." {
		t.Errorf("unexpected truncated preview %q", got)
	}
}
