package fs

import (
	"os"
	"path/filepath"
	"testing"

	"kanbanstudio/internal/kanban/models"
)

func TestReadCard_Frontmatter(t *testing.T) {
	cardPath := filepath.Join(t.TempDir(), "whatever.md")
	content := "---\nid: card-17\n---\n\n# Ship it\n\nLine one.\n\nLine two.\n"
	os.WriteFile(cardPath, []byte(content), 0644)

	card, err := ReadCard(cardPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if card.ID != "card-17" {
		t.Errorf("expected id card-17, got %q", card.ID)
	}
	if card.Title != "Ship it" {
		t.Errorf("expected title 'Ship it', got %q", card.Title)
	}
	if card.Details != "Line one.\n\nLine two." {
		t.Errorf("unexpected details %q", card.Details)
	}
}

func TestReadCard_NoFrontmatter(t *testing.T) {
	cardPath := filepath.Join(t.TempDir(), "plain-card.md")
	os.WriteFile(cardPath, []byte("Just some notes\n"), 0644)

	card, err := ReadCard(cardPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if card.ID != "plain-card" {
		t.Errorf("expected id from filename, got %q", card.ID)
	}
	if card.Title != "Untitled" {
		t.Errorf("expected 'Untitled', got %q", card.Title)
	}
	if card.Details != "Just some notes" {
		t.Errorf("unexpected details %q", card.Details)
	}
}

func TestWriteCard_ReadCard_RoundTrip(t *testing.T) {
	cardPath := filepath.Join(t.TempDir(), "c.md")
	original := models.Card{ID: "42", Title: "Numeric id", Details: "Kept as a string."}

	if err := WriteCard(original, cardPath); err != nil {
		t.Fatalf("write error: %v", err)
	}
	loaded, err := ReadCard(cardPath)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if loaded != original {
		t.Errorf("expected %+v, got %+v", original, loaded)
	}
}

func TestCardFilename(t *testing.T) {
	tests := []struct {
		id       string
		expected string
	}{
		{"card-1", "card-1.md"},
		{"card-AbC", "card-abc.md"},
		{"card/../x", "card_x.md"},
	}

	for _, tt := range tests {
		if got := cardFilename(tt.id); got != tt.expected {
			t.Errorf("cardFilename(%q): expected %q, got %q", tt.id, tt.expected, got)
		}
	}
}

func TestReadCard_FrontmatterTitleWins(t *testing.T) {
	cardPath := filepath.Join(t.TempDir(), "c.md")
	content := "---\nid: card-5\ntitle: Fix *urgent* bug\n---\n\n# Fix urgent bug\n\nBody.\n"
	os.WriteFile(cardPath, []byte(content), 0644)

	card, err := ReadCard(cardPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.Title != "Fix *urgent* bug" {
		t.Errorf("expected frontmatter title, got %q", card.Title)
	}
	if card.Details != "Body." {
		t.Errorf("unexpected details %q", card.Details)
	}
}
