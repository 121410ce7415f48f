package fs

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"kanbanstudio/internal/kanban/models"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

const (
	boardFile = "board.md"
	cardsDir  = "cards"
)

// Titles live in frontmatter so markdown syntax in them survives a reload.
// Headings in the body are for display and hand-written boards.
type boardFrontmatter struct {
	ID           string   `yaml:"id,omitempty"`
	Title        string   `yaml:"title,omitempty"`
	Columns      []string `yaml:"columns,omitempty"`
	ColumnTitles []string `yaml:"column_titles,omitempty"`
}

// ReadBoard reads a board.md file and parses it into a Board struct
func ReadBoard(boardPath string) (models.Board, error) {
	content, err := os.ReadFile(filepath.Join(boardPath, boardFile))
	if err != nil {
		return models.Board{}, err
	}

	var fm boardFrontmatter
	raw, body := splitFrontmatter(content)
	if raw != nil {
		if err := yaml.Unmarshal(raw, &fm); err != nil {
			return models.Board{}, err
		}
	}

	board := models.Board{
		ID:      fm.ID,
		Title:   fm.Title,
		Columns: []models.Column{},
		Cards:   map[string]models.Card{},
	}

	reader := text.NewReader(body)
	parser := goldmark.DefaultParser()
	doc := parser.Parse(reader)

	var currentColumn *models.Column
	flush := func() {
		if currentColumn != nil {
			board.Columns = append(board.Columns, *currentColumn)
		}
	}

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			headingText := string(node.Text(body))

			if node.Level == 1 && fm.Title == "" {
				board.Title = headingText
			} else if node.Level == 2 {
				flush()
				i := len(board.Columns)
				currentColumn = &models.Column{
					ID:      columnID(fm.Columns, i, headingText),
					Title:   pick(fm.ColumnTitles, i, headingText),
					CardIDs: []string{},
				}
			}

		case *ast.Link:
			dest := string(node.Destination)
			if strings.HasPrefix(dest, "./"+cardsDir+"/") || strings.HasPrefix(dest, cardsDir+"/") {
				card, err := ReadCard(filepath.Join(boardPath, dest))
				if err == nil && currentColumn != nil {
					currentColumn.CardIDs = append(currentColumn.CardIDs, card.ID)
					board.Cards[card.ID] = card
				}
			}
		}

		return ast.WalkContinue, nil
	})

	flush()

	return board, nil
}

// columnID takes the id recorded in frontmatter for the i-th column, falling
// back to an id derived from the heading.
func columnID(ids []string, i int, heading string) string {
	return pick(ids, i, models.ToColumnID(sanitizeName(heading)))
}

// pick returns values[i] when recorded, else fallback
func pick(values []string, i int, fallback string) string {
	if i < len(values) && values[i] != "" {
		return values[i]
	}
	return fallback
}

// splitFrontmatter separates optional YAML frontmatter from markdown content.
// It returns nil frontmatter when none is present.
func splitFrontmatter(content []byte) ([]byte, []byte) {
	lines := bytes.Split(content, []byte("\n"))
	if len(lines) == 0 || !bytes.Equal(bytes.TrimSpace(lines[0]), []byte("---")) {
		return nil, content
	}

	var frontmatterEnd int
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			frontmatterEnd = i
			break
		}
	}

	if frontmatterEnd == 0 {
		return nil, content
	}

	frontmatter := bytes.Join(lines[1:frontmatterEnd], []byte("\n"))
	body := bytes.TrimLeft(bytes.Join(lines[frontmatterEnd+1:], []byte("\n")), "\n")
	return frontmatter, body
}
