package fs

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"kanbanstudio/internal/kanban/models"

	"gopkg.in/yaml.v3"
)

// WriteBoard writes board.md and one file per card under cards/.
// Card files no longer referenced by the board are removed.
func WriteBoard(boardPath string, board models.Board) error {
	dir := filepath.Join(boardPath, cardsDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	fm := boardFrontmatter{ID: board.ID, Title: board.Title}
	for _, column := range board.Columns {
		fm.Columns = append(fm.Columns, column.ID)
		fm.ColumnTitles = append(fm.ColumnTitles, column.Title)
	}
	yamlBytes, err := yaml.Marshal(fm)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(yamlBytes)
	buf.WriteString("---\n\n")

	buf.WriteString("# ")
	buf.WriteString(headingText(board.Title))
	buf.WriteString("\n\n")

	keep := make(map[string]bool)
	for _, column := range board.Columns {
		buf.WriteString("## ")
		buf.WriteString(headingText(column.Title))
		buf.WriteString("\n\n")

		for _, id := range column.CardIDs {
			card, ok := board.Cards[id]
			if !ok {
				continue
			}
			filename := cardFilename(card.ID)
			if err := WriteCard(card, filepath.Join(dir, filename)); err != nil {
				return err
			}
			keep[filename] = true

			buf.WriteString("[")
			buf.WriteString(escapeLinkText(headingText(card.Title)))
			buf.WriteString("](./" + cardsDir + "/")
			buf.WriteString(filename)
			buf.WriteString(")\n\n")
		}
	}

	if err := os.WriteFile(filepath.Join(boardPath, boardFile), buf.Bytes(), 0644); err != nil {
		return err
	}

	return pruneCards(dir, keep)
}

func pruneCards(dir string, keep map[string]bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") || keep[e.Name()] {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// headingText keeps a title on one line so it cannot open extra headings
func headingText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func escapeLinkText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "[", `\[`)
	return strings.ReplaceAll(s, "]", `\]`)
}
