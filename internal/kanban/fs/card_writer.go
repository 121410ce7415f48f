package fs

import (
	"bytes"
	"os"

	"kanbanstudio/internal/kanban/models"

	"gopkg.in/yaml.v3"
)

// WriteCard writes a Card to a markdown file with frontmatter
func WriteCard(card models.Card, path string) error {
	var buf bytes.Buffer

	frontmatter := cardFrontmatter{ID: card.ID, Title: card.Title}

	yamlBytes, err := yaml.Marshal(frontmatter)
	if err != nil {
		return err
	}

	buf.WriteString("---\n")
	buf.Write(yamlBytes)
	buf.WriteString("---\n\n")

	buf.WriteString("# ")
	buf.WriteString(headingText(card.Title))
	buf.WriteString("\n")

	if card.Details != "" {
		buf.WriteString("\n")
		buf.WriteString(card.Details)
		buf.WriteString("\n")
	}

	return os.WriteFile(path, buf.Bytes(), 0644)
}
