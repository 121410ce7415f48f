package fs

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"kanbanstudio/internal/kanban/models"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

type cardFrontmatter struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title,omitempty"`
}

// ReadCard reads a card file and parses its frontmatter and content
func ReadCard(cardPath string) (models.Card, error) {
	content, err := os.ReadFile(cardPath)
	if err != nil {
		return models.Card{}, err
	}

	var fm cardFrontmatter
	raw, body := splitFrontmatter(content)
	if raw != nil {
		if err := yaml.Unmarshal(raw, &fm); err != nil {
			return models.Card{}, err
		}
	}

	id := fm.ID
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(cardPath), ".md")
	}

	title, details := splitTitle(body)
	if fm.Title != "" {
		title = fm.Title
	}

	return models.Card{
		ID:      id,
		Title:   title,
		Details: details,
	}, nil
}

// splitTitle returns the first H1 as the title and everything after it as details
func splitTitle(body []byte) (string, string) {
	reader := text.NewReader(body)
	parser := goldmark.DefaultParser()
	doc := parser.Parse(reader)

	title := ""
	rest := -1
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == ast.KindHeading {
			heading := n.(*ast.Heading)
			if heading.Level == 1 {
				title = string(n.Text(body))
				if lines := heading.Lines(); lines.Len() > 0 {
					rest = lines.At(lines.Len() - 1).Stop
				}
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})

	if title == "" {
		return "Untitled", strings.TrimSpace(string(body))
	}
	if rest < 0 || rest > len(body) {
		return title, ""
	}
	return title, strings.TrimSpace(string(body[rest:]))
}

var (
	unsafeChars = regexp.MustCompile(`[^a-z0-9_-]+`)
	dashes      = regexp.MustCompile(`-+`)
)

func sanitizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "-")
	name = unsafeChars.ReplaceAllString(name, "")
	name = dashes.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if name == "" {
		name = "column"
	}
	return name
}

func cardFilename(id string) string {
	return unsafeChars.ReplaceAllString(strings.ToLower(id), "_") + ".md"
}
