// Package note renders normalized tasks into frontmatter-plus-Markdown note
// files.
package note

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"todo-export/internal/model"
	"todo-export/pkg/filename"
)

const (
	checkboxChecked   = "[x]"
	checkboxUnchecked = "[ ]"
)

// Service renders tasks into notes.
type Service interface {
	// Render converts a normalized task into a rendered note. It is total:
	// any valid task renders, an empty body is valid output.
	Render(t model.Task) model.RenderedNote

	// Encode serializes a rendered note into file bytes: a fenced YAML
	// frontmatter block followed by the Markdown body.
	Encode(n model.RenderedNote) ([]byte, error)
}

type service struct{}

// New creates a new note rendering service.
func New() Service {
	return &service{}
}

func (s *service) Render(t model.Task) model.RenderedNote {
	return model.RenderedNote{
		Filename: filename.Sanitize(t.Title),
		Frontmatter: model.Frontmatter{
			Title:     t.Title,
			List:      t.ListName,
			ID:        t.ID,
			Completed: t.Completed,
			IsStarred: t.Starred,
		},
		Body: renderBody(t),
	}
}

func (s *service) Encode(n model.RenderedNote) ([]byte, error) {
	meta, err := yaml.Marshal(n.Frontmatter)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(meta)
	buf.WriteString("---\n")
	if n.Body != "" {
		buf.WriteString("\n")
		buf.WriteString(n.Body)
		if !strings.HasSuffix(n.Body, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}

// renderBody builds the Markdown body: a Subtasks table when checklist items
// exist, then any free-text body verbatim. Both absent yields an empty body.
func renderBody(t model.Task) string {
	var sb strings.Builder

	if len(t.ChecklistItems) > 0 {
		sb.WriteString("## Subtasks\n\n")
		sb.WriteString("| Done | Item |\n")
		sb.WriteString("| --- | --- |\n")
		for _, item := range t.ChecklistItems {
			indicator := checkboxUnchecked
			if item.Checked {
				indicator = checkboxChecked
			}
			sb.WriteString("| ")
			sb.WriteString(indicator)
			sb.WriteString(" | ")
			sb.WriteString(escapeCell(item.Text))
			sb.WriteString(" |\n")
		}
	}

	if t.Body != "" {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(t.Body)
	}

	return sb.String()
}

// escapeCell keeps checklist text from breaking the table syntax.
func escapeCell(text string) string {
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.ReplaceAll(text, "|", `\|`)
}
