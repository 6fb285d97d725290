// Package parser reads and writes the on-disk note format: a YAML
// frontmatter block holding metadata followed by the Markdown body.
package parser

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/starford/notegenius/internal/apperr"
	"github.com/starford/notegenius/internal/models"
)

const delim = "---"

// UntitledTitle is used when neither frontmatter nor an H1 names the note.
const UntitledTitle = "Untitled"

type frontmatter struct {
	ID          string     `yaml:"id,omitempty"`
	Title       string     `yaml:"title,omitempty"`
	Folder      string     `yaml:"folder,omitempty"`
	Type        string     `yaml:"type,omitempty"`
	Tags        []string   `yaml:"tags,omitempty"`
	CreatedAt   *time.Time `yaml:"created_at,omitempty"`
	UpdatedAt   *time.Time `yaml:"updated_at,omitempty"`
	Locked      bool       `yaml:"locked,omitempty"`
	Private     bool       `yaml:"private,omitempty"`
	Reminder    *time.Time `yaml:"reminder,omitempty"`
	AIGenerated bool       `yaml:"ai_generated,omitempty"`
}

// Parse builds a note from raw file bytes. id is the storage key and wins
// over any id in the frontmatter; modTime fills in missing timestamps.
// Files without frontmatter, or with invalid YAML, are read as body only.
func Parse(id string, data []byte, modTime time.Time) (*models.Note, error) {
	if id == "" {
		return nil, fmt.Errorf("parser: empty id: %w", apperr.ErrInvalidInput)
	}
	fm, body := splitFrontmatter(data)

	n := &models.Note{
		ID:          id,
		Content:     body,
		Tags:        []string{},
		Folder:      models.DefaultFolder,
		Type:        models.TypeNote,
		CreatedAt:   modTime,
		UpdatedAt:   modTime,
		IsLocked:    fm.Locked,
		IsPrivate:   fm.Private,
		AIGenerated: fm.AIGenerated,
		Title:       deriveTitle(fm.Title, body),
	}
	for _, t := range fm.Tags {
		n.Tags = models.AddTag(n.Tags, t)
	}
	if f := strings.TrimSpace(fm.Folder); f != "" {
		n.Folder = f
	}
	if t := models.NoteType(fm.Type); t.Valid() {
		n.Type = t
	}
	if fm.CreatedAt != nil {
		n.CreatedAt = *fm.CreatedAt
	}
	if fm.UpdatedAt != nil {
		n.UpdatedAt = *fm.UpdatedAt
	}
	if n.UpdatedAt.Before(n.CreatedAt) {
		n.UpdatedAt = n.CreatedAt
	}
	if fm.Reminder != nil {
		r := *fm.Reminder
		n.Reminder = &r
	}
	return n, nil
}

// Marshal renders n in the on-disk format. The body is written verbatim so
// Parse(Marshal(n)) returns the same content.
func Marshal(n *models.Note) ([]byte, error) {
	created, updated := n.CreatedAt, n.UpdatedAt
	fm := frontmatter{
		ID:          n.ID,
		Title:       n.Title,
		Folder:      n.Folder,
		Type:        string(n.Type),
		Tags:        n.Tags,
		CreatedAt:   &created,
		UpdatedAt:   &updated,
		Locked:      n.IsLocked,
		Private:     n.IsPrivate,
		Reminder:    n.Reminder,
		AIGenerated: n.AIGenerated,
	}

	var buf bytes.Buffer
	buf.WriteString(delim + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, fmt.Errorf("parser: encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("parser: encode frontmatter: %w", err)
	}
	buf.WriteString(delim + "\n")
	buf.WriteString(n.Content)
	return buf.Bytes(), nil
}

// splitFrontmatter separates the leading YAML block from the body. The body
// starts right after the newline ending the closing delimiter line.
func splitFrontmatter(data []byte) (frontmatter, string) {
	var fm frontmatter
	trimmed := bytes.TrimLeft(data, "\n\r")

	rest, ok := cutDelimLine(trimmed)
	if !ok {
		return fm, string(data)
	}

	offset := 0
	for offset <= len(rest) {
		line := rest[offset:]
		end := bytes.IndexByte(line, '\n')
		if end >= 0 {
			line = line[:end]
		}
		if string(bytes.TrimSuffix(line, []byte("\r"))) == delim {
			yamlBlock := rest[:offset]
			body := ""
			if end >= 0 {
				body = string(rest[offset+end+1:])
			}
			if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
				return frontmatter{}, string(data)
			}
			return fm, body
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}
	// No closing delimiter.
	return fm, string(data)
}

// cutDelimLine strips an opening "---" line.
func cutDelimLine(data []byte) ([]byte, bool) {
	if rest, ok := bytes.CutPrefix(data, []byte(delim+"\n")); ok {
		return rest, true
	}
	if rest, ok := bytes.CutPrefix(data, []byte(delim+"\r\n")); ok {
		return rest, true
	}
	return nil, false
}

// deriveTitle returns the frontmatter title if present, otherwise the first
// H1 heading, otherwise UntitledTitle.
func deriveTitle(title, body string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return UntitledTitle
}
