package assistant

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/starford/notegenius/internal/apperr"
	"github.com/starford/notegenius/internal/models"
)

// Accepted responses are filed here.
const (
	Folder = "AI Generated"
	Tag    = "ai-generated"
)

// Assistant runs features against a Generator.
type Assistant struct {
	gen  Generator
	opts Options
}

// New creates an Assistant. gen may be nil when no generator is
// configured; Run then fails with ErrUnavailable.
func New(gen Generator, opts Options) *Assistant {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultOptions.MaxTokens
	}
	return &Assistant{gen: gen, opts: opts}
}

// Enabled reports whether a generator is configured.
func (a *Assistant) Enabled() bool { return a.gen != nil }

// Run builds the prompt for f and returns the generated text.
func (a *Assistant) Run(ctx context.Context, f Feature, req Request) (string, error) {
	p, err := BuildPrompt(f, req)
	if err != nil {
		return "", err
	}
	if a.gen == nil {
		return "", fmt.Errorf("assistant: no generator configured: %w", apperr.ErrUnavailable)
	}
	text, err := a.gen.Generate(ctx, p, a.opts)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Accept turns a generated response into a new note filed under the
// assistant folder and tagged with the feature.
func Accept(f Feature, text string) (*models.Note, error) {
	if _, ok := Lookup(f); !ok {
		return nil, fmt.Errorf("assistant: unknown feature %q: %w", f, apperr.ErrInvalidInput)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("assistant: empty response: %w", apperr.ErrInvalidInput)
	}
	n := models.NewNote("AI Generated: "+capitalize(string(f)), text)
	n.Folder = Folder
	n.Tags = models.AddTag(models.AddTag(n.Tags, Tag), string(f))
	n.AIGenerated = true
	return n, nil
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
