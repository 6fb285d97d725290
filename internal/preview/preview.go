// Package preview renders note Markdown for display: HTML for the browser
// editor and styled text for the terminal.
package preview

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Notes are written by their owner, so inline HTML such as the <u> emitted
// by the underline format is passed through.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// HTML renders content as HTML. Checklist lines become checkbox inputs.
func HTML(content string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("preview: render html: %w", err)
	}
	return buf.String(), nil
}

// DefaultWidth is used when the terminal width is unknown.
const DefaultWidth = 80

var (
	rendererMu sync.Mutex
	renderers  = map[int]*glamour.TermRenderer{}
)

// Terminal renders content for a terminal of the given width. Rendering
// falls back to the raw text when glamour cannot be initialised.
func Terminal(content string, width int) string {
	value := strings.TrimRight(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	if strings.TrimSpace(value) == "" {
		return ""
	}
	if width < 1 {
		width = DefaultWidth
	}
	r := termRenderer(width)
	if r == nil {
		return value
	}
	out, err := r.Render(value)
	if err != nil {
		return value
	}
	return strings.TrimRight(out, "\n")
}

func termRenderer(width int) *glamour.TermRenderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if cached, ok := renderers[width]; ok {
		return cached
	}
	style := styles.ASCIIStyleConfig
	style.Task.Ticked = "[x] "
	style.Task.Unticked = "[ ] "
	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[width] = created
	return created
}
