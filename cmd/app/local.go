package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/starford/notegenius/internal/models"
	"github.com/starford/notegenius/internal/parser"
	"github.com/starford/notegenius/internal/preview"
	"github.com/starford/notegenius/internal/tasks"
	"github.com/starford/notegenius/internal/textstats"
)

// readNoteFile parses a Markdown file, with or without frontmatter.
func readNoteFile(path string) (*models.Note, []byte, error) {
	if path == "" {
		return nil, nil, cli.Exit("a file argument is required", 2)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	n, err := parser.Parse(id, data, info.ModTime())
	if err != nil {
		return nil, nil, err
	}
	return n, data, nil
}

func statsCommand(_ context.Context, cmd *cli.Command) error {
	n, _, err := readNoteFile(cmd.Args().First())
	if err != nil {
		return err
	}
	writeStats(os.Stdout, textstats.Analyze(n.Content))
	return nil
}

func writeStats(w io.Writer, s textstats.Stats) {
	fmt.Fprintf(w, "words:                 %d\n", s.Words)
	fmt.Fprintf(w, "characters:            %d\n", s.Characters)
	fmt.Fprintf(w, "sentences:             %d\n", s.Sentences)
	fmt.Fprintf(w, "paragraphs:            %d\n", s.Paragraphs)
	fmt.Fprintf(w, "reading time:          %d min\n", s.ReadingTimeMinutes)
	fmt.Fprintf(w, "readability:           %d\n", s.ReadabilityScore)
	fmt.Fprintf(w, "words per sentence:    %.1f\n", s.AvgWordsPerSentence)
	fmt.Fprintf(w, "sentences / paragraph: %.1f\n", s.AvgSentencesPerParagraph)
}

func tasksCommand(_ context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	n, data, err := readNoteFile(path)
	if err != nil {
		return err
	}
	if idx := int(cmd.Int("toggle")); idx >= 0 {
		next, err := toggleInFile(data, n.Content, idx)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, next, 0o644); err != nil {
			return err
		}
		n.Content = string(next[len(next)-len(n.Content):])
	}
	writeTasks(os.Stdout, n.Content, stdoutIsTerminal())
	return nil
}

// toggleInFile flips task idx of body, the verbatim tail of data, leaving
// any frontmatter bytes untouched.
func toggleInFile(data []byte, body string, idx int) ([]byte, error) {
	next, err := tasks.Toggle(body, idx)
	if err != nil {
		return nil, err
	}
	head := data[:len(data)-len(body)]
	return append(append([]byte{}, head...), next...), nil
}

// writeTasks lists the tasks of body with their indices. styled adds
// terminal colours.
func writeTasks(w io.Writer, body string, styled bool) {
	items := tasks.Parse(body)
	if len(items) == 0 {
		fmt.Fprintln(w, "no tasks")
		return
	}
	for i, t := range items {
		line := tasks.Line(t.Text, t.Completed)
		if styled {
			if t.Completed {
				line = doneStyle.Render(line)
			} else {
				line = openStyle.Render(line)
			}
		}
		fmt.Fprintf(w, "%3d  %s\n", i, line)
	}
	total, completed := tasks.Count(body)
	summary := fmt.Sprintf("%d/%d completed", completed, total)
	if styled {
		summary = summaryStyle.Render(summary)
	}
	fmt.Fprintln(w, summary)
}

func showCommand(_ context.Context, cmd *cli.Command) error {
	n, _, err := readNoteFile(cmd.Args().First())
	if err != nil {
		return err
	}
	width := int(cmd.Int("width"))
	if width <= 0 {
		width = terminalWidth(preview.DefaultWidth)
	}
	fmt.Fprintln(os.Stdout, preview.Terminal("# "+n.Title+"\n\n"+n.Content, width))
	return nil
}
