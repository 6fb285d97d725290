package editor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DictationSource yields finalized text chunks, for example from a speech
// recogniser. Next returns io.EOF when the source is exhausted.
type DictationSource interface {
	Next(ctx context.Context) (string, error)
}

// Dictate appends every chunk from src to the buffer, separated by a space,
// until src is exhausted or ctx is done. It returns the number of chunks
// applied. Blank chunks are skipped.
func (s *Session) Dictate(ctx context.Context, src DictationSource) (int, error) {
	applied := 0
	for {
		if err := ctx.Err(); err != nil {
			return applied, err
		}
		chunk, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return applied, nil
		}
		if err != nil {
			return applied, fmt.Errorf("editor: dictation: %w", err)
		}
		if !s.AppendDictation(chunk) {
			continue
		}
		applied++
	}
}

// AppendDictation appends one finalized chunk and reports whether the
// buffer changed.
func (s *Session) AppendDictation(chunk string) bool {
	chunk = strings.TrimSpace(chunk)
	if chunk == "" {
		return false
	}
	s.setContent(s.note.Content + " " + chunk)
	return true
}

// LineSource is a DictationSource reading one chunk per line.
type LineSource struct {
	scanner *bufio.Scanner
}

// NewLineSource wraps r.
func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{scanner: bufio.NewScanner(r)}
}

// Next returns the next line.
func (l *LineSource) Next(_ context.Context) (string, error) {
	if l.scanner.Scan() {
		return l.scanner.Text(), nil
	}
	if err := l.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
