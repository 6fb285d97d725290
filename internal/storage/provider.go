// Package storage defines the note file-system abstraction. Every note is a
// single "<id>.md" file directly under the store root.
package storage

import (
	"strings"
	"time"

	"github.com/starford/notegenius/internal/models"
)

// Ext is the note file extension.
const Ext = ".md"

// Provider is the interface for note file operations.
type Provider interface {
	// List returns metadata for every note file.
	List() ([]models.NoteMetadata, error)
	// Read returns the raw bytes of a note.
	Read(id string) ([]byte, error)
	// ModTime returns the modification time of a note file.
	ModTime(id string) (time.Time, error)
	// Write atomically writes the raw bytes of a note.
	Write(id string, content []byte) error
	// Delete removes a note.
	Delete(id string) error
}

// FileName returns the file name storing id.
func FileName(id string) string { return id + Ext }

// IDFromName maps a file name back to a note id. Hidden files, temp files
// and non-Markdown files are not notes.
func IDFromName(name string) (string, bool) {
	if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, Ext) {
		return "", false
	}
	id := strings.TrimSuffix(name, Ext)
	if id == "" {
		return "", false
	}
	return id, true
}
