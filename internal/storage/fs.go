package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/starford/notegenius/internal/apperr"
	"github.com/starford/notegenius/internal/checksum"
	"github.com/starford/notegenius/internal/models"
)

const tempPrefix = ".notegenius-tmp-"

// FS implements Provider on a local directory. All access goes through an
// os.Root, so no id can reach a file outside the directory.
type FS struct {
	path string
	root *os.Root
}

// NewFS opens dir as a note store, creating it when missing.
func NewFS(dir string) (*FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	root, err := os.OpenRoot(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: open root: %w", err)
	}
	return &FS{path: abs, root: root}, nil
}

// Root returns the absolute store directory.
func (f *FS) Root() string { return f.path }

// Close releases the directory handle.
func (f *FS) Close() error { return f.root.Close() }

func fileFor(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("storage: invalid note id %q: %w", id, apperr.ErrInvalidInput)
	}
	return FileName(id), nil
}

// List returns metadata for every note file directly under the root.
// Directories, hidden files and other extensions are skipped.
func (f *FS) List() ([]models.NoteMetadata, error) {
	entries, err := fs.ReadDir(f.root.FS(), ".")
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	out := make([]models.NoteMetadata, 0, len(entries))
	for _, e := range entries {
		id, ok := IDFromName(e.Name())
		if !ok || !e.Type().IsRegular() {
			continue
		}
		meta, err := f.metadata(id, e.Name())
		if errors.Is(err, fs.ErrNotExist) {
			continue // removed while listing
		}
		if err != nil {
			return nil, err
		}
		out = append(out, meta)
	}
	return out, nil
}

func (f *FS) metadata(id, name string) (models.NoteMetadata, error) {
	info, err := f.root.Stat(name)
	if err != nil {
		return models.NoteMetadata{}, fmt.Errorf("storage: stat %s: %w", name, err)
	}
	data, err := f.root.ReadFile(name)
	if err != nil {
		return models.NoteMetadata{}, fmt.Errorf("storage: read %s: %w", name, err)
	}
	return models.NoteMetadata{ID: id, Checksum: checksum.Sum(data), UpdatedAt: info.ModTime()}, nil
}

// Read returns the raw bytes of a note.
func (f *FS) Read(id string) ([]byte, error) {
	name, err := fileFor(id)
	if err != nil {
		return nil, err
	}
	data, err := f.root.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", id, notFound(err))
	}
	return data, nil
}

// ModTime returns the modification time of a note file.
func (f *FS) ModTime(id string) (time.Time, error) {
	name, err := fileFor(id)
	if err != nil {
		return time.Time{}, err
	}
	info, err := f.root.Stat(name)
	if err != nil {
		return time.Time{}, fmt.Errorf("storage: stat %s: %w", id, notFound(err))
	}
	return info.ModTime(), nil
}

// Write replaces the note atomically. The content is written and synced to
// a hidden temp file which is then renamed over the note, so readers and
// the watcher never see a partial file.
func (f *FS) Write(id string, content []byte) (err error) {
	name, err := fileFor(id)
	if err != nil {
		return err
	}
	tmpName := tempPrefix + uuid.NewString()
	tmp, err := f.root.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = f.root.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write %s: %w", id, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("storage: sync %s: %w", id, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("storage: close %s: %w", id, err)
	}
	if err = f.root.Rename(tmpName, name); err != nil {
		return fmt.Errorf("storage: replace %s: %w", id, err)
	}
	return nil
}

// Delete removes a note file.
func (f *FS) Delete(id string) error {
	name, err := fileFor(id)
	if err != nil {
		return err
	}
	if err := f.root.Remove(name); err != nil {
		return fmt.Errorf("storage: delete %s: %w", id, notFound(err))
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return apperr.ErrNotFound
	}
	return err
}
