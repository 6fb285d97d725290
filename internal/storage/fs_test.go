package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/notegenius/internal/apperr"
	"github.com/starford/notegenius/internal/checksum"
)

func tempStore(t *testing.T) *FS {
	t.Helper()
	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	t.Cleanup(func() { _ = fs.Close() })
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempStore(t)
	content := []byte("# Hello\nWorld\n")
	if err := s.Write("note", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("note")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
	if _, err := os.Stat(filepath.Join(s.Root(), "note.md")); err != nil {
		t.Errorf("expected note.md on disk: %v", err)
	}
}

func TestReadMissing(t *testing.T) {
	s := tempStore(t)
	if _, err := s.Read("ghost"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := s.Delete("ghost"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("delete err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := tempStore(t)
	_ = s.Write("del", []byte("bye"))
	if err := s.Delete("del"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Read("del"); err == nil {
		t.Error("expected error reading deleted note")
	}
}

func TestList(t *testing.T) {
	s := tempStore(t)
	_ = s.Write("a", []byte("a"))
	_ = s.Write("b", []byte("b"))
	_ = os.WriteFile(filepath.Join(s.Root(), "readme.txt"), []byte("not md"), 0o644)
	_ = os.WriteFile(filepath.Join(s.Root(), ".hidden.md"), []byte("hidden"), 0o644)
	_ = os.MkdirAll(filepath.Join(s.Root(), "sub.md"), 0o755)

	items, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	for _, it := range items {
		if it.Checksum != checksum.Sum([]byte(it.ID)) {
			t.Errorf("%s checksum = %s", it.ID, it.Checksum)
		}
	}
}

func TestInvalidIDsRejected(t *testing.T) {
	s := tempStore(t)
	for _, id := range []string{"", "../outside", "a/b", `a\b`, ".hidden", "..", "/etc/shadow"} {
		if _, err := s.Read(id); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("Read(%q) err = %v", id, err)
		}
		if err := s.Write(id, []byte("x")); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("Write(%q) err = %v", id, err)
		}
	}
}

func TestAtomicWriteNoLeftovers(t *testing.T) {
	s := tempStore(t)
	_ = s.Write("atomic", []byte("original content"))

	updated := []byte("updated content")
	if err := s.Write("atomic", updated); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("atomic")
	if string(got) != string(updated) {
		t.Errorf("expected updated content, got %q", got)
	}

	matches, _ := filepath.Glob(filepath.Join(s.Root(), tempPrefix+"*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_CreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "notes")
	s, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	if s.Root() != dir {
		t.Errorf("root = %q, want %q", s.Root(), dir)
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "notegenius-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	if _, err := NewFS(f.Name()); err == nil {
		t.Error("expected error when root is a file")
	}
}

func TestIDFromName(t *testing.T) {
	cases := map[string]bool{"abc.md": true, ".notegenius-tmp-1": false, "x.txt": false, ".md": false}
	for name, want := range cases {
		if _, ok := IDFromName(name); ok != want {
			t.Errorf("IDFromName(%q) ok = %v, want %v", name, ok, want)
		}
	}
}

func TestSymlinkOutsideRootIsRefused(t *testing.T) {
	s := tempStore(t)
	outside := filepath.Join(t.TempDir(), "secret.md")
	if err := os.WriteFile(outside, []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(outside, filepath.Join(s.Root(), "link.md")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	if data, err := s.Read("link"); err == nil {
		t.Errorf("Read through escaping symlink returned %q", data)
	}
	items, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("List = %+v, want symlink skipped", items)
	}
}
