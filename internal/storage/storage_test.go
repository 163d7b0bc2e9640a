package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestSaveExistsDelete(t *testing.T) {
	s := newStore(t)
	name := GenerateName("photo.PNG")

	if err := s.Save(strings.NewReader("bytes"), name); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !s.Exists(name) {
		t.Fatal("saved file not found")
	}

	path, err := s.Open(name)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil || string(content) != "bytes" {
		t.Fatalf("read back %q, %v", content, err)
	}

	if err := s.Delete(name); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if s.Exists(name) {
		t.Fatal("file survived delete")
	}

	// Deleting an absent file is a no-op.
	if err := s.Delete(name); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestGenerateName(t *testing.T) {
	a := GenerateName("photo.PNG")
	b := GenerateName("photo.PNG")
	if a == b {
		t.Fatal("generated names collide")
	}
	if filepath.Ext(a) != ".png" {
		t.Fatalf("extension not kept (lowercased): %q", a)
	}
	if ext := filepath.Ext(GenerateName("noext")); ext != "" {
		t.Fatalf("unexpected extension %q for extension-less original", ext)
	}
}

func TestRejectsPathEscapes(t *testing.T) {
	s := newStore(t)

	cases := []string{"", "../evil", "a/b", "/etc/passwd"}
	for _, name := range cases {
		if err := s.Save(strings.NewReader("x"), name); err == nil {
			t.Fatalf("save accepted %q", name)
		}
		if s.Exists(name) {
			t.Fatalf("exists true for %q", name)
		}
		if _, err := s.Open(name); err == nil {
			t.Fatalf("open accepted %q", name)
		}
	}
}

func TestList(t *testing.T) {
	s := newStore(t)
	for _, name := range []string{"a.png", "b.jpg"} {
		if err := s.Save(strings.NewReader("x"), name); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}
	names, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 files, got %v", names)
	}
}
