package staging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTempDir_CreatesAndCleansUp(t *testing.T) {
	base := filepath.Join(t.TempDir(), "work")
	s := New(base)

	dir, cleanup, err := s.TempDir("symimport-output-")
	if err != nil {
		t.Fatalf("TempDir: %v", err)
	}

	if !strings.HasPrefix(filepath.Base(dir), "symimport-output-") {
		t.Fatalf("unexpected dir name %q", dir)
	}
	if err := os.WriteFile(filepath.Join(dir, "f"), []byte("x"), 0o600); err != nil {
		t.Fatalf("dir not writable: %v", err)
	}

	if err := cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("expected dir to be removed, stat err=%v", err)
	}
}

func TestTempDir_EmptyBaseUsesSystemTemp(t *testing.T) {
	s := New("")
	dir, cleanup, err := s.TempDir("symimport-")
	if err != nil {
		t.Fatalf("TempDir: %v", err)
	}
	defer func() { _ = cleanup() }()

	if !strings.HasPrefix(dir, os.TempDir()) {
		t.Fatalf("expected system temp dir, got %q", dir)
	}
}
