package io

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lheinlen/opinionmap/pkg/errors"
)

func TestWriteArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	data := []byte("artifact bytes")

	if err := WriteArtifact(path, data); err != nil {
		t.Fatalf("WriteArtifact() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("content = %q, want %q", got, data)
	}
}

func TestWriteArtifactOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")

	if err := WriteArtifact(path, []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := WriteArtifact(path, []byte("second")); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}
}

func TestWriteArtifactLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	if err := WriteArtifact(filepath.Join(dir, "out.png"), []byte("data")); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1", len(entries))
	}
}

func TestWriteArtifactUnwritableDir(t *testing.T) {
	err := WriteArtifact(filepath.Join(t.TempDir(), "missing", "out.png"), []byte("data"))
	if err == nil {
		t.Fatal("WriteArtifact() error = nil, want WRITE_FAILED")
	}
	if !errors.Is(err, errors.ErrCodeWriteFailed) {
		t.Errorf("error code = %v, want WRITE_FAILED", errors.GetCode(err))
	}
}
