package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetVersion(t *testing.T) {
	SetVersion("1.0.0", "abc123", "2024-01-01")

	if version != "1.0.0" {
		t.Errorf("version = %q, want %q", version, "1.0.0")
	}
	if commit != "abc123" {
		t.Errorf("commit = %q, want %q", commit, "abc123")
	}
	if date != "2024-01-01" {
		t.Errorf("date = %q, want %q", date, "2024-01-01")
	}
}

func TestRootRequiresExactlyOneArg(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no args", args: []string{}},
		{name: "two args", args: []string{"a.yaml", "b.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newRootCmd()
			root.SetArgs(tt.args)
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})

			err := root.ExecuteContext(context.Background())
			if err == nil {
				t.Fatal("expected an argument-count error")
			}
			if !strings.Contains(err.Error(), "accepts 1 arg") {
				t.Errorf("error = %v, want argument-count message", err)
			}
		})
	}
}

func TestRootVersionFlag(t *testing.T) {
	SetVersion("v9.9.9", "deadbeef", "2026-01-01")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs([]string{"--version"})
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{"v9.9.9", "deadbeef", "2026-01-01"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("version output missing %q: %s", want, out.String())
		}
	}
}

func TestRootRendersArtifact(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "survey.yaml")
	survey := `statements:
  - "Taxes should be lower"
  - "Parks need more funding"
votes:
  alice: [agree, disagree]
  bob: [agree, agree]
  carol: [disagree, disagree]
`
	if err := os.WriteFile(input, []byte(survey), 0o644); err != nil {
		t.Fatal(err)
	}

	root := newRootCmd()
	root.SetArgs([]string{input})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "survey.png")); err != nil {
		t.Errorf("expected artifact survey.png next to input: %v", err)
	}
}

func TestRootMissingFile(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{filepath.Join(t.TempDir(), "nope.yaml")})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected an error for a missing input file")
	}
}
