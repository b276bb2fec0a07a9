package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeGo(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLintFlagsMissingAndDuplicateMarkers(t *testing.T) {
	dir := t.TempDir()
	writeGo(t, dir, "a.go", "package q\n\nconst QGood = `--sql 11111111-2222-4333-8444-555555555555\nselect 1;\n`\n\nconst QBare = `select * from handoff_records;`\n")
	writeGo(t, dir, "b.go", "package q\n\nconst QCopy = `--sql 11111111-2222-4333-8444-555555555555\ndelete from handoff_records;\n`\n\nconst Label = \"not sql at all\"\n")

	violations, err := lint([]string{dir})
	if err != nil {
		t.Fatalf("lint() error = %v", err)
	}
	if len(violations) != 2 {
		t.Fatalf("got %d violations, want 2: %+v", len(violations), violations)
	}
	var buf bytes.Buffer
	if !report(&buf, violations) {
		t.Fatal("report() should flag violations")
	}
	out := buf.String()
	if !strings.Contains(out, "QBare") || !strings.Contains(out, "already used") {
		t.Fatalf("unexpected report:\n%s", out)
	}
}

func TestLintRepositoryQueries(t *testing.T) {
	violations, err := lint([]string{filepath.Join("..", "..", "sqlinline")})
	if err != nil {
		t.Fatalf("lint() error = %v", err)
	}
	if len(violations) > 0 {
		var buf bytes.Buffer
		report(&buf, violations)
		t.Fatal(buf.String())
	}
}
