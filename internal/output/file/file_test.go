package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hejijunhao/imgvec/internal/model"
	"github.com/hejijunhao/imgvec/internal/output"
)

func records() []model.Embedding {
	return []model.Embedding{
		{Index: 0, Path: "a.png", Vector: []float32{1, 2}},
		{Index: 1, Path: "b.png", Vector: []float32{3, 4}},
	}
}

func TestFileNDJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ndjson")

	out, err := New(path, output.NDJSON)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for _, rec := range records() {
		if err := out.Write(context.Background(), rec); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	var first model.Embedding
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if first.Path != "a.png" || len(first.Vector) != 2 || first.Vector[0] != 1 {
		t.Errorf("unexpected first record: %+v", first)
	}
}

func TestFileCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	out, err := New(path, output.CSV)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for _, rec := range records() {
		if err := out.Write(context.Background(), rec); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "0,a.png,1,2" {
		t.Errorf("unexpected first CSV line: %q", lines[0])
	}
}

func TestFileTruncatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ndjson")
	if err := os.WriteFile(path, []byte("stale content\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := New(path, output.NDJSON)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := out.Write(context.Background(), records()[0]); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "stale") {
		t.Error("expected file to be truncated on open")
	}
}

func TestFileBadPath(t *testing.T) {
	if _, err := New("/nonexistent-dir/out.ndjson", output.NDJSON); err == nil {
		t.Fatal("expected error for unwritable path")
	}
}
