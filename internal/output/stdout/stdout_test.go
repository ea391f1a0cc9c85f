package stdout

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/hejijunhao/imgvec/internal/model"
	"github.com/hejijunhao/imgvec/internal/output"
)

func testRecord() model.Embedding {
	return model.Embedding{
		Index:  0,
		Path:   "cat.jpg",
		Vector: []float32{1.5, -0.25},
	}
}

// captureStdout redirects os.Stdout to capture output.
func captureStdout(fn func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestOutputCompactJSON(t *testing.T) {
	result := captureStdout(func() {
		out := New(output.NDJSON, false)
		out.Write(context.Background(), testRecord())
		out.Close()
	})

	// Should be a single line (NDJSON).
	lines := strings.Split(strings.TrimSpace(result), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if m["path"] != "cat.jpg" {
		t.Fatalf("expected path=cat.jpg, got %v", m["path"])
	}
	vec, ok := m["vector"].([]any)
	if !ok || len(vec) != 2 {
		t.Fatalf("expected 2-element vector, got %v", m["vector"])
	}
}

func TestOutputPrettyJSON(t *testing.T) {
	result := captureStdout(func() {
		out := New(output.NDJSON, true)
		out.Write(context.Background(), testRecord())
		out.Close()
	})

	if !strings.Contains(result, "  ") {
		t.Fatal("expected indented output for pretty mode")
	}
	lines := strings.Split(strings.TrimSpace(result), "\n")
	if len(lines) < 3 {
		t.Fatalf("expected multi-line pretty output, got %d lines", len(lines))
	}
}

func TestOutputCSV(t *testing.T) {
	result := captureStdout(func() {
		out := New(output.CSV, false)
		out.Write(context.Background(), testRecord())
		out.Write(context.Background(), model.Embedding{Index: 1, Path: "dog.png", Vector: []float32{0, 1}})
		out.Close()
	})

	lines := strings.Split(strings.TrimSpace(result), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 CSV lines, got %d: %q", len(lines), result)
	}
	if lines[0] != "0,cat.jpg,1.5,-0.25" {
		t.Errorf("unexpected first CSV line: %q", lines[0])
	}
	if lines[1] != "1,dog.png,0,1" {
		t.Errorf("unexpected second CSV line: %q", lines[1])
	}
}
