package output

import (
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"ndjson", NDJSON, false},
		{"json", NDJSON, false},
		{"", NDJSON, false},
		{"csv", CSV, false},
		{"xml", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCSVRecord(t *testing.T) {
	fields := CSVRecord(7, "cat.jpg", []float32{1.5, -0.25, 0})

	want := []string{"7", "cat.jpg", "1.5", "-0.25", "0"}
	if len(fields) != len(want) {
		t.Fatalf("expected %d fields, got %v", len(want), fields)
	}
	for i, w := range want {
		if fields[i] != w {
			t.Errorf("field %d: got %q, want %q", i, fields[i], w)
		}
	}
}

func TestCSVRecordEmptyVector(t *testing.T) {
	fields := CSVRecord(0, "", nil)
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %v", fields)
	}
}
