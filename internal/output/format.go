package output

import (
	"fmt"
	"strconv"
)

// Format selects the on-the-wire encoding for embedding records.
type Format int

const (
	// NDJSON writes one JSON object per line.
	NDJSON Format = iota
	// CSV writes index, path, then one column per vector dimension.
	CSV
)

// ParseFormat maps a config string to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "ndjson", "json":
		return NDJSON, nil
	case "csv":
		return CSV, nil
	default:
		return 0, fmt.Errorf("output: unknown format %q", s)
	}
}

// CSVRecord flattens an embedding into CSV fields: index, path, then each
// vector value in shortest round-trippable float32 form.
func CSVRecord(index int, path string, vector []float32) []string {
	fields := make([]string, 0, len(vector)+2)
	fields = append(fields, strconv.Itoa(index), path)
	for _, v := range vector {
		fields = append(fields, strconv.FormatFloat(float64(v), 'g', -1, 32))
	}
	return fields
}
