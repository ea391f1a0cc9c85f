package stdout

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hejijunhao/imgvec/internal/model"
	"github.com/hejijunhao/imgvec/internal/output"
)

// Output writes embedding records to stdout as NDJSON or CSV.
type Output struct {
	format output.Format
	enc    *json.Encoder
	csv    *csv.Writer
}

// New creates a stdout Output with the given format. When pretty is true,
// NDJSON records are indented (useful for eyeballing, breaks one-line-per-
// record consumers).
func New(format output.Format, pretty bool) *Output {
	o := &Output{format: format}
	switch format {
	case output.CSV:
		o.csv = csv.NewWriter(os.Stdout)
	default:
		o.enc = json.NewEncoder(os.Stdout)
		if pretty {
			o.enc.SetIndent("", "  ")
		}
	}
	return o
}

func (o *Output) Write(_ context.Context, rec model.Embedding) error {
	switch o.format {
	case output.CSV:
		if err := o.csv.Write(output.CSVRecord(rec.Index, rec.Path, rec.Vector)); err != nil {
			return fmt.Errorf("stdout output: %w", err)
		}
	default:
		if err := o.enc.Encode(rec); err != nil {
			return fmt.Errorf("stdout output: %w", err)
		}
	}
	return nil
}

func (o *Output) Close() error {
	if o.csv != nil {
		o.csv.Flush()
		if err := o.csv.Error(); err != nil {
			return fmt.Errorf("stdout output: %w", err)
		}
	}
	return nil
}
