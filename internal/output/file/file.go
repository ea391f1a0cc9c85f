package file

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/hejijunhao/imgvec/internal/model"
	"github.com/hejijunhao/imgvec/internal/output"
)

const defaultBufSize = 64 * 1024 // 64KB

// Option configures a file Output.
type Option func(*Output)

// WithBufSize sets the bufio.Writer buffer size. Default: 64KB.
func WithBufSize(bytes int) Option {
	return func(o *Output) { o.bufSize = bytes }
}

// Output writes embedding records to a file with buffered I/O, as NDJSON
// or CSV.
type Output struct {
	mu      sync.Mutex
	w       *bufio.Writer
	f       *os.File
	csv     *csv.Writer
	format  output.Format
	bufSize int
}

// New creates a file output that truncates and writes the given path.
func New(path string, format output.Format, opts ...Option) (*Output, error) {
	o := &Output{format: format, bufSize: defaultBufSize}
	for _, opt := range opts {
		opt(o)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("file output: open %s: %w", path, err)
	}
	o.f = f
	o.w = bufio.NewWriterSize(f, o.bufSize)
	if format == output.CSV {
		o.csv = csv.NewWriter(o.w)
	}
	return o, nil
}

// Write appends one record to the file.
func (o *Output) Write(_ context.Context, rec model.Embedding) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.format == output.CSV {
		if err := o.csv.Write(output.CSVRecord(rec.Index, rec.Path, rec.Vector)); err != nil {
			return fmt.Errorf("file output: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("file output: marshal: %w", err)
	}
	data = append(data, '\n')
	if _, err := o.w.Write(data); err != nil {
		return fmt.Errorf("file output: write: %w", err)
	}
	return nil
}

// Close flushes the buffer and closes the file.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.csv != nil {
		o.csv.Flush()
		if err := o.csv.Error(); err != nil {
			o.f.Close()
			return fmt.Errorf("file output: flush csv: %w", err)
		}
	}
	if err := o.w.Flush(); err != nil {
		o.f.Close()
		return fmt.Errorf("file output: flush: %w", err)
	}
	return o.f.Close()
}
