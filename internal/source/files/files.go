// Package files provides a source over an explicit list of image paths.
package files

import (
	"context"
	"fmt"
	"os"

	"github.com/hejijunhao/imgvec/internal/source"
)

func init() {
	source.Register("files", New)
}

// Source lists a fixed set of paths in the order they were given.
type Source struct {
	paths []string
}

// New creates a files Source. Every path must exist and be a regular file.
func New(cfg source.Config) (source.Source, error) {
	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("files source: no paths configured")
	}
	for _, path := range cfg.Paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("files source: %w", err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("files source: %s is a directory, use the dir provider", path)
		}
	}
	return &Source{paths: cfg.Paths}, nil
}

func (s *Source) List(_ context.Context) ([]string, error) {
	return s.paths, nil
}
