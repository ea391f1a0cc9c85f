// Package dir provides a source that walks a directory tree for image files.
package dir

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/hejijunhao/imgvec/internal/source"
)

func init() {
	source.Register("dir", New)
}

// supported image extensions, matching the formats the preprocessor decodes.
var extensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Source walks a directory tree and lists supported image files in
// lexical walk order.
type Source struct {
	root string
}

// New creates a dir Source rooted at cfg.Dir.
func New(cfg source.Config) (source.Source, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("dir source: no directory configured")
	}
	return &Source{root: cfg.Dir}, nil
}

func (s *Source) List(ctx context.Context) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if d.IsDir() {
			return nil
		}
		if extensions[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("dir source: walk %s: %w", s.root, err)
	}
	return paths, nil
}
