// Package source abstracts where input images come from. Sources produce
// ordered path lists; decoding happens downstream in the pipeline.
package source

import "context"

// Source lists image file paths in a stable order.
type Source interface {
	List(ctx context.Context) ([]string, error)
}

// Config holds provider-specific source settings.
type Config struct {
	Provider string
	Paths    []string // explicit file paths ("files" provider)
	Dir      string   // root directory ("dir" provider)
}
