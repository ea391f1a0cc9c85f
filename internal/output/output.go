package output

import (
	"context"

	"github.com/hejijunhao/imgvec/internal/model"
)

// Output defines the interface for embedding record destinations.
type Output interface {
	Write(ctx context.Context, rec model.Embedding) error
	Close() error
}
