// Package engine wires the preprocess → encode → reduce steps into one
// per-batch embedding pass.
package engine

import (
	"fmt"
	"image"

	"github.com/hejijunhao/imgvec/internal/engine/encoder"
	"github.com/hejijunhao/imgvec/internal/engine/preprocess"
	"github.com/hejijunhao/imgvec/internal/engine/reducer"
)

// Engine produces embeddings for one batch of images at a time. It holds no
// per-call state; the encoder owns the loaded model.
type Engine struct {
	pre       *preprocess.Preprocessor
	enc       encoder.Encoder
	numLayers int
}

// New creates an Engine combining the last numLayers encoder layers per
// embedding.
func New(pre *preprocess.Preprocessor, enc encoder.Encoder, numLayers int) (*Engine, error) {
	if numLayers < 1 {
		return nil, fmt.Errorf("engine: numLayers must be positive, got %d", numLayers)
	}
	if depth := enc.Layers(); numLayers > depth {
		return nil, fmt.Errorf("engine: numLayers %d exceeds encoder depth %d", numLayers, depth)
	}
	return &Engine{pre: pre, enc: enc, numLayers: numLayers}, nil
}

// Dim returns the embedding dimensionality.
func (e *Engine) Dim() int {
	return e.enc.Dim()
}

// EmbedBatch embeds one batch of decoded images. Row i of the result is the
// embedding for imgs[i]. The caller controls batch sizing; this method runs
// a single forward pass.
func (e *Engine) EmbedBatch(imgs []image.Image) ([][]float32, error) {
	pixels, err := e.pre.Batch(imgs)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	acts, err := e.enc.Encode(pixels, len(imgs))
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	hidden, attn, err := acts.Window(e.numLayers)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	flat, err := reducer.Reduce(hidden, attn)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	dim := acts.Dim
	rows := make([][]float32, len(imgs))
	for i := range rows {
		rows[i] = flat[i*dim : (i+1)*dim : (i+1)*dim]
	}
	return rows, nil
}
