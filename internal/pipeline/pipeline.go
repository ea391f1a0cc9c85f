// Package pipeline splits arbitrary-length image sequences into fixed-size
// chunks and folds the per-chunk embeddings into one ordered result set.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/hejijunhao/imgvec/internal/engine/preprocess"
	"github.com/hejijunhao/imgvec/internal/model"
	"github.com/hejijunhao/imgvec/internal/output"
	"github.com/hejijunhao/imgvec/internal/source"
)

// Embedder embeds one chunk of images per call. Implemented by
// engine.Engine.
type Embedder interface {
	EmbedBatch(imgs []image.Image) ([][]float32, error)
}

// Pipeline chunks inputs, runs the embedder per chunk, and concatenates the
// results in input order. The first failing chunk aborts the whole run.
type Pipeline struct {
	embedder  Embedder
	batchSize int
}

// New creates a Pipeline processing batchSize images per forward pass.
func New(emb Embedder, batchSize int) (*Pipeline, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("pipeline: batch size must be positive, got %d", batchSize)
	}
	return &Pipeline{embedder: emb, batchSize: batchSize}, nil
}

// Embed embeds all images, processing them in chunks. Row i of the result
// corresponds to imgs[i] regardless of how the input was chunked.
func (p *Pipeline) Embed(ctx context.Context, imgs []image.Image) ([][]float32, error) {
	if len(imgs) == 0 {
		return nil, nil
	}

	rows := make([][]float32, 0, len(imgs))
	for start := 0; start < len(imgs); start += p.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+p.batchSize, len(imgs))

		chunk, err := p.embedder.EmbedBatch(imgs[start:end])
		if err != nil {
			return nil, fmt.Errorf("pipeline: chunk [%d:%d]: %w", start, end, err)
		}
		rows = append(rows, chunk...)

		slog.Debug("embedded chunk", "start", start, "end", end, "total", len(imgs))
	}
	return rows, nil
}

// Run lists images from the source, embeds them chunk by chunk, and writes
// one record per image to the output, preserving source order.
func (p *Pipeline) Run(ctx context.Context, src source.Source, out output.Output) error {
	paths, err := src.List(ctx)
	if err != nil {
		return fmt.Errorf("pipeline: list source: %w", err)
	}
	if len(paths) == 0 {
		slog.Warn("source produced no images")
		return nil
	}
	slog.Info("embedding images", "count", len(paths), "batch_size", p.batchSize)

	for start := 0; start < len(paths); start += p.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+p.batchSize, len(paths))

		imgs := make([]image.Image, 0, end-start)
		for _, path := range paths[start:end] {
			img, err := preprocess.LoadFile(path)
			if err != nil {
				return fmt.Errorf("pipeline: %w", err)
			}
			imgs = append(imgs, img)
		}

		rows, err := p.embedder.EmbedBatch(imgs)
		if err != nil {
			return fmt.Errorf("pipeline: chunk [%d:%d]: %w", start, end, err)
		}
		for i, vec := range rows {
			rec := model.Embedding{Index: start + i, Path: paths[start+i], Vector: vec}
			if err := out.Write(ctx, rec); err != nil {
				return fmt.Errorf("pipeline: output: %w", err)
			}
		}

		slog.Debug("embedded chunk", "start", start, "end", end, "total", len(paths))
	}
	return nil
}
