package imgvec

import (
	"context"
	"fmt"
	"image"

	"github.com/hejijunhao/imgvec/internal/engine"
	"github.com/hejijunhao/imgvec/internal/engine/encoder"
	"github.com/hejijunhao/imgvec/internal/engine/preprocess"
	"github.com/hejijunhao/imgvec/internal/pipeline"
)

// Imgvec is an image embedding engine backed by a local ONNX
// vision-transformer checkpoint.
type Imgvec struct {
	encoder  *encoder.ONNXEncoder
	pipeline *pipeline.Pipeline
}

// New creates an Imgvec instance, loading the model once. Loading is
// expensive; create one instance and reuse it across calls.
func New(opts ...Option) (*Imgvec, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	enc, err := encoder.New(resolveModelPath(o))
	if err != nil {
		return nil, fmt.Errorf("imgvec: %w", err)
	}

	pre, err := preprocess.New(enc.InputSize(), o.centerCrop)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("imgvec: %w", err)
	}

	eng, err := engine.New(pre, enc, o.numLayers)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("imgvec: %w", err)
	}

	pipe, err := pipeline.New(eng, o.batchSize)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("imgvec: %w", err)
	}

	return &Imgvec{encoder: enc, pipeline: pipe}, nil
}

// Dim returns the embedding dimensionality.
func (v *Imgvec) Dim() int {
	return v.encoder.Dim()
}

// ToEmbeddings embeds one or more decoded images. Row i of the result is
// the embedding for images[i]; inputs beyond the batch size are processed
// in chunks transparently.
func (v *Imgvec) ToEmbeddings(images ...image.Image) ([][]float32, error) {
	return v.pipeline.Embed(context.Background(), images)
}

// ToEmbeddingsFromPaths embeds the image files at the given paths,
// preserving input order.
func (v *Imgvec) ToEmbeddingsFromPaths(paths ...string) ([][]float32, error) {
	imgs := make([]image.Image, len(paths))
	for i, path := range paths {
		img, err := preprocess.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("imgvec: %w", err)
		}
		imgs[i] = img
	}
	return v.ToEmbeddings(imgs...)
}

// ToEmbeddingsFromBytes embeds images from raw encoded bytes (JPEG, PNG, or
// WebP), preserving input order.
func (v *Imgvec) ToEmbeddingsFromBytes(blobs ...[]byte) ([][]float32, error) {
	imgs := make([]image.Image, len(blobs))
	for i, data := range blobs {
		img, err := preprocess.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("imgvec: image %d: %w", i, err)
		}
		imgs[i] = img
	}
	return v.ToEmbeddings(imgs...)
}

// Close releases model resources (ONNX runtime, memory).
// Must be called when the instance is no longer needed.
func (v *Imgvec) Close() error {
	return v.encoder.Close()
}
