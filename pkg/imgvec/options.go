package imgvec

import (
	"fmt"
	"path/filepath"
)

type options struct {
	modelDir   string
	modelPath  string
	patchSize  int
	numLayers  int
	batchSize  int
	centerCrop bool
}

// Option configures an Imgvec instance.
type Option func(*options)

// WithModelDir sets the directory containing model files.
// Expects: clip-vit-base-patch{14,16,32}.onnx plus libonnxruntime.so.
func WithModelDir(dir string) Option {
	return func(o *options) {
		o.modelDir = dir
	}
}

// WithModelPath sets an explicit model file path, overriding the
// directory-based layout.
func WithModelPath(path string) Option {
	return func(o *options) {
		o.modelPath = path
	}
}

// WithPatchSize selects the encoder checkpoint variant by its patch size.
// Supported: 14, 16, 32. Default: 32.
func WithPatchSize(n int) Option {
	return func(o *options) {
		o.patchSize = n
	}
}

// WithNumLayers sets how many trailing encoder layers are combined per
// embedding. Default: 3.
func WithNumLayers(k int) Option {
	return func(o *options) {
		o.numLayers = k
	}
}

// WithBatchSize sets how many images are embedded per forward pass.
// Default: 64.
func WithBatchSize(n int) Option {
	return func(o *options) {
		o.batchSize = n
	}
}

// WithCenterCrop enables center-cropping during preprocessing. Off by
// default: cropping discards spatial tokens and makes embeddings of the
// same image vary with its aspect ratio.
func WithCenterCrop(enabled bool) Option {
	return func(o *options) {
		o.centerCrop = enabled
	}
}

func defaultOptions() options {
	return options{
		patchSize: 32,
		numLayers: 3,
		batchSize: 64,
	}
}

// validate rejects option combinations New cannot serve.
func (o options) validate() error {
	switch o.patchSize {
	case 14, 16, 32:
	default:
		return fmt.Errorf("imgvec: patch size must be 14, 16, or 32, got %d", o.patchSize)
	}
	if o.numLayers < 1 {
		return fmt.Errorf("imgvec: num layers must be positive, got %d", o.numLayers)
	}
	if o.batchSize < 1 {
		return fmt.Errorf("imgvec: batch size must be positive, got %d", o.batchSize)
	}
	return nil
}

// resolveModelPath determines the model file path from the configured
// options. An explicit path takes precedence over modelDir.
func resolveModelPath(o options) string {
	if o.modelPath != "" {
		return o.modelPath
	}
	dir := o.modelDir
	if dir == "" {
		dir = "models"
	}
	return filepath.Join(dir, fmt.Sprintf("clip-vit-base-patch%d.onnx", o.patchSize))
}
