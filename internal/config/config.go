package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Version is the imgvec release version.
const Version = "0.1.0"

// patchSizes are the supported encoder checkpoint variants.
var patchSizes = map[int]bool{14: true, 16: true, 32: true}

// Config holds all imgvec configuration.
type Config struct {
	Source      SourceConfig
	Engine      EngineConfig
	Output      OutputConfig
	LogLevel    string
	ShowVersion bool
}

// SourceConfig holds image source settings.
type SourceConfig struct {
	Provider string // "files" (paths from argv) or "dir"
	Dir      string
}

// EngineConfig holds embedding engine settings.
type EngineConfig struct {
	ModelPath  string // explicit model file; overrides ModelDir+PatchSize
	ModelDir   string
	PatchSize  int // encoder variant: 14, 16, or 32
	NumLayers  int // trailing layers combined per embedding
	BatchSize  int // images per forward pass
	CenterCrop bool
}

// OutputConfig holds output destination settings.
type OutputConfig struct {
	Destination string // "stdout" or "file"
	Path        string // target file when Destination is "file"
	Format      string // "ndjson" or "csv"
	Pretty      bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Source: SourceConfig{
			Provider: getenv("IMGVEC_SOURCE", "files"),
			Dir:      os.Getenv("IMGVEC_DIR"),
		},
		Engine: EngineConfig{
			ModelPath:  os.Getenv("IMGVEC_MODEL_PATH"),
			ModelDir:   getenv("IMGVEC_MODEL_DIR", "models"),
			PatchSize:  getenvInt("IMGVEC_PATCH_SIZE", 32),
			NumLayers:  getenvInt("IMGVEC_NUM_LAYERS", 3),
			BatchSize:  getenvInt("IMGVEC_BATCH_SIZE", 64),
			CenterCrop: getenvBool("IMGVEC_CENTER_CROP", false),
		},
		Output: OutputConfig{
			Destination: getenv("IMGVEC_OUTPUT", "stdout"),
			Path:        os.Getenv("IMGVEC_OUTPUT_PATH"),
			Format:      getenv("IMGVEC_FORMAT", "ndjson"),
			Pretty:      getenvBool("IMGVEC_OUTPUT_PRETTY", false),
		},
		LogLevel:    getenv("IMGVEC_LOG_LEVEL", "info"),
		ShowVersion: getenvBool("IMGVEC_VERSION", false),
	}
}

// ResolvedModelPath returns the model file to load: the explicit path when
// set, otherwise the per-patch-size checkpoint under ModelDir.
func (c Config) ResolvedModelPath() string {
	if c.Engine.ModelPath != "" {
		return c.Engine.ModelPath
	}
	return filepath.Join(c.Engine.ModelDir,
		fmt.Sprintf("clip-vit-base-patch%d.onnx", c.Engine.PatchSize))
}

// Validate checks the configuration and reports every problem found.
func (c Config) Validate() error {
	var errs []error

	if !patchSizes[c.Engine.PatchSize] {
		errs = append(errs, fmt.Errorf("patch size must be 14, 16, or 32, got %d", c.Engine.PatchSize))
	}
	if c.Engine.NumLayers < 1 {
		errs = append(errs, fmt.Errorf("num layers must be positive, got %d", c.Engine.NumLayers))
	}
	if c.Engine.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("batch size must be positive, got %d", c.Engine.BatchSize))
	}
	if _, err := os.Stat(c.ResolvedModelPath()); err != nil {
		errs = append(errs, fmt.Errorf("model file %s: %w", c.ResolvedModelPath(), err))
	}

	switch c.Source.Provider {
	case "files":
	case "dir":
		if c.Source.Dir == "" {
			errs = append(errs, errors.New("IMGVEC_DIR is required with the dir source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source provider %q", c.Source.Provider))
	}

	switch c.Output.Destination {
	case "stdout":
	case "file":
		if c.Output.Path == "" {
			errs = append(errs, errors.New("IMGVEC_OUTPUT_PATH is required with the file output"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown output destination %q", c.Output.Destination))
	}
	switch c.Output.Format {
	case "ndjson", "json", "csv":
	default:
		errs = append(errs, fmt.Errorf("unknown output format %q", c.Output.Format))
	}

	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
