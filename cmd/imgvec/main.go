package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hejijunhao/imgvec/internal/config"
	"github.com/hejijunhao/imgvec/internal/engine"
	"github.com/hejijunhao/imgvec/internal/engine/encoder"
	"github.com/hejijunhao/imgvec/internal/engine/preprocess"
	"github.com/hejijunhao/imgvec/internal/logging"
	"github.com/hejijunhao/imgvec/internal/output"
	filedest "github.com/hejijunhao/imgvec/internal/output/file"
	"github.com/hejijunhao/imgvec/internal/output/stdout"
	"github.com/hejijunhao/imgvec/internal/pipeline"
	"github.com/hejijunhao/imgvec/internal/source"

	// Register source implementations.
	_ "github.com/hejijunhao/imgvec/internal/source/dir"
	_ "github.com/hejijunhao/imgvec/internal/source/files"
)

func main() {
	cfg := config.Load()

	if cfg.ShowVersion || (len(os.Args) > 1 && os.Args[1] == "version") {
		fmt.Println("imgvec", config.Version)
		return
	}

	logging.Setup(cfg.Output.Destination, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// Initialize encoder and engine.
	enc, err := encoder.New(cfg.ResolvedModelPath())
	if err != nil {
		log.Fatalf("failed to create encoder: %v", err)
	}
	defer enc.Close()

	pre, err := preprocess.New(enc.InputSize(), cfg.Engine.CenterCrop)
	if err != nil {
		log.Fatalf("failed to create preprocessor: %v", err)
	}

	eng, err := engine.New(pre, enc, cfg.Engine.NumLayers)
	if err != nil {
		log.Fatalf("failed to create engine: %v", err)
	}

	p, err := pipeline.New(eng, cfg.Engine.BatchSize)
	if err != nil {
		log.Fatalf("failed to create pipeline: %v", err)
	}

	// Resolve source: image paths on the command line select the files
	// provider directly.
	srcCfg := source.Config{
		Provider: cfg.Source.Provider,
		Dir:      cfg.Source.Dir,
	}
	if args := os.Args[1:]; len(args) > 0 {
		srcCfg.Provider = "files"
		srcCfg.Paths = args
	}
	ctor, err := source.Get(srcCfg.Provider)
	if err != nil {
		log.Fatalf("failed to get source: %v", err)
	}
	src, err := ctor(srcCfg)
	if err != nil {
		log.Fatalf("failed to create source: %v", err)
	}

	// Initialize output.
	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		log.Fatalf("failed to parse output format: %v", err)
	}
	var out output.Output
	if cfg.Output.Destination == "file" {
		out, err = filedest.New(cfg.Output.Path, format)
		if err != nil {
			log.Fatalf("failed to create output: %v", err)
		}
	} else {
		out = stdout.New(format, cfg.Output.Pretty)
	}
	defer out.Close()

	// Set up graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := p.Run(ctx, src, out); err != nil && err != context.Canceled {
		log.Fatalf("pipeline error: %v", err)
	}
}
