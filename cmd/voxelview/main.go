// Package main is the entry point for the interactive chunk viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/voxelchunk/internal/config"
	"github.com/Faultbox/voxelchunk/internal/logger"
	"github.com/Faultbox/voxelchunk/internal/viewer"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LoggerOptions()); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== voxelchunk viewer ===",
		zap.Int("resolution", cfg.Chunk.Resolution),
		zap.String("layout", cfg.Chunk.Layout),
		zap.String("index", cfg.Spatial.Backend),
	)

	if err := viewer.Run(cfg, logger.Log); err != nil {
		logger.Error("viewer error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}
