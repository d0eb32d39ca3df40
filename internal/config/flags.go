package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagResolution = flag.Int("resolution", 0, "Cells per chunk axis")
	flagLayout     = flag.String("layout", "", "Mesh layout: faceted or shared")
	flagCull       = flag.Bool("cull", false, "Emit only exposed faces")
	flagBackend    = flag.String("index", "", "Spatial index: octree or rtree")
	flagSeed       = flag.Uint64("seed", 0, "Spawner seed")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagResolution > 0 {
		cfg.Chunk.Resolution = *flagResolution
	}
	if *flagLayout != "" {
		cfg.Chunk.Layout = *flagLayout
	}
	if *flagCull {
		cfg.Chunk.Cull = true
	}
	if *flagBackend != "" {
		cfg.Spatial.Backend = *flagBackend
	}
	if *flagSeed != 0 {
		cfg.Spawn.Seed = *flagSeed
	}
	if *flagWindowed {
		cfg.Viewer.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Viewer.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Viewer.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Viewer.Height = *flagHeight
	}
}
