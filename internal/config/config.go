// Package config handles chunk viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/voxelchunk/internal/engine/camera"
	"github.com/Faultbox/voxelchunk/internal/logger"
	"github.com/Faultbox/voxelchunk/internal/spatial"
	"github.com/Faultbox/voxelchunk/internal/spawn"
	"github.com/Faultbox/voxelchunk/internal/voxel"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all settings.
type Config struct {
	Chunk   ChunkConfig    `yaml:"chunk"`
	Spatial spatial.Config `yaml:"spatial"`
	Spawn   spawn.Config   `yaml:"spawn"`
	Camera  CameraConfig   `yaml:"camera"`
	Viewer  ViewerConfig   `yaml:"viewer"`
	Export  ExportConfig   `yaml:"export"`
	Logging LoggingConfig  `yaml:"logging"`
}

// ChunkConfig holds mesh construction settings.
type ChunkConfig struct {
	Resolution  int     `yaml:"resolution"`
	Size        float32 `yaml:"size"`
	Layout      string  `yaml:"layout"` // faceted or shared
	Cull        bool    `yaml:"cull"`
	MaxVertices int     `yaml:"max_vertices"`
}

// CameraConfig holds framing rig settings. Angles are in degrees.
type CameraConfig struct {
	DampTime         float32 `yaml:"damp_time"`
	ScreenEdgeBuffer float32 `yaml:"screen_edge_buffer"`
	MinSize          float32 `yaml:"min_size"`
	Yaw              float32 `yaml:"yaw"`
	Pitch            float32 `yaml:"pitch"`
	Distance         float32 `yaml:"distance"`
}

// ViewerConfig holds display settings.
type ViewerConfig struct {
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	Fullscreen    bool   `yaml:"fullscreen"`
	VSync         bool   `yaml:"vsync"`
	ShowBounds    bool   `yaml:"show_bounds"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// ExportConfig holds mesh export settings.
type ExportConfig struct {
	STLPath string `yaml:"stl_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Chunk: ChunkConfig{
			Resolution: 8,
			Size:       8,
			Layout:     "faceted",
		},
		Spatial: spatial.Config{
			Backend:     "octree",
			WorldSize:   15,
			MinNodeSize: 1,
		},
		Spawn: spawn.DefaultConfig(),
		Camera: CameraConfig{
			DampTime:         0.2,
			ScreenEdgeBuffer: 4,
			MinSize:          6.5,
			Yaw:              60,
			Pitch:            40,
			Distance:         200,
		},
		Viewer: ViewerConfig{
			Width:         1280,
			Height:        720,
			VSync:         true,
			ShowBounds:    true,
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	if c.Chunk.Resolution <= 0 {
		return fmt.Errorf("chunk.resolution %d: %w", c.Chunk.Resolution, ErrInvalid)
	}
	if !(c.Chunk.Size > 0) || math32.IsInf(c.Chunk.Size, 0) {
		return fmt.Errorf("chunk.size %v: %w", c.Chunk.Size, ErrInvalid)
	}
	if c.Chunk.MaxVertices < 0 {
		return fmt.Errorf("chunk.max_vertices %d: %w", c.Chunk.MaxVertices, ErrInvalid)
	}
	opts, err := c.BuildOptions()
	if err != nil {
		return fmt.Errorf("chunk: %w: %w", ErrInvalid, err)
	}
	if err := voxel.CheckCapacity(c.Chunk.Resolution, opts.Layout); err != nil {
		return fmt.Errorf("chunk.resolution: %w: %w", ErrInvalid, err)
	}
	switch c.Spatial.Backend {
	case "", "octree", "rtree":
	default:
		return fmt.Errorf("spatial.backend %q: %w", c.Spatial.Backend, ErrInvalid)
	}
	if !(c.Spatial.WorldSize > 0) || !(c.Spatial.MinNodeSize > 0) {
		return fmt.Errorf("spatial sizes %v/%v: %w", c.Spatial.WorldSize, c.Spatial.MinNodeSize, ErrInvalid)
	}
	if !(c.Spawn.WorldSize > 0) || c.Spawn.Initial < 0 || c.Spawn.Max < 0 || c.Spawn.Interval < 0 {
		return fmt.Errorf("spawn %+v: %w", c.Spawn, ErrInvalid)
	}
	if c.Camera.DampTime < 0 || !(c.Camera.MinSize > 0) || !(c.Camera.Distance > 0) {
		return fmt.Errorf("camera %+v: %w", c.Camera, ErrInvalid)
	}
	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		return fmt.Errorf("viewer %dx%d: %w", c.Viewer.Width, c.Viewer.Height, ErrInvalid)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: %w: %w", ErrInvalid, err)
	}
	return nil
}

// BuildOptions converts the chunk section to mesh build options.
func (c *Config) BuildOptions() (voxel.BuildOptions, error) {
	layout, err := voxel.ParseLayout(c.Chunk.Layout)
	if err != nil {
		return voxel.BuildOptions{}, err
	}
	if c.Chunk.Cull && layout != voxel.LayoutFaceted {
		return voxel.BuildOptions{}, voxel.ErrCullingRequiresFaceted
	}
	return voxel.BuildOptions{
		Layout:      layout,
		Cull:        c.Chunk.Cull,
		MaxVertices: c.Chunk.MaxVertices,
	}, nil
}

// Framing converts the camera section to rig settings for the viewer's aspect.
func (c *Config) Framing() camera.FramingConfig {
	f := camera.DefaultFramingConfig()
	f.DampTime = c.Camera.DampTime
	f.ScreenEdgeBuffer = c.Camera.ScreenEdgeBuffer
	f.MinSize = c.Camera.MinSize
	f.Yaw = c.Camera.Yaw * math32.Pi / 180
	f.Pitch = c.Camera.Pitch * math32.Pi / 180
	f.Distance = c.Camera.Distance
	if c.Viewer.Height > 0 {
		f.Aspect = float32(c.Viewer.Width) / float32(c.Viewer.Height)
	}
	return f
}

// LoggerOptions converts the logging section.
func (c *Config) LoggerOptions() logger.Options {
	opts := logger.Options{Level: c.Logging.Level, Console: true}
	if c.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(c.Logging.LogFile)
	}
	return opts
}
