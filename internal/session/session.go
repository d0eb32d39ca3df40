// Package session wires a chunk builder, the spawner, its spatial index and
// the framing rig into one frame-stepped simulation with no GL dependency.
package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/voxelchunk/internal/config"
	"github.com/Faultbox/voxelchunk/internal/engine/camera"
	"github.com/Faultbox/voxelchunk/internal/engine/debug"
	"github.com/Faultbox/voxelchunk/internal/spatial"
	"github.com/Faultbox/voxelchunk/internal/spawn"
	"github.com/Faultbox/voxelchunk/internal/voxel"
)

// Action is a user command.
type Action int

const (
	ActionNone Action = iota
	ActionFiner
	ActionCoarser
	ActionToggleCull
	ActionToggleLayout
	ActionToggleBounds
	ActionQuit
)

// Session holds the simulation state of the viewer.
type Session struct {
	Builder *voxel.Builder
	Spawner *spawn.Spawner
	Index   spatial.Index[*spawn.Object]
	Rig     *camera.FramingRig
	Lines   *debug.Lines

	ShowBounds bool

	log *zap.Logger
}

// New builds every component from cfg and realizes the first mesh.
// consumer may be nil.
func New(cfg *config.Config, consumer voxel.MeshConsumer, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	opts, err := cfg.BuildOptions()
	if err != nil {
		return nil, err
	}

	rig := camera.NewFramingRig(cfg.Framing())

	idx, err := spatial.New[*spawn.Object](cfg.Spatial)
	if err != nil {
		return nil, fmt.Errorf("spatial index: %w", err)
	}

	builder, err := voxel.NewBuilder(voxel.BuilderConfig{
		Resolution: cfg.Chunk.Resolution,
		Size:       cfg.Chunk.Size,
		Build:      opts,
		Consumer:   consumer,
		Camera:     rig,
		Logger:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("chunk builder: %w", err)
	}

	spawnCfg := cfg.Spawn
	spawnCfg.Center = cfg.Spatial.Center
	spawner, err := spawn.New(spawnCfg, spawn.NewRand(spawnCfg.Seed), idx, rig, log)
	if err != nil {
		return nil, fmt.Errorf("spawner: %w", err)
	}

	s := &Session{
		Builder:    builder,
		Spawner:    spawner,
		Index:      idx,
		Rig:        rig,
		Lines:      debug.NewLines(cfg.Spatial.MinNodeSize / 4),
		ShowBounds: cfg.Viewer.ShowBounds,
		log:        log.Named("session"),
	}
	if _, err := builder.Refresh(); err != nil {
		return nil, err
	}
	rig.SetStartPositionAndSize()
	s.refreshLines()
	return s, nil
}

// Apply runs a user command. It returns true for ActionQuit. Commands that
// would leave the builder unusable are logged and ignored.
func (s *Session) Apply(a Action) bool {
	b := s.Builder
	var err error
	switch a {
	case ActionFiner:
		err = b.SetResolution(b.Resolution() + 1)
	case ActionCoarser:
		if b.Resolution() > 1 {
			err = b.SetResolution(b.Resolution() - 1)
		}
	case ActionToggleCull:
		opts := b.BuildOptions()
		opts.Cull = !opts.Cull
		if opts.Cull {
			opts.Layout = voxel.LayoutFaceted
		}
		err = b.SetBuildOptions(opts)
	case ActionToggleLayout:
		opts := b.BuildOptions()
		if opts.Layout == voxel.LayoutFaceted {
			opts.Layout = voxel.LayoutShared
			opts.Cull = false
		} else {
			opts.Layout = voxel.LayoutFaceted
		}
		err = b.SetBuildOptions(opts)
	case ActionToggleBounds:
		s.ShowBounds = !s.ShowBounds
		s.refreshLines()
	case ActionQuit:
		return true
	}
	if err != nil {
		s.log.Warn("command rejected", zap.Int("action", int(a)), zap.Error(err))
	}
	return false
}

// Update advances one frame of dt seconds: spawn, rebuild if stale, reframe.
func (s *Session) Update(dt float32) error {
	obj, err := s.Spawner.Tick(dt)
	if err != nil {
		return err
	}
	rebuilt, err := s.Builder.Refresh()
	if err != nil {
		s.log.Warn("refresh failed", zap.Error(err))
		// Drop back one step so the next frame has a buildable request
		if r := s.Builder.Resolution(); r > 1 {
			_ = s.Builder.SetResolution(r - 1)
		}
	}
	if rebuilt || obj != nil {
		s.refreshLines()
	}
	s.Rig.Update(dt)
	return nil
}

func (s *Session) refreshLines() {
	s.Lines.Reset()
	if !s.ShowBounds {
		return
	}
	if d, ok := s.Index.(spatial.DebugDrawer); ok {
		d.DrawAllBounds(s.Lines)
		d.DrawAllObjects(s.Lines)
	}
	if m := s.Builder.Mesh(); m != nil {
		s.Lines.MeshBounds(m.Bounds.Min, m.Bounds.Max)
	}
}
