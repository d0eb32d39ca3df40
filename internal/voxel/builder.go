package voxel

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelchunk/internal/engine/camera"
	vm "github.com/Faultbox/voxelchunk/pkg/math"
)

// State is the rebuild state of a Builder.
type State int

const (
	// StateStale means the requested resolution has no matching mesh yet.
	StateStale State = iota
	// StateBuilt means the mesh matches the requested resolution.
	StateBuilt
)

// String returns the state name.
func (s State) String() string {
	if s == StateBuilt {
		return "built"
	}
	return "stale"
}

// MeshConsumer receives every rebuilt mesh. Consumers get read-only access;
// the buffers stay owned by the Builder.
type MeshConsumer interface {
	MeshReady(mesh *Mesh)
}

// MeshConsumerFunc adapts a function to MeshConsumer.
type MeshConsumerFunc func(mesh *Mesh)

// MeshReady calls f(mesh).
func (f MeshConsumerFunc) MeshReady(mesh *Mesh) { f(mesh) }

// BuilderConfig configures a chunk Builder.
type BuilderConfig struct {
	Resolution int
	Size       float32
	// Origin is the world position of the chunk.
	Origin vm.Vec3
	Build  BuildOptions
	// Occupancy fills the grid on every rebuild. Nil marks every cell occupied.
	Occupancy func(x, y, z int) bool
	// Consumer, when set, receives each rebuilt mesh.
	Consumer MeshConsumer
	// Camera, when set, gets the chunk registered as a framing target once.
	Camera camera.TargetRegistrar
	Logger *zap.Logger
}

// Builder owns a chunk's grid and mesh and rebuilds both whenever the
// requested resolution differs from the realized one. It is not safe for
// concurrent use.
type Builder struct {
	cfg        BuilderConfig
	log        *zap.Logger
	requested  int
	realized   int
	grid       *Grid
	mesh       *Mesh
	registered bool
}

// NewBuilder validates cfg and returns a Stale builder. Nothing is built
// until Refresh.
func NewBuilder(cfg BuilderConfig) (*Builder, error) {
	if cfg.Resolution <= 0 {
		return nil, fmt.Errorf("resolution %d: %w", cfg.Resolution, ErrInvalidResolution)
	}
	if !(cfg.Size > 0) || math32.IsInf(cfg.Size, 0) {
		return nil, fmt.Errorf("size %v: %w", cfg.Size, ErrInvalidSize)
	}
	if cfg.Build.Cull && cfg.Build.Layout != LayoutFaceted {
		return nil, ErrCullingRequiresFaceted
	}
	if err := CheckCapacity(cfg.Resolution, cfg.Build.Layout); err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		cfg:       cfg,
		log:       log.Named("chunk"),
		requested: cfg.Resolution,
	}, nil
}

// Resolution returns the requested resolution.
func (b *Builder) Resolution() int { return b.requested }

// State reports whether the mesh matches the requested resolution.
func (b *Builder) State() State {
	if b.mesh != nil && b.realized == b.requested {
		return StateBuilt
	}
	return StateStale
}

// SetResolution requests a new resolution. Requesting the current one keeps
// the builder Built. A resolution the layout cannot address is rejected and
// the request is left unchanged.
func (b *Builder) SetResolution(resolution int) error {
	if resolution <= 0 {
		return fmt.Errorf("resolution %d: %w", resolution, ErrInvalidResolution)
	}
	if err := CheckCapacity(resolution, b.cfg.Build.Layout); err != nil {
		return err
	}
	if resolution != b.requested {
		b.log.Debug("resolution changed", zap.Int("from", b.requested), zap.Int("to", resolution))
		b.requested = resolution
	}
	return nil
}

// SetBuildOptions replaces the build options and forces the next Refresh to rebuild.
func (b *Builder) SetBuildOptions(opts BuildOptions) error {
	if opts.Cull && opts.Layout != LayoutFaceted {
		return ErrCullingRequiresFaceted
	}
	if err := CheckCapacity(b.requested, opts.Layout); err != nil {
		return err
	}
	b.cfg.Build = opts
	b.Invalidate()
	return nil
}

// BuildOptions returns the current build options.
func (b *Builder) BuildOptions() BuildOptions { return b.cfg.Build }

// Invalidate forces the builder Stale without changing the resolution.
func (b *Builder) Invalidate() {
	b.realized = 0
}

// Refresh rebuilds grid and mesh when Stale and reports whether it did.
// A Built builder is left untouched. On error the previous grid and mesh
// stay in place and the builder remains Stale.
func (b *Builder) Refresh() (bool, error) {
	if !b.registered && b.cfg.Camera != nil {
		b.cfg.Camera.AddVisibleTarget(b)
		b.registered = true
	}
	if b.State() == StateBuilt {
		return false, nil
	}

	if err := preflight(b.requested, b.cfg.Build); err != nil {
		b.log.Warn("chunk rebuild rejected", zap.Int("resolution", b.requested), zap.Error(err))
		return false, err
	}

	start := time.Now()
	grid, err := NewGrid(b.requested, b.cfg.Size)
	if err != nil {
		return false, err
	}
	if b.cfg.Occupancy != nil {
		grid.Fill(b.cfg.Occupancy)
	} else {
		grid.Fill(FillAll)
	}

	mesh, err := BuildMesh(grid, b.cfg.Build)
	if err != nil {
		b.log.Warn("chunk rebuild failed", zap.Int("resolution", b.requested), zap.Error(err))
		return false, err
	}

	b.grid = grid
	b.mesh = mesh
	b.realized = b.requested

	b.log.Debug("chunk rebuilt",
		zap.Int("resolution", b.realized),
		zap.Stringer("layout", mesh.Layout),
		zap.Bool("culled", mesh.Culled),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("indices", len(mesh.Indices)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if b.cfg.Consumer != nil {
		b.cfg.Consumer.MeshReady(mesh)
	}
	return true, nil
}

// preflight applies every limit that the emit-all buffer sizes decide, so a
// rebuild that cannot succeed fails before the grid is allocated. Culled
// meshes are limited again after the counting pass.
func preflight(resolution int, opts BuildOptions) error {
	vertices, indices, err := BufferSizes(resolution, opts.Layout)
	if err != nil {
		return err
	}
	if err := checkCounts(vertices, indices); err != nil {
		return err
	}
	if opts.Cull {
		return nil
	}
	return checkLimit(vertices, opts)
}

// Grid returns the last realized grid, or nil before the first build.
func (b *Builder) Grid() *Grid { return b.grid }

// Mesh returns the last realized mesh, or nil before the first build.
func (b *Builder) Mesh() *Mesh { return b.mesh }

// Position returns the world-space centre of the chunk, used for framing.
func (b *Builder) Position() vm.Vec3 {
	step := b.cfg.Size / float32(b.requested)
	c := (b.cfg.Size - step) / 2
	return b.cfg.Origin.Add(vm.Vec3{X: c, Y: c, Z: c})
}

// Active reports whether the chunk takes part in framing. A chunk is always active.
func (b *Builder) Active() bool { return true }
