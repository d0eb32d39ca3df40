// Package spawn scatters voxel markers around a centre and feeds them to a
// spatial index and the camera rig.
package spawn

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelchunk/internal/engine/camera"
	"github.com/Faultbox/voxelchunk/internal/spatial"
	vm "github.com/Faultbox/voxelchunk/pkg/math"
)

var (
	ErrInvalidConfig = errors.New("invalid spawner config")
	ErrNilRand       = errors.New("spawner needs a random source")
	ErrNilIndex      = errors.New("spawner needs a spatial index")
)

// After the initial batch, points are drawn relative to a region this many
// times the world size.
const operatingScale = 7

// Config controls spawning.
type Config struct {
	Center    vm.Vec3 `yaml:"-"`
	WorldSize float32 `yaml:"world_size"`
	Initial   int     `yaml:"initial"`
	Max       int     `yaml:"max"`
	Interval  float32 `yaml:"interval"` // seconds between spawns
	Seed      uint64  `yaml:"seed"`
}

// DefaultConfig returns the stock spawner settings.
func DefaultConfig() Config {
	return Config{
		WorldSize: 15,
		Initial:   4,
		Max:       20,
		Interval:  1.5,
	}
}

// NewRand returns the deterministic source for a seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// Object is a spawned marker.
type Object struct {
	ID  int
	Pos vm.Vec3
}

// Position implements camera.Target.
func (o *Object) Position() vm.Vec3 { return o.Pos }

// Active implements camera.Target.
func (o *Object) Active() bool { return true }

// Spawner adds objects on a timer until Max is reached.
type Spawner struct {
	cfg       Config
	rng       *rand.Rand
	index     spatial.Index[*Object]
	cam       camera.TargetRegistrar
	log       *zap.Logger
	objects   []*Object
	elapsed   float32
	operating float32
}

// New validates cfg and spawns the initial batch. cam and log may be nil.
func New(cfg Config, rng *rand.Rand, index spatial.Index[*Object], cam camera.TargetRegistrar, log *zap.Logger) (*Spawner, error) {
	switch {
	case rng == nil:
		return nil, ErrNilRand
	case index == nil:
		return nil, ErrNilIndex
	case !(cfg.WorldSize > 0), cfg.Initial < 0, cfg.Max < 0, cfg.Interval < 0:
		return nil, fmt.Errorf("world %v, initial %d, max %d, interval %v: %w",
			cfg.WorldSize, cfg.Initial, cfg.Max, cfg.Interval, ErrInvalidConfig)
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Spawner{
		cfg:       cfg,
		rng:       rng,
		index:     index,
		cam:       cam,
		log:       log.Named("spawn"),
		operating: cfg.WorldSize,
	}
	for i := 0; i < cfg.Initial; i++ {
		if _, err := s.spawn(); err != nil {
			return nil, err
		}
	}
	s.operating = cfg.WorldSize * operatingScale
	return s, nil
}

// Tick advances the spawn timer by dt seconds and returns the object
// spawned this tick, if any.
func (s *Spawner) Tick(dt float32) (*Object, error) {
	if len(s.objects) >= s.cfg.Max {
		return nil, nil
	}
	s.elapsed += dt
	if s.elapsed <= s.cfg.Interval {
		return nil, nil
	}
	s.elapsed = 0
	return s.spawn()
}

// Objects returns every spawned object in spawn order.
func (s *Spawner) Objects() []*Object { return s.objects }

// Count returns the number of spawned objects.
func (s *Spawner) Count() int { return len(s.objects) }

// Done reports whether Max has been reached.
func (s *Spawner) Done() bool { return len(s.objects) >= s.cfg.Max }

// Index returns the index objects are added to.
func (s *Spawner) Index() spatial.Index[*Object] { return s.index }

func (s *Spawner) spawn() (*Object, error) {
	c := s.cfg.Center
	p := vm.Vec3{
		X: s.coord(c.X),
		Y: s.coord(c.Y),
		Z: s.coord(c.Z),
	}
	obj := &Object{ID: len(s.objects), Pos: p}
	if err := s.index.Add(obj, p); err != nil {
		return nil, fmt.Errorf("spawn %d: %w", obj.ID, err)
	}
	s.objects = append(s.objects, obj)
	if s.cam != nil {
		s.cam.AddVisibleTarget(obj)
	}
	s.log.Debug("spawned", zap.Int("id", obj.ID),
		zap.Float32("x", p.X), zap.Float32("y", p.Y), zap.Float32("z", p.Z))
	return obj, nil
}

// coord samples one axis: the lerp factor is ln(u)/3 for u in [1, 1000),
// clamped to [0, 1], which piles most points at the far edge.
func (s *Spawner) coord(center float32) float32 {
	lo := center - s.operating/2
	hi := lo + s.cfg.WorldSize
	u := 1 + s.rng.Float32()*999
	t := math32.Log(u) / 3
	if t > 1 {
		t = 1
	}
	return lo + (hi-lo)*t
}
