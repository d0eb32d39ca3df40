// Package spatial indexes spawned objects by position for region and nearest queries.
package spatial

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chewxy/math32"

	"github.com/Faultbox/voxelchunk/pkg/math"
)

// Spatial index errors.
var (
	ErrInvalidPoint   = errors.New("point has a NaN or infinite coordinate")
	ErrInvalidSize    = errors.New("octree sizes must be positive")
	ErrUnknownBackend = errors.New("unknown spatial index backend")
	ErrOutOfRange     = errors.New("point is beyond the octree's growth range")
)

// Index stores payloads at points.
type Index[T any] interface {
	Add(payload T, point math.Vec3) error
	// GetNearby returns every payload within maxDistance of point.
	GetNearby(point math.Vec3, maxDistance float32) []T
	// Nearest returns the payload closest to point, false when empty.
	Nearest(point math.Vec3) (T, bool)
	Count() int
}

// Drawer receives debug geometry.
type Drawer interface {
	DrawBounds(min, max math.Vec3)
	DrawPoint(p math.Vec3)
}

// DebugDrawer is implemented by indexes that can visualize themselves.
type DebugDrawer interface {
	DrawAllBounds(d Drawer)
	DrawAllObjects(d Drawer)
}

// Config selects and sizes an index.
type Config struct {
	Backend     string    `yaml:"backend"` // "octree" or "rtree"
	WorldSize   float32   `yaml:"world_size"`
	MinNodeSize float32   `yaml:"min_node_size"`
	Center      math.Vec3 `yaml:"center"`
}

// New creates the index named by cfg.Backend.
func New[T any](cfg Config) (Index[T], error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "octree":
		o, err := NewPointOctree[T](cfg.WorldSize, cfg.Center, cfg.MinNodeSize)
		if err != nil {
			return nil, err
		}
		return o, nil
	case "rtree":
		return NewRTree[T](), nil
	default:
		return nil, fmt.Errorf("backend %q: %w", cfg.Backend, ErrUnknownBackend)
	}
}

// AABB is an axis-aligned box.
type AABB struct {
	Min, Max math.Vec3
}

// Contains reports whether p lies inside or on the box.
func (b AABB) Contains(p math.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// DistanceSq returns the squared distance from p to the box (0 inside).
func (b AABB) DistanceSq(p math.Vec3) float32 {
	c := p.Max(b.Min).Min(b.Max)
	d := p.Sub(c)
	return d.Dot(d)
}

func validPoint(p math.Vec3) bool {
	for _, v := range [3]float32{p.X, p.Y, p.Z} {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return false
		}
	}
	return true
}
