package spatial

import (
	"fmt"

	"github.com/dhconnelly/rtreego"

	"github.com/Faultbox/voxelchunk/pkg/math"
)

// Half-extent of the box that stands in for a point inside the R-tree.
const pointTolerance = 1e-4

type rtreeEntry[T any] struct {
	payload T
	pos     math.Vec3
	rect    rtreego.Rect
}

func (e *rtreeEntry[T]) Bounds() rtreego.Rect { return e.rect }

// RTree is an Index backed by rtreego.
type RTree[T any] struct {
	tree    *rtreego.Rtree
	entries []*rtreeEntry[T]
}

// NewRTree creates an empty three-dimensional R-tree.
func NewRTree[T any]() *RTree[T] {
	return &RTree[T]{tree: rtreego.NewTree(3, 25, 50)}
}

func toPoint(p math.Vec3) rtreego.Point {
	return rtreego.Point{float64(p.X), float64(p.Y), float64(p.Z)}
}

// Add inserts payload at point.
func (r *RTree[T]) Add(payload T, point math.Vec3) error {
	if !validPoint(point) {
		return fmt.Errorf("%v: %w", point, ErrInvalidPoint)
	}
	e := &rtreeEntry[T]{payload: payload, pos: point, rect: toPoint(point).ToRect(pointTolerance)}
	r.tree.Insert(e)
	r.entries = append(r.entries, e)
	return nil
}

// Count returns the number of stored points.
func (r *RTree[T]) Count() int { return r.tree.Size() }

// GetNearby returns every payload within maxDistance of point.
func (r *RTree[T]) GetNearby(point math.Vec3, maxDistance float32) []T {
	var out []T
	if maxDistance < 0 || r.tree.Size() == 0 {
		return out
	}
	reach := float64(maxDistance) + pointTolerance
	bb, err := rtreego.NewRect(
		rtreego.Point{float64(point.X) - reach, float64(point.Y) - reach, float64(point.Z) - reach},
		[]float64{2 * reach, 2 * reach, 2 * reach},
	)
	if err != nil {
		return out
	}
	maxSq := maxDistance * maxDistance
	for _, s := range r.tree.SearchIntersect(bb) {
		e := s.(*rtreeEntry[T])
		d := e.pos.Sub(point)
		if d.Dot(d) <= maxSq {
			out = append(out, e.payload)
		}
	}
	return out
}

// Nearest returns the payload closest to point.
func (r *RTree[T]) Nearest(point math.Vec3) (T, bool) {
	var zero T
	if r.tree.Size() == 0 {
		return zero, false
	}
	s := r.tree.NearestNeighbor(toPoint(point))
	if s == nil {
		return zero, false
	}
	return s.(*rtreeEntry[T]).payload, true
}

// DrawAllBounds emits the box around every stored point.
func (r *RTree[T]) DrawAllBounds(d Drawer) {
	for _, e := range r.entries {
		ext := math.Vec3{X: pointTolerance, Y: pointTolerance, Z: pointTolerance}
		d.DrawBounds(e.pos.Sub(ext), e.pos.Add(ext))
	}
}

// DrawAllObjects emits every stored point.
func (r *RTree[T]) DrawAllObjects(d Drawer) {
	for _, e := range r.entries {
		d.DrawPoint(e.pos)
	}
}
