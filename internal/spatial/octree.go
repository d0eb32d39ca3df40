package spatial

import (
	"fmt"

	"github.com/Faultbox/voxelchunk/pkg/math"
)

// Objects a node holds before it splits.
const numObjectsAllowed = 8

// Growth attempts before Add gives up on a point.
const maxGrowAttempts = 32

type entry[T any] struct {
	payload T
	pos     math.Vec3
}

type octreeNode[T any] struct {
	center   math.Vec3
	size     float32 // edge length
	minSize  float32
	objects  []entry[T]
	children *[8]*octreeNode[T]
}

// PointOctree is a sparse octree of points. The root grows to take points
// outside it; nodes never split below the minimum node size.
type PointOctree[T any] struct {
	root    *octreeNode[T]
	minSize float32
	count   int
}

// NewPointOctree creates an octree of initialWorldSize centred on center.
// A minNodeSize larger than the world is clamped to it.
func NewPointOctree[T any](initialWorldSize float32, center math.Vec3, minNodeSize float32) (*PointOctree[T], error) {
	if !(initialWorldSize > 0) || !(minNodeSize > 0) {
		return nil, fmt.Errorf("world %v, min node %v: %w", initialWorldSize, minNodeSize, ErrInvalidSize)
	}
	if !validPoint(center) {
		return nil, ErrInvalidPoint
	}
	if minNodeSize > initialWorldSize {
		minNodeSize = initialWorldSize
	}
	return &PointOctree[T]{
		root:    newNode[T](center, initialWorldSize, minNodeSize),
		minSize: minNodeSize,
	}, nil
}

func newNode[T any](center math.Vec3, size, minSize float32) *octreeNode[T] {
	return &octreeNode[T]{center: center, size: size, minSize: minSize}
}

// Add inserts payload at point, growing the tree as needed. A point the root
// cannot reach within the growth budget leaves the tree unchanged.
func (o *PointOctree[T]) Add(payload T, point math.Vec3) error {
	if !validPoint(point) {
		return fmt.Errorf("%v: %w", point, ErrInvalidPoint)
	}
	e := entry[T]{payload: payload, pos: point}
	prev := o.root
	for i := 0; !o.root.add(e); i++ {
		if i >= maxGrowAttempts {
			// grow never mutates the node it wraps
			o.root = prev
			return fmt.Errorf("%v after %d grow attempts: %w", point, i, ErrOutOfRange)
		}
		o.grow(point.Sub(o.root.center))
	}
	o.count++
	return nil
}

// Count returns the number of stored points.
func (o *PointOctree[T]) Count() int { return o.count }

// Bounds returns the root node's box.
func (o *PointOctree[T]) Bounds() AABB { return o.root.bounds() }

// NodeCount returns the number of nodes and the depth of the deepest one.
func (o *PointOctree[T]) NodeCount() (nodes, depth int) {
	var walk func(n *octreeNode[T], d int)
	walk = func(n *octreeNode[T], d int) {
		nodes++
		if d > depth {
			depth = d
		}
		if n.children != nil {
			for _, c := range n.children {
				walk(c, d+1)
			}
		}
	}
	walk(o.root, 1)
	return nodes, depth
}

// GetNearby returns every payload within maxDistance of point.
func (o *PointOctree[T]) GetNearby(point math.Vec3, maxDistance float32) []T {
	var out []T
	if maxDistance < 0 {
		return out
	}
	o.root.nearby(point, maxDistance*maxDistance, &out)
	return out
}

// Nearest returns the payload closest to point.
func (o *PointOctree[T]) Nearest(point math.Vec3) (T, bool) {
	var best entry[T]
	bestSq := float32(-1)
	o.root.nearest(point, &best, &bestSq)
	return best.payload, bestSq >= 0
}

// DrawAllBounds emits the box of every node.
func (o *PointOctree[T]) DrawAllBounds(d Drawer) {
	o.root.walk(func(n *octreeNode[T]) {
		b := n.bounds()
		d.DrawBounds(b.Min, b.Max)
	})
}

// DrawAllObjects emits every stored point.
func (o *PointOctree[T]) DrawAllObjects(d Drawer) {
	o.root.walk(func(n *octreeNode[T]) {
		for _, e := range n.objects {
			d.DrawPoint(e.pos)
		}
	})
}

// grow doubles the root towards direction, keeping the old root as one octant.
func (o *PointOctree[T]) grow(direction math.Vec3) {
	sign := func(v float32) float32 {
		if v >= 0 {
			return 1
		}
		return -1
	}
	dir := math.Vec3{X: sign(direction.X), Y: sign(direction.Y), Z: sign(direction.Z)}

	old := o.root
	half := old.size / 2
	root := newNode[T](old.center.Add(dir.Scale(half)), old.size*2, o.minSize)

	if old.hasAnyObjects() {
		oldIdx := root.bestFitChild(old.center)
		var children [8]*octreeNode[T]
		for i := range children {
			if i == oldIdx {
				children[i] = old
				continue
			}
			children[i] = newNode[T](root.childCenter(i), old.size, o.minSize)
		}
		root.children = &children
	}
	o.root = root
}

func (n *octreeNode[T]) bounds() AABB {
	h := n.size / 2
	ext := math.Vec3{X: h, Y: h, Z: h}
	return AABB{Min: n.center.Sub(ext), Max: n.center.Add(ext)}
}

func (n *octreeNode[T]) add(e entry[T]) bool {
	if !n.bounds().Contains(e.pos) {
		return false
	}
	n.subAdd(e)
	return true
}

func (n *octreeNode[T]) subAdd(e entry[T]) {
	if n.children == nil {
		if len(n.objects) < numObjectsAllowed || n.size/2 < n.minSize {
			n.objects = append(n.objects, e)
			return
		}
		n.split()
	}
	n.children[n.bestFitChild(e.pos)].subAdd(e)
}

func (n *octreeNode[T]) split() {
	var children [8]*octreeNode[T]
	for i := range children {
		children[i] = newNode[T](n.childCenter(i), n.size/2, n.minSize)
	}
	n.children = &children
	for _, e := range n.objects {
		children[n.bestFitChild(e.pos)].subAdd(e)
	}
	n.objects = nil
}

// bestFitChild picks the octant of p: bit 0 = +x, bit 1 = +y, bit 2 = +z.
func (n *octreeNode[T]) bestFitChild(p math.Vec3) int {
	i := 0
	if p.X > n.center.X {
		i |= 1
	}
	if p.Y > n.center.Y {
		i |= 2
	}
	if p.Z > n.center.Z {
		i |= 4
	}
	return i
}

func (n *octreeNode[T]) childCenter(i int) math.Vec3 {
	q := n.size / 4
	off := func(bit int) float32 {
		if i&bit != 0 {
			return q
		}
		return -q
	}
	return n.center.Add(math.Vec3{X: off(1), Y: off(2), Z: off(4)})
}

func (n *octreeNode[T]) hasAnyObjects() bool {
	if len(n.objects) > 0 {
		return true
	}
	if n.children != nil {
		for _, c := range n.children {
			if c.hasAnyObjects() {
				return true
			}
		}
	}
	return false
}

func (n *octreeNode[T]) walk(fn func(*octreeNode[T])) {
	fn(n)
	if n.children != nil {
		for _, c := range n.children {
			c.walk(fn)
		}
	}
}

func (n *octreeNode[T]) nearby(p math.Vec3, maxSq float32, out *[]T) {
	if n.bounds().DistanceSq(p) > maxSq {
		return
	}
	for _, e := range n.objects {
		d := e.pos.Sub(p)
		if d.Dot(d) <= maxSq {
			*out = append(*out, e.payload)
		}
	}
	if n.children != nil {
		for _, c := range n.children {
			c.nearby(p, maxSq, out)
		}
	}
}

func (n *octreeNode[T]) nearest(p math.Vec3, best *entry[T], bestSq *float32) {
	if *bestSq >= 0 && n.bounds().DistanceSq(p) > *bestSq {
		return
	}
	for _, e := range n.objects {
		d := e.pos.Sub(p)
		if sq := d.Dot(d); *bestSq < 0 || sq < *bestSq {
			*best = e
			*bestSq = sq
		}
	}
	if n.children == nil {
		return
	}
	// Visit the octant containing p first to tighten the bound early
	first := n.bestFitChild(p)
	n.children[first].nearest(p, best, bestSq)
	for i, c := range n.children {
		if i != first {
			c.nearest(p, best, bestSq)
		}
	}
}
