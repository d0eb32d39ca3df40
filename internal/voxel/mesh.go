package voxel

import (
	"fmt"
	"strings"

	vm "github.com/Faultbox/voxelchunk/pkg/math"
)

// Layout selects how cell corners map to vertices.
type Layout int

const (
	// LayoutFaceted emits 24 distinct vertices per cell so each face carries
	// its own normal and texture coordinates.
	LayoutFaceted Layout = iota
	// LayoutShared emits the (R+1)^3 corner lattice once and addresses it
	// with the lattice strides.
	LayoutShared
)

// String returns the config name of the layout.
func (l Layout) String() string {
	switch l {
	case LayoutFaceted:
		return "faceted"
	case LayoutShared:
		return "shared"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// ParseLayout converts a config name to a Layout.
func ParseLayout(name string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "faceted":
		return LayoutFaceted, nil
	case "shared":
		return LayoutShared, nil
	default:
		return 0, fmt.Errorf("layout %q: %w", name, ErrUnsupportedLayout)
	}
}

// Vertex is one mesh vertex as uploaded to the GPU: 8 tightly packed floats.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Mesh is a triangle list over a vertex buffer.
type Mesh struct {
	Vertices   []Vertex
	Indices    []uint32
	Resolution int
	StepSize   float32
	Layout     Layout
	Culled     bool
	Bounds     Bounds
}

// TriangleCount returns len(Indices)/3.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the vertex indices of triangle i.
func (m *Mesh) Triangle(i int) [3]uint32 {
	return [3]uint32{m.Indices[i*3], m.Indices[i*3+1], m.Indices[i*3+2]}
}

// TriangleNormal returns the right-handed geometric normal (unnormalized) of triangle i.
func (m *Mesh) TriangleNormal(i int) vm.Vec3 {
	tri := m.Triangle(i)
	p0 := position(m.Vertices[tri[0]])
	p1 := position(m.Vertices[tri[1]])
	p2 := position(m.Vertices[tri[2]])
	return p1.Sub(p0).Cross(p2.Sub(p0))
}

// Validate checks the buffer invariants: the index count is a multiple of 3,
// every index is in range, buffer lengths match the layout and no triangle
// is degenerate.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%d indices: %w", len(m.Indices), ErrMalformedMesh)
	}
	if err := m.checkLengths(); err != nil {
		return err
	}

	n := uint32(len(m.Vertices))
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("index %d at %d (vertex count %d): %w", idx, i, n, ErrIndexOutOfRange)
		}
	}

	for i := 0; i < m.TriangleCount(); i++ {
		if m.TriangleNormal(i).Length() == 0 {
			return fmt.Errorf("triangle %d %v: %w", i, m.Triangle(i), ErrDegenerateTriangle)
		}
	}
	return nil
}

func (m *Mesh) checkLengths() error {
	if m.Culled {
		if m.Layout != LayoutFaceted {
			return ErrCullingRequiresFaceted
		}
		faces := len(m.Vertices) / VerticesPerFace
		if len(m.Vertices)%VerticesPerFace != 0 || len(m.Indices) != faces*IndicesPerFace {
			return fmt.Errorf("culled mesh with %d vertices, %d indices: %w",
				len(m.Vertices), len(m.Indices), ErrMalformedMesh)
		}
		return nil
	}

	vertices, indices, err := BufferSizes(m.Resolution, m.Layout)
	if err != nil {
		return err
	}
	if uint64(len(m.Vertices)) != vertices || uint64(len(m.Indices)) != indices {
		return fmt.Errorf("resolution %d %s: got %d vertices, %d indices, want %d, %d: %w",
			m.Resolution, m.Layout, len(m.Vertices), len(m.Indices), vertices, indices, ErrMalformedMesh)
	}
	return nil
}

func position(v Vertex) vm.Vec3 {
	return vm.Vec3{X: v.Position[0], Y: v.Position[1], Z: v.Position[2]}
}

func emptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
}

// Extend grows the bounds to include p.
func (b *Bounds) Extend(p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Center returns the midpoint of the box.
func (b Bounds) Center() vm.Vec3 {
	return vm.Vec3{
		X: (b.Min[0] + b.Max[0]) / 2,
		Y: (b.Min[1] + b.Max[1]) / 2,
		Z: (b.Min[2] + b.Max[2]) / 2,
	}
}
