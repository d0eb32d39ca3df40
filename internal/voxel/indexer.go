package voxel

import (
	"fmt"
	"math"
)

// Per-cell buffer footprint of the faceted layout: 6 faces of 4 corners,
// 6 quads of 2 triangles of 3 indices.
const (
	VerticesPerCell = 24
	IndicesPerCell  = 36
	VerticesPerFace = 4
	IndicesPerFace  = 6
	CornersPerCell  = 8
)

// maxCubeRoot bounds resolutions whose cube is computed in uint64 without overflow.
const maxCubeRoot = 1 << 20

// Strides address the (R+1)^3 corner lattice of an R^3 grid in scan order
// (x fastest, then y, then z).
type Strides struct {
	Resolution int
	YSkip      int // R+1, one lattice row
	ZSkip      int // YSkip^2, one lattice slice
	YZSkip     int // YSkip+ZSkip
}

// NewStrides computes the lattice strides for the given resolution.
func NewStrides(resolution int) (Strides, error) {
	if resolution <= 0 {
		return Strides{}, fmt.Errorf("resolution %d: %w", resolution, ErrInvalidResolution)
	}
	if resolution >= maxCubeRoot {
		return Strides{}, fmt.Errorf("resolution %d: %w", resolution, ErrCapacityExceeded)
	}
	ySkip := resolution + 1
	zSkip := ySkip * ySkip
	return Strides{
		Resolution: resolution,
		YSkip:      ySkip,
		ZSkip:      zSkip,
		YZSkip:     ySkip + zSkip,
	}, nil
}

// CornerOffset returns the lattice offset of a cube corner relative to the
// cell's cursor. Corner bits: x = bit 0, y = bit 1, z = bit 2, giving
// {0, 1, YSkip, YSkip+1, ZSkip, ZSkip+1, YZSkip, YZSkip+1}.
func (s Strides) CornerOffset(corner int) int {
	off := corner & 1
	if corner&2 != 0 {
		off += s.YSkip
	}
	if corner&4 != 0 {
		off += s.ZSkip
	}
	return off
}

// CornerOffsets returns all eight corner offsets in corner order.
func (s Strides) CornerOffsets() [CornersPerCell]int {
	var out [CornersPerCell]int
	for c := range out {
		out[c] = s.CornerOffset(c)
	}
	return out
}

// LatticeCursor is the closed form of the scan cursor for the cell (or
// lattice point) at (x, y, z): it advances by 1 per x step, by one extra per
// y wrap (a full YSkip per row) and by YSkip extra per z wrap (ZSkip per slice).
func (s Strides) LatticeCursor(x, y, z int) int {
	return x + y*s.YSkip + z*s.ZSkip
}

// LatticeSize is the number of shared corner points, (R+1)^3.
func (s Strides) LatticeSize() int {
	return s.ZSkip * s.YSkip
}

// CellIndex is the scan-order index of a cell: x + y*R + z*R^2.
func CellIndex(resolution, x, y, z int) int {
	return x + y*resolution + z*resolution*resolution
}

// CellBase returns where the cell at (x, y, z) starts in the faceted vertex
// buffer and in the triangle index buffer.
func CellBase(resolution, x, y, z int) (vertexBase, triangleBase int) {
	c := CellIndex(resolution, x, y, z)
	return c * VerticesPerCell, c * IndicesPerCell
}

// BufferSizes returns the exact vertex and index counts an emit-all build of
// the given layout produces.
func BufferSizes(resolution int, layout Layout) (vertices, indices uint64, err error) {
	if resolution <= 0 {
		return 0, 0, fmt.Errorf("resolution %d: %w", resolution, ErrInvalidResolution)
	}
	if resolution >= maxCubeRoot {
		return 0, 0, fmt.Errorf("resolution %d: %w", resolution, ErrCapacityExceeded)
	}
	r := uint64(resolution)
	cells := r * r * r
	indices = cells * IndicesPerCell

	switch layout {
	case LayoutFaceted:
		vertices = cells * VerticesPerCell
	case LayoutShared:
		vertices = (r + 1) * (r + 1) * (r + 1)
	default:
		return 0, 0, fmt.Errorf("layout %d: %w", layout, ErrUnsupportedLayout)
	}
	return vertices, indices, nil
}

// CheckCapacity rejects resolutions whose buffers cannot be addressed with
// uint32 indices or allocated as Go slices. It runs before any allocation.
func CheckCapacity(resolution int, layout Layout) error {
	vertices, indices, err := BufferSizes(resolution, layout)
	if err != nil {
		return err
	}
	return checkCounts(vertices, indices)
}

func checkCounts(vertices, indices uint64) error {
	// Largest index is vertices-1 and must fit in uint32
	if vertices > math.MaxUint32+1 || indices > math.MaxInt || vertices > math.MaxInt {
		return fmt.Errorf("%d vertices, %d indices: %w", vertices, indices, ErrCapacityExceeded)
	}
	return nil
}
