// Package voxel builds cube-grid surface meshes from dense boolean voxel grids.
package voxel

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"

	vm "github.com/Faultbox/voxelchunk/pkg/math"
)

// Grid is a dense R x R x R occupancy field covering a cube of Size world units.
// Cells are stored in scan order: index = x + y*R + z*R^2.
type Grid struct {
	resolution int
	size       float32
	cells      []bool
}

// NewGrid allocates an empty grid.
func NewGrid(resolution int, size float32) (*Grid, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("resolution %d: %w", resolution, ErrInvalidResolution)
	}
	if !(size > 0) || math32.IsInf(size, 0) {
		return nil, fmt.Errorf("size %v: %w", size, ErrInvalidSize)
	}
	if resolution >= maxCubeRoot {
		return nil, fmt.Errorf("resolution %d: %w", resolution, ErrCapacityExceeded)
	}
	r := uint64(resolution)
	if r*r*r > math.MaxInt {
		return nil, fmt.Errorf("resolution %d: %w", resolution, ErrCapacityExceeded)
	}

	return &Grid{
		resolution: resolution,
		size:       size,
		cells:      make([]bool, resolution*resolution*resolution),
	}, nil
}

// Resolution returns the number of cells along each axis.
func (g *Grid) Resolution() int { return g.resolution }

// Size returns the world-space edge length of the whole grid.
func (g *Grid) Size() float32 { return g.size }

// StepSize returns the world-space edge length of one cell.
func (g *Grid) StepSize() float32 { return g.size / float32(g.resolution) }

// Len returns R^3.
func (g *Grid) Len() int { return len(g.cells) }

// InBounds reports whether (x, y, z) addresses a cell.
func (g *Grid) InBounds(x, y, z int) bool {
	r := g.resolution
	return x >= 0 && x < r && y >= 0 && y < r && z >= 0 && z < r
}

// Index converts a coordinate to a scan-order index, or -1 when out of bounds.
func (g *Grid) Index(x, y, z int) int {
	if !g.InBounds(x, y, z) {
		return -1
	}
	return CellIndex(g.resolution, x, y, z)
}

// Coord converts a scan-order index back to a coordinate.
func (g *Grid) Coord(index int) vm.Vec3i {
	r := g.resolution
	return vm.Vec3i{X: index % r, Y: (index / r) % r, Z: index / (r * r)}
}

// Occupied reports the occupancy of a cell. Out-of-bounds cells are empty.
func (g *Grid) Occupied(x, y, z int) bool {
	i := g.Index(x, y, z)
	return i >= 0 && g.cells[i]
}

// Set changes a cell's occupancy. It returns false when out of bounds.
func (g *Grid) Set(x, y, z int, occupied bool) bool {
	i := g.Index(x, y, z)
	if i < 0 {
		return false
	}
	g.cells[i] = occupied
	return true
}

// Fill sets every cell from fn, visiting cells in scan order.
func (g *Grid) Fill(fn func(x, y, z int) bool) {
	r := g.resolution
	i := 0
	for z := 0; z < r; z++ {
		for y := 0; y < r; y++ {
			for x := 0; x < r; x++ {
				g.cells[i] = fn(x, y, z)
				i++
			}
		}
	}
}

// Count returns the number of occupied cells.
func (g *Grid) Count() int {
	n := 0
	for _, c := range g.cells {
		if c {
			n++
		}
	}
	return n
}

// Anchor returns the world-space centre of the cell at (x, y, z).
func (g *Grid) Anchor(x, y, z int) vm.Vec3 {
	step := g.StepSize()
	return vm.Vec3{X: float32(x) * step, Y: float32(y) * step, Z: float32(z) * step}
}

// FillAll is an occupancy function that marks every cell occupied.
func FillAll(x, y, z int) bool { return true }
