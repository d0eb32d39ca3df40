package voxel

import (
	"fmt"

	vm "github.com/Faultbox/voxelchunk/pkg/math"
)

// BuildOptions control mesh construction.
type BuildOptions struct {
	Layout Layout
	// Cull emits only faces of occupied cells that border an empty cell or the
	// grid edge. Requires LayoutFaceted.
	Cull bool
	// MaxVertices rejects larger meshes before allocation. Zero means no limit.
	MaxVertices int
}

// BuildMesh builds the complete surface mesh of grid. Buffers are sized
// exactly before they are filled; on error nothing is allocated.
func BuildMesh(grid *Grid, opts BuildOptions) (*Mesh, error) {
	if grid == nil {
		return nil, ErrNilGrid
	}
	if opts.Cull && opts.Layout != LayoutFaceted {
		return nil, ErrCullingRequiresFaceted
	}

	switch opts.Layout {
	case LayoutFaceted:
		if opts.Cull {
			return buildCulled(grid, opts)
		}
		return buildFaceted(grid, opts)
	case LayoutShared:
		return buildShared(grid, opts)
	default:
		return nil, fmt.Errorf("layout %d: %w", opts.Layout, ErrUnsupportedLayout)
	}
}

func checkLimit(vertices uint64, opts BuildOptions) error {
	if opts.MaxVertices > 0 && vertices > uint64(opts.MaxVertices) {
		return fmt.Errorf("%d vertices over limit %d: %w", vertices, opts.MaxVertices, ErrVertexLimit)
	}
	return nil
}

// buildFaceted emits every cell, each at its CellBase offsets.
func buildFaceted(grid *Grid, opts BuildOptions) (*Mesh, error) {
	r := grid.Resolution()
	nv, ni, err := BufferSizes(r, LayoutFaceted)
	if err != nil {
		return nil, err
	}
	if err := checkCounts(nv, ni); err != nil {
		return nil, err
	}
	if err := checkLimit(nv, opts); err != nil {
		return nil, err
	}

	mesh := newMesh(grid, LayoutFaceted, false, int(nv), int(ni))
	half := grid.StepSize() / 2

	for z := 0; z < r; z++ {
		for y := 0; y < r; y++ {
			for x := 0; x < r; x++ {
				v, t := CellBase(r, x, y, z)
				anchor := grid.Anchor(x, y, z)
				for f := Face(0); f < FaceCount; f++ {
					writeFace(mesh, v+int(f)*VerticesPerFace, t+int(f)*IndicesPerFace, anchor, half, f)
				}
			}
		}
	}

	mesh.Bounds = gridBounds(grid)
	return mesh, nil
}

// buildCulled emits only exposed faces. A counting pass sizes the buffers.
func buildCulled(grid *Grid, opts BuildOptions) (*Mesh, error) {
	faces := 0
	forEachExposedFace(grid, func(x, y, z int, f Face) { faces++ })

	nv := uint64(faces) * VerticesPerFace
	ni := uint64(faces) * IndicesPerFace
	if err := checkCounts(nv, ni); err != nil {
		return nil, err
	}
	if err := checkLimit(nv, opts); err != nil {
		return nil, err
	}

	mesh := newMesh(grid, LayoutFaceted, true, int(nv), int(ni))
	half := grid.StepSize() / 2

	v, t := 0, 0
	bounds := emptyBounds()
	forEachExposedFace(grid, func(x, y, z int, f Face) {
		writeFace(mesh, v, t, grid.Anchor(x, y, z), half, f)
		for k := 0; k < VerticesPerFace; k++ {
			bounds.Extend(mesh.Vertices[v+k].Position)
		}
		v += VerticesPerFace
		t += IndicesPerFace
	})

	if faces > 0 {
		mesh.Bounds = bounds
	}
	return mesh, nil
}

// buildShared emits the corner lattice once and walks the cells with the
// running stride cursor.
func buildShared(grid *Grid, opts BuildOptions) (*Mesh, error) {
	r := grid.Resolution()
	nv, ni, err := BufferSizes(r, LayoutShared)
	if err != nil {
		return nil, err
	}
	if err := checkCounts(nv, ni); err != nil {
		return nil, err
	}
	if err := checkLimit(nv, opts); err != nil {
		return nil, err
	}
	s, err := NewStrides(r)
	if err != nil {
		return nil, err
	}

	mesh := newMesh(grid, LayoutShared, false, int(nv), int(ni))
	step := grid.StepSize()
	inv := 1 / float32(r)

	for lz := 0; lz <= r; lz++ {
		for ly := 0; ly <= r; ly++ {
			for lx := 0; lx <= r; lx++ {
				vert := &mesh.Vertices[s.LatticeCursor(lx, ly, lz)]
				vert.Position = [3]float32{
					(float32(lx) - 0.5) * step,
					(float32(ly) - 0.5) * step,
					(float32(lz) - 0.5) * step,
				}
				vert.TexCoord = [2]float32{float32(lx) * inv, float32(lz) * inv}
			}
		}
	}

	offsets := s.CornerOffsets()
	for t, v, z := 0, 0, 0; z < r; z, v = z+1, v+s.YSkip {
		for y := 0; y < r; y, v = y+1, v+1 {
			for x := 0; x < r; x, v, t = x+1, v+1, t+IndicesPerCell {
				for f := Face(0); f < FaceCount; f++ {
					c := faceCorners[f]
					addQuad(mesh.Indices, t+int(f)*IndicesPerFace,
						uint32(v+offsets[c[0]]),
						uint32(v+offsets[c[1]]),
						uint32(v+offsets[c[2]]),
						uint32(v+offsets[c[3]]))
				}
			}
		}
	}

	accumulateNormals(mesh)
	mesh.Bounds = gridBounds(grid)
	return mesh, nil
}

func newMesh(grid *Grid, layout Layout, culled bool, vertices, indices int) *Mesh {
	return &Mesh{
		Vertices:   make([]Vertex, vertices),
		Indices:    make([]uint32, indices),
		Resolution: grid.Resolution(),
		StepSize:   grid.StepSize(),
		Layout:     layout,
		Culled:     culled,
	}
}

// writeFace writes the four vertices of face f of the cube centred on anchor
// at vertex offset v and its two triangles at index offset t.
func writeFace(mesh *Mesh, v, t int, anchor vm.Vec3, half float32, f Face) {
	normal := faceNormals[f].Array()
	for k, corner := range faceCorners[f] {
		mesh.Vertices[v+k] = Vertex{
			Position: anchor.Add(cornerUnit(corner).Scale(2 * half)).Array(),
			Normal:   normal,
			TexCoord: quadUV[k],
		}
	}
	base := uint32(v)
	addQuad(mesh.Indices, t, base, base+1, base+2, base+3)
}

// forEachExposedFace visits, in scan and face order, every face of an
// occupied cell whose neighbour is empty or outside the grid.
func forEachExposedFace(grid *Grid, fn func(x, y, z int, f Face)) {
	r := grid.Resolution()
	for z := 0; z < r; z++ {
		for y := 0; y < r; y++ {
			for x := 0; x < r; x++ {
				if !grid.Occupied(x, y, z) {
					continue
				}
				for f := Face(0); f < FaceCount; f++ {
					n := f.Neighbor()
					if !grid.Occupied(x+n.X, y+n.Y, z+n.Z) {
						fn(x, y, z, f)
					}
				}
			}
		}
	}
}

// accumulateNormals sets each shared vertex normal to the normalized sum of
// the normals of the quads around it. Lattice points inside the grid see
// opposing quads cancel and end up with a zero normal.
func accumulateNormals(mesh *Mesh) {
	sums := make([]vm.Vec3, len(mesh.Vertices))
	for q := 0; q < len(mesh.Indices)/IndicesPerFace; q++ {
		n := mesh.TriangleNormal(2 * q).Normalize()
		// a, d, b of the first triangle and c of the second
		t := q * IndicesPerFace
		for _, idx := range [VerticesPerFace]uint32{mesh.Indices[t], mesh.Indices[t+1], mesh.Indices[t+2], mesh.Indices[t+5]} {
			sums[idx] = sums[idx].Add(n)
		}
	}
	for i := range mesh.Vertices {
		mesh.Vertices[i].Normal = sums[i].Normalize().Array()
	}
}

func gridBounds(grid *Grid) Bounds {
	half := grid.StepSize() / 2
	lo := -half
	hi := grid.Size() - half
	return Bounds{
		Min: [3]float32{lo, lo, lo},
		Max: [3]float32{hi, hi, hi},
	}
}
