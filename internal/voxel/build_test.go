package voxel

import (
	"errors"
	"testing"

	vm "github.com/Faultbox/voxelchunk/pkg/math"
)

func buildFull(t *testing.T, r int, size float32, opts BuildOptions) *Mesh {
	t.Helper()
	g, err := NewGrid(r, size)
	if err != nil {
		t.Fatal(err)
	}
	g.Fill(FillAll)
	m, err := BuildMesh(g, opts)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestBuildFacetedSizes(t *testing.T) {
	for _, r := range []int{1, 2, 3, 5} {
		m := buildFull(t, r, 1, BuildOptions{})
		cells := r * r * r
		if len(m.Vertices) != 24*cells {
			t.Errorf("R=%d: expected %d vertices, got %d", r, 24*cells, len(m.Vertices))
		}
		if len(m.Indices) != 36*cells {
			t.Errorf("R=%d: expected %d indices, got %d", r, 36*cells, len(m.Indices))
		}
		if err := m.Validate(); err != nil {
			t.Errorf("R=%d: %v", r, err)
		}
	}
}

func TestBuildSingleCell(t *testing.T) {
	m := buildFull(t, 1, 1, BuildOptions{})
	if len(m.Vertices) != 24 || len(m.Indices) != 36 || m.TriangleCount() != 12 {
		t.Fatalf("expected 24/36/12, got %d/%d/%d", len(m.Vertices), len(m.Indices), m.TriangleCount())
	}
	if m.StepSize != 1 {
		t.Errorf("expected step 1, got %v", m.StepSize)
	}
	want := Bounds{Min: [3]float32{-0.5, -0.5, -0.5}, Max: [3]float32{0.5, 0.5, 0.5}}
	if m.Bounds != want {
		t.Errorf("expected bounds %v, got %v", want, m.Bounds)
	}
}

func TestBuildCellPlacement(t *testing.T) {
	m := buildFull(t, 2, 4, BuildOptions{})
	if m.StepSize != 2 || len(m.Vertices) != 192 || len(m.Indices) != 288 {
		t.Fatalf("expected step 2 with 192/288, got %v with %d/%d", m.StepSize, len(m.Vertices), len(m.Indices))
	}

	v, tri := CellBase(2, 1, 1, 1)
	var sum vm.Vec3
	for _, vert := range m.Vertices[v : v+VerticesPerCell] {
		sum = sum.Add(position(vert))
		for axis, p := range vert.Position {
			if p != 1 && p != 3 {
				t.Fatalf("vertex axis %d at %v, expected 1 or 3", axis, p)
			}
		}
	}
	// 24 corners averaging to (2,2,2)
	if sum != (vm.Vec3{X: 48, Y: 48, Z: 48}) {
		t.Errorf("expected cell centred on (2,2,2), got sum %v", sum)
	}
	for _, idx := range m.Indices[tri : tri+IndicesPerCell] {
		if int(idx) < v || int(idx) >= v+VerticesPerCell {
			t.Fatalf("index %d outside cell vertex range [%d,%d)", idx, v, v+VerticesPerCell)
		}
	}

	want := Bounds{Min: [3]float32{-1, -1, -1}, Max: [3]float32{3, 3, 3}}
	if m.Bounds != want {
		t.Errorf("expected bounds %v, got %v", want, m.Bounds)
	}
}

func TestBuildFacesPointOutward(t *testing.T) {
	m := buildFull(t, 2, 2, BuildOptions{})
	g, _ := NewGrid(2, 2)
	for i := 0; i < m.TriangleCount(); i++ {
		cell := i / (IndicesPerCell / 3)
		face := Face(i % (IndicesPerCell / 3) / 2)
		c := g.Coord(cell)
		anchor := g.Anchor(c.X, c.Y, c.Z)

		tri := m.Triangle(i)
		centroid := position(m.Vertices[tri[0]]).
			Add(position(m.Vertices[tri[1]])).
			Add(position(m.Vertices[tri[2]])).Scale(1.0 / 3)

		n := m.TriangleNormal(i)
		if n.Dot(centroid.Sub(anchor)) <= 0 {
			t.Fatalf("triangle %d (cell %d %s) faces inward", i, cell, face)
		}
		if n.Dot(face.Normal()) <= 0 {
			t.Fatalf("triangle %d winds against %s", i, face)
		}
		for _, idx := range tri {
			if m.Vertices[idx].Normal != face.Normal().Array() {
				t.Fatalf("vertex %d normal %v, expected %v", idx, m.Vertices[idx].Normal, face.Normal())
			}
		}
	}
}

func TestBuildTexCoords(t *testing.T) {
	m := buildFull(t, 1, 1, BuildOptions{})
	for f := 0; f < FaceCount; f++ {
		for k := 0; k < VerticesPerFace; k++ {
			if got := m.Vertices[f*VerticesPerFace+k].TexCoord; got != quadUV[k] {
				t.Errorf("face %d corner %d: expected uv %v, got %v", f, k, quadUV[k], got)
			}
		}
	}
}

func TestBuildEmptyGridStillEmitsEveryCell(t *testing.T) {
	g, _ := NewGrid(2, 1)
	m, err := BuildMesh(g, BuildOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Vertices) != 192 {
		t.Errorf("expected 192 vertices, got %d", len(m.Vertices))
	}
}

func TestBuildCulled(t *testing.T) {
	tests := []struct {
		name  string
		r     int
		fill  func(x, y, z int) bool
		faces int
	}{
		{"full 2", 2, FillAll, 24},
		{"full 3", 3, FillAll, 54},
		{"single voxel", 3, func(x, y, z int) bool { return x == 1 && y == 1 && z == 1 }, 6},
		{"two adjacent", 2, func(x, y, z int) bool { return y == 0 && z == 0 }, 10},
		{"empty", 2, func(x, y, z int) bool { return false }, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := NewGrid(tt.r, float32(tt.r))
			g.Fill(tt.fill)
			m, err := BuildMesh(g, BuildOptions{Cull: true})
			if err != nil {
				t.Fatal(err)
			}
			if !m.Culled {
				t.Error("expected a culled mesh")
			}
			if len(m.Vertices) != tt.faces*VerticesPerFace || len(m.Indices) != tt.faces*IndicesPerFace {
				t.Fatalf("expected %d faces, got %d vertices %d indices", tt.faces, len(m.Vertices), len(m.Indices))
			}
			if err := m.Validate(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestBuildCulledSingleVoxelBounds(t *testing.T) {
	g, _ := NewGrid(3, 3)
	g.Set(2, 0, 1, true)
	m, err := BuildMesh(g, BuildOptions{Cull: true})
	if err != nil {
		t.Fatal(err)
	}
	want := Bounds{Min: [3]float32{1.5, -0.5, 0.5}, Max: [3]float32{2.5, 0.5, 1.5}}
	if m.Bounds != want {
		t.Errorf("expected bounds %v, got %v", want, m.Bounds)
	}
}

func TestBuildShared(t *testing.T) {
	m := buildFull(t, 2, 2, BuildOptions{Layout: LayoutShared})
	if len(m.Vertices) != 27 || len(m.Indices) != 288 {
		t.Fatalf("expected 27/288, got %d/%d", len(m.Vertices), len(m.Indices))
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}

	s, _ := NewStrides(2)
	// centre of the lattice is inside the solid
	centre := m.Vertices[s.LatticeCursor(1, 1, 1)]
	if centre.Normal != [3]float32{0, 0, 0} {
		t.Errorf("expected interior normal to cancel, got %v", centre.Normal)
	}
	corner := m.Vertices[s.LatticeCursor(2, 2, 2)]
	if corner.Position != [3]float32{1.5, 1.5, 1.5} {
		t.Errorf("expected far corner at 1.5, got %v", corner.Position)
	}
	n := vm.Vec3{X: corner.Normal[0], Y: corner.Normal[1], Z: corner.Normal[2]}
	if n.X <= 0 || n.Y <= 0 || n.Z <= 0 {
		t.Errorf("expected far corner normal to point outward, got %v", n)
	}
	if corner.TexCoord != [2]float32{1, 1} {
		t.Errorf("expected uv (1,1), got %v", corner.TexCoord)
	}

	// first cell addresses exactly its eight corners
	seen := map[uint32]bool{}
	for _, idx := range m.Indices[:IndicesPerCell] {
		seen[idx] = true
	}
	for _, off := range s.CornerOffsets() {
		if !seen[uint32(off)] {
			t.Errorf("expected corner offset %d in first cell", off)
		}
	}
	if len(seen) != CornersPerCell {
		t.Errorf("expected %d distinct corners, got %d", CornersPerCell, len(seen))
	}
}

func TestBuildErrors(t *testing.T) {
	g, _ := NewGrid(4, 1)
	tests := []struct {
		name string
		grid *Grid
		opts BuildOptions
		err  error
	}{
		{"nil grid", nil, BuildOptions{}, ErrNilGrid},
		{"cull shared", g, BuildOptions{Layout: LayoutShared, Cull: true}, ErrCullingRequiresFaceted},
		{"bad layout", g, BuildOptions{Layout: Layout(7)}, ErrUnsupportedLayout},
		{"vertex limit", g, BuildOptions{MaxVertices: 100}, ErrVertexLimit},
		{"shared limit", g, BuildOptions{Layout: LayoutShared, MaxVertices: 124}, ErrVertexLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := BuildMesh(tt.grid, tt.opts)
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
			if m != nil {
				t.Error("expected no mesh on error")
			}
		})
	}

	if _, err := BuildMesh(g, BuildOptions{Layout: LayoutShared, MaxVertices: 125}); err != nil {
		t.Errorf("expected 125 vertices to fit the limit, got %v", err)
	}
}

func TestValidateRejectsBrokenMesh(t *testing.T) {
	fresh := func() *Mesh { return buildFull(t, 1, 1, BuildOptions{}) }

	m := fresh()
	m.Indices[5] = 99
	if err := m.Validate(); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}

	m = fresh()
	m.Indices[1] = m.Indices[0]
	if err := m.Validate(); !errors.Is(err, ErrDegenerateTriangle) {
		t.Errorf("expected ErrDegenerateTriangle, got %v", err)
	}

	m = fresh()
	m.Indices = m.Indices[:35]
	if err := m.Validate(); !errors.Is(err, ErrMalformedMesh) {
		t.Errorf("expected ErrMalformedMesh, got %v", err)
	}

	m = fresh()
	m.Vertices = m.Vertices[:20]
	if err := m.Validate(); !errors.Is(err, ErrMalformedMesh) {
		t.Errorf("expected ErrMalformedMesh, got %v", err)
	}
}

func TestParseLayout(t *testing.T) {
	tests := []struct {
		in      string
		want    Layout
		wantErr bool
	}{
		{"", LayoutFaceted, false},
		{"faceted", LayoutFaceted, false},
		{" Shared ", LayoutShared, false},
		{"smooth", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseLayout(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("%q: expected error=%v, got %v", tt.in, tt.wantErr, err)
		}
		if got != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.in, tt.want, got)
		}
	}
}
