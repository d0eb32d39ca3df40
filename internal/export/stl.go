// Package export writes chunk meshes to interchange formats.
package export

import (
	"errors"
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/Faultbox/voxelchunk/internal/voxel"
)

var ErrEmptyMesh = errors.New("mesh has no triangles")

// Triangles converts mesh to sdfx triangles in index order.
func Triangles(mesh *voxel.Mesh) ([]*sdf.Triangle3, error) {
	if mesh == nil || mesh.TriangleCount() == 0 {
		return nil, ErrEmptyMesh
	}
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	out := make([]*sdf.Triangle3, mesh.TriangleCount())
	for i := range out {
		idx := mesh.Triangle(i)
		var tri sdf.Triangle3
		for j, vi := range idx {
			p := mesh.Vertices[vi].Position
			tri[j] = v3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
		}
		out[i] = &tri
	}
	return out, nil
}

// WriteSTL writes mesh as a binary STL file.
func WriteSTL(path string, mesh *voxel.Mesh) error {
	tris, err := Triangles(mesh)
	if err != nil {
		return err
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
