package voxel

import (
	"fmt"

	vm "github.com/Faultbox/voxelchunk/pkg/math"
)

// Face identifies one side of a cube. The order is the emission order
// within a cell.
type Face int

// Cube faces.
const (
	FaceNegZ Face = iota
	FacePosZ
	FaceNegY
	FacePosY
	FaceNegX
	FacePosX
)

// FaceCount is the number of faces per cube.
const FaceCount = 6

// Corner indices (x = bit 0, y = bit 1, z = bit 2) of each face, listed as
// a (bottom-left), b (top-left), c (top-right), d (bottom-right) so that the
// (a,d,b)+(b,d,c) split winds counter-clockwise seen from outside.
var faceCorners = [FaceCount][VerticesPerFace]int{
	FaceNegZ: {0, 1, 3, 2},
	FacePosZ: {4, 6, 7, 5},
	FaceNegY: {0, 4, 5, 1},
	FacePosY: {3, 7, 6, 2},
	FaceNegX: {2, 6, 4, 0},
	FacePosX: {1, 5, 7, 3},
}

var faceNormals = [FaceCount]vm.Vec3{
	FaceNegZ: {X: 0, Y: 0, Z: -1},
	FacePosZ: {X: 0, Y: 0, Z: 1},
	FaceNegY: {X: 0, Y: -1, Z: 0},
	FacePosY: {X: 0, Y: 1, Z: 0},
	FaceNegX: {X: -1, Y: 0, Z: 0},
	FacePosX: {X: 1, Y: 0, Z: 0},
}

// Texture coordinates of a, b, c, d.
var quadUV = [VerticesPerFace][2]float32{
	{0, 0},
	{0, 1},
	{1, 1},
	{1, 0},
}

// Corners returns the four corner indices of the face in a, b, c, d order.
func (f Face) Corners() [VerticesPerFace]int {
	return faceCorners[f]
}

// Normal returns the outward unit normal.
func (f Face) Normal() vm.Vec3 {
	return faceNormals[f]
}

// Neighbor returns the grid offset of the cell on the other side of the face.
func (f Face) Neighbor() vm.Vec3i {
	n := faceNormals[f]
	return vm.Vec3i{X: int(n.X), Y: int(n.Y), Z: int(n.Z)}
}

// String returns the axis name of the face.
func (f Face) String() string {
	switch f {
	case FaceNegZ:
		return "-Z"
	case FacePosZ:
		return "+Z"
	case FaceNegY:
		return "-Y"
	case FacePosY:
		return "+Y"
	case FaceNegX:
		return "-X"
	case FacePosX:
		return "+X"
	default:
		return fmt.Sprintf("Face(%d)", int(f))
	}
}

// cornerUnit returns the corner position inside a unit cube centred at the origin.
func cornerUnit(corner int) vm.Vec3 {
	return vm.Vec3{
		X: float32(corner&1) - 0.5,
		Y: float32((corner>>1)&1) - 0.5,
		Z: float32((corner>>2)&1) - 0.5,
	}
}

// addQuad writes the two triangles of quad (a, b, c, d) at offset t.
//
//	b c
//	a d
func addQuad(indices []uint32, t int, a, b, c, d uint32) {
	indices[t] = a
	indices[t+1] = d
	indices[t+2] = b
	indices[t+3] = b
	indices[t+4] = d
	indices[t+5] = c
}
