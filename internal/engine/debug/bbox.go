// Package debug builds line geometry for debug overlays.
package debug

import "github.com/Faultbox/voxelchunk/pkg/math"

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges x 2).
const BBoxWireframeVertexCount = 24

// PointMarkerVertexCount is the number of vertices of a point cross (3 axes x 2).
const PointMarkerVertexCount = 6

// GenerateBBoxWireframeVertices appends the 12 edges of the box to dst as
// xyz endpoint pairs.
func GenerateBBoxWireframeVertices(dst []float32, min, max math.Vec3) []float32 {
	minX, minY, minZ := min.X, min.Y, min.Z
	maxX, maxY, maxZ := max.X, max.Y, max.Z
	return append(dst,
		// Bottom
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	)
}

// Lines collects debug geometry. It implements spatial.Drawer, so an index
// can draw its nodes and objects straight into it.
type Lines struct {
	// Bounds holds node box edges, Points the object markers.
	Bounds []float32
	Points []float32
	// MarkerSize is the half-length of each point cross.
	MarkerSize float32
}

// NewLines returns an empty collector.
func NewLines(markerSize float32) *Lines {
	return &Lines{MarkerSize: markerSize}
}

// Reset empties both lists, keeping capacity.
func (l *Lines) Reset() {
	l.Bounds = l.Bounds[:0]
	l.Points = l.Points[:0]
}

// DrawBounds adds a wireframe box.
func (l *Lines) DrawBounds(min, max math.Vec3) {
	l.Bounds = GenerateBBoxWireframeVertices(l.Bounds, min, max)
}

// DrawPoint adds an axis cross centred on p.
func (l *Lines) DrawPoint(p math.Vec3) {
	s := l.MarkerSize
	l.Points = append(l.Points,
		p.X-s, p.Y, p.Z, p.X+s, p.Y, p.Z,
		p.X, p.Y-s, p.Z, p.X, p.Y+s, p.Z,
		p.X, p.Y, p.Z-s, p.X, p.Y, p.Z+s,
	)
}

// MeshBounds adds the box of a mesh.
func (l *Lines) MeshBounds(min, max [3]float32) {
	l.DrawBounds(math.Vec3{X: min[0], Y: min[1], Z: min[2]}, math.Vec3{X: max[0], Y: max[1], Z: max[2]})
}
