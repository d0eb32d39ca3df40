// Package scene renders chunk meshes and debug lines.
package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelchunk/internal/engine/scene/shaders"
	"github.com/Faultbox/voxelchunk/internal/engine/shader"
	"github.com/Faultbox/voxelchunk/internal/voxel"
	"github.com/Faultbox/voxelchunk/pkg/math"
)

// ChunkRenderer draws the latest chunk mesh. It implements voxel.MeshConsumer,
// so a Builder re-uploads it on every rebuild.
type ChunkRenderer struct {
	program    *shader.Program
	log        *zap.Logger
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32

	Model    math.Mat4
	Color    [3]float32
	LightDir [3]float32
	Ambient  float32
}

// NewChunkRenderer compiles the chunk shader.
func NewChunkRenderer(log *zap.Logger) (*ChunkRenderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	program, err := shader.New(shaders.ChunkVertexShader, shaders.ChunkFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("chunk shader: %w", err)
	}
	return &ChunkRenderer{
		program:  program,
		log:      log.Named("chunk-renderer"),
		Model:    math.Identity(),
		Color:    [3]float32{0.85, 0.6, 0.3},
		LightDir: [3]float32{-0.4, -1, -0.3},
		Ambient:  0.35,
	}, nil
}

// MeshReady replaces the GPU buffers with mesh.
func (cr *ChunkRenderer) MeshReady(mesh *voxel.Mesh) {
	cr.clear()
	if mesh == nil || len(mesh.Indices) == 0 {
		return
	}

	gl.GenVertexArrays(1, &cr.vao)
	gl.BindVertexArray(cr.vao)

	gl.GenBuffers(1, &cr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, cr.vbo)
	stride := int(unsafe.Sizeof(voxel.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*stride, unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)

	// Position, normal, uv
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(stride), 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(stride), 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, int32(stride), 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &cr.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, cr.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	cr.indexCount = int32(len(mesh.Indices))

	cr.log.Debug("mesh uploaded",
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("indices", len(mesh.Indices)))
}

// Render draws the chunk with viewProj.
func (cr *ChunkRenderer) Render(viewProj math.Mat4) {
	if cr.vao == 0 {
		return
	}
	cr.program.Use()
	cr.program.SetMat4("uViewProj", viewProj)
	cr.program.SetMat4("uModel", cr.Model)
	cr.program.SetVec3("uLightDir", cr.LightDir)
	cr.program.SetVec3("uColor", cr.Color)
	cr.program.SetFloat("uAmbient", cr.Ambient)

	gl.BindVertexArray(cr.vao)
	gl.DrawElements(gl.TRIANGLES, cr.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (cr *ChunkRenderer) clear() {
	if cr.vao != 0 {
		gl.DeleteVertexArrays(1, &cr.vao)
		cr.vao = 0
	}
	if cr.vbo != 0 {
		gl.DeleteBuffers(1, &cr.vbo)
		cr.vbo = 0
	}
	if cr.ebo != 0 {
		gl.DeleteBuffers(1, &cr.ebo)
		cr.ebo = 0
	}
	cr.indexCount = 0
}

// Destroy releases all resources.
func (cr *ChunkRenderer) Destroy() {
	cr.clear()
	cr.program.Delete()
}
