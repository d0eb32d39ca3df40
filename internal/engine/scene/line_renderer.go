package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/voxelchunk/internal/engine/scene/shaders"
	"github.com/Faultbox/voxelchunk/internal/engine/shader"
	"github.com/Faultbox/voxelchunk/pkg/math"
)

// LineRenderer draws a dynamic list of GL_LINES segments.
type LineRenderer struct {
	program  *shader.Program
	vao      uint32
	vbo      uint32
	capacity int
	count    int32
}

// NewLineRenderer compiles the line shader and allocates an empty buffer.
func NewLineRenderer() (*LineRenderer, error) {
	program, err := shader.New(shaders.LineVertexShader, shaders.LineFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("line shader: %w", err)
	}
	lr := &LineRenderer{program: program}

	gl.GenVertexArrays(1, &lr.vao)
	gl.BindVertexArray(lr.vao)
	gl.GenBuffers(1, &lr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, lr.vbo)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
	return lr, nil
}

// SetLines uploads xyz endpoint pairs.
func (lr *LineRenderer) SetLines(vertices []float32) {
	lr.count = int32(len(vertices) / 3)
	if len(vertices) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, lr.vbo)
	size := len(vertices) * 4
	if size > lr.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, size, unsafe.Pointer(&vertices[0]), gl.DYNAMIC_DRAW)
		lr.capacity = size
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, unsafe.Pointer(&vertices[0]))
	}
}

// Render draws the uploaded lines in color.
func (lr *LineRenderer) Render(viewProj math.Mat4, color [3]float32) {
	if lr.count == 0 {
		return
	}
	lr.program.Use()
	lr.program.SetMat4("uViewProj", viewProj)
	lr.program.SetVec3("uColor", color)
	gl.BindVertexArray(lr.vao)
	gl.DrawArrays(gl.LINES, 0, lr.count)
	gl.BindVertexArray(0)
}

// Destroy releases all resources.
func (lr *LineRenderer) Destroy() {
	gl.DeleteVertexArrays(1, &lr.vao)
	gl.DeleteBuffers(1, &lr.vbo)
	lr.program.Delete()
}
