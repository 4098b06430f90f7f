package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/windmoth/internal/engine/shader"
	"github.com/Faultbox/windmoth/internal/params"
	"github.com/Faultbox/windmoth/internal/wind"
	"github.com/Faultbox/windmoth/pkg/math"
)

// unitBox is a box centred on the origin with unit edges, as 36 vertices.
var unitBox = func() []float32 {
	faces := [6][4][3]float32{
		{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}},     // +Z
		{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}}, // -Z
		{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}},     // +X
		{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}, // -X
		{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}},     // +Y
		{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}, // -Y
	}
	out := make([]float32, 0, 6*6*3)
	for _, f := range faces {
		for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
			out = append(out, f[i][0]*0.5, f[i][1]*0.5, f[i][2]*0.5)
		}
	}
	return out
}()

type trailPass struct {
	program     *shader.Program
	vao         uint32
	boxVBO      uint32
	instanceVBO uint32

	instances  []float32
	generation uint64
	capacity   int // floats allocated in instanceVBO
}

func newTrailPass() (*trailPass, error) {
	prog, err := shader.New(trailVertexShader, trailFragmentShader)
	if err != nil {
		return nil, err
	}
	t := &trailPass{program: prog}

	gl.GenVertexArrays(1, &t.vao)
	gl.BindVertexArray(t.vao)

	gl.GenBuffers(1, &t.boxVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, t.boxVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(unitBox)*4, gl.Ptr(unitBox), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)

	gl.GenBuffers(1, &t.instanceVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, t.instanceVBO)
	stride := int32(wind.InstanceStride * 4)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, nil)
	gl.VertexAttribPointer(2, 1, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(3*4)))
	gl.VertexAttribPointer(3, 1, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(4*4)))
	for loc := uint32(1); loc <= 3; loc++ {
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribDivisor(loc, 1)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return t, nil
}

func (t *trailPass) draw(view, proj math.Mat4, field *wind.Field, p *params.Params) {
	if field.Len() == 0 {
		return
	}
	t.instances = field.Instances(t.instances)

	gl.BindBuffer(gl.ARRAY_BUFFER, t.instanceVBO)
	// A new generation may change the trail count; reallocate then.
	if gen := field.Generation(); gen != t.generation || len(t.instances) > t.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, len(t.instances)*4, gl.Ptr(t.instances), gl.STREAM_DRAW)
		t.generation = gen
		t.capacity = len(t.instances)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(t.instances)*4, gl.Ptr(t.instances))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	t.program.Use()
	t.program.SetMat4("uView", view)
	t.program.SetMat4("uProjection", proj)
	t.program.SetFloat("uSize", p.TrailSize)
	t.program.SetVec3("uColour", p.TrailColour.Array())

	gl.Enable(gl.BLEND)
	gl.DepthMask(false)
	gl.BindVertexArray(t.vao)
	gl.DrawArraysInstanced(gl.TRIANGLES, 0, int32(len(unitBox)/3), int32(field.Len()))
	gl.BindVertexArray(0)
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}

func (t *trailPass) close() {
	gl.DeleteVertexArrays(1, &t.vao)
	gl.DeleteBuffers(1, &t.boxVBO)
	gl.DeleteBuffers(1, &t.instanceVBO)
	t.program.Delete()
}
