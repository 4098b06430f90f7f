package renderer

import (
	"slices"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/windmoth/internal/anim"
	"github.com/Faultbox/windmoth/internal/assets"
	"github.com/Faultbox/windmoth/internal/engine/lighting"
	"github.com/Faultbox/windmoth/internal/engine/shader"
	"github.com/Faultbox/windmoth/pkg/math"
)

type gpuPrimitive struct {
	src    *assets.Primitive
	vao    uint32
	posVBO uint32
	ebo    uint32
	count  int32

	morphed     [][3]float32
	lastWeights []float32
}

type modelPass struct {
	program *shader.Program
	model   *assets.Model
	meshes  [][]*gpuPrimitive
	world   []math.Mat4
	ambient lighting.Ambient
	log     *zap.Logger
}

func newModelPass(log *zap.Logger) (*modelPass, error) {
	prog, err := shader.New(modelVertexShader, modelFragmentShader)
	if err != nil {
		return nil, err
	}
	return &modelPass{program: prog, ambient: lighting.WhiteAmbient(), log: log}, nil
}

func (m *modelPass) upload(model *assets.Model) error {
	m.release()
	m.model = model
	m.meshes = make([][]*gpuPrimitive, len(model.Meshes))

	var prims int
	for mi := range model.Meshes {
		for pi := range model.Meshes[mi].Primitives {
			src := &model.Meshes[mi].Primitives[pi]
			if len(src.Positions) == 0 || len(src.Indices) == 0 {
				continue
			}
			m.meshes[mi] = append(m.meshes[mi], uploadPrimitive(src))
			prims++
		}
	}

	m.log.Debug("model uploaded",
		zap.String("model", model.Name),
		zap.Int("primitives", prims))
	return nil
}

func uploadPrimitive(src *assets.Primitive) *gpuPrimitive {
	p := &gpuPrimitive{src: src, count: int32(len(src.Indices))}

	usage := uint32(gl.STATIC_DRAW)
	if len(src.Targets) > 0 {
		usage = gl.DYNAMIC_DRAW
	}

	gl.GenVertexArrays(1, &p.vao)
	gl.BindVertexArray(p.vao)

	gl.GenBuffers(1, &p.posVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.posVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(src.Positions)*3*4, gl.Ptr(src.Positions), usage)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)

	gl.GenBuffers(1, &p.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, p.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(src.Indices)*4, gl.Ptr(src.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return p
}

// morph re-uploads blended positions when the node's weights changed.
func (p *gpuPrimitive) morph(weights []float32) {
	if len(p.src.Targets) == 0 || slices.Equal(weights, p.lastWeights) {
		return
	}
	p.morphed = p.src.Morph(weights, p.morphed)
	p.lastWeights = append(p.lastWeights[:0], weights...)

	gl.BindBuffer(gl.ARRAY_BUFFER, p.posVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(p.morphed)*3*4, gl.Ptr(p.morphed))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (m *modelPass) draw(view, proj math.Mat4, pose *anim.Pose) {
	if m.model == nil {
		return
	}
	m.world = m.model.WorldMatrices(pose, m.world)

	m.program.Use()
	m.program.SetMat4("uView", view)
	m.program.SetMat4("uProjection", proj)
	m.program.SetVec3("uAmbient", m.ambient.Radiance())

	for i, node := range m.model.Nodes {
		if node.Mesh < 0 || node.Mesh >= len(m.meshes) {
			continue
		}
		m.program.SetMat4("uModel", m.world[i])
		for _, p := range m.meshes[node.Mesh] {
			p.morph(pose.Nodes[i].Weights)

			colour := p.src.BaseColour
			if colour[3] < 1 {
				gl.Enable(gl.BLEND)
			}
			m.program.SetVec4("uBaseColour", colour)
			gl.BindVertexArray(p.vao)
			gl.DrawElements(gl.TRIANGLES, p.count, gl.UNSIGNED_INT, nil)
			gl.Disable(gl.BLEND)
		}
	}
	gl.BindVertexArray(0)
}

func (m *modelPass) release() {
	for _, prims := range m.meshes {
		for _, p := range prims {
			gl.DeleteVertexArrays(1, &p.vao)
			gl.DeleteBuffers(1, &p.posVBO)
			gl.DeleteBuffers(1, &p.ebo)
		}
	}
	m.meshes = nil
	m.model = nil
}

func (m *modelPass) close() {
	m.release()
	m.program.Delete()
}
