// renderer/quad.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"github.com/mmp/rds81/log"
	"github.com/mmp/rds81/math"

	"github.com/go-gl/gl/v3.2-compatibility/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// floats per vertex: position xy, texture coordinates uv
const quadVertexStride = 4

var quadIndices = [6]uint32{0, 2, 1, 0, 3, 2}

// Quad draws a single textured rectangle. It either owns its program
// (when created without one, in which case it compiles the default quad
// program) or borrows a program that belongs to someone else; Destroy
// only deletes an owned program. The texture is never owned.
type Quad struct {
	vbo, ibo    uint32
	program     *Program
	ownsProgram bool
	tex         uint32

	vertices [4 * quadVertexStride]float32
	lastPos  [2]float32
	lastSize [2]float32
	uploaded bool

	// Uniform values are copied here so that passing them to OpenGL
	// does not allocate.
	pv, model mgl32.Mat4
}

// NewQuad returns a quad that draws tex. If program is nil, the quad
// creates and owns a default program; if that fails, the quad is still
// returned but draws nothing.
func NewQuad(tex uint32, program *Program, lg *log.Logger) *Quad {
	q := newQuad(tex, program)
	if program == nil {
		q.program = NewProgram("quad", QuadVertexShader, QuadFragmentShader, lg)
		q.ownsProgram = q.program != nil
	}
	return q
}

// NewSharedQuad returns a quad that draws tex with a program owned by
// someone else. Unlike NewQuad, a nil program gives a quad that draws
// nothing until SetProgram is called.
func NewSharedQuad(tex uint32, program *Program) *Quad {
	return newQuad(tex, program)
}

func newQuad(tex uint32, program *Program) *Quad {
	q := &Quad{tex: tex, program: program}

	gl.GenBuffers(1, &q.vbo)
	gl.GenBuffers(1, &q.ibo)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, q.ibo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(quadIndices)*4, gl.Ptr(&quadIndices[0]), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	return q
}

func (q *Quad) SetTexture(tex uint32) {
	q.tex = tex
}

func (q *Quad) Texture() uint32 {
	return q.tex
}

// SetProgram switches the quad to a borrowed program, deleting the
// quad's own program if it had one.
func (q *Quad) SetProgram(p *Program) {
	if p == q.program {
		return
	}
	if q.ownsProgram {
		q.program.Destroy()
		q.ownsProgram = false
	}
	q.program = p
}

func (q *Quad) Program() *Program {
	return q.program
}

func (q *Quad) OwnsProgram() bool {
	return q.ownsProgram
}

// Render draws the quad with its lower-left corner at pos. rotation is
// in degrees, clockwise about the quad's center. pv is the combined
// projection and view matrix. All buffer, texture and program bindings
// are reset to zero before returning.
func (q *Quad) Render(pv mgl32.Mat4, pos, size [2]float32, rotation float32, alpha float32) {
	if q.program == nil || q.program.id == 0 {
		return
	}

	p := q.program
	gl.UseProgram(p.id)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, q.tex)

	gl.BindBuffer(gl.ARRAY_BUFFER, q.vbo)
	if !q.uploaded || pos != q.lastPos || size != q.lastSize {
		q.vertices = quadVertices(pos, size)
		gl.BufferData(gl.ARRAY_BUFFER, len(q.vertices)*4, gl.Ptr(&q.vertices[0]), gl.DYNAMIC_DRAW)
		q.lastPos, q.lastSize, q.uploaded = pos, size, true
		stats.VertexUploads++
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, q.ibo)

	q.pv, q.model = pv, quadModel(pos, size, rotation)
	p.SetMat4("pv", &q.pv)
	p.SetMat4("model", &q.model)
	p.SetInt("tex", 0)
	p.SetFloat("alpha", alpha)

	posLoc, texLoc := p.Attrib("vtx_pos"), p.Attrib("vtx_tex0")
	if posLoc >= 0 {
		gl.EnableVertexAttribArray(uint32(posLoc))
		gl.VertexAttribPointerWithOffset(uint32(posLoc), 2, gl.FLOAT, false, quadVertexStride*4, 0)
	}
	if texLoc >= 0 {
		gl.EnableVertexAttribArray(uint32(texLoc))
		gl.VertexAttribPointerWithOffset(uint32(texLoc), 2, gl.FLOAT, false, quadVertexStride*4, 2*4)
	}

	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(len(quadIndices)), gl.UNSIGNED_INT, 0)
	stats.DrawCalls++

	if posLoc >= 0 {
		gl.DisableVertexAttribArray(uint32(posLoc))
	}
	if texLoc >= 0 {
		gl.DisableVertexAttribArray(uint32(texLoc))
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
}

// Destroy releases the quad's buffers and, if it owns it, its program.
func (q *Quad) Destroy() {
	if q == nil {
		return
	}
	gl.DeleteBuffers(1, &q.vbo)
	gl.DeleteBuffers(1, &q.ibo)
	if q.ownsProgram {
		q.program.Destroy()
	}
	q.program = nil
	q.ownsProgram = false
}

// quadVertices returns the interleaved position and texture coordinates
// of the quad's corners: lower-left, upper-left, upper-right and
// lower-right.
func quadVertices(pos, size [2]float32) [4 * quadVertexStride]float32 {
	x0, y0 := pos[0], pos[1]
	x1, y1 := pos[0]+size[0], pos[1]+size[1]
	return [4 * quadVertexStride]float32{
		x0, y0, 0, 0,
		x0, y1, 0, 1,
		x1, y1, 1, 1,
		x1, y0, 1, 0,
	}
}

// quadModel returns the model matrix that rotates a quad clockwise by
// the given number of degrees about its center.
func quadModel(pos, size [2]float32, rotation float32) mgl32.Mat4 {
	if rotation == 0 {
		return mgl32.Ident4()
	}
	c := math.Add2f(pos, math.Scale2f(size, 0.5))
	return mgl32.Translate3D(c[0], c[1], 0).
		Mul4(mgl32.HomogRotate3DZ(-math.Radians(rotation))).
		Mul4(mgl32.Translate3D(-c[0], -c[1], 0))
}
