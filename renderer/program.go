// renderer/program.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"strings"

	"github.com/mmp/rds81/log"

	"github.com/go-gl/gl/v3.2-compatibility/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Program is a linked vertex+fragment shader pair. Uniform and attribute
// locations are looked up once and cached.
type Program struct {
	Name     string
	id       uint32
	uniforms map[string]int32
	attribs  map[string]int32
}

// QuadVertexShader and QuadFragmentShader implement the default textured
// quad rendering. Programs used with a Quad must declare the same
// attributes (vtx_pos, vtx_tex0) and uniforms (pv, model, tex, alpha).
const QuadVertexShader = `#version 120
uniform mat4 pv;
uniform mat4 model;
attribute vec2 vtx_pos;
attribute vec2 vtx_tex0;
varying vec2 tex_coord;

void main() {
    tex_coord = vtx_tex0;
    gl_Position = pv * model * vec4(vtx_pos, 0.0, 1.0);
}
`

const QuadFragmentShader = `#version 120
uniform sampler2D tex;
uniform float alpha;
varying vec2 tex_coord;

void main() {
    vec4 c = texture2D(tex, tex_coord);
    gl_FragColor = vec4(c.rgb, c.a * alpha);
}
`

// NewProgram compiles and links the given shaders. On failure, the
// compiler or linker's diagnostics are logged and nil is returned;
// callers treat a nil program as the feature being unavailable.
func NewProgram(name, vertSrc, fragSrc string, lg *log.Logger) *Program {
	vert, ok := compileShader(name, gl.VERTEX_SHADER, vertSrc, lg)
	if !ok {
		return nil
	}
	defer gl.DeleteShader(vert)

	frag, ok := compileShader(name, gl.FRAGMENT_SHADER, fragSrc, lg)
	if !ok {
		return nil
	}
	defer gl.DeleteShader(frag)

	id := gl.CreateProgram()
	gl.AttachShader(id, vert)
	gl.AttachShader(id, frag)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLength)
		info := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(id, logLength, nil, gl.Str(info))
		lg.Errorf("%s: unable to link program: %s", name, strings.TrimRight(info, "\x00"))
		gl.DeleteProgram(id)
		return nil
	}

	// The shaders are flagged for deletion but stay alive while
	// attached to the linked program.
	gl.DetachShader(id, vert)
	gl.DetachShader(id, frag)

	lg.Debugf("%s: linked program %d", name, id)
	return &Program{
		Name:     name,
		id:       id,
		uniforms: make(map[string]int32),
		attribs:  make(map[string]int32),
	}
}

func compileShader(name string, kind uint32, src string, lg *log.Logger) (uint32, bool) {
	sh := gl.CreateShader(kind)
	csource, free := gl.Strs(src + "\x00")
	gl.ShaderSource(sh, 1, csource, nil)
	free()
	gl.CompileShader(sh)

	if msg := getShaderCompileError(sh); msg != "" {
		stage := "fragment"
		if kind == gl.VERTEX_SHADER {
			stage = "vertex"
		}
		lg.Errorf("%s: %s shader: %s", name, stage, msg)
		gl.DeleteShader(sh)
		return 0, false
	}
	return sh, true
}

// getShaderCompileError returns the most recent error generated
// by the shader compiler.
func getShaderCompileError(shader uint32) string {
	var isCompiled int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &isCompiled)
	if isCompiled == 0 {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		if logLength > 0 {
			// The maxLength includes the NULL character
			log := strings.Repeat("\x00", int(logLength+1))
			gl.GetShaderInfoLog(shader, logLength, &logLength, gl.Str(log))
			return strings.TrimRight(log, "\x00")
		}
		return "compilation failed"
	}
	return ""
}

func (p *Program) ID() uint32 {
	if p == nil {
		return 0
	}
	return p.id
}

// Use makes p the current program; uniforms can only be set on the
// current program.
func (p *Program) Use() {
	gl.UseProgram(p.ID())
}

func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.uniforms[name] = loc
	return loc
}

func (p *Program) Attrib(name string) int32 {
	if loc, ok := p.attribs[name]; ok {
		return loc
	}
	loc := gl.GetAttribLocation(p.id, gl.Str(name+"\x00"))
	p.attribs[name] = loc
	return loc
}

func (p *Program) SetInt(name string, v int32) {
	gl.Uniform1i(p.Uniform(name), v)
}

func (p *Program) SetFloat(name string, v float32) {
	gl.Uniform1f(p.Uniform(name), v)
}

func (p *Program) SetVec2(name string, x, y float32) {
	gl.Uniform2f(p.Uniform(name), x, y)
}

func (p *Program) SetMat4(name string, m *mgl32.Mat4) {
	gl.UniformMatrix4fv(p.Uniform(name), 1, false, &m[0])
}

// Destroy deletes the program; it is safe to call on a nil Program.
func (p *Program) Destroy() {
	if p != nil && p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}
