// renderer/target.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"github.com/mmp/rds81/log"

	"github.com/go-gl/gl/v3.2-compatibility/gl"
)

// Target is an off-screen framebuffer with a single RGBA color texture.
type Target struct {
	fbo, tex      uint32
	width, height int32
}

// NewTarget creates a width x height render target. If the resulting
// framebuffer is incomplete, the problem is logged and the target is
// returned anyway; whether it is usable depends on the driver.
func NewTarget(width, height int32, lg *log.Logger) *Target {
	t := &Target{width: width, height: height}

	gl.GenTextures(1, &t.tex)
	gl.BindTexture(gl.TEXTURE_2D, t.tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	var prev int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prev)

	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.tex, 0)
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		lg.Errorf("%dx%d framebuffer incomplete: status 0x%x", width, height, status)
	} else {
		lg.Debugf("created %dx%d framebuffer %d, texture %d", width, height, t.fbo, t.tex)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prev))

	return t
}

// Bind makes the target the current framebuffer and sets the viewport
// to cover all of it.
func (t *Target) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(0, 0, t.width, t.height)
	stats.TargetBinds++
}

func (t *Target) Texture() uint32 {
	if t == nil {
		return 0
	}
	return t.tex
}

func (t *Target) Width() int32  { return t.width }
func (t *Target) Height() int32 { return t.height }

func (t *Target) Destroy() {
	if t == nil {
		return
	}
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
	if t.tex != 0 {
		gl.DeleteTextures(1, &t.tex)
		t.tex = 0
	}
}
