// renderer/renderer.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package renderer provides the small set of OpenGL building blocks the
// instrument is drawn with: textured quads, shader programs, off-screen
// render targets, textures and rasterized text. All functions must be
// called on the thread that owns the current OpenGL context.
package renderer

import (
	"fmt"
	"log/slog"

	"github.com/mmp/rds81/log"

	"github.com/go-gl/gl/v3.2-compatibility/gl"
)

// Init loads the OpenGL entry points; it must be called once with a
// current context before anything else in the package is used.
func Init(lg *log.Logger) error {
	lg.Info("Starting OpenGL initialization")
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	lg.Info("OpenGL",
		slog.String("vendor", gl.GoStr(gl.GetString(gl.VENDOR))),
		slog.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		slog.String("version", gl.GoStr(gl.GetString(gl.VERSION))))
	return nil
}

// Stats encapsulates assorted statistics from rendering.
type Stats struct {
	DrawCalls     int
	VertexUploads int
	TargetBinds   int
}

var stats Stats

// TakeStats returns the statistics accumulated since the last call and
// resets them.
func TakeStats() Stats {
	s := stats
	stats = Stats{}
	return s
}

func (s Stats) String() string {
	return fmt.Sprintf("%d draw calls, %d vertex uploads, %d target binds", s.DrawCalls,
		s.VertexUploads, s.TargetBinds)
}

func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("draw_calls", s.DrawCalls),
		slog.Int("vertex_uploads", s.VertexUploads),
		slog.Int("target_binds", s.TargetBinds),
	)
}

// Clear clears the color buffer of the currently-bound framebuffer.
func Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// BindFramebuffer binds the given framebuffer and sets the viewport;
// it is used to return to the host's framebuffer after drawing to a
// Target.
func BindFramebuffer(fbo uint32, viewport [4]int32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.Viewport(viewport[0], viewport[1], viewport[2], viewport[3])
}

// BindTexture binds tex to the given texture unit and leaves unit 0
// active.
func BindTexture(tex uint32, unit int) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.ActiveTexture(gl.TEXTURE0)
}

// SetBlending enables or disables standard alpha blending.
func SetBlending(enabled bool) {
	if enabled {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	} else {
		gl.Disable(gl.BLEND)
	}
}

// SetDepth sets whether depth testing and depth writes are enabled.
func SetDepth(test, write bool) {
	if test {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	gl.DepthMask(write)
}
