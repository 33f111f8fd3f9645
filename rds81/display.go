// rds81/display.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package rds81

import (
	"path/filepath"

	"github.com/mmp/rds81/host"
	"github.com/mmp/rds81/log"
	"github.com/mmp/rds81/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	antennaSize                  = 512
	screenTargetW, screenTargetH = 320, 240

	bezelTexture = "bezel.png"
	dotsTexture  = "dots.png"
	maskTexture  = "crt_mask.png"

	maskTextureUnit = 1
)

// glDisplay draws the instrument with OpenGL. The simulator's radar
// image is first painted into the antenna target, one swept sector per
// frame. The antenna target, the dot overlay and the labels are then
// composited into the low resolution screen target, which is finally
// drawn onto the device through the CRT mask.
type glDisplay struct {
	gfx         host.Graphics
	lg          *log.Logger
	resourceDir string

	programs map[string]*renderer.Program
	text     *renderer.Program
	textures *renderer.Textures

	antenna *renderer.Target
	screen  *renderer.Target

	bezelTex, dotsTex, maskTex uint32

	bezelQuad  *renderer.Quad
	knobQuads  []*renderer.Quad
	knobs      []KnobDesc
	dotsQuad   *renderer.Quad
	srcQuad    *renderer.Quad
	wxrQuad    *renderer.Quad
	screenQuad *renderer.Quad

	labels *textCache
}

var _ display = (*glDisplay)(nil)

func newGLDisplay(gfx host.Graphics, knobs []knob, resourceDir string, lg *log.Logger) *glDisplay {
	d := &glDisplay{
		gfx:         gfx,
		lg:          lg,
		resourceDir: resourceDir,
		programs:    loadPrograms(resourceDir, lg),
		textures:    renderer.NewTextures(lg),
	}
	d.text = renderer.NewProgram("text", renderer.QuadVertexShader, renderer.QuadFragmentShader, lg)

	d.antenna = renderer.NewTarget(antennaSize, antennaSize, lg)
	d.screen = renderer.NewTarget(screenTargetW, screenTargetH, lg)

	load := func(name string) uint32 { return d.textures.Load(filepath.Join(resourceDir, name)) }
	d.bezelTex = load(bezelTexture)
	d.dotsTex = load(dotsTexture)
	d.maskTex = load(maskTexture)

	d.bezelQuad = renderer.NewQuad(d.bezelTex, nil, lg)
	for _, k := range knobs {
		d.knobs = append(d.knobs, k.desc)
		d.knobQuads = append(d.knobQuads, renderer.NewQuad(load(k.desc.Texture), nil, lg))
	}
	d.dotsQuad = renderer.NewQuad(d.dotsTex, nil, lg)
	d.srcQuad = renderer.NewSharedQuad(0, nil)
	d.wxrQuad = renderer.NewSharedQuad(d.antenna.Texture(), d.programs[progCopy])
	d.screenQuad = renderer.NewSharedQuad(d.screen.Texture(), d.programs[progScreen])

	d.labels = newTextCache(resourceDir, d.textures, d.text, lg)

	lg.Infof("display ready: %d programs, %d textures, %d bytes", len(d.programs), d.textures.Len(),
		d.textures.Bytes())
	return d
}

func (d *glDisplay) drawBezel(f *bezelFrame) {
	d.gfx.SetGraphicsState(host.GraphicsState{
		TextureUnits:  1,
		AlphaTesting:  true,
		AlphaBlending: true,
	})

	d.bezelQuad.Render(f.PVM, [2]float32{0, 0}, [2]float32{BezelWidth, BezelHeight}, 0, 1)
	for i, q := range d.knobQuads {
		var angle float32
		if i < len(f.KnobAngles) {
			angle = f.KnobAngles[i]
		}
		q.Render(f.PVM, d.knobs[i].Pos, d.knobs[i].Size, angle, 1)
	}
}

func (d *glDisplay) drawScreen(f *screenFrame) {
	d.gfx.SetGraphicsState(host.GraphicsState{
		TextureUnits:  2,
		AlphaTesting:  true,
		AlphaBlending: true,
	})
	renderer.Clear(0, 0, 0, 1)

	d.paintAntenna(&f.Antenna, f.RadarTexture)

	if f.Composite {
		d.screen.Bind()
		renderer.Clear(0, 0, 0, 0)
		ortho := mgl32.Ortho2D(0, ScreenWidth, 0, ScreenHeight)
		if f.Radar {
			d.wxrQuad.Render(ortho, [2]float32{radarX, radarY}, [2]float32{radarWidth, radarHeight}, 0, 1)
			d.dotsQuad.Render(ortho, [2]float32{0, 0}, [2]float32{ScreenWidth, ScreenHeight}, 0, 1)
		}
		for _, l := range f.Labels {
			d.labels.draw(ortho, l)
		}
	}

	// Always go back to the simulator's framebuffer, even if nothing
	// was drawn off-screen this frame.
	renderer.BindFramebuffer(f.HostFBO, f.HostViewport)

	prog := d.programs[progScreen]
	if !f.Composite || prog == nil {
		return
	}
	prog.Use()
	prog.SetFloat("blink", f.Blink)
	prog.SetFloat("scale", f.Scale)
	prog.SetInt("mask", maskTextureUnit)
	d.gfx.BindTexture2d(d.maskTex, maskTextureUnit)
	d.screenQuad.Render(f.PVM, [2]float32{0, 0}, [2]float32{ScreenWidth, ScreenHeight}, 0, f.Alpha)
	d.gfx.BindTexture2d(0, maskTextureUnit)
	d.gfx.BindTexture2d(0, 0)
}

// paintAntenna updates the sector of the antenna target the antenna
// swept over since the last frame, or clears the whole target.
func (d *glDisplay) paintAntenna(a *antennaPass, radarTex uint32) {
	d.antenna.Bind()
	if a.Clear {
		renderer.Clear(0, 0, 0, 1)
		return
	}

	prog := d.programs[progAntenna]
	if a.Test {
		prog = d.programs[progTest]
	}
	if prog == nil {
		return
	}
	prog.Use()
	prog.SetVec2("aspect", 1, 1)
	prog.SetFloat("ant_lim", a.Limit)
	prog.SetFloat("range", a.RangeNM)
	prog.SetFloat("ant_offset", -a.Direction)
	prog.SetFloat("angle_start", a.AngleStart)
	prog.SetFloat("angle_end", a.AngleEnd)

	d.srcQuad.SetProgram(prog)
	d.srcQuad.SetTexture(radarTex)
	d.srcQuad.Render(mgl32.Ortho2D(0, antennaSize, 0, antennaSize), [2]float32{0, 0},
		[2]float32{antennaSize, antennaSize}, 0, 1)
}

func (d *glDisplay) reloadShaders() {
	for _, p := range d.programs {
		p.Destroy()
	}
	d.programs = loadPrograms(d.resourceDir, d.lg)
	d.srcQuad.SetProgram(nil)
	d.wxrQuad.SetProgram(d.programs[progCopy])
	d.screenQuad.SetProgram(d.programs[progScreen])
	d.lg.Infof("reloaded %d of %d shader programs", len(d.programs), len(programNames))
}

// destroy releases everything in the reverse order of creation.
func (d *glDisplay) destroy() {
	d.labels.purge()

	d.screenQuad.Destroy()
	d.wxrQuad.Destroy()
	d.srcQuad.Destroy()
	d.dotsQuad.Destroy()
	for i := len(d.knobQuads) - 1; i >= 0; i-- {
		d.knobQuads[i].Destroy()
	}
	d.bezelQuad.Destroy()

	d.textures.DestroyAll()
	d.screen.Destroy()
	d.antenna.Destroy()

	d.text.Destroy()
	for _, p := range d.programs {
		p.Destroy()
	}
	clear(d.programs)
}
