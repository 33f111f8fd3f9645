// cmd/rds81bench/main.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// rds81bench runs the instrument in a window on the in-memory host, with
// a generated radar image standing in for the simulator's.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/mmp/rds81/host"
	"github.com/mmp/rds81/host/simhost"
	"github.com/mmp/rds81/log"
	"github.com/mmp/rds81/platform"
	"github.com/mmp/rds81/plugin"
	"github.com/mmp/rds81/rds81"
	"github.com/mmp/rds81/renderer"

	"github.com/apenwarr/fixconsole"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/goforj/godump"
)

var (
	logLevel   = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir     = flag.String("logdir", "", "log file directory")
	pluginDir  = flag.String("plugindir", ".", "plugin directory, holding the resources/ folder")
	sweepSpeed = flag.Float64("sweep", rds81.DefaultSweepSpeed, "antenna sweep speed, degrees per second")
	debug      = flag.Bool("debug", true, "enable the shader reload and state dump commands")
)

// Bus voltage ratios cycled through with the V key. A negative ratio is
// what the simulator reports for aircraft without an electrical model.
var busRatios = []float32{1, 0.7, -1}

const radarImageSize = 512

func init() {
	// OpenGL and GLFW calls must all be made from the main thread.
	runtime.LockOSThread()
}

func main() {
	flag.Parse()

	if err := fixconsole.FixConsoleIfNeeded(); err != nil {
		fmt.Printf("FixConsole: %v\n", err)
	}

	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	lg := log.NewWriter(os.Stderr, level)
	defer lg.CatchAndReportCrash()

	win, err := platform.New(platform.Config{
		Title:       "RDS-81 bench",
		InitialSize: [2]int{rds81.BezelWidth, rds81.BezelHeight},
	}, lg)
	if err != nil {
		lg.Errorf("%v", err)
		os.Exit(1)
	}
	defer win.Dispose()

	if err := renderer.Init(lg); err != nil {
		lg.Errorf("%v", err)
		os.Exit(1)
	}

	h := simhost.NewXPlane(*pluginDir)
	h.CursorLoader = win.LoadCursor
	h.OnBindTexture = renderer.BindTexture
	h.OnGraphicsState = func(s host.GraphicsState) {
		renderer.SetBlending(s.AlphaBlending)
		renderer.SetDepth(s.DepthTesting, s.DepthWriting)
	}

	textures := renderer.NewTextures(lg)
	defer textures.DestroyAll()
	radarTex := textures.FromImage(radarImage(radarImageSize, 0))
	h.SetRadarTexture(host.SideCopilot, radarTex)

	p, err := plugin.StartWithConfig(h, plugin.Config{
		LogLevel:     *logLevel,
		LogDir:       *logDir,
		DebugShaders: *debug,
		SweepSpeed:   float32(*sweepSpeed),
	})
	if err != nil {
		lg.Errorf("%v", err)
		os.Exit(1)
	}
	p.Enable()

	b := &bench{h: h, p: p, win: win, lg: lg}
	last, lastTitle, lastImage := time.Now(), time.Now(), time.Now()
	for !win.ShouldStop() {
		win.ProcessEvents()

		now := time.Now()
		h.Advance(now.Sub(last).Seconds())
		last = now

		if now.Sub(lastImage) > 2*time.Second {
			textures.Update(radarTex, radarImage(radarImageSize, h.RunningTime()))
			lastImage = now
		}

		b.draw()
		b.handleInput()
		b.flushMessages()

		if now.Sub(lastTitle) > time.Second {
			win.SetWindowTitle(fmt.Sprintf("RDS-81 bench: %s", renderer.TakeStats()))
			lastTitle = now
		}
		win.PostRender()
	}

	p.Stop()
	b.flushMessages()
}

type bench struct {
	h   *simhost.Host
	p   *plugin.Plugin
	win *platform.Window
	lg  *log.Logger
	bus int
}

// draw sets the view datarefs the way the simulator does for a cockpit
// device and runs the device's draw callbacks: the bezel at the origin
// and the screen at its offset within the bezel.
func (b *bench) draw() {
	fb := b.win.FramebufferSize()
	vp := []int32{0, 0, int32(fb[0]), int32(fb[1])}
	b.h.DataRef("sim/graphics/view/viewport").SetInts(vp)

	proj := mgl32.Ortho2D(0, rds81.BezelWidth, 0, rds81.BezelHeight)
	b.h.DataRef("sim/graphics/view/projection_matrix").SetFloats(proj[:])

	renderer.BindFramebuffer(0, [4]int32(vp))
	renderer.Clear(0.1, 0.1, 0.1, 1)

	for _, av := range b.h.LiveAvionics() {
		ident := mgl32.Ident4()
		b.h.DataRef("sim/graphics/view/modelview_matrix").SetFloats(ident[:])
		av.DrawBezel(1, 1, 1)

		mv := mgl32.Translate3D(float32(av.Desc.ScreenOffsetX), float32(av.Desc.ScreenOffsetY), 0)
		b.h.DataRef("sim/graphics/view/modelview_matrix").SetFloats(mv[:])
		av.DrawScreen()
	}
}

func (b *bench) handleInput() {
	avs := b.h.LiveAvionics()
	kb := b.win.Keyboard()

	if kb.WasPressed(glfw.KeyEscape) {
		b.win.SetShouldStop()
	}
	if kb.WasPressed(glfw.KeyP) {
		ref := b.h.DataRef("sim/cockpit2/switches/avionics_power_on")
		ref.SetInt(1 - ref.Int())
		b.lg.Infof("avionics power %d", ref.Int())
	}
	if kb.WasPressed(glfw.KeyV) {
		b.bus = (b.bus + 1) % len(busRatios)
		for _, av := range avs {
			av.BusRatio = busRatios[b.bus]
		}
		b.lg.Infof("bus volts ratio %.1f", busRatios[b.bus])
	}
	if kb.WasPressed(glfw.KeyD) {
		if inst := b.p.Instrument(); inst != nil {
			godump.Dump(inst.State())
		} else {
			fmt.Println(b.p.DumpState())
		}
	}
	if kb.WasPressed(glfw.KeyR) {
		if inst := b.p.Instrument(); inst != nil {
			inst.ReloadShaders()
		}
	}

	if len(avs) == 0 {
		return
	}
	av := avs[0]

	// Mouse positions are in framebuffer pixels; the device works in
	// bezel pixels.
	m := b.win.Mouse()
	fb := b.win.FramebufferSize()
	x := int(m.Pos[0] * rds81.BezelWidth / float32(max(fb[0], 1)))
	y := int(m.Pos[1] * rds81.BezelHeight / float32(max(fb[1], 1)))

	if m.Clicked {
		av.Click(x, y, host.MouseDown)
	}
	if m.Down {
		b.h.Continue()
	}
	if m.Released {
		av.Click(x, y, host.MouseUp)
	}
	if m.Wheel != 0 {
		av.Scroll(x, y, m.Wheel)
	}
	av.Cursor(x, y)
}

// flushMessages prints what the plugin wrote to the simulator's log.
func (b *bench) flushMessages() {
	for _, msg := range b.h.Messages {
		fmt.Println(msg)
	}
	b.h.Messages = b.h.Messages[:0]
}
