// rds81/frame.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package rds81

import (
	"fmt"
	"image/color"

	"github.com/mmp/rds81/math"
	"github.com/mmp/rds81/util"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	cyan   = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	yellow = color.RGBA{R: 255, G: 255, B: 0, A: 255}
)

// label is a line of text on the screen. Pos is the left end of the
// baseline in screen pixels, origin at the lower left.
type label struct {
	Text  string
	Pos   [2]float32
	Color color.RGBA
}

// antennaPass describes how the simulator's radar image is painted into
// the antenna buffer this frame. Only the sector the antenna swept since
// the previous frame is updated; everything else keeps its old paint.
type antennaPass struct {
	Test  bool
	Clear bool
	// AngleStart <= AngleEnd, in radians.
	AngleStart, AngleEnd float32
	Direction            float32
	Limit                float32 // radians
	RangeNM              float32
}

// screenFrame is everything needed to draw the screen for one frame.
type screenFrame struct {
	PVM          mgl32.Mat4
	HostFBO      uint32
	HostViewport [4]int32
	RadarTexture uint32

	Antenna antennaPass

	// Composite is set when the screen shows anything at all. Radar is
	// set when the radar picture and dot overlay are drawn beneath the
	// labels.
	Composite bool
	Radar     bool
	Labels    []label

	Scale, Blink, Alpha float32
}

type bezelFrame struct {
	PVM        mgl32.Mat4
	KnobAngles []float32
}

// display draws frames; the OpenGL implementation is in display.go.
type display interface {
	drawBezel(f *bezelFrame)
	drawScreen(f *screenFrame)
	reloadShaders()
	destroy()
}

// Radar picture geometry on the screen, in screen pixels: the picture is
// a 580x410 fan whose apex is at (320,34).
const (
	radarCenterX, radarCenterY = 320, 34
	radarWidth, radarHeight    = 580, 410
	radarX                     = radarCenterX - radarWidth/2
	radarY                     = radarCenterY
)

// DrawBezel draws the bezel and knobs. The bezel texture is drawn as is,
// so the simulator's lighting color is ignored.
func (inst *Instrument) DrawBezel(_, _, _ float32) {
	if inst.display == nil {
		return
	}
	f := bezelFrame{
		PVM:        inst.refs.pvm(),
		KnobAngles: make([]float32, len(inst.knobs)),
	}
	for i := range inst.knobs {
		f.KnobAngles[i] = inst.knobs[i].angle()
	}
	inst.display.drawBezel(&f)
}

// DrawScreen updates the unit's state and draws the screen; the
// simulator calls it once per frame.
func (inst *Instrument) DrawScreen() {
	inst.update()
	if inst.display == nil {
		return
	}
	f := inst.screenFrame()
	inst.display.drawScreen(&f)
}

func (inst *Instrument) screenFrame() screenFrame {
	t := inst.opts.Clock.Now() - inst.onTime

	f := screenFrame{
		PVM:          inst.refs.pvm(),
		RadarTexture: inst.h.RadarTexture(inst.opts.Side),
		Composite:    inst.mode > ModeOff && inst.hasPower(),
		Radar:        inst.mode > ModeStandby,
		Scale:        screenScale(t),
		Blink:        blink(inst.submode, t),
		Alpha:        warmupAlpha(t),
	}
	f.HostFBO, f.HostViewport = inst.refs.hostFramebuffer()

	start, end := min(inst.antAnglePrev, inst.antAngle), max(inst.antAnglePrev, inst.antAngle)
	f.Antenna = antennaPass{
		Test:       inst.mode == ModeTest,
		Clear:      inst.antClear || !inst.warm,
		AngleStart: math.Radians(start),
		AngleEnd:   math.Radians(end),
		Direction:  inst.antDir,
		Limit:      math.Radians(SweepLimit),
		RangeNM:    inst.refs.rangeNM.Float(),
	}
	inst.antClear = false

	if f.Composite {
		f.Labels = screenLabels(inst.mode, inst.submode, inst.stabilized, inst.refs.rangeNM.Float(),
			inst.refs.tilt.Float())
	}
	return f
}

// screenLabels returns the text shown on the screen: range ring labels
// and the tilt readout when the radar is transmitting, the mode
// annunciation whenever the unit is on and a STAB OFF warning.
func screenLabels(m Mode, s Submode, stabilized bool, rangeNM, tilt float32) []label {
	var labels []label
	if m > ModeStandby {
		ringPos := [4][2]float32{{420, 90}, {510, 170}, {560, 240}, {550, 380}}
		for i, p := range ringPos {
			labels = append(labels, label{
				Text:  fmt.Sprintf("%02.0f", rangeNM*float32(i+1)/4),
				Pos:   p,
				Color: cyan,
			})
		}

		if math.Round(tilt*10) == 0 {
			labels = append(labels, label{Text: "0°", Pos: [2]float32{560, 420}, Color: yellow})
		} else {
			labels = append(labels, label{
				Text:  fmt.Sprintf("%c %4.1f°", util.Select(tilt > 0, 'U', 'D'), math.Abs(tilt)),
				Pos:   [2]float32{515, 420},
				Color: yellow,
			})
		}
	}

	if m != ModeOff {
		labels = append(labels, label{Text: displayString(m, s), Pos: [2]float32{50, 110}, Color: cyan})
	}
	if m > ModeStandby && !stabilized {
		labels = append(labels, label{Text: "STAB OFF", Pos: [2]float32{50, 410}, Color: cyan})
	}
	return labels
}
