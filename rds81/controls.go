// rds81/controls.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package rds81

import (
	"github.com/mmp/rds81/host"
	"github.com/mmp/rds81/math"
	"github.com/mmp/rds81/util"

	"github.com/brunoga/deep"
)

// ButtonDesc describes a push button on the bezel. Positions and sizes
// are in bezel pixels, origin at the lower left.
type ButtonDesc struct {
	Name    string
	Pos     [2]float32
	Size    [2]float32
	Command string
}

// KnobDesc describes a rotary knob. Clicking the left half of the knob
// runs the Down command and the right half runs Up. The knob is drawn
// rotated by Value linearly remapped from [Min,Max] to
// [MinAngle,MaxAngle] degrees.
type KnobDesc struct {
	Name     string
	Pos      [2]float32
	Size     [2]float32
	Up, Down string
	DataRef  string
	Texture  string
	Integer  bool

	Min, Max           float32
	MinAngle, MaxAngle float32
}

func (b ButtonDesc) Extent() math.Extent2D { return math.Extent2DFromPosSize(b.Pos, b.Size) }
func (k KnobDesc) Extent() math.Extent2D   { return math.Extent2DFromPosSize(k.Pos, k.Size) }

// Angle returns the knob's rotation, in degrees, for the given value.
func (k KnobDesc) Angle(v float32) float32 {
	return math.Remap(v, k.Min, k.Max, k.MinAngle, k.MaxAngle)
}

// The order of the tables matters: hit testing picks the first match.
var buttonTable = []ButtonDesc{
	{Name: "wx", Pos: [2]float32{45, 433}, Size: [2]float32{76, 55}, Command: CmdWX},
	{Name: "wxa", Pos: [2]float32{45, 348}, Size: [2]float32{76, 55}, Command: CmdWXA},
	{Name: "map", Pos: [2]float32{45, 265}, Size: [2]float32{76, 55}, Command: CmdMap},
	{Name: "range_up", Pos: [2]float32{904, 433}, Size: [2]float32{76, 55}, Command: CmdRangeUp},
	{Name: "range_down", Pos: [2]float32{904, 348}, Size: [2]float32{76, 55}, Command: CmdRangeDown},
	{Name: "stab", Pos: [2]float32{904, 265}, Size: [2]float32{76, 55}, Command: CmdStab},
}

var knobTable = []KnobDesc{
	{
		Name:     "brightness",
		Pos:      [2]float32{47, 554},
		Size:     [2]float32{69, 69},
		Up:       CmdBrightnessUp,
		Down:     CmdBrightnessDown,
		DataRef:  BrightnessDataRef,
		Texture:  "kn_arrow.png",
		Min:      0,
		Max:      1,
		MinAngle: 0,
		MaxAngle: 315,
	},
	{
		Name:     "gain",
		Pos:      [2]float32{47, 83},
		Size:     [2]float32{69, 69},
		Up:       CmdGainUp,
		Down:     CmdGainDown,
		DataRef:  GainDataRef,
		Texture:  "kn_arrow.png",
		Min:      0,
		Max:      2,
		MinAngle: 0,
		MaxAngle: 315,
	},
	{
		Name:     "tilt",
		Pos:      [2]float32{904, 58},
		Size:     [2]float32{95, 95},
		Up:       CmdTiltUp,
		Down:     CmdTiltDown,
		DataRef:  TiltDataRef,
		Texture:  "kn_tilt.png",
		Min:      minTilt,
		Max:      maxTilt,
		MinAngle: -135,
		MaxAngle: 135,
	},
	{
		Name:     "mode",
		Pos:      [2]float32{904, 526},
		Size:     [2]float32{95, 95},
		Up:       CmdModeUp,
		Down:     CmdModeDown,
		DataRef:  ModeDataRef,
		Texture:  "kn_mode.png",
		Integer:  true,
		Min:      0,
		Max:      float32(ModeOn),
		MinAngle: -52,
		MaxAngle: 26,
	},
}

// Buttons returns a copy of the bezel's button descriptors.
func Buttons() []ButtonDesc {
	return deep.MustCopy(buttonTable)
}

// Knobs returns a copy of the bezel's knob descriptors.
func Knobs() []KnobDesc {
	return deep.MustCopy(knobTable)
}

type button struct {
	desc ButtonDesc
	cmd  host.Command
}

type knob struct {
	desc     KnobDesc
	up, down host.Command
	// value is nil if the knob's dataref could not be found, in which
	// case the knob is drawn at its minimum.
	value host.DataRef
}

func (k *knob) angle() float32 {
	if k.value == nil {
		return k.desc.MinAngle
	}
	if k.desc.Integer {
		return k.desc.Angle(float32(k.value.Int()))
	}
	return k.desc.Angle(k.value.Float())
}

// hit is the result of hit testing a point against the bezel controls.
type hit struct {
	cmd    host.Command
	cursor cursorKind
}

// hitTest returns the control under p, if any. Buttons are tested
// before knobs, each in table order.
func hitTest(buttons []button, knobs []knob, p [2]float32) (hit, bool) {
	if i := util.FindIf(buttons, func(b button) bool { return b.desc.Extent().Inside(p) }); i != -1 {
		return hit{cmd: buttons[i].cmd, cursor: cursorClick}, true
	}
	if i := util.FindIf(knobs, func(k knob) bool { return k.desc.Extent().Inside(p) }); i != -1 {
		k := &knobs[i]
		if p[0] < k.desc.Extent().Center()[0] {
			return hit{cmd: k.down, cursor: cursorRotateLeft}, true
		}
		return hit{cmd: k.up, cursor: cursorRotateRight}, true
	}
	return hit{}, false
}

// knobAt returns the index of the knob under p or -1.
func knobAt(knobs []knob, p [2]float32) int {
	return util.FindIf(knobs, func(k knob) bool { return k.desc.Extent().Inside(p) })
}
