// rds81/instrument.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package rds81 implements the RDS-81 indicator for the RDR-2000
// weather radar: the unit's mode logic, antenna sweep and warm-up
// simulation, the bezel controls and the OpenGL rendering of the bezel
// and screen. The simulator is reached only through package host.
package rds81

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/mmp/rds81/host"
	"github.com/mmp/rds81/log"
	"github.com/mmp/rds81/math"
)

var ErrAlreadyRunning = errors.New("an RDS-81 instrument is already running")

const (
	DeviceID   = "RDS81"
	DeviceName = "RDS-81 Weather Radar"

	ScreenWidth, ScreenHeight = 640, 480
	BezelWidth, BezelHeight   = 1024, 660
	ScreenOffsetX             = 192
	ScreenOffsetY             = 100

	// Seconds after power-on for the screen to reach full brightness,
	// for the picture to finish growing to full size and for the antenna
	// to start painting.
	WarmupAlpha   = 5
	WarmupScale   = 8
	WarmupAntenna = 8

	// The antenna sweeps +/- SweepLimit degrees; the simulator's sector
	// is set slightly wider so the painted image reaches the edges.
	SweepLimit        = 45
	SweepMargin       = 1
	DefaultSweepSpeed = 45 // degrees per second

	// Gain sent to the simulator outside of MAP, where the real unit
	// uses its calibrated gain.
	CalibratedGain = 1.0
)

// Clock provides the simulator time, in seconds.
type Clock interface {
	Now() float64
}

type Options struct {
	Side host.Side
	// ResourceDir holds the textures, cursors, font and optional shader
	// overrides.
	ResourceDir string
	// SweepSpeed is the antenna speed in degrees per second; zero
	// selects DefaultSweepSpeed.
	SweepSpeed float32
	Clock      Clock
}

type cursorKind int

const (
	cursorClick cursorKind = iota
	cursorRotateLeft
	cursorRotateRight
	numCursors
)

var cursorFiles = [numCursors]string{
	cursorClick:       "cursor_click.png",
	cursorRotateLeft:  "cursor_rot_left.png",
	cursorRotateRight: "cursor_rot_right.png",
}

// Instrument is a live RDS-81: it owns the avionics device, the bezel
// controls and all of the rendering resources. It implements
// host.AvionicsCallbacks.
type Instrument struct {
	h    host.Host
	out  *Outputs
	opts Options
	lg   *log.Logger

	refs       hostRefs
	buttons    []button
	knobs      []knob
	unregister []func()
	active     host.Command

	display display
	cursors [numCursors]host.Cursor
	device  host.Avionics

	mode       Mode
	submode    Submode
	stabilized bool
	mapGain    float32

	antAngle, antAnglePrev float32
	antDir                 float32
	antClear               bool
	warm                   bool

	onTime, offTime float64
	lastUpdate      float64
	updated         bool
}

var _ host.AvionicsCallbacks = (*Instrument)(nil)

// New creates the instrument and its avionics device. It fails if an
// instrument is already attached to out or if a required dataref or
// command is missing.
func New(h host.Host, out *Outputs, opts Options, lg *log.Logger) (*Instrument, error) {
	return newInstrument(h, out, opts, lg, func(inst *Instrument) display {
		return newGLDisplay(h, inst.knobs, opts.ResourceDir, lg)
	})
}

func newInstrument(h host.Host, out *Outputs, opts Options, lg *log.Logger,
	makeDisplay func(*Instrument) display) (*Instrument, error) {
	if out.attached != nil {
		return nil, ErrAlreadyRunning
	}
	if opts.Clock == nil {
		return nil, errors.New("no clock provided")
	}
	if opts.SweepSpeed <= 0 {
		opts.SweepSpeed = DefaultSweepSpeed
	}
	lg = lg.With(slog.String("side", opts.Side.String()))

	inst := &Instrument{
		h:          h,
		out:        out,
		opts:       opts,
		lg:         lg,
		mode:       ModeOff,
		submode:    SubmodeWX,
		stabilized: true,
		mapGain:    0.5,
		antAngle:   -SweepLimit,
		antDir:     1,
		antClear:   true,
	}
	inst.antAnglePrev = inst.antAngle

	var err error
	if inst.refs, err = findHostRefs(h, opts.Side); err != nil {
		return nil, err
	}
	if err = inst.bindControls(); err != nil {
		return nil, err
	}

	inst.registerHandlers()
	inst.display = makeDisplay(inst)
	inst.loadCursors()

	inst.device, err = h.CreateAvionics(host.AvionicsDesc{
		ScreenWidth:   ScreenWidth,
		ScreenHeight:  ScreenHeight,
		BezelWidth:    BezelWidth,
		BezelHeight:   BezelHeight,
		ScreenOffsetX: ScreenOffsetX,
		ScreenOffsetY: ScreenOffsetY,
		DeviceID:      DeviceID,
		DeviceName:    DeviceName,
	}, inst)
	if err != nil {
		inst.release()
		return nil, fmt.Errorf("%s: %w", DeviceID, err)
	}

	now := opts.Clock.Now()
	inst.onTime, inst.offTime, inst.lastUpdate = now, now, now
	inst.refs.reset()

	out.attached = inst
	out.Mode = inst.mode
	out.Gain = inst.mapGain * 2

	lg.Info("created instrument", slog.String("device", DeviceID))
	return inst, nil
}

// bindControls resolves the commands and datarefs of the bezel
// controls. The commands are declared by Outputs and must exist; a
// missing knob dataref only means the knob is drawn at its minimum.
func (inst *Instrument) bindControls() error {
	var errs []error
	findCmd := func(name string) host.Command {
		cmd, err := inst.h.FindCommand(name)
		if err != nil {
			errs = append(errs, err)
		}
		return cmd
	}

	for _, desc := range Buttons() {
		inst.buttons = append(inst.buttons, button{desc: desc, cmd: findCmd(desc.Command)})
	}
	for _, desc := range Knobs() {
		k := knob{desc: desc, up: findCmd(desc.Up), down: findCmd(desc.Down)}
		if ref, err := inst.h.FindDataRef(desc.DataRef); err != nil {
			inst.lg.Warnf("%s knob: %v", desc.Name, err)
		} else {
			k.value = ref
		}
		inst.knobs = append(inst.knobs, k)
	}

	if len(errs) > 0 {
		return fmt.Errorf("controls: %w", errors.Join(errs...))
	}
	return nil
}

func (inst *Instrument) loadCursors() {
	for kind, name := range cursorFiles {
		path := filepath.Join(inst.opts.ResourceDir, name)
		c, err := inst.h.LoadCursor(path)
		if err != nil {
			inst.lg.Warnf("%s: unable to load cursor: %v", path, err)
			continue
		}
		inst.cursors[kind] = c
	}
}

// Destroy releases everything the instrument created, in the reverse
// order of creation, and detaches it from its Outputs.
func (inst *Instrument) Destroy() {
	if inst.active != nil {
		inst.h.CommandEnd(inst.active)
		inst.active = nil
	}
	if inst.device != nil {
		inst.device.Destroy()
		inst.device = nil
	}
	inst.release()
	if inst.out.attached == inst {
		inst.out.attached = nil
	}
	inst.lg.Info("destroyed instrument")
}

func (inst *Instrument) release() {
	for i := len(inst.cursors) - 1; i >= 0; i-- {
		if inst.cursors[i] != nil {
			inst.cursors[i].Release()
			inst.cursors[i] = nil
		}
	}
	if inst.display != nil {
		inst.display.destroy()
		inst.display = nil
	}
	for i := len(inst.unregister) - 1; i >= 0; i-- {
		inst.unregister[i]()
	}
	inst.unregister = nil
}

// ReloadShaders recompiles the instrument's shaders, picking up any
// changes to the files in the resource directory.
func (inst *Instrument) ReloadShaders() {
	if inst.display != nil {
		inst.display.reloadShaders()
	}
}

func (inst *Instrument) Mode() Mode       { return inst.mode }
func (inst *Instrument) Submode() Submode { return inst.submode }
func (inst *Instrument) Side() host.Side  { return inst.opts.Side }

///////////////////////////////////////////////////////////////////////////
// Per-frame logic

func (inst *Instrument) hasPower() bool {
	return hasPower(inst.refs.avionicsPower.Int() != 0, inst.device.BusVoltsRatio())
}

// update advances the unit's state to the current time; it is called
// once per frame before the screen is drawn.
func (inst *Instrument) update() {
	now := inst.opts.Clock.Now()
	dt := float32(now - inst.lastUpdate)
	if !inst.updated || dt < 0 {
		dt = 0
	}
	inst.lastUpdate, inst.updated = now, true

	inst.refs.force(SweepLimit + SweepMargin)

	inst.refs.gain.SetFloat(effectiveGain(inst.mode, inst.submode, inst.mapGain))
	inst.out.Gain = inst.mapGain * 2
	inst.refs.tilt.SetFloat(inst.out.Tilt)
	inst.stabilized = inst.refs.stab.Int() == 1

	inst.warm = now-inst.onTime >= WarmupAntenna
	inst.refs.mode.SetInt(int(hostRadarMode(inst.mode, inst.submode, inst.warm)))

	if inst.mode != ModeOn {
		inst.submode = SubmodeWX
	}

	powered := inst.hasPower()
	inst.antAnglePrev = inst.antAngle
	if !powered || inst.mode <= ModeStandby {
		inst.antAngle, inst.antDir = -SweepLimit, 1
		inst.antAnglePrev = inst.antAngle
		inst.antClear = true
	} else {
		inst.antAngle, inst.antDir = sweep(inst.antAngle, inst.antDir, inst.opts.SweepSpeed*dt, SweepLimit)
	}

	if inst.mode == ModeOff || !powered {
		inst.onTime = now
	} else {
		inst.offTime = now
	}
}

// sweep moves the antenna by step degrees in direction dir, reversing
// the direction when it reaches either limit.
func sweep(angle, dir, step, limit float32) (float32, float32) {
	angle += dir * step
	if angle >= limit {
		return limit, -1
	}
	if angle <= -limit {
		return -limit, 1
	}
	return angle, dir
}

func hasPower(avionicsSwitch bool, busRatio float32) bool {
	return busRatio < 0 || (avionicsSwitch && busRatio >= 0.8)
}

func effectiveGain(m Mode, s Submode, mapGain float32) float32 {
	if m == ModeOn && s == SubmodeMap {
		return mapGain * 2
	}
	return CalibratedGain
}

// warmupAlpha is the screen brightness factor t seconds after power-on.
func warmupAlpha(t float64) float32 {
	return 0.2 + 0.8*math.Clamp(math.Sqr(float32(t/WarmupAlpha)), 0, 1)
}

// screenScale is the size of the picture, relative to the full screen,
// t seconds after power-on.
func screenScale(t float64) float32 {
	return 0.1 + 0.9*math.EaseOutCubic(math.Clamp(float32(t/WarmupScale), 0, 1))
}

// blink is 0 or 1, alternating every half second in WXA and 1 otherwise.
func blink(s Submode, t float64) float32 {
	if s != SubmodeWXA {
		return 1
	}
	return float32(int(t*2) % 2)
}

///////////////////////////////////////////////////////////////////////////
// State

// State is a snapshot of the unit's state, for debugging.
type State struct {
	Side         string
	Mode         string
	Submode      string
	Stabilized   bool
	MapGain      float32
	AntennaAngle float32
	AntennaDir   float32
	Warm         bool
	Powered      bool
	OnTime       float64
	OffTime      float64
	HostMode     string
	ActiveCmd    string
}

func (inst *Instrument) State() State {
	s := State{
		Side:         inst.opts.Side.String(),
		Mode:         inst.mode.String(),
		Submode:      inst.submode.String(),
		Stabilized:   inst.stabilized,
		MapGain:      inst.mapGain,
		AntennaAngle: inst.antAngle,
		AntennaDir:   inst.antDir,
		Warm:         inst.warm,
		Powered:      inst.hasPower(),
		OnTime:       inst.onTime,
		OffTime:      inst.offTime,
		HostMode:     HostRadarMode(inst.refs.mode.Int()).String(),
	}
	if inst.active != nil {
		s.ActiveCmd = inst.active.Name()
	}
	return s
}
