// host/host.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package host defines the narrow set of simulator services that the
// instrument and the plugin glue depend on: datarefs, commands, flight
// loops, avionics devices, resources and a small amount of graphics
// state. The X-Plane SDK binding implements these interfaces; package
// simhost provides an in-memory implementation for tests and the bench
// harness.
package host

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrDeviceCreation = errors.New("unable to create avionics device")
)

///////////////////////////////////////////////////////////////////////////
// Telemetry

// DataRef is a handle to a named simulator variable. Scalar accessors
// convert between int and float as needed; vector accessors copy up to
// len(dst) elements and return the number copied.
type DataRef interface {
	Name() string
	Int() int
	SetInt(v int)
	Float() float32
	SetFloat(v float32)
	Floats(dst []float32) int
	Ints(dst []int32) int
}

type Telemetry interface {
	// FindDataRef returns an error wrapping ErrNotFound if there is no
	// dataref with the given name.
	FindDataRef(name string) (DataRef, error)
	// PublishInt and PublishFloat make a plugin-owned value available
	// to the simulator and other plugins. If set is nil, the dataref is
	// read-only.
	PublishInt(name string, get func() int, set func(int)) (DataRef, error)
	PublishFloat(name string, get func() float32, set func(float32)) (DataRef, error)
	Unpublish(ref DataRef)
}

///////////////////////////////////////////////////////////////////////////
// Commands

type Phase int

const (
	PhaseBegin Phase = iota
	PhaseContinue
	PhaseEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseBegin:
		return "begin"
	case PhaseContinue:
		return "continue"
	case PhaseEnd:
		return "end"
	default:
		return "unknown"
	}
}

type Command interface {
	Name() string
}

// CommandHandler is called for each phase of a command. Returning false
// stops the host from passing the command on to other handlers.
type CommandHandler func(cmd Command, phase Phase) bool

type Commands interface {
	FindCommand(name string) (Command, error)
	CreateCommand(name, description string) Command
	// RegisterCommandHandler returns a function that removes the
	// handler.
	RegisterCommandHandler(cmd Command, handler CommandHandler) func()
	CommandBegin(cmd Command)
	CommandEnd(cmd Command)
	CommandOnce(cmd Command)
}

///////////////////////////////////////////////////////////////////////////
// Scheduling

// FlightLoop is called by the host's frame loop. It returns the interval
// until the next call: positive values are seconds, negative values are
// frames and zero suspends the callback.
type FlightLoop func(sinceLastCall, sinceLastLoop float32, counter int) float32

type Scheduler interface {
	// RegisterFlightLoop returns a function that unregisters the
	// callback.
	RegisterFlightLoop(loop FlightLoop, interval float32) func()
}

///////////////////////////////////////////////////////////////////////////
// Avionics devices

// Side identifies which of the simulator's radar simulations an
// instrument is bound to.
type Side int

const (
	SideNone Side = iota
	SidePilot
	SideCopilot
)

func (s Side) String() string {
	switch s {
	case SidePilot:
		return "pilot"
	case SideCopilot:
		return "copilot"
	default:
		return "none"
	}
}

// Suffix returns the suffix appended to per-side dataref names.
func (s Side) Suffix() string {
	if s == SideCopilot {
		return "_copilot"
	}
	return ""
}

type MouseStatus int

const (
	MouseDown MouseStatus = iota
	MouseDrag
	MouseUp
)

type CursorStatus int

const (
	CursorDefault CursorStatus = iota
	CursorHidden
	CursorArrow
	CursorCustom
)

// AvionicsDesc gives the geometry of a device, in device pixels, along
// with its identification.
type AvionicsDesc struct {
	ScreenWidth, ScreenHeight    int
	BezelWidth, BezelHeight      int
	ScreenOffsetX, ScreenOffsetY int
	DeviceID, DeviceName         string
}

// AvionicsCallbacks is implemented by the plugin side of an avionics
// device. Coordinates are in bezel pixels with the origin at the lower
// left.
type AvionicsCallbacks interface {
	DrawBezel(r, g, b float32)
	DrawScreen()
	Click(x, y int, status MouseStatus) bool
	Scroll(x, y, wheel, clicks int) bool
	Cursor(x, y int) CursorStatus
	Brightness(rheostat, ambient, busVoltsRatio float32) float32
}

type Avionics interface {
	SetPopupVisible(visible bool)
	PopupVisible() bool
	PopOut()
	// BusVoltsRatio is the ratio of the device's bus voltage to its
	// nominal voltage; negative values mean the host does not model it.
	BusVoltsRatio() float32
	Destroy()
}

type Devices interface {
	CreateAvionics(desc AvionicsDesc, callbacks AvionicsCallbacks) (Avionics, error)
	// RadarTexture returns the host's weather radar texture for the
	// given side, or 0 if the aircraft has no radar there.
	RadarTexture(side Side) uint32
}

///////////////////////////////////////////////////////////////////////////
// Resources and graphics

type Cursor interface {
	Activate()
	Release()
}

type Resources interface {
	// PluginPath is the path of the plugin binary itself.
	PluginPath() string
	SystemDir() string
	// AircraftDir is the directory of the user's aircraft model.
	AircraftDir() string
	LoadCursor(path string) (Cursor, error)
}

// GraphicsState describes the fixed-function state the host should
// establish before plugin drawing.
type GraphicsState struct {
	Fog           bool
	TextureUnits  int
	Lighting      bool
	AlphaTesting  bool
	AlphaBlending bool
	DepthTesting  bool
	DepthWriting  bool
}

type Graphics interface {
	SetGraphicsState(state GraphicsState)
	BindTexture2d(tex uint32, unit int)
}

///////////////////////////////////////////////////////////////////////////
// Host

// Message identifies an inter-plugin message delivered to the plugin.
type Message int

const MsgPlaneLoaded Message = 102

// Host bundles all of the services the plugin uses.
type Host interface {
	Telemetry
	Commands
	Scheduler
	Devices
	Resources
	Graphics
	// DebugString writes to the simulator's log.
	DebugString(s string)
}

// DebugWriter adapts a Host's DebugString to an io.Writer.
type DebugWriter struct {
	Host interface{ DebugString(string) }
}

func (w DebugWriter) Write(b []byte) (int, error) {
	w.Host.DebugString(string(b))
	return len(b), nil
}
