// host/simhost/simhost.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package simhost is an in-memory implementation of the host services.
// It stands in for the simulator in tests and in the bench harness: it
// stores datarefs, dispatches commands synchronously, runs flight loops
// when asked to and records the avionics devices that are created.
package simhost

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mmp/rds81/host"
)

type Host struct {
	datarefs    map[string]*DataRef
	commands    map[string]*Command
	flightLoops []*flightLoop
	avionics    []*Avionics

	radarTextures map[host.Side]uint32

	pluginPath  string
	systemDir   string
	aircraftDir string

	// CursorLoader, if set, is used by LoadCursor; otherwise cursors are
	// placeholders that just record their activation.
	CursorLoader func(path string) (host.Cursor, error)
	// OnGraphicsState and OnBindTexture, if set, are called when the
	// plugin changes graphics state so that a real renderer can apply it.
	OnGraphicsState func(host.GraphicsState)
	OnBindTexture   func(tex uint32, unit int)

	GraphicsState host.GraphicsState
	BoundTextures [4]uint32
	ActiveCursor  string
	Messages      []string

	runningTime float64
	frame       int
}

// New returns an empty host whose plugin binary lives in pluginDir.
func New(pluginDir string) *Host {
	return &Host{
		datarefs:      make(map[string]*DataRef),
		commands:      make(map[string]*Command),
		radarTextures: make(map[host.Side]uint32),
		pluginPath:    filepath.Join(pluginDir, "64", "lin.xpl"),
		systemDir:     string(filepath.Separator),
		aircraftDir:   filepath.Dir(pluginDir),
	}
}

// NewXPlane returns a host that defines the subset of X-Plane's
// datarefs that weather radar instruments use, set to the values they
// have in a cold-and-dark aircraft with the avionics switch on.
func NewXPlane(pluginDir string) *Host {
	h := New(pluginDir)

	h.DefineFloats("sim/graphics/view/projection_matrix", Identity4())
	h.DefineFloats("sim/graphics/view/modelview_matrix", Identity4())
	h.DefineInt("sim/graphics/view/current_gl_fbo", 0)
	h.DefineInts("sim/graphics/view/viewport", []int32{0, 0, 1024, 660})

	h.DefineInt("sim/cockpit2/switches/avionics_power_on", 1)

	for _, side := range []host.Side{host.SidePilot, host.SideCopilot} {
		sfx := side.Suffix()
		h.DefineInt("sim/cockpit2/EFIS/EFIS_weather_mode"+sfx, 0)
		h.DefineFloat("sim/cockpit2/EFIS/EFIS_weather_tilt"+sfx, 0)
		h.DefineFloat("sim/cockpit2/EFIS/EFIS_weather_tilt_antenna"+sfx, 0)
		h.DefineInt("sim/cockpit2/EFIS/EFIS_weather_auto_tilt"+sfx, 0)
		h.DefineFloat("sim/cockpit2/EFIS/EFIS_weather_gain"+sfx, 1)
		h.DefineInt("sim/cockpit2/EFIS/EFIS_weather_stab"+sfx, 1)
		h.DefineInt("sim/cockpit2/EFIS/EFIS_weather_gcs"+sfx, 0)
		h.DefineInt("sim/cockpit2/EFIS/EFIS_weather_multiscan"+sfx, 0)
		h.DefineInt("sim/cockpit2/EFIS/map_range"+sfx, 2)
		h.DefineFloat("sim/cockpit2/EFIS/map_range_nm"+sfx, 40)
	}
	h.DefineInt("sim/cockpit2/EFIS/EFIS_weather_pws", 0)
	h.DefineFloat("sim/cockpit2/EFIS/EFIS_weather_sector_brg", 0)
	h.DefineFloat("sim/cockpit2/EFIS/EFIS_weather_sector_width", 90)
	h.DefineFloat("sim/cockpit2/EFIS/EFIS_weather_antenna_limit", 90)

	h.DefineFloat("sim/time/total_running_time_sec", 0)
	h.DefineInt("sim/time/local_date_days", 0)
	h.DefineFloat("sim/time/local_time_sec", 0)
	h.DefineFloat("sim/time/zulu_time_sec", 0)

	return h
}

func Identity4() []float32 {
	return []float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

///////////////////////////////////////////////////////////////////////////
// Frame loop

// RunningTime returns the simulated time in seconds since the host
// started.
func (h *Host) RunningTime() float64 {
	return h.runningTime
}

// Advance moves simulated time forward by dt seconds and runs the flight
// loops that are due, as the simulator does once per frame.
func (h *Host) Advance(dt float64) {
	h.runningTime += dt
	h.frame++
	if ref, ok := h.datarefs["sim/time/total_running_time_sec"]; ok {
		ref.SetFloat(float32(h.runningTime))
	}

	// Callbacks may register or unregister loops.
	for _, fl := range slices.Clone(h.flightLoops) {
		if fl.removed || fl.interval == 0 {
			continue
		}
		if fl.interval < 0 {
			if h.frame < fl.nextFrame {
				continue
			}
		} else if h.runningTime < fl.nextTime {
			continue
		}

		since := float32(h.runningTime - fl.lastCall)
		fl.lastCall = h.runningTime
		fl.counter++
		next := fl.loop(since, float32(dt), fl.counter)
		fl.schedule(next, h.frame, h.runningTime)
	}
	h.flightLoops = slices.DeleteFunc(h.flightLoops, func(fl *flightLoop) bool { return fl.removed })
}

// Draw invokes the bezel and screen callbacks of all live avionics
// devices, bezel first.
func (h *Host) Draw() {
	for _, av := range h.avionics {
		if !av.destroyed {
			av.DrawBezel(1, 1, 1)
			av.DrawScreen()
		}
	}
}

type flightLoop struct {
	loop      host.FlightLoop
	interval  float32
	nextFrame int
	nextTime  float64
	lastCall  float64
	counter   int
	removed   bool
}

func (fl *flightLoop) schedule(interval float32, frame int, now float64) {
	fl.interval = interval
	if interval < 0 {
		fl.nextFrame = frame + int(-interval)
	} else {
		fl.nextTime = now + float64(interval)
	}
}

func (h *Host) RegisterFlightLoop(loop host.FlightLoop, interval float32) func() {
	fl := &flightLoop{loop: loop, lastCall: h.runningTime}
	// The first call happens on the next frame at the earliest.
	fl.schedule(interval, h.frame, h.runningTime)
	if interval < 0 && fl.nextFrame <= h.frame {
		fl.nextFrame = h.frame + 1
	}
	h.flightLoops = append(h.flightLoops, fl)
	return func() { fl.removed = true }
}

// NumFlightLoops returns the number of registered and not suspended
// flight loops.
func (h *Host) NumFlightLoops() int {
	n := 0
	for _, fl := range h.flightLoops {
		if !fl.removed && fl.interval != 0 {
			n++
		}
	}
	return n
}

///////////////////////////////////////////////////////////////////////////
// Devices

func (h *Host) SetRadarTexture(side host.Side, tex uint32) {
	h.radarTextures[side] = tex
}

func (h *Host) RadarTexture(side host.Side) uint32 {
	return h.radarTextures[side]
}

func (h *Host) CreateAvionics(desc host.AvionicsDesc, callbacks host.AvionicsCallbacks) (host.Avionics, error) {
	if desc.DeviceID == "" || callbacks == nil {
		return nil, host.ErrDeviceCreation
	}
	for _, av := range h.avionics {
		if !av.destroyed && av.Desc.DeviceID == desc.DeviceID {
			return nil, fmt.Errorf("%s: %w", desc.DeviceID, host.ErrAlreadyExists)
		}
	}
	av := &Avionics{Desc: desc, callbacks: callbacks, BusRatio: 1}
	h.avionics = append(h.avionics, av)
	return av, nil
}

// LiveAvionics returns the devices that have not been destroyed.
func (h *Host) LiveAvionics() []*Avionics {
	return slices.DeleteFunc(slices.Clone(h.avionics), func(av *Avionics) bool { return av.destroyed })
}

// Avionics is a device created by the plugin. The exported methods that
// are not part of host.Avionics let a test or the bench drive the
// device's callbacks as the simulator would.
type Avionics struct {
	Desc      host.AvionicsDesc
	BusRatio  float32
	Popup     bool
	PoppedOut bool

	callbacks host.AvionicsCallbacks
	destroyed bool
}

func (av *Avionics) SetPopupVisible(visible bool) { av.Popup = visible }
func (av *Avionics) PopupVisible() bool           { return av.Popup }
func (av *Avionics) PopOut()                      { av.PoppedOut = true }
func (av *Avionics) BusVoltsRatio() float32       { return av.BusRatio }
func (av *Avionics) Destroy()                     { av.destroyed = true }
func (av *Avionics) Destroyed() bool              { return av.destroyed }

func (av *Avionics) DrawBezel(r, g, b float32) { av.callbacks.DrawBezel(r, g, b) }
func (av *Avionics) DrawScreen()               { av.callbacks.DrawScreen() }

func (av *Avionics) Click(x, y int, status host.MouseStatus) bool {
	return av.callbacks.Click(x, y, status)
}

func (av *Avionics) Scroll(x, y, clicks int) bool {
	return av.callbacks.Scroll(x, y, 0, clicks)
}

func (av *Avionics) Cursor(x, y int) host.CursorStatus {
	return av.callbacks.Cursor(x, y)
}

func (av *Avionics) Brightness(rheostat, ambient float32) float32 {
	return av.callbacks.Brightness(rheostat, ambient, av.BusRatio)
}

///////////////////////////////////////////////////////////////////////////
// Resources and graphics

func (h *Host) PluginPath() string  { return h.pluginPath }
func (h *Host) SystemDir() string   { return h.systemDir }
func (h *Host) AircraftDir() string { return h.aircraftDir }

// LoadAircraft changes the directory reported by AircraftDir.
func (h *Host) LoadAircraft(dir string) {
	h.aircraftDir = dir
}

func (h *Host) LoadCursor(path string) (host.Cursor, error) {
	if h.CursorLoader != nil {
		return h.CursorLoader(path)
	}
	return &placeholderCursor{h: h, name: filepath.Base(path)}, nil
}

type placeholderCursor struct {
	h    *Host
	name string
}

func (c *placeholderCursor) Activate() { c.h.ActiveCursor = c.name }
func (c *placeholderCursor) Release() {
	if c.h.ActiveCursor == c.name {
		c.h.ActiveCursor = ""
	}
}

func (h *Host) SetGraphicsState(state host.GraphicsState) {
	h.GraphicsState = state
	if h.OnGraphicsState != nil {
		h.OnGraphicsState(state)
	}
}

func (h *Host) BindTexture2d(tex uint32, unit int) {
	if unit >= 0 && unit < len(h.BoundTextures) {
		h.BoundTextures[unit] = tex
	}
	if h.OnBindTexture != nil {
		h.OnBindTexture(tex, unit)
	}
}

func (h *Host) DebugString(s string) {
	h.Messages = append(h.Messages, strings.TrimRight(s, "\n"))
}
