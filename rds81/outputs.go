// rds81/outputs.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package rds81

import (
	"github.com/mmp/rds81/host"
	"github.com/mmp/rds81/log"
	"github.com/mmp/rds81/math"
	"github.com/mmp/rds81/util"
)

// Commands defined by the unit. Cockpit objects bind to these.
const (
	CmdPopup  = "rdr2000/popup"
	CmdPopout = "rdr2000/popout"

	CmdBrightnessUp   = "rdr2000/brightness_up"
	CmdBrightnessDown = "rdr2000/brightness_down"
	CmdTiltUp         = "rdr2000/tilt_up"
	CmdTiltDown       = "rdr2000/tilt_down"
	CmdGainUp         = "rdr2000/gain_up"
	CmdGainDown       = "rdr2000/gain_down"

	CmdWX        = "rdr2000/mode_wx"
	CmdWXA       = "rdr2000/mode_wxa"
	CmdMap       = "rdr2000/mode_map"
	CmdRangeUp   = "rdr2000/range_up"
	CmdRangeDown = "rdr2000/range_down"
	CmdStab      = "rdr2000/stab"

	CmdModeUp   = "rdr2000/mode_up"
	CmdModeDown = "rdr2000/mode_down"
	CmdOff      = "rdr2000/mode_off"
	CmdStandby  = "rdr2000/mode_stby"
	CmdTest     = "rdr2000/mode_test"
	CmdOn       = "rdr2000/mode_on"
)

// Datarefs published by the unit.
const (
	ModeDataRef       = "rdr2000/mode"
	GainDataRef       = "rdr2000/gain"
	TiltDataRef       = "rdr2000/tilt"
	BrightnessDataRef = "rdr2000/brightness"
)

var commandDescriptions = [...]struct{ name, desc string }{
	{CmdPopup, "Show the weather radar popup"},
	{CmdPopout, "Pop out the weather radar window"},
	{CmdBrightnessUp, "Weather radar brightness up"},
	{CmdBrightnessDown, "Weather radar brightness down"},
	{CmdTiltUp, "Weather radar tilt up"},
	{CmdTiltDown, "Weather radar tilt down"},
	{CmdGainUp, "Weather radar gain up"},
	{CmdGainDown, "Weather radar gain down"},
	{CmdWX, "Weather radar WX mode"},
	{CmdWXA, "Weather radar WXA (alert) mode"},
	{CmdMap, "Weather radar ground map mode"},
	{CmdRangeUp, "Weather radar range up"},
	{CmdRangeDown, "Weather radar range down"},
	{CmdStab, "Weather radar toggle stabilization"},
	{CmdModeUp, "Weather radar mode knob right"},
	{CmdModeDown, "Weather radar mode knob left"},
	{CmdOff, "Weather radar off"},
	{CmdStandby, "Weather radar standby"},
	{CmdTest, "Weather radar test"},
	{CmdOn, "Weather radar on"},
}

const (
	minTilt, maxTilt = -15, 15
	tiltStep         = 0.1
	gainStep         = 0.05
	brightnessStep   = 0.1
	maxRangeIndex    = 6
)

// Outputs holds the values the unit publishes to the simulator and the
// commands it declares. It exists for the whole life of the plugin, so
// that cockpit objects can bind to the commands and datarefs before an
// instrument is created. At most one Instrument is attached at a time.
type Outputs struct {
	Mode       Mode
	Gain       float32 // display value of the gain knob, [0,2]
	Tilt       float32 // degrees, [-15,15]
	Brightness float32 // [0,1]

	h        host.Host
	lg       *log.Logger
	commands map[string]host.Command
	datarefs []host.DataRef
	attached *Instrument
}

// NewOutputs declares the unit's commands and publishes its datarefs.
func NewOutputs(h host.Host, lg *log.Logger) (*Outputs, error) {
	o := &Outputs{
		Gain:       1,
		Brightness: 1,
		h:          h,
		lg:         lg,
		commands:   make(map[string]host.Command),
	}

	for _, c := range commandDescriptions {
		o.commands[c.name] = h.CreateCommand(c.name, c.desc)
	}

	var e util.ErrorLogger
	e.Push("outputs")
	publish := func(ref host.DataRef, err error) {
		if err != nil {
			e.Error(err)
		} else {
			o.datarefs = append(o.datarefs, ref)
		}
	}
	publish(h.PublishInt(ModeDataRef, func() int { return int(o.Mode) }, nil))
	publish(h.PublishFloat(GainDataRef, func() float32 { return o.Gain }, nil))
	publish(h.PublishFloat(TiltDataRef, func() float32 { return o.Tilt },
		func(v float32) { o.Tilt = math.Clamp(v, minTilt, maxTilt) }))
	publish(h.PublishFloat(BrightnessDataRef, func() float32 { return o.Brightness },
		func(v float32) { o.Brightness = math.Clamp(v, 0, 1) }))
	e.Pop()

	if e.HaveErrors() {
		o.Destroy()
		return nil, e.Err()
	}
	lg.Infof("declared %d commands and %d datarefs", len(o.commands), len(o.datarefs))
	return o, nil
}

// Command returns the named command declared by NewOutputs, or nil.
func (o *Outputs) Command(name string) host.Command {
	return o.commands[name]
}

// Attached returns the instrument currently using o, if any.
func (o *Outputs) Attached() *Instrument {
	return o.attached
}

// Destroy unpublishes the datarefs. Commands cannot be deleted from the
// simulator and are left in place.
func (o *Outputs) Destroy() {
	for _, ref := range o.datarefs {
		o.h.Unpublish(ref)
	}
	o.datarefs = nil
}
