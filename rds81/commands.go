// rds81/commands.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package rds81

import (
	"github.com/mmp/rds81/host"
	"github.com/mmp/rds81/math"
	"github.com/mmp/rds81/util"
)

// registerHandlers installs the instrument's handlers for the commands
// declared by its Outputs. All handlers act on the begin phase only and
// let the command continue on to other handlers.
func (inst *Instrument) registerHandlers() {
	on := func(name string, fn func()) {
		cmd := inst.out.Command(name)
		if cmd == nil {
			inst.lg.Errorf("%s: command was not declared", name)
			return
		}
		inst.unregister = append(inst.unregister,
			inst.h.RegisterCommandHandler(cmd, func(_ host.Command, phase host.Phase) bool {
				if phase == host.PhaseBegin {
					fn()
				}
				return true
			}))
	}

	on(CmdPopup, func() { inst.device.SetPopupVisible(true) })
	on(CmdPopout, func() { inst.device.PopOut() })

	on(CmdWX, func() { inst.setSubmode(SubmodeWX) })
	on(CmdWXA, func() { inst.setSubmode(SubmodeWXA) })
	on(CmdMap, func() { inst.setSubmode(SubmodeMap) })

	on(CmdStab, func() { inst.refs.stab.SetInt(util.Select(inst.refs.stab.Int() == 0, 1, 0)) })
	on(CmdRangeUp, func() { inst.stepRange(1) })
	on(CmdRangeDown, func() { inst.stepRange(-1) })

	on(CmdModeUp, func() { inst.setMode(int(inst.mode) + 1) })
	on(CmdModeDown, func() { inst.setMode(int(inst.mode) - 1) })
	on(CmdOff, func() { inst.setMode(int(ModeOff)) })
	on(CmdStandby, func() { inst.setMode(int(ModeStandby)) })
	on(CmdTest, func() { inst.setMode(int(ModeTest)) })
	on(CmdOn, func() { inst.setMode(int(ModeOn)) })

	on(CmdTiltUp, func() { inst.out.Tilt = math.Clamp(inst.out.Tilt+tiltStep, minTilt, maxTilt) })
	on(CmdTiltDown, func() { inst.out.Tilt = math.Clamp(inst.out.Tilt-tiltStep, minTilt, maxTilt) })

	on(CmdGainUp, func() { inst.setMapGain(inst.mapGain + gainStep) })
	on(CmdGainDown, func() { inst.setMapGain(inst.mapGain - gainStep) })

	on(CmdBrightnessUp, func() {
		inst.out.Brightness = math.Clamp(inst.out.Brightness+brightnessStep, 0, 1)
	})
	on(CmdBrightnessDown, func() {
		inst.out.Brightness = math.Clamp(inst.out.Brightness-brightnessStep, 0, 1)
	})
}

// setMode clamps m to the valid modes. Leaving ON drops the submode back
// to WX straight away rather than waiting for the next frame.
func (inst *Instrument) setMode(m int) {
	inst.mode = clampMode(m)
	if inst.mode != ModeOn {
		inst.submode = SubmodeWX
	}
	inst.out.Mode = inst.mode
}

// setSubmode only has an effect when the unit is ON.
func (inst *Instrument) setSubmode(s Submode) {
	if inst.mode == ModeOn {
		inst.submode = s
	}
}

func (inst *Instrument) setMapGain(g float32) {
	inst.mapGain = math.Clamp(g, 0, 1)
	inst.out.Gain = inst.mapGain * 2
}

func (inst *Instrument) stepRange(delta int) {
	r := math.Clamp(inst.refs.rangeIndex.Int()+delta, 0, maxRangeIndex)
	inst.refs.rangeIndex.SetInt(r)
}

// SetMapGain sets the MAP-mode gain, clamped to [0,1].
func (inst *Instrument) SetMapGain(g float32) {
	inst.setMapGain(g)
}

func (inst *Instrument) MapGain() float32 {
	return inst.mapGain
}
