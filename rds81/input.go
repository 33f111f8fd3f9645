// rds81/input.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package rds81

import (
	"github.com/mmp/rds81/host"
)

// Click handles mouse clicks on the bezel. It reports whether the
// instrument is holding a command, in which case the simulator keeps
// sending it the drag and release events.
func (inst *Instrument) Click(x, y int, status host.MouseStatus) bool {
	switch status {
	case host.MouseDown:
		inst.ClickDown([2]float32{float32(x), float32(y)})
	case host.MouseUp:
		inst.ClickRelease()
	}
	return inst.active != nil
}

// ClickDown ends any held command and then begins the command of the
// control under p, if there is one.
func (inst *Instrument) ClickDown(p [2]float32) bool {
	inst.ClickRelease()

	h, ok := hitTest(inst.buttons, inst.knobs, p)
	if !ok || h.cmd == nil {
		return false
	}
	inst.active = h.cmd
	inst.h.CommandBegin(h.cmd)
	return true
}

// ClickRelease ends the held command; it does nothing if no command is
// held.
func (inst *Instrument) ClickRelease() bool {
	if inst.active == nil {
		return false
	}
	cmd := inst.active
	inst.active = nil
	inst.h.CommandEnd(cmd)
	return true
}

// ActiveCommand returns the command currently held by a click, or nil.
func (inst *Instrument) ActiveCommand() host.Command {
	return inst.active
}

// Scroll turns the knob under the pointer by one step per wheel click.
// Horizontal scrolling is not handled.
func (inst *Instrument) Scroll(x, y, wheel, clicks int) bool {
	if wheel != 0 {
		return false
	}
	i := knobAt(inst.knobs, [2]float32{float32(x), float32(y)})
	if i == -1 || clicks == 0 {
		return false
	}

	k := &inst.knobs[i]
	cmd := k.up
	if clicks < 0 {
		cmd, clicks = k.down, -clicks
	}
	if cmd == nil {
		return false
	}
	for range clicks {
		inst.h.CommandOnce(cmd)
	}
	return true
}

// Cursor shows the click cursor over buttons and a rotation cursor over
// either half of a knob.
func (inst *Instrument) Cursor(x, y int) host.CursorStatus {
	h, ok := hitTest(inst.buttons, inst.knobs, [2]float32{float32(x), float32(y)})
	if !ok {
		return host.CursorDefault
	}
	c := inst.cursors[h.cursor]
	if c == nil {
		return host.CursorDefault
	}
	c.Activate()
	return host.CursorCustom
}

// Brightness is the simulator's brightness callback for the screen.
// The unit is dark without power and otherwise ramps up over the first
// seconds after it is turned on.
func (inst *Instrument) Brightness(rheostat, ambient, busVoltsRatio float32) float32 {
	if !hasPower(inst.refs.avionicsPower.Int() != 0, busVoltsRatio) {
		return 0
	}
	alpha := warmupAlpha(inst.opts.Clock.Now() - inst.onTime)
	return alpha * (0.01 + rheostat*1.5*ambient)
}
