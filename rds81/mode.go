// rds81/mode.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package rds81

// Mode is the position of the unit's mode knob. Modes are ordered; the
// mode_up and mode_down commands step through them.
type Mode int

const (
	ModeOff Mode = iota
	ModeStandby
	ModeTest
	ModeOn

	NumModes = int(ModeOn) + 1
)

func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "OFF"
	case ModeStandby:
		return "STBY"
	case ModeTest:
		return "TEST"
	case ModeOn:
		return "ON"
	default:
		return "unknown"
	}
}

func clampMode(m int) Mode {
	return Mode(min(max(m, int(ModeOff)), int(ModeOn)))
}

// Submode selects what the radar displays; it only has meaning when the
// unit is ON and is WX otherwise.
type Submode int

const (
	SubmodeWX Submode = iota
	SubmodeWXA
	SubmodeMap
)

func (s Submode) String() string {
	switch s {
	case SubmodeWX:
		return "WX"
	case SubmodeWXA:
		return "WXA"
	case SubmodeMap:
		return "MAP"
	default:
		return "unknown"
	}
}

// displayString returns the mode annunciation shown at the upper left
// of the screen.
func displayString(m Mode, s Submode) string {
	if m == ModeOn {
		return s.String()
	}
	if m == ModeTest {
		return "TEST"
	}
	return "STBY"
}

// HostRadarMode is the simulator's weather radar mode, as set through
// the EFIS_weather_mode dataref.
type HostRadarMode int

const (
	HostRadarOff HostRadarMode = iota
	HostRadarStandby
	HostRadarTest
	HostRadarWeather
	HostRadarGroundMap
)

func (m HostRadarMode) String() string {
	switch m {
	case HostRadarOff:
		return "off"
	case HostRadarStandby:
		return "standby"
	case HostRadarTest:
		return "test"
	case HostRadarWeather:
		return "weather"
	case HostRadarGroundMap:
		return "ground map"
	default:
		return "unknown"
	}
}

// hostRadarMode maps the unit's state to the mode the simulator's radar
// should run in. Until the antenna has warmed up, the simulator's radar
// stays off no matter what the unit shows.
func hostRadarMode(m Mode, s Submode, warm bool) HostRadarMode {
	if !warm {
		return HostRadarOff
	}
	switch m {
	case ModeTest:
		return HostRadarTest
	case ModeOn:
		if s == SubmodeMap {
			return HostRadarGroundMap
		}
		return HostRadarWeather
	default:
		return HostRadarOff
	}
}
