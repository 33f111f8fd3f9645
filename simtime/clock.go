// simtime/clock.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package simtime samples the simulator's clock once per frame and
// reconstructs the simulated UTC wall-clock time.
package simtime

import (
	"errors"
	"fmt"
	gomath "math"
	"time"

	"github.com/mmp/rds81/host"
	"github.com/mmp/rds81/util"
)

var ErrMissingDataRef = errors.New("missing time dataref")

const (
	RunningTimeDataRef = "sim/time/total_running_time_sec"
	LocalDaysDataRef   = "sim/time/local_date_days"
	LocalTimeDataRef   = "sim/time/local_time_sec"
	ZuluTimeDataRef    = "sim/time/zulu_time_sec"
)

const secondsPerDay = 86400

// Clock holds the most recent sample of the simulator's running time.
// All values are those of the last Tick; between ticks they do not
// change.
type Clock struct {
	runningTime host.DataRef
	localDays   host.DataRef
	localTime   host.DataRef
	zuluTime    host.DataRef

	// wallClock returns the current real-world time; only its year is
	// used, since the simulator does not track years.
	wallClock func() time.Time

	now, delta float64
	utc        time.Time

	unregister func()
}

// New resolves the time datarefs; it returns an error wrapping
// ErrMissingDataRef if any of them is unavailable.
func New(t host.Telemetry) (*Clock, error) {
	c := &Clock{wallClock: time.Now}

	var e util.ErrorLogger
	e.Push("simtime")
	find := func(name string) host.DataRef {
		ref, err := t.FindDataRef(name)
		if err != nil {
			e.Error(fmt.Errorf("%w: %w", ErrMissingDataRef, err))
		}
		return ref
	}
	c.runningTime = find(RunningTimeDataRef)
	c.localDays = find(LocalDaysDataRef)
	c.localTime = find(LocalTimeDataRef)
	c.zuluTime = find(ZuluTimeDataRef)
	e.Pop()

	if e.HaveErrors() {
		return nil, e.Err()
	}
	return c, nil
}

// Start registers a flight loop that ticks the clock every frame.
func (c *Clock) Start(s host.Scheduler) {
	if c.unregister != nil {
		return
	}
	c.unregister = s.RegisterFlightLoop(func(float32, float32, int) float32 {
		c.Tick()
		return -1
	}, -1)
}

func (c *Clock) Stop() {
	if c.unregister != nil {
		c.unregister()
		c.unregister = nil
	}
}

// Tick samples the running time and updates the frame delta and UTC.
func (c *Clock) Tick() {
	now := float64(c.runningTime.Float())
	c.delta = now - c.now
	c.now = now
	c.utc = simUTC(c.wallClock(), c.localDays.Int(), float64(c.localTime.Float()),
		float64(c.zuluTime.Float()))
}

// Now returns the simulator running time, in seconds, as of the last
// Tick.
func (c *Clock) Now() float64 {
	return c.now
}

// Delta returns the time elapsed between the last two ticks.
func (c *Clock) Delta() float64 {
	return c.delta
}

// UTC returns the simulated UTC time as of the last Tick.
func (c *Clock) UTC() time.Time {
	return c.utc
}

// zuluOffset returns local-zulu in whole seconds, normalized into
// (-12h, +12h). A two second fudge keeps values right at the date line
// from flipping back and forth.
func zuluOffset(localSecs, zuluSecs float64) int {
	offset := int(localSecs - zuluSecs)
	for offset >= secondsPerDay/2-2 {
		offset -= secondsPerDay
	}
	for offset <= -secondsPerDay/2+2 {
		offset += secondsPerDay
	}
	return offset
}

// simUTC reconstructs the simulated UTC from the local day of the year
// and the local and zulu times of day. The simulator has no notion of
// years or leap years, so the year is taken from the wall clock.
func simUTC(wall time.Time, localDays int, localSecs, zuluSecs float64) time.Time {
	offset := zuluOffset(localSecs, zuluSecs)
	localDaysFract := float64(localDays) + localSecs/secondsPerDay
	zuluDays := int(gomath.Floor(localDaysFract - float64(offset)/secondsPerDay))

	yearStart := time.Date(wall.UTC().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	secs := float64(yearStart.Unix()) + float64(zuluDays*secondsPerDay) + zuluSecs
	whole, frac := gomath.Modf(secs)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC()
}
