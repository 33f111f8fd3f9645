// rds81/datarefs.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package rds81

import (
	"fmt"

	"github.com/mmp/rds81/host"
	"github.com/mmp/rds81/util"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	projectionMatrixDataRef = "sim/graphics/view/projection_matrix"
	modelviewMatrixDataRef  = "sim/graphics/view/modelview_matrix"
	currentFBODataRef       = "sim/graphics/view/current_gl_fbo"
	viewportDataRef         = "sim/graphics/view/viewport"
	avionicsPowerDataRef    = "sim/cockpit2/switches/avionics_power_on"

	efisPrefix = "sim/cockpit2/EFIS/"
)

// hostRefs holds the simulator datarefs the instrument reads and forces
// each frame. All are required except vertical, which only exists in
// some simulator versions.
type hostRefs struct {
	projection, modelview host.DataRef
	fbo, viewport         host.DataRef
	avionicsPower         host.DataRef

	mode         host.DataRef
	tilt         host.DataRef
	tiltAntenna  host.DataRef
	autoTilt     host.DataRef
	gain         host.DataRef
	stab         host.DataRef
	gcs          host.DataRef
	pws          host.DataRef
	multiscan    host.DataRef
	vertical     host.DataRef
	sectorBrg    host.DataRef
	sectorWidth  host.DataRef
	antennaLimit host.DataRef
	rangeIndex   host.DataRef
	rangeNM      host.DataRef
}

// findHostRefs resolves the datarefs for the given side of the cockpit.
// The returned error lists every required dataref that is missing.
func findHostRefs(t host.Telemetry, side host.Side) (hostRefs, error) {
	var e util.ErrorLogger
	e.Push("datarefs")
	defer e.Pop()

	find := func(name string) host.DataRef {
		ref, err := t.FindDataRef(name)
		if err != nil {
			e.Error(err)
		}
		return ref
	}
	sfx := side.Suffix()
	efis := func(name string) host.DataRef {
		return find(efisPrefix + name + sfx)
	}

	r := hostRefs{
		projection:    find(projectionMatrixDataRef),
		modelview:     find(modelviewMatrixDataRef),
		fbo:           find(currentFBODataRef),
		viewport:      find(viewportDataRef),
		avionicsPower: find(avionicsPowerDataRef),

		mode:        efis("EFIS_weather_mode"),
		tilt:        efis("EFIS_weather_tilt"),
		tiltAntenna: efis("EFIS_weather_tilt_antenna"),
		autoTilt:    efis("EFIS_weather_auto_tilt"),
		gain:        efis("EFIS_weather_gain"),
		stab:        efis("EFIS_weather_stab"),
		gcs:         efis("EFIS_weather_gcs"),
		multiscan:   efis("EFIS_weather_multiscan"),
		rangeIndex:  efis("map_range"),
		rangeNM:     efis("map_range_nm"),

		// These are shared by both sides.
		pws:          find(efisPrefix + "EFIS_weather_pws"),
		sectorBrg:    find(efisPrefix + "EFIS_weather_sector_brg"),
		sectorWidth:  find(efisPrefix + "EFIS_weather_sector_width"),
		antennaLimit: find(efisPrefix + "EFIS_weather_antenna_limit"),
	}
	r.vertical, _ = t.FindDataRef(efisPrefix + "EFIS_weather_vertical" + sfx)

	if e.HaveErrors() {
		return hostRefs{}, fmt.Errorf("%s radar: %w", side, e.Err())
	}
	return r, nil
}

// force sets the datarefs that must hold fixed values while the
// instrument is attached, so the simulator's radar does not drift into
// configurations the unit cannot display.
func (r *hostRefs) force(sweepLimit float32) {
	r.sectorBrg.SetFloat(0)
	r.sectorWidth.SetFloat(sweepLimit)
	r.antennaLimit.SetFloat(sweepLimit)
	r.disableFeatures()
}

// reset returns the simulator's radar to its defaults.
func (r *hostRefs) reset() {
	r.mode.SetInt(int(HostRadarOff))
	r.stab.SetInt(1)
	r.sectorBrg.SetFloat(0)
	r.sectorWidth.SetFloat(90)
	r.antennaLimit.SetFloat(90)
	r.disableFeatures()
}

func (r *hostRefs) disableFeatures() {
	r.autoTilt.SetInt(0)
	r.gcs.SetInt(0)
	r.pws.SetInt(0)
	r.multiscan.SetInt(0)
	if r.vertical != nil {
		r.vertical.SetInt(0)
	}
}

// pvm returns the host's current projection * modelview matrix.
func (r *hostRefs) pvm() mgl32.Mat4 {
	var proj, mv mgl32.Mat4
	r.projection.Floats(proj[:])
	r.modelview.Floats(mv[:])
	return proj.Mul4(mv)
}

func (r *hostRefs) hostFramebuffer() (uint32, [4]int32) {
	var vp [4]int32
	r.viewport.Ints(vp[:])
	return uint32(r.fbo.Int()), vp
}
