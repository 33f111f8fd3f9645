// host/simhost/simhost_test.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package simhost

import (
	"errors"
	"testing"

	"github.com/mmp/rds81/host"
)

var _ host.Host = (*Host)(nil)

func TestDataRefs(t *testing.T) {
	h := NewXPlane(t.TempDir())

	if _, err := h.FindDataRef("sim/nonexistent"); !errors.Is(err, host.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	ref, err := h.FindDataRef("sim/cockpit2/EFIS/map_range")
	if err != nil {
		t.Fatalf("%v", err)
	}
	ref.SetInt(5)
	if ref.Int() != 5 || ref.Float() != 5 {
		t.Errorf("got %d/%f, expected 5", ref.Int(), ref.Float())
	}

	tilt, _ := h.FindDataRef("sim/cockpit2/EFIS/EFIS_weather_tilt_copilot")
	tilt.SetFloat(-3.5)
	if tilt.Float() != -3.5 || tilt.Int() != -3 {
		t.Errorf("got %f/%d, expected -3.5/-3", tilt.Float(), tilt.Int())
	}

	vp, _ := h.FindDataRef("sim/graphics/view/viewport")
	var v [4]int32
	if n := vp.Ints(v[:]); n != 4 || v != [4]int32{0, 0, 1024, 660} {
		t.Errorf("got %d elements %v", n, v)
	}
	var m [16]float32
	pm, _ := h.FindDataRef("sim/graphics/view/projection_matrix")
	if n := pm.Floats(m[:]); n != 16 || m[0] != 1 || m[15] != 1 || m[1] != 0 {
		t.Errorf("unexpected projection matrix %v", m)
	}
	if n := pm.Floats(m[:4]); n != 4 {
		t.Errorf("short read returned %d elements", n)
	}
}

func TestPublish(t *testing.T) {
	h := New(t.TempDir())
	value := float32(0.25)
	ref, err := h.PublishFloat("rdr2000/tilt", func() float32 { return value }, func(v float32) { value = v })
	if err != nil {
		t.Fatalf("%v", err)
	}
	if ref.Float() != 0.25 {
		t.Errorf("got %f, expected 0.25", ref.Float())
	}
	ref.SetFloat(3)
	if value != 3 {
		t.Errorf("setter not called, value %f", value)
	}

	ro, err := h.PublishInt("rdr2000/mode", func() int { return 2 }, nil)
	if err != nil {
		t.Fatalf("%v", err)
	}
	ro.SetInt(7)
	if ro.Int() != 2 {
		t.Errorf("read-only dataref changed to %d", ro.Int())
	}

	if _, err := h.PublishInt("rdr2000/mode", nil, nil); !errors.Is(err, host.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	h.Unpublish(ro)
	if _, err := h.FindDataRef("rdr2000/mode"); err == nil {
		t.Errorf("dataref still present after Unpublish")
	}
}

func TestCommands(t *testing.T) {
	h := New(t.TempDir())
	cmd := h.CreateCommand("rdr2000/range_up", "Range up")
	if again := h.CreateCommand("rdr2000/range_up", "dup"); again != cmd {
		t.Errorf("CreateCommand returned a new command for an existing name")
	}

	var phases []host.Phase
	unregister := h.RegisterCommandHandler(cmd, func(c host.Command, p host.Phase) bool {
		phases = append(phases, p)
		return true
	})

	h.CommandBegin(cmd)
	if got := h.ActiveCommands(); len(got) != 1 || got[0] != "rdr2000/range_up" {
		t.Errorf("unexpected active commands %v", got)
	}
	h.Continue()
	h.CommandEnd(cmd)
	h.CommandEnd(cmd) // ignored; not active
	h.CommandOnce(cmd)

	expected := []host.Phase{host.PhaseBegin, host.PhaseContinue, host.PhaseEnd, host.PhaseBegin, host.PhaseEnd}
	if len(phases) != len(expected) {
		t.Fatalf("got phases %v, expected %v", phases, expected)
	}
	for i := range phases {
		if phases[i] != expected[i] {
			t.Errorf("phase %d: got %s, expected %s", i, phases[i], expected[i])
		}
	}

	unregister()
	if n := h.NumHandlers("rdr2000/range_up"); n != 0 {
		t.Errorf("%d handlers left after unregister", n)
	}
	h.CommandOnce(cmd)
	if len(phases) != len(expected) {
		t.Errorf("handler called after unregister")
	}
}

func TestHandlerChain(t *testing.T) {
	h := New(t.TempDir())
	cmd := h.CreateCommand("c", "")
	var calls []string
	h.RegisterCommandHandler(cmd, func(host.Command, host.Phase) bool { calls = append(calls, "a"); return false })
	h.RegisterCommandHandler(cmd, func(host.Command, host.Phase) bool { calls = append(calls, "b"); return true })
	h.CommandBegin(cmd)
	if len(calls) != 1 || calls[0] != "a" {
		t.Errorf("handler returning false should stop dispatch, got %v", calls)
	}
}

func TestFlightLoops(t *testing.T) {
	h := NewXPlane(t.TempDir())

	everyFrame, once, timed := 0, 0, 0
	h.RegisterFlightLoop(func(float32, float32, int) float32 { everyFrame++; return -1 }, -1)
	h.RegisterFlightLoop(func(float32, float32, int) float32 { once++; return 0 }, -1)
	stop := h.RegisterFlightLoop(func(float32, float32, int) float32 { timed++; return 0.5 }, 0.5)

	for i := 0; i < 8; i++ {
		h.Advance(0.125)
	}
	if everyFrame != 8 {
		t.Errorf("every-frame loop ran %d times, expected 8", everyFrame)
	}
	if once != 1 {
		t.Errorf("one-shot loop ran %d times, expected 1", once)
	}
	if timed != 2 {
		t.Errorf("timed loop ran %d times, expected 2", timed)
	}

	stop()
	h.Advance(1)
	if timed != 2 {
		t.Errorf("unregistered loop still running")
	}
	if n := h.NumFlightLoops(); n != 1 {
		t.Errorf("got %d live flight loops, expected 1", n)
	}

	rt, _ := h.FindDataRef("sim/time/total_running_time_sec")
	if d := rt.Float() - 2; d > 1e-4 || d < -1e-4 {
		t.Errorf("running time %f, expected 2", rt.Float())
	}
}

type nopCallbacks struct{ draws int }

func (n *nopCallbacks) DrawBezel(r, g, b float32)                 { n.draws++ }
func (n *nopCallbacks) DrawScreen()                               { n.draws++ }
func (n *nopCallbacks) Click(x, y int, s host.MouseStatus) bool   { return false }
func (n *nopCallbacks) Scroll(x, y, wheel, clicks int) bool       { return false }
func (n *nopCallbacks) Cursor(x, y int) host.CursorStatus         { return host.CursorDefault }
func (n *nopCallbacks) Brightness(rheo, amb, bus float32) float32 { return 1 }

func TestAvionics(t *testing.T) {
	h := New(t.TempDir())
	cb := &nopCallbacks{}
	desc := host.AvionicsDesc{DeviceID: "RDS81", ScreenWidth: 640, ScreenHeight: 480}
	av, err := h.CreateAvionics(desc, cb)
	if err != nil {
		t.Fatalf("%v", err)
	}
	if _, err := h.CreateAvionics(desc, cb); !errors.Is(err, host.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists for duplicate device, got %v", err)
	}
	if _, err := h.CreateAvionics(host.AvionicsDesc{}, cb); !errors.Is(err, host.ErrDeviceCreation) {
		t.Errorf("expected ErrDeviceCreation, got %v", err)
	}

	h.Draw()
	if cb.draws != 2 {
		t.Errorf("got %d draw calls, expected 2", cb.draws)
	}

	av.SetPopupVisible(true)
	if !av.PopupVisible() {
		t.Errorf("popup not visible")
	}
	av.Destroy()
	h.Draw()
	if cb.draws != 2 {
		t.Errorf("destroyed device was drawn")
	}
	if n := len(h.LiveAvionics()); n != 0 {
		t.Errorf("%d live devices after Destroy", n)
	}
}

func TestPlaceholderCursor(t *testing.T) {
	h := New(t.TempDir())
	c, err := h.LoadCursor("/x/resources/cursor_click.png")
	if err != nil {
		t.Fatalf("%v", err)
	}
	c.Activate()
	if h.ActiveCursor != "cursor_click.png" {
		t.Errorf("got active cursor %q", h.ActiveCursor)
	}
	c.Release()
	if h.ActiveCursor != "" {
		t.Errorf("cursor still active after Release")
	}
}
