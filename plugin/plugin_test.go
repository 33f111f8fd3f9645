// plugin/plugin_test.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plugin

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/mmp/rds81/host"
	"github.com/mmp/rds81/host/simhost"
	"github.com/mmp/rds81/log"
	"github.com/mmp/rds81/rds81"
)

func TestPluginRoot(t *testing.T) {
	for _, test := range []struct {
		binary, expected string
	}{
		{"/xp/Resources/plugins/rds81/64/lin.xpl", "/xp/Resources/plugins/rds81"},
		{"/xp/Resources/plugins/rds81/lin_x64/rds81.xpl", "/xp/Resources/plugins/rds81"},
		{"/xp/Aircraft/C90/plugins/rds81/win_x64/rds81.xpl", "/xp/Aircraft/C90/plugins/rds81"},
		{"/xp/Resources/plugins/rds81/rds81.xpl", "/xp/Resources/plugins/rds81"},
	} {
		binary := filepath.FromSlash(test.binary)
		if r := pluginRoot(binary); r != filepath.FromSlash(test.expected) {
			t.Errorf("pluginRoot(%q) = %q, expected %q", binary, r, test.expected)
		}
	}
}

func writeConfig(t *testing.T, dir, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	c, err := LoadConfig(dir)
	if err != nil || c != DefaultConfig(dir) {
		t.Errorf("missing file: got %+v, %v", c, err)
	}

	writeConfig(t, dir, `{"LogLevel": "debug", "SweepSpeed": 30}`)
	c, err = LoadConfig(dir)
	if err != nil {
		t.Errorf("%v", err)
	}
	if c.LogLevel != "debug" || c.SweepSpeed != 30 || c.LogDir != dir || c.DebugShaders {
		t.Errorf("partial file: got %+v", c)
	}

	writeConfig(t, dir, `{"LogLevel": "chatty", "SweepSpeed": -1, "DebugShaders": true}`)
	c, err = LoadConfig(dir)
	if err == nil {
		t.Errorf("expected an error for invalid values")
	}
	if c.LogLevel != "info" || c.SweepSpeed != rds81.DefaultSweepSpeed || !c.DebugShaders {
		t.Errorf("invalid values: got %+v", c)
	}

	writeConfig(t, dir, `{"LogLevel": `)
	c, err = LoadConfig(dir)
	if err == nil || c != DefaultConfig(dir) {
		t.Errorf("truncated file: got %+v, %v", c, err)
	}
}

func TestFindBestSide(t *testing.T) {
	h := simhost.New(t.TempDir())
	if s := FindBestSide(h); s != host.SideNone {
		t.Errorf("no radar: got %s", s)
	}
	h.SetRadarTexture(host.SidePilot, 7)
	if s := FindBestSide(h); s != host.SidePilot {
		t.Errorf("pilot radar: got %s", s)
	}
	h.SetRadarTexture(host.SideCopilot, 8)
	if s := FindBestSide(h); s != host.SideCopilot {
		t.Errorf("both radars: got %s", s)
	}
}

// startTest starts a plugin whose instrument creation is recorded and
// always fails, since creating a real one requires OpenGL.
func startTest(t *testing.T, config string) (*simhost.Host, *Plugin, *[]rds81.Options) {
	t.Helper()

	dir := t.TempDir()
	if config != "" {
		writeConfig(t, dir, config)
	}
	h := simhost.NewXPlane(dir)
	p, err := Start(h)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	var created []rds81.Options
	p.create = func(_ host.Host, _ *rds81.Outputs, opts rds81.Options, _ *log.Logger) (*rds81.Instrument, error) {
		created = append(created, opts)
		return nil, errors.New("no OpenGL")
	}
	return h, p, &created
}

func TestEnable(t *testing.T) {
	h, p, created := startTest(t, "")
	p.Enable()

	for range 3 {
		h.Advance(0.1)
	}
	if len(*created) != 0 {
		t.Errorf("instrument created without a radar")
	}

	h.SetRadarTexture(host.SidePilot, 3)
	h.Advance(0.1)
	if len(*created) != 1 {
		t.Fatalf("%d creation attempts", len(*created))
	}
	opts := (*created)[0]
	if opts.Side != host.SidePilot || opts.SweepSpeed != rds81.DefaultSweepSpeed || opts.Clock == nil {
		t.Errorf("unexpected options %+v", opts)
	}
	if opts.ResourceDir != filepath.Join(p.root, "resources") {
		t.Errorf("resource dir %q", opts.ResourceDir)
	}

	// A failed creation is not retried every frame...
	h.Advance(0.1)
	if len(*created) != 1 {
		t.Errorf("creation retried after failing")
	}
	if p.Instrument() != nil {
		t.Errorf("failed instrument was kept")
	}

	// ...but a newly loaded aircraft gets another try.
	h.SetRadarTexture(host.SideCopilot, 4)
	p.ReceiveMessage(host.MsgPlaneLoaded, 1) // not the user's aircraft
	h.Advance(0.1)
	if len(*created) != 1 {
		t.Errorf("creation retried for another aircraft")
	}
	p.ReceiveMessage(host.MsgPlaneLoaded, 0)
	h.Advance(0.1)
	if len(*created) != 2 || (*created)[1].Side != host.SideCopilot {
		t.Errorf("creation attempts %+v", *created)
	}

	if !slices.ContainsFunc(h.Messages, func(m string) bool { return strings.Contains(m, "unable to create") }) {
		t.Errorf("creation failure not in the simulator log")
	}
}

func TestDebugCommands(t *testing.T) {
	h, p, _ := startTest(t, "")
	if h.Command(CmdDumpState) != nil {
		t.Errorf("debug commands declared without DebugShaders")
	}
	p.Stop()

	h, p, _ = startTest(t, `{"DebugShaders": true}`)
	cmd := h.Command(CmdDumpState)
	if cmd == nil {
		t.Fatalf("no %s command", CmdDumpState)
	}
	h.CommandOnce(cmd)
	h.CommandOnce(h.Command(CmdReloadShaders)) // no instrument; must not crash
	if !slices.ContainsFunc(h.Messages, func(m string) bool { return strings.Contains(m, "no instrument") }) {
		t.Errorf("state dump not logged")
	}
	if s := p.DumpState(); !strings.HasPrefix(s, "no instrument") {
		t.Errorf("state dump %q", s)
	}

	p.Stop()
	if n := h.NumHandlers(CmdDumpState); n != 0 {
		t.Errorf("%d handlers left after Stop", n)
	}
}

func TestStop(t *testing.T) {
	h, p, _ := startTest(t, "")
	if h.DataRef(rds81.ModeDataRef) == nil {
		t.Fatalf("%s not published", rds81.ModeDataRef)
	}
	p.Enable()
	if n := h.NumFlightLoops(); n != 2 {
		t.Errorf("%d flight loops, expected clock and creation", n)
	}

	p.Stop()
	if h.DataRef(rds81.ModeDataRef) != nil {
		t.Errorf("%s still published", rds81.ModeDataRef)
	}
	if n := h.NumFlightLoops(); n != 0 {
		t.Errorf("%d flight loops after Stop", n)
	}
	// Commands cannot be deleted from the simulator.
	if h.Command(rds81.CmdOn) == nil {
		t.Errorf("%s was deleted", rds81.CmdOn)
	}
}

func TestStartWithConfig(t *testing.T) {
	h := simhost.NewXPlane(t.TempDir())
	p, err := StartWithConfig(h, Config{LogLevel: "debug", SweepSpeed: -3})
	if err != nil {
		t.Fatalf("StartWithConfig: %v", err)
	}
	defer p.Stop()

	if p.Config.SweepSpeed != rds81.DefaultSweepSpeed || p.Config.LogDir != p.root || p.Config.LogLevel != "debug" {
		t.Errorf("config not validated: %+v", p.Config)
	}
}
