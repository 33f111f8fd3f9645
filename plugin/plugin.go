// plugin/plugin.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package plugin ties the instrument to the simulator's plugin
// lifecycle: start, enable, disable, stop and inter-plugin messages.
// The simulator-specific entry points call into a Plugin; everything
// else is reached through package host.
package plugin

import (
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/mmp/rds81/host"
	"github.com/mmp/rds81/log"
	"github.com/mmp/rds81/rds81"
	"github.com/mmp/rds81/simtime"

	"github.com/goforj/godump"
)

const (
	Name        = "RDS-81 Weather Radar"
	Signature   = "rdr2000.rds81"
	Description = "RDS-81 indicator for the RDR-2000 weather radar"

	CmdReloadShaders = "rdr2000/reload_shaders"
	CmdDumpState     = "rdr2000/dump_state"
)

// Directories the simulator's per-platform plugin binaries live in,
// below the plugin's own directory.
var binaryDirs = []string{"32", "64", "win_x64", "mac_x64", "lin_x64"}

type Plugin struct {
	h           host.Host
	Config      Config
	lg          *log.Logger
	root        string
	aircraftDir string

	out   *rds81.Outputs
	clock *simtime.Clock
	inst  *rds81.Instrument

	unregisterLoop func()
	unregister     []func()

	// create makes the instrument; tests replace it to avoid OpenGL.
	create func(host.Host, *rds81.Outputs, rds81.Options, *log.Logger) (*rds81.Instrument, error)
}

// Start loads the configuration, starts logging and declares the
// instrument's commands and datarefs. The instrument itself is created
// once the plugin is enabled and the aircraft has a weather radar.
func Start(h host.Host) (*Plugin, error) {
	root := pluginRoot(h.PluginPath())
	c, err := LoadConfig(root)
	return start(h, root, c, err)
}

// StartWithConfig is Start with c used in place of the configuration
// file; invalid values in c are replaced with their defaults.
func StartWithConfig(h host.Host, c Config) (*Plugin, error) {
	root := pluginRoot(h.PluginPath())
	err := c.validate(root)
	return start(h, root, c, err)
}

func start(h host.Host, root string, c Config, cerr error) (*Plugin, error) {
	p := &Plugin{h: h, root: root, Config: c, create: rds81.New}

	p.lg = log.New(p.Config.LogLevel, p.Config.LogDir, host.DebugWriter{Host: h})
	if cerr != nil {
		p.lg.Warnf("%v", cerr)
	}
	p.lg.Info("starting", slog.String("root", p.root), slog.Any("config", p.Config))
	p.resolvePaths()

	var err error
	if p.out, err = rds81.NewOutputs(h, p.lg); err != nil {
		p.lg.Errorf("%v", err)
		return nil, err
	}
	if p.clock, err = simtime.New(h); err != nil {
		p.lg.Errorf("%v", err)
		p.out.Destroy()
		return nil, err
	}
	p.clock.Start(h)

	if p.Config.DebugShaders {
		p.registerDebugCommands()
	}
	return p, nil
}

// pluginRoot returns the plugin's directory given the path of its
// binary, skipping over the per-platform binary directory if there is
// one.
func pluginRoot(binary string) string {
	dir := filepath.Dir(binary)
	if slices.Contains(binaryDirs, filepath.Base(dir)) {
		dir = filepath.Dir(dir)
	}
	return dir
}

func (p *Plugin) resolvePaths() {
	p.aircraftDir = p.h.AircraftDir()
	p.lg.Debugf("aircraft directory %q", p.aircraftDir)
}

func (p *Plugin) ResourceDir() string {
	return filepath.Join(p.root, "resources")
}

// Enable schedules creation of the instrument. Until an aircraft with a
// weather radar is loaded, creation is retried every frame.
func (p *Plugin) Enable() {
	if p.unregisterLoop != nil || p.inst != nil {
		return
	}
	p.unregisterLoop = p.h.RegisterFlightLoop(func(float32, float32, int) float32 {
		// Returning 0 deactivates the loop; Disable unregisters it.
		if p.tryCreate() {
			return 0
		}
		return -1
	}, -1)
}

// tryCreate reports whether the flight loop is done, either because the
// instrument was created or because creating it failed for good.
func (p *Plugin) tryCreate() bool {
	side := FindBestSide(p.h)
	if side == host.SideNone {
		return false
	}

	inst, err := p.create(p.h, p.out, rds81.Options{
		Side:        side,
		ResourceDir: p.ResourceDir(),
		SweepSpeed:  p.Config.SweepSpeed,
		Clock:       p.clock,
	}, p.lg)
	if err != nil {
		p.lg.Errorf("unable to create instrument: %v", err)
		return true
	}
	p.inst = inst
	return true
}

// FindBestSide returns the cockpit side whose weather radar the
// instrument should display: the copilot's if the aircraft has one,
// then the pilot's.
func FindBestSide(d host.Devices) host.Side {
	for _, side := range []host.Side{host.SideCopilot, host.SidePilot} {
		if d.RadarTexture(side) != 0 {
			return side
		}
	}
	return host.SideNone
}

// Disable destroys the instrument. The commands and datarefs stay
// declared so that Enable can bring it back.
func (p *Plugin) Disable() {
	if p.unregisterLoop != nil {
		p.unregisterLoop()
		p.unregisterLoop = nil
	}
	if p.inst != nil {
		p.inst.Destroy()
		p.inst = nil
	}
}

func (p *Plugin) Stop() {
	p.Disable()
	for i := len(p.unregister) - 1; i >= 0; i-- {
		p.unregister[i]()
	}
	p.unregister = nil
	p.clock.Stop()
	p.out.Destroy()
	p.lg.Info("stopped")
}

// ReceiveMessage handles messages from the simulator. A newly loaded
// user aircraft may have a different radar, so the instrument is
// rebuilt for it.
func (p *Plugin) ReceiveMessage(msg host.Message, param int) {
	if msg != host.MsgPlaneLoaded || param != 0 {
		return
	}
	p.resolvePaths()
	if p.inst != nil || p.unregisterLoop != nil {
		p.Disable()
	}
	p.Enable()
}

func (p *Plugin) Instrument() *rds81.Instrument { return p.inst }
func (p *Plugin) Outputs() *rds81.Outputs       { return p.out }
func (p *Plugin) Logger() *log.Logger           { return p.lg }
func (p *Plugin) AircraftDir() string           { return p.aircraftDir }

func (p *Plugin) registerDebugCommands() {
	on := func(name, desc string, fn func()) {
		cmd := p.h.CreateCommand(name, desc)
		p.unregister = append(p.unregister, p.h.RegisterCommandHandler(cmd,
			func(_ host.Command, phase host.Phase) bool {
				if phase == host.PhaseBegin {
					fn()
				}
				return false
			}))
	}

	on(CmdReloadShaders, "Reload the weather radar shaders", func() {
		if p.inst != nil {
			p.inst.ReloadShaders()
		}
	})
	on(CmdDumpState, "Log the weather radar state", func() {
		p.lg.Info(p.DumpState())
	})
}

// DumpState returns a human-readable description of the instrument's
// state.
func (p *Plugin) DumpState() string {
	if p.inst == nil {
		return "no instrument\n" + godump.DumpStr(p.out.Mode.String(), p.out.Gain, p.out.Tilt, p.out.Brightness)
	}
	return godump.DumpStr(p.inst.State())
}
