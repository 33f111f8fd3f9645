// host/simhost/commands.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package simhost

import (
	"fmt"
	"slices"
	"sort"

	"github.com/mmp/rds81/host"
)

type Command struct {
	name        string
	description string
	handlers    []*handler
	active      bool

	Begins, Ends int
}

type handler struct {
	fn      host.CommandHandler
	removed bool
}

func (c *Command) Name() string        { return c.name }
func (c *Command) Description() string { return c.description }

// Active reports whether the command has begun and not yet ended.
func (c *Command) Active() bool { return c.active }

func (c *Command) dispatch(phase host.Phase) {
	for _, h := range slices.Clone(c.handlers) {
		if h.removed {
			continue
		}
		if !h.fn(c, phase) {
			break
		}
	}
}

func (h *Host) CreateCommand(name, description string) host.Command {
	if c, ok := h.commands[name]; ok {
		return c
	}
	c := &Command{name: name, description: description}
	h.commands[name] = c
	return c
}

func (h *Host) FindCommand(name string) (host.Command, error) {
	if c, ok := h.commands[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%s: %w", name, host.ErrNotFound)
}

// Command returns the named command or nil.
func (h *Host) Command(name string) *Command {
	return h.commands[name]
}

// ActiveCommands returns the sorted names of commands that are currently
// held down.
func (h *Host) ActiveCommands() []string {
	var active []string
	for name, c := range h.commands {
		if c.active {
			active = append(active, name)
		}
	}
	sort.Strings(active)
	return active
}

func (h *Host) RegisterCommandHandler(cmd host.Command, fn host.CommandHandler) func() {
	c, ok := cmd.(*Command)
	if !ok {
		return func() {}
	}
	hd := &handler{fn: fn}
	c.handlers = append(c.handlers, hd)
	return func() {
		hd.removed = true
		c.handlers = slices.DeleteFunc(c.handlers, func(h *handler) bool { return h.removed })
	}
}

// NumHandlers returns the number of handlers registered for the named
// command.
func (h *Host) NumHandlers(name string) int {
	if c, ok := h.commands[name]; ok {
		return len(c.handlers)
	}
	return 0
}

func (h *Host) CommandBegin(cmd host.Command) {
	if c, ok := cmd.(*Command); ok {
		c.active = true
		c.Begins++
		c.dispatch(host.PhaseBegin)
	}
}

func (h *Host) CommandEnd(cmd host.Command) {
	if c, ok := cmd.(*Command); ok && c.active {
		c.active = false
		c.Ends++
		c.dispatch(host.PhaseEnd)
	}
}

func (h *Host) CommandOnce(cmd host.Command) {
	h.CommandBegin(cmd)
	h.CommandEnd(cmd)
}

// Continue delivers a continue phase to a held command, as the simulator
// does every frame while a command is held.
func (h *Host) Continue() {
	for _, c := range h.commands {
		if c.active {
			c.dispatch(host.PhaseContinue)
		}
	}
}
