// plugin/config.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mmp/rds81/log"
	"github.com/mmp/rds81/rds81"
)

const ConfigFile = "rds81.json"

// Config holds the user-editable settings, read from ConfigFile in the
// plugin directory. Fields missing from the file keep their defaults.
type Config struct {
	LogLevel string
	// LogDir defaults to the plugin directory.
	LogDir string
	// DebugShaders adds the shader reload and state dump commands.
	DebugShaders bool
	// SweepSpeed is the antenna speed in degrees per second.
	SweepSpeed float32
}

func DefaultConfig(root string) Config {
	return Config{
		LogLevel:   "info",
		LogDir:     root,
		SweepSpeed: rds81.DefaultSweepSpeed,
	}
}

// LoadConfig reads the configuration in root. A missing file is not an
// error. For any other problem, the returned Config holds the defaults
// for the values that could not be used and the error describes what
// was wrong.
func LoadConfig(root string) (Config, error) {
	c := DefaultConfig(root)

	path := filepath.Join(root, ConfigFile)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	} else if err != nil {
		return c, err
	}
	defer f.Close()

	if err := c.decode(f); err != nil {
		return DefaultConfig(root), fmt.Errorf("%s: %w", path, err)
	}
	return c, c.validate(root)
}

func (c *Config) decode(r io.Reader) error {
	return json.NewDecoder(r).Decode(c)
}

// validate replaces invalid values with their defaults, returning an
// error describing them.
func (c *Config) validate(root string) error {
	def := DefaultConfig(root)
	var errs []error

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
		c.LogLevel = def.LogLevel
	}
	if c.LogDir == "" {
		c.LogDir = def.LogDir
	}
	if c.SweepSpeed <= 0 {
		errs = append(errs, fmt.Errorf("%f: invalid sweep speed", c.SweepSpeed))
		c.SweepSpeed = def.SweepSpeed
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s: %w", ConfigFile, errors.Join(errs...))
	}
	return nil
}

func (c *Config) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(c)
}
