// rds81/shaders.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package rds81

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mmp/rds81/log"
	"github.com/mmp/rds81/renderer"
)

//go:embed shaders/*
var embeddedShaders embed.FS

const (
	progCopy    = "wxr_copy"
	progScreen  = "rdr_screen"
	progAntenna = "wxr_antenna"
	progTest    = "wxr_test"
)

var programNames = [...]string{progCopy, progScreen, progAntenna, progTest}

// readShader returns the source of a shader file. A file in the
// resource directory's shaders/ folder takes precedence over the
// built-in one so that shaders can be edited while the simulator runs.
func readShader(resourceDir, file string) (string, error) {
	if resourceDir != "" {
		b, err := os.ReadFile(filepath.Join(resourceDir, "shaders", file))
		if err == nil {
			return string(b), nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	b, err := embeddedShaders.ReadFile("shaders/" + file)
	return string(b), err
}

// loadProgram compiles the program with the given name. Programs that
// have no vertex shader of their own use quad.vert.
func loadProgram(resourceDir, name string, lg *log.Logger) *renderer.Program {
	vert, err := readShader(resourceDir, name+".vert")
	if errors.Is(err, fs.ErrNotExist) {
		vert, err = readShader(resourceDir, "quad.vert")
	}
	if err != nil {
		lg.Errorf("%s: %v", name, err)
		return nil
	}
	frag, err := readShader(resourceDir, name+".frag")
	if err != nil {
		lg.Errorf("%s: %v", name, err)
		return nil
	}
	return renderer.NewProgram(name, vert, frag, lg)
}

func loadPrograms(resourceDir string, lg *log.Logger) map[string]*renderer.Program {
	progs := make(map[string]*renderer.Program)
	for _, name := range programNames {
		if p := loadProgram(resourceDir, name, lg); p != nil {
			progs[name] = p
		}
	}
	return progs
}
