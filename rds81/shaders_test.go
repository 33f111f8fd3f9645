// rds81/shaders_test.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package rds81

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedShaders(t *testing.T) {
	for _, name := range append(programNames[:], "quad") {
		file := name + ".frag"
		if name == "quad" {
			file = name + ".vert"
		}
		src, err := readShader("", file)
		if err != nil {
			t.Errorf("%s: %v", file, err)
			continue
		}
		if !strings.HasPrefix(src, "#version 120") {
			t.Errorf("%s: missing #version", file)
		}
	}
}

func TestShaderOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "shaders"), 0o755); err != nil {
		t.Fatal(err)
	}
	override := "#version 120\nvoid main() { gl_FragColor = vec4(1.0); }\n"
	if err := os.WriteFile(filepath.Join(dir, "shaders", "wxr_copy.frag"), []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}

	if src, err := readShader(dir, "wxr_copy.frag"); err != nil || src != override {
		t.Errorf("override not used: %q, %v", src, err)
	}
	// Files that are not overridden come from the binary.
	if src, err := readShader(dir, "wxr_test.frag"); err != nil || !strings.Contains(src, "ant_lim") {
		t.Errorf("embedded shader not used: %v", err)
	}
	if _, err := readShader(dir, "wxr_copy.vert"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}
