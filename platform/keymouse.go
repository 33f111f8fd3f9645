// platform/keymouse.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package platform

import "github.com/go-gl/glfw/v3.3/glfw"

// MouseState is the state of the mouse as of the last call to
// ProcessEvents. Positions are in framebuffer pixels with the origin at
// the lower left, matching OpenGL's window coordinates.
type MouseState struct {
	Pos      [2]float32
	Down     bool
	Clicked  bool
	Released bool
	// Wheel accumulates vertical scroll clicks since the previous frame.
	Wheel int
}

// KeyboardState records the keys pressed since the previous frame. A key
// shows up once each time it is pressed (more often if key repeat kicks
// in).
type KeyboardState struct {
	Pressed map[glfw.Key]interface{}
}

func (k *KeyboardState) WasPressed(key glfw.Key) bool {
	_, ok := k.Pressed[key]
	return ok
}
