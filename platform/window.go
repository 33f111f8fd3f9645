// platform/window.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package platform provides the GLFW window that the bench harness hosts
// the instrument in. The window's OpenGL context stands in for the
// simulator's; the plugin itself never uses this package.
package platform

import (
	"fmt"

	"github.com/mmp/rds81/log"

	"github.com/go-gl/glfw/v3.3/glfw"
)

type Window struct {
	window *glfw.Window
	lg     *log.Logger

	cursorOverride *glfw.Cursor
	currentCursor  *glfw.Cursor

	mouse    MouseState
	keyboard KeyboardState
	wheel    float64
}

type Config struct {
	Title       string
	InitialSize [2]int
	EnableMSAA  bool
}

// New opens a window with a current OpenGL 3.2 compatibility context.
// It must be called from the main thread.
func New(config Config, lg *log.Logger) (*Window, error) {
	lg.Info("Starting GLFW initialization")
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}
	lg.Infof("GLFW: %s", glfw.GetVersionString())

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 2)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCompatProfile)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	if config.EnableMSAA {
		glfw.WindowHint(glfw.Samples, 4)
	}

	if config.InitialSize[0] == 0 || config.InitialSize[1] == 0 {
		config.InitialSize = [2]int{1024, 660}
	}
	if config.Title == "" {
		config.Title = "rds81"
	}

	window, err := glfw.CreateWindow(config.InitialSize[0], config.InitialSize[1], config.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	w := &Window{
		window:   window,
		lg:       lg,
		keyboard: KeyboardState{Pressed: make(map[glfw.Key]interface{})},
	}
	window.SetMouseButtonCallback(w.mouseButtonChange)
	window.SetScrollCallback(w.mouseScrollChange)
	window.SetKeyCallback(w.keyChange)

	lg.Info("Finished GLFW initialization")
	return w, nil
}

func (w *Window) Dispose() {
	w.window.Destroy()
	glfw.Terminate()
}

func (w *Window) ShouldStop() bool {
	return w.window.ShouldClose()
}

func (w *Window) SetShouldStop() {
	w.window.SetShouldClose(true)
}

// ProcessEvents polls for input and updates the mouse and keyboard
// state returned by Mouse and Keyboard.
func (w *Window) ProcessEvents() {
	w.mouse.Clicked, w.mouse.Released = false, false
	w.mouse.Wheel = 0
	clear(w.keyboard.Pressed)

	glfw.PollEvents()

	x, y := w.window.GetCursorPos()
	// Convert from window coordinates, origin at upper left, to
	// framebuffer coordinates with the origin at the lower left.
	ww, wh := w.window.GetSize()
	fw, fh := w.window.GetFramebufferSize()
	sx, sy := float64(fw)/float64(max(ww, 1)), float64(fh)/float64(max(wh, 1))
	w.mouse.Pos = [2]float32{float32(x * sx), float32(float64(fh) - y*sy)}

	w.mouse.Down = w.window.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press

	w.mouse.Wheel = int(w.wheel)
	w.wheel -= float64(w.mouse.Wheel)
}

func (w *Window) Mouse() MouseState {
	return w.mouse
}

func (w *Window) Keyboard() *KeyboardState {
	return &w.keyboard
}

func (w *Window) FramebufferSize() [2]int {
	fw, fh := w.window.GetFramebufferSize()
	return [2]int{fw, fh}
}

func (w *Window) SetWindowTitle(title string) {
	w.window.SetTitle(title)
}

// PostRender updates the cursor and presents the frame. Cursor overrides
// only last one frame.
func (w *Window) PostRender() {
	if w.cursorOverride != w.currentCursor {
		w.window.SetCursor(w.cursorOverride)
		w.currentCursor = w.cursorOverride
	}
	w.cursorOverride = nil

	w.window.SwapBuffers()
}

func (w *Window) mouseButtonChange(window *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}
	switch action {
	case glfw.Press:
		w.mouse.Clicked = true
	case glfw.Release:
		w.mouse.Released = true
	}
}

func (w *Window) mouseScrollChange(window *glfw.Window, x, y float64) {
	w.wheel += y
}

func (w *Window) keyChange(window *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Press || action == glfw.Repeat {
		w.keyboard.Pressed[key] = nil
	}
}
