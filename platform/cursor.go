// platform/cursor.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package platform

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
	"os"

	"github.com/mmp/rds81/host"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Cursor is a platform cursor handle created from an image file. It
// implements host.Cursor for the bench, where the Window plays the part
// of the simulator.
type Cursor struct {
	cursor *glfw.Cursor
	w      *Window
}

var _ host.Cursor = (*Cursor)(nil)

// LoadCursor creates a cursor from a PNG file, with its hotspot at the
// center of the image.
func (w *Window) LoadCursor(path string) (host.Cursor, error) {
	rgba, err := loadCursorImage(path)
	if err != nil {
		return nil, err
	}

	sz := rgba.Rect.Size()
	if sz.X <= 0 || sz.Y <= 0 {
		return nil, fmt.Errorf("%s: cursor image has invalid size", path)
	}

	cursor := glfw.CreateCursor(rgba, sz.X/2, sz.Y/2)
	if cursor == nil {
		return nil, fmt.Errorf("%s: failed to create cursor", path)
	}
	w.lg.Debugf("%s: loaded %dx%d cursor", path, sz.X, sz.Y)
	return &Cursor{cursor: cursor, w: w}, nil
}

func loadCursorImage(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return toRGBA(img), nil
}

// Activate makes c the window's cursor until the next frame; the window
// reverts to the default cursor unless Activate is called again.
func (c *Cursor) Activate() {
	if c.cursor != nil {
		c.w.cursorOverride = c.cursor
	}
}

// Release destroys the underlying cursor. It is safe to call more than
// once.
func (c *Cursor) Release() {
	if c.cursor == nil {
		return
	}
	if c.w.cursorOverride == c.cursor {
		c.w.cursorOverride = nil
	}
	if c.w.currentCursor == c.cursor {
		c.w.window.SetCursor(nil)
		c.w.currentCursor = nil
	}
	c.cursor.Destroy()
	c.cursor = nil
}

func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
