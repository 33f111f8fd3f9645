// rds81/text.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package rds81

import (
	"image/color"
	"os"
	"path/filepath"

	"github.com/mmp/rds81/log"
	"github.com/mmp/rds81/renderer"

	"github.com/go-gl/mathgl/mgl32"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	labelFontFile = "Roboto-Bold.ttf"
	labelFontSize = 30

	// The screen shows at most a dozen labels; the rest of the cache
	// covers the values they cycle through as range and tilt change.
	textCacheSize = 64
)

type textKey struct {
	text  string
	color color.RGBA
}

type textEntry struct {
	quad *renderer.Quad
	tex  uint32
	size [2]float32
}

// textCache rasterizes labels into textures and keeps the most recently
// used ones around; each frame's labels are almost always the same as
// the previous frame's.
type textCache struct {
	font     *renderer.Font
	textures *renderer.Textures
	program  *renderer.Program
	cache    *lru.Cache[textKey, textEntry]
	lg       *log.Logger
}

func newTextCache(resourceDir string, textures *renderer.Textures, program *renderer.Program,
	lg *log.Logger) *textCache {
	tc := &textCache{textures: textures, program: program, lg: lg}

	path := filepath.Join(resourceDir, labelFontFile)
	if _, err := os.Stat(path); err == nil {
		if tc.font, err = renderer.LoadFont(path, labelFontSize); err != nil {
			lg.Warnf("%v; using the built-in font", err)
		}
	}
	if tc.font == nil {
		tc.font = renderer.DefaultFont(labelFontSize)
	}

	var err error
	tc.cache, err = lru.NewWithEvict(textCacheSize, func(_ textKey, e textEntry) {
		e.quad.Destroy()
		tc.textures.Destroy(e.tex)
	})
	if err != nil {
		// Only returned for a non-positive size.
		panic(err)
	}
	return tc
}

func (tc *textCache) lookup(text string, c color.RGBA) textEntry {
	key := textKey{text: text, color: c}
	if e, ok := tc.cache.Get(key); ok {
		return e
	}

	img := tc.font.Rasterize(text, c)
	b := img.Bounds()
	tex := tc.textures.FromImage(img)
	e := textEntry{
		quad: renderer.NewSharedQuad(tex, tc.program),
		tex:  tex,
		size: [2]float32{float32(b.Dx()), float32(b.Dy())},
	}
	tc.cache.Add(key, e)
	return e
}

// draw draws l with its baseline at l.Pos.
func (tc *textCache) draw(pv mgl32.Mat4, l label) {
	e := tc.lookup(l.Text, l.Color)
	pos := [2]float32{l.Pos[0], l.Pos[1] - float32(tc.font.Descent())}
	e.quad.Render(pv, pos, e.size, 0, 1)
}

func (tc *textCache) purge() {
	tc.cache.Purge()
}
