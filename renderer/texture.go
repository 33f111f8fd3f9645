// renderer/texture.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
	"os"

	"github.com/mmp/rds81/log"
	"github.com/mmp/rds81/util"

	"github.com/go-gl/gl/v3.2-compatibility/gl"
)

// Textures tracks the textures created through it so that they can all
// be released together and so their memory use can be reported.
type Textures struct {
	created map[uint32]int // texture id -> size in bytes
	lg      *log.Logger
}

func NewTextures(lg *log.Logger) *Textures {
	return &Textures{created: make(map[uint32]int), lg: lg}
}

// FromImage uploads img as a new RGBA texture. Images are stored with
// their first row at the bottom, so that texture coordinate (0,0) is
// the image's lower-left corner.
func (t *Textures) FromImage(img image.Image) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	t.upload(id, img)
	return id
}

// Update replaces the contents of a texture previously returned by
// FromImage or Load.
func (t *Textures) Update(id uint32, img image.Image) {
	t.upload(id, img)
}

func (t *Textures) upload(id uint32, img image.Image) {
	rgba := flipVertical(toRGBA(img))
	b := rgba.Bounds()

	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(b.Dx()), int32(b.Dy()), 0, gl.RGBA,
		gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	t.created[id] = len(rgba.Pix)
}

// Load reads a PNG file and uploads it. Failures are logged and 0 is
// returned; texture 0 samples as black, so whatever uses it is simply
// not visible.
func (t *Textures) Load(path string) uint32 {
	img, err := loadImage(path)
	if err != nil {
		t.lg.Errorf("%s: %v", path, err)
		return 0
	}
	return t.FromImage(img)
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("unable to decode image: %w", err)
	}
	return img, nil
}

func (t *Textures) Destroy(id uint32) {
	if _, ok := t.created[id]; !ok {
		return
	}
	gl.DeleteTextures(1, &id)
	delete(t.created, id)
}

// DestroyAll releases every texture created through t.
func (t *Textures) DestroyAll() {
	for id := range t.created {
		gl.DeleteTextures(1, &id)
	}
	clear(t.created)
}

// Bytes returns the total size of the live textures.
func (t *Textures) Bytes() int {
	return util.ReduceMap(t.created, func(_ uint32, sz int, total int) int { return total + sz }, 0)
}

func (t *Textures) Len() int {
	return len(t.created)
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// flipVertical returns a copy of img with the rows in reverse order.
func flipVertical(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	rowBytes := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+rowBytes]
		dst := out.Pix[(b.Dy()-1-y)*out.Stride:]
		copy(dst[:rowBytes], src)
	}
	return out
}
