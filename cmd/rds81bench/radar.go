// cmd/rds81bench/radar.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"image"
	"image/color"
	gomath "math"

	"github.com/mmp/rds81/math"
)

type cell struct {
	center    [2]float32 // in [0,1]^2, origin at the lower left
	radius    float32
	intensity float32
	drift     [2]float32 // per second
}

var cells = []cell{
	{center: [2]float32{0.3, 0.55}, radius: 0.12, intensity: 1.2, drift: [2]float32{0.004, -0.002}},
	{center: [2]float32{0.62, 0.7}, radius: 0.18, intensity: 0.9, drift: [2]float32{-0.003, 0.001}},
	{center: [2]float32{0.5, 0.3}, radius: 0.07, intensity: 1.4, drift: [2]float32{0.002, 0.003}},
	{center: [2]float32{0.8, 0.45}, radius: 0.1, intensity: 0.6, drift: [2]float32{-0.001, -0.004}},
}

// Return levels, weakest first, with the colors weather radars use.
var levels = []struct {
	threshold float32
	color     color.RGBA
}{
	{0.25, color.RGBA{G: 200, A: 255}},
	{0.55, color.RGBA{R: 230, G: 230, A: 255}},
	{0.85, color.RGBA{R: 230, A: 255}},
	{1.15, color.RGBA{R: 230, B: 230, A: 255}},
}

// radarImage returns a size x size image of a few storm cells, which
// slowly drift as t (seconds) advances.
func radarImage(size int, t float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			// Image rows run top to bottom.
			p := [2]float32{(float32(x) + 0.5) / float32(size), 1 - (float32(y)+0.5)/float32(size)}
			if c, ok := returnColor(returnStrength(p, t)); ok {
				img.SetRGBA(x, y, c)
			}
		}
	}
	return img
}

func returnStrength(p [2]float32, t float64) float32 {
	var s float32
	for _, c := range cells {
		center := math.Add2f(c.center, math.Scale2f(c.drift, float32(gomath.Mod(t, 120))))
		d := math.Sub2f(p, center)
		r2 := (math.Sqr(d[0]) + math.Sqr(d[1])) / math.Sqr(c.radius)
		s += c.intensity * float32(gomath.Exp(-float64(r2)))
	}
	return s
}

func returnColor(s float32) (color.RGBA, bool) {
	var c color.RGBA
	ok := false
	for _, l := range levels {
		if s >= l.threshold {
			c, ok = l.color, true
		}
	}
	return c, ok
}
