// math/core.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"

	"golang.org/x/exp/constraints"
)

// Degrees converts an angle expressed in radians to degrees
func Degrees(r float32) float32 {
	return r * 180 / gomath.Pi
}

// Radians converts an angle expressed in degrees to radians
func Radians(d float32) float32 {
	return d / 180 * gomath.Pi
}

// A number of utility functions for evaluating transcendentals and the like follow;
// since we mostly use float32, it's handy to be able to call these directly rather than
// with all of the casts that are required when using the math package.

func Sin(a float32) float32 {
	return float32(gomath.Sin(float64(a)))
}

func Cos(a float32) float32 {
	return float32(gomath.Cos(float64(a)))
}

func Floor(v float32) float32 {
	return float32(gomath.Floor(float64(v)))
}

func Round(v float32) float32 {
	return float32(gomath.Round(float64(v)))
}

func Pow(a, b float32) float32 {
	return float32(gomath.Pow(float64(a), float64(b)))
}

func Abs[V constraints.Integer | constraints.Float](x V) V {
	if x < 0 {
		return -x
	}
	return x
}

func Sign(v float32) float32 {
	if v > 0 {
		return 1
	} else if v < 0 {
		return -1
	}
	return 0
}

func Sqr[V constraints.Integer | constraints.Float](v V) V { return v * v }

func Clamp[T constraints.Ordered](x T, low T, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

func Lerp(x, a, b float32) float32 {
	return (1-x)*a + x*b
}

// Remap maps x from the range [a1,b1] to [a2,b2]. The mapping is linear
// and is not clamped.
func Remap(x, a1, b1, a2, b2 float32) float32 {
	if a1 == b1 {
		return a2
	}
	return a2 + (x-a1)*(b2-a2)/(b1-a1)
}

// EaseOutCubic is 0 at t=0 and 1 at t=1, decelerating as it approaches
// 1.
func EaseOutCubic(t float32) float32 {
	f := t - 1
	return f*f*f + 1
}
