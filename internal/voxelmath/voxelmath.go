// Package voxelmath collects the small float32 math helpers shared by
// noise and biome blending. Terrain sampling runs once per column per
// chunk generation, in bulk, so it stays in float32 throughout rather
// than round-tripping through float64 — the same reasoning
// SoftbearStudios-mk48 and benanders-Mineral both give for depending on
// github.com/chewxy/math32 instead of the stdlib math package.
package voxelmath

import "github.com/chewxy/math32"

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Remap maps v from [inLo, inHi] to [outLo, outHi], without clamping.
func Remap(v, inLo, inHi, outLo, outHi float32) float32 {
	t := (v - inLo) / (inHi - inLo)
	return Lerp(outLo, outHi, t)
}

// Smoothstep is the classic 3t^2-2t^3 ease curve over [0,1].
func Smoothstep(t float32) float32 {
	t = Clamp(t, 0, 1)
	return t * t * (3 - 2*t)
}

// Pow wraps math32.Pow so callers don't need a second import for the
// common case of redistribution curves.
func Pow(base, exp float32) float32 {
	return math32.Pow(base, exp)
}

// Exp wraps math32.Exp.
func Exp(x float32) float32 {
	return math32.Exp(x)
}

// Abs wraps math32.Abs.
func Abs(x float32) float32 {
	return math32.Abs(x)
}
