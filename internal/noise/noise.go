// Package noise implements the terrain height sampler of spec §4.2: fBm
// over a gradient-noise primitive, an optional ridge blend, power
// redistribution, an optional exponential blend, and domain warping.
//
// Grounded on SoftbearStudios-mk48/server/terrain/noise/noise.go (two
// perlin.Perlin channels combined with a low-frequency "zone" mask) —
// generalized from mk48's fixed two-channel blend into the spec's
// explicit octaves/persistence/lacunarity fBm loop, and from mk48's
// github.com/aquilax/go-perlin dependency, which replaces the teacher's
// (dantero-ps-mini-mc-go/internal/world/noise.go) hand-rolled integer
// lattice-hash value noise: the spec calls for Simplex/Perlin fBm with
// ridge + domain warp, which go-perlin's gradient primitive is built for
// and the teacher's value noise is not.
package noise

import (
	"github.com/aquilax/go-perlin"

	"github.com/dantero-ps/voxelcore/internal/voxelmath"
)

// perlinAlpha/perlinBeta match the amplitude/frequency-multiplier
// constructor parameters go-perlin expects; each Noise2D call sums
// perlinN internal octaves with them, and the fBm loop below layers its
// own persistence/lacunarity octaves on top, so alpha=2, beta=2
// (go-perlin's own defaults in its examples) are fixed here rather than
// re-exposed as knobs.
const (
	perlinAlpha = 2.0
	perlinBeta  = 2.0
	perlinN     = int32(3)
)

// Settings controls the noise and biome pipeline for one world. It is
// immutable once constructed; Sampler builds lookup state from it once
// and never mutates it afterward (spec §4.2 "Purity and thread-safety").
type Settings struct {
	Seed int64

	Frequency   float32
	Octaves     int
	Persistence float32
	Lacunarity  float32

	BaseHeight       float32
	HeightMultiplier float32

	RidgeStrength float32

	Redistribution float32

	ExponentialBlend float32
	ExponentialScale float32

	// DomainWarpStrength and DomainWarpFrequency perturb the sample
	// point through a second, lower-octave noise channel before the
	// main fBm evaluation, producing the non-axis-aligned terrain
	// features a straight fBm sum lacks.
	DomainWarpStrength  float32
	DomainWarpFrequency float32

	// BiomeBlendRadius is carried with the settings but read by no
	// package: biome weights are sampled at the column itself only,
	// with no neighborhood around it.
	BiomeBlendRadius int

	SoilDepth       int
	BedrockDepth    int
	DesertSandDepth int

	AlpineThreshold float32
	SteepThreshold  float32
}

// DefaultSettings returns reasonable defaults matching the scale of the
// teacher's default generator tunables (internal/world/generator.go:
// baseHeight 32-64, amp/octaves/persistence/lacunarity), adapted to the
// spec's richer parameter set.
func DefaultSettings(seed int64) Settings {
	return Settings{
		Seed:                seed,
		Frequency:           1.0 / 128.0,
		Octaves:             5,
		Persistence:         0.5,
		Lacunarity:          2.0,
		BaseHeight:          64,
		HeightMultiplier:    48,
		RidgeStrength:       0.35,
		Redistribution:      1.4,
		ExponentialBlend:    0.0,
		ExponentialScale:    2.0,
		DomainWarpStrength:  12,
		DomainWarpFrequency: 1.0 / 256.0,
		BiomeBlendRadius:    2,
		SoilDepth:           4,
		BedrockDepth:        1,
		DesertSandDepth:     4,
		AlpineThreshold:     0.78,
		SteepThreshold:      0.22,
	}
}

// Sampler holds the precomputed perlin generators for one set of
// Settings. Build once, read concurrently from any number of goroutines
// (spec §4.2 purity requirement) — Noise2D on a *perlin.Perlin has no
// mutable state past construction.
type Sampler struct {
	settings Settings
	main     *perlin.Perlin
	ridge    *perlin.Perlin
	warpX    *perlin.Perlin
	warpZ    *perlin.Perlin
}

// NewSampler builds the gradient-noise channels for settings. Call once
// per world/settings-blend; Sample is safe for concurrent use afterward.
func NewSampler(settings Settings) *Sampler {
	return &Sampler{
		settings: settings,
		main:     perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, settings.Seed),
		ridge:    perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, settings.Seed+1000),
		warpX:    perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, settings.Seed+2000),
		warpZ:    perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, settings.Seed+3000),
	}
}

// Result is the output of a single column sample, per spec §4.2's
// public contract: sample_height(worldX, worldZ, settings) -> (height,
// normalized, redistributed).
type Result struct {
	Height       float32
	Normalized   float32
	Redistributed float32
}

// Sample implements sample_height. Deterministic in (worldX, worldZ) and
// the Sampler's settings only; holds no mutable state.
func (s *Sampler) Sample(worldX, worldZ float32) Result {
	st := s.settings

	wx, wz := worldX, worldZ
	if st.DomainWarpStrength != 0 {
		wx += float32(s.warpX.Noise2D(float64(worldX)*float64(st.DomainWarpFrequency), float64(worldZ)*float64(st.DomainWarpFrequency))) * st.DomainWarpStrength
		wz += float32(s.warpZ.Noise2D(float64(worldX)*float64(st.DomainWarpFrequency)+100, float64(worldZ)*float64(st.DomainWarpFrequency)+100)) * st.DomainWarpStrength
	}

	fbm := fractalSum(s.main, wx, wz, st.Frequency, st.Octaves, st.Persistence, st.Lacunarity)
	// fractalSum returns roughly [-1,1]; normalize to [0,1].
	normalized := voxelmath.Clamp(voxelmath.Remap(fbm, -1, 1, 0, 1), 0, 1)

	if st.RidgeStrength > 0 {
		ridgeFbm := fractalSum(s.ridge, wx, wz, st.Frequency*1.7, st.Octaves, st.Persistence, st.Lacunarity)
		ridged := 1 - voxelmath.Abs(ridgeFbm)
		normalized = voxelmath.Lerp(normalized, ridged, st.RidgeStrength)
	}
	normalized = voxelmath.Clamp(normalized, 0, 1)

	redistributed := normalized
	if st.Redistribution != 1 {
		redistributed = voxelmath.Pow(normalized, st.Redistribution)
	}
	if st.ExponentialBlend > 0 {
		expCurve := (voxelmath.Exp(redistributed*st.ExponentialScale) - 1) / (voxelmath.Exp(st.ExponentialScale) - 1)
		redistributed = voxelmath.Lerp(redistributed, expCurve, st.ExponentialBlend)
	}
	redistributed = voxelmath.Clamp(redistributed, 0, 1)

	height := st.BaseHeight + redistributed*st.HeightMultiplier

	return Result{Height: height, Normalized: normalized, Redistributed: redistributed}
}

// fractalSum runs octaves of p.Noise2D at increasing frequency/decreasing
// amplitude (persistence, lacunarity), normalized by total amplitude so
// the result stays in roughly [-1,1] regardless of octave count.
func fractalSum(p *perlin.Perlin, x, z float32, frequency float32, octaves int, persistence, lacunarity float32) float32 {
	var sum, amplitude, freq, norm float32 = 0, 1, frequency, 0
	for i := 0; i < octaves; i++ {
		v := float32(p.Noise2D(float64(x*freq), float64(z*freq)))
		sum += v * amplitude
		norm += amplitude
		amplitude *= persistence
		freq *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}
