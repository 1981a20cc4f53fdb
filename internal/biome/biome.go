// Package biome implements the biome-weight blending of spec §4.2:
// three soft triangular weights over a low-frequency noise channel,
// normalized to sum to 1, argmax names the dominant biome, and a
// per-column blend of noise.Settings parameters by those weights.
//
// Grounded on dantero-ps-mini-mc-go/internal/world/bio_generator.go
// (parabolic-field biome blend weighting neighboring samples) and
// biome.go (a small fixed biome table keyed by noise bands), generalized
// from the teacher's hard noise-threshold bands into the continuous
// triangular-weight blend the spec calls for.
package biome

import (
	"github.com/aquilax/go-perlin"

	"github.com/dantero-ps/voxelcore/internal/voxel"
	"github.com/dantero-ps/voxelcore/internal/voxelmath"
)

// Id names one of the built-in biomes. The design supports additions;
// Weights is sized to len(All) rather than a fixed array.
type Id int

const (
	Desert Id = iota
	Plains
	Mountains
)

// All lists every biome id, in the order Weights entries correspond to.
var All = []Id{Desert, Plains, Mountains}

// anchor is the noise-value center each biome's triangular weight peaks
// at; radius is the triangle's half-width. Both are expressed in the
// [0,1] range the low-frequency biome channel is normalized into.
type band struct {
	anchor, radius float32
}

var bands = map[Id]band{
	Desert:    {anchor: 0.15, radius: 0.30},
	Plains:    {anchor: 0.50, radius: 0.35},
	Mountains: {anchor: 0.90, radius: 0.35},
}

// Weights is a normalized weight per biome, summing to 1.
type Weights map[Id]float32

// Dominant returns the argmax biome of w.
func (w Weights) Dominant() Id {
	best := All[0]
	bestWeight := float32(-1)
	for _, id := range All {
		if v := w[id]; v > bestWeight {
			bestWeight = v
			best = id
		}
	}
	return best
}

// Sampler computes biome weights from a dedicated low-frequency noise
// channel, independent of the terrain-height channel (spec §4.2: "Biome
// weights come from a second, lower-frequency noise channel").
type Sampler struct {
	channel   *perlin.Perlin
	frequency float32
}

// NewSampler builds a biome sampler for seed. frequency should be much
// lower than the terrain height frequency so biomes span many chunks.
func NewSampler(seed int64, frequency float32) *Sampler {
	return &Sampler{
		channel:   perlin.NewPerlin(2.0, 2.0, 3, seed+9000),
		frequency: frequency,
	}
}

// Weights returns the normalized biome weights at the given world
// column.
func (s *Sampler) Weights(worldX, worldZ float32) Weights {
	raw := float32(s.channel.Noise2D(float64(worldX*s.frequency), float64(worldZ*s.frequency)))
	v := voxelmath.Clamp(voxelmath.Remap(raw, -1, 1, 0, 1), 0, 1)

	out := make(Weights, len(All))
	var total float32
	for _, id := range All {
		b := bands[id]
		d := voxelmath.Abs(v-b.anchor) / b.radius
		// Smoothstep over the linear triangular falloff so weight mass
		// eases toward zero at a band's edge instead of arriving there
		// at a constant slope, softening the seam between biomes.
		w := voxelmath.Smoothstep(1 - d)
		out[id] = w
		total += w
	}
	if total == 0 {
		// Degenerate: every band's triangle missed v (can happen at the
		// extremes with narrow radii). Fall back to nearest anchor.
		nearest := All[0]
		nearestDist := voxelmath.Abs(v - bands[All[0]].anchor)
		for _, id := range All[1:] {
			if d := voxelmath.Abs(v - bands[id].anchor); d < nearestDist {
				nearest = id
				nearestDist = d
			}
		}
		out[nearest] = 1
		return out
	}
	for _, id := range All {
		out[id] /= total
	}
	return out
}

// Offsets holds the per-biome parameter adjustments the spec's "noise
// parameters are blended per column by mixing each parameter with the
// three biome-specific offsets weighted by the biome weights" describes.
// Only the parameters that meaningfully vary by biome are listed; the
// rest of noise.Settings passes through unmodified.
type Offsets struct {
	HeightMultiplier float32
	BaseHeight       float32
	RidgeStrength    float32
}

var defaultOffsets = map[Id]Offsets{
	Desert:    {HeightMultiplier: -20, BaseHeight: -6, RidgeStrength: -0.25},
	Plains:    {HeightMultiplier: -28, BaseHeight: -4, RidgeStrength: -0.30},
	Mountains: {HeightMultiplier: 60, BaseHeight: 10, RidgeStrength: 0.45},
}

// Blend mixes base's tunable fields with each biome's offset, weighted
// by w, and returns the adjusted copy. base is never mutated.
func Blend[T any](base T, w Weights, apply func(t *T, id Id, weight float32)) T {
	out := base
	for _, id := range All {
		weight := w[id]
		if weight == 0 {
			continue
		}
		apply(&out, id, weight)
	}
	return out
}

// DefaultOffsetFor returns the built-in per-biome offset table entry.
func DefaultOffsetFor(id Id) Offsets {
	return defaultOffsets[id]
}

// TintColors gives each biome's grass-top vertex-color tint (spec
// §4.5's "biome weight's blended color"), as linear RGB in [0,1].
var TintColors = map[Id][3]float32{
	Desert:    {0.80, 0.74, 0.38},
	Plains:    {0.48, 0.76, 0.33},
	Mountains: {0.55, 0.60, 0.47},
}

// TintFor returns the fixed grass-top tint for a single dominant biome,
// used where a per-column dominant biome (rather than a full weight
// blend) is all that is available, such as the summary bus's aggregate.
func TintFor(id Id) [3]float32 {
	return TintColors[id]
}

// BlendTint mixes every biome's TintColors entry by w, producing the
// smoothly-varying grass tint a mesh task paints onto grass-top
// vertices.
func (w Weights) BlendTint() [3]float32 {
	var out [3]float32
	for _, id := range All {
		weight := w[id]
		c := TintColors[id]
		out[0] += c[0] * weight
		out[1] += c[1] * weight
		out[2] += c[2] * weight
	}
	return out
}

// Block resolves the block id at a given world-y within a column, per
// spec §4.2's block-selection table.
func Block(
	worldY int,
	height, normalized, redistributed float32,
	dominant Id,
	depthFromSurface int,
	bedrockDepth, soilDepth, desertSandDepth int,
	alpineThreshold, steepThreshold float32,
) voxel.BlockId {
	if worldY < bedrockDepth {
		return voxel.Bedrock
	}
	if float32(worldY) > height {
		return voxel.Air
	}

	if dominant == Desert {
		if depthFromSurface < desertSandDepth {
			return voxel.Sand
		}
		return voxel.Stone
	}

	if depthFromSurface == 0 {
		if normalized >= alpineThreshold || redistributed <= steepThreshold {
			return voxel.Stone
		}
		return voxel.Grass
	}

	if depthFromSurface <= soilDepth {
		return voxel.Dirt
	}
	return voxel.Stone
}
