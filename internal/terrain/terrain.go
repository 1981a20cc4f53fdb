// Package terrain implements the chunk-generation task of spec §4.4
// (component D): for a chunk coordinate, produce a dense voxel grid and
// a per-column dominant-biome array.
//
// Grounded on dantero-ps-mini-mc-go/internal/world/bio_generator.go's
// PopulateChunk (top-down per-column fill, force-bedrock/force-air
// bounds) and generator.go's simpler per-column HeightAt + PopulateChunk
// shape, combined with package noise (the spec's fBm/ridge/warp sampler,
// replacing the teacher's hand-rolled noise — see internal/noise's doc
// comment) and package biome (triangular weight blending, replacing the
// teacher's hard noise-threshold biome bands).
package terrain

import (
	"sync"
	"sync/atomic"

	"github.com/dantero-ps/voxelcore/internal/biome"
	"github.com/dantero-ps/voxelcore/internal/chunk"
	"github.com/dantero-ps/voxelcore/internal/noise"
	"github.com/dantero-ps/voxelcore/internal/voxel"
)

// Settings bundles the tunables a Generator needs: the base noise
// parameters and the biome sampler's own low-frequency channel.
type Settings struct {
	Seed              int64
	Noise             noise.Settings
	BiomeFrequency    float32
	ColumnWorkerCount int
}

// DefaultSettings returns a reasonable Settings for seed.
func DefaultSettings(seed int64) Settings {
	return Settings{
		Seed:              seed,
		Noise:             noise.DefaultSettings(seed),
		BiomeFrequency:    1.0 / 400.0,
		ColumnWorkerCount: 4,
	}
}

// Generator produces voxel grids for chunk coordinates under one fixed
// Settings. Immutable once built; Fill is safe to call concurrently from
// many scheduler workers (spec §4.2 "Purity and thread-safety" extended
// to the generation task as a whole).
type Generator struct {
	settings     Settings
	noiseSampler *noise.Sampler
	biomeSampler *biome.Sampler
}

// NewGenerator builds a Generator from settings.
func NewGenerator(settings Settings) *Generator {
	return &Generator{
		settings:     settings,
		noiseSampler: noise.NewSampler(settings.Noise),
		biomeSampler: biome.NewSampler(settings.Seed, settings.BiomeFrequency),
	}
}

// Settings returns the settings this generator was built from.
func (g *Generator) Settings() Settings { return g.settings }

// SampleHeight returns the theoretical terrain surface height at a
// world column, independent of any chunk — the "cheap height surrogate"
// spec §4.5's edge policy asks a mesh task to consult when a neighbor
// chunk has not been generated yet. It uses the same biome-blended
// settings as Fill, so it matches the height Fill builds at that column.
func (g *Generator) SampleHeight(worldX, worldZ float32) float32 {
	return g.sampleColumn(worldX, worldZ).height
}

// GrassTint returns the blended biome grass-top tint at a world column,
// consumed by the mesh task's grass-top vertex coloring rule (spec
// §4.5 "Biome grass tinting rule").
func (g *Generator) GrassTint(worldX, worldZ float32) [3]float32 {
	return g.biomeSampler.Weights(worldX, worldZ).BlendTint()
}

// columnResult is the per-column biome weighting and noise sample,
// computed once and reused for every voxel in that column's Y-stride.
type columnResult struct {
	dominant      biome.Id
	height        float32
	normalized    float32
	redistributed float32
}

func (g *Generator) sampleColumn(worldX, worldZ float32) columnResult {
	weights := g.biomeSampler.Weights(worldX, worldZ)
	dominant := weights.Dominant()

	blended := biome.Blend(g.settings.Noise, weights, func(s *noise.Settings, id biome.Id, w float32) {
		off := biome.DefaultOffsetFor(id)
		s.HeightMultiplier += off.HeightMultiplier * w
		s.BaseHeight += off.BaseHeight * w
		s.RidgeStrength += off.RidgeStrength * w
	})

	result := noise.NewSampler(blended).Sample(worldX, worldZ)
	return columnResult{
		dominant:      dominant,
		height:        result.Height,
		normalized:    result.Normalized,
		redistributed: result.Redistributed,
	}
}

// Result is the output of Fill: the per-column dominant biome, indexed
// [x][z] in chunk-local coordinates, alongside whatever the caller
// already obtained from chunk.BeginGenerate.
type Result struct {
	Biomes [voxel.ChunkWidth][voxel.ChunkDepth]biome.Id
}

// Fill runs the chunk-generation task against c: it must already be in
// state Generating (i.e. the caller has called c.BeginGenerate()).
// Columns are filled in parallel goroutines (spec §4.4 step 1, "safe
// because columns write disjoint memory" — true here because each
// column only ever touches indices at its own (x,z)). cancel is polled
// between columns; if it ever reports true, Fill stops early and
// returns ok=false, leaving the partially-written grid for the caller
// to discard (the caller must not call c.FinishGenerate() in that case).
func (g *Generator) Fill(c *chunk.Chunk, blocks []voxel.BlockId, cancel func() bool) (Result, bool) {
	var result Result

	originX, _, originZ := c.Coord.WorldOrigin()

	workers := g.settings.ColumnWorkerCount
	if workers < 1 {
		workers = 1
	}

	var (
		wg        sync.WaitGroup
		cancelled atomic.Bool
	)

	columns := make(chan int, voxel.ChunkWidth)
	for x := 0; x < voxel.ChunkWidth; x++ {
		columns <- x
	}
	close(columns)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for x := range columns {
				if cancelled.Load() || cancel() {
					cancelled.Store(true)
					return
				}
				for z := 0; z < voxel.ChunkDepth; z++ {
					worldX := float32(originX + x)
					worldZ := float32(originZ + z)
					col := g.sampleColumn(worldX, worldZ)
					result.Biomes[x][z] = col.dominant

					fillColumn(blocks, c.Coord, x, z, col, g.settings)
				}
			}
		}()
	}
	wg.Wait()

	if cancelled.Load() {
		return result, false
	}
	return result, true
}

// fillColumn writes the Y-stride at local (x,z) using the §4.2
// block-selection rules, tracking depth-from-surface the way the
// teacher's PopulateChunk tracks a "fillerRemaining" counter while
// walking a column top-down — except this walks bottom-up since the
// block rule only needs depth-from-surface, computed once height is
// known.
func fillColumn(blocks []voxel.BlockId, coord voxel.ChunkCoord, x, z int, col columnResult, settings Settings) {
	_, originY, _ := coord.WorldOrigin()

	for y := 0; y < voxel.ChunkHeight; y++ {
		worldY := originY + y
		var depthFromSurface int
		if float32(worldY) <= col.height {
			depthFromSurface = int(col.height) - worldY
		}
		id := biome.Block(
			worldY,
			col.height, col.normalized, col.redistributed,
			col.dominant,
			depthFromSurface,
			settings.Noise.BedrockDepth, settings.Noise.SoilDepth, settings.Noise.DesertSandDepth,
			settings.Noise.AlpineThreshold, settings.Noise.SteepThreshold,
		)
		blocks[x+voxel.ChunkWidth*(y+voxel.ChunkHeight*z)] = id
	}
}
