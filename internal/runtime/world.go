// Package runtime wires components A-J into one owned World object:
// chunk store, terrain generator, mesh/terrain worker pools, the
// streaming controller, the upload manager, and the column-summary bus,
// configured from an internal/worldconfig.Config.
//
// Grounded on dantero-ps-mini-mc-go/cmd/mini-mc's game loop (main.go's
// one-time setup of world/renderer/mesh-system, game_loop.go's per-tick
// StreamChunksAroundAsync / ProcessMeshResults / EvictFarChunks
// sequence) and dantero/internal/world/chunk_streamer.go's
// StreamChunksAroundSync (the synchronous variant this package
// generalizes into Prewarm). Uses stdlib log, matching the teacher's
// log.Printf idiom (e.g. internal/graphics/renderables/blocks/texture.go) —
// no structured logging library appears anywhere in the pack.
package runtime

import (
	"context"
	"log"
	"time"

	"github.com/dantero-ps/voxelcore/internal/chunk"
	"github.com/dantero-ps/voxelcore/internal/mesh"
	"github.com/dantero-ps/voxelcore/internal/profiling"
	"github.com/dantero-ps/voxelcore/internal/streaming"
	"github.com/dantero-ps/voxelcore/internal/summarybus"
	"github.com/dantero-ps/voxelcore/internal/terrain"
	"github.com/dantero-ps/voxelcore/internal/voxel"
	"github.com/dantero-ps/voxelcore/internal/worldconfig"
)

// World owns the whole streaming pipeline and is the single entry point
// an embedding application (or cmd/voxelcore-demo) drives.
type World struct {
	config     worldconfig.Config
	controller *streaming.Controller
	atlas      voxel.Atlas
}

// New builds a World from cfg: a terrain.Generator seeded from
// cfg.Noise, a voxel.Atlas big enough for the built-in block set, and a
// streaming.Controller configured from cfg.Streaming.
func New(cfg worldconfig.Config) *World {
	noiseSettings := terrain.DefaultSettings(cfg.Noise.Seed).Noise
	noiseSettings.Frequency = float32(cfg.Noise.Frequency)
	noiseSettings.Octaves = cfg.Noise.Octaves
	noiseSettings.Persistence = float32(cfg.Noise.Persistence)
	noiseSettings.Lacunarity = float32(cfg.Noise.Lacunarity)
	noiseSettings.BaseHeight = float32(cfg.Noise.BaseHeight)
	noiseSettings.HeightMultiplier = float32(cfg.Noise.HeightMultiplier)
	noiseSettings.RidgeStrength = float32(cfg.Noise.RidgeStrength)

	terrainSettings := terrain.DefaultSettings(cfg.Noise.Seed)
	terrainSettings.Noise = noiseSettings

	generator := terrain.NewGenerator(terrainSettings)
	atlas := voxel.NewAtlas(8, 8)

	streamCfg := streaming.DefaultConfig(generator, atlas)
	streamCfg.TerrainWorkers = cfg.Streaming.TerrainWorkers
	streamCfg.MeshWorkers = cfg.Streaming.MeshWorkers
	streamCfg.HorizontalRadius = cfg.Streaming.HorizontalRadius
	streamCfg.VerticalRadius = cfg.Streaming.VerticalRadius
	streamCfg.PriorityRadius = cfg.Streaming.PriorityRadius
	streamCfg.MaxAllocPerTick = cfg.Streaming.MaxAllocPerTick
	streamCfg.UnloadBufferChunks = cfg.Streaming.UnloadBufferChunks

	return &World{
		config:     cfg,
		controller: streaming.NewController(streamCfg),
		atlas:      atlas,
	}
}

// Store exposes the chunk store for read-only inspection.
func (w *World) Store() *chunk.Store { return w.controller.Store() }

// Bus exposes the column-summary bus for an external horizon renderer to
// subscribe to.
func (w *World) Bus() *summarybus.Bus { return w.controller.Bus() }

// GetBlock reads a block at a world coordinate.
func (w *World) GetBlock(worldX, worldY, worldZ int) voxel.BlockId {
	return w.controller.GetBlock(worldX, worldY, worldZ)
}

// SetBlock applies the full write-barrier block edit of spec §5: write,
// bump revision, invalidate the summary bus, and re-enqueue meshing for
// the edited chunk and any neighbor sharing the touched boundary face.
func (w *World) SetBlock(worldX, worldY, worldZ int, id voxel.BlockId) {
	w.controller.SetBlock(worldX, worldY, worldZ, id)
}

// Tick drives one iteration of the streaming pipeline around viewer:
// load/unload bookkeeping, then draining whatever background work
// finished since the previous tick. Per-phase timings land in
// internal/profiling under "streaming.Tick" / "streaming.DrainResults"
// for the debug/inspection API's TopN reporting.
func (w *World) Tick(viewer voxel.ChunkCoord) {
	profiling.ResetFrame()

	func() {
		defer profiling.Track("streaming.Tick")()
		w.controller.Tick(viewer)
	}()
	func() {
		defer profiling.Track("streaming.DrainResults")()
		w.controller.DrainResults()
	}()
}

// ApplyUploads drains the upload manager's per-frame budget, handing
// each non-stale mesh buffer to apply (the renderer-side GPU upload
// function). Returns the number of buffers applied this frame.
func (w *World) ApplyUploads(apply func(coord voxel.ChunkCoord, buffer mesh.Buffer)) int {
	defer profiling.Track("upload.ApplyFrame")()
	return w.controller.Uploads().ApplyFrame(w.revisionLookup, apply)
}

func (w *World) revisionLookup(coord voxel.ChunkCoord) (uint64, bool) {
	c := w.controller.Store().Get(coord)
	if c == nil {
		return 0, false
	}
	return c.Revision(), true
}

const prewarmPollInterval = 10 * time.Millisecond

// Prewarm synchronously drains terrain and mesh completion for the
// horizontal disc of chunks at center's Y out to radius, polling until
// every chunk in that disc reaches at least MeshReady or ctx is done,
// whichever comes first. Unlike the pipeline's normal async operation,
// this blocks the caller — intended for startup, so an initial view
// around the player is ready before the first rendered frame. If ctx
// expires first, Prewarm logs a warning and returns anyway (spec §7:
// startup timeout is not fatal).
func (w *World) Prewarm(ctx context.Context, center voxel.ChunkCoord, radius int) {
	w.controller.SetViewer(center)
	for _, coord := range streaming.DesiredSet(center, radius, 0) {
		w.controller.EnqueueTerrain(coord)
	}

	ticker := time.NewTicker(prewarmPollInterval)
	defer ticker.Stop()

	for {
		w.controller.DrainResults()
		if w.prewarmComplete(center, radius) {
			return
		}
		select {
		case <-ctx.Done():
			log.Printf("runtime: prewarm around %+v (radius %d) did not finish before deadline: %v", center, radius, ctx.Err())
			return
		case <-ticker.C:
		}
	}
}

func (w *World) prewarmComplete(center voxel.ChunkCoord, radius int) bool {
	for _, coord := range streaming.DesiredSet(center, radius, 0) {
		c := w.controller.Store().Get(coord)
		if c == nil {
			return false
		}
		switch c.State() {
		case chunk.MeshReady, chunk.Dropped:
		default:
			return false
		}
	}
	return true
}

// DebugStats is the snapshot returned by Stats: spec §6's "debug and
// inspection API" made concrete.
type DebugStats struct {
	LoadedChunks           int
	TerrainQueueDepth      int
	MeshQueueDepth         int
	PendingRemeshCount     int
	PendingUploads         int
	LastFrameUploadCount   int
	LastFrameUploadElapsed time.Duration
	SummaryBusSubscribers  int
	FrameProfile           string
}

// Stats reports the counters named in SPEC_FULL.md's debug/inspection
// API supplement.
func (w *World) Stats() DebugStats {
	elapsed, count := w.controller.Uploads().LastFrameStats()
	return DebugStats{
		LoadedChunks:           w.controller.Store().Len(),
		TerrainQueueDepth:      w.controller.TerrainQueueDepth(),
		MeshQueueDepth:         w.controller.MeshQueueDepth(),
		PendingRemeshCount:     w.controller.PendingRemeshCount(),
		PendingUploads:         w.controller.Uploads().PendingCount(),
		LastFrameUploadCount:   count,
		LastFrameUploadElapsed: elapsed,
		SummaryBusSubscribers:  w.controller.Bus().SubscriberCount(),
		FrameProfile:           profiling.TopN(5),
	}
}
