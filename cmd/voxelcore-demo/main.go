// Command voxelcore-demo is a headless wiring demonstration: it loads a
// worldconfig.Config, prewarms a small region, then drives a synthetic
// frame loop around a circling viewer, logging debug stats each second.
// There is no rendering backend here (spec §1: external per §6); this
// just proves the pipeline end-to-end the way an embedding application
// would drive it.
//
// Grounded on dantero-ps-mini-mc-go/cmd/mini-mc/main.go's one-time setup
// (create world, prewarm spawn synchronously, then enter a loop) with
// the GLFW/renderer/player layers removed, since those are out of scope
// here (SPEC_FULL.md Non-goals: "no rendering backend implementation").
package main

import (
	"context"
	"flag"
	"log"
	"math"
	"time"

	"github.com/dantero-ps/voxelcore/internal/mesh"
	"github.com/dantero-ps/voxelcore/internal/runtime"
	"github.com/dantero-ps/voxelcore/internal/voxel"
	"github.com/dantero-ps/voxelcore/internal/worldconfig"
)

func main() {
	configPath := flag.String("config", "", "optional path to a world.toml config file")
	ticks := flag.Int("ticks", 200, "number of synthetic frame ticks to run")
	flag.Parse()

	cfg := worldconfig.Default()
	if *configPath != "" {
		loaded, err := worldconfig.Load(*configPath)
		if err != nil {
			log.Fatalf("voxelcore-demo: failed to load config: %v", err)
		}
		cfg = loaded
	}

	w := runtime.New(cfg)

	prewarmCtx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()
	log.Printf("voxelcore-demo: prewarming spawn area...")
	w.Prewarm(prewarmCtx, voxel.ChunkCoord{}, cfg.Streaming.PriorityRadius+2)
	log.Printf("voxelcore-demo: prewarm complete, stats=%+v", w.Stats())

	var uploaded int
	applyFn := func(coord voxel.ChunkCoord, buf mesh.Buffer) {
		uploaded++
	}

	lastReport := time.Now()
	for i := 0; i < *ticks; i++ {
		viewer := circlingViewer(i)
		w.Tick(viewer)
		w.ApplyUploads(applyFn)

		if time.Since(lastReport) >= time.Second {
			stats := w.Stats()
			log.Printf("tick %d: viewer=%+v loaded=%d terrainQ=%d meshQ=%d pendingRemesh=%d uploadedTotal=%d profile=[%s]",
				i, viewer, stats.LoadedChunks, stats.TerrainQueueDepth, stats.MeshQueueDepth, stats.PendingRemeshCount, uploaded, stats.FrameProfile)
			lastReport = time.Now()
		}

		time.Sleep(16 * time.Millisecond)
	}

	log.Printf("voxelcore-demo: done, final stats=%+v", w.Stats())
}

// circlingViewer produces a slowly orbiting chunk coordinate so the
// streaming controller has to continuously load and unload chunks,
// exercising the full pipeline rather than sitting idle at one position.
func circlingViewer(tick int) voxel.ChunkCoord {
	const radiusChunks = 6
	angle := float64(tick) * 0.05
	return voxel.ChunkCoord{
		X: int(math.Round(radiusChunks * math.Cos(angle))),
		Z: int(math.Round(radiusChunks * math.Sin(angle))),
	}
}
