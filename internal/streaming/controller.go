// Package streaming implements the streaming controller of spec §4.8
// (component H): the glue that decides which chunks should be loaded,
// drives them through the terrain -> mesh pipeline on the scheduler's
// worker pools, applies the main-thread write barrier for block edits,
// and drains finished background work once per frame.
//
// Grounded on dantero-ps-mini-mc-go/internal/world/chunk_streamer.go
// (ring-based load/unload around a moving viewer, a bounded
// allocations-per-tick budget, a results channel drained on the main
// thread) and chunk_store.go's Set (border-dirty marking on an edit,
// generalized here into a full neighbor-remesh enqueue since this
// build's explicit mesher needs a rebuilt face list, not just a dirty
// flag).
package streaming

import (
	"github.com/dantero-ps/voxelcore/internal/biome"
	"github.com/dantero-ps/voxelcore/internal/chunk"
	"github.com/dantero-ps/voxelcore/internal/mesh"
	"github.com/dantero-ps/voxelcore/internal/scheduler"
	"github.com/dantero-ps/voxelcore/internal/summary"
	"github.com/dantero-ps/voxelcore/internal/summarybus"
	"github.com/dantero-ps/voxelcore/internal/terrain"
	"github.com/dantero-ps/voxelcore/internal/upload"
	"github.com/dantero-ps/voxelcore/internal/voxel"
)

// TerrainDone is the result of one completed (or cancelled) terrain task.
type TerrainDone struct {
	Coord  voxel.ChunkCoord
	Biomes [voxel.ChunkWidth][voxel.ChunkDepth]biome.Id
	OK     bool
}

// MeshDone is the result of one completed mesh task.
type MeshDone struct {
	Coord  voxel.ChunkCoord
	Buffer mesh.Buffer
}

// SummaryDone is the result of the column-summary task computed
// piggybacked on the terrain worker (see NewController).
type SummaryDone struct {
	Grid summary.Grid
}

const resultQueueDepth = 256

// Controller owns the chunk store, the generation and mesh worker pools,
// the upload manager and summary bus, and the per-chunk biome metadata
// needed to feed the column-summary task. It is the only thing that
// transitions chunk state machines other than the tasks it dispatches.
type Controller struct {
	store     *chunk.Store
	generator *terrain.Generator
	atlas     voxel.Atlas

	terrainPool *scheduler.Pool
	meshPool    *scheduler.Pool

	uploads *upload.Manager
	bus     *summarybus.Bus

	terrainResults chan TerrainDone
	meshResults    chan MeshDone
	summaryResults chan SummaryDone

	biomes map[voxel.ChunkCoord][voxel.ChunkWidth][voxel.ChunkDepth]biome.Id

	viewer             voxel.ChunkCoord
	horizontalRadius   int
	verticalRadius     int
	priorityRadius     int
	maxAllocPerTick    int
	unloadBufferChunks int
}

// Config bundles the tunables a Controller needs at construction time.
type Config struct {
	Generator          *terrain.Generator
	Atlas              voxel.Atlas
	TerrainWorkers     int
	MeshWorkers        int
	HorizontalRadius   int
	VerticalRadius     int
	PriorityRadius     int
	MaxAllocPerTick    int
	UnloadBufferChunks int
}

// DefaultConfig returns reasonable tunables (spec §4.8 step 5: "20-30
// per tick", and a two-chunk hysteresis buffer on unload).
func DefaultConfig(generator *terrain.Generator, atlas voxel.Atlas) Config {
	return Config{
		Generator:          generator,
		Atlas:              atlas,
		TerrainWorkers:     4,
		MeshWorkers:        4,
		HorizontalRadius:   8,
		VerticalRadius:     4,
		PriorityRadius:     2,
		MaxAllocPerTick:    24,
		UnloadBufferChunks: 2,
	}
}

// NewController builds a Controller. The two scheduler.Pool instances it
// starts are the only worker pools in the system, satisfying spec §5's
// "a small worker pool... per task category, two categories: terrain and
// mesh" — the column-summary task (component F) is computed synchronously
// inside a terrain worker's own goroutine (see EnqueueTerrain) rather
// than occupying a third pool.
func NewController(cfg Config) *Controller {
	return &Controller{
		store:              chunk.NewStore(),
		generator:          cfg.Generator,
		atlas:              cfg.Atlas,
		terrainPool:        scheduler.NewPool(cfg.TerrainWorkers),
		meshPool:           scheduler.NewPool(cfg.MeshWorkers),
		uploads:            upload.New(),
		bus:                summarybus.New(),
		terrainResults:     make(chan TerrainDone, resultQueueDepth),
		meshResults:        make(chan MeshDone, resultQueueDepth),
		summaryResults:     make(chan SummaryDone, resultQueueDepth),
		biomes:             make(map[voxel.ChunkCoord][voxel.ChunkWidth][voxel.ChunkDepth]biome.Id),
		horizontalRadius:   cfg.HorizontalRadius,
		verticalRadius:     cfg.VerticalRadius,
		priorityRadius:     cfg.PriorityRadius,
		maxAllocPerTick:    cfg.MaxAllocPerTick,
		unloadBufferChunks: cfg.UnloadBufferChunks,
	}
}

// Store exposes the chunk store for read-only queries (get_block and the
// debug/inspection API).
func (ctl *Controller) Store() *chunk.Store { return ctl.store }

// Bus exposes the summary bus so an external horizon renderer can
// subscribe.
func (ctl *Controller) Bus() *summarybus.Bus { return ctl.bus }

// Uploads exposes the upload manager for the render loop to drive
// ApplyFrame against the actual GPU upload function.
func (ctl *Controller) Uploads() *upload.Manager { return ctl.uploads }

// TerrainQueueDepth returns the number of terrain jobs currently queued,
// for the debug/inspection API.
func (ctl *Controller) TerrainQueueDepth() int { return ctl.terrainPool.QueueDepth() }

// MeshQueueDepth returns the number of mesh jobs currently queued, for
// the debug/inspection API.
func (ctl *Controller) MeshQueueDepth() int { return ctl.meshPool.QueueDepth() }

// PendingRemeshCount returns how many currently loaded chunks have a
// coalesced remesh request waiting, for the debug/inspection API.
func (ctl *Controller) PendingRemeshCount() int {
	count := 0
	for _, c := range ctl.store.All() {
		if c.RemeshPending() {
			count++
		}
	}
	return count
}

func (ctl *Controller) priority(coord voxel.ChunkCoord) int {
	dx := coord.X - ctl.viewer.X
	dy := coord.Y - ctl.viewer.Y
	dz := coord.Z - ctl.viewer.Z
	return dx*dx + dy*dy + dz*dz
}

func (ctl *Controller) isPriority(coord voxel.ChunkCoord) bool {
	dx := coord.X - ctl.viewer.X
	dz := coord.Z - ctl.viewer.Z
	return dx*dx+dz*dz <= ctl.priorityRadius*ctl.priorityRadius
}

// EnqueueTerrain allocates (or reuses) the chunk at coord and submits a
// terrain-generation job to the terrain pool. The job's cancellation
// check is the chunk's own state: once the chunk transitions to Dropped
// (e.g. it streamed out of range while queued), the task abandons
// partial work rather than racing a separate cancellation token.
func (ctl *Controller) EnqueueTerrain(coord voxel.ChunkCoord) {
	c := ctl.store.GetOrCreate(coord)
	if c.State() != chunk.Empty {
		return
	}
	blocks := c.BeginGenerate()

	ctl.terrainPool.Submit(scheduler.Job{
		Priority: ctl.priority(coord),
		Run: func(cancelled func() bool) {
			cancel := func() bool { return c.State() == chunk.Dropped }
			result, ok := ctl.generator.Fill(c, blocks, cancel)
			if !ok {
				return
			}

			// Column-summary task (component F) runs synchronously here,
			// on the terrain worker, so a third pool is never needed.
			grid := summary.Build(c.Snapshot(), result.Biomes)

			ctl.terrainResults <- TerrainDone{Coord: coord, Biomes: result.Biomes, OK: true}
			ctl.summaryResults <- SummaryDone{Grid: grid}
		},
	})
}

// EnqueueMesh submits a mesh-build job for coord if the chunk is
// VoxelsReady or MeshReady. Neighbor snapshots are taken for whichever
// neighbors are themselves at least VoxelsReady; an absent or
// not-yet-ready neighbor is left nil, so Build falls back to its
// height-surrogate edge policy for that side.
func (ctl *Controller) EnqueueMesh(coord voxel.ChunkCoord) {
	c := ctl.store.Get(coord)
	if c == nil {
		return
	}
	state := c.State()
	if state != chunk.VoxelsReady && state != chunk.MeshReady {
		return
	}

	self := c.Snapshot()
	var neighbors mesh.Neighbors
	for face := voxel.BlockFace(0); face < voxel.NumFaces; face++ {
		n := ctl.store.Neighbor(coord, face)
		if n == nil {
			continue
		}
		ns := n.State()
		if ns != chunk.VoxelsReady && ns != chunk.MeshReady && ns != chunk.Meshing {
			continue
		}
		snap := n.Snapshot()
		neighbors[face] = &snap
	}

	c.Transition(chunk.Meshing)

	ctl.meshPool.Submit(scheduler.Job{
		Priority: ctl.priority(coord),
		Run: func(cancelled func() bool) {
			buf := mesh.Build(self, neighbors, ctl.atlas, ctl.generator, ctl.generator)
			ctl.meshResults <- MeshDone{Coord: coord, Buffer: buf}
		},
	})
}

// DrainResults processes every result queued since the last call. Call
// once per frame from the main thread; this is the only place chunk
// state transitions happen in response to background-task completion,
// per spec §9's main-thread-only transition discipline.
func (ctl *Controller) DrainResults() {
drainTerrain:
	for {
		select {
		case r := <-ctl.terrainResults:
			ctl.handleTerrainDone(r)
		default:
			break drainTerrain
		}
	}

drainMesh:
	for {
		select {
		case r := <-ctl.meshResults:
			ctl.handleMeshDone(r)
		default:
			break drainMesh
		}
	}

drainSummary:
	for {
		select {
		case r := <-ctl.summaryResults:
			ctl.bus.Publish(r.Grid)
		default:
			break drainSummary
		}
	}

	ctl.bus.Flush()
}

func (ctl *Controller) handleTerrainDone(r TerrainDone) {
	if !r.OK {
		return
	}
	c := ctl.store.Get(r.Coord)
	if c == nil {
		return
	}
	c.FinishGenerate()
	ctl.biomes[r.Coord] = r.Biomes
	ctl.EnqueueMesh(r.Coord)

	// Neighbor-remesh discipline (spec §4.8): a neighbor that already has
	// a mesh may have built it against this chunk's absence; give it a
	// chance to pick up the now-available boundary data. Requesting a
	// remesh for every MeshReady neighbor is a conservative
	// over-approximation of "whose mesh predates this chunk" — coalesced
	// via requestRemesh/TakeRemeshPending so the redundant case is cheap.
	for face := voxel.BlockFace(0); face < voxel.NumFaces; face++ {
		neighbor := ctl.store.Neighbor(r.Coord, face)
		if neighbor == nil {
			continue
		}
		ctl.requestRemesh(neighbor.Coord)
	}
}

// requestRemesh asks for coord to be (re)meshed. A chunk already mesh-
// ready or voxels-ready is enqueued immediately; a chunk with a mesh job
// already in flight (Meshing) instead has its coalesced remeshPending
// flag set, picked up by handleMeshDone once that in-flight job finishes.
func (ctl *Controller) requestRemesh(coord voxel.ChunkCoord) {
	c := ctl.store.Get(coord)
	if c == nil {
		return
	}
	switch c.State() {
	case chunk.VoxelsReady, chunk.MeshReady:
		ctl.EnqueueMesh(coord)
	case chunk.Meshing:
		c.MarkRemeshPending()
	}
}

func (ctl *Controller) handleMeshDone(r MeshDone) {
	c := ctl.store.Get(r.Coord)
	if c == nil {
		return
	}
	if r.Buffer.Revision != c.Revision() {
		// invariant I3: stale mesh result, discard before it reaches upload.
		// The edit that made it stale left a remesh pending; no job is in
		// flight now, so submit it (MeshReady is passed through only to take
		// the MeshReady -> Meshing edge).
		if c.State() == chunk.Meshing && c.TakeRemeshPending() {
			c.Transition(chunk.MeshReady)
			ctl.EnqueueMesh(r.Coord)
		}
		return
	}
	c.Transition(chunk.MeshReady)
	ctl.uploads.Enqueue(upload.Item{Coord: r.Coord, Buffer: r.Buffer}, ctl.isPriority(r.Coord))

	if c.TakeRemeshPending() {
		ctl.EnqueueMesh(r.Coord)
	}
}

// SetBlock applies a main-thread block edit: resolves the owning chunk,
// writes the block, and if the write actually changed something,
// invalidates the summary bus and re-enqueues a remesh for the edited
// chunk plus every neighbor sharing the touched boundary face. Any
// mesh job already in flight for the pre-edit revision is not
// interrupted; it is simply discarded as stale once handleMeshDone sees
// its revision no longer matches (spec §5's write-barrier requirement).
func (ctl *Controller) SetBlock(worldX, worldY, worldZ int, id voxel.BlockId) {
	coord := voxel.WorldToChunk(worldX, worldY, worldZ)
	c := ctl.store.Get(coord)
	if c == nil {
		return
	}
	lx, ly, lz := voxel.WorldToLocal(worldX, worldY, worldZ)
	if !c.Set(lx, ly, lz, id) {
		return
	}

	ctl.bus.Invalidate(coord)
	ctl.requestRemesh(coord)

	for face := voxel.BlockFace(0); face < voxel.NumFaces; face++ {
		if !onChunkBoundary(lx, ly, lz, face) {
			continue
		}
		neighbor := ctl.store.Neighbor(coord, face)
		if neighbor == nil {
			continue
		}
		ctl.requestRemesh(neighbor.Coord)
	}
}

func onChunkBoundary(lx, ly, lz int, face voxel.BlockFace) bool {
	off := voxel.FaceOffsets[face]
	nx, ny, nz := lx+off[0], ly+off[1], lz+off[2]
	return nx < 0 || nx >= voxel.ChunkWidth ||
		ny < 0 || ny >= voxel.ChunkHeight ||
		nz < 0 || nz >= voxel.ChunkDepth
}

// GetBlock returns the block at a world coordinate, or voxel.Air if its
// chunk is not currently loaded.
func (ctl *Controller) GetBlock(worldX, worldY, worldZ int) voxel.BlockId {
	coord := voxel.WorldToChunk(worldX, worldY, worldZ)
	c := ctl.store.Get(coord)
	if c == nil {
		return voxel.Air
	}
	lx, ly, lz := voxel.WorldToLocal(worldX, worldY, worldZ)
	return c.Get(lx, ly, lz)
}

// SetViewer updates the viewer position used to derive task priority and
// the upload manager's priority-queue radius.
func (ctl *Controller) SetViewer(coord voxel.ChunkCoord) {
	ctl.viewer = coord
}

// DesiredSet computes every chunk coordinate that should be loaded
// around viewer, per spec §4.8 step 1: a horizontal squared-distance
// disc combined with a vertical range. Grounded loosely on the teacher's
// chunk_streamer.go ring iteration, simplified to a nested-loop scan
// since this build's chunks are cubic rather than full-height columns.
func DesiredSet(viewer voxel.ChunkCoord, horizontalRadius, verticalRadius int) []voxel.ChunkCoord {
	var out []voxel.ChunkCoord
	for dx := -horizontalRadius; dx <= horizontalRadius; dx++ {
		for dz := -horizontalRadius; dz <= horizontalRadius; dz++ {
			if dx*dx+dz*dz > horizontalRadius*horizontalRadius {
				continue
			}
			for dy := -verticalRadius; dy <= verticalRadius; dy++ {
				out = append(out, voxel.ChunkCoord{
					X: viewer.X + dx,
					Y: viewer.Y + dy,
					Z: viewer.Z + dz,
				})
			}
		}
	}
	return out
}

// Tick drives one iteration of the load/unload cycle around viewer: move
// the viewer, enqueue terrain generation for up to maxAllocPerTick newly
// desired chunks that are not yet loaded, and evict chunks that have
// drifted outside the desired radius plus its unload hysteresis buffer.
func (ctl *Controller) Tick(viewer voxel.ChunkCoord) {
	ctl.SetViewer(viewer)

	allocated := 0
	for _, coord := range DesiredSet(viewer, ctl.horizontalRadius, ctl.verticalRadius) {
		if allocated >= ctl.maxAllocPerTick {
			break
		}
		if ctl.store.Has(coord) {
			continue
		}
		ctl.EnqueueTerrain(coord)
		allocated++
	}

	unloadRadius := ctl.horizontalRadius + ctl.unloadBufferChunks
	retired := ctl.store.EvictOutsideXZ(viewer.X, viewer.Z, unloadRadius)
	for _, coord := range retired {
		delete(ctl.biomes, coord)
		// spec §4.10: the bus emits summary_invalidated for any chunk
		// leaving the loaded set, not just edited ones, so a horizon
		// renderer never holds a stale surface height/tint for a column
		// that streamed out and later back in under a new revision.
		ctl.bus.Invalidate(coord)
	}
}
