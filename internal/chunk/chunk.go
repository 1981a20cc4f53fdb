// Package chunk implements the fixed-size voxel store and generation
// state machine of spec §4.3 (component C).
//
// Grounded on dantero-ps-mini-mc-go/internal/world/chunk.go for the
// local-coordinate indexing scheme, generalized from its lazily-freed
// 16-tall Sections (needed there because columns are 256 blocks tall)
// into one dense flat array, since this build picks cubic 16^3 chunks
// (DESIGN.md "Module layout decision") where a single section already
// covers the whole chunk. The RWMutex-guarded snapshot/edit split below
// replaces the teacher's unsynchronized direct-pointer chunk access
// (internal/world/chunk_store.go's Get/Set called from both the
// render thread and mesh workers with no lock discipline around the
// block array itself) with an RWMutex around the block array and
// full-copy snapshots for readers; there is no per-chunk reader count.
package chunk

import (
	"fmt"
	"sync"

	"github.com/dantero-ps/voxelcore/internal/voxel"
)

const blockCount = voxel.ChunkWidth * voxel.ChunkHeight * voxel.ChunkDepth

func localIndex(x, y, z int) int {
	return x + voxel.ChunkWidth*(y+voxel.ChunkHeight*z)
}

// Chunk owns one fixed-size voxel grid and its generation-state
// metadata. The streaming controller exclusively owns the Chunk value
// itself (spec §3 "Ownership"); this type's exported methods are the
// only way anything else touches its contents, and they enforce the
// locking and state-machine discipline internally.
type Chunk struct {
	Coord voxel.ChunkCoord

	mu       sync.RWMutex
	state    State
	revision uint64
	blocks   []voxel.BlockId

	// remeshPending coalesces neighbor-ready / edit-triggered remesh
	// requests into an idempotent flag (spec §4.8 "Remesh requests are
	// coalesced to prevent cascades").
	remeshPending bool
}

// New allocates a Chunk in state Empty with an all-Air grid.
func New(coord voxel.ChunkCoord) *Chunk {
	return &Chunk{
		Coord:  coord,
		state:  Empty,
		blocks: make([]voxel.BlockId, blockCount),
	}
}

// State returns the chunk's current lifecycle state.
func (c *Chunk) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Revision returns the chunk's current revision counter.
func (c *Chunk) Revision() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.revision
}

// assertf panics with a formatted message. Reserved for the
// programmer-error class of spec §7 (out-of-bounds indexing, illegal
// state transitions) — never for recoverable runtime conditions.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}

// Transition moves the chunk to 'to', or panics if the edge is not in
// the §4.3 state diagram. Transitions are main-thread-only per §9; the
// caller is responsible for not calling this concurrently with itself
// on the same chunk.
func (c *Chunk) Transition(to State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	assertf(CanTransition(c.state, to), "illegal chunk state transition %s -> %s for %+v", c.state, to, c.Coord)
	if to == VoxelsReady {
		c.revision++
	}
	c.state = to
	if to == Meshing {
		c.remeshPending = false
	}
}

// BeginGenerate transitions Empty -> Generating and returns the backing
// slice for the terrain task to fill directly. The task exclusively
// owns this slice until it calls FinishGenerate; no other goroutine may
// read or write the chunk's blocks during this window (spec §5: "written
// exactly once by a terrain task, which exclusively owns the grid until
// completion").
func (c *Chunk) BeginGenerate() []voxel.BlockId {
	c.Transition(Generating)
	return c.blocks
}

// FinishGenerate transitions Generating -> VoxelsReady, bumping the
// revision. Call once the terrain task has filled the slice returned by
// BeginGenerate.
func (c *Chunk) FinishGenerate() {
	c.Transition(VoxelsReady)
}

// Get reads the block at chunk-local coordinates. Safe for concurrent
// use with Set and Snapshot.
func (c *Chunk) Get(x, y, z int) voxel.BlockId {
	if x < 0 || x >= voxel.ChunkWidth || y < 0 || y >= voxel.ChunkHeight || z < 0 || z >= voxel.ChunkDepth {
		return voxel.Air
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[localIndex(x, y, z)]
}

// Set applies a main-thread block edit: writes the block, bumps the
// revision if the value actually changed, and marks the chunk as
// needing a remesh. Per spec §5, the caller (the write-barrier in the
// streaming/scheduler layer) is responsible for having already
// cancelled any in-flight mesh task that has not yet snapshotted this
// chunk before calling Set.
func (c *Chunk) Set(x, y, z int, id voxel.BlockId) (changed bool) {
	if x < 0 || x >= voxel.ChunkWidth || y < 0 || y >= voxel.ChunkHeight || z < 0 || z >= voxel.ChunkDepth {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := localIndex(x, y, z)
	if c.blocks[idx] == id {
		return false
	}
	c.blocks[idx] = id
	c.revision++
	c.remeshPending = true
	return true
}

// MarkRemeshPending flags the chunk as needing a remesh without an
// accompanying edit (the "existing neighbor whose mesh was built while
// this chunk was absent" case of spec §4.8).
func (c *Chunk) MarkRemeshPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remeshPending = true
}

// RemeshPending reports the coalesced remesh flag without clearing it.
// Exposed for debug/inspection (SPEC_FULL.md "pending remesh set size").
func (c *Chunk) RemeshPending() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.remeshPending
}

// TakeRemeshPending reports and clears the coalesced remesh flag. The
// streaming controller calls this when a mesh job finishes so repeated
// neighbor-ready notifications collapse into a single queued job.
func (c *Chunk) TakeRemeshPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	pending := c.remeshPending
	c.remeshPending = false
	return pending
}

// Snapshot is a read-only, point-in-time copy of a chunk's voxel grid
// and the revision it was taken at. Mesh tasks snapshot the target
// chunk and whatever neighbors are available instead of holding a
// pointer into a live Chunk, so a concurrent edit on the original can
// never be observed mid-read by a worker goroutine.
type Snapshot struct {
	Coord    voxel.ChunkCoord
	Revision uint64
	blocks   []voxel.BlockId
}

// Get reads a block from the snapshot by chunk-local coordinates.
func (s Snapshot) Get(x, y, z int) voxel.BlockId {
	if x < 0 || x >= voxel.ChunkWidth || y < 0 || y >= voxel.ChunkHeight || z < 0 || z >= voxel.ChunkDepth {
		return voxel.Air
	}
	return s.blocks[localIndex(x, y, z)]
}

// Snapshot copies the chunk's current voxel grid and revision under a
// read lock. Safe to call from any number of goroutines concurrently,
// and concurrently with Set (Set and a snapshot copy exclude each other
// for the duration of one write or one copy).
func (c *Chunk) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cp := make([]voxel.BlockId, len(c.blocks))
	copy(cp, c.blocks)
	return Snapshot{Coord: c.Coord, Revision: c.revision, blocks: cp}
}

// SurfaceHeight returns the highest non-air local y at (x, z), or -1 if
// the column is entirely air. Used by the column-summary task (F).
func (c *Chunk) SurfaceHeight(x, z int) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for y := voxel.ChunkHeight - 1; y >= 0; y-- {
		if c.blocks[localIndex(x, y, z)] != voxel.Air {
			return y
		}
	}
	return -1
}
