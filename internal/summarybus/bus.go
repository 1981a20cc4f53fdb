// Package summarybus implements the column-summary bus of spec §4.10
// (component J): publishes per-chunk column summaries to subscribers
// (the canonical one being an external horizon renderer) and maintains
// a derived (cx,cz) -> aggregated world-Y / tint mapping across the
// vertical stack of chunks sharing that column.
//
// No teacher file implements a publish/subscribe bus directly (the
// teacher's renderer reads world state by direct query); this package
// is grounded on the observer-style Listener interface idiom used
// throughout the corpus for decoupling a producer from an unknown
// number of consumers, generalized to the spec's two-event contract and
// the coalesced-invalidation-per-frame requirement.
package summarybus

import (
	"sync"

	"github.com/dantero-ps/voxelcore/internal/biome"
	"github.com/dantero-ps/voxelcore/internal/summary"
	"github.com/dantero-ps/voxelcore/internal/voxel"
)

// Listener receives the bus's two event kinds.
type Listener interface {
	SummaryReady(coord voxel.ChunkCoord, grid summary.Grid)
	SummaryInvalidated(coord voxel.ChunkCoord)
}

// ColumnAggregate is the derived per-(cx,cz) view: for each local (x,z)
// sub-column, the maximum surface_world_y across every vertically
// stacked chunk currently loaded at that column, plus the tint at that
// maximum.
type ColumnAggregate struct {
	SurfaceWorldY [voxel.ChunkWidth][voxel.ChunkDepth]int
	Tint          [voxel.ChunkWidth][voxel.ChunkDepth][3]float32
	HasSurface    [voxel.ChunkWidth][voxel.ChunkDepth]bool
}

// Bus holds every published chunk's summary grid, the derived per-column
// aggregate, and the set of subscribed listeners.
type Bus struct {
	mu sync.Mutex

	listeners []Listener

	grids      map[voxel.ChunkCoord]summary.Grid
	colMembers map[voxel.ColumnCoord]map[voxel.ChunkCoord]bool

	pendingInvalidations map[voxel.ChunkCoord]bool
}

// New builds an empty bus.
func New() *Bus {
	return &Bus{
		grids:                make(map[voxel.ChunkCoord]summary.Grid),
		colMembers:           make(map[voxel.ColumnCoord]map[voxel.ChunkCoord]bool),
		pendingInvalidations: make(map[voxel.ChunkCoord]bool),
	}
}

// Subscribe registers l to receive future events.
func (b *Bus) Subscribe(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

// SubscriberCount reports how many listeners are registered, for the
// debug/inspection API.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

// Publish stores grid, records it under its column (Aggregate derives
// the column view on demand), and notifies every listener with summary_ready. Invariant I5 ("the bus
// never publishes data for a chunk whose voxels are not yet finalized")
// is the caller's responsibility: only call Publish once a chunk is at
// least VoxelsReady.
func (b *Bus) Publish(grid summary.Grid) {
	b.mu.Lock()
	b.grids[grid.Coord] = grid
	col := grid.Coord.Column()
	members, ok := b.colMembers[col]
	if !ok {
		members = make(map[voxel.ChunkCoord]bool)
		b.colMembers[col] = members
	}
	members[grid.Coord] = true
	delete(b.pendingInvalidations, grid.Coord)
	listeners := append([]Listener(nil), b.listeners...)
	b.mu.Unlock()

	for _, l := range listeners {
		l.SummaryReady(grid.Coord, grid)
	}
}

// Invalidate marks coord as needing a summary_invalidated event. Per
// spec §4.10, invalidation is coalesced to one event per changed chunk
// per frame: repeated calls before the next Flush collapse into one
// notification.
func (b *Bus) Invalidate(coord voxel.ChunkCoord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pendingInvalidations[coord] = true
}

// Flush drains the coalesced invalidation set: for each pending coord,
// removes its grid, updates the derived aggregate, and emits exactly one
// summary_invalidated event. Call once per frame from the main loop.
func (b *Bus) Flush() {
	b.mu.Lock()
	if len(b.pendingInvalidations) == 0 {
		b.mu.Unlock()
		return
	}
	pending := make([]voxel.ChunkCoord, 0, len(b.pendingInvalidations))
	for coord := range b.pendingInvalidations {
		pending = append(pending, coord)
	}
	b.pendingInvalidations = make(map[voxel.ChunkCoord]bool)

	for _, coord := range pending {
		delete(b.grids, coord)
		col := coord.Column()
		if members, ok := b.colMembers[col]; ok {
			delete(members, coord)
			if len(members) == 0 {
				delete(b.colMembers, col)
			}
		}
	}
	listeners := append([]Listener(nil), b.listeners...)
	b.mu.Unlock()

	for _, coord := range pending {
		for _, l := range listeners {
			l.SummaryInvalidated(coord)
		}
	}
}

// Aggregate returns the derived per-column view for col, scanning every
// currently-published chunk sharing that (cx,cz). ok is false if no
// chunk in that column has published a grid.
func (b *Bus) Aggregate(col voxel.ColumnCoord) (ColumnAggregate, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	members := b.colMembers[col]
	if len(members) == 0 {
		return ColumnAggregate{}, false
	}

	var agg ColumnAggregate
	for coord := range members {
		grid := b.grids[coord]
		for x := 0; x < voxel.ChunkWidth; x++ {
			for z := 0; z < voxel.ChunkDepth; z++ {
				c := grid.Columns[x][z]
				if !c.HasSurface {
					continue
				}
				if !agg.HasSurface[x][z] || c.SurfaceWorldY > agg.SurfaceWorldY[x][z] {
					agg.HasSurface[x][z] = true
					agg.SurfaceWorldY[x][z] = c.SurfaceWorldY
					agg.Tint[x][z] = biome.TintFor(c.SurfaceBiome)
				}
			}
		}
	}
	return agg, true
}
