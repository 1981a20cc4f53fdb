package chunk

import (
	"sync"

	"github.com/dantero-ps/voxelcore/internal/voxel"
)

// Store owns every live Chunk, keyed by coordinate (spec invariant I1:
// "every live ChunkCoord key in the streaming map corresponds to
// exactly one Chunk"). Grounded on
// dantero-ps-mini-mc-go/internal/world/chunk_store.go's map+RWMutex
// layout and its colIndex fast-path for column queries, generalized from
// a per-(cx,cz) Y-indexed slice (needed there because column chunks
// only ever range Y in [0, NumSections)) to a per-column set, since
// cubic chunks range over negative and positive Y alike.
type Store struct {
	mu       sync.RWMutex
	chunks   map[voxel.ChunkCoord]*Chunk
	colIndex map[voxel.ColumnCoord]map[voxel.ChunkCoord]*Chunk
	modCount uint64
}

// NewStore builds an empty chunk store.
func NewStore() *Store {
	return &Store{
		chunks:   make(map[voxel.ChunkCoord]*Chunk),
		colIndex: make(map[voxel.ColumnCoord]map[voxel.ChunkCoord]*Chunk),
	}
}

// Get returns the chunk at coord, or nil if it is not loaded.
func (s *Store) Get(coord voxel.ChunkCoord) *Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chunks[coord]
}

// GetOrCreate returns the existing chunk at coord, or allocates and
// stores a new Empty one. Mirrors the teacher's double-checked-locking
// GetChunk(..., create=true).
func (s *Store) GetOrCreate(coord voxel.ChunkCoord) *Chunk {
	s.mu.RLock()
	c, ok := s.chunks[coord]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.chunks[coord]; ok {
		return existing
	}
	c = New(coord)
	s.addLocked(coord, c)
	return c
}

// Add inserts a pre-built chunk. No-op if coord is already occupied.
func (s *Store) Add(coord voxel.ChunkCoord, c *Chunk) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chunks[coord]; ok {
		return
	}
	s.addLocked(coord, c)
}

func (s *Store) addLocked(coord voxel.ChunkCoord, c *Chunk) {
	s.chunks[coord] = c
	s.modCount++
	col := coord.Column()
	entries, ok := s.colIndex[col]
	if !ok {
		entries = make(map[voxel.ChunkCoord]*Chunk)
		s.colIndex[col] = entries
	}
	entries[coord] = c
}

// Remove retires and deletes the chunk at coord, if present.
func (s *Store) Remove(coord voxel.ChunkCoord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chunks[coord]
	if !ok {
		return
	}
	delete(s.chunks, coord)
	s.modCount++
	col := coord.Column()
	if entries, ok := s.colIndex[col]; ok {
		delete(entries, coord)
		if len(entries) == 0 {
			delete(s.colIndex, col)
		}
	}
	if c.State() != Dropped {
		c.Transition(Dropped)
	}
}

// Has reports whether coord is currently loaded.
func (s *Store) Has(coord voxel.ChunkCoord) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.chunks[coord]
	return ok
}

// Neighbor returns the chunk adjacent to coord along face, or nil if
// that neighbor is not loaded.
func (s *Store) Neighbor(coord voxel.ChunkCoord, face voxel.BlockFace) *Chunk {
	return s.Get(coord.Neighbor(face))
}

// Column returns every loaded chunk in the vertical stack at col.
func (s *Store) Column(col voxel.ColumnCoord) []*Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.colIndex[col]
	out := make([]*Chunk, 0, len(entries))
	for _, c := range entries {
		out = append(out, c)
	}
	return out
}

// All returns every loaded chunk. Order is unspecified.
func (s *Store) All() []*Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Chunk, 0, len(s.chunks))
	for _, c := range s.chunks {
		out = append(out, c)
	}
	return out
}

// Len returns the number of loaded chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// ModCount returns the store's modification counter, bumped on every
// Add/Remove. Exposed for debug/inspection (SPEC_FULL.md "Debug and
// inspection API").
func (s *Store) ModCount() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modCount
}

// EvictOutsideXZ removes every chunk whose column lies outside radius
// (in chunks, squared-distance test) of (centerX, centerZ), returning
// the coordinates of every chunk it removed so the caller can retire
// any bookkeeping keyed by coordinate (e.g. the summary bus's
// summary_invalidated event — spec §4.10). Built on top of Remove so
// there is exactly one code path that retires a chunk. Grounded on the
// teacher's EvictFarChunks.
func (s *Store) EvictOutsideXZ(centerX, centerZ, radius int) []voxel.ChunkCoord {
	s.mu.RLock()
	var toDrop []voxel.ChunkCoord
	for coord := range s.chunks {
		dx := coord.X - centerX
		dz := coord.Z - centerZ
		if dx*dx+dz*dz > radius*radius {
			toDrop = append(toDrop, coord)
		}
	}
	s.mu.RUnlock()

	for _, coord := range toDrop {
		s.Remove(coord)
	}
	return toDrop
}
