package chunk

import (
	"testing"

	"github.com/dantero-ps/voxelcore/internal/voxel"
)

func TestStoreGetOrCreateIsIdempotent(t *testing.T) {
	s := NewStore()
	coord := voxel.ChunkCoord{X: 1, Y: 2, Z: 3}
	a := s.GetOrCreate(coord)
	b := s.GetOrCreate(coord)
	if a != b {
		t.Fatal("GetOrCreate returned two different chunks for the same coordinate")
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 chunk, got %d", s.Len())
	}
}

func TestStoreNeighborLookup(t *testing.T) {
	s := NewStore()
	center := voxel.ChunkCoord{X: 0, Y: 0, Z: 0}
	s.GetOrCreate(center)
	east := s.GetOrCreate(center.Neighbor(voxel.FaceEast))

	if got := s.Neighbor(center, voxel.FaceEast); got != east {
		t.Fatal("Neighbor did not resolve the +X chunk")
	}
	if got := s.Neighbor(center, voxel.FaceWest); got != nil {
		t.Fatalf("expected nil for unloaded -X neighbor, got %+v", got)
	}
}

func TestStoreColumnQuery(t *testing.T) {
	s := NewStore()
	s.GetOrCreate(voxel.ChunkCoord{X: 2, Y: -1, Z: 5})
	s.GetOrCreate(voxel.ChunkCoord{X: 2, Y: 0, Z: 5})
	s.GetOrCreate(voxel.ChunkCoord{X: 2, Y: 1, Z: 5})
	s.GetOrCreate(voxel.ChunkCoord{X: 3, Y: 0, Z: 5})

	col := s.Column(voxel.ColumnCoord{X: 2, Z: 5})
	if len(col) != 3 {
		t.Fatalf("expected 3 chunks in column (2,5), got %d", len(col))
	}
}

func TestStoreRemoveDropsChunk(t *testing.T) {
	s := NewStore()
	coord := voxel.ChunkCoord{X: 0, Y: 0, Z: 0}
	c := s.GetOrCreate(coord)
	s.Remove(coord)

	if s.Has(coord) {
		t.Fatal("expected chunk to be removed from store")
	}
	if c.State() != Dropped {
		t.Fatalf("expected removed chunk to transition to Dropped, got %s", c.State())
	}
}

func TestEvictOutsideXZ(t *testing.T) {
	s := NewStore()
	near := voxel.ChunkCoord{X: 0, Y: 0, Z: 0}
	far := voxel.ChunkCoord{X: 50, Y: 0, Z: 50}
	s.GetOrCreate(near)
	s.GetOrCreate(far)

	removed := s.EvictOutsideXZ(0, 0, 8)
	if len(removed) != 1 || removed[0] != far {
		t.Fatalf("expected [%v] evicted, got %v", far, removed)
	}
	if !s.Has(near) {
		t.Fatal("near chunk should remain loaded")
	}
	if s.Has(far) {
		t.Fatal("far chunk should have been evicted")
	}
}

func TestModCountIncrementsOnAddAndRemove(t *testing.T) {
	s := NewStore()
	start := s.ModCount()
	coord := voxel.ChunkCoord{X: 9, Y: 9, Z: 9}
	s.GetOrCreate(coord)
	if s.ModCount() != start+1 {
		t.Fatalf("expected modCount to increment on add, got %d", s.ModCount())
	}
	s.Remove(coord)
	if s.ModCount() != start+2 {
		t.Fatalf("expected modCount to increment on remove, got %d", s.ModCount())
	}
}
