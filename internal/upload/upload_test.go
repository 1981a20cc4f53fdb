package upload

import (
	"testing"

	"github.com/dantero-ps/voxelcore/internal/mesh"
	"github.com/dantero-ps/voxelcore/internal/voxel"
)

func alwaysCurrent(rev uint64) RevisionLookup {
	return func(coord voxel.ChunkCoord) (uint64, bool) { return rev, true }
}

// TestFrameBudgetCount matches spec scenario S5: 100 queued buffers,
// applied at no more than maxUploadsPerFrame per frame.
func TestFrameBudgetCount(t *testing.T) {
	m := New()
	for i := 0; i < 100; i++ {
		m.Enqueue(Item{Coord: voxel.ChunkCoord{X: i}, Buffer: mesh.Buffer{Revision: 0}}, false)
	}

	frames := 0
	applied := 0
	for m.PendingCount() > 0 && frames < 1000 {
		n := m.ApplyFrame(alwaysCurrent(0), func(coord voxel.ChunkCoord, buf mesh.Buffer) {})
		if n > MaxUploadsPerFrame {
			t.Fatalf("frame %d applied %d > hard max %d", frames, n, MaxUploadsPerFrame)
		}
		applied += n
		frames++
	}

	if applied != 100 {
		t.Fatalf("expected all 100 buffers eventually applied, got %d over %d frames", applied, frames)
	}
}

// TestStaleRevisionDiscard matches spec scenario S6: an older-revision
// buffer for the same coord is discarded, a newer one is applied.
func TestStaleRevisionDiscard(t *testing.T) {
	m := New()
	coord := voxel.ChunkCoord{X: 1, Y: 2, Z: 3}
	m.Enqueue(Item{Coord: coord, Buffer: mesh.Buffer{Revision: 5}}, true)
	m.Enqueue(Item{Coord: coord, Buffer: mesh.Buffer{Revision: 6}}, true)

	var appliedRevisions []uint64
	lookup := func(c voxel.ChunkCoord) (uint64, bool) { return 6, true }
	apply := func(c voxel.ChunkCoord, buf mesh.Buffer) {
		appliedRevisions = append(appliedRevisions, buf.Revision)
	}

	for m.PendingCount() > 0 {
		m.ApplyFrame(lookup, apply)
	}

	if len(appliedRevisions) != 1 || appliedRevisions[0] != 6 {
		t.Fatalf("expected only revision 6 applied, got %v", appliedRevisions)
	}
}

func TestPriorityBeforeNormal(t *testing.T) {
	m := New()
	m.Enqueue(Item{Coord: voxel.ChunkCoord{X: 1}, Buffer: mesh.Buffer{Revision: 0}}, false)
	m.Enqueue(Item{Coord: voxel.ChunkCoord{X: 2}, Buffer: mesh.Buffer{Revision: 0}}, true)

	var order []int
	apply := func(c voxel.ChunkCoord, buf mesh.Buffer) { order = append(order, c.X) }
	m.ApplyFrame(alwaysCurrent(0), apply)

	if len(order) < 2 || order[0] != 2 {
		t.Fatalf("expected priority item (X=2) applied first, got %v", order)
	}
}

func TestDiscardedStaleDoesNotCountAgainstBudget(t *testing.T) {
	m := New()
	coord := voxel.ChunkCoord{}
	// Enqueue more stale items than the per-frame cap, plus one valid one.
	for i := 0; i < MaxUploadsPerFrame+2; i++ {
		m.Enqueue(Item{Coord: coord, Buffer: mesh.Buffer{Revision: 999}}, false)
	}
	m.Enqueue(Item{Coord: coord, Buffer: mesh.Buffer{Revision: 1}}, false)

	applied := 0
	lookup := func(c voxel.ChunkCoord) (uint64, bool) { return 1, true }
	apply := func(c voxel.ChunkCoord, buf mesh.Buffer) { applied++ }
	n := m.ApplyFrame(lookup, apply)

	if n != applied {
		t.Fatalf("ApplyFrame return value %d should match actual applies %d", n, applied)
	}
	if applied != 1 {
		t.Fatalf("expected the one valid item applied despite %d stale items ahead of it, got %d", MaxUploadsPerFrame+2, applied)
	}
}
