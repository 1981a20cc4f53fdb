package chunk

import (
	"sync"
	"testing"

	"github.com/dantero-ps/voxelcore/internal/voxel"
)

func TestGenerateLifecycle(t *testing.T) {
	c := New(voxel.ChunkCoord{})
	if c.State() != Empty {
		t.Fatalf("expected Empty, got %s", c.State())
	}

	blocks := c.BeginGenerate()
	if c.State() != Generating {
		t.Fatalf("expected Generating, got %s", c.State())
	}
	blocks[localIndex(1, 2, 3)] = voxel.Stone
	c.FinishGenerate()

	if c.State() != VoxelsReady {
		t.Fatalf("expected VoxelsReady, got %s", c.State())
	}
	if c.Revision() != 1 {
		t.Fatalf("expected revision 1 after first VoxelsReady, got %d", c.Revision())
	}
	if got := c.Get(1, 2, 3); got != voxel.Stone {
		t.Fatalf("expected Stone at (1,2,3), got %v", got)
	}
}

func TestIllegalTransitionPanics(t *testing.T) {
	c := New(voxel.ChunkCoord{})
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on illegal transition Empty -> MeshReady")
		}
	}()
	c.Transition(MeshReady)
}

func TestSetBumpsRevisionOnlyWhenChanged(t *testing.T) {
	c := New(voxel.ChunkCoord{})
	c.BeginGenerate()
	c.FinishGenerate()
	rev := c.Revision()

	if changed := c.Set(0, 0, 0, voxel.Air); changed {
		t.Fatal("expected no-op Set(Air) over existing Air to report unchanged")
	}
	if c.Revision() != rev {
		t.Fatalf("revision should not change on no-op Set, got %d want %d", c.Revision(), rev)
	}

	if changed := c.Set(0, 0, 0, voxel.Stone); !changed {
		t.Fatal("expected Set(Stone) to report changed")
	}
	if c.Revision() != rev+1 {
		t.Fatalf("expected revision to bump once, got %d want %d", c.Revision(), rev+1)
	}
}

func TestSnapshotIsolatedFromLaterEdits(t *testing.T) {
	c := New(voxel.ChunkCoord{})
	c.BeginGenerate()
	c.FinishGenerate()
	c.Set(5, 5, 5, voxel.Stone)

	snap := c.Snapshot()
	if snap.Get(5, 5, 5) != voxel.Stone {
		t.Fatalf("expected snapshot to see Stone at time of capture")
	}

	c.Set(5, 5, 5, voxel.Dirt)
	if snap.Get(5, 5, 5) != voxel.Stone {
		t.Fatalf("snapshot mutated by a later edit: got %v", snap.Get(5, 5, 5))
	}
	if c.Get(5, 5, 5) != voxel.Dirt {
		t.Fatalf("live chunk did not observe the edit")
	}
}

func TestRemeshPendingCoalesces(t *testing.T) {
	c := New(voxel.ChunkCoord{})
	c.MarkRemeshPending()
	c.MarkRemeshPending()
	if !c.TakeRemeshPending() {
		t.Fatal("expected pending flag to be set")
	}
	if c.TakeRemeshPending() {
		t.Fatal("expected flag to clear after TakeRemeshPending")
	}
}

func TestConcurrentSnapshotsDuringEdits(t *testing.T) {
	c := New(voxel.ChunkCoord{})
	c.BeginGenerate()
	c.FinishGenerate()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = c.Snapshot()
			}
		}()
	}
	for i := 0; i < 50; i++ {
		c.Set(i%voxel.ChunkWidth, 0, 0, voxel.Stone)
	}
	wg.Wait()
}

func TestSurfaceHeight(t *testing.T) {
	c := New(voxel.ChunkCoord{})
	c.BeginGenerate()
	c.FinishGenerate()
	if h := c.SurfaceHeight(0, 0); h != -1 {
		t.Fatalf("expected -1 for all-air column, got %d", h)
	}
	c.Set(0, 4, 0, voxel.Stone)
	if h := c.SurfaceHeight(0, 0); h != 4 {
		t.Fatalf("expected surface height 4, got %d", h)
	}
}
