package mesh

import (
	"testing"

	"github.com/dantero-ps/voxelcore/internal/chunk"
	"github.com/dantero-ps/voxelcore/internal/voxel"
)

type constSampler float32

func (c constSampler) SampleHeight(worldX, worldZ float32) float32 { return float32(c) }

type constTinter [3]float32

func (c constTinter) GrassTint(worldX, worldZ float32) [3]float32 { return [3]float32(c) }

var testAtlas = voxel.NewAtlas(8, 8)

func fillFlatPlane(c *chunk.Chunk) {
	blocks := c.BeginGenerate()
	for x := 0; x < voxel.ChunkWidth; x++ {
		for z := 0; z < voxel.ChunkDepth; z++ {
			set := func(y int, id voxel.BlockId) {
				blocks[x+voxel.ChunkWidth*(y+voxel.ChunkHeight*z)] = id
			}
			set(0, voxel.Bedrock)
			set(1, voxel.Stone)
			set(2, voxel.Stone)
			set(3, voxel.Stone)
			set(4, voxel.Dirt)
			set(5, voxel.Dirt)
			set(6, voxel.Dirt)
			set(7, voxel.Dirt)
			set(8, voxel.Grass)
		}
	}
	c.FinishGenerate()
}

// TestFlatPlaneFaceCount matches spec scenario S1: a 9-block-tall flat
// grass plane with no loaded neighbors and a surrogate height far below
// the chunk, so every boundary face is emitted.
func TestFlatPlaneFaceCount(t *testing.T) {
	c := chunk.New(voxel.ChunkCoord{})
	fillFlatPlane(c)

	var neighbors Neighbors
	buf := Build(c.Snapshot(), neighbors, testAtlas, constSampler(-1000), constTinter{0, 1, 0})

	const (
		topFaces    = voxel.ChunkWidth * voxel.ChunkDepth
		bottomFaces = voxel.ChunkWidth * voxel.ChunkDepth
		wallHeight  = 9
		sideFaces   = 4 * wallHeight * voxel.ChunkWidth
	)
	wantFaces := topFaces + bottomFaces + sideFaces

	if got := buf.VertexCount(); got != wantFaces*4 {
		t.Fatalf("expected %d vertices (%d faces), got %d", wantFaces*4, wantFaces, got)
	}
	if got := buf.IndexCount(); got != wantFaces*6 {
		t.Fatalf("expected %d indices, got %d", wantFaces*6, got)
	}
}

// TestFlatPlaneBottomCulledByNeighbor matches S1's second clause: with a
// neighbor below already VoxelsReady and entirely solid, the bedrock
// bottom faces are culled.
func TestFlatPlaneBottomCulledByNeighbor(t *testing.T) {
	c := chunk.New(voxel.ChunkCoord{})
	fillFlatPlane(c)

	below := chunk.New(voxel.ChunkCoord{Y: -1})
	belowBlocks := below.BeginGenerate()
	for i := range belowBlocks {
		belowBlocks[i] = voxel.Stone
	}
	below.FinishGenerate()

	var neighbors Neighbors
	belowSnap := below.Snapshot()
	neighbors[voxel.FaceBottom] = &belowSnap

	buf := Build(c.Snapshot(), neighbors, testAtlas, constSampler(-1000), constTinter{0, 1, 0})

	const (
		topFaces   = voxel.ChunkWidth * voxel.ChunkDepth
		wallHeight = 9
		sideFaces  = 4 * wallHeight * voxel.ChunkWidth
	)
	wantFaces := topFaces + sideFaces // no bottom faces

	if got := buf.VertexCount(); got != wantFaces*4 {
		t.Fatalf("expected %d vertices with bottom culled, got %d", wantFaces*4, got)
	}
}

// TestSingleBlockIsland matches spec scenario S2.
func TestSingleBlockIsland(t *testing.T) {
	c := chunk.New(voxel.ChunkCoord{})
	blocks := c.BeginGenerate()
	blocks[8+voxel.ChunkWidth*(8+voxel.ChunkHeight*8)] = voxel.Stone
	c.FinishGenerate()

	var neighbors Neighbors
	buf := Build(c.Snapshot(), neighbors, testAtlas, constSampler(-1000), constTinter{0, 1, 0})

	if got := buf.VertexCount(); got != 24 {
		t.Fatalf("expected 24 vertices, got %d", got)
	}
	if got := buf.IndexCount(); got != 36 {
		t.Fatalf("expected 36 indices, got %d", got)
	}
	if buf.Wide() {
		t.Fatal("expected 16-bit indices for a tiny mesh")
	}
}

// TestNoFaceBetweenTwoInteriorSolids: adjacent solid voxels inside one
// chunk must never both emit a face on their shared interface.
func TestNoFaceBetweenTwoInteriorSolids(t *testing.T) {
	c := chunk.New(voxel.ChunkCoord{})
	blocks := c.BeginGenerate()
	blocks[5+voxel.ChunkWidth*(5+voxel.ChunkHeight*5)] = voxel.Stone
	blocks[6+voxel.ChunkWidth*(5+voxel.ChunkHeight*5)] = voxel.Stone
	c.FinishGenerate()

	var neighbors Neighbors
	buf := Build(c.Snapshot(), neighbors, testAtlas, constSampler(-1000), constTinter{0, 1, 0})

	// Two adjacent solid blocks: 2*6 faces - 2 shared faces = 10 faces.
	if got := buf.VertexCount(); got != 10*4 {
		t.Fatalf("expected 10 faces (40 vertices) with the shared interface culled, got %d vertices", got)
	}
}

// TestBoundaryCulledAcrossChunks matches S3: two chunks full of Stone,
// meshed with the correct neighbor present, must have zero faces on
// their shared plane.
func TestBoundaryCulledAcrossChunks(t *testing.T) {
	a := chunk.New(voxel.ChunkCoord{X: 0})
	b := chunk.New(voxel.ChunkCoord{X: 1})
	for _, c := range []*chunk.Chunk{a, b} {
		blocks := c.BeginGenerate()
		for i := range blocks {
			blocks[i] = voxel.Stone
		}
		c.FinishGenerate()
	}

	var aNeighbors, bNeighbors Neighbors
	bSnap := b.Snapshot()
	aSnap := a.Snapshot()
	aNeighbors[voxel.FaceEast] = &bSnap
	bNeighbors[voxel.FaceWest] = &aSnap

	bufA := Build(a.Snapshot(), aNeighbors, testAtlas, constSampler(-1000), constTinter{0, 1, 0})
	bufB := Build(b.Snapshot(), bNeighbors, testAtlas, constSampler(-1000), constTinter{0, 1, 0})

	// Every fully-interior solid chunk surrounded only on one side by a
	// matching solid neighbor still emits faces on its other 5 sides;
	// what matters is that the shared x=16 plane contributes none. A
	// fully solid 16^3 chunk with one face fully culled has
	// 6*16*16 - 16*16 = 5*16*16 faces.
	want := 5 * voxel.ChunkWidth * voxel.ChunkDepth * 4
	if got := bufA.VertexCount(); got != want {
		t.Fatalf("chunk A: expected %d vertices, got %d", want, got)
	}
	if got := bufB.VertexCount(); got != want {
		t.Fatalf("chunk B: expected %d vertices, got %d", want, got)
	}
}

func TestMeshDeterministic(t *testing.T) {
	c := chunk.New(voxel.ChunkCoord{})
	fillFlatPlane(c)
	var neighbors Neighbors

	buf1 := Build(c.Snapshot(), neighbors, testAtlas, constSampler(-1000), constTinter{0, 1, 0})
	buf2 := Build(c.Snapshot(), neighbors, testAtlas, constSampler(-1000), constTinter{0, 1, 0})

	if buf1.VertexCount() != buf2.VertexCount() || buf1.IndexCount() != buf2.IndexCount() {
		t.Fatal("mesh task is not deterministic for identical inputs")
	}
	for i := range buf1.Positions {
		if buf1.Positions[i] != buf2.Positions[i] {
			t.Fatalf("vertex %d differs between identical runs", i)
		}
	}
}
