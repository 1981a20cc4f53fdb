package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/dantero-ps/voxelcore/internal/chunk"
	"github.com/dantero-ps/voxelcore/internal/voxel"
)

var whiteColor = [3]float32{1, 1, 1}

// HeightSampler is the edge-policy surrogate of spec §4.5: a cheap
// terrain-height function consulted when a neighbor chunk's voxels are
// unavailable, so a missing neighbor is never treated as plain air.
// *terrain.Generator implements this via its SampleHeight method.
type HeightSampler interface {
	SampleHeight(worldX, worldZ float32) float32
}

// GrassTinter supplies the biome-blended grass-top vertex color of spec
// §4.5's tinting rule. *terrain.Generator implements this via GrassTint.
type GrassTinter interface {
	GrassTint(worldX, worldZ float32) [3]float32
}

// Neighbors holds a read-only snapshot of each of the six axis-aligned
// neighbor chunks, indexed by voxel.BlockFace. A nil entry means that
// neighbor is not currently loaded.
type Neighbors [voxel.NumFaces]*chunk.Snapshot

func inBounds(x, y, z int) bool {
	return x >= 0 && x < voxel.ChunkWidth &&
		y >= 0 && y < voxel.ChunkHeight &&
		z >= 0 && z < voxel.ChunkDepth
}

// Build runs the chunk-mesh task of spec §4.5 against a self-snapshot
// and its six neighbor snapshots, producing a Buffer tagged with
// self.Revision. self and neighbors must have been taken consistently
// (spec I4) before calling Build — this function performs no locking of
// its own and touches no live *chunk.Chunk.
func Build(self chunk.Snapshot, neighbors Neighbors, atlas voxel.Atlas, sampler HeightSampler, tinter GrassTinter) Buffer {
	bd := &builder{}

	originX, originY, originZ := self.Coord.WorldOrigin()

	for x := 0; x < voxel.ChunkWidth; x++ {
		for y := 0; y < voxel.ChunkHeight; y++ {
			for z := 0; z < voxel.ChunkDepth; z++ {
				id := self.Get(x, y, z)
				if !voxel.IsSolid(id) {
					continue
				}

				for face := voxel.BlockFace(0); face < voxel.NumFaces; face++ {
					if faceOccluded(self, neighbors, sampler, originX, originY, originZ, x, y, z, face) {
						continue
					}
					emitFace(bd, tinter, id, face, originX, originY, originZ, x, y, z, atlas)
				}
			}
		}
	}

	return bd.finalize(self.Coord, self.Revision)
}

// faceOccluded implements §4.5 step 1's neighbor test plus the edge
// policy for absent neighbors.
func faceOccluded(
	self chunk.Snapshot,
	neighbors Neighbors,
	sampler HeightSampler,
	originX, originY, originZ int,
	x, y, z int,
	face voxel.BlockFace,
) bool {
	off := voxel.FaceOffsets[face]
	nx, ny, nz := x+off[0], y+off[1], z+off[2]

	if inBounds(nx, ny, nz) {
		return voxel.IsSolid(self.Get(nx, ny, nz))
	}

	if snap := neighbors[face]; snap != nil {
		wx := voxel.FloorMod(nx, voxel.ChunkWidth)
		wy := voxel.FloorMod(ny, voxel.ChunkHeight)
		wz := voxel.FloorMod(nz, voxel.ChunkDepth)
		return voxel.IsSolid(snap.Get(wx, wy, wz))
	}

	// Edge policy: neighbor chunk not loaded. Consult the height
	// surrogate instead of assuming air (spec §4.5 "Edge policy for
	// absent neighbors").
	worldX := float32(originX + nx)
	worldY := float32(originY + ny)
	worldZ := float32(originZ + nz)
	return worldY < sampler.SampleHeight(worldX, worldZ)
}

func emitFace(
	bd *builder,
	tinter GrassTinter,
	id voxel.BlockId,
	face voxel.BlockFace,
	originX, originY, originZ int,
	x, y, z int,
	atlas voxel.Atlas,
) {
	corners := voxel.FaceCorners[face]
	var positions [4]mgl32.Vec3
	for i, corner := range corners {
		p := voxel.CornerPosition(corner)
		positions[i] = mgl32.Vec3{float32(x) + p[0], float32(y) + p[1], float32(z) + p[2]}
	}

	tile := voxel.FaceTile(id, face)
	uvs := atlas.TileUV(tile)

	color := whiteColor
	info := voxel.Info(id)
	if face == voxel.FaceTop && info.TintTop {
		color = tinter.GrassTint(float32(originX+x), float32(originZ+z))
	}

	bd.appendQuad(positions, uvs, color)
}
