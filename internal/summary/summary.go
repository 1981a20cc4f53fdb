// Package summary implements the column-summary task of spec §4.6
// (component F): for each (x,z) column in a chunk, the topmost non-air
// voxel's height, block id, and biome.
//
// Grounded on dantero-ps-mini-mc-go/internal/world/bio_generator.go's
// HeightAt (a downward raycast per column) — generalized from a
// recompute-on-demand query into a batch scan producing one record per
// column, since the spec requires publishing the whole W*D array to a
// bus rather than answering point queries.
package summary

import (
	"github.com/dantero-ps/voxelcore/internal/biome"
	"github.com/dantero-ps/voxelcore/internal/chunk"
	"github.com/dantero-ps/voxelcore/internal/voxel"
)

// Column is one (x,z) entry of a chunk's column-summary array.
type Column struct {
	SurfaceLocalY int
	SurfaceWorldY int
	SurfaceBlock  voxel.BlockId
	SurfaceBiome  biome.Id
	HasSurface    bool
}

// Grid is the W*D column-summary array for one chunk.
type Grid struct {
	Coord    voxel.ChunkCoord
	Revision uint64
	Columns  [voxel.ChunkWidth][voxel.ChunkDepth]Column
}

// Build scans snap top-to-bottom per column and records the first
// non-air voxel. biomes supplies the dominant biome per column computed
// during terrain generation (terrain.Result.Biomes); passing a zero
// value is valid and simply reports BiomeId 0 for every column.
func Build(snap chunk.Snapshot, biomes [voxel.ChunkWidth][voxel.ChunkDepth]biome.Id) Grid {
	_, originY, _ := snap.Coord.WorldOrigin()

	g := Grid{Coord: snap.Coord, Revision: snap.Revision}
	for x := 0; x < voxel.ChunkWidth; x++ {
		for z := 0; z < voxel.ChunkDepth; z++ {
			col := Column{SurfaceBiome: biomes[x][z]}
			for y := voxel.ChunkHeight - 1; y >= 0; y-- {
				id := snap.Get(x, y, z)
				if id != voxel.Air {
					col.SurfaceLocalY = y
					col.SurfaceWorldY = originY + y
					col.SurfaceBlock = id
					col.HasSurface = true
					break
				}
			}
			g.Columns[x][z] = col
		}
	}
	return g
}
