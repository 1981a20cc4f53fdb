// Package voxel holds the pure value types shared by the rest of the
// runtime: block ids, chunk dimensions, face tables and texture-atlas
// UV math. Nothing in this package touches a goroutine, a lock, or a
// clock.
package voxel

// BlockId identifies a block type. Reserve headroom above the built-in
// set for game-specific additions.
type BlockId uint16

// Built-in block ids. Air is always zero.
const (
	Air BlockId = iota
	Bedrock
	Stone
	Dirt
	Grass
	Sand
)

// BlockFace indexes one of the six axis-aligned faces of a cube, in the
// canonical order fixed by the spec: (-Z, +Z, +Y, -Y, -X, +X).
type BlockFace int

const (
	FaceSouth BlockFace = iota // -Z
	FaceNorth                  // +Z
	FaceTop                    // +Y
	FaceBottom                 // -Y
	FaceWest                   // -X
	FaceEast                   // +X
)

// NumFaces is the number of entries in BlockFace's canonical ordering.
const NumFaces = 6

// FaceOffsets gives the neighbor-voxel offset for each face, indexed by
// BlockFace.
var FaceOffsets = [NumFaces][3]int{
	FaceSouth:  {0, 0, -1},
	FaceNorth:  {0, 0, 1},
	FaceTop:    {0, 1, 0},
	FaceBottom: {0, -1, 0},
	FaceWest:   {-1, 0, 0},
	FaceEast:   {1, 0, 0},
}

// FaceNormals gives the outward unit normal for each face.
var FaceNormals = [NumFaces][3]float32{
	FaceSouth:  {0, 0, -1},
	FaceNorth:  {0, 0, 1},
	FaceTop:    {0, 1, 0},
	FaceBottom: {0, -1, 0},
	FaceWest:   {-1, 0, 0},
	FaceEast:   {1, 0, 0},
}

// unitCubeCorners are the 8 corners of a unit cube anchored at the
// block's minimum corner (0,0,0) to (1,1,1).
var unitCubeCorners = [8][3]float32{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// FaceCorners gives, for each face, the 4 indices into unitCubeCorners
// that form the quad, in counter-clockwise winding as seen from outside
// the cube (looking against the face normal).
var FaceCorners = [NumFaces][4]int{
	FaceSouth:  {1, 0, 3, 2}, // -Z, viewed from -Z looking toward +Z
	FaceNorth:  {4, 5, 6, 7}, // +Z
	FaceTop:    {3, 7, 6, 2}, // +Y
	FaceBottom: {0, 1, 5, 4}, // -Y
	FaceWest:   {0, 4, 7, 3}, // -X
	FaceEast:   {5, 1, 2, 6}, // +X
}

// CornerPosition returns the local-space position of a unit-cube corner.
func CornerPosition(corner int) [3]float32 {
	return unitCubeCorners[corner]
}

// BlockInfo describes the static properties of a block id.
type BlockInfo struct {
	Name  string
	Solid bool
	// Transparent blocks (glass, leaves, water) do not occlude a
	// neighboring face even though they are solid for collision.
	Transparent bool
	// TopTile, SideTile, BottomTile are atlas tile indices for
	// FaceTile's default resolution; -1 means "unset, use SideTile".
	TopTile, SideTile, BottomTile int
	// TintTop, when true, marks the top face as receiving the biome
	// blend color (the grass-top rule, spec §4.5).
	TintTop bool
}

// registry is the built-in block table. Index is the BlockId.
var registry = map[BlockId]BlockInfo{
	Air:     {Name: "air", Solid: false, Transparent: true},
	Bedrock: {Name: "bedrock", Solid: true, TopTile: 0, SideTile: 0, BottomTile: 0},
	Stone:   {Name: "stone", Solid: true, TopTile: 1, SideTile: 1, BottomTile: 1},
	Dirt:    {Name: "dirt", Solid: true, TopTile: 2, SideTile: 2, BottomTile: 2},
	Grass:   {Name: "grass", Solid: true, TopTile: 3, SideTile: 4, BottomTile: 2, TintTop: true},
	Sand:    {Name: "sand", Solid: true, TopTile: 5, SideTile: 5, BottomTile: 5},
}

// Info returns the static properties of id, or a zero-value (solid,
// opaque, tile 0) BlockInfo for unregistered ids — unknown blocks render
// rather than vanish.
func Info(id BlockId) BlockInfo {
	if info, ok := registry[id]; ok {
		return info
	}
	return BlockInfo{Name: "unknown", Solid: true}
}

// IsSolid reports whether id occludes neighboring faces for the purposes
// of face culling. Air and transparent blocks are not solid.
func IsSolid(id BlockId) bool {
	info := Info(id)
	return info.Solid && !info.Transparent
}

// FaceTile resolves the atlas tile index for a given block id and face.
// Grass is the canonical case with distinct top/side/bottom tiles; other
// blocks default to SideTile for every face unless TopTile/BottomTile
// differ.
func FaceTile(id BlockId, face BlockFace) int {
	info := Info(id)
	switch face {
	case FaceTop:
		if info.TopTile >= 0 {
			return info.TopTile
		}
	case FaceBottom:
		if info.BottomTile >= 0 {
			return info.BottomTile
		}
	}
	return info.SideTile
}
