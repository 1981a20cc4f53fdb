package voxel

import "github.com/go-gl/mathgl/mgl32"

// Atlas describes a grid of equally-sized texture tiles packed into one
// image, per spec §4.1. Tile index -> UV math only; loading the backing
// image is an external asset-pipeline concern (spec §1).
type Atlas struct {
	TilesWide, TilesHigh int
	// Padding is the UV inset applied on every edge of a tile to avoid
	// seam bleeding from neighboring tiles during mipmapping/filtering.
	Padding float32
}

// NewAtlas builds an Atlas with a default seam-bleed padding.
func NewAtlas(tilesWide, tilesHigh int) Atlas {
	return Atlas{TilesWide: tilesWide, TilesHigh: tilesHigh, Padding: 1.0 / 256.0}
}

// TileUV returns the 4 UV corners for tile index t in the same
// corner ordering FaceCorners uses (bottom-left, bottom-right,
// top-right, top-left of the tile, i.e. CCW from the tile's own
// bottom-left origin).
//
// The atlas image is addressed top-origin (row 0 is the top row of the
// image), but UV space is bottom-origin, so the row is flipped before
// computing the V coordinate.
func (a Atlas) TileUV(t int) [4]mgl32.Vec2 {
	col := t % a.TilesWide
	row := t / a.TilesWide

	tileW := 1.0 / float32(a.TilesWide)
	tileH := 1.0 / float32(a.TilesHigh)

	// Flip row so V increases upward while image rows are top-origin.
	flippedRow := a.TilesHigh - 1 - row

	u0 := float32(col)*tileW + a.Padding
	v0 := float32(flippedRow)*tileH + a.Padding
	u1 := float32(col+1)*tileW - a.Padding
	v1 := float32(flippedRow+1)*tileH - a.Padding

	return [4]mgl32.Vec2{
		{u0, v0}, // bottom-left
		{u1, v0}, // bottom-right
		{u1, v1}, // top-right
		{u0, v1}, // top-left
	}
}
