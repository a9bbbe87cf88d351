package renderer

import (
	"image"
	"math/rand"
)

// Tile is a rectangular block of pixels rendered as one unit of work
type Tile struct {
	ID     int             // Unique tile identifier, row-major
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	Seed   int64           // Seed of the tile's private random generator
}

// NewRandom returns a fresh generator for the tile. Rendering a tile always
// starts from the same generator state so results do not depend on which
// worker picked it up.
func (t *Tile) NewRandom() *rand.Rand {
	return rand.New(rand.NewSource(t.Seed))
}

// NewTileGrid splits the image into tiles in row-major order
func NewTileGrid(width, height, tileSize int, seed int64) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, &Tile{
				ID:     tileID,
				Bounds: image.Rect(x0, y0, x1, y1),
				Seed:   seed + int64(tileID),
			})
			tileID++
		}
	}

	return tiles
}
