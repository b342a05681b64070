package tileset

import (
	"fmt"
)

// Tiled stores flip / rotation flags in the top bits of a global id
const gidFlagMask = uint32(0xF0000000)

// Grid is a tile layer: Width x Height global tile ids, row by row, where 0
// is the nil tile & ids from FirstGID on belong to the tileset.
type Grid struct {
	Width    int // in tiles
	Height   int // in tiles
	FirstGID uint32

	tiles  []uint32
	lookup Lookup
}

// NewGrid binds layer data to a tileset.
func NewGrid(width, height int, firstGID uint32, gids []uint32, lookup Lookup) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid grid size %dx%d", width, height)
	}
	if len(gids) != width*height {
		return nil, fmt.Errorf("grid %dx%d expects %d tiles, got %d", width, height, width*height, len(gids))
	}
	if firstGID == 0 {
		firstGID = 1
	}
	return &Grid{
		Width:    width,
		Height:   height,
		FirstGID: firstGID,
		tiles:    gids,
		lookup:   lookup,
	}, nil
}

// Lookup returns the tileset the grid is bound to
func (g *Grid) Lookup() Lookup {
	return g.lookup
}

// At returns the local tile id at (x, y). False is returned for the nil tile,
// ids belonging to another tileset & coords off the grid.
func (g *Grid) At(x, y int) (int, bool) {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return 0, false
	}

	// index = y * width + x
	gid := g.tiles[y*g.Width+x] &^ gidFlagMask
	if gid == 0 || gid < g.FirstGID {
		return 0, false
	}
	return int(gid - g.FirstGID), true
}

// FlagsAt returns the flags of the tile at (x, y)
func (g *Grid) FlagsAt(x, y int) Flags {
	id, ok := g.At(x, y)
	if !ok {
		return Flags{}
	}
	return g.lookup.Flags(id)
}

// ShapesAt returns the collision shapes of the tile at (x, y)
func (g *Grid) ShapesAt(x, y int) []Shape {
	id, ok := g.At(x, y)
	if !ok {
		return nil
	}
	return g.lookup.Shapes(id)
}

// FindFlag returns the first cell whose tile has flag `name` set.
// Columns are searched left to right, each from the bottom row up.
func (g *Grid) FindFlag(name string) (int, int, bool) {
	for x := 0; x < g.Width; x++ {
		for y := g.Height - 1; y >= 0; y-- {
			if g.FlagsAt(x, y).Has(name) {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

// SpawnPoint returns the pixel position to spawn at: horizontally centred on
// the first "spawn" tile (see FindFlag) and level with its top edge.
func (g *Grid) SpawnPoint() (float64, float64, bool) {
	x, y, ok := g.FindFlag("spawn")
	if !ok {
		return 0, 0, false
	}
	tw, th := g.lookup.TileSize()
	return float64(x*tw) + float64(tw)/2, float64(y * th), true
}
