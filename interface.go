package tileset

// Lookup is something that can answer per tile questions by local tile id
type Lookup interface {
	// Flags set on tile `id` (empty if none)
	Flags(id int) Flags

	// Shapes are the collision shapes of tile `id` (empty if none)
	Shapes(id int) []Shape

	// TileSize is the width, height of a tile in pixels
	TileSize() (int, int)
}
