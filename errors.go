package tileset

import (
	"errors"
)

var (
	// ErrNotTileset is returned when the document root isn't a <tileset>
	ErrNotTileset = errors.New("not a tileset")

	// ErrTileOutOfRange is returned for tile ids outside [0, tilecount)
	ErrTileOutOfRange = errors.New("tile id out of range")

	// ErrDuplicateTile is returned when a tile id is listed more than once
	ErrDuplicateTile = errors.New("duplicate tile id")

	// ErrNoGrid is returned when the tileset has no image grid (no columns)
	ErrNoGrid = errors.New("tileset has no image grid")

	// ErrUnknownTileset is returned by an Index asked for a name it doesn't hold
	ErrUnknownTileset = errors.New("unknown tileset")
)
