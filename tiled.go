package tileset

import (
	"encoding/xml"
	"fmt"

	"github.com/lafriks/go-tiled"
)

// FromTiled builds a Tileset from one loaded by github.com/lafriks/go-tiled
// (eg. one of the tilesets of a loaded map) with the default config.
func FromTiled(in *tiled.Tileset) (*Tileset, error) {
	return defaultLoader.FromTiled(in)
}

// FromTiled builds a Tileset from one loaded by github.com/lafriks/go-tiled
func (l *Loader) FromTiled(in *tiled.Tileset) (*Tileset, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: nil", ErrNotTileset)
	}

	raw := &tsxTileset{
		XMLName:    xml.Name{Local: "tileset"},
		Name:       in.Name,
		TileWidth:  in.TileWidth,
		TileHeight: in.TileHeight,
		Spacing:    in.Spacing,
		Margin:     in.Margin,
		TileCount:  in.TileCount,
		Columns:    in.Columns,
		Properties: fromTiledProperties(in.Properties),
	}
	if in.Image != nil {
		raw.Image = &Image{
			Source: in.Image.Source,
			Width:  in.Image.Width,
			Height: in.Image.Height,
		}
	}

	for _, t := range in.Tiles {
		rt := &tsxTile{
			ID:         int(t.ID),
			Properties: fromTiledProperties(t.Properties),
		}

		for _, og := range t.ObjectGroups {
			if rt.ObjectGroup == nil {
				rt.ObjectGroup = &tsxObjectGroup{DrawOrder: og.DrawOrder}
			}
			for _, o := range og.Objects {
				rt.ObjectGroup.Objects = append(rt.ObjectGroup.Objects, fromTiledObject(o))
			}
		}

		raw.Tiles = append(raw.Tiles, rt)
	}

	return l.build(raw)
}

// fromTiledProperties converts go-tiled properties into our raw list
func fromTiledProperties(in tiled.Properties) []*Property {
	if len(in) == 0 {
		return nil
	}
	out := make([]*Property, 0, len(in))
	for _, p := range in {
		out = append(out, &Property{Name: p.Name, Type: p.Type, Value: p.Value})
	}
	return out
}

// fromTiledObject converts a go-tiled object into our raw object
func fromTiledObject(o *tiled.Object) *tsxObject {
	obj := &tsxObject{
		ID:         int(o.ID),
		Name:       o.Name,
		Type:       o.Class,
		GID:        o.GID,
		X:          o.X,
		Y:          o.Y,
		Width:      o.Width,
		Height:     o.Height,
		Properties: fromTiledProperties(o.Properties),
	}

	if obj.Type == "" {
		obj.Type = o.Type //nolint:staticcheck // older files use type=
	}

	switch {
	case len(o.Polygons) > 0 && o.Polygons[0].Points != nil:
		pts := []Point{}
		for _, p := range *o.Polygons[0].Points {
			pts = append(pts, Point{X: p.X, Y: p.Y})
		}
		obj.Polygon = &tsxPoints{Points: encodePoints(pts)}
	case len(o.PolyLines) > 0:
		obj.Polyline = &tsxPoints{}
	case len(o.Ellipses) > 0:
		obj.Ellipse = &tsxMarker{}
	}

	return obj
}
