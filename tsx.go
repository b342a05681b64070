/* this file is a simplified set of structs for reading & writing TSX files.

We only need the parts of the tileset format that describe the image grid,
per tile properties & per tile collision objects, so that's all we parse.
Anything else found in the file is dropped on re-encode.
*/
package tileset

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// tsxTileset is the raw XML structure of a .tsx file.
// XMLName is untagged so we can report a useful error for non tileset roots
// instead of the generic "expected element" from encoding/xml.
type tsxTileset struct {
	XMLName      xml.Name
	Version      string      `xml:"version,attr,omitempty"`
	TiledVersion string      `xml:"tiledversion,attr,omitempty"`
	Name         string      `xml:"name,attr"`
	TileWidth    int         `xml:"tilewidth,attr"`
	TileHeight   int         `xml:"tileheight,attr"`
	Spacing      int         `xml:"spacing,attr,omitempty"`
	Margin       int         `xml:"margin,attr,omitempty"`
	TileCount    int         `xml:"tilecount,attr"`
	Columns      int         `xml:"columns,attr"`
	Properties   []*Property `xml:"properties>property"`
	Image        *Image      `xml:"image"`
	Tiles        []*tsxTile  `xml:"tile"`
}

// Property is a TSX file structure which holds a Tiled property.
type Property struct {
	Name  string `xml:"name,attr"`
	Type  string `xml:"type,attr,omitempty"` // string (default), int, float, bool + other (kept as string)
	Value string `xml:"value,attr"`
}

// Image is the source image of a tileset
type Image struct {
	Source string `xml:"source,attr"`
	Trans  string `xml:"trans,attr,omitempty"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

// tsxTile is a <tile> entry; only tiles with non default metadata appear.
type tsxTile struct {
	ID          int             `xml:"id,attr"`
	Type        string          `xml:"type,attr,omitempty"`
	Properties  []*Property     `xml:"properties>property"`
	ObjectGroup *tsxObjectGroup `xml:"objectgroup"`
}

// tsxObjectGroup holds a tile's collision objects.
// Draw order is cosmetic, we keep it only to write it back out.
type tsxObjectGroup struct {
	DrawOrder string       `xml:"draworder,attr,omitempty"`
	Objects   []*tsxObject `xml:"object"`
}

// tsxObject is a single collision object. With no child element it's a
// rectangle, otherwise the child says what it is.
type tsxObject struct {
	ID         int         `xml:"id,attr"`
	Name       string      `xml:"name,attr,omitempty"`
	Type       string      `xml:"type,attr,omitempty"`
	GID        uint32      `xml:"gid,attr,omitempty"`
	X          float64     `xml:"x,attr"`
	Y          float64     `xml:"y,attr"`
	Width      float64     `xml:"width,attr,omitempty"`
	Height     float64     `xml:"height,attr,omitempty"`
	Properties []*Property `xml:"properties>property"`
	Polygon    *tsxPoints  `xml:"polygon"`
	Polyline   *tsxPoints  `xml:"polyline"`
	Ellipse    *tsxMarker  `xml:"ellipse"`
	Point      *tsxMarker  `xml:"point"`
	Text       *tsxMarker  `xml:"text"`
}

// tsxPoints is a polygon / polyline point list "x0,y0 x1,y1 ..."
type tsxPoints struct {
	Points string `xml:"points,attr"`
}

// tsxMarker is a child element whose presence is all we care about.
type tsxMarker struct{}

// decodePoints parses a TSX point list
func decodePoints(raw string) ([]Point, error) {
	fields := strings.Fields(raw)
	pts := make([]Point, 0, len(fields))
	for _, f := range fields {
		xy := strings.Split(f, ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("invalid point %q", f)
		}
		x, err := strconv.ParseFloat(xy[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid point %q: %w", f, err)
		}
		y, err := strconv.ParseFloat(xy[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid point %q: %w", f, err)
		}
		pts = append(pts, Point{X: x, Y: y})
	}
	return pts, nil
}

// encodePoints is the reverse of decodePoints
func encodePoints(in []Point) string {
	values := make([]string, len(in))
	for i, p := range in {
		values[i] = strconv.FormatFloat(p.X, 'g', -1, 64) + "," + strconv.FormatFloat(p.Y, 'g', -1, 64)
	}
	return strings.Join(values, " ")
}

// ParseCSV reads csv encoded tile layer data (as found in a TMX <data
// encoding="csv"> element) into global tile ids.
func ParseCSV(data string) ([]uint32, error) {
	cleaner := func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ',' {
			return r
		}
		return -1
	}

	rawDataClean := strings.Trim(strings.Map(cleaner, data), ",")
	if rawDataClean == "" {
		return []uint32{}, nil
	}

	str := strings.Split(rawDataClean, ",")

	gids := make([]uint32, len(str))
	for i, s := range str {
		d, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("csv value %d: %w", i, err)
		}
		gids[i] = uint32(d)
	}
	return gids, nil
}
