// Package collide turns a tile layer & its tileset's collision shapes into a
// resolv collision space.
package collide

import (
	"sort"

	"github.com/solarlune/resolv"

	"github.com/voidshard/tileset"
)

// TagSolid is added to every object we create
const TagSolid = "solid"

// Options for building a Level
type Options struct {
	// CellWidth, CellHeight of the resolv space in pixels.
	// Defaults to the tile size.
	CellWidth  int
	CellHeight int

	// FullTile lists flags that make a tile solid over its whole area when it
	// has no collision shapes of its own.
	FullTile []string
}

// DefaultOptions returns the options we usually want
func DefaultOptions() *Options {
	return &Options{FullTile: []string{"wall"}}
}

// Level holds the collision space built from a grid
type Level struct {
	Space   *resolv.Space
	Objects []*resolv.Object
}

// Build a collision Level from the given grid.
// Shapes with no area are skipped; concave polygons become one object per
// triangle since resolv only deals in convex polygons.
func Build(g *tileset.Grid, opts *Options) *Level {
	if opts == nil {
		opts = DefaultOptions()
	}
	tw, th := g.Lookup().TileSize()
	cw, ch := opts.CellWidth, opts.CellHeight
	if cw <= 0 {
		cw = tw
	}
	if ch <= 0 {
		ch = th
	}

	lvl := &Level{Space: resolv.NewSpace(g.Width*tw, g.Height*th, cw, ch)}

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			flags := g.FlagsAt(x, y)
			shapes := g.ShapesAt(x, y)
			ox := float64(x * tw)
			oy := float64(y * th)

			if len(shapes) == 0 {
				if hasAny(flags, opts.FullTile) {
					lvl.add(rect(ox, oy, float64(tw), float64(th), tags(flags, nil)))
				}
				continue
			}

			for _, s := range shapes {
				if s.Area() <= 0 {
					continue
				}
				t := tags(flags, s.Flags())

				if s.Kind == tileset.Rect {
					lvl.add(rect(ox+s.X, oy+s.Y, s.Width, s.Height, t))
					continue
				}
				if s.Convex() {
					lvl.add(polygon(ox, oy, s.Vertices(), t))
					continue
				}
				for _, tri := range s.Triangles() {
					lvl.add(polygon(ox, oy, tri[:], t))
				}
			}
		}
	}

	return lvl
}

// add an object to the level & its space
func (l *Level) add(obj *resolv.Object) {
	l.Space.Add(obj)
	l.Objects = append(l.Objects, obj)
}

// rect makes a rectangular object at (x, y) in world pixels
func rect(x, y, w, h float64, tags []string) *resolv.Object {
	obj := resolv.NewObject(x, y, w, h, tags...)
	obj.SetShape(resolv.NewRectangle(0, 0, w, h))
	return obj
}

// polygon makes a convex polygon object from tile local vertices, offset by
// (ox, oy). The object is placed at the polygon's bounding box.
func polygon(ox, oy float64, vs []tileset.Point, tags []string) *resolv.Object {
	min, max := vs[0], vs[0]
	for _, v := range vs[1:] {
		if v.X < min.X {
			min.X = v.X
		}
		if v.Y < min.Y {
			min.Y = v.Y
		}
		if v.X > max.X {
			max.X = v.X
		}
		if v.Y > max.Y {
			max.Y = v.Y
		}
	}

	pts := make([]float64, 0, len(vs)*2)
	for _, v := range vs {
		pts = append(pts, v.X-min.X, v.Y-min.Y)
	}

	obj := resolv.NewObject(ox+min.X, oy+min.Y, max.X-min.X, max.Y-min.Y, tags...)
	obj.SetShape(resolv.NewConvexPolygon(0, 0, pts...))
	return obj
}

// tags returns TagSolid plus the names of every true tile & shape flag
func tags(tile, shape tileset.Flags) []string {
	set := map[string]bool{TagSolid: true}
	for _, n := range tile.Names() {
		set[n] = true
	}
	for _, n := range shape.Names() {
		set[n] = true
	}

	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func hasAny(f tileset.Flags, names []string) bool {
	for _, n := range names {
		if f.Has(n) {
			return true
		}
	}
	return false
}
