package tileset

import (
	"math"
)

// ShapeKind is the kind of a collision shape
type ShapeKind int

const (
	// Rect is an axis aligned rectangle at (X, Y) sized Width x Height
	Rect ShapeKind = iota
	// Polygon is an ordered list of points relative to (X, Y)
	Polygon
)

func (k ShapeKind) String() string {
	switch k {
	case Rect:
		return "rect"
	case Polygon:
		return "polygon"
	}
	return "unknown"
}

// Point is a 2D point in tile local pixel coordinates.
type Point struct {
	X, Y float64
}

// Shape is a collision shape attached to a tile.
//
// Coordinates are local to the tile in pixels and may be fractional or lie
// outside of the tile itself (Tiled happily writes negative offsets).
type Shape struct {
	ID   int
	Name string
	Kind ShapeKind

	// anchor
	X, Y float64

	// Rect only
	Width, Height float64

	// Polygon only, relative to (X, Y)
	Points []Point

	Properties *Properties
	flags      Flags
}

// Flags returns the bool properties set on the shape itself.
func (s Shape) Flags() Flags {
	out := Flags{}
	for k, v := range s.flags {
		out[k] = v
	}
	return out
}

// clone returns a deep copy of the shape
func (s Shape) clone() Shape {
	c := s
	if s.Points != nil {
		c.Points = make([]Point, len(s.Points))
		copy(c.Points, s.Points)
	}
	if s.Properties != nil {
		c.Properties = NewProperties().Merge(s.Properties)
	}
	c.flags = s.Flags()
	return c
}

// Vertices returns the shape outline in tile local coordinates.
// Rectangles are returned clockwise from the top left corner.
func (s Shape) Vertices() []Point {
	switch s.Kind {
	case Rect:
		return []Point{
			{s.X, s.Y},
			{s.X + s.Width, s.Y},
			{s.X + s.Width, s.Y + s.Height},
			{s.X, s.Y + s.Height},
		}
	case Polygon:
		out := make([]Point, len(s.Points))
		for i, p := range s.Points {
			out[i] = Point{s.X + p.X, s.Y + p.Y}
		}
		return out
	}
	return nil
}

// Bounds returns the top left & bottom right of the shape's bounding box.
func (s Shape) Bounds() (min, max Point) {
	vs := s.Vertices()
	if len(vs) == 0 {
		return Point{s.X, s.Y}, Point{s.X, s.Y}
	}
	min, max = vs[0], vs[0]
	for _, v := range vs[1:] {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
	}
	return min, max
}

// Area of the shape (always >= 0)
func (s Shape) Area() float64 {
	return math.Abs(signedArea(s.Vertices()))
}

// Convex returns if the shape outline is convex. Collinear points are
// allowed, polygons with fewer than 3 points are not convex.
func (s Shape) Convex() bool {
	vs := s.Vertices()
	if len(vs) < 3 {
		return false
	}

	sign := 0.0
	for i := range vs {
		c := cross(vs[i], vs[(i+1)%len(vs)], vs[(i+2)%len(vs)])
		if c == 0 {
			continue
		}
		if sign == 0 {
			sign = c
			continue
		}
		if (c > 0) != (sign > 0) {
			return false
		}
	}
	return true
}

// Triangles splits the shape outline into triangles (ear clipping).
// Returns nil for shapes with fewer than 3 vertices.
func (s Shape) Triangles() [][3]Point {
	vs := s.Vertices()
	if len(vs) < 3 {
		return nil
	}

	// work on a counter clockwise (positive area) copy
	if signedArea(vs) < 0 {
		for i, j := 0, len(vs)-1; i < j; i, j = i+1, j-1 {
			vs[i], vs[j] = vs[j], vs[i]
		}
	}

	tris := make([][3]Point, 0, len(vs)-2)
	for len(vs) > 3 {
		ear := -1
		for i := range vs {
			a, b, c := vs[(i+len(vs)-1)%len(vs)], vs[i], vs[(i+1)%len(vs)]
			if cross(a, b, c) <= 0 {
				continue // reflex or flat
			}
			if anyInside(vs, a, b, c) {
				continue
			}
			ear = i
			break
		}
		if ear < 0 {
			// degenerate outline, fan what's left
			for i := 1; i < len(vs)-1; i++ {
				tris = append(tris, [3]Point{vs[0], vs[i], vs[i+1]})
			}
			return tris
		}
		tris = append(tris, [3]Point{vs[(ear+len(vs)-1)%len(vs)], vs[ear], vs[(ear+1)%len(vs)]})
		vs = append(vs[:ear:ear], vs[ear+1:]...)
	}
	return append(tris, [3]Point{vs[0], vs[1], vs[2]})
}

// cross is the z of (b - a) x (c - b)
func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
}

// signedArea via the shoelace formula
func signedArea(vs []Point) float64 {
	sum := 0.0
	for i := range vs {
		j := (i + 1) % len(vs)
		sum += vs[i].X*vs[j].Y - vs[j].X*vs[i].Y
	}
	return sum / 2
}

// anyInside returns if any vertex other than a, b, c lies inside triangle abc
func anyInside(vs []Point, a, b, c Point) bool {
	for _, p := range vs {
		if p == a || p == b || p == c {
			continue
		}
		if cross(a, b, p) >= 0 && cross(b, c, p) >= 0 && cross(c, a, p) >= 0 {
			return true
		}
	}
	return false
}

// newShape converts a raw collision object.
// Returns false for object kinds we don't treat as collision (ellipse, point,
// polyline, text, tile objects).
func newShape(o *tsxObject, keep func(string) bool) (Shape, bool, error) {
	if o.Ellipse != nil || o.Point != nil || o.Polyline != nil || o.Text != nil || o.GID != 0 {
		return Shape{}, false, nil
	}

	props := newPropertiesFromList(o.Properties)
	s := Shape{
		ID:         o.ID,
		Name:       o.Name,
		Kind:       Rect,
		X:          o.X,
		Y:          o.Y,
		Width:      o.Width,
		Height:     o.Height,
		Properties: props,
		flags:      props.Bools().filter(keep),
	}

	if o.Polygon != nil {
		pts, err := decodePoints(o.Polygon.Points)
		if err != nil {
			return Shape{}, false, err
		}
		s.Kind = Polygon
		s.Width, s.Height = 0, 0
		s.Points = pts
	}

	return s, true, nil
}

// toObject is the reverse of newShape
func (s Shape) toObject() *tsxObject {
	o := &tsxObject{
		ID:   s.ID,
		Name: s.Name,
		X:    s.X,
		Y:    s.Y,
	}
	if s.Properties != nil && s.Properties.Len() > 0 {
		o.Properties = s.Properties.toList()
	}
	switch s.Kind {
	case Polygon:
		o.Polygon = &tsxPoints{Points: encodePoints(s.Points)}
	default:
		o.Width = s.Width
		o.Height = s.Height
	}
	return o
}
