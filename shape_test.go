package tileset

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

var approx = cmp.Comparer(func(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
})

func TestVerticesRect(t *testing.T) {
	s := Shape{Kind: Rect, X: 0, Y: 16, Width: 32, Height: 16}

	want := []Point{{0, 16}, {32, 16}, {32, 32}, {0, 32}}
	if diff := cmp.Diff(want, s.Vertices()); diff != "" {
		t.Errorf("Vertices() mismatch (-want +got):\n%s", diff)
	}

	min, max := s.Bounds()
	assert.Equal(t, Point{0, 16}, min)
	assert.Equal(t, Point{32, 32}, max)
	assert.Equal(t, 512.0, s.Area())
	assert.True(t, s.Convex())
}

func TestVerticesPolygon(t *testing.T) {
	s := Shape{Kind: Polygon, X: 10, Y: -2, Points: []Point{{0, 0}, {4, 0}, {0, 4}}}

	want := []Point{{10, -2}, {14, -2}, {10, 2}}
	if diff := cmp.Diff(want, s.Vertices()); diff != "" {
		t.Errorf("Vertices() mismatch (-want +got):\n%s", diff)
	}

	min, max := s.Bounds()
	assert.Equal(t, Point{10, -2}, min)
	assert.Equal(t, Point{14, 2}, max)
	assert.Equal(t, 8.0, s.Area())
	assert.True(t, s.Convex())
}

func TestConvex(t *testing.T) {
	cases := map[string]struct {
		Points []Point
		Want   bool
	}{
		"square":    {[]Point{{0, 0}, {4, 0}, {4, 4}, {0, 4}}, true},
		"collinear": {[]Point{{0, 0}, {2, 0}, {4, 0}, {4, 4}, {0, 4}}, true},
		"reversed":  {[]Point{{0, 4}, {4, 4}, {4, 0}, {0, 0}}, true},
		"ell":       {[]Point{{0, 0}, {16, 0}, {16, 16}, {32, 16}, {32, 32}, {0, 32}}, false},
		"line":      {[]Point{{0, 0}, {4, 4}}, false},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			s := Shape{Kind: Polygon, Points: c.Points}
			assert.Equal(t, c.Want, s.Convex())
		})
	}
}

func TestTriangles(t *testing.T) {
	cases := map[string]struct {
		Shape Shape
		Count int
	}{
		"rect": {Shape{Kind: Rect, Width: 32, Height: 16}, 2},
		"ell": {Shape{Kind: Polygon, Points: []Point{
			{0, 0}, {16, 0}, {16, 16}, {32, 16}, {32, 32}, {0, 32},
		}}, 4},
		"ell-reversed": {Shape{Kind: Polygon, Points: []Point{
			{0, 32}, {32, 32}, {32, 16}, {16, 16}, {16, 0}, {0, 0},
		}}, 4},
		"triangle": {Shape{Kind: Polygon, Points: []Point{{0, 0}, {4, 0}, {0, 4}}}, 1},
		"empty":    {Shape{Kind: Polygon}, 0},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			tris := c.Shape.Triangles()
			assert.Len(t, tris, c.Count)

			total := 0.0
			for _, tri := range tris {
				total += math.Abs(signedArea(tri[:]))
			}
			assert.InDelta(t, c.Shape.Area(), total, 1e-9)
		})
	}
}

func TestTrianglesForest(t *testing.T) {
	ts := openForest(t)
	s := ts.Shapes(210)[0]

	tris := s.Triangles()
	assert.Len(t, tris, len(s.Points)-2)

	total := 0.0
	for _, tri := range tris {
		total += math.Abs(signedArea(tri[:]))
		for _, p := range tri {
			min, max := s.Bounds()
			assert.True(t, p.X >= min.X && p.X <= max.X && p.Y >= min.Y && p.Y <= max.Y)
		}
	}
	assert.InDelta(t, s.Area(), total, 1e-6)
}

func TestDecodePoints(t *testing.T) {
	pts, err := decodePoints("-0.46875,-0.03125 15.5515,0  31.5143,32.0228")
	assert.NoError(t, err)

	want := []Point{{-0.46875, -0.03125}, {15.5515, 0}, {31.5143, 32.0228}}
	if diff := cmp.Diff(want, pts, approx); diff != "" {
		t.Errorf("decodePoints() mismatch (-want +got):\n%s", diff)
	}

	again, err := decodePoints(encodePoints(pts))
	assert.NoError(t, err)
	assert.Equal(t, pts, again)

	for _, bad := range []string{"1", "1,2,3", "a,1", "1,b"} {
		_, err := decodePoints(bad)
		assert.Error(t, err, bad)
	}
}

func TestShapeKindString(t *testing.T) {
	assert.Equal(t, "rect", Rect.String())
	assert.Equal(t, "polygon", Polygon.String())
	assert.Equal(t, "unknown", ShapeKind(9).String())
}
