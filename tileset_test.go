package tileset

import (
	"bytes"
	"errors"
	"image"
	"io/ioutil"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openForest(t *testing.T) *Tileset {
	ts, err := Open("testdata/forest.tsx")
	require.NoError(t, err)
	return ts
}

func TestOpen(t *testing.T) {
	ts := openForest(t)

	assert.Equal(t, "forest", ts.Name)
	assert.Equal(t, 32, ts.TileWidth)
	assert.Equal(t, 32, ts.TileHeight)
	assert.Equal(t, 768, ts.TileCount)
	assert.Equal(t, 32, ts.Columns)
	require.NotNil(t, ts.Image)
	assert.Equal(t, "forest.png", ts.Image.Source)
	assert.Equal(t, 1024, ts.Image.Width)
	assert.Equal(t, 768, ts.Image.Height)
	assert.Equal(t, "testdata/forest.png", ts.ImagePath())
	assert.Len(t, ts.IDs(), 37)
}

func TestFlags(t *testing.T) {
	ts := openForest(t)

	f := ts.Flags(0)
	assert.True(t, f.Has("spawn"))
	assert.False(t, f.Has("floor"))
	v, ok := f["floor"]
	assert.True(t, ok, "explicit false is kept")
	assert.False(t, v)

	assert.True(t, ts.Flags(5).Has("wall"))
	assert.True(t, ts.Flags(145).Has("floor"))
	assert.True(t, ts.Flags(314).Has("semisolid"))
	assert.Equal(t, []string{"spawn"}, ts.Flags(0).Names())
}

func TestFlagsAbsent(t *testing.T) {
	ts := openForest(t)

	for _, id := range []int{1, 4, 312, 316, 767, 768, -1, 100000} {
		assert.Empty(t, ts.Flags(id), "id %d", id)
		assert.Empty(t, ts.Shapes(id), "id %d", id)
		assert.Equal(t, 0, ts.Properties(id).Len(), "id %d", id)
	}

	// a tile with an entry but no collision objects
	assert.Empty(t, ts.Shapes(5))
}

func TestFlagsAreCopies(t *testing.T) {
	ts := openForest(t)

	f := ts.Flags(5)
	f["wall"] = false
	f["spawn"] = true

	assert.True(t, ts.Flags(5).Has("wall"))
	assert.False(t, ts.Flags(5).Has("spawn"))

	p := ts.Properties(5)
	p.SetBool("wall", false)
	b, _ := ts.Properties(5).Bool("wall")
	assert.True(t, b)
}

func TestShapesAreCopies(t *testing.T) {
	ts := openForest(t)

	ts.Shapes(210)[0].Points[0].X = 999
	assert.Equal(t, Point{-0.46875, -0.03125}, ts.Shapes(210)[0].Points[0])

	ts.Shapes(313)[0].Properties.SetBool("semisolid", false)
	b, ok := ts.Shapes(313)[0].Properties.Bool("semisolid")
	assert.True(t, ok)
	assert.True(t, b)

	tile, ok := ts.Tile(313)
	require.True(t, ok)
	tile.Shapes = append(tile.Shapes, Shape{ID: 99})
	tile.Shapes[0].Width = 1
	tile.Properties.SetBool("wall", true)
	assert.Len(t, ts.Shapes(313), 1)
	assert.Equal(t, 32.0, ts.Shapes(313)[0].Width)
	assert.Equal(t, 0, ts.Properties(313).Len())

	tile, ok = ts.Tile(5)
	require.True(t, ok)
	tile.Shapes = append(tile.Shapes, Shape{ID: 1})
	assert.Empty(t, ts.Shapes(5))
	again, _ := ts.Tile(5)
	assert.Empty(t, again.Shapes)
}

func TestDecodeTrailing(t *testing.T) {
	in := `<?xml version="1.0" encoding="UTF-8"?>
<tileset name="x" tilewidth="8" tileheight="8" tilecount="1" columns="1"></tileset>
<!-- saved by hand -->
<?editor keep?>
`
	ts, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "x", ts.Name)
}

func TestShapes(t *testing.T) {
	ts := openForest(t)

	shapes := ts.Shapes(313)
	require.Len(t, shapes, 1)
	s := shapes[0]
	assert.Equal(t, Rect, s.Kind)
	assert.Equal(t, 1, s.ID)
	assert.Equal(t, 0.0, s.X)
	assert.Equal(t, 16.0, s.Y)
	assert.Equal(t, 32.0, s.Width)
	assert.Equal(t, 16.0, s.Height)
	assert.True(t, s.Flags().Has("semisolid"))

	// the flag is on the shape, not the tile
	assert.Empty(t, ts.Flags(313))

	shapes = ts.Shapes(314)
	require.Len(t, shapes, 2)
	assert.Equal(t, 0.0, shapes[1].Width)
	assert.InDelta(t, -22.8766, shapes[1].Y, 1e-9)
	assert.InDelta(t, 0.107909, shapes[1].Height, 1e-9)

	shapes = ts.Shapes(210)
	require.Len(t, shapes, 1)
	s = shapes[0]
	assert.Equal(t, Polygon, s.Kind)
	assert.InDelta(t, 0.471283, s.X, 1e-9)
	assert.Len(t, s.Points, 6)
	assert.Equal(t, Point{-0.46875, -0.03125}, s.Points[0])
	assert.False(t, s.Convex())
}

func TestWithFlag(t *testing.T) {
	ts := openForest(t)

	assert.Equal(t, []int{0}, ts.WithFlag("spawn"))
	assert.Equal(t, []int{145, 146, 147, 148}, ts.WithFlag("floor"))
	assert.Equal(t, []int{314}, ts.WithFlag("semisolid"))
	assert.Empty(t, ts.WithFlag("lava"))
}

func TestTileRect(t *testing.T) {
	ts := openForest(t)

	r, err := ts.TileRect(0)
	assert.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 32), r)

	r, err = ts.TileRect(33)
	assert.NoError(t, err)
	assert.Equal(t, image.Rect(32, 32, 64, 64), r)

	r, err = ts.TileRect(313)
	assert.NoError(t, err)
	assert.Equal(t, image.Rect(800, 288, 832, 320), r)

	_, err = ts.TileRect(768)
	assert.True(t, errors.Is(err, ErrTileOutOfRange))

	_, err = ts.TileRect(-1)
	assert.True(t, errors.Is(err, ErrTileOutOfRange))
}

func TestTileRectSpacing(t *testing.T) {
	in := `<tileset name="s" tilewidth="16" tileheight="16" tilecount="12" spacing="2" margin="1">
 <image source="s.png" width="70" height="52"/>
</tileset>`

	ts, err := Decode(strings.NewReader(in))
	require.NoError(t, err)

	// columns derived from the image: (70 - 2 + 2) / 18
	assert.Equal(t, 3, ts.Columns)

	r, err := ts.TileRect(4)
	assert.NoError(t, err)
	assert.Equal(t, image.Rect(19, 19, 35, 35), r)
}

func TestRoundTrip(t *testing.T) {
	ts := openForest(t)

	buf := bytes.Buffer{}
	require.NoError(t, ts.Encode(&buf))

	again, err := Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, ts.IDs(), again.IDs())
	for id := 0; id < ts.TileCount; id++ {
		assert.Equal(t, ts.Flags(id), again.Flags(id), "id %d", id)
		assert.Equal(t, len(ts.Shapes(id)), len(again.Shapes(id)), "id %d", id)
	}

	s := again.Shapes(210)[0]
	assert.Equal(t, ts.Shapes(210)[0].Points, s.Points)
	assert.True(t, again.Shapes(313)[0].Flags().Has("semisolid"))
}

func TestDecodeErrors(t *testing.T) {
	cases := map[string]struct {
		In  string
		Err error
	}{
		"not-a-tileset": {
			In:  `<map width="1" height="1"></map>`,
			Err: ErrNotTileset,
		},
		"out-of-range": {
			In:  `<tileset tilewidth="8" tileheight="8" tilecount="2" columns="2"><tile id="2"/></tileset>`,
			Err: ErrTileOutOfRange,
		},
		"duplicate": {
			In:  `<tileset tilewidth="8" tileheight="8" tilecount="2" columns="2"><tile id="1"/><tile id="1"/></tileset>`,
			Err: ErrDuplicateTile,
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(c.In))
			assert.True(t, errors.Is(err, c.Err), "got %v", err)
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, in := range []string{
		``,
		`<tileset name="x" tilewidth="32"`,
		`<tileset tilewidth="abc"></tileset>`,
		`<tileset><tile id="0"><objectgroup><object id="1" x="0" y="0"><polygon points="0,0 1,x"/></object></objectgroup></tile></tileset>`,
		`<tileset tilewidth="8" tileheight="8"></tileset><tile id="1">`,
		`<tileset tilewidth="8" tileheight="8"></tileset></oops>`,
		`<tileset tilewidth="8" tileheight="8"></tileset><tileset>`,
		`<tileset tilewidth="8" tileheight="8"></tileset>junk`,
	} {
		_, err := Decode(strings.NewReader(in))
		assert.Error(t, err, in)
	}
}

func TestDecodeForwardCompatible(t *testing.T) {
	in := `<tileset name="x" tilewidth="8" tileheight="8" tilecount="4" columns="2">
 <wangsets/>
 <tile id="1">
  <properties>
   <property name="wall" type="bool" value="true"/>
   <property name="sparkly" type="bool" value="true"/>
   <property name="speed" type="int" value="3"/>
   <property name="tint" type="color" value="#ff00ff00"/>
  </properties>
  <objectgroup draworder="topdown">
   <object id="1" x="0" y="0"><ellipse/></object>
   <object id="2" x="1" y="1"><point/></object>
   <object id="3" x="0" y="0"><polyline points="0,0 4,4"/></object>
   <object id="4" x="2" y="2" width="4" height="4"/>
  </objectgroup>
  <animation><frame tileid="1" duration="100"/></animation>
 </tile>
</tileset>`

	ts, err := Decode(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, Flags{"wall": true}, ts.Flags(1))

	props := ts.Properties(1)
	v, ok := props.Int("speed")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	s, ok := props.String("tint")
	assert.True(t, ok)
	assert.Equal(t, "#ff00ff00", s)
	b, ok := props.Bool("sparkly")
	assert.True(t, ok)
	assert.True(t, b)

	shapes := ts.Shapes(1)
	require.Len(t, shapes, 1)
	assert.Equal(t, 4, shapes[0].ID)
}

func TestLoaderAllFlags(t *testing.T) {
	in := `<tileset tilewidth="8" tileheight="8" tilecount="1" columns="1">
 <tile id="0"><properties><property name="sparkly" type="bool" value="true"/></properties></tile>
</tileset>`

	ts, err := NewLoader(&Config{}).Decode(strings.NewReader(in))
	require.NoError(t, err)
	assert.True(t, ts.Flags(0).Has("sparkly"))

	ts, err = NewLoader(&Config{Flags: []string{"wall"}}).Decode(strings.NewReader(in))
	require.NoError(t, err)
	assert.Empty(t, ts.Flags(0))
}

func TestOpenFS(t *testing.T) {
	data, err := ioutil.ReadFile("testdata/forest.tsx")
	require.NoError(t, err)

	fsys := fstest.MapFS{
		"maps/forest.tsx": &fstest.MapFile{Data: data},
	}

	ts, err := OpenFS(fsys, "maps/forest.tsx")
	require.NoError(t, err)
	assert.Equal(t, "maps/forest.png", ts.ImagePath())
	assert.True(t, ts.Flags(5).Has("wall"))

	_, err = OpenFS(fsys, "maps/missing.tsx")
	assert.Error(t, err)
}
