/* file holds the loaded (read only) tileset & the functions to load one.
 */
package tileset

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"
	"sort"
)

// Tileset is a loaded Tiled tileset.
//
// A Tileset is never modified after loading so it's safe to share between
// goroutines.
type Tileset struct {
	Name       string
	TileWidth  int // in pixels
	TileHeight int // in pixels
	TileCount  int
	Columns    int
	Spacing    int
	Margin     int
	Image      *Image

	raw   *tsxTileset
	tiles map[int]*Tile

	// where we were loaded from (if anywhere)
	dir  string
	fsys fs.FS
}

// Tile is a single tileset entry with non default metadata.
type Tile struct {
	ID         int
	Type       string
	Properties *Properties
	Shapes     []Shape
	flags      Flags
}

// Flags returns the tile's flags
func (t *Tile) Flags() Flags {
	out := Flags{}
	for k, v := range t.flags {
		out[k] = v
	}
	return out
}

// clone returns a deep copy of the tile
func (t *Tile) clone() *Tile {
	c := &Tile{
		ID:         t.ID,
		Type:       t.Type,
		Properties: NewProperties().Merge(t.Properties),
		flags:      t.Flags(),
	}
	if len(t.Shapes) > 0 {
		c.Shapes = make([]Shape, len(t.Shapes))
		for i, s := range t.Shapes {
			c.Shapes[i] = s.clone()
		}
	}
	return c
}

// Tile returns the tile entry for `id`, if the tileset has one.
// The returned tile is a copy.
func (ts *Tileset) Tile(id int) (*Tile, bool) {
	t, ok := ts.tiles[id]
	if !ok {
		return nil, false
	}
	return t.clone(), true
}

// Flags returns the flags set on tile `id`. Tiles without an entry have no
// flags.
func (ts *Tileset) Flags(id int) Flags {
	t, ok := ts.tiles[id]
	if !ok {
		return Flags{}
	}
	return t.Flags()
}

// Shapes returns the collision shapes of tile `id` (or nothing).
func (ts *Tileset) Shapes(id int) []Shape {
	t, ok := ts.tiles[id]
	if !ok || len(t.Shapes) == 0 {
		return nil
	}
	out := make([]Shape, len(t.Shapes))
	for i, s := range t.Shapes {
		out[i] = s.clone()
	}
	return out
}

// Properties returns a copy of all properties set on tile `id`.
func (ts *Tileset) Properties(id int) *Properties {
	p := NewProperties()
	t, ok := ts.tiles[id]
	if !ok {
		return p
	}
	return p.Merge(t.Properties)
}

// TileSize returns tile width & height in pixels
func (ts *Tileset) TileSize() (int, int) {
	return ts.TileWidth, ts.TileHeight
}

// IDs returns the ids of all tiles with an entry, low -> high.
func (ts *Tileset) IDs() []int {
	ids := make([]int, 0, len(ts.tiles))
	for id := range ts.tiles {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// WithFlag returns the ids of tiles whose flag `name` is true, low -> high.
func (ts *Tileset) WithFlag(name string) []int {
	ids := []int{}
	for _, id := range ts.IDs() {
		if ts.tiles[id].flags.Has(name) {
			ids = append(ids, id)
		}
	}
	return ids
}

// TileRect returns where tile `id` lives in the source image.
func (ts *Tileset) TileRect(id int) (image.Rectangle, error) {
	if id < 0 || (ts.TileCount > 0 && id >= ts.TileCount) {
		return image.Rectangle{}, fmt.Errorf("%w: %d (tilecount %d)", ErrTileOutOfRange, id, ts.TileCount)
	}
	if ts.Columns <= 0 {
		return image.Rectangle{}, ErrNoGrid
	}

	// index = row * columns + col
	col := id % ts.Columns
	row := id / ts.Columns

	x := ts.Margin + col*(ts.TileWidth+ts.Spacing)
	y := ts.Margin + row*(ts.TileHeight+ts.Spacing)
	return image.Rect(x, y, x+ts.TileWidth, y+ts.TileHeight), nil
}

// ImagePath returns the source image path, relative paths are resolved
// against the directory the tileset was loaded from.
func (ts *Tileset) ImagePath() string {
	if ts.Image == nil || ts.Image.Source == "" {
		return ""
	}
	if ts.fsys != nil {
		return path.Join(ts.dir, ts.Image.Source)
	}
	if filepath.IsAbs(ts.Image.Source) {
		return ts.Image.Source
	}
	return filepath.Join(ts.dir, filepath.FromSlash(ts.Image.Source))
}

// OpenImage reads & decodes the source image (png, gif or jpeg).
func (ts *Tileset) OpenImage() (image.Image, error) {
	src := ts.ImagePath()
	if src == "" {
		return nil, fmt.Errorf("tileset %s has no image", ts.Name)
	}

	var r io.ReadCloser
	var err error
	if ts.fsys != nil {
		r, err = ts.fsys.Open(src)
	} else {
		r, err = os.Open(src)
	}
	if err != nil {
		return nil, err
	}
	defer r.Close()

	im, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", src, err)
	}
	return im, nil
}

// Encode the tileset as TSX XML to a io.Writer stream
func (ts *Tileset) Encode(w io.Writer) error {
	raw := *ts.raw
	raw.XMLName = xml.Name{Local: "tileset"}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	if err := enc.Encode(&raw); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteFile writes the tileset to disk as TSX
func (ts *Tileset) WriteFile(fname string) error {
	buff := bytes.Buffer{}
	err := ts.Encode(&buff)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(fname, buff.Bytes(), 0644)
}

// Loader decodes tilesets according to some Config
type Loader struct {
	cfg  *Config
	keep func(string) bool
}

// NewLoader returns a loader using `cfg` (or DefaultConfig if nil)
func NewLoader(cfg *Config) *Loader {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Loader{cfg: cfg, keep: cfg.keeper()}
}

var defaultLoader = NewLoader(nil)

// Decode an input TSX tileset XML with the default config
func Decode(r io.Reader) (*Tileset, error) {
	return defaultLoader.Decode(r)
}

// Open a TSX file with the default config
func Open(fname string) (*Tileset, error) {
	return defaultLoader.Open(fname)
}

// OpenFS opens a TSX file from `fsys` with the default config.
// Handy for embed.FS or os.DirFS.
func OpenFS(fsys fs.FS, name string) (*Tileset, error) {
	return defaultLoader.OpenFS(fsys, name)
}

// Decode an input TSX tileset XML
func (l *Loader) Decode(r io.Reader) (*Tileset, error) {
	raw := &tsxTileset{}
	dec := xml.NewDecoder(r)
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode tileset: %w", err)
	}

	// nothing but whitespace, comments & processing instructions may follow
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("decode tileset: %w", err)
		}
		switch v := tok.(type) {
		case xml.Comment, xml.ProcInst:
		case xml.CharData:
			if len(bytes.TrimSpace(v)) != 0 {
				return nil, fmt.Errorf("decode tileset: unexpected text after </tileset>")
			}
		default:
			return nil, fmt.Errorf("decode tileset: unexpected %T after </tileset>", tok)
		}
	}

	return l.build(raw)
}

// Open a TSX file
func (l *Loader) Open(fname string) (*Tileset, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ts, err := l.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	ts.dir = filepath.Dir(fname)
	return ts, nil
}

// OpenFS opens a TSX file from the given filesystem
func (l *Loader) OpenFS(fsys fs.FS, name string) (*Tileset, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ts, err := l.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	ts.dir = path.Dir(name)
	ts.fsys = fsys
	return ts, nil
}

// build validates the raw XML & sets up our lookup tables
func (l *Loader) build(raw *tsxTileset) (*Tileset, error) {
	if raw.XMLName.Local != "tileset" {
		return nil, fmt.Errorf("%w: root element is <%s>", ErrNotTileset, raw.XMLName.Local)
	}

	ts := &Tileset{
		Name:       raw.Name,
		TileWidth:  raw.TileWidth,
		TileHeight: raw.TileHeight,
		TileCount:  raw.TileCount,
		Columns:    raw.Columns,
		Spacing:    raw.Spacing,
		Margin:     raw.Margin,
		Image:      raw.Image,
		raw:        raw,
		tiles:      map[int]*Tile{},
	}

	// older files omit columns, work it out from the image
	if ts.Columns == 0 && ts.Image != nil && ts.TileWidth > 0 {
		ts.Columns = (ts.Image.Width - 2*ts.Margin + ts.Spacing) / (ts.TileWidth + ts.Spacing)
	}

	for _, rt := range raw.Tiles {
		if rt.ID < 0 || (ts.TileCount > 0 && rt.ID >= ts.TileCount) {
			return nil, fmt.Errorf("%w: %d (tilecount %d)", ErrTileOutOfRange, rt.ID, ts.TileCount)
		}
		if _, ok := ts.tiles[rt.ID]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateTile, rt.ID)
		}

		props := newPropertiesFromList(rt.Properties)
		t := &Tile{
			ID:         rt.ID,
			Type:       rt.Type,
			Properties: props,
			flags:      props.Bools().filter(l.keep),
		}

		if rt.ObjectGroup != nil {
			for _, o := range rt.ObjectGroup.Objects {
				s, ok, err := newShape(o, l.keep)
				if err != nil {
					return nil, fmt.Errorf("tile %d object %d: %w", rt.ID, o.ID, err)
				}
				if !ok {
					continue
				}
				t.Shapes = append(t.Shapes, s)
			}
		}

		ts.tiles[t.ID] = t
	}

	return ts, nil
}
