package main

import (
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/voidshard/tileset"
	"github.com/voidshard/tileset/preview"
)

const desc = `Inspects Tiled tilesets (.tsx): tile flags, collision shapes & a sqlite index of many tilesets.`

var cli struct {
	Config string `short:"c" help:"yaml config file (flags to keep, index location)"`

	Info    infoCmd    `cmd:"" help:"print a summary of a tileset"`
	Tile    tileCmd    `cmd:"" help:"print flags & collision shapes of tiles"`
	Index   indexCmd   `cmd:"" help:"add tilesets to the index"`
	Find    findCmd    `cmd:"" help:"list indexed tiles with a flag set"`
	Overlay overlayCmd `cmd:"" help:"draw collision shapes over the tileset image"`
	Spawn   spawnCmd   `cmd:"" help:"find the spawn point in csv layer data"`
}

func main() {
	ctx := kong.Parse(
		&cli,
		kong.Name("tsx"),
		kong.Description(desc),
	)
	ctx.FatalIfErrorf(ctx.Run())
}

// config returns the --config settings (or defaults)
func config() (*tileset.Config, error) {
	if cli.Config == "" {
		cfg := tileset.DefaultConfig()
		p, err := cfg.IndexPath()
		if err != nil {
			return nil, err
		}
		cfg.Index = p
		return cfg, nil
	}
	return tileset.LoadConfig(cli.Config)
}

// open a tileset using the --config settings
func open(fname string) (*tileset.Tileset, error) {
	cfg, err := config()
	if err != nil {
		return nil, err
	}
	return tileset.NewLoader(cfg).Open(fname)
}

// openIndex opens the index from --db, falling back to the config
func openIndex(db string) (*tileset.Index, error) {
	cfg, err := config()
	if err != nil {
		return nil, err
	}
	if db == "" {
		db = cfg.Index
	}
	return tileset.OpenIndex(db, cfg)
}

type infoCmd struct {
	Input string `arg:"" help:"tileset .tsx file"`
}

func (c *infoCmd) Run() error {
	ts, err := open(c.Input)
	if err != nil {
		return err
	}

	fmt.Printf("name:    %s\n", ts.Name)
	fmt.Printf("tiles:   %d (%d columns) of %dx%d px\n", ts.TileCount, ts.Columns, ts.TileWidth, ts.TileHeight)
	if ts.Image != nil {
		fmt.Printf("image:   %s (%dx%d px)\n", ts.ImagePath(), ts.Image.Width, ts.Image.Height)
	}

	counts := map[string]int{}
	shapes := 0
	for _, id := range ts.IDs() {
		for _, n := range ts.Flags(id).Names() {
			counts[n]++
		}
		shapes += len(ts.Shapes(id))
	}
	fmt.Printf("entries: %d, collision shapes: %d\n", len(ts.IDs()), shapes)
	for _, n := range sortedKeys(counts) {
		fmt.Printf("  %-10s %d\n", n, counts[n])
	}
	return nil
}

type tileCmd struct {
	Input string `arg:"" help:"tileset .tsx file"`
	IDs   []int  `arg:"" help:"tile ids"`
}

func (c *tileCmd) Run() error {
	ts, err := open(c.Input)
	if err != nil {
		return err
	}

	for _, id := range c.IDs {
		r, err := ts.TileRect(id)
		if err != nil {
			return err
		}
		fmt.Printf("tile %d at %v flags: %v\n", id, r, ts.Flags(id))
		for _, s := range ts.Shapes(id) {
			min, max := s.Bounds()
			fmt.Printf("  %s #%d bounds (%g,%g)->(%g,%g) convex: %v flags: %v\n",
				s.Kind, s.ID, min.X, min.Y, max.X, max.Y, s.Convex(), s.Flags())
		}
	}
	return nil
}

type indexCmd struct {
	DB     string   `help:"index database file (defaults to the config index)"`
	Name   string   `short:"n" help:"name to index under (single input only, defaults to the file name)"`
	Inputs []string `arg:"" help:"tileset .tsx files"`
}

func (c *indexCmd) Run() error {
	if c.Name != "" && len(c.Inputs) != 1 {
		return fmt.Errorf("--name requires exactly one input")
	}

	idx, err := openIndex(c.DB)
	if err != nil {
		return err
	}
	defer idx.Close()

	for _, in := range c.Inputs {
		ts, err := open(in)
		if err != nil {
			return err
		}

		name := c.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		}

		if err := idx.Put(name, ts); err != nil {
			return fmt.Errorf("index %s: %w", in, err)
		}
		log.Printf("indexed %s as %s (%d entries) in %s", in, name, len(ts.IDs()), idx.Filename())
	}
	return nil
}

type findCmd struct {
	DB   string `help:"index database file (defaults to the config index)"`
	Flag string `arg:"" help:"flag name, eg. wall"`
}

func (c *findCmd) Run() error {
	idx, err := openIndex(c.DB)
	if err != nil {
		return err
	}
	defer idx.Close()

	refs, err := idx.WithFlag(c.Flag)
	if err != nil {
		return err
	}
	for _, r := range refs {
		fmt.Println(r)
	}
	return nil
}

type overlayCmd struct {
	Input  string  `arg:"" help:"tileset .tsx file"`
	Output string  `short:"o" help:"output png. Defaults to the input + .overlay.png"`
	Scale  float64 `default:"1" help:"scale the output image"`
}

func (c *overlayCmd) Run() error {
	ts, err := open(c.Input)
	if err != nil {
		return err
	}

	img, err := preview.Render(ts, nil, c.Scale)
	if err != nil {
		return err
	}

	if c.Output == "" {
		c.Output = c.Input + ".overlay.png"
	}
	if err := preview.SavePNG(c.Output, img); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", c.Output)
	return nil
}

type spawnCmd struct {
	Input    string `arg:"" help:"tileset .tsx file"`
	Layer    string `arg:"" help:"file holding csv tile layer data"`
	Width    int    `required:"" help:"layer width in tiles"`
	FirstGID uint32 `default:"1" help:"first gid of the tileset in the map"`
}

func (c *spawnCmd) Run() error {
	ts, err := open(c.Input)
	if err != nil {
		return err
	}

	data, err := ioutil.ReadFile(c.Layer)
	if err != nil {
		return err
	}
	gids, err := tileset.ParseCSV(string(data))
	if err != nil {
		return err
	}
	if c.Width <= 0 || len(gids)%c.Width != 0 {
		return fmt.Errorf("%d tiles can't be split into rows of %d", len(gids), c.Width)
	}

	g, err := tileset.NewGrid(c.Width, len(gids)/c.Width, c.FirstGID, gids, ts)
	if err != nil {
		return err
	}

	x, y, ok := g.SpawnPoint()
	if !ok {
		return errors.New("no spawn tile found")
	}
	fmt.Printf("%g,%g\n", x, y)
	return nil
}

func sortedKeys(in map[string]int) []string {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
