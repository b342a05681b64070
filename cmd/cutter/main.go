package main

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io/ioutil"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/nfnt/resize"

	"github.com/voidshard/tileset"
)

const desc = `Cuts single tiles out of a tileset image by tile id & saves them as png.`

var cli struct {
	Input string `short:"i" help:"input tileset .tsx file"`

	Output string `short:"o" default:"." help:"output directory"`

	// optional output size, 0 keeps the tileset's tile size
	Width  uint `help:"resize tiles to this width in px"`
	Height uint `help:"resize tiles to this height in px"`

	IDs []int `arg:"" help:"tile ids to cut out"`
}

func main() {
	kong.Parse(
		&cli,
		kong.Name("cutter"),
		kong.Description(desc),
	)

	ts, err := tileset.Open(cli.Input)
	if err != nil {
		panic(err)
	}

	in, err := ts.OpenImage()
	if err != nil {
		panic(err)
	}

	for _, id := range cli.IDs {
		r, err := ts.TileRect(id)
		if err != nil {
			panic(err)
		}

		var dst image.Image = cutOut(in, r)
		if cli.Width > 0 || cli.Height > 0 {
			dst = resize.Resize(cli.Width, cli.Height, dst, resize.NearestNeighbor)
		}

		fpath := filepath.Join(cli.Output, fmt.Sprintf("%s.%d.png", ts.Name, id))
		fmt.Printf("copying %d %v -> %s\n", id, r, fpath)
		err = savePng(fpath, dst)
		if err != nil {
			panic(err)
		}
	}
}

// cutOut the rectangle marked by `r` from the given image
func cutOut(in image.Image, r image.Rectangle) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), in, r.Min, draw.Src)
	return dst
}

// savePng to disk
func savePng(fpath string, in image.Image) error {
	buff := new(bytes.Buffer)
	err := png.Encode(buff, in)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(fpath, buff.Bytes(), 0644)
}
