// Package preview draws a tileset's collision shapes over its image, mostly
// so humans can eyeball what a tileset's collision data looks like.
package preview

import (
	"image"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"

	"github.com/voidshard/tileset"
)

// Style sets the overlay colours (RGBA, 0-1)
type Style struct {
	Fill    [4]float64
	Stroke  [4]float64
	Outline [4]float64 // outline of flagged tiles without shapes
	Line    float64
}

// DefaultStyle is red shapes, blue outlines
func DefaultStyle() *Style {
	return &Style{
		Fill:    [4]float64{1, 0, 0, 0.35},
		Stroke:  [4]float64{1, 0, 0, 0.9},
		Outline: [4]float64{0, 0.4, 1, 0.9},
		Line:    1,
	}
}

// Overlay draws the collision shapes of every tile in `ts` over `img` (the
// tileset's source image). Tiles with flags but no shapes get an outline.
// The result is scaled by `scale` (1 or less than or equal to 0 for no scaling).
func Overlay(ts *tileset.Tileset, img image.Image, style *Style, scale float64) image.Image {
	if style == nil {
		style = DefaultStyle()
	}

	dc := gg.NewContextForImage(img)
	dc.SetLineWidth(style.Line)

	for _, id := range ts.IDs() {
		r, err := ts.TileRect(id)
		if err != nil {
			continue
		}
		ox, oy := float64(r.Min.X), float64(r.Min.Y)

		shapes := ts.Shapes(id)
		if len(shapes) == 0 {
			if len(ts.Flags(id).Names()) == 0 {
				continue
			}
			dc.DrawRectangle(ox+0.5, oy+0.5, float64(r.Dx())-1, float64(r.Dy())-1)
			dc.SetRGBA(style.Outline[0], style.Outline[1], style.Outline[2], style.Outline[3])
			dc.Stroke()
			continue
		}

		for _, s := range shapes {
			vs := s.Vertices()
			if len(vs) < 2 {
				continue
			}
			dc.NewSubPath()
			dc.MoveTo(ox+vs[0].X, oy+vs[0].Y)
			for _, v := range vs[1:] {
				dc.LineTo(ox+v.X, oy+v.Y)
			}
			dc.ClosePath()
			dc.SetRGBA(style.Fill[0], style.Fill[1], style.Fill[2], style.Fill[3])
			dc.FillPreserve()
			dc.SetRGBA(style.Stroke[0], style.Stroke[1], style.Stroke[2], style.Stroke[3])
			dc.Stroke()
		}
	}

	out := dc.Image()
	if scale <= 0 || scale == 1 {
		return out
	}

	b := out.Bounds()
	return resize.Resize(
		uint(float64(b.Dx())*scale),
		uint(float64(b.Dy())*scale),
		out,
		resize.NearestNeighbor,
	)
}

// Render loads the tileset image from disk & draws the overlay on it
func Render(ts *tileset.Tileset, style *Style, scale float64) (image.Image, error) {
	img, err := ts.OpenImage()
	if err != nil {
		return nil, err
	}
	return Overlay(ts, img, style, scale), nil
}

// SavePNG writes an image to disk as png
func SavePNG(fpath string, img image.Image) error {
	return gg.SavePNG(fpath, img)
}
