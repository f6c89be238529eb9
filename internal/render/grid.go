package render

import (
	"image"
	"image/color"
	"image/draw"
)

// DefaultGridPitch is the spacing between grid lines in pixels.
const DefaultGridPitch = 20

// GridOptions describes the reference grid drawn over the canvas.
type GridOptions struct {
	Pitch int
	Color color.RGBA
}

// DefaultGridOptions returns the light grey 20px grid.
func DefaultGridOptions() GridOptions {
	return GridOptions{
		Pitch: DefaultGridPitch,
		Color: color.RGBA{0xf0, 0xf0, 0xf0, 0xff},
	}
}

// DrawGrid paints 1px lines every Pitch pixels on both axes, starting at the
// image origin. The final partial cell is covered.
func DrawGrid(dst *image.RGBA, opts GridOptions) {
	if dst == nil || opts.Pitch <= 0 {
		return
	}
	b := dst.Bounds()
	src := image.NewUniform(opts.Color)
	for x := b.Min.X; x < b.Max.X; x += opts.Pitch {
		draw.Draw(dst, image.Rect(x, b.Min.Y, x+1, b.Max.Y), src, image.Point{}, draw.Over)
	}
	for y := b.Min.Y; y < b.Max.Y; y += opts.Pitch {
		draw.Draw(dst, image.Rect(b.Min.X, y, b.Max.X, y+1), src, image.Point{}, draw.Over)
	}
}

// OnGridLine reports whether p lies on a line drawn by DrawGrid for an image
// whose origin is at (0,0).
func OnGridLine(p image.Point, pitch int) bool {
	if pitch <= 0 {
		return false
	}
	return p.X%pitch == 0 || p.Y%pitch == 0
}

// Fill paints the whole of dst with c.
func Fill(dst *image.RGBA, c color.Color) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Clone returns a deep copy of img.
func Clone(img *image.RGBA) *image.RGBA {
	if img == nil {
		return nil
	}
	out := image.NewRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	return out
}

// Compose returns a new frame holding paint with the grid drawn on top when
// grid is set. paint itself is never modified.
func Compose(paint *image.RGBA, grid bool, opts GridOptions) *image.RGBA {
	frame := Clone(paint)
	if grid {
		DrawGrid(frame, opts)
	}
	return frame
}
