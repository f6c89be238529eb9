package brush

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/gg"
)

// PreviewSize is the edge length of the swatch returned by Preview.
const PreviewSize = 48

// Preview renders a swatch of cfg on white, clipped to PreviewSize.
func Preview(cfg Config) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, PreviewSize, PreviewSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	dc := gg.NewContextForRGBA(img)
	dc.SetColor(withAlpha(cfg.Color, float64(cfg.Opacity)/100))
	r := math.Min(cfg.Width(), PreviewSize-4) / 2
	c := PreviewSize / 2.0
	if cfg.Tip == Round {
		dc.DrawCircle(c, c, r)
	} else {
		dc.DrawRectangle(c-r, c-r, 2*r, 2*r)
	}
	dc.Fill()
	return img
}
