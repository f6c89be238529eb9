package render

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// FitZoom returns the largest scale at which a w*h image fits in avail,
// capped at 1 so small canvases are never magnified.
func FitZoom(w, h int, avail image.Rectangle) float64 {
	if w <= 0 || h <= 0 || avail.Empty() {
		return 1
	}
	zx := float64(avail.Dx()) / float64(w)
	zy := float64(avail.Dy()) / float64(h)
	z := zx
	if zy < z {
		z = zy
	}
	if z > 1 {
		z = 1
	}
	return z
}

// ScaleInto draws src scaled to fill r in dst. Nearest neighbour keeps grid
// lines crisp at integer zooms.
func ScaleInto(dst xdraw.Image, r image.Rectangle, src image.Image, zoom float64) {
	if zoom == 1 && r.Size() == src.Bounds().Size() {
		xdraw.Draw(dst, r, src, src.Bounds().Min, xdraw.Src)
		return
	}
	scaler := xdraw.Scaler(xdraw.ApproxBiLinear)
	if zoom >= 1 {
		scaler = xdraw.NearestNeighbor
	}
	scaler.Scale(dst, r, src, src.Bounds(), xdraw.Src, nil)
}
