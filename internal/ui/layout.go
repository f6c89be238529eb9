package ui

import (
	"image"

	"github.com/example/sketchboard/internal/brush"
	"github.com/example/sketchboard/internal/render"
)

const (
	topHeight    = 28
	bottomHeight = 24
	toolbarWidth = 96

	buttonHeight = 22
	swatchSize   = 18
	swatchGap    = 4
	sizeRow      = 16
)

var opacitySteps = []int{25, 50, 75, 100}

type hitKind int

const (
	hitNone hitKind = iota
	hitButton
	hitPalette
	hitSize
	hitOpacity
)

// toolbarLayout holds the rectangles of every toolbar control. It is derived
// only from the control counts, so drawing and hit testing agree.
type toolbarLayout struct {
	buttons []image.Rectangle
	palette []image.Rectangle
	sizes   []image.Rectangle
	opacity []image.Rectangle
}

func layoutToolbar(buttons int) toolbarLayout {
	var l toolbarLayout
	y := topHeight + 2
	for i := 0; i < buttons; i++ {
		l.buttons = append(l.buttons, image.Rect(2, y, toolbarWidth-2, y+buttonHeight))
		y += buttonHeight + 2
	}

	y += swatchGap
	cols := (toolbarWidth - swatchGap) / (swatchSize + swatchGap)
	n := len(brush.Palette())
	for i := 0; i < n; i++ {
		x := swatchGap + (i%cols)*(swatchSize+swatchGap)
		yy := y + (i/cols)*(swatchSize+swatchGap)
		l.palette = append(l.palette, image.Rect(x, yy, x+swatchSize, yy+swatchSize))
	}
	y += ((n + cols - 1) / cols) * (swatchSize + swatchGap)

	y += swatchGap
	for range brush.Sizes() {
		l.sizes = append(l.sizes, image.Rect(swatchGap, y, toolbarWidth-swatchGap, y+sizeRow))
		y += sizeRow + 2
	}

	y += swatchGap
	w := (toolbarWidth - swatchGap) / len(opacitySteps)
	for i := range opacitySteps {
		x := swatchGap + i*w
		l.opacity = append(l.opacity, image.Rect(x, y, x+w-2, y+sizeRow))
	}
	return l
}

func (l toolbarLayout) hit(p image.Point) (hitKind, int) {
	groups := []struct {
		kind  hitKind
		rects []image.Rectangle
	}{
		{hitButton, l.buttons},
		{hitPalette, l.palette},
		{hitSize, l.sizes},
		{hitOpacity, l.opacity},
	}
	for _, g := range groups {
		for i, r := range g.rects {
			if p.In(r) {
				return g.kind, i
			}
		}
	}
	return hitNone, -1
}

// viewport places the canvas, and the generated image when present, in the
// window.
type viewport struct {
	canvas     image.Rectangle
	zoom       float64
	result     image.Rectangle
	resultZoom float64
}

func layoutViewport(width, height int, canvas image.Rectangle, result image.Image) viewport {
	area := image.Rect(toolbarWidth, topHeight, width, height-bottomHeight)
	if area.Empty() {
		return viewport{zoom: 1}
	}
	left := area
	var right image.Rectangle
	if result != nil {
		mid := area.Min.X + area.Dx()/2
		left.Max.X = mid
		right = image.Rect(mid+swatchGap, area.Min.Y, area.Max.X, area.Max.Y)
	}
	var v viewport
	v.zoom = render.FitZoom(canvas.Dx(), canvas.Dy(), left)
	v.canvas = placed(left.Min, canvas.Size(), v.zoom)
	if result != nil && !right.Empty() {
		rb := result.Bounds()
		v.resultZoom = render.FitZoom(rb.Dx(), rb.Dy(), right)
		v.result = placed(right.Min, rb.Size(), v.resultZoom)
	}
	return v
}

func placed(at image.Point, size image.Point, zoom float64) image.Rectangle {
	w := int(float64(size.X) * zoom)
	h := int(float64(size.Y) * zoom)
	return image.Rect(at.X, at.Y, at.X+w, at.Y+h)
}

// toCanvas converts window coordinates to canvas coordinates.
func (v viewport) toCanvas(x, y float32) brush.Point {
	z := v.zoom
	if z <= 0 {
		z = 1
	}
	return brush.Point{
		X: (float64(x) - float64(v.canvas.Min.X)) / z,
		Y: (float64(y) - float64(v.canvas.Min.Y)) / z,
	}
}

func (v viewport) inCanvas(x, y float32) bool {
	return image.Pt(int(x), int(y)).In(v.canvas)
}
