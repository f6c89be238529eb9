// Package surface holds the raster paint layer of a sketch and the reference
// grid drawn over it.
//
// The grid is an overlay. It is composed into frames returned by Render but
// never written to the paint layer, so snapshots and restores never carry it.
// A Surface is not safe for concurrent use.
package surface

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/example/sketchboard/internal/render"
)

// ErrBounds is returned when a decoded snapshot does not match the surface.
var ErrBounds = errors.New("snapshot bounds do not match surface")

// Surface owns a fixed-size paint layer.
type Surface struct {
	paint    *image.RGBA
	bg       color.RGBA
	grid     render.GridOptions
	showGrid bool
}

// Option configures a Surface.
type Option func(*Surface)

// WithBackground sets the paper colour. Defaults to white.
func WithBackground(c color.RGBA) Option {
	return func(s *Surface) { s.bg = c }
}

// WithGridColor sets the grid line colour.
func WithGridColor(c color.RGBA) Option {
	return func(s *Surface) { s.grid.Color = c }
}

// WithGridPitch sets the grid spacing; values <= 0 keep the default.
func WithGridPitch(p int) Option {
	return func(s *Surface) {
		if p > 0 {
			s.grid.Pitch = p
		}
	}
}

// WithGrid sets whether the grid starts visible. Defaults to true.
func WithGrid(show bool) Option {
	return func(s *Surface) { s.showGrid = show }
}

// New creates an initialized width*height surface.
func New(width, height int, opts ...Option) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	s := &Surface{
		paint:    image.NewRGBA(image.Rect(0, 0, width, height)),
		bg:       color.RGBA{255, 255, 255, 255},
		grid:     render.DefaultGridOptions(),
		showGrid: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Initialize()
	return s, nil
}

// Initialize fills the paint layer with the background colour.
func (s *Surface) Initialize() {
	render.Fill(s.paint, s.bg)
}

// Clear wipes the drawing. It is the same as Initialize and does not touch
// any history.
func (s *Surface) Clear() {
	s.Initialize()
}

// Render returns the visible frame: the paint layer with the grid on top
// when it is shown.
func (s *Surface) Render() *image.RGBA {
	return render.Compose(s.paint, s.showGrid, s.grid)
}

// SetGrid shows or hides the grid overlay.
func (s *Surface) SetGrid(show bool) { s.showGrid = show }

// ShowGrid reports whether the grid overlay is shown.
func (s *Surface) ShowGrid() bool { return s.showGrid }

// Grid returns the grid settings.
func (s *Surface) Grid() render.GridOptions { return s.grid }

// Image returns the live paint layer. Callers must not retain it across
// calls that mutate the surface.
func (s *Surface) Image() *image.RGBA { return s.paint }

// Bounds returns the surface rectangle.
func (s *Surface) Bounds() image.Rectangle { return s.paint.Bounds() }

// Background returns the paper colour.
func (s *Surface) Background() color.RGBA { return s.bg }

// Snapshot encodes the paint layer.
func (s *Surface) Snapshot() (Snapshot, error) {
	data, err := encodePNG(s.paint)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	return Snapshot{data: data, bounds: s.paint.Bounds()}, nil
}

// Decode turns snap back into pixels without touching the surface. It may run
// on another goroutine while the surface is in use.
func (s *Surface) Decode(ctx context.Context, snap Snapshot) (*image.RGBA, error) {
	return decodeSnapshot(ctx, snap, s.paint.Bounds())
}

// Apply copies img into the paint layer in place so renderers bound to the
// layer stay valid.
func (s *Surface) Apply(img *image.RGBA) error {
	if img == nil || !img.Bounds().Eq(s.paint.Bounds()) {
		return ErrBounds
	}
	draw.Draw(s.paint, s.paint.Bounds(), img, img.Bounds().Min, draw.Src)
	return nil
}

// Restore decodes snap and applies it. On error the surface is unchanged.
func (s *Surface) Restore(ctx context.Context, snap Snapshot) error {
	img, err := s.Decode(ctx, snap)
	if err != nil {
		return err
	}
	return s.Apply(img)
}

// Equal reports whether a and b have the same bounds and pixels.
func Equal(a, b *image.RGBA) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !a.Bounds().Eq(b.Bounds()) {
		return false
	}
	r := a.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		ra := a.Pix[a.PixOffset(r.Min.X, y):a.PixOffset(r.Max.X, y)]
		rb := b.Pix[b.PixOffset(r.Min.X, y):b.PixOffset(r.Max.X, y)]
		if !bytes.Equal(ra, rb) {
			return false
		}
	}
	return true
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodePNG encodes img the same way snapshots are encoded.
func EncodePNG(img image.Image) ([]byte, error) {
	return encodePNG(img)
}
