package brush

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/fogleman/gg"
)

// Rand supplies the jitter offsets. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// Engine rasterises brush segments onto an RGBA image.
type Engine struct {
	dst   *image.RGBA
	ctx   *gg.Context
	rand  Rand
	col   color.RGBA
	alpha float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand replaces the jitter source, mainly for deterministic tests.
func WithRand(r Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rand = r
		}
	}
}

// NewEngine binds an engine to dst. The image must not be reallocated while
// the engine is in use; restore pixels into it in place instead.
func NewEngine(dst *image.RGBA, opts ...Option) *Engine {
	e := &Engine{
		dst:   dst,
		ctx:   gg.NewContextForRGBA(dst),
		rand:  globalRand{},
		alpha: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Target returns the image the engine paints on.
func (e *Engine) Target() *image.RGBA { return e.dst }

// Alpha reports the global alpha applied to the next segment.
func (e *Engine) Alpha() float64 { return e.alpha }

func (e *Engine) setAlpha(a float64) {
	e.alpha = a
	e.ctx.SetColor(withAlpha(e.col, a))
}

// withAlpha scales the colour's own alpha by a and returns it unpremultiplied.
func withAlpha(c color.RGBA, a float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(a * float64(c.A)))}
}

// Draw paints the segment from -> to. When erase is set the segment is painted
// in background instead of the brush colour.
func (e *Engine) Draw(from, to Point, cfg Config, erase bool, background color.RGBA) {
	e.col = cfg.Color
	if erase {
		e.col = background
	}
	e.ctx.SetLineWidth(cfg.Width())
	if cfg.Tip == Round {
		e.ctx.SetLineCapRound()
	} else {
		e.ctx.SetLineCapSquare()
	}
	base := float64(cfg.Opacity) / 100
	e.setAlpha(base)
	e.segment(from, to, 0, 0)

	passes := Passes(cfg.Tip)
	if passes == 0 {
		return
	}
	if cfg.Tip == Watercolor {
		e.setAlpha(base * 0.5)
		defer e.setAlpha(base)
	}
	spread := cfg.Size * Jitter(cfg.Tip)
	for i := 0; i < passes; i++ {
		dx := (e.rand.Float64() - 0.5) * spread
		dy := (e.rand.Float64() - 0.5) * spread
		e.segment(from, to, dx, dy)
	}
}

func (e *Engine) segment(from, to Point, dx, dy float64) {
	e.ctx.DrawLine(from.X+dx, from.Y+dy, to.X+dx, to.Y+dy)
	e.ctx.Stroke()
}
