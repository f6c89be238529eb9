package brush

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Point is a position on the canvas in pixels.
type Point struct {
	X, Y float64
}

// Config describes the brush used for the next segment. It is a value; callers
// pass a fresh copy on every draw.
type Config struct {
	Size     float64
	Color    color.RGBA
	Opacity  int // percent, 0..100
	Tip      Tip
	Pressure float64
}

// DefaultConfig returns a 5px opaque black round brush.
func DefaultConfig() Config {
	return Config{
		Size:     5,
		Color:    color.RGBA{0, 0, 0, 255},
		Opacity:  100,
		Tip:      Round,
		Pressure: 1,
	}
}

var (
	ErrSize     = errors.New("brush size must be positive")
	ErrPressure = errors.New("brush pressure must be positive")
)

// Validate clamps Opacity into 0..100 and rejects non-positive Size or
// Pressure.
func (c *Config) Validate() error {
	if !(c.Size > 0) || math.IsInf(c.Size, 0) {
		return fmt.Errorf("%w: %v", ErrSize, c.Size)
	}
	if !(c.Pressure > 0) || math.IsInf(c.Pressure, 0) {
		return fmt.Errorf("%w: %v", ErrPressure, c.Pressure)
	}
	if c.Tip < Round || c.Tip > Watercolor {
		return fmt.Errorf("invalid brush tip %d", int(c.Tip))
	}
	if c.Opacity < 0 {
		c.Opacity = 0
	}
	if c.Opacity > 100 {
		c.Opacity = 100
	}
	return nil
}

// Width returns the stroke width after pressure is applied.
func (c Config) Width() float64 {
	return c.Size * c.Pressure
}

// PaletteColor names a toolbar swatch.
type PaletteColor struct {
	Name  string
	Color color.RGBA
}

var palette = []PaletteColor{
	{"Black", color.RGBA{0, 0, 0, 255}},
	{"Gray", color.RGBA{128, 128, 128, 255}},
	{"Red", color.RGBA{255, 0, 0, 255}},
	{"Orange", color.RGBA{255, 165, 0, 255}},
	{"Yellow", color.RGBA{255, 255, 0, 255}},
	{"Green", color.RGBA{0, 128, 0, 255}},
	{"Teal", color.RGBA{0, 128, 128, 255}},
	{"Blue", color.RGBA{0, 0, 255, 255}},
	{"Navy", color.RGBA{0, 0, 128, 255}},
	{"Purple", color.RGBA{128, 0, 128, 255}},
	{"Brown", color.RGBA{165, 42, 42, 255}},
	{"Pink", color.RGBA{255, 192, 203, 255}},
}

// Palette returns a copy of the toolbar colours.
func Palette() []PaletteColor {
	out := make([]PaletteColor, len(palette))
	copy(out, palette)
	return out
}

// Sizes lists the brush sizes offered by the toolbar.
func Sizes() []float64 {
	return []float64{2, 5, 10, 20, 40}
}

// ParseColor accepts an SVG colour name, a palette name, #RRGGBB or #RRGGBBAA.
func ParseColor(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	for _, entry := range palette {
		if strings.EqualFold(entry.Name, spec) {
			return entry.Color, nil
		}
	}
	if strings.HasPrefix(spec, "#") && (len(spec) == 7 || len(spec) == 9) {
		var parts [4]uint8
		parts[3] = 255
		for i := 0; i < (len(spec)-1)/2; i++ {
			v, err := strconv.ParseUint(spec[1+2*i:3+2*i], 16, 8)
			if err != nil {
				return color.RGBA{}, fmt.Errorf("invalid color %q", s)
			}
			parts[i] = uint8(v)
		}
		return color.RGBA{parts[0], parts[1], parts[2], parts[3]}, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid color %q", s)
}

// FormatColor renders c as a string ParseColor accepts.
func FormatColor(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
