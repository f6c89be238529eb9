package brush

import (
	"fmt"
	"strings"
)

// Tip selects the shape and texture of a brush stroke.
type Tip int

const (
	Round Tip = iota
	Square
	Texture
	Charcoal
	Watercolor
)

var tipNames = []string{"round", "square", "texture", "charcoal", "watercolor"}

// Tips returns every tip in toolbar order.
func Tips() []Tip {
	return []Tip{Round, Square, Texture, Charcoal, Watercolor}
}

func (t Tip) String() string {
	if t < 0 || int(t) >= len(tipNames) {
		return fmt.Sprintf("Tip(%d)", int(t))
	}
	return tipNames[t]
}

// ParseTip converts a tip name such as "charcoal" into a Tip.
func ParseTip(s string) (Tip, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range tipNames {
		if n == name {
			return Tip(i), nil
		}
	}
	return Round, fmt.Errorf("unknown brush tip %q", s)
}

// Passes reports how many jittered passes follow the base segment.
func Passes(t Tip) int {
	switch t {
	case Texture:
		return 3
	case Charcoal:
		return 5
	case Watercolor:
		return 3
	}
	return 0
}

// Jitter reports the jitter spread as a multiple of the brush size.
// Each pass offsets both ends of the segment by (r-0.5)*Size*Jitter.
func Jitter(t Tip) float64 {
	switch t {
	case Texture:
		return 1
	case Charcoal:
		return 2
	case Watercolor:
		return 1.5
	}
	return 0
}
