package theme

import (
	"image/color"
)

// Theme defines the colour palette for the window chrome and the canvas.
type Theme struct {
	Name string

	// General
	Background color.RGBA // window background around the canvas
	Foreground color.RGBA // main text colour

	// Toolbar & status bar
	ToolbarBackground color.RGBA
	StatusBackground  color.RGBA
	StatusText        color.RGBA

	// Buttons
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonDisabled        color.RGBA // generate button while a request is in flight
	ButtonText            color.RGBA
	ButtonBorder          color.RGBA

	// Canvas
	CanvasBackground color.RGBA // paper colour, also used by the eraser
	GridLine         color.RGBA
	EraseActive      color.RGBA // highlight for the erase toggle
}

// Default returns the built-in light theme.
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{220, 220, 220, 255},
		Foreground:            color.RGBA{0, 0, 0, 255},
		ToolbarBackground:     color.RGBA{220, 220, 220, 255},
		StatusBackground:      color.RGBA{220, 220, 220, 255},
		StatusText:            color.RGBA{0, 0, 0, 255},
		ButtonBackground:      color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover: color.RGBA{180, 180, 180, 255},
		ButtonBackgroundPress: color.RGBA{150, 150, 150, 255},
		ButtonDisabled:        color.RGBA{235, 235, 235, 255},
		ButtonText:            color.RGBA{0, 0, 0, 255},
		ButtonBorder:          color.RGBA{0, 0, 0, 255},
		CanvasBackground:      color.RGBA{255, 255, 255, 255},
		GridLine:              color.RGBA{0xf0, 0xf0, 0xf0, 255},
		EraseActive:           color.RGBA{0xff, 0x4a, 0x4a, 255},
	}
}
