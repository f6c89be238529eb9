package ui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/sketchboard/internal/brush"
	"github.com/example/sketchboard/internal/render"
	"github.com/example/sketchboard/internal/session"
	"github.com/example/sketchboard/internal/theme"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

type paintState struct {
	width, height int
	theme         *theme.Theme
	frame         *image.RGBA
	result        image.Image
	view          viewport
	toolbar       toolbarLayout
	buttons       []*CacheButton
	pressed       map[int]bool
	disabled      map[int]bool
	hoverButton   int
	brush         brush.Config
	flags         session.Flags
	undo, redo    int
	shortcuts     []Shortcut
	hoverShortcut int
	prompt        string
	promptActive  bool
	message       string
}

// composeFrame draws the whole window into dst.
func composeFrame(ctx context.Context, dst *image.RGBA, st paintState) {
	th := st.theme
	fill(dst, dst.Bounds(), th.Background)
	if st.frame != nil {
		render.ScaleInto(dst, st.view.canvas, st.frame, st.view.zoom)
		drawRect(dst, st.view.canvas.Inset(-1), th.ButtonBorder, 1)
	}
	if ctx.Err() != nil {
		return
	}
	if st.result != nil && !st.view.result.Empty() {
		render.ScaleInto(dst, st.view.result, st.result, st.view.resultZoom)
		drawRect(dst, st.view.result.Inset(-1), th.ButtonBorder, 1)
	}
	if ctx.Err() != nil {
		return
	}
	drawTopBar(dst, st)
	drawToolbar(dst, st)
	drawStatusBar(dst, st)
	if ctx.Err() != nil {
		return
	}
	if st.message != "" {
		drawMessage(dst, th, st.message)
	}
}

func drawTopBar(dst *image.RGBA, st paintState) {
	th := st.theme
	fill(dst, image.Rect(0, 0, st.width, topHeight), th.ToolbarBackground)
	drawString(dst, 4, 18, "Sketchboard", th.Foreground)

	field := image.Rect(toolbarWidth, 3, st.width-4, topHeight-3)
	if field.Empty() {
		return
	}
	bg := th.ButtonDisabled
	if st.promptActive {
		bg = th.CanvasBackground
	}
	fill(dst, field, bg)
	drawRect(dst, field, th.ButtonBorder, 1)
	text := st.prompt
	switch {
	case st.promptActive:
		text += "|"
	case text == "":
		text = "^G: describe the image to generate"
	}
	// keep the caret visible by trimming from the left
	for measure(text) > field.Dx()-8 && len(text) > 1 {
		_, n := firstRune(text)
		text = text[n:]
	}
	drawString(dst, field.Min.X+4, field.Min.Y+15, text, th.Foreground)
}

func firstRune(s string) (rune, int) {
	for i, r := range s {
		if i > 0 {
			return r, i
		}
	}
	return 0, len(s)
}

func drawToolbar(dst *image.RGBA, st paintState) {
	th := st.theme
	fill(dst, image.Rect(0, topHeight, toolbarWidth, st.height-bottomHeight), th.ToolbarBackground)

	for i, cb := range st.buttons {
		if i >= len(st.toolbar.buttons) {
			break
		}
		cb.SetRect(st.toolbar.buttons[i])
		state := StateDefault
		switch {
		case st.disabled[i]:
			state = StateDisabled
		case st.pressed[i]:
			state = StatePressed
		case i == st.hoverButton:
			state = StateHover
		}
		cb.Draw(dst, state)
	}

	for i, p := range brush.Palette() {
		r := st.toolbar.palette[i]
		fill(dst, r, p.Color)
		border := th.ButtonBorder
		thick := 1
		if p.Color == st.brush.Color {
			thick = 2
			if st.flags.Erasing {
				border = th.EraseActive
			}
		}
		drawRect(dst, r, border, thick)
	}

	for i, sz := range brush.Sizes() {
		r := st.toolbar.sizes[i]
		if sz == st.brush.Size {
			fill(dst, r, th.ButtonBackgroundPress)
		}
		h := int(sz / 4)
		if h < 1 {
			h = 1
		}
		if h > r.Dy()-4 {
			h = r.Dy() - 4
		}
		cy := r.Min.Y + r.Dy()/2
		fill(dst, image.Rect(r.Min.X+4, cy-h/2, r.Max.X-24, cy-h/2+h), st.brush.Color)
		drawString(dst, r.Max.X-20, r.Min.Y+12, fmt.Sprintf("%v", sz), th.Foreground)
	}

	for i, o := range opacitySteps {
		r := st.toolbar.opacity[i]
		state := StateDefault
		if o == st.brush.Opacity {
			state = StatePressed
		}
		drawButtonFace(dst, r, th, state)
		label := fmt.Sprintf("%d", o)
		drawString(dst, r.Min.X+(r.Dx()-measure(label))/2, r.Min.Y+12, label, th.ButtonText)
	}
}

func statusInfo(cfg brush.Config, flags session.Flags, undo, redo int) string {
	info := fmt.Sprintf("%s %vpx %d%%  undo %d redo %d", cfg.Tip, cfg.Size, cfg.Opacity, undo, redo)
	if flags.Erasing {
		info += "  ERASE"
	}
	return info
}

// placeShortcuts lays the hints out to the right of the status text.
func placeShortcuts(shortcuts []Shortcut, info string, height int) {
	x := 4 + measure(info) + 12
	if x < toolbarWidth+4 {
		x = toolbarWidth + 4
	}
	y := height - bottomHeight + 16
	for i := range shortcuts {
		sc := &shortcuts[i]
		w := measure(sc.label)
		sc.rect = image.Rect(x-2, y-14, x+w+2, y+4)
		x = sc.rect.Max.X + 8
	}
}

func drawStatusBar(dst *image.RGBA, st paintState) {
	th := st.theme
	fill(dst, image.Rect(0, st.height-bottomHeight, st.width, st.height), th.StatusBackground)
	drawString(dst, 4, st.height-bottomHeight+16, statusInfo(st.brush, st.flags, st.undo, st.redo), th.StatusText)
	for i := range st.shortcuts {
		state := StateDefault
		if i == st.hoverShortcut {
			state = StateHover
		}
		st.shortcuts[i].Draw(dst, th, state)
	}
}

func drawMessage(dst *image.RGBA, th *theme.Theme, msg string) {
	b := dst.Bounds()
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: messageFace}
	wmsg := d.MeasureString(msg).Ceil()
	m := messageFace.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	px := (b.Dx() - wmsg) / 2
	py := (b.Dy()-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	bg := th.CanvasBackground
	draw.Draw(dst, rect, &image.Uniform{color.NRGBA{bg.R, bg.G, bg.B, 230}}, image.Point{}, draw.Over)
	drawRect(dst, rect, th.ButtonBorder, 2)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}

// statusShortcuts builds the clickable hints for the current mode.
func statusShortcuts(promptActive bool) []Shortcut {
	if promptActive {
		return []Shortcut{
			{label: "Enter:generate", action: "submit"},
			{label: "Esc:cancel", action: "cancel"},
		}
	}
	return []Shortcut{
		{label: "^Z:undo", action: actionUndo},
		{label: "^Y:redo", action: actionRedo},
		{label: "^N:clear", action: actionClear},
		{label: "^S:save", action: actionSave},
		{label: "^P:pdf", action: actionPDF},
		{label: "^C:copy", action: actionCopy},
		{label: "^G:generate", action: actionPrompt},
		{label: "Q:quit", action: actionQuit},
	}
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		logger().Warn("new buffer", "err", err)
		return
	}
	defer b.Release()

	composeFrame(ctx, b.RGBA(), st)
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic(fmt.Sprintf("parse font: %v", err))
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 24, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		panic(fmt.Sprintf("font face: %v", err))
	}
}
