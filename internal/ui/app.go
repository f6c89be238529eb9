// Package ui runs the drawing window. Mouse and key events are translated
// into session calls; everything drawn comes from the session's frame.
package ui

import (
	"context"
	"image"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/sketchboard/internal/brush"
	"github.com/example/sketchboard/internal/logging"
	"github.com/example/sketchboard/internal/notify"
	"github.com/example/sketchboard/internal/session"
	"github.com/example/sketchboard/internal/theme"
)

func logger() *slog.Logger { return logging.Logger() }

// App holds the window configuration.
type App struct {
	sess  *session.Session
	theme *theme.Theme
	ctl   *controller
	title string

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an App during creation.
type Option func(*App)

// WithTheme sets the window colours.
func WithTheme(t *theme.Theme) Option {
	return func(a *App) {
		if t != nil {
			a.theme = t
		}
	}
}

// WithNotifier sets the desktop notifier used for save, copy and generate.
func WithNotifier(n *notify.Notifier) Option { return func(a *App) { a.ctl.notifier = n } }

// WithSaveDir sets the directory downloads are written to.
func WithSaveDir(dir string) Option {
	return func(a *App) {
		if dir != "" {
			a.ctl.saveDir = dir
		}
	}
}

// WithGenerateTimeout bounds a single generation request.
func WithGenerateTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.ctl.timeout = d
		}
	}
}

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *App) { a.title = title } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *App) { a.onClose = fn } }

// New creates an App drawing into sess.
func New(sess *session.Session, opts ...Option) *App {
	a := &App{
		sess:  sess,
		theme: theme.Default(),
		ctl:   newController(sess),
		title: "Sketchboard",
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Run executes the UI loop using shiny's driver. It returns when the window
// closes.
func (a *App) Run() { driver.Main(a.Main) }

func (a *App) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// toolButtons builds the toolbar buttons: one per tip, then the toggles and
// commands. The returned index maps feed paintState.pressed and disabled.
type toolButtons struct {
	buttons  []*CacheButton
	tips     []brush.Tip
	erase    int
	grid     int
	undo     int
	redo     int
	generate int
}

func (a *App) newToolButtons(run func(string)) toolButtons {
	var tb toolButtons
	add := func(label string, fn func()) int {
		tb.buttons = append(tb.buttons, &CacheButton{Button: &LabelButton{label: label, theme: a.theme, onSelect: fn}})
		return len(tb.buttons) - 1
	}
	for _, t := range brush.Tips() {
		tip := t
		tb.tips = append(tb.tips, tip)
		add(tip.String(), func() { a.ctl.setTip(tip) })
	}
	tb.erase = add("E:Erase", func() { run(actionErase) })
	tb.grid = add("G:Grid", func() { run(actionGrid) })
	tb.undo = add("Undo", func() { run(actionUndo) })
	tb.redo = add("Redo", func() { run(actionRedo) })
	add("Clear", func() { run(actionClear) })
	tb.generate = add("Generate", func() { run(actionPrompt) })
	return tb
}

func (tb toolButtons) states(cfg brush.Config, flags session.Flags, undo, redo int, canGenerate bool) (pressed, disabled map[int]bool) {
	pressed = map[int]bool{}
	for i, t := range tb.tips {
		pressed[i] = t == cfg.Tip
	}
	pressed[tb.erase] = flags.Erasing
	pressed[tb.grid] = flags.ShowGrid
	disabled = map[int]bool{
		tb.undo:     undo == 0,
		tb.redo:     redo == 0,
		tb.generate: !canGenerate,
	}
	return pressed, disabled
}

// windowSize returns a window large enough for the canvas and the toolbar.
func windowSize(canvas image.Rectangle, l toolbarLayout) (int, int) {
	width := canvas.Dx() + toolbarWidth
	height := canvas.Dy() + topHeight + bottomHeight
	if n := len(l.opacity); n > 0 {
		if min := l.opacity[n-1].Max.Y + swatchGap + bottomHeight; height < min {
			height = min
		}
	}
	return width, height
}

func (a *App) Main(s screen.Screen) {
	defer a.notifyClose()

	var w screen.Window
	refresh := func() {
		if w != nil {
			w.Send(paint.Event{})
		}
	}

	var runAction func(string)
	buttons := a.newToolButtons(func(name string) { runAction(name) })
	layout := layoutToolbar(len(buttons.buttons))
	width, height := windowSize(a.sess.Bounds(), layout)

	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.title})
	if err != nil {
		logger().Error("new window", "err", err)
		return
	}
	defer w.Release()
	defer a.ctl.shutdown()

	a.ctl.refresh = refresh
	a.sess.OnChange(refresh)
	a.sess.OnWarning(func(err error) {
		a.ctl.flash("%v", err)
		refresh()
	})
	defer a.sess.OnChange(nil)
	defer a.sess.OnWarning(nil)

	keys := newKeymap(defaultBindings())
	quit := false
	runAction = func(name string) {
		if name == actionQuit {
			quit = true
			return
		}
		if !a.ctl.run(name) {
			logger().Debug("unknown action", "action", name)
		}
		refresh()
	}

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()

	var (
		drawing       bool
		view          viewport
		hoverButton   = -1
		hoverShortcut = -1
		shortcuts     []Shortcut
	)

	for !quit {
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			refresh()
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()

			var result image.Image
			if res := a.sess.Generated(); res != nil {
				result = res.Image
			}
			prompt, promptActive := a.ctl.promptState()
			cfg := a.sess.Brush()
			flags := a.sess.Flags()
			undo, redo := a.sess.UndoDepth(), a.sess.RedoDepth()
			pressed, disabled := buttons.states(cfg, flags, undo, redo, a.sess.GenerateEnabled())
			view = layoutViewport(width, height, a.sess.Bounds(), result)
			shortcuts = statusShortcuts(promptActive)
			placeShortcuts(shortcuts, statusInfo(cfg, flags, undo, redo), height)
			st := paintState{
				width:         width,
				height:        height,
				theme:         a.theme,
				frame:         a.sess.Render(),
				result:        result,
				view:          view,
				toolbar:       layout,
				buttons:       buttons.buttons,
				pressed:       pressed,
				disabled:      disabled,
				hoverButton:   hoverButton,
				brush:         cfg,
				flags:         flags,
				undo:          undo,
				redo:          redo,
				shortcuts:     shortcuts,
				hoverShortcut: hoverShortcut,
				prompt:        prompt,
				promptActive:  promptActive,
				message:       a.ctl.status(),
			}
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if _, active := a.ctl.promptState(); active {
				switch e.Code {
				case key.CodeReturnEnter:
					a.ctl.submitPrompt()
				case key.CodeEscape:
					a.ctl.cancelPrompt()
				case key.CodeDeleteBackspace:
					a.ctl.backspace()
				default:
					if e.Modifiers&key.ModControl == 0 && e.Rune > 0 {
						a.ctl.typeRune(e.Rune)
					}
				}
				refresh()
				continue
			}
			if name, ok := keys.lookup(e); ok {
				runAction(name)
			}
		case mouse.Event:
			if e.Direction == mouse.DirPress && a.ctl.dismiss() {
				refresh()
				continue
			}
			p := image.Pt(int(e.X), int(e.Y))

			if drawing {
				switch {
				case e.Direction == mouse.DirRelease && e.Button == mouse.ButtonLeft:
					a.sess.PointerUp()
					drawing = false
				case !view.inCanvas(e.X, e.Y):
					a.sess.PointerLeave()
					drawing = false
				default:
					a.sess.PointerMove(view.toCanvas(e.X, e.Y))
				}
				refresh()
				continue
			}

			if p.Y >= height-bottomHeight {
				hoverShortcut = -1
				for i, sc := range shortcuts {
					if p.In(sc.rect) {
						hoverShortcut = i
						if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
							switch sc.action {
							case "submit":
								a.ctl.submitPrompt()
							case "cancel":
								a.ctl.cancelPrompt()
							default:
								runAction(sc.action)
							}
						}
						break
					}
				}
				refresh()
				continue
			}

			if p.X < toolbarWidth {
				kind, idx := layout.hit(p)
				hoverButton = -1
				if kind == hitButton {
					hoverButton = idx
				}
				if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
					switch kind {
					case hitButton:
						buttons.buttons[idx].Activate()
					case hitPalette:
						a.ctl.setColor(brush.Palette()[idx])
					case hitSize:
						a.ctl.setSize(brush.Sizes()[idx])
					case hitOpacity:
						a.ctl.setOpacity(opacitySteps[idx])
					}
				}
				refresh()
				continue
			}
			if hoverButton != -1 || hoverShortcut != -1 {
				hoverButton, hoverShortcut = -1, -1
				refresh()
			}

			if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress && view.inCanvas(e.X, e.Y) {
				if err := a.sess.PointerDown(view.toCanvas(e.X, e.Y)); err != nil {
					logger().Warn("pointer down", "err", err)
					continue
				}
				drawing = true
				refresh()
			}
		}
	}
	if drawing {
		a.sess.PointerUp()
	}
}
