package ui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/example/sketchboard/internal/brush"
	"github.com/example/sketchboard/internal/clipboard"
	"github.com/example/sketchboard/internal/export"
	"github.com/example/sketchboard/internal/generate"
	"github.com/example/sketchboard/internal/logging"
	"github.com/example/sketchboard/internal/notify"
	"github.com/example/sketchboard/internal/session"
)

const messageDuration = 2 * time.Second

// controller performs window actions against the session. It has no
// dependency on the window system so it can be driven from tests.
type controller struct {
	sess      *session.Session
	notifier  *notify.Notifier
	saveDir   string
	timeout   time.Duration
	copyImage func(image.Image) error
	log       *slog.Logger
	refresh   func()
	now       func() time.Time

	mu           sync.Mutex
	message      string
	messageUntil time.Time
	promptActive bool
	prompt       string
	lastPrompt   string

	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newController(sess *session.Session) *controller {
	base, cancel := context.WithCancel(context.Background())
	return &controller{
		base:      base,
		cancel:    cancel,
		sess:      sess,
		saveDir:   export.DefaultDir(),
		timeout:   2 * time.Minute,
		copyImage: clipboard.WriteImage,
		log:       logging.Logger(),
		refresh:   func() {},
		now:       time.Now,
	}
}

func (c *controller) flash(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.mu.Lock()
	c.message = msg
	c.messageUntil = c.now().Add(messageDuration)
	c.mu.Unlock()
}

// status returns the transient message, if one is still showing.
func (c *controller) status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.message == "" || !c.now().Before(c.messageUntil) {
		return ""
	}
	return c.message
}

func (c *controller) dismiss() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.message == "" || !c.now().Before(c.messageUntil) {
		return false
	}
	c.messageUntil = time.Time{}
	return true
}

// run dispatches a named action. It reports false for unknown names and
// for quit, which the window loop handles itself.
func (c *controller) run(action string) bool {
	switch action {
	case actionUndo:
		if !c.sess.Undo() {
			c.flash("nothing to undo")
		}
	case actionRedo:
		if !c.sess.Redo() {
			c.flash("nothing to redo")
		}
	case actionGrid:
		if c.sess.ToggleGrid() {
			c.flash("grid on")
		} else {
			c.flash("grid off")
		}
	case actionErase:
		if c.sess.ToggleErase() {
			c.flash("eraser on")
		} else {
			c.flash("eraser off")
		}
	case actionClear:
		if err := c.sess.Clear(); err != nil {
			c.fail("clear", err)
		}
	case actionSave:
		c.saveSketch()
	case actionSaveGenerated:
		c.saveGenerated()
	case actionPDF:
		c.exportPDF()
	case actionCopy:
		c.copy(c.sess.Render(), "sketch")
	case actionCopyGenerated:
		res := c.sess.Generated()
		if res == nil || res.Image == nil {
			c.flash("%s", export.ErrNothingToExport)
			return true
		}
		c.copy(res.Image, "generated image")
	case actionPrompt:
		c.beginPrompt()
	default:
		return false
	}
	return true
}

func (c *controller) fail(what string, err error) {
	c.log.Warn(what, "err", err)
	c.flash("%s failed: %v", what, err)
}

func (c *controller) saveSketch() {
	path, err := export.Download(c.saveDir, export.SketchName, c.sess.Render())
	if err != nil {
		c.fail("save", err)
		return
	}
	c.log.Info("saved sketch", "path", path)
	c.notifier.Save(path)
	c.flash("saved %s", path)
}

func (c *controller) saveGenerated() {
	path, err := export.DownloadGenerated(c.saveDir, c.sess.Generated())
	if errors.Is(err, export.ErrNothingToExport) {
		c.flash("%s", err)
		return
	}
	if err != nil {
		c.fail("save", err)
		return
	}
	c.log.Info("saved generated image", "path", path)
	c.notifier.Save(path)
	c.flash("saved %s", path)
}

func (c *controller) exportPDF() {
	path := export.UniquePath(filepath.Join(c.saveDir, "sketch.pdf"))
	if err := export.SavePDF(path, c.sess.Render()); err != nil {
		c.fail("export", err)
		return
	}
	c.log.Info("exported pdf", "path", path)
	c.notifier.Save(path)
	c.flash("saved %s", path)
}

func (c *controller) copy(img image.Image, what string) {
	if err := c.copyImage(img); err != nil {
		c.fail("copy", err)
		return
	}
	c.log.Info("copied to clipboard", "what", what)
	c.notifier.Copy(what)
	c.flash("%s copied to clipboard", what)
}

// Brush controls.

func (c *controller) updateBrush(fn func(*brush.Config)) {
	cfg := c.sess.Brush()
	fn(&cfg)
	if err := c.sess.SetBrush(cfg); err != nil {
		c.flash("%v", err)
	}
}

func (c *controller) setTip(t brush.Tip) { c.updateBrush(func(b *brush.Config) { b.Tip = t }) }

func (c *controller) setColor(col brush.PaletteColor) {
	c.updateBrush(func(b *brush.Config) { b.Color = col.Color })
}

func (c *controller) setSize(size float64) { c.updateBrush(func(b *brush.Config) { b.Size = size }) }

func (c *controller) setOpacity(o int) { c.updateBrush(func(b *brush.Config) { b.Opacity = o }) }

// Prompt entry.

func (c *controller) beginPrompt() {
	if !c.sess.GenerateEnabled() {
		c.flash("generation unavailable")
		return
	}
	c.mu.Lock()
	c.promptActive = true
	c.prompt = c.lastPrompt
	c.mu.Unlock()
}

func (c *controller) promptState() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prompt, c.promptActive
}

func (c *controller) typeRune(r rune) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.promptActive || r < ' ' {
		return
	}
	if utf8.RuneCountInString(c.prompt) >= generate.MaxPromptLength {
		return
	}
	c.prompt += string(r)
}

func (c *controller) backspace() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.promptActive || c.prompt == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(c.prompt)
	c.prompt = c.prompt[:len(c.prompt)-size]
}

func (c *controller) cancelPrompt() {
	c.mu.Lock()
	c.promptActive = false
	c.mu.Unlock()
}

// submitPrompt closes the entry and sends the request on a goroutine. The
// window stays responsive; refresh is called when the result arrives.
func (c *controller) submitPrompt() {
	c.mu.Lock()
	prompt := c.prompt
	c.promptActive = false
	c.lastPrompt = prompt
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.refresh()
		ctx, cancel := context.WithTimeout(c.base, c.timeout)
		defer cancel()
		c.flash("generating...")
		c.refresh()
		res, err := c.sess.RequestGeneration(ctx, prompt)
		switch {
		case errors.Is(err, session.ErrEmptyPrompt):
			c.flash("Please enter a description")
		case err != nil:
			msg := generate.UserMessage(err)
			c.flash("%s", msg)
			c.notifier.GenerateFailed(err.Error())
		default:
			c.flash("image generated")
			c.notifier.Generated(prompt, res.Image)
		}
	}()
}

// wait blocks until background generation requests have finished.
func (c *controller) wait() { c.wg.Wait() }

// shutdown abandons running requests and waits for them to return.
func (c *controller) shutdown() {
	c.cancel()
	c.wg.Wait()
}
