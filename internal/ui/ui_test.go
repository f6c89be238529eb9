package ui

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/mobile/event/key"

	"github.com/example/sketchboard/internal/brush"
	"github.com/example/sketchboard/internal/export"
	"github.com/example/sketchboard/internal/generate"
	"github.com/example/sketchboard/internal/history"
	"github.com/example/sketchboard/internal/notify"
	"github.com/example/sketchboard/internal/platform"
	"github.com/example/sketchboard/internal/session"
	"github.com/example/sketchboard/internal/stroke"
	"github.com/example/sketchboard/internal/surface"
	"github.com/example/sketchboard/internal/theme"
)

func newTestSession(t *testing.T, gen generate.Generator) *session.Session {
	t.Helper()
	surf, err := surface.New(120, 80)
	if err != nil {
		t.Fatal(err)
	}
	engine := brush.NewEngine(surf.Image(), brush.WithRand(rand.New(rand.NewPCG(3, 4))))
	var opts []session.Option
	if gen != nil {
		opts = append(opts, session.WithGenerator(gen))
	}
	s, err := session.New(surf, engine, stroke.NewRecorder(), history.New(0), opts...)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

type sentNote struct{ title, body string }

type testRig struct {
	sess   *session.Session
	ctl    *controller
	dir    string
	copied []image.Image
	mu     sync.Mutex
	notes  []sentNote
}

func newRig(t *testing.T, gen generate.Generator) *testRig {
	t.Helper()
	r := &testRig{sess: newTestSession(t, gen), dir: t.TempDir()}
	r.ctl = newController(r.sess)
	r.ctl.saveDir = r.dir
	r.ctl.copyImage = func(img image.Image) error {
		r.copied = append(r.copied, img)
		return nil
	}
	n := notify.New(notify.DefaultPreferences()).WithSender(func(title, body string, _ platform.Options) error {
		r.mu.Lock()
		r.notes = append(r.notes, sentNote{title, body})
		r.mu.Unlock()
		return nil
	})
	n.Enable(notify.EventGenerate, true)
	n.Enable(notify.EventSave, true)
	n.Enable(notify.EventCopy, true)
	r.ctl.notifier = n
	return r
}

func (r *testRig) stroke(t *testing.T) {
	t.Helper()
	if err := r.sess.PointerDown(brush.Point{X: 10, Y: 10}); err != nil {
		t.Fatal(err)
	}
	r.sess.PointerMove(brush.Point{X: 50, Y: 10})
	r.sess.PointerUp()
}

func settle(t *testing.T, s *session.Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Wait(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestKeymapLookup(t *testing.T) {
	km := newKeymap(defaultBindings())
	tests := []struct {
		name string
		ev   key.Event
		want string
	}{
		{"ctrl z", key.Event{Rune: 'z', Code: key.CodeZ, Modifiers: key.ModControl}, actionUndo},
		{"ctrl y", key.Event{Rune: 'y', Code: key.CodeY, Modifiers: key.ModControl}, actionRedo},
		{"ctrl shift z", key.Event{Rune: 'Z', Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift}, actionRedo},
		{"control character", key.Event{Rune: 26, Code: key.CodeZ, Modifiers: key.ModControl}, actionUndo},
		{"code only", key.Event{Rune: -1, Code: key.CodeS, Modifiers: key.ModControl}, actionSave},
		{"ctrl shift s", key.Event{Rune: 'S', Code: key.CodeS, Modifiers: key.ModControl | key.ModShift}, actionSaveGenerated},
		{"grid", key.Event{Rune: 'g', Code: key.CodeG}, actionGrid},
		{"erase", key.Event{Rune: 'e', Code: key.CodeE}, actionErase},
		{"clear", key.Event{Rune: 'n', Code: key.CodeN, Modifiers: key.ModControl}, actionClear},
		{"pdf", key.Event{Rune: 'p', Code: key.CodeP, Modifiers: key.ModControl}, actionPDF},
		{"prompt", key.Event{Rune: 'g', Code: key.CodeG, Modifiers: key.ModControl}, actionPrompt},
		{"quit", key.Event{Rune: 'q', Code: key.CodeQ}, actionQuit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := km.lookup(tt.ev)
			if !ok || got != tt.want {
				t.Fatalf("lookup = %q, %v; want %q", got, ok, tt.want)
			}
		})
	}
	if got, ok := km.lookup(key.Event{Rune: 'x', Code: key.CodeX}); ok {
		t.Fatalf("unexpected binding %q for x", got)
	}
}

func TestToolbarLayoutHit(t *testing.T) {
	l := layoutToolbar(11)
	if len(l.buttons) != 11 || len(l.palette) != len(brush.Palette()) || len(l.sizes) != len(brush.Sizes()) || len(l.opacity) != len(opacitySteps) {
		t.Fatalf("unexpected layout counts %d %d %d %d", len(l.buttons), len(l.palette), len(l.sizes), len(l.opacity))
	}
	center := func(r image.Rectangle) image.Point { return r.Min.Add(r.Size().Div(2)) }
	checks := []struct {
		p    image.Point
		kind hitKind
		idx  int
	}{
		{center(l.buttons[0]), hitButton, 0},
		{center(l.buttons[10]), hitButton, 10},
		{center(l.palette[3]), hitPalette, 3},
		{center(l.sizes[4]), hitSize, 4},
		{center(l.opacity[1]), hitOpacity, 1},
		{image.Pt(toolbarWidth+50, 5), hitNone, -1},
	}
	for _, c := range checks {
		kind, idx := l.hit(c.p)
		if kind != c.kind || idx != c.idx {
			t.Errorf("hit(%v) = %v,%d; want %v,%d", c.p, kind, idx, c.kind, c.idx)
		}
	}
	if l.buttons[10].Max.Y > l.palette[0].Min.Y {
		t.Error("buttons overlap the palette")
	}
	for _, r := range append(append(l.palette, l.sizes...), l.opacity...) {
		if r.Max.X > toolbarWidth {
			t.Fatalf("control %v exceeds the toolbar", r)
		}
	}
}

func TestViewportMapping(t *testing.T) {
	canvas := image.Rect(0, 0, 800, 600)
	v := layoutViewport(800+toolbarWidth, 600+topHeight+bottomHeight, canvas, nil)
	if v.zoom != 1 || v.canvas.Min != image.Pt(toolbarWidth, topHeight) {
		t.Fatalf("unexpected viewport %+v", v)
	}
	if got := v.toCanvas(float32(toolbarWidth+10), float32(topHeight+20)); got != (brush.Point{X: 10, Y: 20}) {
		t.Fatalf("toCanvas = %+v", got)
	}
	if v.inCanvas(2, 2) {
		t.Fatal("toolbar reported inside canvas")
	}

	result := image.NewRGBA(image.Rect(0, 0, 512, 512))
	v = layoutViewport(800+toolbarWidth, 600+topHeight+bottomHeight, canvas, result)
	if v.zoom != 0.5 {
		t.Fatalf("zoom with result = %v, want 0.5", v.zoom)
	}
	got := v.toCanvas(float32(v.canvas.Max.X), float32(v.canvas.Max.Y))
	if got.X != 800 || got.Y != 600 {
		t.Fatalf("canvas corner maps to %+v", got)
	}
	if v.result.Empty() || v.result.Min.X < v.canvas.Max.X {
		t.Fatalf("result placed at %v", v.result)
	}
}

func TestWindowSizeFitsToolbar(t *testing.T) {
	l := layoutToolbar(11)
	w, h := windowSize(image.Rect(0, 0, 120, 80), l)
	if w != 120+toolbarWidth {
		t.Fatalf("width = %d", w)
	}
	if h < l.opacity[len(l.opacity)-1].Max.Y+bottomHeight {
		t.Fatalf("height %d clips the toolbar", h)
	}
}

func TestControllerSaveAndExport(t *testing.T) {
	r := newRig(t, nil)
	r.stroke(t)

	if !r.ctl.run(actionSave) {
		t.Fatal("save not handled")
	}
	path := filepath.Join(r.dir, export.SketchName)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("sketch not written: %v", err)
	}
	if got := r.ctl.status(); got != "saved "+path {
		t.Fatalf("status = %q", got)
	}

	r.ctl.run(actionPDF)
	if _, err := os.Stat(filepath.Join(r.dir, "sketch.pdf")); err != nil {
		t.Fatalf("pdf not written: %v", err)
	}

	r.ctl.run(actionSaveGenerated)
	if got := r.ctl.status(); got != export.ErrNothingToExport.Error() {
		t.Fatalf("status = %q", got)
	}
	if _, err := os.Stat(filepath.Join(r.dir, export.GeneratedName)); !os.IsNotExist(err) {
		t.Fatal("generated image written without a result")
	}

	r.ctl.run(actionCopy)
	if len(r.copied) != 1 || r.copied[0].Bounds() != r.sess.Bounds() {
		t.Fatalf("copied %d images", len(r.copied))
	}

	if len(r.notes) != 3 {
		t.Fatalf("sent %d notifications, want 3", len(r.notes))
	}
	if !strings.HasPrefix(r.notes[0].body, "Saved ") || r.notes[2].body != "Copied sketch to clipboard" {
		t.Fatalf("unexpected notifications %+v", r.notes)
	}
}

func TestControllerCopyFailure(t *testing.T) {
	r := newRig(t, nil)
	r.ctl.copyImage = func(image.Image) error { return errors.New("no display") }
	r.ctl.run(actionCopy)
	if got := r.ctl.status(); got != "copy failed: no display" {
		t.Fatalf("status = %q", got)
	}
	if len(r.notes) != 0 {
		t.Fatal("failed copy was announced")
	}
}

func TestControllerToggleAndHistory(t *testing.T) {
	r := newRig(t, nil)
	grid := r.sess.Flags().ShowGrid
	r.ctl.run(actionGrid)
	if r.sess.Flags().ShowGrid == grid {
		t.Fatal("grid not toggled")
	}
	r.ctl.run(actionErase)
	if !r.sess.Flags().Erasing {
		t.Fatal("erase not toggled")
	}
	r.ctl.run(actionErase)

	r.ctl.run(actionUndo)
	if got := r.ctl.status(); got != "nothing to undo" {
		t.Fatalf("status = %q", got)
	}

	blank := r.sess.Render()
	r.stroke(t)
	r.ctl.run(actionUndo)
	settle(t, r.sess)
	if !surface.Equal(r.sess.Render(), blank) {
		t.Fatal("undo did not restore the blank canvas")
	}
	r.ctl.run(actionRedo)
	settle(t, r.sess)
	if surface.Equal(r.sess.Render(), blank) {
		t.Fatal("redo did not bring the stroke back")
	}

	r.ctl.run(actionClear)
	if !r.sess.Flags().CanvasEmpty || r.sess.UndoDepth() != 2 {
		t.Fatalf("clear: flags %+v undo depth %d", r.sess.Flags(), r.sess.UndoDepth())
	}
	if r.ctl.run("bogus") {
		t.Fatal("unknown action reported as handled")
	}
}

func TestControllerBrushControls(t *testing.T) {
	r := newRig(t, nil)
	r.ctl.setTip(brush.Charcoal)
	r.ctl.setSize(20)
	r.ctl.setOpacity(50)
	red := brush.Palette()[2]
	r.ctl.setColor(red)

	got := r.sess.Brush()
	if got.Tip != brush.Charcoal || got.Size != 20 || got.Opacity != 50 || got.Color != red.Color {
		t.Fatalf("brush = %+v", got)
	}

	r.ctl.setSize(0)
	if r.sess.Brush().Size != 20 {
		t.Fatal("invalid size applied")
	}
	if r.ctl.status() == "" {
		t.Fatal("invalid size not reported")
	}
}

func TestPromptEditing(t *testing.T) {
	r := newRig(t, generate.GeneratorFunc(func(context.Context, generate.Request) (*generate.Result, error) {
		return nil, errors.New("unused")
	}))
	r.ctl.beginPrompt()
	for _, ch := range "cat" {
		r.ctl.typeRune(ch)
	}
	r.ctl.typeRune('\b')
	r.ctl.backspace()
	r.ctl.typeRune('r')
	prompt, active := r.ctl.promptState()
	if !active || prompt != "car" {
		t.Fatalf("prompt = %q active=%v", prompt, active)
	}
	r.ctl.cancelPrompt()
	if _, active := r.ctl.promptState(); active {
		t.Fatal("prompt still active after cancel")
	}
	r.ctl.typeRune('x')
	if prompt, _ := r.ctl.promptState(); prompt != "car" {
		t.Fatalf("inactive prompt edited: %q", prompt)
	}
}

func TestPromptUnavailableWithoutGenerator(t *testing.T) {
	r := newRig(t, nil)
	r.ctl.run(actionPrompt)
	if _, active := r.ctl.promptState(); active {
		t.Fatal("prompt opened without a generator")
	}
	if r.ctl.status() != "generation unavailable" {
		t.Fatalf("status = %q", r.ctl.status())
	}
}

func TestSubmitPrompt(t *testing.T) {
	out := image.NewRGBA(image.Rect(0, 0, 16, 16))
	data, err := surface.EncodePNG(out)
	if err != nil {
		t.Fatal(err)
	}
	var got generate.Request
	calls := 0
	r := newRig(t, generate.GeneratorFunc(func(_ context.Context, req generate.Request) (*generate.Result, error) {
		calls++
		got = req
		return &generate.Result{Image: out, Data: data, ContentType: "image/png"}, nil
	}))
	refreshed := 0
	r.ctl.refresh = func() { refreshed++ }

	r.ctl.beginPrompt()
	for _, ch := range "a red barn" {
		r.ctl.typeRune(ch)
	}
	r.ctl.submitPrompt()
	r.ctl.wait()

	if calls != 1 || got.Prompt != "a red barn" || generate.ValidateSketch(got.Sketch) != nil {
		t.Fatalf("generator called %d times with %q", calls, got.Prompt)
	}
	if r.sess.Generated() == nil {
		t.Fatal("result not stored")
	}
	if r.ctl.status() != "image generated" {
		t.Fatalf("status = %q", r.ctl.status())
	}
	if refreshed == 0 {
		t.Fatal("window not refreshed")
	}
	if len(r.notes) != 1 || !strings.Contains(r.notes[0].body, "a red barn") {
		t.Fatalf("notifications %+v", r.notes)
	}

	r.ctl.run(actionSaveGenerated)
	if _, err := os.Stat(filepath.Join(r.dir, export.GeneratedName)); err != nil {
		t.Fatalf("generated image not saved: %v", err)
	}

	r.ctl.beginPrompt()
	if prompt, _ := r.ctl.promptState(); prompt != "a red barn" {
		t.Fatalf("prompt not remembered: %q", prompt)
	}
}

func TestSubmitPromptErrors(t *testing.T) {
	calls := 0
	r := newRig(t, generate.GeneratorFunc(func(context.Context, generate.Request) (*generate.Result, error) {
		calls++
		return nil, &generate.Error{Status: 500, Message: "Internal error"}
	}))

	r.ctl.beginPrompt()
	r.ctl.typeRune(' ')
	r.ctl.submitPrompt()
	r.ctl.wait()
	if calls != 0 {
		t.Fatal("blank prompt reached the generator")
	}
	if r.ctl.status() != "Please enter a description" {
		t.Fatalf("status = %q", r.ctl.status())
	}

	r.ctl.beginPrompt()
	r.ctl.typeRune('x')
	r.ctl.submitPrompt()
	r.ctl.wait()
	if calls != 1 {
		t.Fatalf("generator called %d times", calls)
	}
	if msg := r.ctl.status(); !strings.HasPrefix(msg, "Error generating image: ") || !strings.Contains(msg, "try again later") {
		t.Fatalf("status = %q", msg)
	}
	if !r.sess.GenerateEnabled() {
		t.Fatal("generate left disabled after failure")
	}
	if len(r.notes) != 1 || !strings.HasPrefix(r.notes[0].body, "Generation failed") {
		t.Fatalf("notifications %+v", r.notes)
	}
}

func TestMessageExpires(t *testing.T) {
	r := newRig(t, nil)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r.ctl.now = func() time.Time { return now }
	r.ctl.flash("hello %d", 1)
	if r.ctl.status() != "hello 1" {
		t.Fatalf("status = %q", r.ctl.status())
	}
	now = now.Add(messageDuration + time.Millisecond)
	if r.ctl.status() != "" {
		t.Fatal("message did not expire")
	}

	r.ctl.flash("again")
	if !r.ctl.dismiss() || r.ctl.status() != "" {
		t.Fatal("dismiss did not hide the message")
	}
	if r.ctl.dismiss() {
		t.Fatal("dismiss reported a hidden message")
	}
}

func TestComposeFrame(t *testing.T) {
	r := newRig(t, nil)
	r.stroke(t)

	th := theme.Default()
	a := &App{sess: r.sess, theme: th, ctl: r.ctl}
	buttons := a.newToolButtons(func(string) {})
	layout := layoutToolbar(len(buttons.buttons))
	width, height := windowSize(r.sess.Bounds(), layout)
	cfg := r.sess.Brush()
	flags := r.sess.Flags()
	pressed, disabled := buttons.states(cfg, flags, r.sess.UndoDepth(), r.sess.RedoDepth(), r.sess.GenerateEnabled())
	if !pressed[0] || !disabled[buttons.redo] || disabled[buttons.undo] || !disabled[buttons.generate] {
		t.Fatalf("button states pressed=%v disabled=%v", pressed, disabled)
	}

	shortcuts := statusShortcuts(false)
	placeShortcuts(shortcuts, statusInfo(cfg, flags, 1, 0), height)
	view := layoutViewport(width, height, r.sess.Bounds(), nil)
	st := paintState{
		width: width, height: height, theme: th,
		frame: r.sess.Render(), view: view, toolbar: layout,
		buttons: buttons.buttons, pressed: pressed, disabled: disabled, hoverButton: -1,
		brush: cfg, flags: flags, undo: 1,
		shortcuts: shortcuts, hoverShortcut: -1,
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	composeFrame(context.Background(), dst, st)

	p := view.canvas.Min.Add(image.Pt(30, 10))
	if got := dst.RGBAAt(p.X, p.Y); got != (color.RGBA{0, 0, 0, 255}) {
		t.Fatalf("stroke pixel = %v", got)
	}
	q := view.canvas.Min.Add(image.Pt(105, 75))
	if got := dst.RGBAAt(q.X, q.Y); got != th.CanvasBackground {
		t.Fatalf("blank canvas pixel = %v", got)
	}
	if got := dst.RGBAAt(1, height-2); got != th.StatusBackground {
		t.Fatalf("status bar pixel = %v", got)
	}
	for i, sc := range shortcuts {
		if sc.rect.Empty() || sc.rect.Max.Y > height {
			t.Fatalf("shortcut %d placed at %v", i, sc.rect)
		}
	}
}
