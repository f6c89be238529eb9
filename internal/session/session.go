// Package session turns pointer and toolbar input into surface, brush,
// recorder and history operations.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/example/sketchboard/internal/brush"
	"github.com/example/sketchboard/internal/generate"
	"github.com/example/sketchboard/internal/history"
	"github.com/example/sketchboard/internal/logging"
	"github.com/example/sketchboard/internal/stroke"
	"github.com/example/sketchboard/internal/surface"
)

var (
	// ErrEmptyPrompt rejects a generation request before any network call.
	ErrEmptyPrompt = errors.New("please enter a description")
	// ErrBusy is returned while a generation request is already running.
	ErrBusy = errors.New("generation already in progress")
	// ErrNoGenerator is returned when no generator was configured.
	ErrNoGenerator = errors.New("no image generator configured")
)

// Flags reports the session's mode flags.
type Flags struct {
	Erasing     bool
	ShowGrid    bool
	CanvasEmpty bool
}

// Session owns one drawing. Its methods are safe for concurrent use; the
// restore decode and the generation call run without holding the lock.
type Session struct {
	mu     sync.Mutex
	surf   *surface.Surface
	engine *brush.Engine
	rec    *stroke.Recorder
	hist   *history.Manager
	gen    generate.Generator
	log    *slog.Logger

	brush   brush.Config
	erasing bool
	empty   bool

	// current is the committed state the user expects to see; shown is the
	// state actually on the surface. They differ only while a restore is
	// pending.
	current surface.Snapshot
	shown   surface.Snapshot
	seq     uint64
	pending *restore

	busy      bool
	generated *generate.Result

	onWarning func(error)
	onChange  func()
}

type restore struct {
	seq    uint64
	dir    history.Direction
	target surface.Snapshot
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Session.
type Option func(*Session)

// WithGenerator sets the image generator used by RequestGeneration.
func WithGenerator(g generate.Generator) Option {
	return func(s *Session) { s.gen = g }
}

// WithBrush sets the initial brush.
func WithBrush(cfg brush.Config) Option {
	return func(s *Session) { s.brush = cfg }
}

// WithLogger overrides the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// New wires the components of a session. engine must paint on surf.Image().
func New(surf *surface.Surface, engine *brush.Engine, rec *stroke.Recorder, hist *history.Manager, opts ...Option) (*Session, error) {
	if surf == nil || engine == nil || rec == nil || hist == nil {
		return nil, errors.New("session: nil component")
	}
	if engine.Target() != surf.Image() {
		return nil, errors.New("session: brush engine is not bound to the surface")
	}
	s := &Session{
		surf:   surf,
		engine: engine,
		rec:    rec,
		hist:   hist,
		log:    logging.Logger(),
		brush:  brush.DefaultConfig(),
		empty:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.brush.Validate(); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	snap, err := surf.Snapshot()
	if err != nil {
		return nil, err
	}
	s.current, s.shown = snap, snap
	return s, nil
}

// OnWarning registers fn for non-fatal problems such as a failed restore.
// fn is called without the session lock held.
func (s *Session) OnWarning(fn func(error)) {
	s.mu.Lock()
	s.onWarning = fn
	s.mu.Unlock()
}

// OnChange registers fn to be called after an asynchronous restore lands.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// SetBrush validates cfg and uses it for the following segments.
func (s *Session) SetBrush(cfg brush.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.brush = cfg
	s.mu.Unlock()
	return nil
}

// Brush returns the current brush.
func (s *Session) Brush() brush.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.brush
}

// ToggleErase flips erase mode for subsequent segments and returns the new
// state.
func (s *Session) ToggleErase() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.erasing = !s.erasing
	return s.erasing
}

// ToggleGrid flips the grid overlay and returns the new state. Paint pixels
// and history are not touched.
func (s *Session) ToggleGrid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surf.SetGrid(!s.surf.ShowGrid())
	return s.surf.ShowGrid()
}

// Flags returns the mode flags.
func (s *Session) Flags() Flags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Flags{Erasing: s.erasing, ShowGrid: s.surf.ShowGrid(), CanvasEmpty: s.empty}
}

// Render returns the visible frame.
func (s *Session) Render() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surf.Render()
}

// Bounds returns the canvas rectangle.
func (s *Session) Bounds() image.Rectangle {
	return s.surf.Bounds()
}

// SketchPNG encodes the visible frame, grid included, as PNG.
func (s *Session) SketchPNG() ([]byte, error) {
	return surface.EncodePNG(s.Render())
}

// Strokes returns the strokes completed since the last Clear.
func (s *Session) Strokes() []stroke.Stroke {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Strokes()
}

// UndoDepth and RedoDepth report the history stack sizes.
func (s *Session) UndoDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.UndoDepth()
}

func (s *Session) RedoDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.RedoDepth()
}

func (s *Session) warn(err error) {
	s.mu.Lock()
	fn := s.onWarning
	s.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}

func (s *Session) changed() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}
