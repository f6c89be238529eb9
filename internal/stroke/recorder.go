// Package stroke records the pointer path of each freehand gesture.
package stroke

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/example/sketchboard/internal/brush"
)

// Point is a canvas position in pixels.
type Point = brush.Point

// State is the recorder's gesture state.
type State int

const (
	Idle State = iota
	Recording
)

func (s State) String() string {
	if s == Recording {
		return "recording"
	}
	return "idle"
}

// ErrRecording is returned by Start while a stroke is already open.
var ErrRecording = errors.New("stroke already in progress")

// Stroke is one continuous gesture. Points always holds at least the start
// point.
type Stroke struct {
	ID      uuid.UUID
	Points  []Point
	Brush   brush.Config
	Erase   bool
	Started time.Time
	Ended   time.Time
}

// Last returns the most recent point.
func (s Stroke) Last() Point { return s.Points[len(s.Points)-1] }

func (s Stroke) clone() Stroke {
	s.Points = append([]Point(nil), s.Points...)
	return s
}

// Recorder is the Idle/Recording state machine. It is not safe for
// concurrent use.
type Recorder struct {
	state   State
	current Stroke
	strokes []Stroke
	now     func() time.Time
}

// NewRecorder returns an idle recorder.
func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// Start opens a new stroke at p.
func (r *Recorder) Start(p Point, cfg brush.Config, erase bool) error {
	if r.state == Recording {
		return ErrRecording
	}
	r.state = Recording
	r.current = Stroke{
		ID:      uuid.New(),
		Points:  []Point{p},
		Brush:   cfg,
		Erase:   erase,
		Started: r.now(),
	}
	return nil
}

// Sample appends p and returns the previous point so the caller can draw the
// segment prev -> p. ok is false when no stroke is open.
func (r *Recorder) Sample(p Point) (prev Point, ok bool) {
	if r.state != Recording {
		return Point{}, false
	}
	prev = r.current.Last()
	r.current.Points = append(r.current.Points, p)
	return prev, true
}

// End closes the open stroke and retains it. ok is false when idle.
func (r *Recorder) End() (Stroke, bool) {
	if r.state != Recording {
		return Stroke{}, false
	}
	r.current.Ended = r.now()
	done := r.current
	r.strokes = append(r.strokes, done)
	r.current = Stroke{}
	r.state = Idle
	return done.clone(), true
}

// Cancel ends the stroke as drawn so far. Pixels already painted stay.
func (r *Recorder) Cancel() (Stroke, bool) {
	return r.End()
}

// State returns the current state.
func (r *Recorder) State() State { return r.state }

// Current returns a copy of the open stroke.
func (r *Recorder) Current() (Stroke, bool) {
	if r.state != Recording {
		return Stroke{}, false
	}
	return r.current.clone(), true
}

// Strokes returns copies of every completed stroke since the last Reset.
func (r *Recorder) Strokes() []Stroke {
	out := make([]Stroke, len(r.strokes))
	for i, s := range r.strokes {
		out[i] = s.clone()
	}
	return out
}

// Reset drops all strokes and returns to Idle.
func (r *Recorder) Reset() {
	r.state = Idle
	r.current = Stroke{}
	r.strokes = nil
}
