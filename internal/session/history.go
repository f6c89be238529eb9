package session

import (
	"context"
	"fmt"

	"github.com/example/sketchboard/internal/history"
	"github.com/example/sketchboard/internal/surface"
)

// Clear wipes the canvas and records the cleared state as a new edit. An open
// stroke is recorded first. A pending restore is cancelled; its target counts
// as the state being cleared.
func (s *Session) Clear() error {
	s.mu.Lock()
	if err := s.finishStroke(); err != nil {
		s.log.Warn("finishing stroke before clear", "err", err)
	}
	s.cancelPending()
	s.rec.Reset()
	s.surf.Clear()
	s.empty = true
	err := s.commit()
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

// Undo steps back one edit. The surface is restored asynchronously; use Wait
// to block until it lands. It reports whether there was anything to undo.
func (s *Session) Undo() bool {
	return s.transition(history.Undo)
}

// Redo re-applies the most recently undone edit asynchronously.
func (s *Session) Redo() bool {
	return s.transition(history.Redo)
}

func (s *Session) transition(dir history.Direction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.finishStroke(); err != nil {
		s.log.Warn("finishing stroke before history step", "err", err)
	}

	var (
		target surface.Snapshot
		ok     bool
	)
	// current is the pending target when a restore is in flight, so the
	// stacks describe what the user asked for rather than the stale raster.
	if dir == history.Undo {
		target, ok = s.hist.Undo(s.current)
	} else {
		target, ok = s.hist.Redo(s.current)
	}
	if !ok {
		return false
	}
	s.current = target
	s.startRestore(dir, target)
	return true
}

// startRestore supersedes any in-flight restore. Called with s.mu held.
func (s *Session) startRestore(dir history.Direction, target surface.Snapshot) {
	s.cancelPending()
	s.seq++
	ctx, cancel := context.WithCancel(context.Background())
	p := &restore{
		seq:    s.seq,
		dir:    dir,
		target: target,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.pending = p
	go s.runRestore(ctx, p)
}

func (s *Session) cancelPending() {
	if s.pending == nil {
		return
	}
	s.pending.cancel()
	s.pending = nil
}

func (s *Session) runRestore(ctx context.Context, p *restore) {
	defer close(p.done)
	defer p.cancel()

	img, err := s.surf.Decode(ctx, p.target)

	s.mu.Lock()
	if s.pending != p {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	if err == nil {
		err = s.surf.Apply(img)
	}
	if err != nil {
		s.log.Warn("restore failed", "direction", p.dir, "seq", p.seq, "err", err)
		// The failed target is gone. Take back the entry this transition
		// pushed: it is either what the screen shows, or the target of a
		// superseded transition, which is restored instead.
		prev, ok := s.hist.Abandon(p.dir)
		if ok && !prev.Same(s.shown) {
			s.current = prev
			s.startRestore(p.dir, prev)
		} else {
			s.current = s.shown
		}
	} else {
		s.shown = p.target
	}
	s.mu.Unlock()

	if err != nil {
		s.warn(fmt.Errorf("%s failed: %w", p.dir, err))
	}
	s.changed()
}
