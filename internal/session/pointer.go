package session

import (
	"context"
	"fmt"

	"github.com/example/sketchboard/internal/stroke"
)

// PointerDown starts a stroke at p. It waits for any pending restore so the
// stroke lands on the restored raster.
func (s *Session) PointerDown(p stroke.Point) error {
	s.lockSettled()
	defer s.mu.Unlock()
	if err := s.rec.Start(p, s.brush, s.erasing); err != nil {
		return err
	}
	s.empty = false
	return nil
}

// PointerMove draws the segment from the previous sample to p with the
// current brush. It does nothing when no stroke is open.
func (s *Session) PointerMove(p stroke.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.rec.Sample(p)
	if !ok {
		return
	}
	s.engine.Draw(prev, p, s.brush, s.erasing, s.surf.Background())
}

// PointerUp ends the stroke and records the state it replaced.
func (s *Session) PointerUp() {
	s.mu.Lock()
	err := s.finishStroke()
	s.mu.Unlock()
	if err != nil {
		s.warn(err)
	}
}

// PointerLeave ends the stroke as drawn so far.
func (s *Session) PointerLeave() {
	s.PointerUp()
}

// finishStroke must be called with s.mu held.
func (s *Session) finishStroke() error {
	st, ok := s.rec.End()
	if !ok {
		return nil
	}
	if err := s.commit(); err != nil {
		return fmt.Errorf("record stroke: %w", err)
	}
	s.log.Debug("stroke recorded", "id", st.ID, "points", len(st.Points), "tip", st.Brush.Tip, "erase", st.Erase)
	return nil
}

// commit pushes the previously committed state onto the undo stack and makes
// the surface the new committed state. Called with s.mu held.
func (s *Session) commit() error {
	snap, err := s.surf.Snapshot()
	if err != nil {
		return err
	}
	s.hist.Record(s.current)
	s.current, s.shown = snap, snap
	return nil
}

// lockSettled acquires s.mu once no restore is pending.
func (s *Session) lockSettled() {
	for {
		s.mu.Lock()
		p := s.pending
		if p == nil {
			return
		}
		s.mu.Unlock()
		<-p.done
	}
}

// Wait blocks until no restore is pending or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	for {
		s.mu.Lock()
		p := s.pending
		s.mu.Unlock()
		if p == nil {
			return nil
		}
		select {
		case <-p.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
