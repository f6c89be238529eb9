package session

import (
	"context"
	"strings"

	"github.com/example/sketchboard/internal/generate"
	"github.com/example/sketchboard/internal/surface"
)

// RequestGeneration sends the visible frame and prompt to the generator. An
// empty prompt is rejected before any call. The trigger is disabled for the
// duration of the call and re-enabled on every exit path. The drawing and
// its history are never modified.
func (s *Session) RequestGeneration(ctx context.Context, prompt string) (*generate.Result, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if err := s.Wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.gen == nil {
		s.mu.Unlock()
		return nil, ErrNoGenerator
	}
	if s.busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.busy = true
	gen := s.gen
	frame := s.surf.Render()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
		s.changed()
	}()
	s.changed()

	data, err := surface.EncodePNG(frame)
	if err != nil {
		return nil, err
	}
	s.log.Info("requesting generation", "prompt_len", len(prompt), "sketch_bytes", len(data))
	res, err := gen.Generate(ctx, generate.Request{Prompt: prompt, Sketch: data})
	if err != nil {
		s.log.Warn("generation failed", "err", err)
		return nil, err
	}

	s.mu.Lock()
	s.generated = res
	s.mu.Unlock()
	s.log.Info("generation finished", "content_type", res.ContentType, "bytes", len(res.Data))
	return res, nil
}

// GenerateEnabled reports whether the generate trigger is interactive.
func (s *Session) GenerateEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.busy && s.gen != nil
}

// Generated returns the most recent successful result, or nil.
func (s *Session) Generated() *generate.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generated
}
