// Package generate talks to the external sketch-to-image service.
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg" // LightX returns JPEG output
	_ "image/png"
	"net/http"
	"strings"

	_ "golang.org/x/image/webp"
)

// Request is one generation job.
type Request struct {
	Prompt string
	Sketch []byte // PNG
}

// Result is the generated raster.
type Result struct {
	Image       image.Image
	Data        []byte
	ContentType string
}

// Generator turns a sketch and a prompt into an image.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (*Result, error)

func (f GeneratorFunc) Generate(ctx context.Context, req Request) (*Result, error) {
	return f(ctx, req)
}

// Error is a failure reported with an HTTP status, either by the service or
// by request validation.
type Error struct {
	Status  int
	Message string
	Details string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Status > 0 {
		return fmt.Sprintf("API error (%d): %s", e.Status, msg)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorMessage extracts a readable message from an error response body: the
// JSON "error" (or "message") field, else the raw body, else "Unknown error".
func ErrorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return "Unknown error"
}

// ResponseError builds an *Error from a non-2xx response.
func ResponseError(status int, body []byte) *Error {
	e := &Error{Status: status, Message: ErrorMessage(body)}
	var payload struct {
		Details json.RawMessage `json:"details"`
	}
	if json.Unmarshal(body, &payload) == nil && len(payload.Details) > 0 {
		var s string
		if json.Unmarshal(payload.Details, &s) == nil {
			e.Details = s
		} else {
			e.Details = string(payload.Details)
		}
	}
	return e
}

// UserMessage renders err for a status line or dialog. Upstream internal
// errors get a hint that retrying may help.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if strings.Contains(msg, "Internal error") {
		msg += ". This might be a temporary issue with the LightX API. Please try again later."
	}
	return "Error generating image: " + msg
}

func decodeResult(data []byte, contentType string) (*Result, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode generated image: %w", err)
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return &Result{Image: img, Data: data, ContentType: contentType}, nil
}

// Extension returns the file extension matching the result's content type.
func (r *Result) Extension() string {
	switch {
	case strings.Contains(r.ContentType, "jpeg"):
		return ".jpg"
	case strings.Contains(r.ContentType, "webp"):
		return ".webp"
	}
	return ".png"
}
