package generate

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

const (
	MaxPromptLength = 1000
	MaxSketchBytes  = 5 << 20
	dataURLPrefix   = "data:image/png;base64,"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// Validation failures, all answered with 400 by Handler.
var (
	ErrNoPrompt       = &Error{Status: http.StatusBadRequest, Message: "No prompt provided"}
	ErrPromptEmpty    = &Error{Status: http.StatusBadRequest, Message: "Prompt is empty"}
	ErrPromptTooLong  = &Error{Status: http.StatusBadRequest, Message: "Prompt exceeds 1000 characters"}
	ErrNoSketch       = &Error{Status: http.StatusBadRequest, Message: "No sketch provided"}
	ErrSketchFormat   = &Error{Status: http.StatusBadRequest, Message: "Invalid sketch format"}
	ErrSketchTooLarge = &Error{Status: http.StatusBadRequest, Message: "Sketch size exceeds 5 MB"}
)

// ValidatePrompt trims p and checks it is non-empty and at most
// MaxPromptLength characters.
func ValidatePrompt(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", ErrPromptEmpty
	}
	if utf8.RuneCountInString(p) > MaxPromptLength {
		return "", ErrPromptTooLong
	}
	return p, nil
}

// ValidateSketch checks that data is a PNG no larger than MaxSketchBytes.
func ValidateSketch(data []byte) error {
	if len(data) == 0 {
		return ErrNoSketch
	}
	if len(data) > MaxSketchBytes {
		return ErrSketchTooLarge
	}
	if !bytes.HasPrefix(data, pngMagic) {
		return ErrSketchFormat
	}
	return nil
}

// Validate checks both fields and returns the request with a trimmed prompt.
func (r Request) Validate() (Request, error) {
	p, err := ValidatePrompt(r.Prompt)
	if err != nil {
		return r, err
	}
	if err := ValidateSketch(r.Sketch); err != nil {
		return r, err
	}
	r.Prompt = p
	return r, nil
}

// EncodeDataURL wraps PNG bytes as a data:image/png;base64 URL.
func EncodeDataURL(png []byte) string {
	return dataURLPrefix + base64.StdEncoding.EncodeToString(png)
}

// DecodeDataURL reverses EncodeDataURL.
func DecodeDataURL(s string) ([]byte, error) {
	if !strings.HasPrefix(s, dataURLPrefix) {
		return nil, ErrSketchFormat
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(s, dataURLPrefix))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSketchFormat, err)
	}
	return data, nil
}
