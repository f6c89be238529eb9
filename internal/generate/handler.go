package generate

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/example/sketchboard/internal/logging"
)

const maxFormMemory = 16 << 20

// Handler serves POST /generate: it validates the form fields "prompt" and
// "sketch" (a PNG data URL) and answers with the generated image bytes or a
// JSON {"error": ..., "details": ...} body.
type Handler struct {
	gen Generator
}

// NewHandler wraps gen.
func NewHandler(gen Generator) *Handler {
	return &Handler{gen: gen}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logging.Logger()
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, &Error{Status: http.StatusMethodNotAllowed, Message: "Method not allowed"})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 2*MaxSketchBytes)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeError(w, &Error{Status: http.StatusBadRequest, Message: "Invalid form", Details: err.Error()})
		return
	}

	req, err := parseForm(r)
	if err != nil {
		log.Warn("rejecting generate request", "err", err)
		writeError(w, err)
		return
	}
	log.Debug("generate request", "prompt_len", len(req.Prompt), "sketch_bytes", len(req.Sketch))

	res, err := h.gen.Generate(r.Context(), req)
	if err != nil {
		log.Error("generation failed", "err", err)
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "generated_image"+res.Extension()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

func parseForm(r *http.Request) (Request, error) {
	if _, ok := r.PostForm["prompt"]; !ok {
		return Request{}, ErrNoPrompt
	}
	prompt, err := ValidatePrompt(r.PostForm.Get("prompt"))
	if err != nil {
		return Request{}, err
	}
	if _, ok := r.PostForm["sketch"]; !ok {
		return Request{}, ErrNoSketch
	}
	sketch, err := DecodeDataURL(r.PostForm.Get("sketch"))
	if err != nil {
		return Request{}, err
	}
	if err := ValidateSketch(sketch); err != nil {
		return Request{}, err
	}
	return Request{Prompt: prompt, Sketch: sketch}, nil
}

func writeError(w http.ResponseWriter, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		apiErr = &Error{Status: http.StatusInternalServerError, Message: "Server Error: " + err.Error()}
	}
	status := apiErr.Status
	if status < 400 {
		status = http.StatusInternalServerError
	}
	body := map[string]string{"error": apiErr.Message}
	if apiErr.Details != "" {
		body["details"] = apiErr.Details
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
