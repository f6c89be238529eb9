package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/example/sketchboard/internal/logging"
)

// Remote posts sketches to a /generate endpoint served by Handler.
type Remote struct {
	Endpoint string
	client   *http.Client
}

// NewRemote returns a client for endpoint. A nil client gets a default with
// timeout applied; timeout <= 0 means no limit.
func NewRemote(endpoint string, client *http.Client, timeout time.Duration) *Remote {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Remote{Endpoint: endpoint, client: client}
}

// Generate sends the prompt and the sketch as a data URL in a multipart form.
func (r *Remote) Generate(ctx context.Context, req Request) (*Result, error) {
	req, err := req.Validate()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("prompt", req.Prompt); err != nil {
		return nil, err
	}
	if err := mw.WriteField("sketch", EncodeDataURL(req.Sketch)); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	rt := retrier{client: r.client}
	header := http.Header{"Content-Type": {mw.FormDataContentType()}}
	logging.Logger().Debug("posting sketch", "endpoint", r.Endpoint, "bytes", len(req.Sketch))
	resp, err := rt.do(ctx, http.MethodPost, r.Endpoint, header, buf.Bytes())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("generate: %w", err)
	}
	if !resp.ok() {
		return nil, ResponseError(resp.status, resp.body)
	}
	return decodeResult(resp.body, resp.header.Get("Content-Type"))
}
