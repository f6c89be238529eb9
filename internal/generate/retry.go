package generate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/example/sketchboard/internal/logging"
)

// maxResponseBytes caps how much of any response body is read.
const maxResponseBytes = 32 << 20

func transient(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

type retrier struct {
	client  *http.Client
	retries int
	backoff time.Duration
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (r response) ok() bool { return r.status >= 200 && r.status < 300 }

// do sends the request, retrying transport failures and transient statuses
// with exponential backoff. The last response is returned even when it is
// still an error status.
func (r *retrier) do(ctx context.Context, method, url string, header http.Header, body []byte) (response, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		resp, err := r.once(ctx, method, url, header, body)
		if err == nil && !transient(resp.status) {
			return resp, nil
		}
		if ctx.Err() != nil {
			return response{}, ctx.Err()
		}
		if attempt >= r.retries {
			if err != nil {
				return response{}, err
			}
			return resp, nil
		}
		lastErr = err
		if lastErr == nil {
			lastErr = fmt.Errorf("status %d", resp.status)
		}
		wait := r.backoff * time.Duration(1<<uint(attempt))
		logging.Logger().Debug("retrying request", "method", method, "url", url, "attempt", attempt+1, "wait", wait, "err", lastErr)
		if err := sleep(ctx, wait); err != nil {
			return response{}, err
		}
	}
}

func (r *retrier) once(ctx context.Context, method, url string, header http.Header, body []byte) (response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return response{}, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return response{}, fmt.Errorf("failed to read response: %w", err)
	}
	return response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
