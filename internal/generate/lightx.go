package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/example/sketchboard/internal/logging"
)

const (
	DefaultLightXURL = "https://api.lightxeditor.com/external/api"
	lightXSuccess    = 2000
)

// LightX calls the LightX sketch2image API directly: request an upload URL,
// PUT the sketch, start the job, poll its status and download the output.
type LightX struct {
	apiKey       string
	baseURL      string
	strength     float64
	pollAttempts int
	pollInterval time.Duration
	http         retrier
}

// LightXOption configures a LightX client.
type LightXOption func(*LightX)

// WithBaseURL points the client at another API root.
func WithBaseURL(u string) LightXOption {
	return func(l *LightX) { l.baseURL = u }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) LightXOption {
	return func(l *LightX) {
		if c != nil {
			l.http.client = c
		}
	}
}

// WithStrength sets how closely the output follows the sketch, 0..1.
func WithStrength(s float64) LightXOption {
	return func(l *LightX) { l.strength = s }
}

// WithPolling sets how many times and how often the order status is checked.
func WithPolling(attempts int, interval time.Duration) LightXOption {
	return func(l *LightX) {
		if attempts > 0 {
			l.pollAttempts = attempts
		}
		l.pollInterval = interval
	}
}

// WithRetry sets the retry budget for transient failures.
func WithRetry(retries int, backoff time.Duration) LightXOption {
	return func(l *LightX) {
		l.http.retries = retries
		l.http.backoff = backoff
	}
}

// NewLightX creates a client authenticating with apiKey.
func NewLightX(apiKey string, opts ...LightXOption) *LightX {
	l := &LightX{
		apiKey:       apiKey,
		baseURL:      DefaultLightXURL,
		strength:     0.5,
		pollAttempts: 5,
		pollInterval: 3 * time.Second,
		http: retrier{
			client:  &http.Client{Timeout: 60 * time.Second},
			retries: 5,
			backoff: time.Second,
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Body       json.RawMessage `json:"body"`
}

type uploadURLBody struct {
	UploadImage string `json:"uploadImage"`
	ImageURL    string `json:"imageUrl"`
}

type orderBody struct {
	OrderID string `json:"orderId"`
}

type statusBody struct {
	Status string `json:"status"`
	Output string `json:"output"`
}

// Generate runs the whole LightX flow for req.
func (l *LightX) Generate(ctx context.Context, req Request) (*Result, error) {
	req, err := req.Validate()
	if err != nil {
		return nil, err
	}
	log := logging.Logger()

	var upload uploadURLBody
	err = l.call(ctx, "/v2/uploadImageUrl", map[string]any{
		"uploadType":  "imageUrl",
		"size":        len(req.Sketch),
		"contentType": "image/png",
	}, "Failed to get upload URL", "Upload URL request failed", &upload)
	if err != nil {
		return nil, err
	}
	log.Debug("upload url issued", "imageUrl", upload.ImageURL)

	resp, err := l.http.do(ctx, http.MethodPut, upload.UploadImage, http.Header{"Content-Type": {"image/png"}}, req.Sketch)
	if err != nil {
		return nil, connectionError(err)
	}
	if !resp.ok() {
		return nil, &Error{Status: resp.status, Message: "Failed to upload sketch", Details: string(resp.body)}
	}
	log.Debug("sketch uploaded", "bytes", len(req.Sketch))

	var order orderBody
	err = l.call(ctx, "/v1/sketch2image", map[string]any{
		"imageUrl":   upload.ImageURL,
		"strength":   l.strength,
		"textPrompt": req.Prompt,
	}, "LightX API Error", "sketch2image request failed", &order)
	if err != nil {
		return nil, err
	}
	log.Debug("order created", "orderId", order.OrderID)

	for attempt := 0; attempt < l.pollAttempts; attempt++ {
		log.Debug("checking order status", "attempt", attempt+1, "of", l.pollAttempts)
		var st statusBody
		err := l.call(ctx, "/v1/order-status", map[string]any{"orderId": order.OrderID},
			"Failed to check order status", "Order status check failed", &st)
		if err != nil {
			return nil, err
		}
		switch st.Status {
		case "active":
			return l.download(ctx, st.Output)
		case "failed":
			return nil, &Error{Status: http.StatusInternalServerError, Message: "Image generation failed", Details: "order " + order.OrderID + " failed"}
		}
		if attempt < l.pollAttempts-1 {
			if err := sleep(ctx, l.pollInterval); err != nil {
				return nil, err
			}
		}
	}
	return nil, &Error{
		Status:  http.StatusGatewayTimeout,
		Message: "Image generation did not complete within the allowed time",
		Details: "after " + strconv.Itoa(l.pollAttempts) + " status checks",
	}
}

func (l *LightX) download(ctx context.Context, url string) (*Result, error) {
	resp, err := l.http.do(ctx, http.MethodGet, url, nil, nil)
	if err != nil {
		return nil, connectionError(err)
	}
	if !resp.ok() {
		return nil, &Error{Status: resp.status, Message: "Failed to download generated image", Details: string(resp.body)}
	}
	logging.Logger().Info("generated image downloaded", "bytes", len(resp.body))
	ct := resp.header.Get("Content-Type")
	if ct == "" {
		ct = "image/jpeg"
	}
	return decodeResult(resp.body, ct)
}

// call POSTs payload as JSON to path and decodes the envelope body into out.
// httpMsg labels non-2xx responses; apiMsg labels envelopes whose statusCode
// is not 2000.
func (l *LightX) call(ctx context.Context, path string, payload any, httpMsg, apiMsg string, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	header := http.Header{
		"Content-Type": {"application/json"},
		"X-Api-Key":    {l.apiKey},
	}
	resp, err := l.http.do(ctx, http.MethodPost, l.baseURL+path, header, data)
	if err != nil {
		return connectionError(err)
	}
	if !resp.ok() {
		return &Error{Status: resp.status, Message: httpMsg, Details: string(resp.body)}
	}
	var env envelope
	if err := json.Unmarshal(resp.body, &env); err != nil {
		return &Error{Status: http.StatusInternalServerError, Message: apiMsg, Details: string(resp.body), Err: err}
	}
	if env.StatusCode != lightXSuccess {
		return &Error{Status: http.StatusInternalServerError, Message: apiMsg, Details: string(resp.body)}
	}
	if err := json.Unmarshal(env.Body, out); err != nil {
		return &Error{Status: http.StatusInternalServerError, Message: apiMsg, Details: string(resp.body), Err: err}
	}
	return nil
}

func connectionError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &Error{
		Status:  http.StatusInternalServerError,
		Message: "Connection Error: Failed to connect to LightX API. Please check your internet connection and try again.",
		Err:     err,
	}
}
