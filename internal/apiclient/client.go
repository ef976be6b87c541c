package apiclient

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront/internal/logger"
)

// Headers forwarded from the browser request to the remote API.
var forwardedHeaders = []string{"Authorization", "Cookie", "Accept-Language", "X-Session-Id"}

type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *logger.Logger) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// URL resolves endpoint against the base URL. Absolute URLs pass through.
func (c *Client) URL(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return c.baseURL + strings.TrimPrefix(endpoint, "/")
}

type headersKey struct{}

// WithHeaders attaches browser headers to ctx; Do forwards the allowed ones.
func WithHeaders(ctx context.Context, h http.Header) context.Context {
	return context.WithValue(ctx, headersKey{}, h)
}

// SessionID returns the X-Session-Id attached with WithHeaders, or "".
func SessionID(ctx context.Context) string {
	if h, ok := ctx.Value(headersKey{}).(http.Header); ok {
		return h.Get("X-Session-Id")
	}
	return ""
}

// identityHeaders are the forwarded headers the remote API reads the shopper
// from.
var identityHeaders = []string{"Authorization", "Cookie"}

// Identity digests the identity headers attached with WithHeaders, so
// per-shopper cache entries can be split by account without storing
// credentials in keys. It returns "" when no identity header is present.
func Identity(ctx context.Context) string {
	h, ok := ctx.Value(headersKey{}).(http.Header)
	if !ok {
		return ""
	}
	sum := sha256.New()
	found := false
	for _, name := range identityHeaders {
		v := h.Get(name)
		if v == "" {
			continue
		}
		found = true
		sum.Write([]byte(name))
		sum.Write([]byte{0})
		sum.Write([]byte(v))
		sum.Write([]byte{0})
	}
	if !found {
		return ""
	}
	return hex.EncodeToString(sum.Sum(nil)[:16])
}

// Do sends one request. body is JSON-encoded unless nil or the method is
// GET. out is filled only for JSON responses; anything else leaves it as is.
func (c *Client) Do(ctx context.Context, method, endpoint string, params url.Values, body, out interface{}) error {
	target := c.URL(endpoint)
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + params.Encode()
	}

	var reader io.Reader
	if body != nil && method != http.MethodGet {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if h, ok := ctx.Value(headersKey{}).(http.Header); ok {
		for _, name := range forwardedHeaders {
			if v := h.Get(name); v != "" {
				req.Header.Set(name, v)
			}
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			c.logger.Warn("%s %s timed out after %s", method, endpoint, c.timeout)
			return &APIError{
				Status:     http.StatusRequestTimeout,
				StatusText: "Request Timeout",
				Message:    fmt.Sprintf("Request timeout after %dms", c.timeout.Milliseconds()),
			}
		}
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("%s %s -> %d (%s)", method, endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		var data interface{}
		if err := json.Unmarshal(raw, &data); err != nil {
			data = string(raw)
		}
		apiErr := newAPIError(resp.StatusCode, data)
		apiErr.StatusText = statusText(resp)
		return apiErr
	}

	if out == nil || !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// statusText prefers the reason phrase the server sent.
func statusText(resp *http.Response) string {
	code := fmt.Sprintf("%d ", resp.StatusCode)
	if text := strings.TrimPrefix(resp.Status, code); text != resp.Status && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func (c *Client) Get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	return c.Do(ctx, http.MethodGet, endpoint, params, nil, out)
}

func (c *Client) Post(ctx context.Context, endpoint string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, endpoint, nil, body, out)
}

func (c *Client) Put(ctx context.Context, endpoint string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, endpoint, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, endpoint string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPatch, endpoint, nil, body, out)
}

// Delete may carry a body; cart and wishlist removals identify the item that way.
func (c *Client) Delete(ctx context.Context, endpoint string, body, out interface{}) error {
	return c.Do(ctx, http.MethodDelete, endpoint, nil, body, out)
}
