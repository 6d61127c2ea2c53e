package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	// maxResponseSize bounds the body read from an upstream
	maxResponseSize = 8 << 20
	// maxErrorMessage bounds the upstream body kept in an HTTPError
	maxErrorMessage = 512
)

// Connector sends JSON requests to one upstream service
type Connector struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type ConnectorConfig struct {
	BaseURL string
	Logger  *zap.Logger
}

func NewConnector(config *ConnectorConfig, options ...Option) *Connector {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Connector{
		baseURL:    config.BaseURL,
		httpClient: newClient(options...),
		logger:     logger,
	}
}

type RequestOpt func(http.Header)

// WithHeader sets a header on a single request
func WithHeader(key, value string) RequestOpt {
	return func(h http.Header) {
		h.Set(key, value)
	}
}

// Post sends reqBody as JSON to endpoint and decodes the reply into respBody
func (c *Connector) Post(ctx context.Context, endpoint string, reqBody, respBody any, opts ...RequestOpt) error {
	return c.DoRequest(ctx, http.MethodPost, endpoint, reqBody, respBody, opts...)
}

func (c *Connector) DoRequest(ctx context.Context, method, endpoint string, reqBody, respBody any, opts ...RequestOpt) error {
	var body io.Reader
	if reqBody != nil {
		payload, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
		ctx = context.WithValue(ctx, payloadContextKey{}, len(payload))
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for _, opt := range opts {
		opt(req.Header)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &NetworkError{Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    truncate(string(raw), maxErrorMessage),
		}
	}

	if respBody != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, respBody); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// HTTPError is a non-2xx upstream reply
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NetworkError is a failure before a complete reply arrived
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsTemporary reports whether err is worth retrying: network failures,
// rate limiting and server errors
func IsTemporary(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
	}
	return false
}
