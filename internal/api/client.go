// Package api is the boundary to the case management backend. Every request
// carries the session's bearer token, and any 401 resets the session before
// the caller sees the error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/courtdesk/internal/errors"
	"github.com/felixgeelhaar/courtdesk/internal/log"
	"github.com/felixgeelhaar/courtdesk/internal/metrics"
	"github.com/felixgeelhaar/courtdesk/internal/version"
)

// DefaultBaseURL is where the backend listens in development.
const DefaultBaseURL = "http://localhost:5000/api"

// DefaultTimeout bounds every request.
const DefaultTimeout = 30 * time.Second

// TokenSource supplies the current bearer token. *session.Store implements it.
type TokenSource interface {
	Token() string
}

// Config holds client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is the backend API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *log.Logger
	metrics    *metrics.Metrics

	mu          sync.RWMutex
	invalidator Invalidator
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithInvalidator sets the session reset hook run on 401 responses.
func WithInvalidator(inv Invalidator) Option {
	return func(c *Client) {
		c.invalidator = inv
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a client. tokens may be nil for anonymous use.
func New(cfg Config, tokens TokenSource, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		tokens:     tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.L()
	}
	c.logger = c.logger.WithComponent("api")
	if c.metrics == nil {
		c.metrics = metrics.Noop()
	}
	return c
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetInvalidator replaces the 401 hook. It is safe to call concurrently with
// requests; the portal uses it to close the construction cycle.
func (c *Client) SetInvalidator(inv Invalidator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidator = inv
}

func (c *Client) currentInvalidator() Invalidator {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.invalidator
}

// do sends a JSON request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(errors.ErrCodeAPIEncode, "encode request body", err)
		}
		reader = bytes.NewReader(data)
	}
	return c.send(ctx, method, path, query, reader, "application/json", out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return errors.Wrap(errors.ErrCodeAPIRequest, "build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	logger := c.logger.With("method", method, "path", path, "request_id", requestID)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	c.metrics.APILatency.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.APIRequests.WithLabelValues(method, "error").Inc()
		logger.WithError(err).DebugContext(ctx, "request failed")
		return errors.Wrap(errors.ErrCodeAPIRequest, method+" "+path, err).
			WithSuggestion("Check that the backend is reachable at " + c.baseURL)
	}
	defer resp.Body.Close()

	c.metrics.APIRequests.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
	logger.DebugContext(ctx, "request completed", "status", resp.StatusCode, "duration", time.Since(start))

	if UnauthorizedInterceptor(ctx, resp, c.currentInvalidator()) {
		c.metrics.APIUnauthorized.Inc()
		logger.InfoContext(ctx, "session reset after 401")
		apiErr := readError(resp, method, path)
		return errors.Wrap(errors.ErrCodeAPIUnauthorized, "unauthorized: "+method+" "+path, apiErr).
			WithSuggestion("The session was cleared; run 'courtdesk login' again")
	}

	return parseResponse(resp, method, path, out)
}

// ErrorResponse is the backend's error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// MessageResponse is the body of mutations that only acknowledge.
type MessageResponse struct {
	Message string `json:"message"`
}

func parseResponse(resp *http.Response, method, path string, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := readError(resp, method, path)
		return errors.Wrap(apiErr.Code, method+" "+path, apiErr)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(errors.ErrCodeAPIDecode, "decode "+method+" "+path+" response", err)
	}
	return nil
}

func readError(resp *http.Response, method, path string) *Error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	e := &Error{
		StatusCode: resp.StatusCode,
		Code:       errors.ErrCodeAPIStatus,
		Method:     method,
		Path:       path,
	}
	if resp.StatusCode == http.StatusUnauthorized {
		e.Code = errors.ErrCodeAPIUnauthorized
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		switch {
		case errResp.Error != "":
			e.Message = errResp.Error
		case errResp.Message != "":
			e.Message = errResp.Message
		}
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(body))
	}
	if e.Message == "" {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}
