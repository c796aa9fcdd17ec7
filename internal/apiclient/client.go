// Package apiclient is the shared HTTP client for the news backend.
//
// Every request carries the base headers and, when a token is stored, a bearer
// credential read fresh from the credentials source. A 401 on an authenticated
// request tears the session down once and notifies subscribers.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/johnrirwin/newsdesk/internal/logging"
)

// HeaderSkipBrowserWarning suppresses the tunnel provider's HTML warning page
const HeaderSkipBrowserWarning = "ngrok-skip-browser-warning"

const maxBodySize = 10 << 20

// Credentials supplies the bearer token and clears the session on rejection
type Credentials interface {
	Token() (string, bool)
	Clear() error
}

// Config holds client settings
type Config struct {
	// BaseURL is the API root, already including the /api suffix
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
	// Registerer receives request metrics. Nil disables them.
	Registerer prometheus.Registerer
}

// InvalidationEvent describes the request whose 401 ended the session
type InvalidationEvent struct {
	Method    string
	Path      string
	RequestID string
	At        time.Time
}

// Client issues JSON requests against the backend
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	creds     Credentials
	logger    *logging.Logger
	metrics   *metrics

	mu          sync.Mutex
	subscribers map[int]func(InvalidationEvent)
	nextSubID   int
}

// New creates a client. A nil creds yields a client that never sends a bearer
// and never invalidates a session.
func New(cfg Config, creds Credentials, logger *logging.Logger) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = logging.NewWithOptions(logging.Options{Level: logging.LevelError, Output: io.Discard})
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "newsdesk/1.0"
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:   userAgent,
		http:        httpClient,
		creds:       creds,
		logger:      logger,
		metrics:     newMetrics(cfg.Registerer),
		subscribers: make(map[int]func(InvalidationEvent)),
	}
}

// BaseURL returns the API root requests are resolved against
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Subscribe registers fn to be called once per session invalidation.
// The returned function removes the subscription.
func (c *Client) Subscribe(fn func(InvalidationEvent)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// RequestOption adjusts a single request
type RequestOption func(*http.Request)

// WithBearer sends token as the bearer credential instead of the stored one
func WithBearer(token string) RequestOption {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// WithHeader sets an extra header on the request
func WithHeader(key, value string) RequestOption {
	return func(req *http.Request) {
		req.Header.Set(key, value)
	}
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out, opts...)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out, opts...)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out, opts...)
}

func (c *Client) Delete(ctx context.Context, path string, out interface{}, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out, opts...)
}

// Do sends one request and decodes a 2xx JSON body into out (when out is non-nil)
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}, opts ...RequestOption) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	for _, opt := range opts {
		opt(req)
	}

	requestID := req.Header.Get("X-Request-ID")
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.observe(method, path, 0, time.Since(start))
		c.logger.Debug("Backend request failed", logging.WithFields(map[string]interface{}{
			"method":    method,
			"path":      path,
			"requestId": requestID,
			"error":     err.Error(),
		}))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.metrics.observe(method, path, resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%s %s: failed to read response: %w", method, path, err)
	}

	c.logger.Debug("Backend request", logging.WithFields(map[string]interface{}{
		"method":    method,
		"path":      path,
		"status":    resp.StatusCode,
		"requestId": requestID,
		"duration":  time.Since(start).String(),
	}))

	if resp.StatusCode == http.StatusUnauthorized {
		return c.handleUnauthorized(req, path, requestID, data)
	}

	if contentType := resp.Header.Get("Content-Type"); isHTML(contentType) {
		return newInterstitialError(resp.StatusCode, contentType, data)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
			Body:       data,
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Request, error) {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderSkipBrowserWarning, "true")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())

	c.attachCredentials(req)
	return req, nil
}

// attachCredentials sets the bearer from the current stored token, if any
func (c *Client) attachCredentials(req *http.Request) {
	if c.creds == nil {
		return
	}
	if token, ok := c.creds.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// handleUnauthorized clears the session and notifies subscribers when the rejected
// request was made on behalf of a stored session
func (c *Client) handleUnauthorized(req *http.Request, path, requestID string, data []byte) error {
	apiErr := &APIError{
		Method:     req.Method,
		Path:       path,
		StatusCode: http.StatusUnauthorized,
		Message:    errorMessage(data),
		Body:       data,
	}
	if c.creds == nil {
		return apiErr
	}

	if err := c.creds.Clear(); err != nil {
		c.logger.Warn("Failed to clear session after 401", logging.WithField("error", err.Error()))
	}
	apiErr.invalidated = true
	c.metrics.invalidated()

	event := InvalidationEvent{
		Method:    req.Method,
		Path:      path,
		RequestID: requestID,
		At:        time.Now(),
	}
	c.logger.Info("Session invalidated by backend", logging.WithFields(map[string]interface{}{
		"method":    event.Method,
		"path":      event.Path,
		"requestId": event.RequestID,
	}))
	c.publish(event)

	return apiErr
}

func (c *Client) publish(event InvalidationEvent) {
	c.mu.Lock()
	subs := make([]func(InvalidationEvent), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(event)
	}
}

// errorMessage pulls a human message out of a JSON error body
func errorMessage(data []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}
