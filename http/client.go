// Package http provides the HTTP client used for report content downloads,
// with token-bucket rate limiting and an optional retry budget.
package http

import (
	"context"
	"fmt"
	"io"
	stdhttp "net/http"
	"time"

	logger "github.com/multiversx/mx-chain-logger-go"
	"golang.org/x/time/rate"

	"ytingest/internal/retry"
)

var log = logger.GetOrCreate("http")

// Config holds HTTP client configuration.
type Config struct {
	// Timeout for individual HTTP requests.
	Timeout time.Duration

	// UserAgent for HTTP requests.
	UserAgent string

	// RequestsPerSecond caps the request rate (0 disables rate limiting).
	RequestsPerSecond float64

	// Burst is the rate limiter burst size.
	Burst int

	// Retry configures retries of transient failures. The default budget is
	// zero: each download is attempted exactly once and a failure surfaces
	// to the caller.
	Retry retry.Config
}

// DefaultConfig returns sensible defaults for report downloads.
func DefaultConfig() *Config {
	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = 0
	return &Config{
		Timeout:           30 * time.Second,
		UserAgent:         "ytingest/1.0",
		RequestsPerSecond: 4.0,
		Burst:             1,
		Retry:             retryCfg,
	}
}

// Client wraps an HTTP client with rate limiting and retry handling.
// The base client supplies authorization (an oauth2 transport in
// production, a plain client in tests).
type Client struct {
	base    *stdhttp.Client
	config  *Config
	limiter *rate.Limiter
}

// New creates a client with its own transport.
func New(cfg *Config) *Client {
	return NewWithBase(cfg, &stdhttp.Client{})
}

// NewWithBase creates a client on top of an existing *http.Client, keeping
// whatever transport (and credential injection) it carries.
func NewWithBase(cfg *Config, base *stdhttp.Client) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if base == nil {
		base = &stdhttp.Client{}
	}
	if base.Timeout == 0 {
		base.Timeout = cfg.Timeout
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		base:    base,
		config:  cfg,
		limiter: limiter,
	}
}

// Response represents an HTTP response with status code and body.
type Response struct {
	StatusCode int
	Header     stdhttp.Header
	Body       []byte
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var resp *Response
	err := retry.Do(ctx, c.config.Retry, c.isRetryableError, func(ctx context.Context) error {
		req, err := stdhttp.NewRequestWithContext(ctx, stdhttp.MethodGet, url, nil)
		if err != nil {
			return err
		}
		if req.Header.Get("User-Agent") == "" {
			req.Header.Set("User-Agent", c.config.UserAgent)
		}

		raw, err := c.base.Do(req)
		if err != nil {
			return fmt.Errorf("http request failed: %w", err)
		}
		defer raw.Body.Close()

		body, readErr := io.ReadAll(raw.Body)

		if raw.StatusCode < 200 || raw.StatusCode >= 300 {
			return &HTTPError{StatusCode: raw.StatusCode, URL: url, Body: body}
		}
		if readErr != nil {
			return fmt.Errorf("read response body: %w", readErr)
		}

		resp = &Response{
			StatusCode: raw.StatusCode,
			Header:     raw.Header,
			Body:       body,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, ErrNoResponse
	}
	return resp, nil
}

// Download fetches url and returns the response body as text. A non-success
// status is an error; no content is returned for failed fetches.
func (c *Client) Download(ctx context.Context, url string) (string, error) {
	log.Debug("downloading", "url", url)
	resp, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(resp.Body), nil
}

// isRetryableError treats 5xx responses and transport failures as
// transient; 4xx responses are permanent.
func (c *Client) isRetryableError(err error) bool {
	if !retry.IsRetryable(err) {
		return false
	}
	if httpErr, ok := err.(*HTTPError); ok {
		return httpErr.StatusCode >= 500
	}
	return true
}

// Close releases idle connections held by the client.
func (c *Client) Close() error {
	if c.base != nil {
		c.base.CloseIdleConnections()
	}
	return nil
}
