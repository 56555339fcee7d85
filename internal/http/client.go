package http

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"
)

// Options configures the HTTP client.
type Options struct {
	// HeaderTimeout bounds the wait for response headers. Body reads are
	// deliberately unbounded; tile downloads can run for hours.
	// Default: 30s
	HeaderTimeout time.Duration

	// RetryAttempts is the maximum number of retry attempts for
	// connection errors and 5xx responses.
	// Default: 5
	RetryAttempts int

	// RetryBackoff is the initial backoff duration.
	// Default: 1s
	RetryBackoff time.Duration

	// RetryMaxBackoff is the maximum backoff duration.
	// Default: 30s
	RetryMaxBackoff time.Duration

	// Proxy is an optional proxy URL applied to plain-HTTP requests
	// only; HTTPS requests always go direct.
	Proxy string
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		HeaderTimeout:   30 * time.Second,
		RetryAttempts:   5,
		RetryBackoff:    time.Second,
		RetryMaxBackoff: 30 * time.Second,
	}
}

// BasicAuth carries credentials for servers that require them.
type BasicAuth struct {
	Username string
	Password string
}

// Response is the outcome of a streaming GET. Body is non-nil only when
// StatusCode is 200 OK; the caller owns closing it.
type Response struct {
	StatusCode    int
	ContentLength int64
	Body          io.ReadCloser
}

// Client issues streaming GET requests with retry on transient failures.
type Client struct {
	client *http.Client
	opts   Options
}

// NewClient creates a new HTTP client with the given options.
func NewClient(opts Options) (*Client, error) {
	if opts.HeaderTimeout == 0 {
		opts.HeaderTimeout = 30 * time.Second
	}

	transport := &http.Transport{
		ResponseHeaderTimeout: opts.HeaderTimeout,
		IdleConnTimeout:       90 * time.Second,
	}

	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		transport.Proxy = func(req *http.Request) (*url.URL, error) {
			if req.URL.Scheme == "http" {
				return proxyURL, nil
			}
			return nil, nil
		}
	}

	return &Client{
		client: &http.Client{Transport: transport},
		opts:   opts,
	}, nil
}

// Get performs a streaming GET request. Connection errors and 5xx
// responses are retried with exponential backoff; any other non-200
// status is returned immediately with a nil Body so the caller can
// report the status code.
func (c *Client) Get(ctx context.Context, rawURL string, auth *BasicAuth) (*Response, error) {
	var lastErr error
	lastStatus := 0

	for attempt := 0; attempt <= c.opts.RetryAttempts; attempt++ {
		if attempt > 0 {
			if err := c.backoff(ctx, attempt); err != nil {
				return nil, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		if auth != nil {
			req.SetBasicAuth(auth.Username, auth.Password)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastStatus = resp.StatusCode
			lastErr = fmt.Errorf("server error: %d %s", resp.StatusCode, resp.Status)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return &Response{StatusCode: resp.StatusCode}, nil
		}

		return &Response{
			StatusCode:    resp.StatusCode,
			ContentLength: resp.ContentLength,
			Body:          resp.Body,
		}, nil
	}

	if lastStatus != 0 {
		return &Response{StatusCode: lastStatus}, nil
	}
	return nil, fmt.Errorf("get request failed after %d attempts: %w", c.opts.RetryAttempts+1, lastErr)
}

// backoff waits for an exponentially increasing duration with jitter.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	backoff := c.opts.RetryBackoff * time.Duration(1<<uint(attempt-1))
	if backoff > c.opts.RetryMaxBackoff {
		backoff = c.opts.RetryMaxBackoff
	}

	// Add jitter: 0.5 to 1.5 of backoff
	jitter := time.Duration(float64(backoff) * (0.5 + rand.Float64()))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(jitter):
		return nil
	}
}
