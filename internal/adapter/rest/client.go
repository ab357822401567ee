// Package rest is the JSON-over-HTTP transport shared by the catalog and
// analytics clients.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/filmfinder/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	maxRetries     = 3
	baseRetryDelay = 500 * time.Millisecond
)

// secretParams are redacted from logged URLs
var secretParams = []string{"api_key"}

// StatusError is returned for non-2xx responses that are not mapped to a
// domain sentinel.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}

// Options tunes a Client. Zero values select the defaults.
type Options struct {
	Timeout    time.Duration
	MaxRetries int           // Retries after the first attempt for 5xx responses; negative disables
	RetryDelay time.Duration // Base delay, doubled per attempt
	Header     http.Header   // Sent with every request
}

// Client performs JSON requests against one base URL
type Client struct {
	name       string // For log lines: "catalog", "analytics"
	baseURL    string
	header     http.Header
	maxRetries int
	retryDelay time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a transport for baseURL
func NewClient(name, baseURL string, opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = maxRetries
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = baseRetryDelay
	}
	return &Client{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		header:     opts.Header,
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		logger: logger,
	}
}

// BaseURL returns the base URL requests are resolved against
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs a GET and decodes the JSON response into out
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.Do(ctx, http.MethodGet, path, query, nil, nil)
	if err != nil {
		return err
	}
	return decode(body, out)
}

// PostJSON encodes in as the request body and decodes the response into out (if non-nil)
func (c *Client) PostJSON(ctx context.Context, path string, in any, out any, header http.Header) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	body, err := c.Do(ctx, http.MethodPost, path, nil, payload, header)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decode(body, out)
}

func decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// Do performs an HTTP request and returns the response body.
// Includes retry logic with exponential backoff for 5xx server errors.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, payload []byte, header http.Header) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL = reqURL + "?" + query.Encode()
	}
	logURL := redact(c.baseURL+path, query)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		// Check context before each attempt
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		// Wait before retry (exponential backoff)
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<(attempt-1))
			c.logger.Debug("retrying request", "service", c.name, "attempt", attempt, "delay", delay, "url", logURL)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, vs := range c.header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}

		c.logger.Debug("request", "service", c.name, "method", method, "url", logURL, "attempt", attempt)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// The request URL carries the api_key
			var uerr *url.Error
			if errors.As(err, &uerr) {
				uerr.URL = logURL
			}
			c.logger.Error("request failed", "service", c.name, "url", logURL, "error", err)
			return nil, fmt.Errorf("%s: %w: %w", c.name, domain.ErrServerOffline, err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode == http.StatusUnauthorized {
			return nil, domain.ErrAuthFailed
		}

		// Retry on 5xx server errors
		if resp.StatusCode >= 500 && resp.StatusCode < 600 {
			lastErr = &StatusError{Code: resp.StatusCode, Body: string(body)}
			c.logger.Warn("server error, will retry",
				"service", c.name,
				"status", resp.StatusCode,
				"attempt", attempt,
				"maxRetries", c.maxRetries,
				"url", logURL,
			)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			c.logger.Error("request error", "service", c.name, "status", resp.StatusCode, "url", logURL, "body", string(body))
			return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
		}

		return body, nil
	}

	c.logger.Error("request failed after retries",
		"service", c.name,
		"error", lastErr,
		"url", logURL,
	)
	return nil, lastErr
}

// redact renders path+query with secret parameters masked
func redact(base string, query url.Values) string {
	if len(query) == 0 {
		return base
	}
	masked := url.Values{}
	for k, vs := range query {
		masked[k] = vs
	}
	for _, k := range secretParams {
		if masked.Has(k) {
			masked.Set(k, "REDACTED")
		}
	}
	return base + "?" + masked.Encode()
}
