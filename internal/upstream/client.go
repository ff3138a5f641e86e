// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/cinemetrics/internal/metrics"
)

// maxErrorBodySize limits how much of an error response is kept.
const maxErrorBodySize = 64 * 1024

// Options configures a Client.
type Options struct {
	// Service labels metrics and errors, e.g. "tmdb".
	Service string

	// Timeout applies to each HTTP attempt.
	Timeout time.Duration

	// RequestsPerSecond and Burst configure the client-side limiter.
	// Zero RequestsPerSecond disables limiting.
	RequestsPerSecond float64
	Burst             int

	// MaxRetries is the number of retries after an HTTP 429.
	MaxRetries int

	// RetryBaseDelay is the first backoff delay; it doubles per retry.
	RetryBaseDelay time.Duration

	// HTTPClient overrides the default client. Used by tests.
	HTTPClient *http.Client
}

// Client performs rate-limited requests against one upstream service.
type Client struct {
	http           *http.Client
	limiter        *rate.Limiter
	service        string
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewClient creates a Client.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	base := opts.RetryBaseDelay
	if base <= 0 {
		base = time.Second
	}

	return &Client{
		http:           httpClient,
		limiter:        limiter,
		service:        opts.Service,
		maxRetries:     opts.MaxRetries,
		retryBaseDelay: base,
	}
}

// Service returns the service label.
func (c *Client) Service() string { return c.service }

// Do sends the request built by newReq, retrying on HTTP 429. newReq is
// called once per attempt so request bodies can be rebuilt. The caller
// must close the returned response body.
func (c *Client) Do(ctx context.Context, operation string, newReq func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s %s: rate limiter: %w", c.service, operation, err)
		}

		req, err := newReq(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s %s: build request: %w", c.service, operation, err)
		}

		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			metrics.RecordUpstreamRequest(c.service, operation, 0, time.Since(start))
			return nil, fmt.Errorf("%s %s: HTTP request failed: %w", c.service, operation, err)
		}
		metrics.RecordUpstreamRequest(c.service, operation, resp.StatusCode, time.Since(start))

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		_ = resp.Body.Close()

		if attempt >= c.maxRetries {
			return nil, &StatusError{
				Service:    c.service,
				Operation:  operation,
				StatusCode: http.StatusTooManyRequests,
				Body:       fmt.Sprintf("rate limit exceeded after %d retries", c.maxRetries),
			}
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
				delay = time.Duration(seconds) * time.Second
			}
		}
		metrics.RecordUpstreamRetry(c.service)

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
}

// StatusError reports a non-success HTTP status from an upstream.
type StatusError struct {
	Service    string
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Service, e.Operation, e.StatusCode, e.Body)
}

// CheckStatus returns a StatusError for any non-2xx response, consuming
// a bounded amount of the body for the message.
func CheckStatus(resp *http.Response, service, operation string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &StatusError{
		Service:    service,
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Body:       string(ReadBodyForError(resp.Body)),
	}
}

// ReadBodyForError reads at most 64KB of r for error reporting.
func ReadBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
