// Package webhook provides the outbound HTTP client rxgate uses to talk
// to its automation endpoints: the customer-fetch trigger and the
// prescription forwarding hook. Calls are wrapped in a circuit breaker so
// a misbehaving downstream cannot tie up every request slot.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/rxgate/rxgate/pkg/apperror"
)

// DefaultTimeout bounds a single webhook round-trip. The downstream
// automation flows do real work (CRM lookups, fax delivery) before
// responding, so this is deliberately generous.
const DefaultTimeout = 30 * time.Second

// maxResponseBytes caps how much of a webhook response body is read.
const maxResponseBytes = 1 << 20

// Response is the outcome of a successful webhook call.
type Response struct {
	StatusCode int
	Body       []byte
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// Client posts JSON payloads to named webhook endpoints. Each endpoint
// gets its own circuit breaker keyed by name, so an open breaker on the
// forwarding hook does not block customer lookups.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker

	logger zerolog.Logger
}

// NewClient creates a webhook client with the default timeout.
func NewClient(logger zerolog.Logger, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		breakers:   make(map[string]*gobreaker.CircuitBreaker),
		logger:     logger.With().Str("component", "webhook").Logger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// breaker returns the circuit breaker for the named endpoint, creating
// it on first use. First use happens inside a request handler, so the
// map is guarded against concurrent creation.
func (c *Client) breaker(name string) *gobreaker.CircuitBreaker {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cb, ok := c.breakers[name]; ok {
		return cb
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})
	c.breakers[name] = cb
	return cb
}

// validateURL checks that a webhook URL is set and well formed.
func validateURL(rawURL string) error {
	if rawURL == "" {
		return apperror.Internal("webhook URL is not configured", nil)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return apperror.Internal(fmt.Sprintf("invalid webhook URL %q", rawURL), err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return apperror.Internal(fmt.Sprintf("webhook URL scheme must be http or https, got %q", u.Scheme), nil)
	}
	return nil
}

// Post marshals payload as JSON and POSTs it to rawURL under the named
// breaker. It classifies failures: a deadline becomes a timeout error,
// any other transport or non-2xx outcome becomes an upstream error, and
// a missing URL is an internal misconfiguration.
func (c *Client) Post(ctx context.Context, name, rawURL string, payload any) (*Response, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperror.Internal("encoding webhook payload", err)
	}

	result, err := c.breaker(name).Execute(func() (any, error) {
		return c.post(ctx, rawURL, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, apperror.Upstream(fmt.Sprintf("%s endpoint unavailable", name), err)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperror.Timeout(fmt.Sprintf("%s call timed out after %s", name, c.timeout), err)
		}
		if ae := apperror.As(err); ae != nil {
			return nil, err
		}
		return nil, apperror.Upstream(fmt.Sprintf("%s call failed", name), err)
	}
	return result.(*Response), nil
}

func (c *Client) post(ctx context.Context, rawURL string, body []byte) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The transport wraps the context error; unwrap so callers can
		// tell a timeout apart from a connection failure.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))

	c.logger.Debug().
		Str("url", rawURL).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("webhook call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperror.Upstream(
			fmt.Sprintf("webhook returned status %d", resp.StatusCode), nil)
	}

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}
