package plex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/tessro/plexwatch/internal/core"
	perrors "github.com/tessro/plexwatch/internal/errors"
	"go.uber.org/zap"
)

const (
	// TokenHeader carries the server token on every request.
	TokenHeader = "X-Plex-Token"

	defaultTimeout = 10 * time.Second
	maxBodySize    = 4 * 1024 * 1024
	userAgent      = "plexwatch/1.0"
)

// Fetcher retrieves the raw sessions document.
type Fetcher interface {
	FetchSessions(ctx context.Context) ([]byte, error)
}

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("sessions request failed (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("sessions request failed (status %d): %s", e.StatusCode, e.Body)
}

// Unwrap maps the status code onto the shared error taxonomy.
func (e *StatusError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return perrors.ErrUnauthorized
	case e.StatusCode >= 500:
		return perrors.ErrServerError
	default:
		return nil
	}
}

// Client polls the sessions endpoint of a Plex server.
type Client struct {
	httpClient *http.Client
	url        string
	token      string
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for the given sessions URL.
// The token is sent as a header; the URL may carry it as a query parameter too.
func NewClient(sessionsURL, token string, opts ...Option) (*Client, error) {
	u, err := url.Parse(sessionsURL)
	if err != nil {
		return nil, fmt.Errorf("parse sessions url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("sessions url must be absolute: %q", sessionsURL)
	}

	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		url:        u.String(),
		token:      token,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL returns the sessions URL with the token redacted.
func (c *Client) URL() string {
	return redact(c.url)
}

// FetchSessions performs a single GET against the sessions endpoint.
func (c *Client) FetchSessions(ctx context.Context) ([]byte, error) {
	c.logger.Debug("Fetching sessions", zap.String("url", c.URL()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/xml")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set(TokenHeader, c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", perrors.ErrServerError, maxBodySize)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	c.logger.Debug("Sessions fetched", zap.Int("bytes", len(body)), zap.Int("status", resp.StatusCode))
	return body, nil
}

// Snapshot fetches and parses the current sessions.
func (c *Client) Snapshot(ctx context.Context) (*core.Snapshot, error) {
	data, err := c.FetchSessions(ctx)
	if err != nil {
		return nil, err
	}
	return ParseSessions(data)
}

func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", perrors.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", perrors.ErrNetworkError, err)
}

// redact hides the token query parameter for logs and diagnostics.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Has(TokenHeader) {
		q.Set(TokenHeader, "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
