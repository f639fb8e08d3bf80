// Package market is a client for the agent marketplace REST API.
package market

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
	"time"

	"github.com/google/uuid"

	"github.com/soyeahso/azent/internal/auth"
	"github.com/soyeahso/azent/internal/logging"
	"github.com/soyeahso/azent/internal/version"
)

// Sentinel errors, matched with errors.Is against *APIError and call results.
var (
	ErrUnauthorized = errors.New("not authorized")
	ErrNotFound     = errors.New("not found")
	ErrAlreadyLiked = errors.New("already liked this agent")
	ErrNotLoggedIn  = errors.New("not logged in")
)

const alreadyLikedMessage = "You have already liked this agent"

// APIError is a non-2xx response from the backend.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: API error (%d): %s", e.Method, e.Path, e.StatusCode, msg)
}

// Is maps status codes onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrAlreadyLiked:
		return e.StatusCode == http.StatusBadRequest && strings.EqualFold(e.Message, alreadyLikedMessage)
	}
	return false
}

// Options configures a Client.
type Options struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	UserAgent string
	// Transport overrides the base round tripper, mainly for tests.
	Transport http.RoundTripper
}

// Client talks to the marketplace backend. It is safe for concurrent use.
type Client struct {
	base      *url.URL
	userAgent string
	token     string
	anon      *http.Client
	authed    *http.Client
	log       *logging.Logger
}

// New creates a client for the API rooted at opts.BaseURL.
func New(opts Options, log *logging.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", opts.BaseURL)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = version.UserAgent()
	}
	rt := opts.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}

	c := &Client{
		base:      base,
		userAgent: opts.UserAgent,
		token:     opts.Token,
		anon:      &http.Client{Timeout: opts.Timeout, Transport: rt},
		log:       log.Sub("market"),
	}
	if opts.Token != "" {
		c.authed = &http.Client{Timeout: opts.Timeout, Transport: auth.Transport(opts.Token, rt)}
	}
	return c, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string { return c.base.String() }

// LoggedIn reports whether the client carries a session token.
func (c *Client) LoggedIn() bool { return c.token != "" }

// endpoint joins path segments onto the base URL, escaping each segment.
func (c *Client) endpoint(query url.Values, segments ...string) string {
	u := *c.base
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.Join(segments, "/")
	u.RawPath = strings.TrimRight(c.base.EscapedPath(), "/") + "/" + strings.Join(escaped, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

type call struct {
	method      string
	url         string
	body        io.Reader
	contentType string
	authed      bool
}

func jsonBody(v any) (io.Reader, error) {
	if v == nil {
		return nil, nil
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return bytes.NewReader(payload), nil
}

// do performs the call and decodes a JSON response into out when out is
// non-nil. It returns the raw response with its body already consumed so
// callers can inspect status codes and cookies.
func (c *Client) do(ctx context.Context, cl call, out any) (*http.Response, error) {
	httpClient := c.anon
	if cl.authed {
		if c.authed == nil {
			return nil, ErrNotLoggedIn
		}
		httpClient = c.authed
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, cl.url, cl.body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		ct := cl.contentType
		if ct == "" {
			ct = "application/json"
		}
		req.Header.Set("Content-Type", ct)
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: request failed: %w", cl.method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug().
		Str("method", cl.method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Str("requestId", reqID).
		Dur("elapsed", time.Since(start)).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, &APIError{
			Method:     cl.method,
			Path:       req.URL.Path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBody),
			RequestID:  reqID,
		}
	}

	if out != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return resp, fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return resp, nil
}

// errorMessage extracts the backend's message field, falling back to the
// trimmed body text.
func errorMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}

func (c *Client) getJSON(ctx context.Context, u string, authed bool, out any) error {
	_, err := c.do(ctx, call{method: http.MethodGet, url: u, authed: authed}, out)
	return err
}

func (c *Client) sendJSON(ctx context.Context, method, u string, authed bool, in, out any) (*http.Response, error) {
	body, err := jsonBody(in)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, call{method: method, url: u, body: body, authed: authed}, out)
}
