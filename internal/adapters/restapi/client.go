// Package restapi is the JSON client for the blood-donation REST backend.
package restapi

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

	apperrors "github.com/bloodconnect/bloodconnect-web/internal/errors"
	"golang.org/x/oauth2"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "bloodconnect-web"
	maxBodyBytes     = 1 << 20
)

// Observer receives one callback per backend call. Status is 0 on transport errors.
type Observer interface {
	ObserveAPICall(endpoint, method string, status int, elapsed time.Duration)
}

// Options configures a Client.
type Options struct {
	BaseURL          string
	Timeout          time.Duration
	UserAgent        string
	ErrorMessageExpr string
	ErrorFieldsExpr  string
	// Transport overrides the base round tripper (tests).
	Transport http.RoundTripper
	Logger    *slog.Logger
	Observer  Observer
}

// Client calls the REST backend. It is safe for concurrent use.
type Client struct {
	base      string
	timeout   time.Duration
	userAgent string
	transport http.RoundTripper
	decoder   *ErrorDecoder
	logger    *slog.Logger
	observer  Observer
}

// New validates options and compiles the error decoder.
func New(opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(opts.BaseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q", opts.BaseURL)
	}
	decoder, err := NewErrorDecoder(opts.ErrorMessageExpr, opts.ErrorFieldsExpr)
	if err != nil {
		return nil, err
	}

	c := &Client{
		base:      strings.TrimRight(u.String(), "/"),
		timeout:   opts.Timeout,
		userAgent: opts.UserAgent,
		transport: opts.Transport,
		decoder:   decoder,
		logger:    opts.Logger,
		observer:  opts.Observer,
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.userAgent == "" {
		c.userAgent = defaultUserAgent
	}
	if c.transport == nil {
		c.transport = http.DefaultTransport
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// call describes one request. Endpoint is a low-cardinality label for metrics and logs.
type call struct {
	endpoint string
	method   string
	path     string
	query    url.Values
	token    string
	body     any
	out      any
}

func (c *Client) httpClient(token string) *http.Client {
	rt := c.transport
	if token != "" {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   c.transport,
		}
	}
	return &http.Client{Transport: rt, Timeout: c.timeout}
}

func (c *Client) do(ctx context.Context, cl call) error {
	req, err := c.newRequest(ctx, cl)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to build request")
	}

	start := time.Now()
	resp, err := c.httpClient(cl.token).Do(req)
	if err != nil {
		c.observe(cl, 0, time.Since(start))
		return c.transportError(ctx, cl, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.observe(cl, resp.StatusCode, time.Since(start))
	if err != nil {
		return c.transportError(ctx, cl, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		decoded := c.decoder.Decode(resp.StatusCode, body)
		c.logger.DebugContext(ctx, "api call rejected",
			"endpoint", cl.endpoint,
			"status", resp.StatusCode,
			"error", decoded,
		)
		return decoded
	}

	if cl.out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, cl.out); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "Received an unexpected response from the server")
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	target := c.base + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		raw, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", cl.endpoint, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) transportError(ctx context.Context, cl call, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return apperrors.Wrap(err, apperrors.ErrCodeCanceled, "Request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		c.logger.WarnContext(ctx, "api call timed out", "endpoint", cl.endpoint)
		return apperrors.Wrap(err, apperrors.ErrCodeTimeout, "The server took too long to respond. Please try again.")
	default:
		c.logger.WarnContext(ctx, "api call failed", "endpoint", cl.endpoint, "error", err)
		return apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "Unable to reach the server. Please try again.")
	}
}

func (c *Client) observe(cl call, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveAPICall(cl.endpoint, cl.method, status, elapsed)
	}
}

// decodeList accepts either a bare JSON array or an object holding the array under key.
func decodeList[T any](raw json.RawMessage, key string) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}
	if trimmed[0] == '[' {
		var out []T
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "Received an unexpected response from the server")
		}
		return out, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "Received an unexpected response from the server")
	}
	inner, ok := envelope[key]
	if !ok {
		return []T{}, nil
	}
	return decodeList[T](inner, key)
}
