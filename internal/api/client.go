package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"marketplace/client/internal/apperr"
)

const requestIDHeader = "X-Request-Id"

// TokenSource supplies the bearer credential for outgoing calls.
type TokenSource interface {
	CurrentToken() (string, bool)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() (string, bool)

func (f TokenFunc) CurrentToken() (string, bool) { return f() }

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.headers.Set("User-Agent", ua)
		}
	}
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithMetrics registers call counters and latency histograms on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) {
		if reg != nil {
			c.metrics = newMetrics(reg)
		}
	}
}

// Client talks to the marketplace REST API. It never retries: a failed call
// is reported once and the caller decides whether to try again.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	headers    http.Header
	tokens     TokenSource
	metrics    *metrics
	log        zerolog.Logger
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("api: base URL is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api: invalid base URL: %w", err)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	c := &Client{
		baseURL: parsed,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		headers: make(http.Header),
		log:     zerolog.Nop(),
	}
	c.headers.Set("Accept", "application/json")

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetTokenSource binds the credential provider after construction. The
// session store needs the client before it can act as the token source.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

type request struct {
	op          string
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	anonymous   bool
}

func (c *Client) jsonRequest(op, method, path string, payload any) (*request, error) {
	req := &request{op: op, method: method, path: path}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: encode body: %w", op, err)
		}
		req.body = bytes.NewReader(data)
		req.contentType = "application/json"
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, req *request, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	fullURL, err := c.buildURL(req.path, req.query)
	if err != nil {
		return fmt.Errorf("%s: %w", req.op, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, fullURL, req.body)
	if err != nil {
		return fmt.Errorf("%s: %w", req.op, err)
	}
	httpReq.Header = c.headers.Clone()
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set(requestIDHeader, requestID)
	if !req.anonymous && c.tokens != nil {
		if token, ok := c.tokens.CurrentToken(); ok && token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	latency := time.Since(start)
	if err != nil {
		c.metrics.observe(req.op, "network_error", latency)
		c.log.Debug().Err(err).Str("op", req.op).Str("request_id", requestID).Msg("api call failed")
		return apperr.Network(req.op, err)
	}
	defer closeBody(resp.Body)

	c.metrics.observe(req.op, strconv.Itoa(resp.StatusCode), latency)
	c.log.Debug().
		Str("op", req.op).
		Str("method", req.method).
		Str("path", req.path).
		Int("status", resp.StatusCode).
		Dur("latency", latency).
		Str("request_id", requestID).
		Msg("api call")

	if resp.StatusCode >= 400 {
		return classify(req.op, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Network(req.op, fmt.Errorf("read body: %w", err))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &apperr.Error{Kind: apperr.KindServer, Op: req.op, Status: resp.StatusCode, Message: "malformed response body", Err: err}
	}
	return nil
}

func (c *Client) buildURL(path string, q url.Values) (string, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", err
	}
	if len(q) > 0 {
		ref.RawQuery = q.Encode()
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}

func closeBody(rc io.ReadCloser) {
	if rc != nil {
		_ = rc.Close()
	}
}

func escape(segment string) string {
	return url.PathEscape(segment)
}
