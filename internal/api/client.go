// Package api is the transport layer between the client and the
// server-side application.
//
// Callers branch on a single contract: Request fails with a
// *NetworkError when the transport fails, and otherwise always returns
// a Response carrying a success flag, whatever the HTTP status was.
// Field-shaped server rejections arrive as Response.Errors; everything
// else is a message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fluxo/internal/core"
	"fluxo/internal/log"
)

// Header names of the server contract.
const (
	headerToken       = "X-CSRFToken"
	headerRequestedBy = "X-Requested-With"
	headerIdempotency = "X-Idempotency-Key"

	requestedByValue = "XMLHttpRequest"
)

// Response is the one shape every request resolves to.
type Response struct {
	Success bool
	Status  int
	Message string
	Errors  core.FieldErrors
	Data    json.RawMessage
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if len(r.Data) == 0 {
		return fmt.Errorf("empty response body")
	}
	return json.Unmarshal(r.Data, v)
}

// Client issues requests against the server application.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenSource sets where the security token is read from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the structured logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient builds a client for the server at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		tokens:  StaticTokenSource(""),
		logger:  log.New(log.Config{Component: "api"}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// rawBody marks a body that must pass through untouched, without a
// structured content header. Multipart uploads use this.
type rawBody struct {
	r           io.Reader
	contentType string
}

// Raw wraps a reader so Request sends it as-is. contentType may be
// empty.
func Raw(r io.Reader, contentType string) any {
	return rawBody{r: r, contentType: contentType}
}

// Request performs one round trip and normalizes the answer.
//
// body may be nil, a Raw wrapper, or any JSON-marshalable value.
// State-changing methods carry the security token; GET omits it.
func (c *Client) Request(ctx context.Context, method, path string, body any) (*Response, error) {
	return c.do(ctx, method, path, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, extra http.Header) (*Response, error) {
	url := c.baseURL + path

	reader, contentType, err := encodeBody(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(headerRequestedBy, requestedByValue)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for name, values := range extra {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	if method != http.MethodGet && method != http.MethodHead {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("read security token: %w", err)
		}
		req.Header.Set(headerToken, token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "transport failure",
			log.FieldMethod, method, log.FieldEndpoint, path, log.FieldError, err)
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}

	c.logger.DebugContext(ctx, "request completed",
		log.FieldMethod, method, log.FieldEndpoint, path,
		log.FieldStatus, resp.StatusCode,
		log.FieldDuration, time.Since(start).Milliseconds())

	return normalize(resp.StatusCode, raw), nil
}

// encodeBody turns the caller's body into a reader and content header.
func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case rawBody:
		return b.r, b.contentType, nil
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(buf), "application/json", nil
	}
}

// envelope matches the parts of a server reply the normalizer cares
// about. Domain fields stay behind in Response.Data.
type envelope struct {
	Success *bool            `json:"success"`
	Message string           `json:"message"`
	Error   string           `json:"error"`
	Errors  core.FieldErrors `json:"errors"`
}

// normalize folds every server answer into the Response contract:
// an explicit success flag wins; otherwise the HTTP status decides.
// Bodies that are not JSON become a generic connectivity failure.
func normalize(status int, raw []byte) *Response {
	resp := &Response{
		Status: status,
		Data:   raw,
		Errors: core.FieldErrors{},
	}

	var env envelope
	if len(raw) == 0 || json.Unmarshal(raw, &env) != nil {
		resp.Success = false
		resp.Message = "Erro de conexão. Tente novamente."
		return resp
	}

	if env.Success != nil {
		resp.Success = *env.Success
	} else {
		resp.Success = status >= 200 && status < 300
	}
	resp.Message = env.Message
	if resp.Message == "" {
		resp.Message = env.Error
	}
	if env.Errors != nil {
		resp.Errors = env.Errors
	}
	return resp
}

// Get is a convenience wrapper over Request.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Request(ctx, http.MethodGet, path, nil)
}

// Post is a convenience wrapper over Request.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Request(ctx, http.MethodPost, path, body)
}

// Put is a convenience wrapper over Request.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Request(ctx, http.MethodPut, path, body)
}

// Delete is a convenience wrapper over Request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Request(ctx, http.MethodDelete, path, nil)
}
