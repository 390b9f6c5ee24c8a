package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sync"
)

// TokenSource supplies the security token sent with every
// state-changing request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource returns a fixed token. Used in tests and in hosts
// that inject the token through configuration.
type StaticTokenSource string

func (s StaticTokenSource) Token(ctx context.Context) (string, error) {
	return string(s), nil
}

// The server renders the token as a hidden form field.
var csrfFieldPattern = regexp.MustCompile(`name=["']csrfmiddlewaretoken["']\s+value=["']([^"']+)["']`)

// PageTokenSource reads the token once from a rendered page and reuses
// it for the rest of the session.
type PageTokenSource struct {
	client  *http.Client
	pageURL string

	once  sync.Once
	token string
	err   error
}

// NewPageTokenSource builds a source that fetches pageURL on first use.
func NewPageTokenSource(client *http.Client, pageURL string) *PageTokenSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &PageTokenSource{client: client, pageURL: pageURL}
}

func (p *PageTokenSource) Token(ctx context.Context) (string, error) {
	p.once.Do(func() {
		p.token, p.err = p.fetch(ctx)
	})
	return p.token, p.err
}

func (p *PageTokenSource) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", &NetworkError{URL: p.pageURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &NetworkError{URL: p.pageURL, Err: err}
	}

	m := csrfFieldPattern.FindSubmatch(body)
	if m == nil {
		return "", fmt.Errorf("no security token on page %s", p.pageURL)
	}
	return string(m[1]), nil
}
