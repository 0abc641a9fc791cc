// Package api wraps calls to the remote recipebook API.
//
// Every request is sent against the configured base URL, carries the
// visitor's bearer token when one is held and always includes the visitor's
// cookies, so the HTTP-only refresh cookie travels with it. Failures are
// returned to the caller as they are; nothing here retries or refreshes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	defaultTimeout = 15 * time.Second

	// maxErrorBody caps how much of a failed response is kept in StatusError.
	maxErrorBody = 64 << 10
)

// TokenSource yields the current access token. An empty token means anonymous.
type TokenSource interface {
	AccessToken() string
}

// Options describe a single request.
type Options struct {
	Method string
	Query  url.Values
	Header http.Header

	// Body is JSON encoded when not nil.
	Body any

	// SkipAuth suppresses the bearer header, used by the refresh call.
	SkipAuth bool
}

// Client is the API client wrapper. A Client is safe for concurrent use.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	tokens     TokenSource
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the timeout of the underlying http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent sent upstream.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New returns an anonymous client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, ErrEmptyBaseURL
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid api base url")
	}

	c := &Client{
		base:       base,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// With returns a view of c bound to a token source and cookie jar.
// The view shares c's transport.
func (c *Client) With(tokens TokenSource, jar http.CookieJar) *Client {
	hc := *c.httpClient
	hc.Jar = jar

	return &Client{
		base:       c.base,
		httpClient: &hc,
		tokens:     tokens,
		userAgent:  c.userAgent,
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() *url.URL {
	u := *c.base

	return &u
}

// NewRequest builds a decorated request for endpoint.
// Caller headers are applied last and win over the injected ones.
func (c *Client) NewRequest(ctx context.Context, endpoint string, opts *Options) (*http.Request, error) {
	if opts == nil {
		opts = &Options{}
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	target := c.resolve(endpoint, opts.Query)

	var body io.Reader

	if opts.Body != nil {
		buf, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode request body")
		}

		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	req.Header.Set("Accept", "application/json")

	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	if !opts.SkipAuth && c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	for key, values := range opts.Header {
		req.Header.Del(key)

		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	return req, nil
}

// Do sends req. The response and error are returned untouched.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req) //nolint:wrapcheck
}

// Fetch sends a request to endpoint and decodes a JSON response into out.
// A non-2xx answer is returned as *StatusError. out may be nil.
func (c *Client) Fetch(ctx context.Context, endpoint string, opts *Options, out any) error {
	req, err := c.NewRequest(ctx, endpoint, opts)
	if err != nil {
		return err
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	log.Debug().
		Str("method", req.Method).
		Str("url", req.URL.Redacted()).
		Int("status", resp.StatusCode).
		Msg("api call")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return &StatusError{
			Method:     req.Method,
			URL:        req.URL.Redacted(),
			StatusCode: resp.StatusCode,
			Body:       errBody,
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)

		return nil
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "failed to decode response of %s", req.URL.Path)
	}

	return nil
}

// resolve joins endpoint onto the base URL path.
func (c *Client) resolve(endpoint string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(endpoint, "/")
	u.RawPath = ""

	if len(query) > 0 {
		q := u.Query()

		for key, values := range query {
			for _, v := range values {
				q.Add(key, v)
			}
		}

		u.RawQuery = q.Encode()
	}

	return u.String()
}
