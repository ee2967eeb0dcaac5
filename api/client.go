// Package api is the single gateway for every call to the MotoPay backend.
//
// Each request gets the bearer token from the token store. Each failed
// response is classified once: the user is notified, a rejected session is
// cleared, and the structured *Error is returned so the caller can react too.
// Nothing is retried.
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
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/motopay/portal/tokens"
)

const maxResponseBytes = 4 << 20

// Request is one outbound call.
type Request struct {
	Method   string
	Endpoint string
	Body     any
	Query    url.Values
}

// Requester is the verb surface services are written against.
type Requester interface {
	Get(ctx context.Context, endpoint string, query url.Values) (*Envelope, error)
	Post(ctx context.Context, endpoint string, body any) (*Envelope, error)
	Put(ctx context.Context, endpoint string, body any) (*Envelope, error)
	Patch(ctx context.Context, endpoint string, body any) (*Envelope, error)
	Delete(ctx context.Context, endpoint string, query url.Values) (*Envelope, error)
}

var _ Requester = (*Client)(nil)

// Client is the configured backend gateway.
type Client struct {
	cfg      Config
	http     *http.Client
	tokens   tokens.Store
	notifier Notifier
}

type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client. Its Timeout is forced to
// the configured timeout when unset.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		c.http = &cp
	}
}

// WithNotifier sets where user notifications go. Defaults to LogNotifier.
func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		c.notifier = n
	}
}

// New creates a gateway. A nil store behaves as an always-empty store.
func New(cfg Config, store tokens.Store, opts ...Option) *Client {
	c := &Client{
		cfg:      cfg.withDefaults(),
		tokens:   store,
		notifier: LogNotifier{},
	}
	if c.tokens == nil {
		c.tokens = tokens.New(nil)
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.http.Timeout == 0 {
		c.http.Timeout = c.cfg.Timeout
	}
	return c
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Tokens returns the store the gateway reads bearer tokens from.
func (c *Client) Tokens() tokens.Store {
	return c.tokens
}

func (c *Client) Get(ctx context.Context, endpoint string, query url.Values) (*Envelope, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Endpoint: endpoint, Query: query})
}

func (c *Client) Post(ctx context.Context, endpoint string, body any) (*Envelope, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Endpoint: endpoint, Body: body})
}

func (c *Client) Put(ctx context.Context, endpoint string, body any) (*Envelope, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Endpoint: endpoint, Body: body})
}

func (c *Client) Patch(ctx context.Context, endpoint string, body any) (*Envelope, error) {
	return c.Do(ctx, Request{Method: http.MethodPatch, Endpoint: endpoint, Body: body})
}

func (c *Client) Delete(ctx context.Context, endpoint string, query url.Values) (*Envelope, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Endpoint: endpoint, Query: query})
}

// Do sends req and returns the decoded envelope of a 2xx response. Any other
// outcome has already been shown to the user when the *Error is returned.
func (c *Client) Do(ctx context.Context, req Request) (*Envelope, error) {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("[api Do] build %s %s: %w", req.Method, req.Endpoint, err)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, c.fail(ctx, httpReq, networkError(err), time.Since(start))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, c.fail(ctx, httpReq, networkError(err), time.Since(start))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(ctx, httpReq, parseError(resp.StatusCode, body), time.Since(start))
	}

	log.Debug().
		Str("method", httpReq.Method).
		Str("path", httpReq.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("backend call")

	env := &Envelope{}
	if len(bytes.TrimSpace(body)) == 0 {
		env.Success = true
		return env, nil
	}
	if err := json.Unmarshal(body, env); err != nil {
		return nil, fmt.Errorf("[api Do] decode envelope from %s: %w", httpReq.URL.Path, err)
	}
	return env, nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	u := c.cfg.URL(req.Endpoint)
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	if token, ok := c.tokens.AccessToken(); ok {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(httpReq)
	}
	return httpReq, nil
}

// fail applies the classification side effects for apiErr and returns it.
func (c *Client) fail(ctx context.Context, httpReq *http.Request, apiErr *Error, took time.Duration) error {
	status := apiErr.StatusCode
	if apiErr.Kind == KindNetwork {
		status = 0
	}
	outcome := Classify(status, IsLoginCall(httpReq.URL.EscapedPath()), apiErr.BackendMessage())

	event := log.Warn().
		Str("method", httpReq.Method).
		Str("path", httpReq.URL.Path).
		Int("status", status).
		Dur("duration", took)
	if cause := errors.Unwrap(apiErr); cause != nil {
		event = event.Err(cause)
	}
	event.Bool("cleared_tokens", outcome.ClearTokens).Msg(apiErr.Message)

	if outcome.ClearTokens {
		c.tokens.Clear()
	}
	c.notifier.Notify(ctx, outcome.Notification)
	return apiErr
}
