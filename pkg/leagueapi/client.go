// Package leagueapi is an authenticated client for the sports league REST
// backend. It holds one bearer access token per Client, refreshes it
// transparently when the backend answers 401, and persists the session in an
// injected tokenstore.Store.
package leagueapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Checker-Finance/league-client/internal/httpclient"
	"github.com/Checker-Finance/league-client/internal/rate"
	"github.com/Checker-Finance/league-client/pkg/tokenstore"
)

const (
	defaultHTTPTimeout    = 15 * time.Second
	defaultRefreshTimeout = 10 * time.Second

	refreshPath = "/auth/token/refresh/"
)

// Client talks to a single league backend. The zero value is not usable;
// construct with New. A Client is safe for concurrent use.
type Client struct {
	baseURL string
	logger  *zap.Logger
	exec    *httpclient.Executor
	store   tokenstore.Store

	httpClient       *http.Client
	rateMgr          *rate.Manager
	onSessionExpired func(error)
	refreshTimeout   time.Duration
	refreshAttempts  int

	mu    sync.RWMutex
	token string
	// gen changes on every login/logout so a refresh that started in an
	// older session cannot resurrect it.
	gen uint64

	refreshGroup singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithStore sets the durable token store. Defaults to tokenstore.NewMemory().
func WithStore(s tokenstore.Store) Option {
	return func(c *Client) { c.store = s }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithRateLimit caps outbound requests per second towards the backend.
func WithRateLimit(rps, burst int) Option {
	return func(c *Client) {
		c.rateMgr = rate.NewManager(rate.Config{RequestsPerSecond: rps, Burst: burst})
	}
}

// WithSessionExpiredHook registers fn to run once per failed refresh, after
// the session has been cleared. UI layers use it to navigate to a login page.
func WithSessionExpiredHook(fn func(error)) Option {
	return func(c *Client) { c.onSessionExpired = fn }
}

// WithRefreshTimeout bounds a shared token refresh.
func WithRefreshTimeout(d time.Duration) Option {
	return func(c *Client) { c.refreshTimeout = d }
}

// WithRefreshAttempts sets how many refresh+retry rounds a single request may
// take after a 401. The default of 1 guarantees termination; values < 1 are
// treated as 1.
func WithRefreshAttempts(n int) Option {
	return func(c *Client) { c.refreshAttempts = n }
}

// New builds a Client for baseURL and hydrates the access token from the
// store. Hydration is best effort: the token is not validated until it is used.
func New(ctx context.Context, baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		refreshTimeout:  defaultRefreshTimeout,
		refreshAttempts: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.store == nil {
		c.store = tokenstore.NewMemory()
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if c.refreshAttempts < 1 {
		c.refreshAttempts = 1
	}
	c.exec = httpclient.New(c.logger, c.rateMgr, c.httpClient, "leagueapi")

	token, err := c.store.Get(ctx, tokenstore.AccessTokenKey)
	switch {
	case err == nil:
		c.token = token
	case !errors.Is(err, tokenstore.ErrNotFound):
		c.logger.Warn("leagueapi.token_hydrate_failed", zap.Error(err))
	}
	return c
}

// IsAuthenticated reports whether an access token is currently held.
func (c *Client) IsAuthenticated() bool {
	return c.accessToken() != ""
}

// AccessToken returns the bearer token currently held, or "".
func (c *Client) AccessToken() string {
	return c.accessToken()
}

func (c *Client) accessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Request describes one logical call against the backend.
type Request struct {
	Method string
	// Path is relative to the base URL, e.g. "/teams/3/".
	Path string
	// Route is the metrics label; defaults to Path.
	Route  string
	Body   any
	Header http.Header
	// Anonymous requests carry no bearer token and never trigger a refresh.
	Anonymous bool
}

// Do performs r and decodes a 2xx JSON body into out (which may be nil).
//
// On a 401 the access token is refreshed once, shared with any concurrent
// callers, and r is retried once with the new token. Whatever the retry
// returns is final.
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	if r.Route == "" {
		r.Route = r.Path
	}
	payload, err := encodeBody(r.Body)
	if err != nil {
		return fmt.Errorf("leagueapi: encode %s body: %w", r.Route, err)
	}

	token := ""
	if !r.Anonymous {
		token = c.accessToken()
	}
	resp, err := c.send(ctx, r, payload, token)
	if err != nil {
		return err
	}

	if !r.Anonymous {
		for attempt := 0; attempt < c.refreshAttempts && resp.StatusCode == http.StatusUnauthorized; attempt++ {
			token, err = c.refresh(ctx, token)
			if err != nil {
				return err
			}
			resp, err = c.send(ctx, r, payload, token)
			if err != nil {
				return err
			}
		}
	}

	return decodeResponse(resp, out)
}

func (c *Client) send(ctx context.Context, r Request, payload []byte, token string) (*httpclient.Response, error) {
	// A fresh reader per attempt so a retry re-sends the full body.
	req, err := http.NewRequestWithContext(ctx, r.Method, c.baseURL+r.Path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("leagueapi: build %s %s: %w", r.Method, r.Route, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, vals := range r.Header {
		req.Header.Del(k)
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.exec.Do(ctx, req, r.Route)
	if err != nil {
		return nil, &NetworkError{Op: r.Method + " " + r.Route, Err: err}
	}
	return resp, nil
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	if raw, ok := body.(json.RawMessage); ok {
		return raw, nil
	}
	return json.Marshal(body)
}

func decodeResponse(resp *httpclient.Response, out any) error {
	if !resp.OK() {
		return &HTTPError{
			Status:  resp.StatusCode,
			Message: errorMessage(resp),
			Body:    resp.Body,
		}
	}
	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return &DecodeError{Status: resp.StatusCode, Err: errors.New("empty body")}
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return &DecodeError{Status: resp.StatusCode, Body: resp.Body, Err: err}
	}
	return nil
}

func errorMessage(resp *httpclient.Response) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(resp.Body, &body); err == nil && body.Detail != "" {
		return body.Detail
	}
	return fmt.Sprintf("HTTP %d", resp.StatusCode)
}

// convenience verbs used by the resource methods

func (c *Client) get(ctx context.Context, path, route string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Route: route}, out)
}

func (c *Client) post(ctx context.Context, path, route string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Route: route, Body: body}, out)
}

func (c *Client) put(ctx context.Context, path, route string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Route: route, Body: body}, out)
}

func (c *Client) delete(ctx context.Context, path, route string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path, Route: route}, nil)
}
