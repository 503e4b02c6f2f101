package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Checker-Finance/league-client/internal/metrics"
	"github.com/Checker-Finance/league-client/internal/rate"
)

// RequestIDHeader is set on every outbound request that does not carry one.
const RequestIDHeader = "X-Request-ID"

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Executor sends rate-limited, metered HTTP requests. It makes exactly one
// attempt per call; retry policy belongs to the caller.
type Executor struct {
	logger  *zap.Logger
	rateMgr *rate.Manager
	http    *http.Client
	tag     string
}

// New creates an Executor. rateMgr may be nil.
func New(logger *zap.Logger, rateMgr *rate.Manager, httpClient *http.Client, tag string) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Executor{
		logger:  logger,
		rateMgr: rateMgr,
		http:    httpClient,
		tag:     tag,
	}
}

// Do sends req once and reads the whole body. route is the low-cardinality
// endpoint label used for metrics (e.g. "/teams/{id}/").
// Transport failures are returned wrapped; any HTTP status is a nil error.
func (e *Executor) Do(ctx context.Context, req *http.Request, route string) (*Response, error) {
	if err := e.rateMgr.Wait(ctx, req.URL.Host); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}

	start := time.Now()
	resp, err := e.http.Do(req.WithContext(ctx))
	if err != nil {
		metrics.IncAPIRequest(route, req.Method, "error")
		e.logger.Warn(e.tag+".http_failed",
			zap.String("method", req.Method),
			zap.String("route", route),
			zap.String("request_id", req.Header.Get(RequestIDHeader)),
			zap.Error(err))
		return nil, fmt.Errorf("%s %s %s: %w", e.tag, req.Method, route, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	metrics.ObserveDuration(metrics.APIRequestDuration, start, route, req.Method)
	metrics.IncAPIRequest(route, req.Method, strconv.Itoa(resp.StatusCode))
	if err != nil {
		return nil, fmt.Errorf("%s %s %s: read body: %w", e.tag, req.Method, route, err)
	}

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("route", route),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("request_id", req.Header.Get(RequestIDHeader)),
	}
	if resp.StatusCode >= 500 {
		e.logger.Warn(e.tag+".server_error", fields...)
	} else {
		e.logger.Debug(e.tag+".http_done", fields...)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
