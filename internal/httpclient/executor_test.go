package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Checker-Finance/league-client/internal/rate"
)

func newExec(client *http.Client) *Executor {
	return New(zap.NewNop(), nil, client, "test")
}

// ─── Basic success ────────────────────────────────────────────────────────────

func TestDo_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"result":"ok"}`))
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := newExec(srv.Client()).Do(context.Background(), req, "/")
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.JSONEq(t, `{"result":"ok"}`, string(resp.Body))
}

// ─── Non-2xx is not an error and is never retried ─────────────────────────────

func TestDo_ErrorStatusSingleAttempt(t *testing.T) {
	var count atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		count.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := newExec(srv.Client()).Do(context.Background(), req, "/")
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.EqualValues(t, 1, count.Load(), "executor must not retry")
}

// ─── Request ID ───────────────────────────────────────────────────────────────

func TestDo_SetsRequestID(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(RequestIDHeader)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodDelete, srv.URL, nil)
	_, err := newExec(srv.Client()).Do(context.Background(), req, "/")
	require.NoError(t, err)
	assert.Len(t, seen, 36)
}

func TestDo_KeepsCallerRequestID(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(RequestIDHeader)
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	req.Header.Set(RequestIDHeader, "caller-id")
	_, err := newExec(srv.Client()).Do(context.Background(), req, "/")
	require.NoError(t, err)
	assert.Equal(t, "caller-id", seen)
}

// ─── Transport failures ───────────────────────────────────────────────────────

type failingTransport struct{ err error }

func (f failingTransport) RoundTrip(*http.Request) (*http.Response, error) { return nil, f.err }

func TestDo_TransportErrorIsWrapped(t *testing.T) {
	boom := errors.New("connection refused")
	exec := newExec(&http.Client{Transport: failingTransport{err: boom}})

	req, _ := http.NewRequest(http.MethodGet, "http://league.invalid/teams/", nil)
	_, err := exec.Do(context.Background(), req, "/teams/")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "/teams/")
}

func TestDo_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	_, err := newExec(srv.Client()).Do(ctx, req, "/")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// ─── Rate limiting ────────────────────────────────────────────────────────────

func TestDo_RateLimitWaitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	defer srv.Close()

	mgr := rate.NewManager(rate.Config{RequestsPerSecond: 1, Burst: 1})
	exec := New(zap.NewNop(), mgr, srv.Client(), "test")

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	_, err := exec.Do(context.Background(), req, "/")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req2, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	_, err = exec.Do(ctx, req2, "/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait")
}
