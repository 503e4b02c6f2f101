package leagueapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Checker-Finance/league-client/pkg/model"
	"github.com/Checker-Finance/league-client/pkg/tokenstore"
)

// writeJSON encodes v as JSON into w.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		panic("test helper writeJSON: " + err.Error())
	}
}

// mockBackend is a minimal league backend. Protected routes accept only the
// bearer token in validToken; the refresh endpoint answers with refreshStatus
// and refreshResp.
type mockBackend struct {
	t *testing.T

	mu            sync.Mutex
	validToken    string
	refreshStatus int
	refreshResp   any
	// refreshGate, when set, blocks the refresh handler until closed.
	refreshGate    chan struct{}
	refreshEntered chan struct{}
	// routes override the default protected handler per "METHOD path".
	routes map[string]http.HandlerFunc

	refreshCalls   atomic.Int32
	protectedCalls atomic.Int32
	refreshBodies  []model.RefreshRequest
}

func newMockBackend(t *testing.T) *mockBackend {
	t.Helper()
	return &mockBackend{
		t:              t,
		validToken:     "access-new",
		refreshStatus:  http.StatusOK,
		refreshResp:    model.TokenPair{Access: "access-new"},
		refreshEntered: make(chan struct{}, 16),
		routes:         map[string]http.HandlerFunc{},
	}
}

func (m *mockBackend) handle(method, path string, h http.HandlerFunc) {
	m.routes[method+" "+path] = h
}

func (m *mockBackend) setValidToken(tok string) {
	m.mu.Lock()
	m.validToken = tok
	m.mu.Unlock()
}

func (m *mockBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api")

	if r.Method == http.MethodPost && path == refreshPath {
		m.refreshCalls.Add(1)
		var body model.RefreshRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		m.mu.Lock()
		m.refreshBodies = append(m.refreshBodies, body)
		gate, status, resp := m.refreshGate, m.refreshStatus, m.refreshResp
		m.mu.Unlock()

		m.refreshEntered <- struct{}{}
		if gate != nil {
			<-gate
		}
		if raw, ok := resp.(string); ok {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(raw))
			return
		}
		writeJSON(w, status, resp)
		return
	}

	if h, ok := m.routes[r.Method+" "+path]; ok {
		h(w, r)
		return
	}

	m.protectedCalls.Add(1)
	m.mu.Lock()
	valid := m.validToken
	m.mu.Unlock()
	if r.Header.Get("Authorization") != "Bearer "+valid {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
		return
	}
	writeJSON(w, http.StatusOK, []model.Team{{ID: 1, Name: "Hawks", Sport: "basketball"}})
}

// newTestClient starts srv and returns a Client for it backed by a fresh
// in-memory store seeded with tokens.
func newTestClient(t *testing.T, h http.Handler, tokens map[string]string, opts ...Option) (*Client, *tokenstore.Memory) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	store := tokenstore.NewMemory()
	for k, v := range tokens {
		require.NoError(t, store.Set(context.Background(), k, v))
	}
	opts = append([]Option{WithLogger(zap.NewNop()), WithStore(store)}, opts...)
	return New(context.Background(), srv.URL+"/api", opts...), store
}

// staleSession is a stored session whose access token the backend rejects.
func staleSession() map[string]string {
	return map[string]string{
		tokenstore.AccessTokenKey:  "access-old",
		tokenstore.RefreshTokenKey: "refresh-1",
	}
}

func requireMissing(t *testing.T, s tokenstore.Store, key string) {
	t.Helper()
	_, err := s.Get(context.Background(), key)
	require.ErrorIs(t, err, tokenstore.ErrNotFound, "key %s should be cleared", key)
}

func requireStored(t *testing.T, s tokenstore.Store, key, want string) {
	t.Helper()
	got, err := s.Get(context.Background(), key)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

// failingStore errors on every operation.
type failingStore struct{}

var errStoreDown = errors.New("store down")

func (failingStore) Get(context.Context, string) (string, error) { return "", errStoreDown }
func (failingStore) Set(context.Context, string, string) error    { return errStoreDown }
func (failingStore) Delete(context.Context, ...string) error      { return errStoreDown }
