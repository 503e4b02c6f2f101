// Package tokenstore provides the durable key-value capability that backs a
// league API session. Only the API client should write to it.
package tokenstore

import (
	"context"
	"errors"
	"sync"
)

// Fixed keys under which session credentials are persisted.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("tokenstore: key not found")

// Store persists opaque string values by key.
// Delete of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Memory is a process-local Store. Values survive for the lifetime of the
// value only.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.data, k)
	}
	m.mu.Unlock()
	return nil
}

// Noop never retains anything. Use it where no persistence is available;
// the client then runs stateless per instance.
type Noop struct{}

func (Noop) Get(context.Context, string) (string, error) { return "", ErrNotFound }
func (Noop) Set(context.Context, string, string) error    { return nil }
func (Noop) Delete(context.Context, ...string) error      { return nil }
