package tokenstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisWithClient(rdb, "coach", zap.NewNop()), mr
}

func TestRedis(t *testing.T) {
	s, mr := newTestRedis(t)
	defer mr.Close()

	exerciseStore(t, s)
}

func TestRedis_KeyLayout(t *testing.T) {
	s, mr := newTestRedis(t)
	defer mr.Close()

	require.NoError(t, s.Set(context.Background(), AccessTokenKey, "A"))

	got, err := mr.Get("league:session:coach:access_token")
	require.NoError(t, err)
	assert.Equal(t, "A", got)
}

func TestRedis_TTL(t *testing.T) {
	s, mr := newTestRedis(t)
	defer mr.Close()
	s.WithTTL(time.Minute)

	require.NoError(t, s.Set(context.Background(), RefreshTokenKey, "R"))
	mr.FastForward(2 * time.Minute)

	_, err := s.Get(context.Background(), RefreshTokenKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedis_NewRedisConnects(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s, err := NewRedis(mr.Addr(), "", 0, "default", nil)
	require.NoError(t, err)
	defer s.Close() //nolint:errcheck

	require.NoError(t, s.HealthCheck(context.Background()))
}

func TestRedis_Down(t *testing.T) {
	s, mr := newTestRedis(t)
	mr.Close()

	_, err := s.Get(context.Background(), AccessTokenKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	err = s.HealthCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")
}
