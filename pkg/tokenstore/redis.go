package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis keeps session tokens in Redis under league:session:{profile}:{key}.
// A zero TTL keeps values until they are deleted.
type Redis struct {
	rdb     *redis.Client
	profile string
	ttl     time.Duration
	logger  *zap.Logger
}

// NewRedis connects to addr and verifies the connection with a ping.
func NewRedis(addr, password string, db int, profile string, logger *zap.Logger) (*Redis, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisWithClient(rdb, profile, logger), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(rdb *redis.Client, profile string, logger *zap.Logger) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis{rdb: rdb, profile: profile, logger: logger}
}

// WithTTL sets an expiry applied on every Set.
func (s *Redis) WithTTL(ttl time.Duration) *Redis {
	s.ttl = ttl
	return s
}

func (s *Redis) key(k string) string {
	return fmt.Sprintf("league:session:%s:%s", s.profile, k)
}

func (s *Redis) Get(ctx context.Context, key string) (string, error) {
	val, err := s.rdb.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("tokenstore.redis get %q: %w", key, err)
	}
	return val, nil
}

func (s *Redis) Set(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		s.logger.Error("tokenstore.redis.set_failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("tokenstore.redis set %q: %w", key, err)
	}
	return nil
}

func (s *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	if err := s.rdb.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("tokenstore.redis delete: %w", err)
	}
	return nil
}

func (s *Redis) HealthCheck(ctx context.Context) error {
	if s.rdb == nil {
		return fmt.Errorf("redis not initialized")
	}
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (s *Redis) Close() error {
	if s.rdb != nil {
		return s.rdb.Close()
	}
	return nil
}
