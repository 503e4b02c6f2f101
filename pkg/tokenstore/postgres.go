package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Querier is the subset of pgxpool.Pool used by Postgres.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Schema creates the session token table.
const Schema = `
CREATE TABLE IF NOT EXISTS client_session_tokens (
	profile    TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	value      TEXT        NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (profile, key)
);`

// Postgres persists session tokens in client_session_tokens, one row per key.
type Postgres struct {
	db      Querier
	profile string
	logger  *zap.Logger
}

// NewPostgres opens a pool for pgURL and makes sure the table exists.
func NewPostgres(ctx context.Context, pgURL, profile string, logger *zap.Logger) (*Postgres, *pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, pgURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, Schema); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("create session table: %w", err)
	}
	return NewPostgresWithQuerier(pool, profile, logger), pool, nil
}

func NewPostgresWithQuerier(db Querier, profile string, logger *zap.Logger) *Postgres {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Postgres{db: db, profile: profile, logger: logger}
}

func (s *Postgres) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRow(ctx, `
		SELECT value FROM client_session_tokens
		WHERE profile = $1 AND key = $2
	`, s.profile, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("tokenstore.pg get %q: %w", key, err)
	}
	return value, nil
}

func (s *Postgres) Set(ctx context.Context, key, value string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO client_session_tokens (profile, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (profile, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, s.profile, key, value)
	if err != nil {
		s.logger.Error("tokenstore.pg.upsert_failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("tokenstore.pg set %q: %w", key, err)
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.db.Exec(ctx, `
		DELETE FROM client_session_tokens
		WHERE profile = $1 AND key = ANY($2)
	`, s.profile, keys)
	if err != nil {
		return fmt.Errorf("tokenstore.pg delete: %w", err)
	}
	return nil
}

// HealthCheck runs a trivial query against the database.
func (s *Postgres) HealthCheck(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, "SELECT 1"); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}
