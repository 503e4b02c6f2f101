package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Checker-Finance/league-client/internal/api"
	"github.com/Checker-Finance/league-client/pkg/config"
	"github.com/Checker-Finance/league-client/pkg/leagueapi"
	"github.com/Checker-Finance/league-client/pkg/logger"
	"github.com/Checker-Finance/league-client/pkg/tokenstore"
	"github.com/Checker-Finance/league-client/pkg/utils"
)

// runtime holds what every command shares: config, the session store and
// the API client built on it.
type runtime struct {
	cfg    *config.Config
	log    *zap.Logger
	store  tokenstore.Store
	health api.HealthChecker
	client *leagueapi.Client

	closers []func() error
}

func (rt *runtime) open(ctx context.Context) error {
	rt.log = logger.L()

	st, health, closer, err := openStore(ctx, rt.cfg, rt.log)
	if err != nil {
		return err
	}
	rt.store, rt.health = st, health
	if closer != nil {
		rt.closers = append(rt.closers, closer)
	}

	rt.client = leagueapi.New(ctx, rt.cfg.APIBaseURL,
		leagueapi.WithLogger(logger.Named("leagueapi")),
		leagueapi.WithStore(st),
		leagueapi.WithHTTPClient(&http.Client{Timeout: rt.cfg.HTTPTimeout}),
		leagueapi.WithRateLimit(rt.cfg.RateLimitRPS, rt.cfg.RateLimitBurst),
		leagueapi.WithRefreshTimeout(rt.cfg.RefreshTimeout),
		leagueapi.WithSessionExpiredHook(func(error) {
			fmt.Fprintln(os.Stderr, "Your session has expired. Run `leaguectl login` to sign in again.")
		}),
	)
	return nil
}

func (rt *runtime) close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil && rt.log != nil {
			rt.log.Warn("leaguectl.close_failed", zap.Error(err))
		}
	}
	rt.closers = nil
}

// openStore builds the configured token store. health is non-nil for
// networked stores; closer releases their connections.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (tokenstore.Store, api.HealthChecker, func() error, error) {
	switch cfg.TokenStore {
	case config.StoreFile, "":
		return tokenstore.NewFile(cfg.TokenFile), nil, nil, nil
	case config.StoreMemory:
		return tokenstore.NewMemory(), nil, nil, nil
	case config.StoreNone:
		return tokenstore.Noop{}, nil, nil, nil
	case config.StoreRedis:
		st, err := tokenstore.NewRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.Profile, log)
		if err != nil {
			return nil, nil, nil, err
		}
		return st, st, st.Close, nil
	case config.StorePostgres:
		log.Info("tokenstore.postgres_connecting", zap.String("dsn", utils.MaskDSN(cfg.DatabaseURL)))
		st, pool, err := tokenstore.NewPostgres(ctx, cfg.DatabaseURL, cfg.Profile, log)
		if err != nil {
			return nil, nil, nil, err
		}
		return st, st, func() error { pool.Close(); return nil }, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown token store %q", cfg.TokenStore)
	}
}

// exitErr maps client errors to CLI exit codes: 2 when the user has to log
// in, 1 otherwise.
func exitErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, leagueapi.ErrAuthenticationRequired) || errors.Is(err, leagueapi.ErrSessionExpired) {
		return cli.Exit("not logged in: run `leaguectl login`", 2)
	}
	return cli.Exit(err.Error(), 1)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// idArg parses the n-th positional argument as a resource id.
func idArg(c *cli.Context, n int) (int, error) {
	raw := c.Args().Get(n)
	if raw == "" {
		return 0, cli.Exit(fmt.Sprintf("missing argument %d: %s", n+1, c.Command.ArgsUsage), 1)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, cli.Exit(fmt.Sprintf("invalid id %q", raw), 1)
	}
	return id, nil
}
