package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/Checker-Finance/league-client/pkg/config"
	"github.com/Checker-Finance/league-client/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	rt := &runtime{cfg: cfg}

	app := &cli.App{
		Name:  "leaguectl",
		Usage: "operate a league backend from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-url", Usage: "backend base URL", Value: cfg.APIBaseURL, EnvVars: []string{"LEAGUE_API_URL"}},
			&cli.StringFlag{Name: "profile", Aliases: []string{"p"}, Usage: "session profile", Value: cfg.Profile},
			&cli.StringFlag{Name: "store", Usage: "token store: file, memory, none, redis, postgres", Value: cfg.TokenStore},
			&cli.StringFlag{Name: "log-level", Value: cfg.LogLevel},
		},
		Before: func(c *cli.Context) error {
			cfg.APIBaseURL = c.String("api-url")
			cfg.Profile = c.String("profile")
			cfg.TokenStore = c.String("store")
			cfg.LogLevel = c.String("log-level")
			logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
			return rt.open(c.Context)
		},
		After: func(c *cli.Context) error {
			rt.close()
			logger.Sync()
			return nil
		},
		Commands: []*cli.Command{
			rt.newLoginCommand(),
			rt.newLogoutCommand(),
			rt.newWhoamiCommand(),
			rt.newRegisterCommand(),
			rt.newProfilesCommand(),
			rt.newTeamsCommand(),
			rt.newLeaguesCommand(),
			rt.newGamesCommand(),
			rt.newPostsCommand(),
			rt.newWatchCommand(),
		},
		Version: "0.1.0",
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
