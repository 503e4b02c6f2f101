package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Checker-Finance/league-client/internal/api"
	"github.com/Checker-Finance/league-client/internal/publisher"
	"github.com/Checker-Finance/league-client/internal/watch"
	"github.com/Checker-Finance/league-client/pkg/leagueapi"
)

func (rt *runtime) newWatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "poll league standings and publish changes to NATS",
		Flags: []cli.Flag{
			&cli.IntSliceFlag{Name: "league", Usage: "league id to watch (repeatable)", Value: cli.NewIntSlice(rt.cfg.WatchLeagues...)},
			&cli.DurationFlag{Name: "interval", Value: rt.cfg.WatchInterval},
			&cli.StringFlag{Name: "nats-url", Value: rt.cfg.NATSURL, EnvVars: []string{"NATS_URL"}},
			&cli.IntFlag{Name: "metrics-port", Value: rt.cfg.MetricsPort},
		},
		Action: func(c *cli.Context) error {
			leagues := c.IntSlice("league")
			if len(leagues) == 0 {
				return cli.Exit("at least one --league is required", 1)
			}
			if !rt.client.IsAuthenticated() {
				return exitErr(leagueapi.ErrAuthenticationRequired)
			}
			return rt.watch(c.Context, leagues, c.Duration("interval"), c.String("nats-url"), c.Int("metrics-port"))
		},
	}
}

func (rt *runtime) watch(ctx context.Context, leagues []int, interval time.Duration, natsURL string, port int) error {
	log := rt.log.Named("watch")

	nc, err := nats.Connect(natsURL, nats.Name(rt.cfg.ServiceName))
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to connect to NATS: %v", err), 1)
	}
	pub, err := publisher.New(nc, rt.cfg.StandingsSubject, rt.cfg.ServiceName)
	if err != nil {
		nc.Close()
		return cli.Exit(fmt.Sprintf("failed to init publisher: %v", err), 1)
	}
	defer pub.Close()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	api.RegisterRoutes(app, api.Deps{NATS: nc, Store: rt.health, Session: rt.client})
	go func() {
		log.Info("http.listening", zap.Int("port", port))
		if err := app.Listen(fmt.Sprintf(":%d", port)); err != nil {
			log.Error("fiber.listen_failed", zap.Error(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Warn("fiber.shutdown_failed", zap.Error(err))
		}
	}()

	w := watch.NewStandingsWatcher(log, rt.client, pub, leagues, interval)
	return exitErr(w.Start(ctx))
}
