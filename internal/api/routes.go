package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthChecker is implemented by dependencies that can report readiness,
// e.g. the Redis and Postgres token stores.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Session reports whether the API client still holds a usable token.
type Session interface {
	IsAuthenticated() bool
}

// Deps are the dependencies probed by /health. Nil members are skipped.
type Deps struct {
	NATS    *nats.Conn
	Store   HealthChecker
	Session Session
}

// RegisterRoutes mounts the operational endpoints served while watching.
func RegisterRoutes(app *fiber.App, deps Deps) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/health", func(c *fiber.Ctx) error {
		checks := map[string]string{}
		status := "ok"
		code := fiber.StatusOK
		degrade := func(name, reason string) {
			checks[name] = reason
			status = "degraded"
			code = fiber.StatusServiceUnavailable
		}

		if deps.NATS != nil {
			checks["nats"] = "ok"
			if !deps.NATS.IsConnected() {
				degrade("nats", "disconnected")
			} else if err := deps.NATS.FlushTimeout(1 * time.Second); err != nil {
				degrade("nats", err.Error())
			}
		}

		if deps.Store != nil {
			checks["store"] = "ok"
			healthCtx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := deps.Store.HealthCheck(healthCtx); err != nil {
				degrade("store", err.Error())
			}
		}

		if deps.Session != nil {
			checks["session"] = "ok"
			if !deps.Session.IsAuthenticated() {
				degrade("session", "logged out")
			}
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	})
}
