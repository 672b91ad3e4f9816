package router

import (
	"context"
	"log/slog"
	"time"

	"github.com/m3rciful/factbot/core/logger"
	tg "github.com/m3rciful/factbot/core/telegram"
	"github.com/m3rciful/factbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CommandRouteOptions configures how commands are wrapped and exposed.
type CommandRouteOptions struct {
	AdminID       int64
	OnAdminReject tele.HandlerFunc
}

// CommandRoutes prepares command handlers wrapped with shared middleware.
func CommandRoutes(reg *tg.Registry, opts CommandRouteOptions) []tg.Route {
	if reg == nil {
		return nil
	}

	adminOpts := middleware.AdminOptions{
		AdminID:  opts.AdminID,
		OnReject: opts.OnAdminReject,
	}

	routes := make([]tg.Route, 0, len(reg.Commands()))
	for cmd, def := range reg.Commands() {
		name := normalizeHandlerName(cmd)
		inner := def.Handler
		if def.AdminOnly {
			inner = middleware.AdminOnlyMiddleware(adminOpts)(inner)
		}
		h := func(c tele.Context) error {
			return handled(c, name, time.Now(), func() error {
				return inner(c)
			})
		}
		routes = append(routes, tg.Route{
			Endpoint: cmd,
			Handler:  middleware.LoggerMiddleware(middleware.RecoverMiddleware(h)),
		})
	}

	logger.Info(context.Background(), "tg.wire", "tg.wire",
		slog.String("status", "ok"),
		slog.Int("commands", len(reg.Commands())),
	)

	return routes
}
