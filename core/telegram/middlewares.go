package telegram

import (
	"time"

	coreconfig "github.com/m3rciful/factbot/core/config"
	"github.com/m3rciful/factbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// DefaultMiddlewares returns the global chain applied to every update, outermost first.
// Rate limiting is included only when an interval is configured. Updates from
// one chat are serialized so replies leave in the order the chat sent them.
func DefaultMiddlewares(cfg *coreconfig.Config, onLimited func(tele.Context) error) []Middleware {
	mws := []Middleware{{Name: "recover", Use: middleware.RecoverMiddleware}}
	if cfg != nil && cfg.RateLimit.IntervalMS > 0 {
		mws = append(mws, Middleware{
			Name: "rate_limit",
			Use:  middleware.RateLimitMiddleware(RateLimitOptionsFrom(cfg.RateLimit, onLimited)),
		})
	}
	return append(mws,
		Middleware{Name: "serialize", Use: middleware.SerializeMiddleware()},
		Middleware{Name: "logger", Use: middleware.LoggerMiddleware},
		Middleware{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	)
}

// RateLimitOptionsFrom maps the rate_limit config section onto middleware options.
// Exclusions are expected to be normalized already.
func RateLimitOptionsFrom(cfg coreconfig.RateLimitConfig, onLimited func(tele.Context) error) middleware.RateLimitOptions {
	exclude := make(map[string]struct{}, len(cfg.ExcludeUpdates))
	for _, kind := range cfg.ExcludeUpdates {
		exclude[kind] = struct{}{}
	}
	return middleware.RateLimitOptions{
		Interval:  time.Duration(cfg.IntervalMS) * time.Millisecond,
		Exclude:   exclude,
		OnLimited: onLimited,
	}
}
