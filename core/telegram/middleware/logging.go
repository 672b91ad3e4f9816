package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/factbot/core/logger"
	tghelpers "github.com/m3rciful/factbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// seenUpdates remembers update IDs for a short window so nested LoggerMiddleware
// wrappers log each update once.
type seenUpdates struct {
	mu        sync.Mutex
	ttl       time.Duration
	seen      map[int]time.Time
	lastSweep time.Time
}

var received = &seenUpdates{ttl: 10 * time.Second, seen: make(map[int]time.Time)}

// firstSight records id and reports whether it had not been seen within ttl.
func (s *seenUpdates) firstSight(id int, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Sub(s.lastSweep) > s.ttl {
		for k, at := range s.seen {
			if now.Sub(at) > s.ttl {
				delete(s.seen, k)
			}
		}
		s.lastSweep = now
	}
	if at, ok := s.seen[id]; ok && now.Sub(at) <= s.ttl {
		return false
	}
	s.seen[id] = now
	return true
}

// LoggerMiddleware logs a single receipt line per update and sets rid.
// It deduplicates by update_id since the middleware may wrap several branches.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		user := c.Sender()
		chat := c.Chat()

		chatID, userID := int64(0), int64(0)
		if chat != nil {
			chatID = chat.ID
		}
		if user != nil {
			userID = user.ID
		}
		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set("rid", rid)
		c.Set("update_start", time.Now())

		ctx := logger.WithRID(logger.Background(), rid)
		ctx = logger.WithUpdateMeta(ctx, upd.ID, userID, chatID)
		ctx = logger.WithLogger(ctx, logger.Component("tg"))
		tghelpers.StoreContext(c, ctx)

		if logger.ShouldSampleDebug() && received.firstSight(upd.ID, time.Now()) {
			attrs := []slog.Attr{
				slog.String("status", "ok"),
				slog.String("rid", rid),
				slog.Int("update_id", upd.ID),
				slog.String("kind", UpdateKind(upd)),
			}
			if chatID != 0 {
				attrs = append(attrs,
					slog.Int64("chat_id", chatID),
					slog.String("chat_type", string(chat.Type)),
				)
			}
			if userID != 0 {
				attrs = append(attrs, slog.Int64("user_id", userID))
				if user.Username != "" {
					attrs = append(attrs, slog.String("username", logger.SanitizeLimit(user.Username, 64)))
				}
				if user.LanguageCode != "" {
					attrs = append(attrs, slog.String("lang", user.LanguageCode))
				}
			}
			if t := c.Text(); t != "" {
				attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(t, 256)))
			}
			logger.LogEvent(ctx, logger.Component("tg"), slog.LevelDebug, "update.received", attrs...)
		}

		return next(c)
	}
}
