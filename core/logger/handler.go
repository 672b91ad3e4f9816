package logger

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

type logFormat string

const (
	formatJSON logFormat = "json"
	formatKV   logFormat = "kv"

	timeFormatMillis = "2006-01-02T15:04:05.000Z07:00"
)

var errNoWriter = errors.New("logger: writer not initialized")

type handlerConfig struct {
	level    slog.Leveler
	writer   *asyncWriter
	format   logFormat
	keyOrder []string
}

// structuredHandler renders every record as one line with a fixed leading
// column order. Attributes bound through WithAttrs are kept unresolved and
// replayed per record so WithGroup prefixes stay correct.
type structuredHandler struct {
	cfg    handlerConfig
	attrs  []slog.Attr
	groups []string
}

func newStructuredHandler(cfg handlerConfig) *structuredHandler {
	if cfg.level == nil {
		cfg.level = slog.LevelInfo
	}
	if cfg.keyOrder == nil {
		cfg.keyOrder = append([]string(nil), defaultKeyOrder...)
	}
	return &structuredHandler{cfg: cfg}
}

func (h *structuredHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.cfg.level.Level()
}

func (h *structuredHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg.writer == nil {
		return errNoWriter
	}
	rec := newRecord(h.cfg.format == formatJSON)
	rec.stamp(r.Time, r.Level)

	prefix := strings.Join(h.groups, ".")
	for _, a := range h.attrs {
		rec.put(prefix, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		rec.put(prefix, a)
		return true
	})
	rec.fromContext(ctx)
	rec.finish(r.Message)

	line, err := rec.encode(h.cfg.keyOrder)
	if err != nil {
		return err
	}
	return h.cfg.writer.Write(line)
}

func (h *structuredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &next
}

func (h *structuredHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.groups = append(append([]string(nil), h.groups...), name)
	return &next
}

func (r *record) stamp(t time.Time, level slog.Level) {
	t = t.UTC()
	r.fields["ts"] = t.Truncate(time.Millisecond).Format(timeFormatMillis)
	r.fields["level"] = level.String()
	if r.asJSON {
		r.fields["ts_unix_nano"] = t.UnixNano()
	}
}

// fromContext fills request metadata the record did not set explicitly.
func (r *record) fromContext(ctx context.Context) {
	if ctx == nil {
		return
	}
	if rid := RIDFrom(ctx); rid != "" {
		r.setDefault("rid", rid)
	}
	if id := UpdateIDFrom(ctx); id != 0 {
		r.setDefault("update_id", id)
	}
	if id := UserIDFrom(ctx); id != 0 {
		r.setDefault("user_id", id)
	}
	if id := ChatIDFrom(ctx); id != 0 {
		r.setDefault("chat_id", id)
	}
	if name := HandlerFrom(ctx); name != "" {
		r.setDefault("handler", name)
	}
}

// finish applies defaults and canonical spellings before encoding.
func (r *record) finish(msg string) {
	if rid := r.str("rid"); rid != "" {
		if compact := CompactRID(rid); compact != "" && compact != rid {
			if r.asJSON {
				r.setDefault("rid_full", rid)
			}
			r.fields["rid"] = compact
		}
	}
	if r.str("event") == "" {
		r.fields["event"] = cmp.Or(msg, "unknown")
	}
	if r.str("component") == "" {
		r.fields["component"] = "app"
	}

	r.fields["level"] = normalizeLevel(r.str("level"))
	if s := r.str("status"); s != "" {
		r.fields["status"], _ = normalizeStatus(s)
	}
	if o := r.str("outcome"); o != "" {
		if canonical, ok := normalizeOutcome(o); ok {
			r.fields["outcome"] = canonical
		} else {
			delete(r.fields, "outcome")
		}
	}
	r.prune()
}
