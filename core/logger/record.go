package logger

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// record is the flattened field set of one log line.
type record struct {
	fields map[string]any
	asJSON bool
}

func newRecord(asJSON bool) *record {
	return &record{fields: make(map[string]any, 16), asJSON: asJSON}
}

// put flattens a into dotted keys under prefix. Group values recurse.
func (r *record) put(prefix string, a slog.Attr) {
	key := a.Key
	switch {
	case key == "":
		key = prefix
	case prefix != "":
		key = prefix + "." + key
	}
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		for _, child := range v.Group() {
			r.put(key, child)
		}
		return
	}
	if key == "" {
		return
	}
	if val, ok := plainValue(v); ok {
		if isDuration(v) {
			key = durationKey(key)
		}
		r.fields[key] = val
	}
}

func (r *record) setDefault(key string, val any) {
	if _, ok := r.fields[key]; !ok {
		r.fields[key] = val
	}
}

// str renders a field as text; missing fields read as "".
func (r *record) str(key string) string {
	switch v := r.fields[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// prune drops empty strings and nils.
func (r *record) prune() {
	for k, v := range r.fields {
		if v == nil || r.str(k) == "" {
			delete(r.fields, k)
		}
	}
}

// keys lists the configured columns first, then the rest alphabetically.
func (r *record) keys(order []string) []string {
	out := make([]string, 0, len(r.fields))
	listed := make(map[string]bool, len(order))
	for _, k := range order {
		if _, ok := r.fields[k]; ok && !listed[k] {
			out = append(out, k)
		}
		listed[k] = true
	}
	head := len(out)
	for k := range r.fields {
		if !listed[k] {
			out = append(out, k)
		}
	}
	slices.Sort(out[head:])
	return out
}

// encode renders the record as a newline-terminated JSON object or key=value line.
func (r *record) encode(order []string) ([]byte, error) {
	var b strings.Builder
	if r.asJSON {
		b.WriteByte('{')
	}
	for i, k := range r.keys(order) {
		if r.asJSON {
			data, err := json.Marshal(r.fields[k])
			if err != nil {
				return nil, fmt.Errorf("logger: encode %q: %w", k, err)
			}
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(k))
			b.WriteByte(':')
			b.Write(data)
			continue
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(kvValue(r.fields[k]))
	}
	if r.asJSON {
		b.WriteByte('}')
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// plainValue converts v into a JSON-friendly Go value. Durations become
// whole milliseconds and times RFC 3339 strings.
func plainValue(v slog.Value) (any, bool) {
	switch v.Kind() {
	case slog.KindString:
		return strings.TrimSpace(v.String()), true
	case slog.KindBool:
		return v.Bool(), true
	case slog.KindInt64:
		return v.Int64(), true
	case slog.KindUint64:
		if u := v.Uint64(); u <= math.MaxInt64 {
			return int64(u), true
		}
		return v.Uint64(), true
	case slog.KindFloat64:
		return v.Float64(), true
	case slog.KindDuration:
		return RoundMS(v.Duration()).Milliseconds(), true
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339Nano), true
	}
	switch x := v.Any().(type) {
	case nil:
		return nil, false
	case error:
		return x.Error(), true
	case string:
		return strings.TrimSpace(x), true
	case time.Duration:
		return RoundMS(x).Milliseconds(), true
	case fmt.Stringer:
		return x.String(), true
	default:
		return fmt.Sprint(x), true
	}
}

func isDuration(v slog.Value) bool {
	if v.Kind() == slog.KindDuration {
		return true
	}
	if v.Kind() != slog.KindAny {
		return false
	}
	_, ok := v.Any().(time.Duration)
	return ok
}

// durationKey makes the unit explicit: "took" becomes "took_ms".
func durationKey(key string) string {
	if key == "duration" {
		return "duration_ms"
	}
	if strings.HasSuffix(key, "_ms") {
		return key
	}
	return key + "_ms"
}

func kvValue(v any) string {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		s = fmt.Sprint(x)
	}
	if strings.IndexFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) >= 0 {
		return strconv.Quote(s)
	}
	return s
}
