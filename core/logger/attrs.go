package logger

import (
	"strings"
	"time"
)

// Status maps err onto the "status" field.
func Status(err error) string {
	if err == nil {
		return "ok"
	}
	return "fail"
}

// Took measures the time since start at log precision.
func Took(start time.Time) time.Duration {
	return RoundMS(time.Since(start))
}

// RoundMS rounds d to whole milliseconds. Negative spans clamp to zero.
func RoundMS(d time.Duration) time.Duration {
	return max(d, 0).Round(time.Millisecond)
}

// SummarizeStrings previews values for a single log field: the first limit
// entries joined by ", ", plus whether anything was left out.
func SummarizeStrings(values []string, limit int) (preview string, truncated bool) {
	limit = max(limit, 0)
	if len(values) > limit {
		return strings.Join(values[:limit], ", "), true
	}
	return strings.Join(values, ", "), false
}
