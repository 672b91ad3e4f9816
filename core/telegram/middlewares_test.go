package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	coreconfig "github.com/m3rciful/factbot/core/config"
)

func middlewareNames(mws []Middleware) []string {
	names := make([]string, 0, len(mws))
	for _, mw := range mws {
		names = append(names, mw.Name)
	}
	return names
}

func TestDefaultMiddlewaresRateLimitIsOptional(t *testing.T) {
	assert.Equal(t, []string{"recover", "serialize", "logger", "metrics"}, middlewareNames(DefaultMiddlewares(&coreconfig.Config{}, nil)))

	cfg := &coreconfig.Config{RateLimit: coreconfig.RateLimitConfig{IntervalMS: 300}}
	assert.Equal(t, []string{"recover", "rate_limit", "serialize", "logger", "metrics"}, middlewareNames(DefaultMiddlewares(cfg, nil)))
}

func TestDispatcherOptionsFrom(t *testing.T) {
	opts := DispatcherOptionsFrom(coreconfig.SenderConfig{
		QueueSize:      32,
		Workers:        3,
		MaxRetries:     1,
		RetryBackoffMS: 250,
		MaxDurationMS:  4000,
	})
	assert.Equal(t, 32, opts.QueueSize)
	assert.Equal(t, 3, opts.Workers)
	assert.Equal(t, 250*time.Millisecond, opts.RetryBackoff)
	assert.Equal(t, 4*time.Second, opts.MaxDuration)
}

func TestRateLimitOptionsFrom(t *testing.T) {
	opts := RateLimitOptionsFrom(coreconfig.RateLimitConfig{
		IntervalMS:     750,
		ExcludeUpdates: []string{"message"},
	}, nil)
	assert.Equal(t, 750*time.Millisecond, opts.Interval)
	assert.Contains(t, opts.Exclude, "message")
	assert.NotContains(t, opts.Exclude, "callback")
	assert.Nil(t, opts.OnLimited)
}
