package telegram

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/m3rciful/factbot/core/logger"
	"github.com/m3rciful/factbot/core/telegram/netutil"
)

const (
	defaultClientTimeout = 30 * time.Second
	defaultRetryAttempts = 3
	defaultRetryBackoff  = 2 * time.Second

	// Headroom added on top of the long poll timeout so getUpdates is never cut short.
	pollTimeoutHeadroom = 10 * time.Second
)

// HTTPClientOptions tunes the Bot API HTTP client. Zero values select defaults.
type HTTPClientOptions struct {
	Timeout     time.Duration
	PollTimeout time.Duration
	Retries     int
	Backoff     time.Duration
}

func (o HTTPClientOptions) withDefaults() HTTPClientOptions {
	if o.Timeout <= 0 {
		o.Timeout = defaultClientTimeout
	}
	if floor := o.PollTimeout + pollTimeoutHeadroom; o.PollTimeout > 0 && o.Timeout < floor {
		o.Timeout = floor
	}
	if o.Retries < 0 {
		o.Retries = 0
	} else if o.Retries == 0 {
		o.Retries = defaultRetryAttempts
	}
	if o.Backoff <= 0 {
		o.Backoff = defaultRetryBackoff
	}
	return o
}

// BuildHTTPClient returns an HTTP client for Bot API calls that retries transient dial failures.
func BuildHTTPClient(opts HTTPClientOptions) *http.Client {
	opts = opts.withDefaults()
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	return &http.Client{
		Timeout: opts.Timeout,
		Transport: &retryTransport{
			base:    transport,
			retries: opts.Retries,
			backoff: opts.Backoff,
		},
	}
}

type retryTransport struct {
	base    http.RoundTripper
	retries int
	backoff time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	for attempt := 1; err != nil && attempt <= t.retries && netutil.ShouldRetry(err); attempt++ {
		next, rewindErr := rewind(req)
		if rewindErr != nil {
			return nil, err
		}
		delay := t.backoff * time.Duration(attempt)
		logger.Debug(req.Context(), "tg", "http.retry",
			slog.String("status", "retry"),
			slog.Int("attempts", attempt),
			slog.Int64("backoff_ms", delay.Milliseconds()),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		if !sleepCtx(req, delay) {
			return nil, req.Context().Err()
		}
		resp, err = base.RoundTrip(next)
	}
	return resp, err
}

// rewind clones req with a fresh body; requests with a one-shot body cannot be replayed.
func rewind(req *http.Request) (*http.Request, error) {
	next := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return next, nil
	}
	if req.GetBody == nil {
		return nil, http.ErrBodyReadAfterClose
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	next.Body = body
	return next, nil
}

func sleepCtx(req *http.Request, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-req.Context().Done():
		return false
	case <-timer.C:
		return true
	}
}
