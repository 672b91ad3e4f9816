// Package sender runs outbound Bot API calls on a bounded worker pool with retries.
package sender

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m3rciful/factbot/core/logger"
	"github.com/m3rciful/factbot/core/telegram/netutil"

	tele "gopkg.in/telebot.v4"
)

var (
	// ErrQueueClosed is returned by Enqueue after Close.
	ErrQueueClosed = errors.New("telegram sender: queue closed")
	// ErrQueueFull is returned by Enqueue when the queue has no free slot.
	ErrQueueFull = errors.New("telegram sender: queue full")

	tokenRe = regexp.MustCompile(`bot[0-9]+:[A-Za-z0-9_-]+`)
)

const component = "tg.sender"

// Options controls the behaviour of the outbound dispatcher.
type Options struct {
	QueueSize    int
	Workers      int
	MaxRetries   int
	RetryBackoff time.Duration
	// MaxDuration bounds the time spent on a single job, retries included.
	MaxDuration time.Duration
	// OnResult, when set, is called once per job after its final attempt.
	OnResult func(action string, err error)
}

func (o Options) withDefaults() Options {
	if o.QueueSize <= 0 {
		o.QueueSize = 256
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	o.MaxRetries = max(o.MaxRetries, 0)
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = 2 * time.Second
	}
	if o.MaxDuration <= 0 {
		o.MaxDuration = 12 * time.Second
	}
	return o
}

type job struct {
	ctx      context.Context
	action   string
	endpoint string
	run      func() error
}

// Dispatcher executes outbound Telegram calls asynchronously with retries.
// Each worker drains its own shard; jobs for one chat always land on the same
// shard and therefore run in the order they were enqueued.
type Dispatcher struct {
	opts   Options
	shards []chan job
	next   atomic.Uint64
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
	errs   atomic.Uint64
}

// NewDispatcher starts opts.Workers workers. Zero options select defaults.
// QueueSize is split evenly across workers.
func NewDispatcher(opts Options) *Dispatcher {
	opts = opts.withDefaults()
	perShard := (opts.QueueSize + opts.Workers - 1) / opts.Workers
	d := &Dispatcher{
		opts:   opts,
		shards: make([]chan job, opts.Workers),
	}
	d.wg.Add(opts.Workers)
	for i := range d.shards {
		jobs := make(chan job, perShard)
		d.shards[i] = jobs
		go func() {
			defer d.wg.Done()
			for j := range jobs {
				d.handle(j)
			}
		}()
	}
	return d
}

// shard picks the queue for a job. Jobs without a chat are spread round-robin.
func (d *Dispatcher) shard(ctx context.Context) chan job {
	n := uint64(len(d.shards))
	chatID := logger.ChatIDFrom(ctx)
	if chatID == 0 {
		return d.shards[(d.next.Add(1)-1)%n]
	}
	if chatID < 0 {
		chatID = -chatID
	}
	return d.shards[uint64(chatID)%n]
}

// Enqueue schedules run without blocking. run may be called more than once.
// The chat id stored in ctx by logger.WithUpdateMeta selects the shard.
func (d *Dispatcher) Enqueue(ctx context.Context, action, endpoint string, run func() error) error {
	if run == nil {
		return errors.New("telegram sender: nil run function")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrQueueClosed
	}
	select {
	case d.shard(ctx) <- job{ctx: ctx, action: action, endpoint: endpoint, run: run}:
		return nil
	default:
		return ErrQueueFull
	}
}

// ErrorCount returns the number of jobs that ended in failure.
func (d *Dispatcher) ErrorCount() uint64 {
	return d.errs.Load()
}

// Close rejects new jobs and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, jobs := range d.shards {
			close(jobs)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) handle(j job) {
	ctx, cancel := context.WithTimeout(j.ctx, d.opts.MaxDuration)
	defer cancel()

	start := time.Now()
	attempts, err := d.attempt(ctx, j)
	elapsed := logger.RoundMS(time.Since(start))

	attrs := append(jobAttrs(j),
		slog.Int("attempts", attempts),
		slog.Int64("duration_ms", elapsed.Milliseconds()),
	)
	if err != nil {
		d.errs.Add(1)
		logger.Error(j.ctx, component, "send.fail", append(attrs,
			slog.String("status", "fail"),
			slog.String("err", sanitizeErrorMessage(err)),
			slog.String("err_code", classifyError(err)),
		)...)
	} else {
		logger.Debug(j.ctx, component, "send.ok", append(attrs, slog.String("status", "ok"))...)
	}
	if d.opts.OnResult != nil {
		d.opts.OnResult(j.action, err)
	}
}

// attempt runs j until it succeeds, fails permanently or runs out of retries or time.
func (d *Dispatcher) attempt(ctx context.Context, j job) (int, error) {
	for n := 1; ; n++ {
		err := j.run()
		if err == nil {
			return n, nil
		}
		delay, ok := d.nextDelay(err, n)
		if !ok {
			return n, err
		}
		logger.Debug(j.ctx, component, "send.retry", append(jobAttrs(j),
			slog.String("status", "retry"),
			slog.Int("attempts", n),
			slog.Int64("backoff_ms", delay.Milliseconds()),
		)...)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return n, errors.Join(err, ctx.Err())
		case <-timer.C:
		}
	}
}

// nextDelay decides whether the n-th failure is retried and after how long.
// Flood control replies carry their own wait time.
func (d *Dispatcher) nextDelay(err error, n int) (time.Duration, bool) {
	if n > d.opts.MaxRetries {
		return 0, false
	}
	if wait, ok := retryAfter(err); ok {
		return wait, true
	}
	if !netutil.ShouldRetry(err) {
		return 0, false
	}
	return d.opts.RetryBackoff * time.Duration(n), true
}

func retryAfter(err error) (time.Duration, bool) {
	var flood tele.FloodError
	if errors.As(err, &flood) && flood.RetryAfter > 0 {
		return time.Duration(flood.RetryAfter) * time.Second, true
	}
	return 0, false
}

func jobAttrs(j job) []slog.Attr {
	attrs := []slog.Attr{slog.String("op", j.action)}
	if j.endpoint != "" {
		attrs = append(attrs, slog.String("endpoint", j.endpoint))
	}
	return attrs
}

// classifyError buckets err into a short code for the err_code log field.
func classifyError(err error) string {
	var (
		dnsErr   *net.DNSError
		opErr    *net.OpError
		netErr   net.Error
		alertErr tls.AlertError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &dnsErr):
		if dnsErr.IsTimeout {
			return "timeout"
		}
		return "dns"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case errors.As(err, &opErr) && opErr.Op == "dial":
		return "dial"
	case errors.As(err, &alertErr):
		return "tls"
	}
	switch status := httpStatusFromError(err); {
	case status == http.StatusTooManyRequests:
		return "flood"
	case status >= 500:
		return "http_5xx"
	case status >= 400:
		return "http_4xx"
	}
	return "unknown"
}

// sanitizeErrorMessage strips bot tokens that net/http embeds in request URLs.
func sanitizeErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return logger.SanitizeLimit(tokenRe.ReplaceAllString(err.Error(), "bot<redacted>"), 256)
}

func httpStatusFromError(err error) int {
	var (
		apiErr   *tele.Error
		floodErr tele.FloodError
		groupErr tele.GroupError
	)
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Code
	case errors.As(err, &floodErr):
		return http.StatusTooManyRequests
	case errors.As(err, &groupErr):
		return http.StatusBadRequest
	}
	// Bot API errors render as "telegram: <description> (<code>)".
	msg := err.Error()
	open, end := strings.LastIndex(msg, "("), strings.LastIndex(msg, ")")
	if open < 0 || end <= open+1 {
		return 0
	}
	code, convErr := strconv.Atoi(strings.TrimSpace(msg[open+1 : end]))
	if convErr != nil {
		return 0
	}
	return code
}
