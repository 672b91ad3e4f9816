package sender

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/m3rciful/factbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type results struct {
	mu   sync.Mutex
	errs []error
}

func (r *results) record(_ string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *results) snapshot() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}

func TestDispatcherRunsJobs(t *testing.T) {
	res := &results{}
	d := NewDispatcher(Options{Workers: 2, OnResult: res.record})

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, d.Enqueue(context.Background(), "send.text", "sendMessage", func() error {
			ran.Add(1)
			return nil
		}))
	}
	d.Close()

	assert.Equal(t, int32(5), ran.Load())
	assert.Len(t, res.snapshot(), 5)
	assert.Zero(t, d.ErrorCount())
}

func TestDispatcherRetriesTransientErrors(t *testing.T) {
	res := &results{}
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 2, RetryBackoff: time.Millisecond, OnResult: res.record})

	var calls atomic.Int32
	dialErr := &net.OpError{Op: "dial", Err: errors.New("connection refused")}
	require.NoError(t, d.Enqueue(context.Background(), "send.text", "sendMessage", func() error {
		if calls.Add(1) < 3 {
			return dialErr
		}
		return nil
	}))
	d.Close()

	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []error{nil}, res.snapshot())
	assert.Zero(t, d.ErrorCount())
}

func TestDispatcherCountsPermanentFailures(t *testing.T) {
	res := &results{}
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 3, RetryBackoff: time.Millisecond, OnResult: res.record})

	boom := errors.New("bad request")
	var calls atomic.Int32
	require.NoError(t, d.Enqueue(context.Background(), "send.text", "sendMessage", func() error {
		calls.Add(1)
		return boom
	}))
	d.Close()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, uint64(1), d.ErrorCount())
	got := res.snapshot()
	require.Len(t, got, 1)
	assert.ErrorIs(t, got[0], boom)
}

func TestDispatcherQueueLimits(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, QueueSize: 1})

	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, d.Enqueue(context.Background(), "block", "", func() error {
		close(started)
		<-release
		return nil
	}))
	<-started

	require.NoError(t, d.Enqueue(context.Background(), "queued", "", func() error { return nil }))
	assert.ErrorIs(t, d.Enqueue(context.Background(), "overflow", "", func() error { return nil }), ErrQueueFull)

	close(release)
	d.Close()
	assert.ErrorIs(t, d.Enqueue(context.Background(), "late", "", func() error { return nil }), ErrQueueClosed)
	assert.Error(t, d.Enqueue(context.Background(), "nil", "", nil))
}

func TestDispatcherKeepsChatOrder(t *testing.T) {
	d := NewDispatcher(Options{Workers: 4})

	var (
		mu    sync.Mutex
		order []string
	)
	record := func(action string) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, action)
	}
	ctx := logger.WithUpdateMeta(context.Background(), 1, 42, 42)
	require.NoError(t, d.Enqueue(ctx, "fact", "sendMessage", func() error {
		time.Sleep(30 * time.Millisecond)
		record("fact")
		return nil
	}))
	require.NoError(t, d.Enqueue(ctx, "farewell", "sendMessage", func() error {
		record("farewell")
		return nil
	}))
	d.Close()

	assert.Equal(t, []string{"fact", "farewell"}, order)
}

func TestDispatcherShardsByChat(t *testing.T) {
	d := NewDispatcher(Options{Workers: 3})
	defer d.Close()

	group := logger.WithUpdateMeta(context.Background(), 1, 7, -100123)
	assert.Equal(t, d.shard(group), d.shard(group))
	assert.Equal(t, d.shards[100123%3], d.shard(group))

	first, second := d.shard(context.Background()), d.shard(context.Background())
	assert.NotEqual(t, first, second)
}

func TestSanitizeErrorMessageRedactsToken(t *testing.T) {
	err := errors.New(`Post "https://api.telegram.org/bot123456:AA-bb_CC/sendMessage": EOF`)
	assert.Equal(t, `Post "https://api.telegram.org/bot<redacted>/sendMessage": EOF`, sanitizeErrorMessage(err))
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, "timeout", classifyError(context.DeadlineExceeded))
	assert.Equal(t, "dial", classifyError(&net.OpError{Op: "dial", Err: errors.New("refused")}))
	assert.Equal(t, "http_4xx", classifyError(errors.New("telegram: chat not found (400)")))
	assert.Equal(t, "unknown", classifyError(errors.New("boom")))
}

func TestNextDelayHonoursFloodWait(t *testing.T) {
	d := &Dispatcher{opts: Options{MaxRetries: 2, RetryBackoff: 10 * time.Millisecond}}

	delay, ok := d.nextDelay(tele.FloodError{RetryAfter: 3}, 1)
	assert.True(t, ok)
	assert.Equal(t, 3*time.Second, delay)

	delay, ok = d.nextDelay(&net.OpError{Op: "dial", Err: errors.New("refused")}, 2)
	assert.True(t, ok)
	assert.Equal(t, 20*time.Millisecond, delay)

	_, ok = d.nextDelay(&net.OpError{Op: "dial", Err: errors.New("refused")}, 3)
	assert.False(t, ok)

	_, ok = d.nextDelay(errors.New("telegram: message is too long (400)"), 1)
	assert.False(t, ok)
}

func TestDispatcherStopsRetryingAtDeadline(t *testing.T) {
	res := &results{}
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 5, RetryBackoff: time.Hour, MaxDuration: 20 * time.Millisecond, OnResult: res.record})

	dialErr := &net.OpError{Op: "dial", Err: errors.New("connection refused")}
	require.NoError(t, d.Enqueue(context.Background(), "send.text", "sendMessage", func() error { return dialErr }))
	d.Close()

	got := res.snapshot()
	require.Len(t, got, 1)
	assert.ErrorIs(t, got[0], dialErr)
	assert.ErrorIs(t, got[0], context.DeadlineExceeded)
	assert.Equal(t, uint64(1), d.ErrorCount())
}
