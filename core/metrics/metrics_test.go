package metrics

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func scrape(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestRecorderExposesCounters(t *testing.T) {
	r := NewRecorder()
	r.SessionStarted()
	r.SessionStarted()
	r.FactServed("Science")
	r.FactServed("Science")
	r.FactServed("Nature")
	r.FactFallback()
	r.SessionEnded("stop")
	r.MessageSent("send.text", nil)
	r.MessageSent("send.text", errors.New("boom"))

	code, body := scrape(t, NewHandler(r.Registry()), "/metrics")
	require.Equal(t, http.StatusOK, code)
	for _, line := range []string{
		`factbot_facts_served_total{category="Science"} 2`,
		`factbot_facts_served_total{category="Nature"} 1`,
		`factbot_fact_fallbacks_total 1`,
		`factbot_sessions_started_total 2`,
		`factbot_sessions_ended_total{reason="stop"} 1`,
		`factbot_sessions_active 1`,
		`factbot_messages_sent_total{action="send.text",status="ok"} 1`,
		`factbot_messages_sent_total{action="send.text",status="fail"} 1`,
	} {
		assert.Contains(t, body, line)
	}

	assert.Equal(t, Totals{Served: 3, Fallbacks: 1, Started: 2}, r.Totals())
}

func TestHealthz(t *testing.T) {
	code, body := scrape(t, NewHandler(NewRecorder().Registry()), "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok\n", body)

	code, _ = scrape(t, NewHandler(NewRecorder().Registry()), "/nope")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestServerStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	srv := NewServer(ln.Addr().String(), NewRecorder().Registry())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	assert.NoError(t, <-done)
}
