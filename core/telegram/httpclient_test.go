package telegram

import (
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedTransport struct {
	errs  []error
	calls int
	body  []string
}

func (s *scriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.calls++
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		s.body = append(s.body, string(data))
	}
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return nil, err
	}
	return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: req}, nil
}

func TestHTTPClientOptionsDefaults(t *testing.T) {
	opts := HTTPClientOptions{}.withDefaults()
	assert.Equal(t, defaultClientTimeout, opts.Timeout)
	assert.Equal(t, defaultRetryAttempts, opts.Retries)

	opts = HTTPClientOptions{PollTimeout: 60 * time.Second}.withDefaults()
	assert.Equal(t, 70*time.Second, opts.Timeout)

	opts = HTTPClientOptions{Retries: -1}.withDefaults()
	assert.Zero(t, opts.Retries)
}

func TestRetryTransportReplaysDialFailures(t *testing.T) {
	dial := &net.OpError{Op: "dial", Err: errors.New("connection refused")}
	base := &scriptedTransport{errs: []error{dial, dial}}
	rt := &retryTransport{base: base, retries: 3, backoff: time.Millisecond}

	req, err := http.NewRequest(http.MethodPost, "https://api.telegram.org/botX/sendMessage", strings.NewReader(`{"text":"hi"}`))
	require.NoError(t, err)

	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, base.calls)
	assert.Equal(t, []string{`{"text":"hi"}`, `{"text":"hi"}`, `{"text":"hi"}`}, base.body)
}

func TestRetryTransportStopsOnPermanentError(t *testing.T) {
	base := &scriptedTransport{errs: []error{errors.New("tls: bad certificate")}}
	rt := &retryTransport{base: base, retries: 3, backoff: time.Millisecond}

	req, err := http.NewRequest(http.MethodGet, "https://api.telegram.org/botX/getMe", nil)
	require.NoError(t, err)

	_, err = rt.RoundTrip(req)
	assert.EqualError(t, err, "tls: bad certificate")
	assert.Equal(t, 1, base.calls)
}

func TestRetryTransportGivesUpAfterRetries(t *testing.T) {
	dial := &net.OpError{Op: "dial", Err: errors.New("connection refused")}
	base := &scriptedTransport{errs: []error{dial, dial, dial}}
	rt := &retryTransport{base: base, retries: 2, backoff: time.Millisecond}

	req, err := http.NewRequest(http.MethodGet, "https://api.telegram.org/botX/getMe", nil)
	require.NoError(t, err)

	_, err = rt.RoundTrip(req)
	assert.ErrorIs(t, err, dial)
	assert.Equal(t, 3, base.calls)
}
