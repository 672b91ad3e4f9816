package netutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return false }

func TestShouldRetry(t *testing.T) {
	cases := map[string]struct {
		err  error
		want bool
	}{
		"nil":          {nil, false},
		"plain":        {errors.New("bad request"), false},
		"dial":         {&net.OpError{Op: "dial", Err: errors.New("refused")}, true},
		"timeout":      {timeoutErr{}, true},
		"url wrapped":  {&url.Error{Op: "Post", URL: "https://api.telegram.org", Err: timeoutErr{}}, true},
		"url plain":    {&url.Error{Op: "Post", URL: "https://api.telegram.org", Err: errors.New("EOF")}, false},
		"ctx canceled": {context.Canceled, false},
		"ctx deadline": {fmt.Errorf("send: %w", context.DeadlineExceeded), false},
		"conn reset":   {&net.OpError{Op: "read", Err: syscall.ECONNRESET}, true},
		"short body":   {fmt.Errorf("decode: %w", io.ErrUnexpectedEOF), true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, ShouldRetry(tc.err))
		})
	}
}
