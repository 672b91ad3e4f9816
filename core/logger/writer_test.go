package logger

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenSink struct{}

func (brokenSink) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestAsyncWriterFansOutAndFlushes(t *testing.T) {
	var a, b bytes.Buffer
	w := newAsyncWriter([]io.Writer{&a, nil, &b}, 16)

	for _, line := range []string{"one\n", "two\n", "three\n"} {
		require.NoError(t, w.Write([]byte(line)))
	}
	require.NoError(t, w.Flush())
	assert.Equal(t, "one\ntwo\nthree\n", a.String())
	assert.Equal(t, a.String(), b.String())

	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Write([]byte("late\n")), errWriterClosed)
	assert.NoError(t, w.Flush())
	assert.NoError(t, w.Close())
}

func TestAsyncWriterReportsSinkError(t *testing.T) {
	w := newAsyncWriter([]io.Writer{brokenSink{}}, 1)
	require.NoError(t, w.Write([]byte("lost\n")))

	assert.EqualError(t, w.Close(), "disk full")
	assert.EqualError(t, w.Write([]byte("again\n")), "disk full")
}
