package router

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/factbot/core/telegram/teletest"
)

type fakeFSM struct {
	active  bool
	handled int
	err     error
}

func (f *fakeFSM) InProgress(tele.Context) bool { return f.active }

func (f *fakeFSM) ManagerHandler(c tele.Context) error {
	f.handled++
	if f.err != nil {
		return f.err
	}
	return c.Send("fsm")
}

func TestTextHandlerPrefersActiveConversation(t *testing.T) {
	fsm := &fakeFSM{active: true}
	c := teletest.NewText(1, 10, 10, "Science")

	require.NoError(t, TextHandler(fsm)(c))
	assert.Equal(t, 1, fsm.handled)
	assert.Equal(t, "fsm", c.Messages()[0].Text())
}

func TestTextHandlerIgnoresTextOutsideConversation(t *testing.T) {
	fsm := &fakeFSM{}
	for i, text := range []string{"hello", "Science", "Stop", "cancel"} {
		c := teletest.NewText(i+2, 10, 10, text)
		require.NoError(t, TextHandler(fsm)(c))
		assert.Empty(t, c.Messages(), text)
	}
	assert.Zero(t, fsm.handled)

	c := teletest.NewText(9, 10, 10, "hello")
	require.NoError(t, TextHandler(nil)(c))
	assert.Empty(t, c.Messages())
}

func TestTextHandlerReturnsHandlerErrors(t *testing.T) {
	boom := errors.New("boom")
	fsm := &fakeFSM{active: true, err: boom}
	err := TextHandler(fsm)(teletest.NewText(10, 10, 10, "History"))
	assert.ErrorIs(t, err, boom)
}

type codedErr struct{}

func (codedErr) Error() string { return "coded" }
func (codedErr) Code() string  { return "send failed" }

func TestDeriveErrorCode(t *testing.T) {
	assert.Equal(t, "SEND_FAILED", deriveErrorCode(codedErr{}))
	assert.Equal(t, "ERRORSTRING", deriveErrorCode(errors.New("x")))
	assert.Equal(t, "", deriveErrorCode(nil))
	assert.Equal(t, "start", normalizeHandlerName("/Start"))
	assert.Equal(t, "unknown", normalizeHandlerName(" "))
}
