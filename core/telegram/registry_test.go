package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/m3rciful/factbot/core/config"
	"github.com/m3rciful/factbot/core/telegram/commands"
)

func noop(tele.Context) error { return nil }

func TestRegistryListsVisibleCommands(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Start"})
	reg.RegisterCommand("/done", commands.Command{Handler: noop, Description: "Finish"})
	reg.RegisterCommand("/stats", commands.Command{Handler: noop, Description: "Stats", AdminOnly: true, Hidden: true})

	assert.Equal(t, []tele.Command{
		{Text: "done", Description: "Finish"},
		{Text: "start", Description: "Start"},
	}, reg.ListCommands(true))
	assert.Len(t, reg.ListCommands(false), 3)
}

func TestRegistryRejectsInvalidCommands(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("start", commands.Command{Handler: noop, Description: "no slash"})
	reg.RegisterCommand("/empty", commands.Command{Handler: noop})
	reg.RegisterCommand("/nil", commands.Command{Description: "nil handler"})
	assert.Empty(t, reg.Commands())

	reg.RegisterCommand("/cancel", commands.Command{Handler: noop, Description: "Cancel"})
	reg.RegisterCommand("/cancel", commands.Command{Handler: noop, Description: "Again"})
	assert.Equal(t, "Cancel", reg.Commands()["/cancel"].Description)
}

func TestBuildPoller(t *testing.T) {
	lp, ok := BuildPoller(PollerOptions{}).(*tele.LongPoller)
	require.True(t, ok)
	assert.Equal(t, 10, int(lp.Timeout.Seconds()))
	assert.Equal(t, []string{"message"}, lp.AllowedUpdates)

	wh, ok := BuildPoller(PollerOptions{
		RunMode: "Webhook",
		Webhook: WebhookOptions{Listen: "0.0.0.0", Port: 8443, URL: "https://example.org/hook"},
	}).(*tele.Webhook)
	require.True(t, ok)
	assert.Equal(t, "0.0.0.0:8443", wh.Listen)
	assert.Equal(t, "https://example.org/hook", wh.Endpoint.PublicURL)

	cfg := &coreconfig.Config{Telegram: coreconfig.TelegramConfig{LongPollTimeoutSeconds: 25}}
	lp, ok = BuildPoller(PollerOptionsFrom(cfg)).(*tele.LongPoller)
	require.True(t, ok)
	assert.Equal(t, 25*time.Second, lp.Timeout)
}
