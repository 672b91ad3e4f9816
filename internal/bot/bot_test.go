package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/factbot/core/metrics"
	tg "github.com/m3rciful/factbot/core/telegram"
	"github.com/m3rciful/factbot/core/telegram/keyboard"
	"github.com/m3rciful/factbot/core/telegram/router"
	"github.com/m3rciful/factbot/core/telegram/teletest"
	"github.com/m3rciful/factbot/internal/conversation"
	"github.com/m3rciful/factbot/internal/facts"
)

const (
	chatID  int64 = 555
	adminID int64 = 42
)

type harness struct {
	bot  *Bot
	rec  *metrics.Recorder
	reg  *tg.Registry
	text tele.HandlerFunc
	seq  int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	rec := metrics.NewRecorder()
	ctrl := conversation.New(conversation.Deps{
		Facts:    facts.Builtin(),
		Rand:     facts.SeededRand(7),
		Observer: rec,
	})
	b := New(ctrl, rec, adminID)
	reg := tg.NewRegistry()
	b.Register(reg)
	return &harness{
		bot:  b,
		rec:  rec,
		reg:  reg,
		text: router.TextHandler(b.FSM()),
	}
}

// command dispatches a slash command the way telebot does, by exact endpoint.
func (h *harness) command(t *testing.T, from int64, text string) []teletest.Sent {
	t.Helper()
	h.seq++
	cmd, ok := h.reg.Commands()[text]
	require.True(t, ok, "command %q not registered", text)
	c := teletest.NewText(h.seq, from, from, text)
	require.NoError(t, cmd.Handler(c))
	return c.Messages()
}

func (h *harness) say(t *testing.T, text string) []teletest.Sent {
	t.Helper()
	h.seq++
	c := teletest.NewText(h.seq, chatID, chatID, text)
	require.NoError(t, h.text(c))
	return c.Messages()
}

func TestStartSendsGreetingWithMenu(t *testing.T) {
	h := newHarness(t)
	sent := h.command(t, chatID, "/start")
	require.Len(t, sent, 1)
	assert.Equal(t, conversation.GreetingText, sent[0].Text())
	assert.Equal(t, [][]string{{"Science", "History"}, {"Nature", "Random"}, {"Stop"}}, keyboard.Labels(sent[0].Markup()))
}

func TestFullConversation(t *testing.T) {
	h := newHarness(t)
	h.command(t, chatID, "/start")

	sent := h.say(t, "Science")
	require.Len(t, sent, 1)
	assert.True(t, facts.Builtin().Contains(facts.CategoryScience, sent[0].Text()))

	sent = h.say(t, "Xyzzy")
	require.Len(t, sent, 1)
	assert.Equal(t, facts.FallbackMessage, sent[0].Text())

	sent = h.say(t, "Stop")
	require.Len(t, sent, 1)
	assert.Equal(t, conversation.StopText, sent[0].Text())
	require.NotNil(t, sent[0].Markup())
	assert.True(t, sent[0].Markup().RemoveKeyboard)

	assert.Empty(t, h.say(t, "Stop"))
	assert.Empty(t, h.say(t, "History"))
	assert.Empty(t, h.command(t, chatID, "/done"))

	assert.Equal(t, metrics.Totals{Served: 1, Fallbacks: 1, Started: 1}, h.rec.Totals())
}

func TestDoneAndCancelFarewells(t *testing.T) {
	h := newHarness(t)
	h.command(t, chatID, "/start")
	sent := h.command(t, chatID, "/done")
	require.Len(t, sent, 1)
	assert.Equal(t, conversation.DoneText, sent[0].Text())

	h.command(t, chatID, "/start")
	sent = h.command(t, chatID, "/cancel")
	require.Len(t, sent, 1)
	assert.Equal(t, conversation.CancelText, sent[0].Text())
}

func TestStatsReportsCounters(t *testing.T) {
	h := newHarness(t)
	h.command(t, chatID, "/start")
	h.say(t, "Nature")

	sent := h.command(t, adminID, "/stats")
	require.Len(t, sent, 1)
	assert.Equal(t, "Active sessions: 1\nSessions started: 1\nFacts served: 1\nFallbacks: 0", sent[0].Text())
}

func TestStatsIsHiddenFromMenu(t *testing.T) {
	h := newHarness(t)
	for _, cmd := range h.reg.ListCommands(true) {
		assert.NotEqual(t, "stats", cmd.Text)
	}
	assert.Len(t, h.bot.Routes(h.reg), 5)
}

func TestMarkup(t *testing.T) {
	assert.Nil(t, Markup(conversation.Reply{Text: "fact"}))
	assert.True(t, Markup(conversation.Reply{RemoveKeyboard: true}).RemoveKeyboard)
	assert.Equal(t, [][]string{{"Stop"}}, keyboard.Labels(Markup(conversation.Reply{Keyboard: [][]string{{"Stop"}}})))
}

func TestGroupMembersHoldSeparateSessions(t *testing.T) {
	h := newHarness(t)
	const group int64 = -100555
	start, ok := h.reg.Commands()["/start"]
	require.True(t, ok)

	require.NoError(t, start.Handler(teletest.NewGroupText(1, group, 11, "/start")))

	other := teletest.NewGroupText(2, group, 22, "Science")
	require.NoError(t, h.text(other))
	assert.Empty(t, other.Messages())

	own := teletest.NewGroupText(3, group, 11, "Science")
	require.NoError(t, h.text(own))
	require.Len(t, own.Messages(), 1)
	assert.NotEqual(t, facts.FallbackMessage, own.Messages()[0].Text())
}
