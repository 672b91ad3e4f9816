// Package bot binds the conversation controller to Telegram updates.
package bot

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/m3rciful/factbot/core/logger"
	"github.com/m3rciful/factbot/core/metrics"
	tg "github.com/m3rciful/factbot/core/telegram"
	"github.com/m3rciful/factbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/factbot/core/telegram/helpers"
	"github.com/m3rciful/factbot/core/telegram/keyboard"
	"github.com/m3rciful/factbot/core/telegram/router"
	"github.com/m3rciful/factbot/core/telegram/state"
	"github.com/m3rciful/factbot/internal/conversation"

	tele "gopkg.in/telebot.v4"
)

// StatsSource reports lifetime counters for the admin /stats command.
type StatsSource interface {
	Totals() metrics.Totals
}

// Bot translates Telegram updates into conversation events and replies.
type Bot struct {
	ctrl    *conversation.Controller
	stats   StatsSource
	fsm     *state.Dispatcher
	adminID int64
}

// New wires a Bot around ctrl. stats may be nil.
func New(ctrl *conversation.Controller, stats StatsSource, adminID int64) *Bot {
	b := &Bot{ctrl: ctrl, stats: stats, adminID: adminID}
	b.fsm = state.NewDispatcher(ctrl.Sessions(), state.ConversationKey)
	b.fsm.Handle(conversation.StateChoosing, b.Handle)
	return b
}

// FSM routes free text of active conversations back into the controller.
func (b *Bot) FSM() router.FSM {
	return b.fsm
}

// Register adds the bot commands to reg.
func (b *Bot) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     b.Handle,
		Description: "Start choosing fact categories",
	})
	reg.RegisterCommand("/done", commands.Command{
		Handler:     b.Handle,
		Description: "Finish the conversation",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     b.Handle,
		Description: "Cancel the conversation",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     b.Stats,
		Description: "Bot statistics",
		AdminOnly:   true,
		Hidden:      true,
	})
}

// Routes returns the command and text routes for the bot.
func (b *Bot) Routes(reg *tg.Registry) []tg.Route {
	routes := router.CommandRoutes(reg, router.CommandRouteOptions{AdminID: b.adminID})
	return append(routes, router.TextRoutes(b.fsm)...)
}

// Handle feeds one update to the controller and sends the reply, if any.
func (b *Bot) Handle(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	ev := conversation.ParseEvent(b.fsm.Key(c), c.Text())
	reply, ok := b.ctrl.Handle(ctx, ev)
	if !ok {
		logger.Debug(ctx, "tg", "reply.none",
			slog.String("status", "skip"),
			slog.Int64("conversation_id", ev.ConversationID),
		)
		return nil
	}
	return tghelpers.SendMarkup(c, reply.Text, Markup(reply))
}

// Stats answers the admin /stats command.
func (b *Bot) Stats(c tele.Context) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Active sessions: %d", b.ctrl.ActiveSessions())
	if b.stats != nil {
		t := b.stats.Totals()
		fmt.Fprintf(&sb, "\nSessions started: %d\nFacts served: %d\nFallbacks: %d", t.Started, t.Served, t.Fallbacks)
	}
	return tghelpers.SendText(c, sb.String())
}

// Markup converts a reply's keyboard instructions into Telegram markup.
func Markup(r conversation.Reply) *tele.ReplyMarkup {
	switch {
	case r.RemoveKeyboard:
		return keyboard.RemoveKeyboard()
	case len(r.Keyboard) > 0:
		return keyboard.ReplyButtons(r.Keyboard...)
	}
	return nil
}
