// Package conversation implements the category-choosing dialog: a session
// starts on /start, every category choice is answered with a fact, and the
// session ends on the stop keyword, /done or /cancel.
package conversation

import (
	"context"
	"log/slog"
	"time"

	"github.com/m3rciful/factbot/core/logger"
	"github.com/m3rciful/factbot/core/telegram/state"
	"github.com/m3rciful/factbot/internal/facts"
)

// StateChoosing is the only non-terminal state. ENDED is the absence of a session.
const StateChoosing state.State = "choosing"

// StopKeyword ends the conversation when sent as plain text.
const StopKeyword = "Stop"

// Reply texts.
const (
	GreetingText = "Hi! I'm a fact generator bot. Choose a category:"
	StopText     = "You stopped the bot. To start again, send /start."
	DoneText     = "Thanks for using the bot! Goodbye!"
	CancelText   = "You cancelled the conversation. Goodbye!"
)

// End reasons reported to the Observer.
const (
	EndStop    = "stop"
	EndDone    = "done"
	EndCancel  = "cancel"
	EndRestart = "restart"
)

const component = "conversation"

// Session is the per-conversation record.
type Session struct {
	// Category is the last valid category chosen; CategoryUnknown after an unrecognised choice.
	Category facts.Category
	Choices  int
}

// Observer receives conversation and resolution events.
type Observer interface {
	facts.Observer
	SessionStarted()
	SessionEnded(reason string)
}

// Deps are the collaborators injected into a Controller.
type Deps struct {
	Facts    facts.Provider
	Rand     facts.RandSource
	Sessions state.Manager[Session]
	Observer Observer
}

// Controller drives conversations. It is safe for concurrent use across conversations.
type Controller struct {
	store    *facts.Store
	sessions state.Manager[Session]
	observer Observer
}

// New builds a Controller. Missing dependencies get defaults: the built-in fact
// table, a non-deterministic random source and an in-memory session manager.
func New(deps Deps) *Controller {
	sessions := deps.Sessions
	if sessions == nil {
		sessions = state.NewMemoryManager[Session]()
	}
	observer := deps.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	return &Controller{
		store:    facts.NewStore(deps.Facts, deps.Rand, facts.WithObserver(observer)),
		sessions: sessions,
		observer: observer,
	}
}

// Sessions exposes the session manager for routing decisions.
func (c *Controller) Sessions() state.Manager[Session] {
	return c.sessions
}

// State returns the current state of a conversation.
func (c *Controller) State(id int64) state.State {
	return c.sessions.GetState(id)
}

// ActiveSessions returns the number of conversations in CHOOSING.
func (c *Controller) ActiveSessions() int {
	return c.sessions.Len()
}

// Handle processes ev and returns the reply to send. The boolean is false when
// the event causes no transition and needs no reply.
func (c *Controller) Handle(ctx context.Context, ev Event) (Reply, bool) {
	switch ev.Command {
	case CommandStart:
		return c.start(ctx, ev.ConversationID), true
	case CommandDone:
		return c.end(ctx, ev.ConversationID, EndDone, DoneText)
	case CommandCancel:
		return c.end(ctx, ev.ConversationID, EndCancel, CancelText)
	case CommandNone:
		return c.choose(ctx, ev)
	default:
		logger.Debug(ctx, component, "command.ignored",
			slog.String("status", "skip"),
			slog.String("op", string(ev.Command)),
		)
		return Reply{}, false
	}
}

func (c *Controller) start(ctx context.Context, id int64) Reply {
	if prev, ok := c.sessions.End(id); ok {
		c.observer.SessionEnded(EndRestart)
		logger.Debug(ctx, component, "session.replaced",
			slog.Int64("conversation_id", id),
			slog.Int("count", prev.Data.Choices),
		)
	}
	c.sessions.Begin(id, StateChoosing, Session{})
	c.observer.SessionStarted()
	logger.Info(ctx, component, "session.start",
		slog.String("status", "ok"),
		slog.Int64("conversation_id", id),
	)
	return Reply{Text: GreetingText, Keyboard: Menu()}
}

func (c *Controller) end(ctx context.Context, id int64, reason, text string) (Reply, bool) {
	sess, ok := c.sessions.End(id)
	if !ok {
		logger.Debug(ctx, component, "session.end.ignored",
			slog.String("status", "skip"),
			slog.Int64("conversation_id", id),
			slog.String("reason", reason),
		)
		return Reply{}, false
	}
	c.observer.SessionEnded(reason)
	logger.Info(ctx, component, "session.end",
		slog.String("status", "ok"),
		slog.Int64("conversation_id", id),
		slog.String("reason", reason),
		slog.Int("count", sess.Data.Choices),
		slog.Duration("duration", time.Since(sess.StartedAt)),
	)
	return Reply{Text: text, RemoveKeyboard: true}, true
}

func (c *Controller) choose(ctx context.Context, ev Event) (Reply, bool) {
	id := ev.ConversationID
	if c.sessions.GetState(id) != StateChoosing {
		return Reply{}, false
	}
	if ev.Text == StopKeyword {
		return c.end(ctx, id, EndStop, StopText)
	}

	category, _ := facts.ParseCategory(ev.Text)
	if _, ok := c.sessions.Update(id, func(s *state.Session[Session]) {
		s.Data.Category = category
		s.Data.Choices++
	}); !ok {
		// ended concurrently
		return Reply{}, false
	}
	return Reply{Text: c.store.Resolve(ctx, ev.Text)}, true
}

// Menu returns the quick-reply rows: categories in pairs followed by the stop keyword.
func Menu() [][]string {
	labels := facts.Labels()
	rows := make([][]string, 0, len(labels)/2+2)
	for i := 0; i < len(labels); i += 2 {
		end := i + 2
		if end > len(labels) {
			end = len(labels)
		}
		rows = append(rows, append([]string(nil), labels[i:end]...))
	}
	return append(rows, []string{StopKeyword})
}

type nopObserver struct{}

func (nopObserver) FactServed(string)   {}
func (nopObserver) FactFallback()       {}
func (nopObserver) SessionStarted()     {}
func (nopObserver) SessionEnded(string) {}
