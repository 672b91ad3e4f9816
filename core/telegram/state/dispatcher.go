package state

import (
	"encoding/binary"
	"hash/fnv"
	"log/slog"
	"sync"

	"github.com/m3rciful/factbot/core/logger"
	tghelpers "github.com/m3rciful/factbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// StateGetter is the minimal view of a Manager needed to route updates.
type StateGetter interface {
	GetState(id int64) State
}

// KeyFunc derives the conversation identity from an update.
type KeyFunc func(c tele.Context) int64

// ConversationKey keys a private chat by its chat ID. In group chats every
// member gets an independent conversation, keyed by a hash of chat and sender
// that is always negative and so never collides with a private chat ID.
func ConversationKey(c tele.Context) int64 {
	chat, user := c.Chat(), c.Sender()
	switch {
	case chat == nil && user == nil:
		return 0
	case chat == nil:
		return user.ID
	case user == nil || chat.Type == tele.ChatPrivate || chat.ID == user.ID:
		return chat.ID
	}
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(chat.ID))
	binary.BigEndian.PutUint64(buf[8:], uint64(user.ID))
	h := fnv.New64a()
	h.Write(buf[:])
	return int64(h.Sum64() | 1<<63)
}

// Dispatcher routes updates to the handler registered for the conversation's current state.
type Dispatcher struct {
	states   StateGetter
	key      KeyFunc
	mu       sync.RWMutex
	handlers map[State]tele.HandlerFunc
}

// NewDispatcher creates a Dispatcher. A nil key defaults to ConversationKey.
func NewDispatcher(states StateGetter, key KeyFunc) *Dispatcher {
	if key == nil {
		key = ConversationKey
	}
	return &Dispatcher{
		states:   states,
		key:      key,
		handlers: make(map[State]tele.HandlerFunc),
	}
}

// Handle associates a state with its handler.
func (d *Dispatcher) Handle(st State, h tele.HandlerFunc) {
	if h == nil || st == StateIdle {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[st] = h
}

// Key returns the conversation identity of the update.
func (d *Dispatcher) Key(c tele.Context) int64 {
	return d.key(c)
}

// InProgress reports whether the conversation has an active, non-idle state.
func (d *Dispatcher) InProgress(c tele.Context) bool {
	return d.states.GetState(d.key(c)) != StateIdle
}

// ManagerHandler executes the handler registered for the current state, if any.
func (d *Dispatcher) ManagerHandler(c tele.Context) error {
	id := d.key(c)
	current := d.states.GetState(id)
	ctx := tghelpers.BuildContext(c)

	d.mu.RLock()
	handler, ok := d.handlers[current]
	d.mu.RUnlock()

	status := "ok"
	if !ok {
		status = "skip"
	}
	logger.Debug(ctx, "tg", "fsm.manager",
		slog.String("status", status),
		slog.Int64("conversation_id", id),
		slog.String("state", string(current)),
	)
	if !ok {
		return nil
	}
	return handler(c)
}
