// Package teletest provides an in-memory tele.Context for handler tests.
package teletest

import (
	"sync"

	tele "gopkg.in/telebot.v4"
)

// Sent is a message captured by Context.Send.
type Sent struct {
	What any
	Opts []any
}

// Text returns the sent payload when it is a string.
func (s Sent) Text() string {
	text, _ := s.What.(string)
	return text
}

// Markup returns the reply markup attached to the message, if any.
func (s Sent) Markup() *tele.ReplyMarkup {
	for _, o := range s.Opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return v.ReplyMarkup
			}
		case *tele.ReplyMarkup:
			return v
		}
	}
	return nil
}

// Context is a tele.Context backed by a synthetic text update. Methods not
// overridden here panic through the nil embedded interface.
type Context struct {
	tele.Context

	upd tele.Update

	mu    sync.Mutex
	store map[string]any
	sent  []Sent
	// SendErr is returned by Send and Reply when set.
	SendErr error
}

// NewText builds a context for a private-chat text message.
func NewText(updateID int, chatID, userID int64, text string) *Context {
	user := &tele.User{ID: userID, Username: "tester"}
	return &Context{
		upd: tele.Update{
			ID: updateID,
			Message: &tele.Message{
				ID:     updateID,
				Sender: user,
				Chat:   &tele.Chat{ID: chatID, Type: tele.ChatPrivate},
				Text:   text,
			},
		},
		store: make(map[string]any),
	}
}

// NewGroupText builds a context for a text message sent by userID in a group chat.
func NewGroupText(updateID int, chatID, userID int64, text string) *Context {
	c := NewText(updateID, chatID, userID, text)
	c.upd.Message.Chat.Type = tele.ChatGroup
	return c
}

func (c *Context) Update() tele.Update       { return c.upd }
func (c *Context) Message() *tele.Message    { return c.upd.Message }
func (c *Context) Sender() *tele.User        { return c.upd.Message.Sender }
func (c *Context) Chat() *tele.Chat          { return c.upd.Message.Chat }
func (c *Context) Recipient() tele.Recipient { return c.upd.Message.Chat }
func (c *Context) Text() string              { return c.upd.Message.Text }

func (c *Context) Get(key string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store[key]
}

func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = val
}

func (c *Context) Send(what any, opts ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SendErr != nil {
		return c.SendErr
	}
	c.sent = append(c.sent, Sent{What: what, Opts: opts})
	return nil
}

func (c *Context) Reply(what any, opts ...any) error {
	return c.Send(what, opts...)
}

// Messages returns a copy of everything sent so far.
func (c *Context) Messages() []Sent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Sent(nil), c.sent...)
}
