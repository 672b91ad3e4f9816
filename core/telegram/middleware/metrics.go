package middleware

import (
	tele "gopkg.in/telebot.v4"
)

const countersKey = "reply_counters"

// replyCounters tracks what a handler sent back for the handler.handled summary.
type replyCounters struct {
	messages int
	keyboard bool
}

// countingContext counts successful Send and Reply calls made through it.
type countingContext struct {
	tele.Context
	counters *replyCounters
}

func (c countingContext) Send(what interface{}, opts ...interface{}) error {
	return c.count(c.Context.Send(what, opts...), opts)
}

func (c countingContext) Reply(what interface{}, opts ...interface{}) error {
	return c.count(c.Context.Reply(what, opts...), opts)
}

func (c countingContext) count(err error, opts []interface{}) error {
	if err != nil {
		return err
	}
	c.counters.messages++
	c.counters.keyboard = c.counters.keyboard || carriesMarkup(opts)
	return nil
}

// carriesMarkup reports whether send options attach a keyboard, including a keyboard removal.
func carriesMarkup(opts []interface{}) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

// MessageMetricsMiddleware counts replies sent while handling an update.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		counters := &replyCounters{}
		c.Set(countersKey, counters)
		return next(countingContext{Context: c, counters: counters})
	}
}

// GetCounters returns how many messages were sent for the current update and
// whether any of them carried reply markup.
func GetCounters(c tele.Context) (int, bool) {
	counters, ok := c.Get(countersKey).(*replyCounters)
	if !ok {
		return 0, false
	}
	return counters.messages, counters.keyboard
}
