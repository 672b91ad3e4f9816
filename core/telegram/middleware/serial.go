package middleware

import (
	"sync"

	tele "gopkg.in/telebot.v4"
)

type chatLock struct {
	mu   sync.Mutex
	refs int
}

// SerializeMiddleware runs updates from the same chat one at a time. Other
// chats proceed concurrently; updates without a chat or sender pass through.
func SerializeMiddleware() tele.MiddlewareFunc {
	var (
		mu    sync.Mutex
		locks = make(map[int64]*chatLock)
	)
	acquire := func(id int64) *chatLock {
		mu.Lock()
		l, ok := locks[id]
		if !ok {
			l = &chatLock{}
			locks[id] = l
		}
		l.refs++
		mu.Unlock()
		l.mu.Lock()
		return l
	}
	release := func(id int64, l *chatLock) {
		l.mu.Unlock()
		mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(locks, id)
		}
		mu.Unlock()
	}
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			id := serialKey(c)
			if id == 0 {
				return next(c)
			}
			l := acquire(id)
			defer release(id, l)
			return next(c)
		}
	}
}

func serialKey(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	if user := c.Sender(); user != nil {
		return user.ID
	}
	return 0
}
