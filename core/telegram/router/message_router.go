package router

import (
	"time"

	tg "github.com/m3rciful/factbot/core/telegram"
	"github.com/m3rciful/factbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// FSM defines the minimal interface for a conversation state dispatcher.
type FSM interface {
	InProgress(c tele.Context) bool
	ManagerHandler(c tele.Context) error
}

// TextHandler routes free text to the active conversation. Text outside a
// conversation is logged as skipped and gets no reply.
func TextHandler(fsmMgr FSM) tele.HandlerFunc {
	return func(c tele.Context) error {
		start := time.Now()
		if fsmMgr != nil && fsmMgr.InProgress(c) {
			return handled(c, "fsm", start, func() error {
				return fsmMgr.ManagerHandler(c)
			})
		}
		skipped(c, "no_session", start)
		return nil
	}
}

// TextRoutes binds TextHandler to text updates with the shared middleware.
func TextRoutes(fsmMgr FSM) []tg.Route {
	return []tg.Route{{
		Endpoint: tele.OnText,
		Handler:  middleware.LoggerMiddleware(middleware.RecoverMiddleware(TextHandler(fsmMgr))),
	}}
}
