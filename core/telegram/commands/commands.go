// Package commands declares the metadata attached to bot slash commands.
package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command binds a slash command to its handler.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
	Hidden      bool
}

// Listed reports whether the command belongs in the public Telegram command menu.
func (c Command) Listed() bool {
	return !c.Hidden && !c.AdminOnly
}
