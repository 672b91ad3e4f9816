// Package state keeps per-conversation FSM sessions for Telegram bots.
// Sessions carry a typed payload instead of a loose key/value bag, and a
// Dispatcher routes text updates to the handler registered for the current state.
package state
