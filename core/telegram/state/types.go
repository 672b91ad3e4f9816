package state

import "time"

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation.
	StateIdle State = "idle"
)

// Session is the record kept for one conversation.
type Session[T any] struct {
	State     State
	Data      T
	StartedAt time.Time
	UpdatedAt time.Time
}

// Manager owns sessions keyed by an opaque conversation identity.
// A missing session is equivalent to StateIdle.
type Manager[T any] interface {
	// Begin replaces any existing session with a fresh one.
	Begin(id int64, st State, data T) Session[T]
	Get(id int64) (Session[T], bool)
	// Update mutates an existing session in place; it reports false when none exists.
	Update(id int64, fn func(*Session[T])) (Session[T], bool)
	// End removes the session and returns its last value.
	End(id int64) (Session[T], bool)

	GetState(id int64) State
	InProgress(id int64) bool
	Len() int
}
