package state

import (
	"sync"
	"time"
)

type memoryManager[T any] struct {
	mu       sync.RWMutex
	sessions map[int64]*Session[T]
	now      func() time.Time
}

// MemoryOption customises the in-memory manager.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	now func() time.Time
}

// WithClock overrides the time source used for session timestamps.
func WithClock(now func() time.Time) MemoryOption {
	return func(o *memoryOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// NewMemoryManager constructs an in-memory Manager. Sessions are lost on restart.
func NewMemoryManager[T any](opts ...MemoryOption) Manager[T] {
	o := memoryOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &memoryManager[T]{
		sessions: make(map[int64]*Session[T]),
		now:      o.now,
	}
}

func (m *memoryManager[T]) Begin(id int64, st State, data T) Session[T] {
	now := m.now()
	sess := &Session[T]{State: st, Data: data, StartedAt: now, UpdatedAt: now}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = sess
	return *sess
}

func (m *memoryManager[T]) Get(id int64) (Session[T], bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess, ok := m.sessions[id]; ok {
		return *sess, true
	}
	return Session[T]{State: StateIdle}, false
}

func (m *memoryManager[T]) Update(id int64, fn func(*Session[T])) (Session[T], bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return Session[T]{State: StateIdle}, false
	}
	if fn != nil {
		fn(sess)
	}
	sess.UpdatedAt = m.now()
	return *sess, true
}

func (m *memoryManager[T]) End(id int64) (Session[T], bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return Session[T]{State: StateIdle}, false
	}
	delete(m.sessions, id)
	return *sess, true
}

// GetState returns the current state, or StateIdle if no session exists.
func (m *memoryManager[T]) GetState(id int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess, ok := m.sessions[id]; ok {
		return sess.State
	}
	return StateIdle
}

// InProgress reports whether a non-idle session exists.
func (m *memoryManager[T]) InProgress(id int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	return ok && sess.State != StateIdle
}

func (m *memoryManager[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
