package state

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stateTesting State = "testing"

type payload struct{ Choice string }

func TestMemoryManagerLifecycle(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mgr := NewMemoryManager[payload](WithClock(func() time.Time { return now }))

	_, ok := mgr.Get(7)
	assert.False(t, ok)
	assert.Equal(t, StateIdle, mgr.GetState(7))
	assert.False(t, mgr.InProgress(7))

	sess := mgr.Begin(7, stateTesting, payload{})
	assert.Equal(t, stateTesting, sess.State)
	assert.Equal(t, now, sess.StartedAt)
	assert.True(t, mgr.InProgress(7))
	assert.Equal(t, 1, mgr.Len())

	now = now.Add(time.Minute)
	updated, ok := mgr.Update(7, func(s *Session[payload]) { s.Data.Choice = "x" })
	require.True(t, ok)
	assert.Equal(t, "x", updated.Data.Choice)
	assert.Equal(t, now, updated.UpdatedAt)

	ended, ok := mgr.End(7)
	require.True(t, ok)
	assert.Equal(t, "x", ended.Data.Choice)
	assert.Equal(t, 0, mgr.Len())

	_, ok = mgr.End(7)
	assert.False(t, ok)
	_, ok = mgr.Update(7, nil)
	assert.False(t, ok)
}

func TestMemoryManagerBeginReplacesSession(t *testing.T) {
	mgr := NewMemoryManager[payload]()
	mgr.Begin(1, stateTesting, payload{Choice: "old"})
	mgr.Begin(1, stateTesting, payload{})

	sess, ok := mgr.Get(1)
	require.True(t, ok)
	assert.Empty(t, sess.Data.Choice)
	assert.Equal(t, 1, mgr.Len())
}

func TestMemoryManagerGetReturnsCopy(t *testing.T) {
	mgr := NewMemoryManager[payload]()
	mgr.Begin(1, stateTesting, payload{Choice: "a"})

	sess, _ := mgr.Get(1)
	sess.Data.Choice = "b"

	again, _ := mgr.Get(1)
	assert.Equal(t, "a", again.Data.Choice)
}

func TestMemoryManagerConcurrentConversations(t *testing.T) {
	mgr := NewMemoryManager[payload]()
	var wg sync.WaitGroup
	for i := int64(0); i < 64; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			mgr.Begin(id, stateTesting, payload{})
			for j := 0; j < 100; j++ {
				mgr.Update(id, func(s *Session[payload]) { s.Data.Choice = "c" })
				_ = mgr.GetState(id)
			}
			if id%2 == 0 {
				mgr.End(id)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 32, mgr.Len())
}
