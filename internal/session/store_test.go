package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreCreateAssignsUniqueIDs(t *testing.T) {
	store := NewStore()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		sess := store.Create()
		require.NotEmpty(t, sess.ID)
		assert.False(t, seen[sess.ID], "duplicate session id %s", sess.ID)
		seen[sess.ID] = true
	}
	assert.Equal(t, 100, store.Len())
}

func TestStoreCreateDefaults(t *testing.T) {
	store := NewStore()
	sess := store.Create()

	assert.Equal(t, StateIdle, sess.State)
	assert.Empty(t, sess.Draft)
	assert.Empty(t, sess.Messages)
	assert.Zero(t, sess.TotalTokens)
	assert.False(t, sess.CreatedAt.IsZero())
}

func TestStoreGet(t *testing.T) {
	store := NewStore()
	sess := store.Create()

	assert.Same(t, sess, store.Get(sess.ID))
	assert.Nil(t, store.Get("no-such-session"))
}

func TestStoreDelete(t *testing.T) {
	store := NewStore()
	sess := store.Create()

	store.Delete(sess.ID)
	assert.Nil(t, store.Get(sess.ID))
	assert.Equal(t, 0, store.Len())

	// Deleting an unknown id is a no-op.
	store.Delete("no-such-session")
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	ids := make(chan string, 200)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- store.Create().ID
		}()
	}
	wg.Wait()
	close(ids)

	for id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			assert.NotNil(t, store.Get(id))
			store.Delete(id)
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 0, store.Len())
}

func TestSessionAppend(t *testing.T) {
	sess := &Session{}

	msg := sess.Append("user", "hello")
	assert.Equal(t, "user", msg.Role)
	assert.Equal(t, "hello", msg.Content)
	assert.False(t, msg.Timestamp.IsZero())

	sess.Append("assistant", "hi there")
	require.Len(t, sess.Messages, 2)
	assert.Equal(t, "hello", sess.Messages[0].Content)
	assert.Equal(t, "hi there", sess.Messages[1].Content)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "awaiting_confirmation", StateAwaitingConfirmation.String())
	assert.Equal(t, "collecting", StateCollecting.String())
	assert.Equal(t, "closed", StateClosed.String())
}
