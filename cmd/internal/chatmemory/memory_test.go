package chatmemory

import (
	"bizbook/cmd/internal/domain/entity"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPersister struct {
	mu   sync.Mutex
	rows map[Key]*entity.ChatHistory
	err  error
}

func newMemPersister() *memPersister {
	return &memPersister{rows: make(map[Key]*entity.ChatHistory)}
}

func (m *memPersister) Find(_ context.Context, userID, mode string) (*entity.ChatHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.rows[Key{UserID: userID, Mode: mode}], nil
}

func (m *memPersister) Upsert(_ context.Context, history *entity.ChatHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.rows[Key{UserID: history.UserID, Mode: history.Mode}] = history
	return nil
}

func msg(content string) entity.ChatMessage {
	return entity.ChatMessage{Role: "user", Content: content}
}

func TestGetSet(t *testing.T) {
	store := NewPersistentStore(newMemPersister())
	ctx := context.Background()
	key := Key{UserID: "u1", Mode: "planner"}

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	require.NoError(t, store.Set(ctx, key, []entity.ChatMessage{msg("hi")}))
	require.NoError(t, store.Set(ctx, key, []entity.ChatMessage{msg("hi"), msg("again")}))

	got, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = store.Get(ctx, Key{UserID: "u1", Mode: "coach"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSubscribe(t *testing.T) {
	store := NewPersistentStore(newMemPersister())
	ctx := context.Background()
	key := Key{UserID: "u1", Mode: "planner"}

	updates, cancel := store.Subscribe(key)
	other, cancelOther := store.Subscribe(Key{UserID: "u2", Mode: "planner"})
	defer cancelOther()

	require.NoError(t, store.Set(ctx, key, []entity.ChatMessage{msg("one")}))
	require.NoError(t, store.Set(ctx, key, []entity.ChatMessage{msg("one"), msg("two")}))

	got := <-updates
	assert.Len(t, got, 2, "only the newest undrained update is kept")

	select {
	case <-other:
		t.Fatal("subscriber of another key was notified")
	default:
	}

	cancel()
	cancel()
	_, open := <-updates
	assert.False(t, open)

	require.NoError(t, store.Set(ctx, key, nil), "publishing without subscribers")
}

func TestSetFailureDoesNotPublish(t *testing.T) {
	persister := newMemPersister()
	persister.err = errors.New("disk I/O error")
	store := NewPersistentStore(persister)
	key := Key{UserID: "u1", Mode: "planner"}

	updates, cancel := store.Subscribe(key)
	defer cancel()

	require.Error(t, store.Set(context.Background(), key, []entity.ChatMessage{msg("lost")}))
	select {
	case <-updates:
		t.Fatal("failed write was published")
	default:
	}
}
