// Package chatmemory keeps assistant conversations per user and mode and
// lets interested parties follow changes.
package chatmemory

import (
	"bizbook/cmd/internal/domain/entity"
	"context"
	"sync"
)

type Key struct {
	UserID string
	Mode   string
}

// Store is the conversation state shared between callers. Set replaces the
// whole history of a key; concurrent writers are not coordinated and the
// last one wins.
type Store interface {
	Get(ctx context.Context, key Key) ([]entity.ChatMessage, error)
	Set(ctx context.Context, key Key, messages []entity.ChatMessage) error
	Subscribe(key Key) (<-chan []entity.ChatMessage, func())
}

type Persister interface {
	Find(ctx context.Context, userID, mode string) (*entity.ChatHistory, error)
	Upsert(ctx context.Context, history *entity.ChatHistory) error
}

type subscriber struct {
	ch chan []entity.ChatMessage
}

// PersistentStore writes every history through to a Persister, one row per
// key, and fans updates out to subscribers.
type PersistentStore struct {
	persister Persister

	mu   sync.Mutex
	subs map[Key]map[*subscriber]struct{}
}

func NewPersistentStore(persister Persister) *PersistentStore {
	return &PersistentStore{
		persister: persister,
		subs:      make(map[Key]map[*subscriber]struct{}),
	}
}

func (s *PersistentStore) Get(ctx context.Context, key Key) ([]entity.ChatMessage, error) {
	history, err := s.persister.Find(ctx, key.UserID, key.Mode)
	if err != nil {
		return nil, err
	}
	if history == nil || history.Messages == nil {
		return []entity.ChatMessage{}, nil
	}
	return history.Messages, nil
}

func (s *PersistentStore) Set(ctx context.Context, key Key, messages []entity.ChatMessage) error {
	if messages == nil {
		messages = []entity.ChatMessage{}
	}

	err := s.persister.Upsert(ctx, &entity.ChatHistory{
		UserID:   key.UserID,
		Mode:     key.Mode,
		Messages: messages,
	})
	if err != nil {
		return err
	}

	s.publish(key, messages)
	return nil
}

// Subscribe returns a channel receiving the full history after each Set of
// key, and a cancel func that closes it. A subscriber that has not drained
// the previous update only sees the newest one.
func (s *PersistentStore) Subscribe(key Key) (<-chan []entity.ChatMessage, func()) {
	sub := &subscriber{ch: make(chan []entity.ChatMessage, 1)}

	s.mu.Lock()
	if s.subs[key] == nil {
		s.subs[key] = make(map[*subscriber]struct{})
	}
	s.subs[key][sub] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs[key], sub)
			if len(s.subs[key]) == 0 {
				delete(s.subs, key)
			}
			close(sub.ch)
			s.mu.Unlock()
		})
	}
	return sub.ch, cancel
}

func (s *PersistentStore) publish(key Key, messages []entity.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for sub := range s.subs[key] {
		snapshot := append([]entity.ChatMessage(nil), messages...)
		select {
		case sub.ch <- snapshot:
		default:
			// Replace the stale update nobody has read yet.
			select {
			case <-sub.ch:
			default:
			}
			sub.ch <- snapshot
		}
	}
}
