// Package session stores conversation sessions between turns.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/capitalize-ai/cruise-concierge/internal/model"
	"github.com/capitalize-ai/cruise-concierge/pkg/metrics"
)

// ErrNotFound is returned when no session exists for the id.
var ErrNotFound = errors.New("session not found")

// Store persists sessions between turns. Sessions expire after a period of
// inactivity.
type Store interface {
	Load(ctx context.Context, id string) (*model.Session, error)
	Save(ctx context.Context, sess *model.Session) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in a bounded LRU. Entries expire after the TTL;
// the least recently used session is evicted when the store is full.
type MemoryStore struct {
	cache *expirable.LRU[string, model.Session]
}

// NewMemoryStore creates a memory store holding at most size sessions.
func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = 10000
	}
	return &MemoryStore{
		cache: expirable.NewLRU[string, model.Session](size, nil, ttl),
	}
}

// Load returns a copy of the stored session.
func (s *MemoryStore) Load(_ context.Context, id string) (*model.Session, error) {
	sess, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &sess, nil
}

// Save stores a copy of the session, resetting its expiry.
func (s *MemoryStore) Save(_ context.Context, sess *model.Session) error {
	if sess == nil || sess.ID == "" {
		return errors.New("session id is required")
	}
	s.cache.Add(sess.ID, *sess)
	metrics.SessionsActive.Set(float64(s.cache.Len()))
	return nil
}

// Delete removes the session. Deleting a missing session is not an error.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.cache.Remove(id)
	metrics.SessionsActive.Set(float64(s.cache.Len()))
	return nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	return s.cache.Len()
}
