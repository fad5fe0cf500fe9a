package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"comic-auth/internal/model"
)

// MemoryTokenStore keeps token sessions in process memory. Expired entries are
// evicted lazily on resolve, so no background sweeper is needed.
type MemoryTokenStore struct {
	ttl     time.Duration
	now     func() time.Time
	entries sync.Map
}

type tokenEntry struct {
	user model.User
	// expiresAt is unix nanos, updated atomically so the sliding renewal
	// does not need a lock around the whole map.
	expiresAt atomic.Int64
}

func NewMemoryTokenStore(ttl time.Duration) *MemoryTokenStore {
	return &MemoryTokenStore{
		ttl: ttl,
		now: time.Now,
	}
}

func (s *MemoryTokenStore) Save(_ context.Context, token string, user model.User) error {
	entry := &tokenEntry{user: user}
	entry.expiresAt.Store(s.now().Add(s.ttl).UnixNano())
	s.entries.Store(token, entry)
	return nil
}

// Resolve returns the user bound to the token and slides its expiry forward
// by the store TTL. Unknown and expired tokens report a miss, never an error.
func (s *MemoryTokenStore) Resolve(_ context.Context, token string) (model.User, bool, error) {
	value, ok := s.entries.Load(token)
	if !ok {
		return model.User{}, false, nil
	}

	entry := value.(*tokenEntry)
	now := s.now()
	if now.UnixNano() > entry.expiresAt.Load() {
		s.entries.CompareAndDelete(token, value)
		return model.User{}, false, nil
	}

	entry.expiresAt.Store(now.Add(s.ttl).UnixNano())
	return entry.user, true, nil
}

func (s *MemoryTokenStore) Delete(_ context.Context, token string) error {
	s.entries.Delete(token)
	return nil
}
