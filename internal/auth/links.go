package auth

import (
	"context"
	"log"
	"sync"
	"time"
)

// LinkStore remembers issued login links so each can be redeemed once.
type LinkStore interface {
	Save(ctx context.Context, jti string, ttl time.Duration) error
	// Consume reports whether the link was still pending and removes it.
	Consume(ctx context.Context, jti string) (bool, error)
}

// MemoryLinkStore keeps pending links in process memory. It is used in tests
// and when no Redis server is configured.
type MemoryLinkStore struct {
	mu    sync.Mutex
	links map[string]time.Time
}

func NewMemoryLinkStore() *MemoryLinkStore {
	return &MemoryLinkStore{links: map[string]time.Time{}}
}

func (s *MemoryLinkStore) Save(_ context.Context, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[jti] = time.Now().Add(ttl)
	return nil
}

func (s *MemoryLinkStore) Consume(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.links[jti]
	if !ok {
		return false, nil
	}
	delete(s.links, jti)
	return time.Now().Before(expiresAt), nil
}

func (s *MemoryLinkStore) removeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for jti, expiresAt := range s.links {
		if now.After(expiresAt) {
			delete(s.links, jti)
			removed++
		}
	}
	return removed
}

// StartCleaner drops expired links every interval until ctx is done.
func (s *MemoryLinkStore) StartCleaner(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.removeExpired(); n > 0 {
				log.Printf("removed %d expired login links", n)
			}
		}
	}
}
