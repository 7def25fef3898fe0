package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"hotable/internal/domain"
)

type memoryEntry struct {
	state       domain.ConversationContext
	lastUpdated time.Time
}

// MemoryStore is an in-process Store with idle expiry.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
	ttl  time.Duration
	now  func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &MemoryStore{
		data: make(map[string]memoryEntry),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, id string) (domain.ConversationContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.data[id]
	if !ok || s.isExpired(entry) {
		return domain.ConversationContext{}, ErrSessionNotFound
	}
	return entry.state, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, state domain.ConversationContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = memoryEntry{state: state, lastUpdated: s.now()}
	return nil
}

func (s *MemoryStore) Reset(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.data {
		if s.isExpired(entry) {
			delete(s.data, id)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = s.ttl
	}
	if logger == nil {
		logger = slog.Default()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				logger.Info("expired sessions swept", "removed", removed, "remaining", s.Len())
			}
		}
	}
}

// SweepInterval is how often expired sessions are dropped for a given ttl.
func SweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) isExpired(entry memoryEntry) bool {
	if s.ttl <= 0 {
		return false
	}
	return s.now().Sub(entry.lastUpdated) > s.ttl
}
