package quota

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu   sync.RWMutex
	data map[string]Quota
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]Quota)}
}

func (s *memoryStore) Get(ctx context.Context, userID string) (Quota, error) {
	if err := ctx.Err(); err != nil {
		return Quota{}, err
	}
	s.mu.RLock()
	q, ok := s.data[userID]
	s.mu.RUnlock()
	if !ok {
		return Quota{}, ErrNotFound
	}
	return q, nil
}

func (s *memoryStore) Ensure(ctx context.Context, userID string) (Quota, error) {
	if err := ctx.Err(); err != nil {
		return Quota{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.data[userID]
	if !ok {
		q = defaultQuota(userID)
		q.CreatedAt = time.Now().UTC()
		s.data[userID] = q
	}
	return q, nil
}

func (s *memoryStore) Consume(ctx context.Context, userID string) (Quota, error) {
	if err := ctx.Err(); err != nil {
		return Quota{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.data[userID]
	if !ok {
		return Quota{}, ErrNotFound
	}
	if q.AttemptsLeft > 0 {
		q.AttemptsLeft--
	}
	s.data[userID] = q
	return q, nil
}

func (s *memoryStore) Reset(ctx context.Context, userID string) (Quota, error) {
	if err := ctx.Err(); err != nil {
		return Quota{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.data[userID]
	if !ok {
		q = defaultQuota(userID)
		q.CreatedAt = time.Now().UTC()
	}
	q.AttemptsLeft = DefaultAttempts
	s.data[userID] = q
	return q, nil
}
