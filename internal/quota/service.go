package quota

import (
	"context"
	"errors"
)

type store interface {
	Get(ctx context.Context, userID string) (Quota, error)
	Ensure(ctx context.Context, userID string) (Quota, error)
	Consume(ctx context.Context, userID string) (Quota, error)
	Reset(ctx context.Context, userID string) (Quota, error)
}

// Service manages per-user analysis allowances via an underlying store.
type Service struct {
	store store
}

// NewService constructs a Service with an in-memory store.
func NewService() *Service {
	return &Service{store: newMemoryStore()}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(pgStore store) *Service {
	return &Service{store: pgStore}
}

// Get returns the current quota for a user.
func (s *Service) Get(ctx context.Context, userID string) (Quota, error) {
	return s.store.Get(ctx, userID)
}

// Ensure creates the quota record with the default allowance if absent.
func (s *Service) Ensure(ctx context.Context, userID string) (Quota, error) {
	return s.store.Ensure(ctx, userID)
}

// Authorize reports whether the user may start a new analysis. It is
// read-only; a missing record fails closed.
func (s *Service) Authorize(ctx context.Context, userID string) (bool, error) {
	q, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return q.AttemptsLeft > 0, nil
}

// Consume decrements the remaining allowance by one, floored at zero. The
// decrement is a single conditional operation so the counter can never go
// negative under concurrent calls.
func (s *Service) Consume(ctx context.Context, userID string) (Quota, error) {
	return s.store.Consume(ctx, userID)
}

// Reset restores the default allowance.
func (s *Service) Reset(ctx context.Context, userID string) (Quota, error) {
	return s.store.Reset(ctx, userID)
}
