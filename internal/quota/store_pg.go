package quota

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type pgStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed quota store.
func NewPGStore(db *sql.DB) *pgStore {
	return &pgStore{DB: db}
}

func (s *pgStore) Get(ctx context.Context, userID string) (Quota, error) {
	var q Quota
	row := s.DB.QueryRowContext(ctx, `
SELECT user_id, attempts_left, created_at FROM quotas WHERE user_id = $1`, userID)
	if err := row.Scan(&q.UserID, &q.AttemptsLeft, &q.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quota{}, ErrNotFound
		}
		return Quota{}, err
	}
	return q, nil
}

func (s *pgStore) Ensure(ctx context.Context, userID string) (Quota, error) {
	now := time.Now().UTC()
	if _, err := s.DB.ExecContext(ctx, `
INSERT INTO quotas (user_id, attempts_left, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id) DO NOTHING`, userID, DefaultAttempts, now); err != nil {
		return Quota{}, err
	}
	return s.Get(ctx, userID)
}

// Consume is a single conditional decrement so concurrent calls can never
// drive the counter negative.
func (s *pgStore) Consume(ctx context.Context, userID string) (Quota, error) {
	var q Quota
	row := s.DB.QueryRowContext(ctx, `
UPDATE quotas SET attempts_left = GREATEST(attempts_left - 1, 0)
WHERE user_id = $1
RETURNING user_id, attempts_left, created_at`, userID)
	if err := row.Scan(&q.UserID, &q.AttemptsLeft, &q.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quota{}, ErrNotFound
		}
		return Quota{}, err
	}
	return q, nil
}

func (s *pgStore) Reset(ctx context.Context, userID string) (Quota, error) {
	now := time.Now().UTC()
	var q Quota
	row := s.DB.QueryRowContext(ctx, `
INSERT INTO quotas (user_id, attempts_left, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id) DO UPDATE SET attempts_left = EXCLUDED.attempts_left
RETURNING user_id, attempts_left, created_at`, userID, DefaultAttempts, now)
	if err := row.Scan(&q.UserID, &q.AttemptsLeft, &q.CreatedAt); err != nil {
		return Quota{}, err
	}
	return q, nil
}
