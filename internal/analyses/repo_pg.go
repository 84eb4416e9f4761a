package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"repolens-backend/internal/webhook"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new analysis record.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analyses (id, user_id, repo_owner, repo_name, branch, result, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	resultPayload, err := json.Marshal(analysis.Result)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.UserID,
		analysis.Repo.RepoOwner,
		analysis.Repo.RepoName,
		analysis.Repo.Branch,
		resultPayload,
		analysis.CreatedAt,
	)
	return err
}

// GetByID returns a user's analysis by ID.
func (r *PGRepo) GetByID(ctx context.Context, userID, analysisID string) (Analysis, error) {
	const query = `
SELECT id, user_id, repo_owner, repo_name, branch, result, created_at
FROM analyses
WHERE id = $1 AND user_id = $2
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, analysisID, userID)
	analysis, err := scanAnalysis(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	return analysis, nil
}

// ListByUser lists analyses for a user ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	const query = `
SELECT id, user_id, repo_owner, repo_name, branch, result, created_at
FROM analyses
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Analysis{}
	for rows.Next() {
		analysis, err := scanAnalysis(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, analysis)
	}
	return out, rows.Err()
}

func scanAnalysis(scan func(dest ...any) error) (Analysis, error) {
	var a Analysis
	var repo webhook.RepoData
	var resultPayload []byte
	if err := scan(
		&a.ID,
		&a.UserID,
		&repo.RepoOwner,
		&repo.RepoName,
		&repo.Branch,
		&resultPayload,
		&a.CreatedAt,
	); err != nil {
		return Analysis{}, err
	}
	a.Repo = repo
	if len(resultPayload) > 0 {
		if err := json.Unmarshal(resultPayload, &a.Result); err != nil {
			return Analysis{}, err
		}
	}
	if a.Result.Issues == nil {
		a.Result.Issues = []string{}
	}
	return a, nil
}

var _ Repo = (*PGRepo)(nil)
