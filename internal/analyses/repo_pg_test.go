package analyses

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"repolens-backend/internal/webhook"
)

func TestPGRepoCreateInsertsRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	analysis := Analysis{
		ID:        "a1",
		UserID:    "user-1",
		Repo:      webhook.RepoData{RepoOwner: "octocat", RepoName: "hello-world", Branch: "main"},
		Result:    Outcome{Issues: []string{"leak"}, Recommendation: "fix"},
		CreatedAt: now,
	}

	mock.ExpectExec("INSERT INTO analyses").
		WithArgs("a1", "user-1", "octocat", "hello-world", "main", sqlmock.AnyArg(), now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), analysis); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDScansResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	columns := []string{"id", "user_id", "repo_owner", "repo_name", "branch", "result", "created_at"}

	mock.ExpectQuery("SELECT id, user_id, repo_owner, repo_name, branch, result, created_at").
		WithArgs("a1", "user-1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("a1", "user-1", "octocat", "hello-world", "main",
				[]byte(`{"issues":["leak"],"recommendation":"fix"}`), now))

	analysis, err := repo.GetByID(context.Background(), "user-1", "a1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if analysis.Repo.RepoOwner != "octocat" || analysis.Repo.Branch != "main" {
		t.Fatalf("unexpected repo: %+v", analysis.Repo)
	}
	if len(analysis.Result.Issues) != 1 || analysis.Result.Issues[0] != "leak" {
		t.Fatalf("unexpected result: %+v", analysis.Result)
	}
	if analysis.Result.Recommendation != "fix" {
		t.Fatalf("unexpected recommendation: %q", analysis.Result.Recommendation)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	columns := []string{"id", "user_id", "repo_owner", "repo_name", "branch", "result", "created_at"}

	mock.ExpectQuery("SELECT id, user_id, repo_owner, repo_name, branch, result, created_at").
		WithArgs("ghost", "user-1").
		WillReturnRows(sqlmock.NewRows(columns))

	if _, err := repo.GetByID(context.Background(), "user-1", "ghost"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListByUserCapsLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	columns := []string{"id", "user_id", "repo_owner", "repo_name", "branch", "result", "created_at"}

	mock.ExpectQuery("SELECT id, user_id, repo_owner, repo_name, branch, result, created_at").
		WithArgs("user-1", 100).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("a1", "user-1", "octocat", "hello-world", "main", []byte(`{"issues":[]}`), now))

	out, err := repo.ListByUser(context.Background(), "user-1", 5000)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 analysis, got %d", len(out))
	}
	if out[0].Result.Issues == nil {
		t.Fatalf("expected empty issues slice, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
