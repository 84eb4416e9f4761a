package analyses

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemoryRepoListNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	base := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

	for _, offset := range []int{3, 1, 4, 0, 2} {
		a := Analysis{
			ID:        fmt.Sprintf("a-%d", offset),
			UserID:    "user-1",
			Repo:      testTarget(),
			CreatedAt: base.Add(time.Duration(offset) * time.Minute),
		}
		if err := repo.Create(context.Background(), a); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	out, err := repo.ListByUser(context.Background(), "user-1", 2)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 analyses, got %d", len(out))
	}
	if out[0].ID != "a-4" || out[1].ID != "a-3" {
		t.Fatalf("expected newest first, got %s then %s", out[0].ID, out[1].ID)
	}
}

func TestMemoryRepoGetByIDScopedToUser(t *testing.T) {
	repo := NewMemoryRepo()
	a := Analysis{ID: "a1", UserID: "user-1", Repo: testTarget(), CreatedAt: time.Now().UTC()}
	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := repo.GetByID(context.Background(), "user-1", "a1"); err != nil {
		t.Fatalf("GetByID own record: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), "user-2", "a1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
	if _, err := repo.GetByID(context.Background(), "user-1", "ghost"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for missing ID, got %v", err)
	}
}

func TestMemoryRepoIsolatesUsers(t *testing.T) {
	repo := NewMemoryRepo()
	now := time.Now().UTC()
	for i, user := range []string{"user-1", "user-2", "user-1"} {
		a := Analysis{ID: fmt.Sprintf("a-%d", i), UserID: user, Repo: testTarget(), CreatedAt: now}
		if err := repo.Create(context.Background(), a); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	out, err := repo.ListByUser(context.Background(), "user-2", 10)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(out) != 1 || out[0].ID != "a-1" {
		t.Fatalf("expected only user-2 records, got %+v", out)
	}
}
