package quota

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGStoreConsumeUsesConditionalDecrement(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := NewPGStore(db)
	now := time.Now().UTC()

	mock.ExpectQuery("UPDATE quotas SET attempts_left = GREATEST").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "attempts_left", "created_at"}).
			AddRow("user-1", 4, now))

	q, err := store.Consume(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if q.AttemptsLeft != 4 {
		t.Fatalf("AttemptsLeft = %d, want 4", q.AttemptsLeft)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreConsumeMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := NewPGStore(db)

	mock.ExpectQuery("UPDATE quotas SET attempts_left = GREATEST").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "attempts_left", "created_at"}))

	if _, err := store.Consume(context.Background(), "ghost"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := NewPGStore(db)

	mock.ExpectQuery("SELECT user_id, attempts_left, created_at FROM quotas").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "attempts_left", "created_at"}))

	if _, err := store.Get(context.Background(), "ghost"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGStoreEnsureInsertsDefault(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := NewPGStore(db)
	now := time.Now().UTC()

	mock.ExpectExec("INSERT INTO quotas").
		WithArgs("user-1", DefaultAttempts, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT user_id, attempts_left, created_at FROM quotas").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "attempts_left", "created_at"}).
			AddRow("user-1", DefaultAttempts, now))

	q, err := store.Ensure(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if q.AttemptsLeft != DefaultAttempts {
		t.Fatalf("AttemptsLeft = %d, want %d", q.AttemptsLeft, DefaultAttempts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
