package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"blog/internal/models"
	"blog/internal/repository/db"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSessionRepository_CreateStoresUTC(t *testing.T) {
	sqlDB, mock := newMockDB(t)
	repo := NewSessionRepository(sqlDB, db.DialectSQLite)

	loc := time.FixedZone("UTC+3", 3*60*60)
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, loc)
	s := models.Session{ID: "sid", UserID: 4, CreatedAt: created, ExpiresAt: created.Add(time.Hour)}

	mock.ExpectExec(regexp.QuoteMeta(insertSessionSQL)).
		WithArgs("sid", 4, created.UTC(), created.Add(time.Hour).UTC()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestSessionRepository_Get(t *testing.T) {
	cols := []string{"id", "user_id", "created_at", "expires_at", "revoked_at"}
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	revoked := created.Add(time.Minute)

	t.Run("active", func(t *testing.T) {
		sqlDB, mock := newMockDB(t)
		repo := NewSessionRepository(sqlDB, db.DialectSQLite)
		mock.ExpectQuery(regexp.QuoteMeta(selectSessionSQL)).WithArgs("a").
			WillReturnRows(sqlmock.NewRows(cols).AddRow("a", 1, created, created.Add(time.Hour), nil))

		s, err := repo.Get(context.Background(), "a")
		if err != nil || s == nil {
			t.Fatalf("Get = (%v, %v)", s, err)
		}
		if s.RevokedAt != nil || !s.Active(created.Add(time.Minute)) {
			t.Fatalf("expected active session, got %+v", s)
		}
	})

	t.Run("revoked", func(t *testing.T) {
		sqlDB, mock := newMockDB(t)
		repo := NewSessionRepository(sqlDB, db.DialectSQLite)
		mock.ExpectQuery(regexp.QuoteMeta(selectSessionSQL)).WithArgs("b").
			WillReturnRows(sqlmock.NewRows(cols).AddRow("b", 1, created, created.Add(time.Hour), revoked))

		s, err := repo.Get(context.Background(), "b")
		if err != nil || s == nil || s.RevokedAt == nil || !s.RevokedAt.Equal(revoked) {
			t.Fatalf("expected revoked session, got %+v err=%v", s, err)
		}
		if s.Active(created.Add(2 * time.Minute)) {
			t.Fatalf("revoked session must not be active")
		}
	})

	t.Run("missing", func(t *testing.T) {
		sqlDB, mock := newMockDB(t)
		repo := NewSessionRepository(sqlDB, db.DialectSQLite)
		mock.ExpectQuery(regexp.QuoteMeta(selectSessionSQL)).WithArgs("c").
			WillReturnRows(sqlmock.NewRows(cols))

		s, err := repo.Get(context.Background(), "c")
		if err != nil || s != nil {
			t.Fatalf("expected (nil, nil), got (%v, %v)", s, err)
		}
	})
}

func TestSessionRepository_Revoke(t *testing.T) {
	sqlDB, mock := newMockDB(t)
	repo := NewSessionRepository(sqlDB, db.DialectPostgres)
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE sessions SET revoked_at = $1 WHERE id = $2 AND revoked_at IS NULL`)).
		WithArgs(at, "sid").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Revoke(context.Background(), "sid", at); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
}
