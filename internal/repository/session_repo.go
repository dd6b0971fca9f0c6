package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"blog/internal/models"
	"blog/internal/repository/db"
)

type SessionRepository struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewSessionRepository(sqlDB *sql.DB, dialect db.Dialect) *SessionRepository {
	return &SessionRepository{db: sqlDB, dialect: dialect}
}

var _ Sessions = (*SessionRepository)(nil)

const (
	insertSessionSQL = `INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`
	selectSessionSQL = `SELECT id, user_id, created_at, expires_at, revoked_at FROM sessions WHERE id = ?`
	revokeSessionSQL = `UPDATE sessions SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`
)

// Create stores a new session. Times are kept in UTC.
func (r *SessionRepository) Create(ctx context.Context, s models.Session) error {
	_, err := r.db.ExecContext(ctx, rebind(r.dialect, insertSessionSQL),
		s.ID, s.UserID, s.CreatedAt.UTC(), s.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("insert session for user %d: %w", s.UserID, err)
	}
	return nil
}

// Get fetches a session by id. Returns (nil, nil) if not found.
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	var (
		s       models.Session
		revoked sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, rebind(r.dialect, selectSessionSQL), id).
		Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.ExpiresAt, &revoked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select session: %w", err)
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.ExpiresAt = s.ExpiresAt.UTC()
	if revoked.Valid {
		t := revoked.Time.UTC()
		s.RevokedAt = &t
	}
	return &s, nil
}

// Revoke marks a session as ended. Revoking an unknown or already revoked
// session is a no-op.
func (r *SessionRepository) Revoke(ctx context.Context, id string, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, rebind(r.dialect, revokeSessionSQL), at.UTC(), id); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
