package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"blog/internal/models"
	"blog/internal/repository/db"
)

type UserRepository struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewUserRepository(sqlDB *sql.DB, dialect db.Dialect) *UserRepository {
	return &UserRepository{db: sqlDB, dialect: dialect}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserRepository)(nil)

const (
	// the first account ever stored becomes the administrator
	insertUserSQL = `INSERT INTO users (name, email, password, role)
VALUES (?, ?, ?, CASE WHEN EXISTS (SELECT 1 FROM users) THEN 'member' ELSE 'admin' END)
RETURNING id, role`
	lockUsersSQL         = `LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE`
	selectUserByEmailSQL = `SELECT id, name, email, password, role FROM users WHERE email = ?`
	selectUserByIDSQL    = `SELECT id, name, email, password, role FROM users WHERE id = ?`
)

// Create inserts a new user and returns it with its assigned id and role.
// A taken email yields ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, name, email, passwordHash string) (_ models.User, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.User{}, fmt.Errorf("begin insert user %q: %w", email, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// serialise concurrent sign-ups so only one of them can see an empty table
	if r.dialect == db.DialectPostgres {
		if _, err = tx.ExecContext(ctx, lockUsersSQL); err != nil {
			return models.User{}, fmt.Errorf("lock users: %w", err)
		}
	}

	u := models.User{Name: name, Email: email, PasswordHash: passwordHash}
	var role string
	err = tx.QueryRowContext(ctx, rebind(r.dialect, insertUserSQL), name, email, passwordHash).
		Scan(&u.ID, &role)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("insert user %q: %w", email, ErrDuplicate)
		}
		return models.User{}, fmt.Errorf("insert user %q: %w", email, err)
	}
	if err = tx.Commit(); err != nil {
		return models.User{}, fmt.Errorf("commit insert user %q: %w", email, err)
	}
	u.Role = models.Role(role)
	return u, nil
}

// GetByEmail fetches a user by email. Returns (nil, nil) if not found.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := r.scanOne(ctx, selectUserByEmailSQL, email)
	if err != nil {
		return nil, fmt.Errorf("select user %q: %w", email, err)
	}
	return u, nil
}

// GetByID fetches a user by id. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, err := r.scanOne(ctx, selectUserByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("select user %d: %w", id, err)
	}
	return u, nil
}

func (r *UserRepository) scanOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var (
		u    models.User
		role string
	)
	err := r.db.QueryRowContext(ctx, rebind(r.dialect, query), arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.Role = models.Role(role)
	return &u, nil
}
