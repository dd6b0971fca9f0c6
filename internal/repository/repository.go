package repository

import (
	"context"
	"database/sql"
	"time"

	"blog/internal/models"
	"blog/internal/repository/db"
)

type Users interface {
	Create(ctx context.Context, name, email, passwordHash string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
}

type Posts interface {
	List(ctx context.Context) ([]models.Post, error)
	GetByID(ctx context.Context, id int) (*models.Post, error)
	Create(ctx context.Context, p models.Post) (int, error)
	Update(ctx context.Context, p models.Post) error
	Delete(ctx context.Context, id int) error
}

type Comments interface {
	Create(ctx context.Context, c models.Comment) (int, error)
	ListByPost(ctx context.Context, postID int) ([]models.Comment, error)
}

type Sessions interface {
	Create(ctx context.Context, s models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Revoke(ctx context.Context, id string, at time.Time) error
}

type Repository struct {
	Users    Users
	Posts    Posts
	Comments Comments
	Sessions Sessions
}

func NewRepository(sqlDB *sql.DB, dialect db.Dialect) *Repository {
	return &Repository{
		Users:    NewUserRepository(sqlDB, dialect),
		Posts:    NewPostRepository(sqlDB, dialect),
		Comments: NewCommentRepository(sqlDB, dialect),
		Sessions: NewSessionRepository(sqlDB, dialect),
	}
}
