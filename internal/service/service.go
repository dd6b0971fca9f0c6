package service

import (
	"context"
	"time"

	"blog/internal/models"
	"blog/internal/repository"
)

type Authorization interface {
	Register(ctx context.Context, in Registration) (models.User, error)
	Login(ctx context.Context, email, password string) (Session, error)
	Logout(ctx context.Context, token string) error
	ResolveIdentity(ctx context.Context, token string) (Identity, error)
}

type Posts interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id int) (models.Post, error)
	CreatePost(ctx context.Context, authorID int, in PostInput) (int, error)
	UpdatePost(ctx context.Context, id, editorID int, in PostInput) error
	DeletePost(ctx context.Context, id int) error
}

type Comments interface {
	AddComment(ctx context.Context, authorID, postID int, body string) (int, error)
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Posts
	Comments
}

// Options carries the settings services need from configuration.
type Options struct {
	SecretKey  string
	SessionTTL time.Duration
	Hasher     PasswordHasher
	// Now is the clock; tests pin it.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.SessionTTL <= 0 {
		o.SessionTTL = 24 * time.Hour
	}
	if o.Hasher.Method == "" {
		o.Hasher = DefaultPasswordHasher()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

func NewService(repos *repository.Repository, opts Options) *Service {
	opts = opts.withDefaults()
	return &Service{
		Authorization: NewAuthService(repos.Users, repos.Sessions, opts),
		Posts:         NewPostService(repos.Posts, repos.Comments, opts.Now),
		Comments:      NewCommentService(repos.Posts, repos.Comments),
	}
}
