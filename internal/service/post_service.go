package service

import (
	"context"
	"errors"
	"time"

	"blog/internal/models"
	"blog/internal/repository"
)

// PostDateLayout is how a post's display date is written at creation.
const PostDateLayout = "January 02, 2006"

var (
	ErrPostNotFound   = errors.New("post not found")
	ErrDuplicateTitle = errors.New("a post with this title already exists")
)

// PostInput is a validated authoring submission.
type PostInput struct {
	Title    string
	Subtitle string
	ImgURL   string
	Body     string
}

type PostService struct {
	posts    repository.Posts
	comments repository.Comments
	now      func() time.Time
}

func NewPostService(posts repository.Posts, comments repository.Comments, now func() time.Time) *PostService {
	if now == nil {
		now = time.Now
	}
	return &PostService{posts: posts, comments: comments, now: now}
}

func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.posts.List(ctx)
}

// GetPost returns the post with its comments, oldest first.
func (s *PostService) GetPost(ctx context.Context, id int) (models.Post, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return models.Post{}, err
	}
	if p == nil {
		return models.Post{}, ErrPostNotFound
	}
	comments, err := s.comments.ListByPost(ctx, id)
	if err != nil {
		return models.Post{}, err
	}
	p.Comments = comments
	return *p, nil
}

// CreatePost stores a new post dated today and authored by authorID.
func (s *PostService) CreatePost(ctx context.Context, authorID int, in PostInput) (int, error) {
	id, err := s.posts.Create(ctx, models.Post{
		Title:    in.Title,
		Subtitle: in.Subtitle,
		Date:     s.now().Format(PostDateLayout),
		Body:     in.Body,
		ImgURL:   in.ImgURL,
		AuthorID: authorID,
	})
	if err != nil {
		return 0, translatePostErr(err)
	}
	return id, nil
}

// UpdatePost overwrites the post's fields and makes editorID its author.
// The date and comments are kept.
func (s *PostService) UpdatePost(ctx context.Context, id, editorID int, in PostInput) error {
	err := s.posts.Update(ctx, models.Post{
		ID:       id,
		Title:    in.Title,
		Subtitle: in.Subtitle,
		Body:     in.Body,
		ImgURL:   in.ImgURL,
		AuthorID: editorID,
	})
	return translatePostErr(err)
}

// DeletePost removes the post and its comments.
func (s *PostService) DeletePost(ctx context.Context, id int) error {
	return translatePostErr(s.posts.Delete(ctx, id))
}

func translatePostErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrPostNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrDuplicateTitle
	default:
		return err
	}
}
