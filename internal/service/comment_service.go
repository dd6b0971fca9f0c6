package service

import (
	"context"

	"blog/internal/models"
	"blog/internal/repository"
)

type CommentService struct {
	posts    repository.Posts
	comments repository.Comments
}

func NewCommentService(posts repository.Posts, comments repository.Comments) *CommentService {
	return &CommentService{posts: posts, comments: comments}
}

// AddComment attaches body to postID on behalf of authorID.
func (s *CommentService) AddComment(ctx context.Context, authorID, postID int, body string) (int, error) {
	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 0, ErrPostNotFound
	}
	return s.comments.Create(ctx, models.Comment{Body: body, AuthorID: authorID, PostID: postID})
}
