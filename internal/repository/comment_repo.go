package repository

import (
	"context"
	"database/sql"
	"fmt"

	"blog/internal/models"
	"blog/internal/repository/db"
)

type CommentRepository struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewCommentRepository(sqlDB *sql.DB, dialect db.Dialect) *CommentRepository {
	return &CommentRepository{db: sqlDB, dialect: dialect}
}

var _ Comments = (*CommentRepository)(nil)

const (
	insertCommentSQL        = `INSERT INTO comments (comment, author_id, post_id) VALUES (?, ?, ?) RETURNING id`
	selectCommentsByPostSQL = `SELECT c.id, c.comment, COALESCE(c.author_id, 0), COALESCE(u.name, ''), COALESCE(u.email, ''), c.post_id
FROM comments c LEFT JOIN users u ON u.id = c.author_id
WHERE c.post_id = ?
ORDER BY c.id`
)

// Create stores a comment and returns its id.
func (r *CommentRepository) Create(ctx context.Context, c models.Comment) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx, rebind(r.dialect, insertCommentSQL), c.Body, c.AuthorID, c.PostID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert comment on post %d: %w", c.PostID, err)
	}
	return id, nil
}

// ListByPost returns a post's comments oldest first, with author name and email.
func (r *CommentRepository) ListByPost(ctx context.Context, postID int) ([]models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, rebind(r.dialect, selectCommentsByPostSQL), postID)
	if err != nil {
		return nil, fmt.Errorf("select comments of post %d: %w", postID, err)
	}
	defer rows.Close()

	var out []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.Body, &c.AuthorID, &c.AuthorName, &c.AuthorEmail, &c.PostID); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return out, nil
}
