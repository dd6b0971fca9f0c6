package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"blog/internal/models"
	"blog/internal/repository/db"
)

type PostRepository struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewPostRepository(sqlDB *sql.DB, dialect db.Dialect) *PostRepository {
	return &PostRepository{db: sqlDB, dialect: dialect}
}

var _ Posts = (*PostRepository)(nil)

const (
	selectPostsSQL = `SELECT p.id, p.title, p.subtitle, p.date, p.body, p.img_url, COALESCE(p.author_id, 0), COALESCE(u.name, '')
FROM blog_posts p LEFT JOIN users u ON u.id = p.author_id
ORDER BY p.id`
	selectPostByIDSQL = `SELECT p.id, p.title, p.subtitle, p.date, p.body, p.img_url, COALESCE(p.author_id, 0), COALESCE(u.name, '')
FROM blog_posts p LEFT JOIN users u ON u.id = p.author_id
WHERE p.id = ?`
	insertPostSQL = `INSERT INTO blog_posts (title, subtitle, date, body, author_id, img_url)
VALUES (?, ?, ?, ?, ?, ?) RETURNING id`
	updatePostSQL         = `UPDATE blog_posts SET title = ?, subtitle = ?, body = ?, img_url = ?, author_id = ? WHERE id = ?`
	deletePostCommentsSQL = `DELETE FROM comments WHERE post_id = ?`
	deletePostSQL         = `DELETE FROM blog_posts WHERE id = ?`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(s rowScanner) (models.Post, error) {
	var p models.Post
	err := s.Scan(&p.ID, &p.Title, &p.Subtitle, &p.Date, &p.Body, &p.ImgURL, &p.AuthorID, &p.AuthorName)
	return p, err
}

// List returns every post in insertion order with its author's name.
func (r *PostRepository) List(ctx context.Context) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, rebind(r.dialect, selectPostsSQL))
	if err != nil {
		return nil, fmt.Errorf("select posts: %w", err)
	}
	defer rows.Close()

	out := make([]models.Post, 0, 16)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return out, nil
}

// GetByID fetches a post without its comments. Returns (nil, nil) if not found.
func (r *PostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, rebind(r.dialect, selectPostByIDSQL), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select post %d: %w", id, err)
	}
	return &p, nil
}

// Create stores a post and returns its id. A taken title yields ErrDuplicate.
func (r *PostRepository) Create(ctx context.Context, p models.Post) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx, rebind(r.dialect, insertPostSQL),
		p.Title, p.Subtitle, p.Date, p.Body, p.AuthorID, p.ImgURL).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert post %q: %w", p.Title, ErrDuplicate)
		}
		return 0, fmt.Errorf("insert post %q: %w", p.Title, err)
	}
	return id, nil
}

// Update overwrites the editable fields of post p.ID. Date is left as stored.
func (r *PostRepository) Update(ctx context.Context, p models.Post) error {
	res, err := r.db.ExecContext(ctx, rebind(r.dialect, updatePostSQL),
		p.Title, p.Subtitle, p.Body, p.ImgURL, p.AuthorID, p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update post %d: %w", p.ID, ErrDuplicate)
		}
		return fmt.Errorf("update post %d: %w", p.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for post %d: %w", p.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("update post %d: %w", p.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a post together with its comments in one transaction.
func (r *PostRepository) Delete(ctx context.Context, id int) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete post %d: %w", id, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, rebind(r.dialect, deletePostCommentsSQL), id); err != nil {
		return fmt.Errorf("delete comments of post %d: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, rebind(r.dialect, deletePostSQL), id)
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for post %d: %w", id, err)
	}
	if n == 0 {
		err = fmt.Errorf("delete post %d: %w", id, ErrNotFound)
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete post %d: %w", id, err)
	}
	return nil
}
