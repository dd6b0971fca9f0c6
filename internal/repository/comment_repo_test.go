package repository

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"testing"

	"blog/internal/models"
	"blog/internal/repository/db"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCommentRepository_Create(t *testing.T) {
	sqlDB, mock := newMockDB(t)
	repo := NewCommentRepository(sqlDB, db.DialectSQLite)

	mock.ExpectQuery(regexp.QuoteMeta(insertCommentSQL)).
		WithArgs("<p>nice</p>", 2, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	id, err := repo.Create(context.Background(), models.Comment{Body: "<p>nice</p>", AuthorID: 2, PostID: 1})
	if err != nil || id != 11 {
		t.Fatalf("Create = (%d, %v), want (11, nil)", id, err)
	}
}

func TestCommentRepository_Create_Error(t *testing.T) {
	sqlDB, mock := newMockDB(t)
	repo := NewCommentRepository(sqlDB, db.DialectSQLite)

	mock.ExpectQuery(regexp.QuoteMeta(insertCommentSQL)).WillReturnError(errors.New("fk"))

	_, err := repo.Create(context.Background(), models.Comment{Body: "x", AuthorID: 2, PostID: 99})
	assertErr(t, err, true, "insert comment on post 99")
}

func TestCommentRepository_ListByPost(t *testing.T) {
	sqlDB, mock := newMockDB(t)
	repo := NewCommentRepository(sqlDB, db.DialectSQLite)

	mock.ExpectQuery(regexp.QuoteMeta(selectCommentsByPostSQL)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "comment", "author_id", "name", "email", "post_id"}).
			AddRow(1, "first", 2, "Ann", "ann@x.com", 1).
			AddRow(2, "second", 1, "Ada", "ada@x.com", 1))

	got, err := repo.ListByPost(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListByPost: %v", err)
	}
	want := []models.Comment{
		{ID: 1, Body: "first", AuthorID: 2, AuthorName: "Ann", AuthorEmail: "ann@x.com", PostID: 1},
		{ID: 2, Body: "second", AuthorID: 1, AuthorName: "Ada", AuthorEmail: "ada@x.com", PostID: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("comments mismatch:\n got=%+v\nwant=%+v", got, want)
	}
}
