package models

type Comment struct {
	ID          int    `json:"id"`
	Body        string `json:"body"`
	AuthorID    int    `json:"author_id"`
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"-"` // gravatar only
	PostID      int    `json:"post_id"`
}
