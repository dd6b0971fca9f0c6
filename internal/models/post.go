package models

// Post is a blog article. Date is display text fixed at creation time.
type Post struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Subtitle   string    `json:"subtitle"`
	Date       string    `json:"date"`
	Body       string    `json:"body"` // rich text (HTML)
	ImgURL     string    `json:"img_url"`
	AuthorID   int       `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Comments   []Comment `json:"comments,omitempty"`
}
