package models

// Role is the capability class of an account.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

type User struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // don’t expose hash
	Role         Role   `json:"role"`
}

// IsAdmin reports whether the user may author, edit and delete posts.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
