package service

import "blog/internal/models"

// IdentityState is the outcome of resolving a session cookie.
type IdentityState int

const (
	// Anonymous: no session cookie was presented.
	Anonymous IdentityState = iota
	// Authenticated: the cookie maps to a live session of an existing user.
	Authenticated
	// Invalid: a cookie was presented but cannot be honoured (bad
	// signature, expired or revoked session, or the user is gone). The
	// caller is expected to force a logout.
	Invalid
)

func (s IdentityState) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Invalid:
		return "invalid"
	default:
		return "anonymous"
	}
}

// Identity is who the current request acts as.
type Identity struct {
	State     IdentityState
	User      *models.User
	SessionID string
}

// AnonymousIdentity is the sentinel for requests without a session.
var AnonymousIdentity = Identity{State: Anonymous}

func (i Identity) IsAuthenticated() bool {
	return i.State == Authenticated && i.User != nil
}

// CanManagePosts is the capability behind post authoring, editing and deletion.
func (i Identity) CanManagePosts() bool {
	return i.IsAuthenticated() && i.User.IsAdmin()
}

// UserID returns the authenticated user's id, or 0.
func (i Identity) UserID() int {
	if !i.IsAuthenticated() {
		return 0
	}
	return i.User.ID
}
