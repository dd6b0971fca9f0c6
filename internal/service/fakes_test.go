package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"blog/internal/models"
	"blog/internal/repository"
)

// fakeUsers is an in-memory repository.Users.
type fakeUsers struct {
	mu     sync.Mutex
	byID   map[int]models.User
	nextID int
	err    error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[int]models.User{}, nextID: 1}
}

func (f *fakeUsers) Create(_ context.Context, name, email, hash string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.User{}, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			return models.User{}, repository.ErrDuplicate
		}
	}
	role := models.RoleMember
	if len(f.byID) == 0 {
		role = models.RoleAdmin
	}
	u := models.User{ID: f.nextID, Name: name, Email: email, PasswordHash: hash, Role: role}
	f.byID[u.ID] = u
	f.nextID++
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeUsers) delete(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
}

// fakeSessions is an in-memory repository.Sessions.
type fakeSessions struct {
	mu   sync.Mutex
	byID map[string]models.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byID: map[string]models.Session{}}
}

func (f *fakeSessions) Create(_ context.Context, s models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSessions) Get(_ context.Context, id string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeSessions) Revoke(_ context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok || s.RevokedAt != nil {
		return nil
	}
	s.RevokedAt = &at
	f.byID[id] = s
	return nil
}

// fakePosts is an in-memory repository.Posts with comment storage, so
// deletes can drop comments the way the real store does.
type fakePosts struct {
	mu       sync.Mutex
	posts    map[int]models.Post
	comments map[int]models.Comment
	nextPost int
	nextCmt  int
}

func newFakePosts() *fakePosts {
	return &fakePosts{posts: map[int]models.Post{}, comments: map[int]models.Comment{}, nextPost: 1, nextCmt: 1}
}

func (f *fakePosts) List(_ context.Context) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Post, 0, len(f.posts))
	for _, p := range f.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePosts) GetByID(_ context.Context, id int) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakePosts) Create(_ context.Context, p models.Post) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.posts {
		if existing.Title == p.Title {
			return 0, repository.ErrDuplicate
		}
	}
	p.ID = f.nextPost
	f.nextPost++
	f.posts[p.ID] = p
	return p.ID, nil
}

func (f *fakePosts) Update(_ context.Context, p models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.posts[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for id, existing := range f.posts {
		if id != p.ID && existing.Title == p.Title {
			return repository.ErrDuplicate
		}
	}
	p.Date = cur.Date
	f.posts[p.ID] = p
	return nil
}

func (f *fakePosts) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return repository.ErrNotFound
	}
	for cid, c := range f.comments {
		if c.PostID == id {
			delete(f.comments, cid)
		}
	}
	delete(f.posts, id)
	return nil
}

// Comments view of the same store.
func (f *fakePosts) commentsRepo() *fakeComments { return &fakeComments{store: f} }

type fakeComments struct{ store *fakePosts }

func (c *fakeComments) Create(_ context.Context, cm models.Comment) (int, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	cm.ID = c.store.nextCmt
	c.store.nextCmt++
	c.store.comments[cm.ID] = cm
	return cm.ID, nil
}

func (c *fakeComments) ListByPost(_ context.Context, postID int) ([]models.Comment, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	var out []models.Comment
	for _, cm := range c.store.comments {
		if cm.PostID == postID {
			out = append(out, cm)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var (
	_ repository.Users    = (*fakeUsers)(nil)
	_ repository.Sessions = (*fakeSessions)(nil)
	_ repository.Posts    = (*fakePosts)(nil)
	_ repository.Comments = (*fakeComments)(nil)
)
