package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"blog/internal/models"
	"blog/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerUser models.User
	registerErr  error
	loginSession service.Session
	loginErr     error
	logoutErr    error
	// identities by token; unknown tokens resolve to Anonymous
	identities  map[string]service.Identity
	resolveErr  error
	lastReg     service.Registration
	lastEmail   string
	lastPass    string
	logoutCalls []string
}

func (m *mockAuth) Register(ctx context.Context, in service.Registration) (models.User, error) {
	m.lastReg = in
	return m.registerUser, m.registerErr
}
func (m *mockAuth) Login(ctx context.Context, email, password string) (service.Session, error) {
	m.lastEmail = email
	m.lastPass = password
	return m.loginSession, m.loginErr
}
func (m *mockAuth) Logout(ctx context.Context, token string) error {
	m.logoutCalls = append(m.logoutCalls, token)
	return m.logoutErr
}
func (m *mockAuth) ResolveIdentity(ctx context.Context, token string) (service.Identity, error) {
	if m.resolveErr != nil {
		return service.Identity{}, m.resolveErr
	}
	if id, ok := m.identities[token]; ok {
		return id, nil
	}
	return service.AnonymousIdentity, nil
}

type mockPosts struct {
	list      []models.Post
	listErr   error
	post      models.Post
	getErr    error
	createID  int
	createErr error
	updateErr error
	deleteErr error

	lastAuthorID int
	lastEditorID int
	lastInput    service.PostInput
	lastID       int
	createCalls  int
	updateCalls  int
	deleteCalls  int
}

func (m *mockPosts) ListPosts(ctx context.Context) ([]models.Post, error) {
	return m.list, m.listErr
}
func (m *mockPosts) GetPost(ctx context.Context, id int) (models.Post, error) {
	m.lastID = id
	return m.post, m.getErr
}
func (m *mockPosts) CreatePost(ctx context.Context, authorID int, in service.PostInput) (int, error) {
	m.createCalls++
	m.lastAuthorID = authorID
	m.lastInput = in
	return m.createID, m.createErr
}
func (m *mockPosts) UpdatePost(ctx context.Context, id, editorID int, in service.PostInput) error {
	m.updateCalls++
	m.lastID = id
	m.lastEditorID = editorID
	m.lastInput = in
	return m.updateErr
}
func (m *mockPosts) DeletePost(ctx context.Context, id int) error {
	m.deleteCalls++
	m.lastID = id
	return m.deleteErr
}

type mockComments struct {
	id    int
	err   error
	calls int

	lastAuthorID int
	lastPostID   int
	lastBody     string
}

func (m *mockComments) AddComment(ctx context.Context, authorID, postID int, body string) (int, error) {
	m.calls++
	m.lastAuthorID = authorID
	m.lastPostID = postID
	m.lastBody = body
	return m.id, m.err
}

// ---- Shared Test Helpers ----

const (
	adminToken  = "admin-token"
	memberToken = "member-token"
	staleToken  = "stale-token"
)

func newMocks() (*mockAuth, *mockPosts, *mockComments) {
	auth := &mockAuth{identities: map[string]service.Identity{
		adminToken: {State: service.Authenticated, SessionID: "s1",
			User: &models.User{ID: 1, Name: "Ada", Email: "ada@x.com", Role: models.RoleAdmin}},
		memberToken: {State: service.Authenticated, SessionID: "s2",
			User: &models.User{ID: 2, Name: "Ann", Email: "ann@x.com", Role: models.RoleMember}},
		staleToken: {State: service.Invalid, SessionID: "s3"},
	}}
	return auth, &mockPosts{}, &mockComments{}
}

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, Options{CookieName: "session", SecretKey: "test-secret"})
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func doRequest(r http.Handler, method, path, token string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func cookieFrom(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func doRequestWith(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newBufferLogger(w io.Writer) *zap.SugaredLogger {
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), zapcore.DebugLevel)).Sugar()
}
