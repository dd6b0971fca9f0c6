package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"blog/internal/models"
	"blog/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Domain errors for auth flows.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Registration is a validated sign-up submission.
type Registration struct {
	Name     string
	Email    string
	Password string
}

// Session is what the transport layer stores in the session cookie.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// AuthService handles registration, login and per-request identity.
type AuthService struct {
	users    repository.Users
	sessions repository.Sessions
	hasher   PasswordHasher
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewAuthService(users repository.Users, sessions repository.Sessions, opts Options) *AuthService {
	opts = opts.withDefaults()
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   opts.Hasher,
		secret:   []byte(opts.SecretKey),
		ttl:      opts.SessionTTL,
		now:      opts.Now,
	}
}

// Claims defines JWT claims. RegisteredClaims.ID carries the session id.
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"user_id"`
}

// Register hashes the password and stores a new user. The first account
// stored becomes the administrator.
func (s *AuthService) Register(ctx context.Context, in Registration) (models.User, error) {
	email := normalizeEmail(in.Email)

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return models.User{}, err
	}
	if existing != nil {
		return models.User{}, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("invalid password: %w", err)
	}

	u, err := s.users.Create(ctx, strings.TrimSpace(in.Name), email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return u, nil
}

// Login checks credentials and opens a session. An unknown email and a
// wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return Session{}, err
	}
	if u == nil || !s.hasher.Verify(u.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}

	now := s.now().UTC()
	rec := models.Session{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, rec); err != nil {
		return Session{}, err
	}

	token, err := s.issueToken(rec)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: rec.ExpiresAt}, nil
}

// Logout revokes the session named by token. Tokens that cannot be read
// have nothing to revoke and are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.parseToken(token, jwt.WithoutClaimsValidation())
	if err != nil || claims.ID == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, claims.ID, s.now())
}

// ResolveIdentity maps a session token to the identity the request acts
// as. Only store failures are returned as errors.
func (s *AuthService) ResolveIdentity(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return AnonymousIdentity, nil
	}

	claims, err := s.parseToken(token, jwt.WithTimeFunc(s.now))
	if err != nil || claims.ID == "" {
		return Identity{State: Invalid}, nil
	}

	sess, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return Identity{}, err
	}
	if sess == nil || sess.UserID != claims.UserID || !sess.Active(s.now()) {
		return Identity{State: Invalid, SessionID: claims.ID}, nil
	}

	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return Identity{}, err
	}
	if u == nil {
		return Identity{State: Invalid, SessionID: claims.ID}, nil
	}
	return Identity{State: Authenticated, User: u, SessionID: sess.ID}, nil
}

func (s *AuthService) issueToken(rec models.Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        rec.ID,
			IssuedAt:  jwt.NewNumericDate(rec.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(rec.ExpiresAt),
		},
		UserID: rec.UserID,
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) parseToken(raw string, opts ...jwt.ParserOption) (*Claims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
