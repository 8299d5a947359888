package app

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hbnb/internal/domain"
)

var (
	// ErrInvalidToken indicates that an access token is malformed, expired or
	// names a user that no longer exists.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrUsersExist indicates that the initial admin can no longer be created.
	ErrUsersExist = errors.New("users already exist")
)

// DefaultTokenTTL is the access token lifetime when none is configured.
const DefaultTokenTTL = time.Hour

// maxDefaultName matches the user name length limit.
const maxDefaultName = 50

type tokenClaims struct {
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

// AuthService handles authentication and access tokens.
type AuthService struct {
	facade *Facade
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthService creates a new authentication service. Tokens are signed
// with HS256 using secret.
func NewAuthService(f *Facade, secret []byte, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &AuthService{
		facade: f,
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Register creates a regular (non-admin) account. Missing names default to
// the local part of the e-mail address.
func (s *AuthService) Register(ctx context.Context, email, password, firstName, lastName string) (*domain.User, error) {
	if password == "" {
		return nil, &domain.ValidationError{Field: "password", Message: "is required"}
	}
	first, last := defaultNames(email, firstName, lastName)
	return s.facade.CreateUser(ctx, UserInput{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Password:  password,
	})
}

// Login checks the credentials and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.facade.GetUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if !user.VerifyPassword(password) {
		return "", domain.ErrInvalidCredentials
	}
	return s.IssueToken(user)
}

// IssueToken signs an access token for user.
func (s *AuthService) IssueToken(user *domain.User) (string, error) {
	now := s.now()
	claims := tokenClaims{
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies an access token and resolves the caller. The admin
// flag is re-read from the user record so revoked privileges take effect
// before the token expires.
func (s *AuthService) ParseToken(ctx context.Context, raw string) (*domain.Claims, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	user, err := s.facade.GetUser(ctx, claims.Subject)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}

	return &domain.Claims{
		UserID:    user.ID,
		IsAdmin:   user.IsAdmin,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// CreateInitialAdmin creates the first user, as an admin, if no users exist.
func (s *AuthService) CreateInitialAdmin(ctx context.Context, email, password string) (*domain.User, error) {
	count, err := s.facade.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUsersExist
	}
	return s.facade.CreateUser(ctx, UserInput{
		FirstName: "Admin",
		LastName:  "Admin",
		Email:     email,
		Password:  password,
		IsAdmin:   true,
	})
}

// LoginWithUser issues a token for an already authenticated identity (e.g.
// via SSO), provisioning a passwordless account on first sight.
func (s *AuthService) LoginWithUser(ctx context.Context, email, firstName, lastName string) (string, error) {
	user, err := s.facade.GetUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		first, last := defaultNames(email, firstName, lastName)
		user, err = s.facade.CreateUser(ctx, UserInput{FirstName: first, LastName: last, Email: email})
		if errors.Is(err, domain.ErrEmailTaken) {
			// Lost a race with a concurrent first login.
			user, err = s.facade.GetUserByEmail(ctx, email)
		}
	}
	if err != nil {
		return "", err
	}
	return s.IssueToken(user)
}

// defaultNames fills in names the caller did not supply from the e-mail
// local part.
func defaultNames(email, first, last string) (string, string) {
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	if first == "" {
		first, _, _ = strings.Cut(strings.TrimSpace(email), "@")
		if r := []rune(first); len(r) > maxDefaultName {
			first = string(r[:maxDefaultName])
		}
	}
	if last == "" {
		last = first
	}
	return first, last
}

// GenerateSecret returns a random signing secret for deployments that do not
// configure one.
func GenerateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// ConstantTimeCompare performs a constant-time comparison of two strings.
func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
