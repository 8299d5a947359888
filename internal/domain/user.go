package domain

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	maxNameLen        = 50
	minPasswordLength = 6
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User represents a registered account.
type User struct {
	Base
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	IsAdmin      bool   `json:"is_admin"`
	PasswordHash string `json:"-"`
}

// NewUser validates the fields and builds a user. An empty password leaves
// the account without a usable password (SSO-provisioned users).
func NewUser(firstName, lastName, email, password string, isAdmin bool) (*User, error) {
	u := &User{
		Base:      newBase(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		IsAdmin:   isAdmin,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if password != "" {
		if err := u.HashPassword(password); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// Validate checks the user constraints and normalizes the fields in place.
func (u *User) Validate() error {
	var err error
	if u.FirstName, err = requireText("first_name", u.FirstName, maxNameLen); err != nil {
		return err
	}
	if u.LastName, err = requireText("last_name", u.LastName, maxNameLen); err != nil {
		return err
	}
	email, err := NormalizeEmail(u.Email)
	if err != nil {
		return err
	}
	u.Email = email
	return nil
}

// NormalizeEmail trims and lower-cases an e-mail address and checks its shape.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", invalid("email", "is required")
	}
	if !emailRe.MatchString(email) {
		return "", invalid("email", "must be a valid email address")
	}
	return email, nil
}

// HashPassword stores a bcrypt hash of the plaintext password.
func (u *User) HashPassword(password string) error {
	if len(password) < minPasswordLength {
		return invalid("password", "must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// VerifyPassword reports whether password matches the stored hash.
func (u *User) VerifyPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// UserRepository defines the port for user persistence operations.
type UserRepository interface {
	AddUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, u *User) error
	CountUsers(ctx context.Context) (int, error)
}
