package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User represents a registered account
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never exposed
	Theme        string    `json:"theme"`
	IsAdmin      bool      `json:"isAdmin"`
	ShareToken   *string   `json:"-"` // Exposed only through the share endpoints
	ShowMap      bool      `json:"showMap"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DefaultTheme is assigned to new accounts
const DefaultTheme = "pokemon"

// ValidThemes lists the selectable display themes
var ValidThemes = map[string]bool{
	"pokemon": true,
	"dark":    true,
	"white":   true,
}

// NewUser creates a user with a hashed password
func NewUser(username, password string) (*User, error) {
	username = strings.TrimSpace(username)

	if len(username) < 3 {
		return nil, ErrUsernameTooShort
	}
	if len(password) < 6 {
		return nil, ErrPasswordTooShort
	}

	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New().String(),
		Username:  username,
		Theme:     DefaultTheme,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	return user, nil
}

// SetPassword hashes and sets the user's password using bcrypt (cost 12)
func (u *User) SetPassword(password string) error {
	if len(password) < 6 {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	return nil
}

// VerifyPassword checks the password against the stored hash (constant-time via bcrypt)
func (u *User) VerifyPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SessionInfo is the response shape for the current-user endpoint
type SessionInfo struct {
	LoggedIn bool   `json:"logged_in"`
	Username string `json:"username,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	Theme    string `json:"theme,omitempty"`
	IsAdmin  bool   `json:"is_admin,omitempty"`
}

// User errors
var (
	ErrUsernameTooShort = UserError{"username must be at least 3 characters"}
	ErrPasswordTooShort = UserError{"password must be at least 6 characters"}
	ErrUsernameTaken    = UserError{"username already exists"}
	ErrInvalidTheme     = UserError{"invalid theme"}
	ErrUserNotFound     = UserError{"user not found"}
	ErrBadCredentials   = UserError{"invalid username or password"}
)

type UserError struct {
	Message string
}

func (e UserError) Error() string {
	return e.Message
}
