package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyUsername = errors.New("username is required")
	ErrInvalidEmail  = errors.New("email must contain '@'")
	ErrNicknameSize  = errors.New("nickname must be at most 64 characters")
)

const maxNicknameLength = 64

// User is a marketplace account as seen by the profile directory.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Nickname     string
	AvatarURL    string
	IsAdmin      bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// NewUser builds a user ensuring required invariants.
func NewUser(username, email string) (*User, error) {
	user := &User{}
	if err := user.SetUsername(username); err != nil {
		return nil, err
	}
	if err := user.SetEmail(email); err != nil {
		return nil, err
	}
	return user, nil
}

// SetUsername trims and validates the username.
func (u *User) SetUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}
	u.Username = username
	return nil
}

// SetEmail stores the address lowercased.
func (u *User) SetEmail(email string) error {
	email = NormalizeEmail(email)
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	u.Email = email
	return nil
}

// UpdateProfile applies the editable profile fields. A blank nickname falls back to the username.
func (u *User) UpdateProfile(nickname, avatarURL string) error {
	nickname = strings.TrimSpace(nickname)
	if len([]rune(nickname)) > maxNicknameLength {
		return ErrNicknameSize
	}
	if nickname == "" {
		nickname = u.Username
	}
	u.Nickname = nickname
	u.AvatarURL = strings.TrimSpace(avatarURL)
	return nil
}

// DisplayName is the name shown next to a user's reviews.
func (u *User) DisplayName() string {
	if strings.TrimSpace(u.Nickname) != "" {
		return u.Nickname
	}
	return u.Username
}

// Validate re-applies core invariants for persistence.
func (u *User) Validate() error {
	if err := u.SetUsername(u.Username); err != nil {
		return err
	}
	if err := u.SetEmail(u.Email); err != nil {
		return err
	}
	if len([]rune(u.Nickname)) > maxNicknameLength {
		return ErrNicknameSize
	}
	return nil
}

// Clone returns a copy safe to hand across adapters.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		clone.LastLoginAt = &t
	}
	return &clone
}

// NormalizeEmail trims and lowercases an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
