package mapper

import (
	"time"

	userdomain "github.com/Apurer/gamerlink-api/internal/domains/users/domain"
)

// User represents the transport-level user payload. The password hash never leaves the service.
type User struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email,omitempty"`
	Nickname    string     `json:"nickname"`
	AvatarURL   string     `json:"avatarUrl,omitempty"`
	IsAdmin     bool       `json:"isAdmin"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// CreateUser is the registration payload.
type CreateUser struct {
	Username  string `json:"username" binding:"required,max=64"`
	Email     string `json:"email" binding:"required,email"`
	Nickname  string `json:"nickname" binding:"max=64"`
	AvatarURL string `json:"avatarUrl" binding:"omitempty,url"`
}

// UpdateProfile is the self-service profile edit payload.
type UpdateProfile struct {
	Nickname  string `json:"nickname" binding:"max=64"`
	AvatarURL string `json:"avatarUrl" binding:"omitempty,url"`
}

// FromDomainUser converts a domain user into a transport representation.
func FromDomainUser(user *userdomain.User) User {
	if user == nil {
		return User{}
	}
	return User{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Nickname:    user.DisplayName(),
		AvatarURL:   user.AvatarURL,
		IsAdmin:     user.IsAdmin,
		CreatedAt:   user.CreatedAt,
		LastLoginAt: user.LastLoginAt,
	}
}
