package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidUserID    = errors.New("user id must be positive")
	ErrInvalidServiceID = errors.New("service id must be positive")
)

// Favorite marks a service as saved by a user. Only presence matters.
type Favorite struct {
	UserID    int64
	ServiceID int64
	CreatedAt time.Time
}

// ValidateKey checks the composite key of a favorite.
func ValidateKey(userID, serviceID int64) error {
	if userID <= 0 {
		return ErrInvalidUserID
	}
	if serviceID <= 0 {
		return ErrInvalidServiceID
	}
	return nil
}

func NewFavorite(userID, serviceID int64, now time.Time) (*Favorite, error) {
	if err := ValidateKey(userID, serviceID); err != nil {
		return nil, err
	}
	return &Favorite{UserID: userID, ServiceID: serviceID, CreatedAt: now.UTC()}, nil
}
