// Package directory resolves review authors through the users bounded context.
package directory

import (
	"context"

	"github.com/Apurer/gamerlink-api/internal/domains/reviews/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/reviews/ports"
	userports "github.com/Apurer/gamerlink-api/internal/domains/users/ports"
)

var _ ports.AuthorDirectory = (*Users)(nil)

// Users adapts the user service to the review author directory.
type Users struct {
	users userports.Service
}

func NewUsers(users userports.Service) *Users {
	return &Users{users: users}
}

func (d *Users) Authors(ctx context.Context, userIDs []int64) (map[int64]domain.Author, error) {
	profiles, err := d.users.ProfilesByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	authors := make(map[int64]domain.Author, len(profiles))
	for id, u := range profiles {
		authors[id] = domain.Author{Username: u.Username, Nickname: u.Nickname, AvatarURL: u.AvatarURL}
	}
	return authors, nil
}
