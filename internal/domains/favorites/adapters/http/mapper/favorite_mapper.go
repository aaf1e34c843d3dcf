package mapper

import (
	catalogmapper "github.com/Apurer/gamerlink-api/internal/domains/catalog/adapters/http/mapper"
	catalogdomain "github.com/Apurer/gamerlink-api/internal/domains/catalog/domain"
)

// FavoriteService is a catalog service seen from the user's favorites.
type FavoriteService struct {
	catalogmapper.Service
	IsFavorite bool `json:"isFavorite"`
}

// FavoriteStatus answers the toggle and lookup endpoints.
type FavoriteStatus struct {
	ServiceID  int64 `json:"serviceId"`
	IsFavorite bool  `json:"isFavorite"`
}

// FavoriteIDs lists the user's favorite service ids, newest first.
type FavoriteIDs struct {
	ServiceIDs []int64 `json:"serviceIds"`
}

func FromFavoriteServices(list []*catalogdomain.Service) []FavoriteService {
	out := make([]FavoriteService, 0, len(list))
	for _, s := range list {
		out = append(out, FavoriteService{Service: catalogmapper.FromDomainService(s), IsFavorite: true})
	}
	return out
}

func FromFavoriteIDs(ids []int64) FavoriteIDs {
	if ids == nil {
		ids = []int64{}
	}
	return FavoriteIDs{ServiceIDs: ids}
}
