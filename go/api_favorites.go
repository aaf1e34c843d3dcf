package marketplaceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	favoritemapper "github.com/Apurer/gamerlink-api/internal/domains/favorites/adapters/http/mapper"
	favoriteports "github.com/Apurer/gamerlink-api/internal/domains/favorites/ports"
	apierrors "github.com/Apurer/gamerlink-api/internal/shared/errors"
)

// FavoriteAPI implements the caller's favorite routes.
type FavoriteAPI struct {
	service favoriteports.Service
}

func NewFavoriteAPI(service favoriteports.Service) FavoriteAPI {
	return FavoriteAPI{service: service}
}

// Get /v1/users/me/favorites
// List favorite service ids, or the services themselves with ?expand=services
func (api *FavoriteAPI) GetFavorites(c *gin.Context) {
	expand, ok := queryString(c, "expand")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	userID := currentSession(c).UserID
	switch expand {
	case "":
		ids, err := api.service.GetFavoriteServiceIDs(ctx, userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, favoritemapper.FromFavoriteIDs(ids))
	case "services":
		services, err := api.service.GetFavoriteServices(ctx, userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, favoritemapper.FromFavoriteServices(services))
	default:
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{"expand": "must be empty or services"}))
	}
}

// Get /v1/users/me/favorites/:serviceId
func (api *FavoriteAPI) IsFavorite(c *gin.Context) {
	serviceID, ok := pathID(c, "serviceId")
	if !ok {
		return
	}
	active, err := api.service.IsFavorite(c.Request.Context(), currentSession(c).UserID, serviceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, favoritemapper.FavoriteStatus{ServiceID: serviceID, IsFavorite: active})
}

// Post /v1/users/me/favorites/:serviceId/toggle
// Flip the favorite state and report the new one
func (api *FavoriteAPI) ToggleFavorite(c *gin.Context) {
	serviceID, ok := pathID(c, "serviceId")
	if !ok {
		return
	}
	active, err := api.service.ToggleFavorite(c.Request.Context(), currentSession(c).UserID, serviceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, favoritemapper.FavoriteStatus{ServiceID: serviceID, IsFavorite: active})
}
