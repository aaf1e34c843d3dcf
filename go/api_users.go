package marketplaceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	usermapper "github.com/Apurer/gamerlink-api/internal/domains/users/adapters/http/mapper"
	userports "github.com/Apurer/gamerlink-api/internal/domains/users/ports"
)

// UserAPI implements the profile routes.
type UserAPI struct {
	service userports.Service
}

// NewUserAPI wires dependencies.
func NewUserAPI(service userports.Service) UserAPI {
	return UserAPI{service: service}
}

// Post /v1/users
// Register a profile
func (api *UserAPI) CreateUser(c *gin.Context) {
	var payload usermapper.CreateUser
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := api.service.CreateUser(c.Request.Context(), userports.CreateUserInput{
		Username:  payload.Username,
		Email:     payload.Email,
		Nickname:  payload.Nickname,
		AvatarURL: payload.AvatarURL,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, usermapper.FromDomainUser(user))
}

// Get /v1/users/:userId
// Public profile. The email address is withheld.
func (api *UserAPI) GetUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	user, err := api.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	profile := usermapper.FromDomainUser(user)
	profile.Email = ""
	profile.LastLoginAt = nil
	c.JSON(http.StatusOK, profile)
}

// Get /v1/users/me
func (api *UserAPI) GetCurrentUser(c *gin.Context) {
	user, err := api.service.GetUser(c.Request.Context(), currentSession(c).UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, usermapper.FromDomainUser(user))
}

// Put /v1/users/me
// Update the caller's nickname and avatar
func (api *UserAPI) UpdateCurrentUser(c *gin.Context) {
	var payload usermapper.UpdateProfile
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := api.service.UpdateUser(c.Request.Context(), userports.UpdateProfileInput{
		UserID:    currentSession(c).UserID,
		Nickname:  payload.Nickname,
		AvatarURL: payload.AvatarURL,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, usermapper.FromDomainUser(user))
}
