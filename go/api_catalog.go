package marketplaceserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	catalogmapper "github.com/Apurer/gamerlink-api/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/Apurer/gamerlink-api/internal/domains/catalog/ports"
	apierrors "github.com/Apurer/gamerlink-api/internal/shared/errors"
)

// CatalogAPI implements the read-mostly catalog routes.
type CatalogAPI struct {
	service catalogports.Service
}

func NewCatalogAPI(service catalogports.Service) CatalogAPI {
	return CatalogAPI{service: service}
}

// Get /v1/services
func (api *CatalogAPI) ListServices(c *gin.Context) {
	services, err := api.service.ListServices(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromDomainServices(services))
}

// Get /v1/services/:serviceId
func (api *CatalogAPI) GetService(c *gin.Context) {
	serviceID, ok := pathID(c, "serviceId")
	if !ok {
		return
	}
	service, err := api.service.GetService(c.Request.Context(), serviceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromDomainService(service))
}

// Get /v1/categories
func (api *CatalogAPI) ListCategories(c *gin.Context) {
	categories, err := api.service.ListCategories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromDomainCategories(categories))
}

// Get /v1/categories/:name/services
func (api *CatalogAPI) ListServicesByCategory(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{"name": "is required"}))
		return
	}
	services, err := api.service.ListServicesByCategory(c.Request.Context(), name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromDomainServices(services))
}

// Get /v1/banners
func (api *CatalogAPI) ListBanners(c *gin.Context) {
	banners, err := api.service.ListBanners(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromDomainBanners(banners))
}

// Put /v1/admin/services/:serviceId
// Replace a service listing, derived rating fields included
func (api *CatalogAPI) UpdateService(c *gin.Context) {
	serviceID, ok := pathID(c, "serviceId")
	if !ok {
		return
	}
	var payload catalogmapper.ServiceUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	updated, err := api.service.UpdateService(c.Request.Context(), catalogmapper.ToDomainService(serviceID, payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromDomainService(updated))
}
