package marketplaceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/gamerlink-api/internal/platform/identity"
)

// Access is the minimum identity a route demands.
type Access int

const (
	Public Access = iota
	Authenticated
	Admin
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	Access      Access
}

// ApiHandleFunctions groups the handlers of every bounded context.
type ApiHandleFunctions struct {
	OrderAPI    OrderAPI
	ReviewAPI   ReviewAPI
	FavoriteAPI FavoriteAPI
	CatalogAPI  CatalogAPI
	UserAPI     UserAPI
}

// RouterOptions carries the cross-cutting collaborators of the API routes.
type RouterOptions struct {
	// Identity resolves the caller. Nil leaves every request anonymous.
	Identity identity.Provider
	// Initializer is consulted before every API route.
	Initializer Initializer
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions, opts RouterOptions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions, opts)
}

// NewRouterWithGinEngine add routes to existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, opts RouterOptions) *gin.Engine {
	useJSONFieldNames()
	router.Use(RequestID())
	router.GET("/healthz", Healthz)

	api := router.Group("/v1")
	api.Use(identity.Middleware(opts.Identity), RequireInitialized(opts.Initializer))
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := make([]gin.HandlerFunc, 0, 2)
		switch route.Access {
		case Authenticated:
			handlers = append(handlers, identity.RequireUser())
		case Admin:
			handlers = append(handlers, identity.RequireAdmin())
		}
		handlers = append(handlers, route.HandlerFunc)
		api.Handle(route.Method, route.Pattern, handlers...)
	}
	return router
}

// Default handler for not yet implemented routes
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// Healthz reports liveness only. Storage readiness is handled per request.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"CreateOrder", http.MethodPost, "/orders", handleFunctions.OrderAPI.CreateOrder, Authenticated},
		{"GetOrderById", http.MethodGet, "/orders/:orderId", handleFunctions.OrderAPI.GetOrderById, Authenticated},
		{"MarkOrderAsPaid", http.MethodPost, "/orders/:orderId/pay", handleFunctions.OrderAPI.MarkOrderAsPaid, Authenticated},
		{"TransitionOrder", http.MethodPost, "/orders/:orderId/transitions", handleFunctions.OrderAPI.TransitionOrder, Authenticated},
		{"GetOrdersByUser", http.MethodGet, "/users/me/orders", handleFunctions.OrderAPI.GetOrdersByUser, Authenticated},
		{"GetAllOrders", http.MethodGet, "/admin/orders", handleFunctions.OrderAPI.GetAllOrders, Admin},
		{"UpdateOrderStatus", http.MethodPatch, "/admin/orders/:orderId/status", handleFunctions.OrderAPI.UpdateOrderStatus, Admin},

		{"GetReviewByOrderId", http.MethodGet, "/orders/:orderId/review", handleFunctions.ReviewAPI.GetReviewByOrderId, Public},
		{"SubmitReview", http.MethodPost, "/orders/:orderId/review", handleFunctions.ReviewAPI.SubmitReview, Authenticated},
		{"GetServiceReviews", http.MethodGet, "/services/:serviceId/reviews", handleFunctions.ReviewAPI.GetServiceReviews, Public},
		{"RecomputeRating", http.MethodPost, "/admin/services/:serviceId/rating/recompute", handleFunctions.ReviewAPI.RecomputeRating, Admin},

		{"GetFavorites", http.MethodGet, "/users/me/favorites", handleFunctions.FavoriteAPI.GetFavorites, Authenticated},
		{"IsFavorite", http.MethodGet, "/users/me/favorites/:serviceId", handleFunctions.FavoriteAPI.IsFavorite, Authenticated},
		{"ToggleFavorite", http.MethodPost, "/users/me/favorites/:serviceId/toggle", handleFunctions.FavoriteAPI.ToggleFavorite, Authenticated},

		{"ListServices", http.MethodGet, "/services", handleFunctions.CatalogAPI.ListServices, Public},
		{"GetService", http.MethodGet, "/services/:serviceId", handleFunctions.CatalogAPI.GetService, Public},
		{"ListCategories", http.MethodGet, "/categories", handleFunctions.CatalogAPI.ListCategories, Public},
		{"ListServicesByCategory", http.MethodGet, "/categories/:name/services", handleFunctions.CatalogAPI.ListServicesByCategory, Public},
		{"ListBanners", http.MethodGet, "/banners", handleFunctions.CatalogAPI.ListBanners, Public},
		{"UpdateService", http.MethodPut, "/admin/services/:serviceId", handleFunctions.CatalogAPI.UpdateService, Admin},

		{"GetCurrentUser", http.MethodGet, "/users/me", handleFunctions.UserAPI.GetCurrentUser, Authenticated},
		{"UpdateCurrentUser", http.MethodPut, "/users/me", handleFunctions.UserAPI.UpdateCurrentUser, Authenticated},
		{"GetUser", http.MethodGet, "/users/:userId", handleFunctions.UserAPI.GetUser, Public},
		{"CreateUser", http.MethodPost, "/users", handleFunctions.UserAPI.CreateUser, Public},
	}
}
