package marketplaceserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	catalogports "github.com/Apurer/gamerlink-api/internal/domains/catalog/ports"
	ordermapper "github.com/Apurer/gamerlink-api/internal/domains/orders/adapters/http/mapper"
	orderdomain "github.com/Apurer/gamerlink-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/gamerlink-api/internal/domains/orders/ports"
	apierrors "github.com/Apurer/gamerlink-api/internal/shared/errors"
)

// OrderAPI implements the order routes.
type OrderAPI struct {
	orders  orderports.Service
	catalog catalogports.Service
}

// NewOrderAPI wires dependencies. The catalog prices new orders.
func NewOrderAPI(orders orderports.Service, catalog catalogports.Service) OrderAPI {
	return OrderAPI{orders: orders, catalog: catalog}
}

// Post /v1/orders
// Place an order for a service at its current price
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload ordermapper.CreateOrder
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	ctx := c.Request.Context()
	service, err := api.catalog.GetService(ctx, payload.ServiceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	order, err := api.orders.CreateOrder(ctx, orderports.CreateOrderInput{
		ServiceID:  service.ID,
		BuyerID:    currentSession(c).UserID,
		TotalPrice: service.Price,
		OrderDate:  time.Now().UTC(),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ordermapper.FromDomainOrder(order))
}

// Get /v1/orders/:orderId
// Find an order. Administrators may read any order.
func (api *OrderAPI) GetOrderById(c *gin.Context) {
	order, ok := api.ownedOrder(c, true)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrder(order))
}

// Post /v1/orders/:orderId/pay
// Mark an order as paid
func (api *OrderAPI) MarkOrderAsPaid(c *gin.Context) {
	order, ok := api.ownedOrder(c, false)
	if !ok {
		return
	}
	paid, err := api.orders.MarkOrderAsPaid(c.Request.Context(), order.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrder(paid))
}

// Post /v1/orders/:orderId/transitions
// Move an order along its lifecycle
func (api *OrderAPI) TransitionOrder(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}
	var payload ordermapper.Transition
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	target, err := orderdomain.ParseStatus(payload.Status)
	if err != nil {
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{"status": err.Error()}))
		return
	}
	order, err := api.orders.Transition(c.Request.Context(), orderports.TransitionInput{
		OrderID: orderID,
		ActorID: currentSession(c).UserID,
		Target:  target,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrder(order))
}

// Get /v1/users/me/orders
// List the caller's orders, newest first
func (api *OrderAPI) GetOrdersByUser(c *gin.Context) {
	orders, err := api.orders.GetOrdersByUser(c.Request.Context(), currentSession(c).UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrders(orders))
}

// Get /v1/admin/orders
func (api *OrderAPI) GetAllOrders(c *gin.Context) {
	orders, err := api.orders.GetAllOrders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrders(orders))
}

// Patch /v1/admin/orders/:orderId/status
// Override an order's status without transition checks
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}
	var payload ordermapper.StatusOverride
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	status, err := orderdomain.ParseStatus(payload.Status)
	if err != nil {
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{"status": err.Error()}))
		return
	}
	result, err := api.orders.UpdateOrderStatus(c.Request.Context(), orderports.UpdateStatusInput{
		OrderID:           orderID,
		ActorID:           currentSession(c).UserID,
		Status:            status,
		PaymentDate:       payload.PaymentDate,
		CompletionDate:    payload.CompletionDate,
		RefundRequestDate: payload.RefundRequestDate,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrder(result.Order))
}

// ownedOrder loads the order named in the path. Orders of other buyers are reported as missing.
func (api *OrderAPI) ownedOrder(c *gin.Context, adminMayRead bool) (*orderdomain.Order, bool) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return nil, false
	}
	order, err := api.orders.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	session := currentSession(c)
	if order.BuyerID != session.UserID && !(adminMayRead && session.IsAdmin) {
		respondProblem(c, apierrors.NewNotFoundProblem("order", orderID))
		return nil, false
	}
	return order, true
}
