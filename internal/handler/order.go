package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"courier/internal/domain"
	"courier/internal/service"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrderRequest is the HTTP request body for creating an order.
type CreateOrderRequest struct {
	ClientID        string  `json:"client_id"`
	PickupAddress   string  `json:"pickup_address"`
	DropoffAddress  string  `json:"dropoff_address"`
	TotalCost       float64 `json:"total_cost,omitempty"`
	AwaitingPayment bool    `json:"awaiting_payment,omitempty"`
}

// OrderResponse is the HTTP response for order data.
type OrderResponse struct {
	ID             string  `json:"id"`
	ClientID       string  `json:"client_id"`
	PickupAddress  string  `json:"pickup_address"`
	PickupLat      float64 `json:"pickup_lat,omitempty"`
	PickupLng      float64 `json:"pickup_lng,omitempty"`
	DropoffAddress string  `json:"dropoff_address"`
	DriverID       string  `json:"driver_id,omitempty"`
	DriverStatus   string  `json:"driver_status"`
	Status         string  `json:"status"`
	TotalCost      float64 `json:"total_cost,omitempty"`
}

// AssignmentResponse is the HTTP response for a successful driver assignment.
type AssignmentResponse struct {
	DriverID     string           `json:"driver_id"`
	DriverName   string           `json:"driver_name"`
	DistanceKm   float64          `json:"distance_km"`
	Notification *DispatchSummary `json:"notification,omitempty"`
}

// DispatchSummary is the HTTP representation of per-channel dispatch outcomes.
type DispatchSummary struct {
	SMS   ChannelSummary `json:"sms"`
	Email ChannelSummary `json:"email"`
}

// ChannelSummary is the HTTP representation of one channel outcome.
type ChannelSummary struct {
	Status     string `json:"status"`
	ProviderID string `json:"provider_id,omitempty"`
	Error      string `json:"error,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// NotifyRequest is the HTTP request body for re-dispatching an event.
type NotifyRequest struct {
	Event string `json:"event"`
}

func toOrderResponse(order *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:             order.ID,
		ClientID:       order.ClientID,
		PickupAddress:  order.PickupAddress,
		DropoffAddress: order.DropoffAddress,
		DriverID:       order.DriverID,
		DriverStatus:   string(order.DriverStatus),
		Status:         string(order.Status),
		TotalCost:      order.TotalCost,
	}
	if order.PickupResolved {
		resp.PickupLat = order.PickupLat
		resp.PickupLng = order.PickupLng
	}
	return resp
}

func toDispatchSummary(result *service.DispatchResult) *DispatchSummary {
	if result == nil {
		return nil
	}
	return &DispatchSummary{
		SMS:   toChannelSummary(result.SMS),
		Email: toChannelSummary(result.Email),
	}
}

func toChannelSummary(result service.ChannelResult) ChannelSummary {
	return ChannelSummary{
		Status:     string(result.Status),
		ProviderID: result.ProviderID,
		Error:      result.Error,
		Reason:     result.Reason,
	}
}

// CreateOrder handles POST /v1/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.orderService.CreateOrder(c.Request.Context(), service.CreateOrderRequest{
		ClientID:        req.ClientID,
		PickupAddress:   req.PickupAddress,
		DropoffAddress:  req.DropoffAddress,
		TotalCost:       req.TotalCost,
		AwaitingPayment: req.AwaitingPayment,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"order":           toOrderResponse(result.Order),
		"driver_assigned": result.DriverAssigned,
	}
	if result.Assignment != nil {
		resp["assignment"] = AssignmentResponse{
			DriverID:   result.Assignment.DriverID,
			DriverName: result.Assignment.DriverName,
			DistanceKm: result.Assignment.DistanceKm,
		}
	}
	respondJSON(c, http.StatusCreated, resp)
}

// GetOrder handles GET /v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toOrderResponse(order))
}

// GetAll handles GET /v1/orders
func (h *OrderHandler) GetAll(c *gin.Context) {
	orders, err := h.orderService.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		response = append(response, toOrderResponse(order))
	}
	respondJSON(c, http.StatusOK, response)
}

// AssignDriver handles POST /v1/orders/:id/assign
func (h *OrderHandler) AssignDriver(c *gin.Context) {
	outcome, err := h.orderService.AssignDriver(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, AssignmentResponse{
		DriverID:     outcome.Assignment.DriverID,
		DriverName:   outcome.Assignment.DriverName,
		DistanceKm:   outcome.Assignment.DistanceKm,
		Notification: toDispatchSummary(outcome.Notification),
	})
}

// MarkPickedUp handles POST /v1/orders/:id/pickup
func (h *OrderHandler) MarkPickedUp(c *gin.Context) {
	order, err := h.orderService.MarkPickedUp(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toOrderResponse(order))
}

// MarkDelivered handles POST /v1/orders/:id/deliver
func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	order, err := h.orderService.MarkDelivered(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toOrderResponse(order))
}

// CancelOrder handles POST /v1/orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	order, err := h.orderService.CancelOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toOrderResponse(order))
}

// Notify handles POST /v1/orders/:id/notify
func (h *OrderHandler) Notify(c *gin.Context) {
	var req NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	event, err := service.ParseEventType(req.Event)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.orderService.Notify(c.Request.Context(), event, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toDispatchSummary(result))
}
