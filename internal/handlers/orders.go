package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"ingresso-platform/internal/middleware"
	"ingresso-platform/internal/models"
	"ingresso-platform/internal/services"
)

// OrderHandler serves checkout and order retrieval
type OrderHandler struct {
	checkoutService *services.CheckoutService
	orderService    *services.OrderService
	logger          *logrus.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(checkoutService *services.CheckoutService, orderService *services.OrderService, logger *logrus.Logger) *OrderHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &OrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
		logger:          logger,
	}
}

// Create handles POST /api/orders, the checkout itself
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())

	var req models.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	order, err := h.checkoutService.PlaceOrder(r.Context(), claims.UserID, &req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

// List handles GET /api/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())

	orders, err := h.orderService.ListUserOrders(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

// Get handles GET /api/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())

	id, err := urlParamInt(r, "id")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), claims.UserID, id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// Cancel handles POST /api/orders/{id}/cancel
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())

	id, err := urlParamInt(r, "id")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	order, err := h.orderService.CancelOrder(r.Context(), claims.UserID, id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}
