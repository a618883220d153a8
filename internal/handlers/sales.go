package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"ingresso-platform/internal/middleware"
	"ingresso-platform/internal/services"
)

// SalesHandler serves the organizer sales report
type SalesHandler struct {
	orderService *services.OrderService
	logger       *logrus.Logger
}

// NewSalesHandler creates a new sales handler
func NewSalesHandler(orderService *services.OrderService, logger *logrus.Logger) *SalesHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &SalesHandler{orderService: orderService, logger: logger}
}

// List handles GET /api/organizer/sales
func (h *SalesHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())

	sales, err := h.orderService.ListOrganizerSales(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"sales": sales})
}
