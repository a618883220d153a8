package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"ingresso-platform/internal/middleware"
	"ingresso-platform/internal/services"
)

// PaymentHandler serves PIX charge creation and confirmation
type PaymentHandler struct {
	pixService *services.PixService
	logger     *logrus.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(pixService *services.PixService, logger *logrus.Logger) *PaymentHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &PaymentHandler{pixService: pixService, logger: logger}
}

type createChargeRequest struct {
	OrderID int `json:"order_id"`
}

type confirmChargeRequest struct {
	TxID string `json:"txid"`
}

// CreateCharge handles POST /api/pix
func (h *PaymentHandler) CreateCharge(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())

	var req createChargeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	charge, err := h.pixService.CreateCharge(r.Context(), claims.UserID, req.OrderID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, charge)
}

// ConfirmCharge handles POST /api/pix/confirm, the simulated provider
// callback. Unauthenticated: real providers sign callbacks instead of
// carrying user tokens.
func (h *PaymentHandler) ConfirmCharge(w http.ResponseWriter, r *http.Request) {
	var req confirmChargeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	order, err := h.pixService.ConfirmCharge(r.Context(), req.TxID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}
