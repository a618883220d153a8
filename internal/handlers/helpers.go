package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"ingresso-platform/internal/models"
)

// errorResponse is the wire shape of every failure
type errorResponse struct {
	Kind         models.ErrorKind `json:"kind"`
	Message      string           `json:"message"`
	TicketTypeID int              `json:"ticket_type_id,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// respondError maps an error chain to its HTTP status and wire payload.
// Checkout failures carry the offending ticket type id so clients can point
// at the exact line item.
func respondError(w http.ResponseWriter, logger *logrus.Logger, err error) {
	kind := models.KindOf(err)

	resp := errorResponse{Kind: kind, Message: err.Error()}
	var checkoutErr *models.CheckoutError
	if errors.As(err, &checkoutErr) {
		resp.TicketTypeID = checkoutErr.TicketTypeID
	}

	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		logger.WithError(err).Error("Unhandled error")
		resp.Message = "internal error"
	}

	respondJSON(w, status, resp)
}

func statusFor(kind models.ErrorKind) int {
	switch kind {
	case models.KindUnauthenticated, models.KindUnknownIdentity:
		return http.StatusUnauthorized
	case models.KindInvalidRequest:
		return http.StatusBadRequest
	case models.KindForbidden:
		return http.StatusForbidden
	case models.KindNotFound, models.KindUnknownTicketType:
		return http.StatusNotFound
	case models.KindInsufficientInventory, models.KindLimitExceeded, models.KindTransactionConflict:
		return http.StatusConflict
	case models.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return models.ErrInvalidRequest
	}
	return nil
}
