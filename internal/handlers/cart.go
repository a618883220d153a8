package handlers

import (
	"encoding/gob"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"

	"ingresso-platform/internal/models"
)

func init() {
	// Carts travel inside the session cookie.
	gob.Register(&models.Cart{})
}

const (
	sessionName = "ingresso_session"
	cartKey     = "cart"
)

// CartHandler serves the session-backed shopping cart. The cart works for
// anonymous visitors; only checkout requires an account.
type CartHandler struct {
	store  sessions.Store
	logger *logrus.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(store sessions.Store, logger *logrus.Logger) *CartHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &CartHandler{store: store, logger: logger}
}

// Get handles GET /api/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, cart := h.loadCart(r)
	respondJSON(w, http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var item models.CartItem
	if err := decodeJSON(r, &item); err != nil {
		respondError(w, h.logger, err)
		return
	}

	session, cart := h.loadCart(r)
	if err := cart.AddItem(item.TicketTypeID, item.Quantity); err != nil {
		respondError(w, h.logger, fmt.Errorf("%w: %v", models.ErrInvalidRequest, err))
		return
	}

	if err := h.saveCart(w, r, session, cart); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/cart/items/{ticketTypeID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ticketTypeID, err := urlParamInt(r, "ticketTypeID")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	session, cart := h.loadCart(r)
	cart.RemoveItem(ticketTypeID)

	if err := h.saveCart(w, r, session, cart); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// Clear handles DELETE /api/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	session, cart := h.loadCart(r)
	cart.Clear()

	if err := h.saveCart(w, r, session, cart); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// ToCheckoutItems converts a stored cart to a checkout request payload
func ToCheckoutItems(cart *models.Cart) []models.CheckoutItem {
	items := make([]models.CheckoutItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, models.CheckoutItem{
			TicketTypeID: item.TicketTypeID,
			Quantity:     item.Quantity,
		})
	}
	return items
}

func (h *CartHandler) loadCart(r *http.Request) (*sessions.Session, *models.Cart) {
	// An undecodable cookie falls back to a fresh session.
	session, _ := h.store.Get(r, sessionName)

	if cart, ok := session.Values[cartKey].(*models.Cart); ok && cart != nil {
		return session, cart
	}
	return session, &models.Cart{}
}

func (h *CartHandler) saveCart(w http.ResponseWriter, r *http.Request, session *sessions.Session, cart *models.Cart) error {
	session.Values[cartKey] = cart
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
