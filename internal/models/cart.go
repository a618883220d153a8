package models

import "errors"

// CartItem is one ticket type queued for checkout
type CartItem struct {
	TicketTypeID int `json:"ticket_type_id"`
	Quantity     int `json:"quantity"`
}

// Cart is the session-backed shopping cart. It holds intent only; prices
// and availability are resolved at checkout time.
type Cart struct {
	Items []CartItem `json:"items"`
}

// AddItem adds quantity for a ticket type, merging with an existing entry
func (c *Cart) AddItem(ticketTypeID, quantity int) error {
	if ticketTypeID <= 0 {
		return errors.New("ticket type id is required")
	}
	if quantity <= 0 {
		return errors.New("quantity must be a positive integer")
	}

	for i := range c.Items {
		if c.Items[i].TicketTypeID == ticketTypeID {
			c.Items[i].Quantity += quantity
			return nil
		}
	}

	c.Items = append(c.Items, CartItem{TicketTypeID: ticketTypeID, Quantity: quantity})
	return nil
}

// RemoveItem drops a ticket type from the cart
func (c *Cart) RemoveItem(ticketTypeID int) {
	for i := range c.Items {
		if c.Items[i].TicketTypeID == ticketTypeID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = nil
}

// IsEmpty returns true if the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
