package store

import (
	"backend/internal/catalog"
)

// Cart is the per-user shopping cart, persisted as a JSON blob on the
// user record. Total is always recomputed from the items.
type Cart struct {
	Items []catalog.Product `json:"items"`
	Total float64           `json:"total"`
}

// Recalculate restores the total invariant after any mutation.
func (c *Cart) Recalculate() {
	total := 0.0
	for _, item := range c.Items {
		total += item.Price
	}
	c.Total = total
}

// Contains reports whether a product with the same URL is already a
// line item. Carts dedup by URL, not by list position.
func (c *Cart) Contains(url string) bool {
	for _, item := range c.Items {
		if item.URL == url {
			return true
		}
	}
	return false
}

// Order is an immutable snapshot of the cart taken at confirmation.
type Order struct {
	OrderID           string            `json:"order_id"`
	UserID            string            `json:"user_id"`
	Items             []catalog.Product `json:"items"`
	Total             float64           `json:"total"`
	Status            string            `json:"status"`
	CreatedAt         string            `json:"created_at"`
	TrackingNumber    string            `json:"tracking_number"`
	EstimatedDelivery string            `json:"estimated_delivery"`
}

// Turn is one side of a conversation exchange with an AI provider.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MaxConversationTurns caps the persisted chat history.
const MaxConversationTurns = 20
