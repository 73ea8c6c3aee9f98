package storefront

import (
	"time"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/checkout"
)

// EventOrderConfirmed is published once per submitted order.
const EventOrderConfirmed = "order.confirmed"

// OrderConfirmedEvent is the payload of EventOrderConfirmed.
type OrderConfirmedEvent struct {
	OrderID   string            `json:"order_id"`
	SessionID string            `json:"session_id"`
	Customer  checkout.Customer `json:"customer"`
	Lines     []cart.PricedLine `json:"lines"`
	Subtotal  int64             `json:"subtotal"`
	Shipping  int64             `json:"shipping"`
	Total     int64             `json:"total"`
	Currency  string            `json:"currency"`
	PlacedAt  time.Time         `json:"placed_at"`
}

func orderConfirmedEvent(sessionID, currency string, o *checkout.Order) OrderConfirmedEvent {
	return OrderConfirmedEvent{
		OrderID:   o.ID,
		SessionID: sessionID,
		Customer:  o.Customer,
		Lines:     append([]cart.PricedLine(nil), o.Lines...),
		Subtotal:  o.Subtotal,
		Shipping:  o.Shipping,
		Total:     o.Total,
		Currency:  currency,
		PlacedAt:  o.PlacedAt,
	}
}
