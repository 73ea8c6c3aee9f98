package checkout

import (
	"context"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/google/uuid"
)

// OrderIDPrefix starts every display order id.
const OrderIDPrefix = "ORD-"

// Order is the immutable snapshot captured at submission.
type Order struct {
	ID       string            `json:"id"`
	Customer Customer          `json:"customer"`
	Items    []cart.Line       `json:"items"`
	Lines    []cart.PricedLine `json:"lines"`
	Subtotal int64             `json:"subtotal"`
	Shipping int64             `json:"shipping"`
	Total    int64             `json:"total"`
	PlacedAt time.Time         `json:"placed_at"`
}

// Clone deep-copies the order so callers never share slices with a session.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	out := *o
	out.Items = append([]cart.Line(nil), o.Items...)
	out.Lines = append([]cart.PricedLine(nil), o.Lines...)
	return &out
}

// IDGenerator hands out order ids. Ids must not repeat for identical carts.
type IDGenerator interface {
	NextOrderID(ctx context.Context) (string, error)
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func(ctx context.Context) (string, error)

func (fn IDGeneratorFunc) NextOrderID(ctx context.Context) (string, error) {
	return fn(ctx)
}

// UUIDGenerator issues ORD-<uuid> ids.
type UUIDGenerator struct{}

func (UUIDGenerator) NextOrderID(context.Context) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return OrderIDPrefix + id.String(), nil
}
