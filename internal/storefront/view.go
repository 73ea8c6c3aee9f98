package storefront

import (
	"time"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/money"
)

// ProductView is a catalog listing with its display price.
type ProductView struct {
	catalog.Product
	PriceDisplay string `json:"price_display"`
}

// LineView is a priced cart line with display strings.
type LineView struct {
	cart.PricedLine
	UnitPriceDisplay string `json:"unit_price_display"`
	LineTotalDisplay string `json:"line_total_display"`
}

// CartView is the cart with computed totals.
type CartView struct {
	Lines           []LineView  `json:"lines"`
	Unavailable     []cart.Line `json:"unavailable,omitempty"`
	ItemCount       int         `json:"item_count"`
	Subtotal        int64       `json:"subtotal"`
	Shipping        int64       `json:"shipping"`
	Total           int64       `json:"total"`
	SubtotalDisplay string      `json:"subtotal_display"`
	ShippingDisplay string      `json:"shipping_display"`
	TotalDisplay    string      `json:"total_display"`
	Currency        string      `json:"currency"`
}

// OrderView is the confirmed order with display strings.
type OrderView struct {
	checkout.Order
	TotalDisplay string `json:"total_display"`
	Currency     string `json:"currency"`
}

// SessionView is everything the storefront UI renders for one session.
type SessionView struct {
	SessionID string             `json:"session_id"`
	Phase     enums.SessionPhase `json:"phase"`
	Cart      CartView           `json:"cart"`
	Order     *OrderView         `json:"order,omitempty"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func productView(p catalog.Product, fmtr money.Formatter) ProductView {
	return ProductView{Product: p, PriceDisplay: fmtr.Format(p.BasePrice)}
}

func cartView(c *cart.Cart, totals cart.Totals, fmtr money.Formatter) CartView {
	lines := make([]LineView, 0, len(totals.Lines))
	for _, line := range totals.Lines {
		lines = append(lines, LineView{
			PricedLine:       line,
			UnitPriceDisplay: fmtr.Format(line.UnitPrice),
			LineTotalDisplay: fmtr.Format(line.LineTotal),
		})
	}
	return CartView{
		Lines:           lines,
		Unavailable:     totals.Skipped,
		ItemCount:       c.TotalQuantity(),
		Subtotal:        totals.Subtotal,
		Shipping:        totals.Shipping,
		Total:           totals.Total,
		SubtotalDisplay: fmtr.Format(totals.Subtotal),
		ShippingDisplay: fmtr.Format(totals.Shipping),
		TotalDisplay:    fmtr.Format(totals.Total),
		Currency:        fmtr.Code(),
	}
}

func orderView(o *checkout.Order, fmtr money.Formatter) *OrderView {
	if o == nil {
		return nil
	}
	return &OrderView{
		Order:        *o.Clone(),
		TotalDisplay: fmtr.Format(o.Total),
		Currency:     fmtr.Code(),
	}
}
