package cart

import "context"

// Resolution is the catalog data needed to price one cart line.
type Resolution struct {
	Title     string
	UnitPrice int64
}

// Resolver prices variant keys. ok is false when the product or the requested
// option no longer exists; err is reserved for lookup failures.
type Resolver interface {
	Resolve(ctx context.Context, key VariantKey) (res Resolution, ok bool, err error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, key VariantKey) (Resolution, bool, error)

func (fn ResolverFunc) Resolve(ctx context.Context, key VariantKey) (Resolution, bool, error) {
	return fn(ctx, key)
}

// ShippingPolicy derives shipping purely from the subtotal. Empty carts never
// pay shipping. With a FreeThreshold, subtotals at or above it ship free.
type ShippingPolicy struct {
	FlatFee       int64  `json:"flat_fee"`
	FreeThreshold *int64 `json:"free_threshold,omitempty"`
}

// FlatRate charges fee on every non-empty subtotal.
func FlatRate(fee int64) ShippingPolicy {
	return ShippingPolicy{FlatFee: fee}
}

// FreeOver charges fee below threshold and nothing at or above it.
func FreeOver(fee, threshold int64) ShippingPolicy {
	return ShippingPolicy{FlatFee: fee, FreeThreshold: &threshold}
}

func (p ShippingPolicy) Shipping(subtotal int64) int64 {
	if subtotal <= 0 {
		return 0
	}
	if p.FreeThreshold != nil && subtotal >= *p.FreeThreshold {
		return 0
	}
	return p.FlatFee
}

// PricedLine is a resolved cart line.
type PricedLine struct {
	Key       VariantKey `json:"key"`
	Title     string     `json:"title"`
	UnitPrice int64      `json:"unit_price"`
	Quantity  int        `json:"quantity"`
	LineTotal int64      `json:"line_total"`
}

type Totals struct {
	Lines    []PricedLine `json:"lines"`
	Skipped  []Line       `json:"skipped,omitempty"`
	Subtotal int64        `json:"subtotal"`
	Shipping int64        `json:"shipping"`
	Total    int64        `json:"total"`
}

// ComputeTotals prices every line through resolver. Lines the resolver cannot
// price are left out of the sums and reported in Skipped.
func ComputeTotals(ctx context.Context, c *Cart, resolver Resolver, policy ShippingPolicy) (Totals, error) {
	totals := Totals{Lines: []PricedLine{}}
	for _, line := range c.Lines() {
		res, ok, err := resolver.Resolve(ctx, line.Key)
		if err != nil {
			return Totals{}, err
		}
		if !ok {
			totals.Skipped = append(totals.Skipped, line)
			continue
		}
		lineTotal := res.UnitPrice * int64(line.Quantity)
		totals.Lines = append(totals.Lines, PricedLine{
			Key:       line.Key,
			Title:     res.Title,
			UnitPrice: res.UnitPrice,
			Quantity:  line.Quantity,
			LineTotal: lineTotal,
		})
		totals.Subtotal += lineTotal
	}
	totals.Shipping = policy.Shipping(totals.Subtotal)
	totals.Total = totals.Subtotal + totals.Shipping
	return totals, nil
}
