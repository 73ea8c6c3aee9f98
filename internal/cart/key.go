package cart

import (
	"fmt"
	"strings"
)

// VariantKey identifies one purchasable configuration of a product. Equal keys
// share a cart line; any differing option makes a separate line.
type VariantKey struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size,omitempty"`
	Sugar     string `json:"sugar,omitempty"`
	Ice       string `json:"ice,omitempty"`
}

// NewKey builds a key for a product without options.
func NewKey(productID string) VariantKey {
	return VariantKey{ProductID: productID}.Normalize()
}

// Normalize trims surrounding whitespace from every component.
func (k VariantKey) Normalize() VariantKey {
	return VariantKey{
		ProductID: strings.TrimSpace(k.ProductID),
		Size:      strings.TrimSpace(k.Size),
		Sugar:     strings.TrimSpace(k.Sugar),
		Ice:       strings.TrimSpace(k.Ice),
	}
}

// IsZero reports whether the key references no product.
func (k VariantKey) IsZero() bool {
	return strings.TrimSpace(k.ProductID) == ""
}

func (k VariantKey) String() string {
	var opts []string
	if k.Size != "" {
		opts = append(opts, "size="+k.Size)
	}
	if k.Sugar != "" {
		opts = append(opts, "sugar="+k.Sugar)
	}
	if k.Ice != "" {
		opts = append(opts, "ice="+k.Ice)
	}
	if len(opts) == 0 {
		return k.ProductID
	}
	return fmt.Sprintf("%s[%s]", k.ProductID, strings.Join(opts, " "))
}
