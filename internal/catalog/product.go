package catalog

import (
	"strings"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

// Product is a read-only catalog listing. Prices are in minor currency units.
type Product struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Emoji       string             `json:"emoji,omitempty"`
	Category    string             `json:"category,omitempty"`
	BasePrice   int64              `json:"base_price"`
	Sizes       []types.SizeOption `json:"sizes,omitempty"`
	SugarLevels []string           `json:"sugar_levels,omitempty"`
	IceLevels   []string           `json:"ice_levels,omitempty"`
}

// SizeSurcharge returns the surcharge for size. The empty size is the base
// configuration and always resolves.
func (p Product) SizeSurcharge(size string) (int64, bool) {
	if size == "" {
		return 0, true
	}
	if opt, ok := p.size(size); ok {
		return opt.Surcharge, true
	}
	return 0, false
}

// CanonicalKey rewrites the options of key to the spelling this product
// lists, so differently cased requests land on the same cart line. Options
// the product does not offer are left as given.
func (p Product) CanonicalKey(key cart.VariantKey) cart.VariantKey {
	key = key.Normalize()
	if opt, ok := p.size(key.Size); ok {
		key.Size = opt.Name
	}
	if level, ok := match(p.SugarLevels, key.Sugar); ok {
		key.Sugar = level
	}
	if level, ok := match(p.IceLevels, key.Ice); ok {
		key.Ice = level
	}
	return key
}

func (p Product) size(name string) (types.SizeOption, bool) {
	if name == "" {
		return types.SizeOption{}, false
	}
	for _, opt := range p.Sizes {
		if strings.EqualFold(opt.Name, name) {
			return opt, true
		}
	}
	return types.SizeOption{}, false
}

// UnitPrice prices key against this product.
func (p Product) UnitPrice(key cart.VariantKey) (int64, bool) {
	if key.ProductID != p.ID {
		return 0, false
	}
	surcharge, ok := p.SizeSurcharge(key.Size)
	if !ok {
		return 0, false
	}
	return p.BasePrice + surcharge, true
}

// InvalidOptions lists which options of key this product does not offer,
// keyed by field name.
func (p Product) InvalidOptions(key cart.VariantKey) map[string]string {
	problems := map[string]string{}
	if _, ok := p.SizeSurcharge(key.Size); !ok {
		problems["size"] = "is not offered for this product"
	}
	if !offers(p.SugarLevels, key.Sugar) {
		problems["sugar"] = "is not offered for this product"
	}
	if !offers(p.IceLevels, key.Ice) {
		problems["ice"] = "is not offered for this product"
	}
	return problems
}

// Matches reports a case-insensitive substring hit on title or description.
// The empty query matches everything.
func (p Product) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Description), q)
}

// InCategory reports whether the product belongs to category. The empty
// category and "all" match everything.
func (p Product) InCategory(category string) bool {
	c := strings.TrimSpace(category)
	if c == "" || strings.EqualFold(c, AllCategories) {
		return true
	}
	return strings.EqualFold(p.Category, c)
}

func offers(levels []string, level string) bool {
	if level == "" {
		return true
	}
	_, ok := match(levels, level)
	return ok
}

func match(levels []string, level string) (string, bool) {
	if level == "" {
		return "", false
	}
	for _, candidate := range levels {
		if strings.EqualFold(candidate, level) {
			return candidate, true
		}
	}
	return "", false
}
