package catalog

import (
	"context"
	"strings"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

// AllCategories is the pseudo category that disables category filtering.
const AllCategories = "all"

// Catalog is the read-only product source the storefront prices against.
type Catalog interface {
	Lookup(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	Search(ctx context.Context, query string) ([]Product, error)
	FilterByCategory(ctx context.Context, category string) ([]Product, error)
	Categories(ctx context.Context) ([]string, error)
}

// ErrProductNotFound builds the not-found error returned by Lookup.
func ErrProductNotFound(id string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
		WithDetails(map[string]string{"product_id": id})
}

// IsNotFound reports whether err is a missing-product error.
func IsNotFound(err error) bool {
	return pkgerrors.Is(err, pkgerrors.CodeNotFound)
}

// Browse combines the category filter and the search query.
func Browse(ctx context.Context, c Catalog, query, category string) ([]Product, error) {
	if strings.TrimSpace(category) == "" || strings.EqualFold(strings.TrimSpace(category), AllCategories) {
		return c.Search(ctx, query)
	}
	products, err := c.FilterByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Matches(query) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Resolver prices cart lines through a Catalog. Missing products and unknown
// sizes are unresolved rather than errors.
type Resolver struct {
	catalog Catalog
}

func NewResolver(c Catalog) *Resolver {
	return &Resolver{catalog: c}
}

func (r *Resolver) Resolve(ctx context.Context, key cart.VariantKey) (cart.Resolution, bool, error) {
	product, err := r.catalog.Lookup(ctx, key.ProductID)
	if err != nil {
		if IsNotFound(err) {
			return cart.Resolution{}, false, nil
		}
		return cart.Resolution{}, false, err
	}
	price, ok := product.UnitPrice(key)
	if !ok {
		return cart.Resolution{}, false, nil
	}
	return cart.Resolution{Title: product.Title, UnitPrice: price}, true, nil
}
