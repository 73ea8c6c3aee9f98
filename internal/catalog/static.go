package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/types"
)

// Static serves an immutable in-memory product list.
type Static struct {
	products []Product
	byID     map[string]int
}

// NewStatic copies products; later changes to the argument are not observed.
func NewStatic(products []Product) *Static {
	s := &Static{byID: make(map[string]int, len(products))}
	for _, p := range products {
		if _, dup := s.byID[p.ID]; dup {
			continue
		}
		s.byID[p.ID] = len(s.products)
		s.products = append(s.products, cloneProduct(p))
	}
	return s
}

func (s *Static) Lookup(_ context.Context, id string) (*Product, error) {
	idx, ok := s.byID[strings.TrimSpace(id)]
	if !ok {
		return nil, ErrProductNotFound(id)
	}
	p := cloneProduct(s.products[idx])
	return &p, nil
}

func (s *Static) List(ctx context.Context) ([]Product, error) {
	return s.filter(func(Product) bool { return true }), nil
}

func (s *Static) Search(_ context.Context, query string) ([]Product, error) {
	return s.filter(func(p Product) bool { return p.Matches(query) }), nil
}

func (s *Static) FilterByCategory(_ context.Context, category string) ([]Product, error) {
	return s.filter(func(p Product) bool { return p.InCategory(category) }), nil
}

func (s *Static) Categories(context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	var out []string
	for _, p := range s.products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Static) filter(keep func(Product) bool) []Product {
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if keep(p) {
			out = append(out, cloneProduct(p))
		}
	}
	return out
}

func cloneProduct(p Product) Product {
	p.Sizes = append([]types.SizeOption(nil), p.Sizes...)
	p.SugarLevels = append([]string(nil), p.SugarLevels...)
	p.IceLevels = append([]string(nil), p.IceLevels...)
	return p
}
