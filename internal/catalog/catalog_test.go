package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestStaticLookup(t *testing.T) {
	t.Parallel()

	c := NewStatic(DefaultProducts())
	p, err := c.Lookup(context.Background(), "p3")
	require.NoError(t, err)
	assert.Equal(t, "Classic Jeans", p.Title)
	assert.Equal(t, int64(1890), p.BasePrice)

	_, err = c.Lookup(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestStaticLookupReturnsCopies(t *testing.T) {
	t.Parallel()

	c := NewStatic(DefaultProducts())
	p, err := c.Lookup(context.Background(), "d1")
	require.NoError(t, err)
	p.Sizes[0].Surcharge = 999
	p.Title = "changed"

	again, err := c.Lookup(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), again.Sizes[0].Surcharge)
	assert.Equal(t, "Brown Sugar Milk Tea", again.Title)
}

func TestStaticSearchIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	c := NewStatic(DefaultProducts())
	ctx := context.Background()

	got, err := c.Search(ctx, "CLASSIC")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p3"}, ids(got))

	got, err = c.Search(ctx, "warmth")
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, ids(got), "description matches too")

	got, err = c.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, got, len(DefaultProducts()))

	got, err = c.Search(ctx, "pizza")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStaticFilterByCategory(t *testing.T) {
	t.Parallel()

	c := NewStatic(DefaultProducts())
	ctx := context.Background()

	got, err := c.FilterByCategory(ctx, "Drinks")
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d2"}, ids(got))

	got, err = c.FilterByCategory(ctx, AllCategories)
	require.NoError(t, err)
	assert.Len(t, got, len(DefaultProducts()))

	cats, err := c.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"apparel", "drinks", "footwear"}, cats)
}

func TestBrowseCombinesFilters(t *testing.T) {
	t.Parallel()

	c := NewStatic(DefaultProducts())
	got, err := Browse(context.Background(), c, "jasmine", "drinks")
	require.NoError(t, err)
	assert.Equal(t, []string{"d2"}, ids(got))

	got, err = Browse(context.Background(), c, "jasmine", "apparel")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Browse(context.Background(), c, "tea", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d2"}, ids(got))
}

func TestProductUnitPriceAndOptions(t *testing.T) {
	t.Parallel()

	c := NewStatic(DefaultProducts())
	tea, err := c.Lookup(context.Background(), "d1")
	require.NoError(t, err)

	price, ok := tea.UnitPrice(cart.VariantKey{ProductID: "d1", Size: "large"})
	require.True(t, ok)
	assert.Equal(t, int64(80), price)

	price, ok = tea.UnitPrice(cart.NewKey("d1"))
	require.True(t, ok)
	assert.Equal(t, int64(65), price)

	_, ok = tea.UnitPrice(cart.VariantKey{ProductID: "d1", Size: "Venti"})
	assert.False(t, ok)

	problems := tea.InvalidOptions(cart.VariantKey{ProductID: "d1", Size: "Venti", Sugar: "50%", Ice: "Hot"})
	assert.Equal(t, map[string]string{
		"size": "is not offered for this product",
		"ice":  "is not offered for this product",
	}, problems)
}

func TestProductCanonicalKey(t *testing.T) {
	t.Parallel()

	c := NewStatic(DefaultProducts())
	tea, err := c.Lookup(context.Background(), "d1")
	require.NoError(t, err)

	got := tea.CanonicalKey(cart.VariantKey{ProductID: " d1 ", Size: "LARGE", Sugar: "50%", Ice: "less ice"})
	assert.Equal(t, cart.VariantKey{ProductID: "d1", Size: "Large", Sugar: "50%", Ice: "Less Ice"}, got)

	got = tea.CanonicalKey(cart.VariantKey{ProductID: "d1", Size: "Venti"})
	assert.Equal(t, cart.VariantKey{ProductID: "d1", Size: "Venti"}, got)
}

func TestResolverSkipsMissingProductsAndSizes(t *testing.T) {
	t.Parallel()

	r := NewResolver(NewStatic(DefaultProducts()))
	ctx := context.Background()

	res, ok, err := r.Resolve(ctx, cart.VariantKey{ProductID: "d2", Size: "Large"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cart.Resolution{Title: "Jasmine Green Tea", UnitPrice: 55}, res)

	_, ok, err = r.Resolve(ctx, cart.NewKey("removed"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = r.Resolve(ctx, cart.VariantKey{ProductID: "p1", Size: "XL"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolverPropagatesDependencyErrors(t *testing.T) {
	t.Parallel()

	boom := pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("db down"), "load product")
	r := NewResolver(failingCatalog{err: boom})

	_, _, err := r.Resolve(context.Background(), cart.NewKey("p1"))
	assert.ErrorIs(t, err, boom)
}

func TestOrderTotalsThroughCatalog(t *testing.T) {
	t.Parallel()

	c := cart.New()
	require.NoError(t, c.Add(cart.NewKey("p1"), 2))
	require.NoError(t, c.Add(cart.NewKey("p3"), 1))

	totals, err := cart.ComputeTotals(context.Background(), c, NewResolver(NewStatic(DefaultProducts())), cart.FlatRate(120))
	require.NoError(t, err)
	assert.Equal(t, int64(2888), totals.Subtotal)
	assert.Equal(t, int64(3008), totals.Total)
}

type failingCatalog struct {
	Catalog
	err error
}

func (f failingCatalog) Lookup(context.Context, string) (*Product, error) {
	return nil, f.err
}
