package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	s := checkout.NewSession("abc", start)
	require.NoError(t, s.AddItem(cart.NewKey("p1"), 2))
	require.NoError(t, store.Save(ctx, s))

	loaded, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Cart.Quantity(cart.NewKey("p1")))

	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = store.Load(ctx, "abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStoreIsolatesCopies(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	s := checkout.NewSession("abc", start)
	require.NoError(t, store.Save(ctx, s))
	require.NoError(t, s.AddItem(cart.NewKey("p1"), 1))

	loaded, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, loaded.Cart.IsEmpty(), "unsaved changes must not leak")

	require.NoError(t, loaded.AddItem(cart.NewKey("p3"), 1))
	again, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, again.Cart.IsEmpty())
}

func TestMemoryStoreSessionsAreIndependent(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	a := checkout.NewSession("a", start)
	b := checkout.NewSession("b", start)
	require.NoError(t, a.AddItem(cart.NewKey("p1"), 1))
	require.NoError(t, b.AddItem(cart.NewKey("p3"), 4))
	require.NoError(t, store.Save(ctx, a))
	require.NoError(t, store.Save(ctx, b))

	loadedA, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 0, loadedA.Cart.Quantity(cart.NewKey("p3")))
	assert.Equal(t, 2, store.Len())
}

func TestMemoryStoreExpiresIdleSessions(t *testing.T) {
	store := NewMemoryStore(30 * time.Minute)
	clock := start
	store.now = func() time.Time { return clock }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, checkout.NewSession("old", start)))
	clock = clock.Add(20 * time.Minute)
	require.NoError(t, store.Save(ctx, checkout.NewSession("new", clock)))

	clock = clock.Add(15 * time.Minute)
	_, err := store.Load(ctx, "old")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = store.Load(ctx, "new")
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreRejectsBlankID(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	assert.Error(t, store.Save(context.Background(), checkout.NewSession(" ", start)))
	assert.Error(t, store.Save(context.Background(), nil))
}
