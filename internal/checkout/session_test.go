package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNow    = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	validBuyer = Customer{Name: "Lin Mei", Email: "mei@example.com", Address: "No. 7, Section 1, Zhongshan Rd, Taipei"}
)

func priceList() cart.Resolver {
	prices := map[string]cart.Resolution{
		"p1": {Title: "Classic White T-Shirt", UnitPrice: 499},
		"p3": {Title: "Classic Jeans", UnitPrice: 1890},
	}
	return cart.ResolverFunc(func(_ context.Context, key cart.VariantKey) (cart.Resolution, bool, error) {
		res, ok := prices[key.ProductID]
		return res, ok, nil
	})
}

func fixedIDs(ids ...string) IDGenerator {
	next := 0
	return IDGeneratorFunc(func(context.Context) (string, error) {
		id := ids[next]
		next++
		return id, nil
	})
}

func checkoutSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession("sess-1", testNow)
	require.NoError(t, s.AddItem(cart.NewKey("p1"), 2))
	require.NoError(t, s.AddItem(cart.NewKey("p3"), 1))
	require.NoError(t, s.OpenCheckout())
	return s
}

func TestNewSessionStartsBrowsing(t *testing.T) {
	s := NewSession("abc", testNow)
	assert.Equal(t, enums.SessionPhaseBrowsing, s.Phase)
	assert.True(t, s.Cart.IsEmpty())
	assert.Nil(t, s.Order)
	assert.False(t, s.Presenting())
}

func TestOpenCheckoutOnEmptyCartFails(t *testing.T) {
	s := NewSession("abc", testNow)

	err := s.OpenCheckout()
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeCartEmpty))
	assert.Equal(t, enums.SessionPhaseBrowsing, s.Phase)
}

func TestOpenAndCancelCheckout(t *testing.T) {
	s := checkoutSession(t)
	assert.True(t, s.Presenting())
	require.NoError(t, s.OpenCheckout(), "reopening is a no-op")

	require.NoError(t, s.CancelCheckout())
	assert.Equal(t, enums.SessionPhaseBrowsing, s.Phase)
	assert.Equal(t, 2, s.Cart.Len(), "cancel keeps the cart")

	require.NoError(t, s.CancelCheckout())
	assert.Equal(t, enums.SessionPhaseBrowsing, s.Phase)
}

func TestEmptyingCartLeavesCheckout(t *testing.T) {
	cases := map[string]func(s *Session) error{
		"clear": func(s *Session) error { return s.ClearCart() },
		"remove": func(s *Session) error {
			if err := s.RemoveItem(cart.NewKey("p1")); err != nil {
				return err
			}
			return s.RemoveItem(cart.NewKey("p3"))
		},
		"set zero": func(s *Session) error {
			if err := s.SetQuantity(cart.NewKey("p1"), 0); err != nil {
				return err
			}
			return s.SetQuantity(cart.NewKey("p3"), -1)
		},
	}
	for name, empty := range cases {
		t.Run(name, func(t *testing.T) {
			s := checkoutSession(t)
			require.NoError(t, empty(s))
			assert.True(t, s.Cart.IsEmpty())
			assert.Equal(t, enums.SessionPhaseBrowsing, s.Phase)
		})
	}
}

func TestMutationsWhileCheckoutOpenKeepPhase(t *testing.T) {
	s := checkoutSession(t)
	require.NoError(t, s.SetQuantity(cart.NewKey("p1"), 5))
	require.NoError(t, s.RemoveItem(cart.NewKey("p3")))
	assert.Equal(t, enums.SessionPhaseCheckout, s.Phase)
	assert.Equal(t, 5, s.Cart.Quantity(cart.NewKey("p1")))
}

func TestSubmitOrderScenario(t *testing.T) {
	s := checkoutSession(t)

	order, err := s.SubmitOrder(context.Background(), validBuyer, priceList(), cart.FlatRate(120), fixedIDs("ORD-000001"), testNow)
	require.NoError(t, err)

	assert.Equal(t, "ORD-000001", order.ID)
	assert.Equal(t, int64(2888), order.Subtotal)
	assert.Equal(t, int64(120), order.Shipping)
	assert.Equal(t, int64(3008), order.Total)
	assert.Equal(t, testNow, order.PlacedAt)
	assert.Equal(t, []cart.Line{
		{Key: cart.NewKey("p1"), Quantity: 2},
		{Key: cart.NewKey("p3"), Quantity: 1},
	}, order.Items)

	assert.True(t, s.Cart.IsEmpty())
	assert.Equal(t, enums.SessionPhaseConfirmed, s.Phase)
	assert.False(t, s.Presenting())
	require.NotNil(t, s.Order)
	assert.Equal(t, order.ID, s.Order.ID)
}

func TestOrderSnapshotIsIndependent(t *testing.T) {
	s := checkoutSession(t)
	order, err := s.SubmitOrder(context.Background(), validBuyer, priceList(), cart.FlatRate(120), fixedIDs("ORD-1"), testNow)
	require.NoError(t, err)

	s.DismissOrder()
	require.NoError(t, s.AddItem(cart.NewKey("p1"), 9))

	assert.Equal(t, 2, order.Items[0].Quantity)
	order.Items[0].Quantity = 100
	assert.Equal(t, 9, s.Cart.Quantity(cart.NewKey("p1")))
}

func TestSubmitOrderRejectsInvalidCustomer(t *testing.T) {
	s := checkoutSession(t)

	_, err := s.SubmitOrder(context.Background(), Customer{Email: "not-an-email"}, priceList(), cart.FlatRate(120), fixedIDs("ORD-1"), testNow)
	require.Error(t, err)

	var typed *pkgerrors.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, map[string]string{
		"name":    "is required",
		"email":   "must be a valid email",
		"address": "is required",
	}, typed.Details())

	assert.Equal(t, enums.SessionPhaseCheckout, s.Phase)
	assert.Equal(t, 2, s.Cart.Len())
	assert.Nil(t, s.Order)
}

func TestSubmitOrderRequiresOpenCheckout(t *testing.T) {
	s := NewSession("abc", testNow)
	require.NoError(t, s.AddItem(cart.NewKey("p1"), 1))

	_, err := s.SubmitOrder(context.Background(), validBuyer, priceList(), cart.FlatRate(120), fixedIDs("ORD-1"), testNow)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeStateConflict))
	assert.Equal(t, 1, s.Cart.Len())
}

func TestSubmitOrderFailuresLeaveSessionUnchanged(t *testing.T) {
	t.Run("resolver error", func(t *testing.T) {
		s := checkoutSession(t)
		boom := errors.New("catalog offline")
		failing := cart.ResolverFunc(func(context.Context, cart.VariantKey) (cart.Resolution, bool, error) {
			return cart.Resolution{}, false, boom
		})
		_, err := s.SubmitOrder(context.Background(), validBuyer, failing, cart.FlatRate(120), fixedIDs("ORD-1"), testNow)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, enums.SessionPhaseCheckout, s.Phase)
		assert.Equal(t, 2, s.Cart.Len())
	})

	t.Run("id generator error", func(t *testing.T) {
		s := checkoutSession(t)
		ids := IDGeneratorFunc(func(context.Context) (string, error) { return "", errors.New("counter down") })
		_, err := s.SubmitOrder(context.Background(), validBuyer, priceList(), cart.FlatRate(120), ids, testNow)
		assert.True(t, pkgerrors.Is(err, pkgerrors.CodeDependency))
		assert.Equal(t, 2, s.Cart.Len())
	})

	t.Run("nothing purchasable", func(t *testing.T) {
		s := NewSession("abc", testNow)
		require.NoError(t, s.AddItem(cart.NewKey("gone"), 1))
		require.NoError(t, s.OpenCheckout())
		_, err := s.SubmitOrder(context.Background(), validBuyer, priceList(), cart.FlatRate(120), fixedIDs("ORD-1"), testNow)
		assert.True(t, pkgerrors.Is(err, pkgerrors.CodeStateConflict))
		assert.Equal(t, enums.SessionPhaseCheckout, s.Phase)
	})
}

func TestSubmitSkipsUnavailableLines(t *testing.T) {
	s := NewSession("abc", testNow)
	require.NoError(t, s.AddItem(cart.NewKey("p1"), 1))
	require.NoError(t, s.AddItem(cart.NewKey("retired"), 4))
	require.NoError(t, s.OpenCheckout())

	order, err := s.SubmitOrder(context.Background(), validBuyer, priceList(), cart.FlatRate(120), fixedIDs("ORD-1"), testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(499), order.Subtotal)
	assert.Len(t, order.Items, 2)
	assert.Len(t, order.Lines, 1)
}

func TestConfirmedPhaseBlocksCartMutations(t *testing.T) {
	s := checkoutSession(t)
	_, err := s.SubmitOrder(context.Background(), validBuyer, priceList(), cart.FlatRate(120), fixedIDs("ORD-1"), testNow)
	require.NoError(t, err)

	for name, op := range map[string]func() error{
		"add":    func() error { return s.AddItem(cart.NewKey("p1"), 1) },
		"set":    func() error { return s.SetQuantity(cart.NewKey("p1"), 1) },
		"remove": func() error { return s.RemoveItem(cart.NewKey("p1")) },
		"clear":  s.ClearCart,
		"open":   s.OpenCheckout,
		"cancel": s.CancelCheckout,
	} {
		err := op()
		assert.True(t, pkgerrors.Is(err, pkgerrors.CodeStateConflict), name)
	}

	s.DismissOrder()
	assert.Equal(t, enums.SessionPhaseBrowsing, s.Phase)
	assert.Nil(t, s.Order)
	require.NoError(t, s.AddItem(cart.NewKey("p1"), 1))
}

func TestIdenticalCartsGetDistinctOrderIDs(t *testing.T) {
	first := checkoutSession(t)
	second := checkoutSession(t)

	a, err := first.SubmitOrder(context.Background(), validBuyer, priceList(), cart.FlatRate(120), UUIDGenerator{}, testNow)
	require.NoError(t, err)
	b, err := second.SubmitOrder(context.Background(), validBuyer, priceList(), cart.FlatRate(120), UUIDGenerator{}, testNow)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Regexp(t, `^ORD-[0-9a-f-]{36}$`, a.ID)
}

func TestSessionJSONRoundTripAndNormalize(t *testing.T) {
	s := checkoutSession(t)
	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded Session
	require.NoError(t, json.Unmarshal(raw, &decoded))
	decoded.Normalize()
	assert.Equal(t, enums.SessionPhaseCheckout, decoded.Phase)
	assert.Equal(t, s.Cart.Lines(), decoded.Cart.Lines())

	var broken Session
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","phase":"confirmed"}`), &broken))
	broken.Normalize()
	assert.Equal(t, enums.SessionPhaseBrowsing, broken.Phase)
	require.NotNil(t, broken.Cart)
	assert.True(t, broken.Cart.IsEmpty())
}

func TestCustomerValidationTrimsAndAllowsOptionalPhone(t *testing.T) {
	assert.NoError(t, ValidateCustomer(Customer{Name: " Lin ", Email: " lin@example.com ", Address: "Taipei"}))

	err := ValidateCustomer(Customer{Name: "   ", Email: "lin@example.com", Address: "Taipei"})
	var typed *pkgerrors.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, map[string]string{"name": "is required"}, typed.Details())
}
