package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/internal/sessions"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/money"
	"github.com/angelmondragon/storefront-backend/pkg/pubsub"
)

// Service runs storefront operations against one shopper session at a time.
type Service interface {
	Products(ctx context.Context, query, category string) ([]ProductView, error)
	Product(ctx context.Context, id string) (*ProductView, error)
	Categories(ctx context.Context) ([]string, error)

	Session(ctx context.Context, sessionID string) (*SessionView, error)
	AddItem(ctx context.Context, sessionID string, key cart.VariantKey, qty int) (*SessionView, error)
	SetQuantity(ctx context.Context, sessionID string, key cart.VariantKey, qty int) (*SessionView, error)
	RemoveItem(ctx context.Context, sessionID string, key cart.VariantKey) (*SessionView, error)
	ClearCart(ctx context.Context, sessionID string) (*SessionView, error)
	OpenCheckout(ctx context.Context, sessionID string) (*SessionView, error)
	CancelCheckout(ctx context.Context, sessionID string) (*SessionView, error)
	SubmitOrder(ctx context.Context, sessionID string, customer checkout.Customer) (*SessionView, error)
	DismissOrder(ctx context.Context, sessionID string) (*SessionView, error)
}

// Deps wires the collaborators of the storefront service.
type Deps struct {
	Catalog  catalog.Catalog
	Store    sessions.Store
	IDs      checkout.IDGenerator
	Events   pubsub.EventPublisher
	Metrics  *metrics.StorefrontMetrics
	Logger   *logger.Logger
	Shipping cart.ShippingPolicy
	Money    money.Formatter
	Now      func() time.Time
}

type service struct {
	catalog  catalog.Catalog
	resolver cart.Resolver
	store    sessions.Store
	ids      checkout.IDGenerator
	events   pubsub.EventPublisher
	metrics  *metrics.StorefrontMetrics
	logg     *logger.Logger
	shipping cart.ShippingPolicy
	money    money.Formatter
	now      func() time.Time
	locks    sessionLocks
}

// NewService builds the storefront service.
func NewService(d Deps) (Service, error) {
	if d.Catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if d.Store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if d.Shipping.FlatFee < 0 {
		return nil, fmt.Errorf("shipping flat fee must not be negative")
	}
	svc := &service{
		catalog:  d.Catalog,
		resolver: catalog.NewResolver(d.Catalog),
		store:    d.Store,
		ids:      d.IDs,
		events:   d.Events,
		metrics:  d.Metrics,
		logg:     d.Logger,
		shipping: d.Shipping,
		money:    d.Money,
		now:      d.Now,
	}
	if svc.ids == nil {
		svc.ids = checkout.UUIDGenerator{}
	}
	if svc.events == nil {
		svc.events = pubsub.NoopPublisher{}
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc, nil
}

func (s *service) Products(ctx context.Context, query, category string) ([]ProductView, error) {
	products, err := catalog.Browse(ctx, s.catalog, query, category)
	if err != nil {
		return nil, err
	}
	out := make([]ProductView, 0, len(products))
	for _, p := range products {
		out = append(out, productView(p, s.money))
	}
	return out, nil
}

func (s *service) Product(ctx context.Context, id string) (*ProductView, error) {
	p, err := s.catalog.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	view := productView(*p, s.money)
	return &view, nil
}

func (s *service) Categories(ctx context.Context) ([]string, error) {
	return s.catalog.Categories(ctx)
}

func (s *service) Session(ctx context.Context, sessionID string) (*SessionView, error) {
	return s.withSession(ctx, sessionID, func(context.Context, *checkout.Session) error { return nil })
}

func (s *service) AddItem(ctx context.Context, sessionID string, key cart.VariantKey, qty int) (*SessionView, error) {
	key, err := s.validateVariant(ctx, key)
	if err != nil {
		s.metrics.IncCartOperation(enums.CartOperationAdd.String(), true)
		return nil, err
	}
	return s.cartOperation(ctx, sessionID, enums.CartOperationAdd, func(sess *checkout.Session) error {
		return sess.AddItem(key, qty)
	})
}

func (s *service) SetQuantity(ctx context.Context, sessionID string, key cart.VariantKey, qty int) (*SessionView, error) {
	key, err := s.canonicalKey(ctx, key)
	if err != nil {
		s.metrics.IncCartOperation(enums.CartOperationSet.String(), true)
		return nil, err
	}
	return s.cartOperation(ctx, sessionID, enums.CartOperationSet, func(sess *checkout.Session) error {
		return sess.SetQuantity(key, qty)
	})
}

func (s *service) RemoveItem(ctx context.Context, sessionID string, key cart.VariantKey) (*SessionView, error) {
	key, err := s.canonicalKey(ctx, key)
	if err != nil {
		s.metrics.IncCartOperation(enums.CartOperationRemove.String(), true)
		return nil, err
	}
	return s.cartOperation(ctx, sessionID, enums.CartOperationRemove, func(sess *checkout.Session) error {
		return sess.RemoveItem(key)
	})
}

func (s *service) ClearCart(ctx context.Context, sessionID string) (*SessionView, error) {
	return s.cartOperation(ctx, sessionID, enums.CartOperationClear, func(sess *checkout.Session) error {
		return sess.ClearCart()
	})
}

func (s *service) OpenCheckout(ctx context.Context, sessionID string) (*SessionView, error) {
	view, err := s.withSession(ctx, sessionID, func(_ context.Context, sess *checkout.Session) error {
		return sess.OpenCheckout()
	})
	switch {
	case err == nil:
		s.metrics.IncCheckout(enums.CheckoutOutcomeOpened.String())
	case pkgerrors.Is(err, pkgerrors.CodeCartEmpty):
		s.metrics.IncCheckout(enums.CheckoutOutcomeEmpty.String())
		s.warn(ctx, sessionID, "checkout.cart_empty")
	}
	return view, err
}

func (s *service) CancelCheckout(ctx context.Context, sessionID string) (*SessionView, error) {
	view, err := s.withSession(ctx, sessionID, func(_ context.Context, sess *checkout.Session) error {
		return sess.CancelCheckout()
	})
	if err == nil {
		s.metrics.IncCheckout(enums.CheckoutOutcomeCanceled.String())
	}
	return view, err
}

func (s *service) SubmitOrder(ctx context.Context, sessionID string, customer checkout.Customer) (*SessionView, error) {
	var placed *checkout.Order
	view, err := s.withSession(ctx, sessionID, func(ctx context.Context, sess *checkout.Session) error {
		order, err := sess.SubmitOrder(ctx, customer, s.resolver, s.shipping, s.ids, s.now())
		if err != nil {
			return err
		}
		placed = order
		return nil
	})
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeValidation) {
			s.metrics.IncCheckout(enums.CheckoutOutcomeInvalid.String())
		}
		return nil, err
	}

	s.metrics.IncCheckout(enums.CheckoutOutcomeSubmitted.String())
	s.metrics.ObserveOrderTotal(placed.Total)

	logCtx := ctx
	if s.logg != nil {
		logCtx = s.logg.WithOrderID(s.logg.WithSessionID(ctx, sessionID), placed.ID)
		logCtx = s.logg.WithFields(logCtx, map[string]any{"total": placed.Total, "lines": len(placed.Lines)})
		s.logg.Info(logCtx, "order.confirmed")
	}

	event := pubsub.Event{
		Type:        EventOrderConfirmed,
		AggregateID: placed.ID,
		OccurredAt:  placed.PlacedAt,
		Data:        orderConfirmedEvent(sessionID, s.money.Code(), placed),
	}
	if err := s.events.Publish(ctx, event); err != nil && s.logg != nil {
		s.logg.Error(logCtx, "order.event_publish_failed", err)
	}
	return view, nil
}

func (s *service) DismissOrder(ctx context.Context, sessionID string) (*SessionView, error) {
	return s.withSession(ctx, sessionID, func(_ context.Context, sess *checkout.Session) error {
		sess.DismissOrder()
		return nil
	})
}

func (s *service) cartOperation(ctx context.Context, sessionID string, op enums.CartOperation, fn func(*checkout.Session) error) (*SessionView, error) {
	view, err := s.withSession(ctx, sessionID, func(_ context.Context, sess *checkout.Session) error {
		return fn(sess)
	})
	s.metrics.IncCartOperation(op.String(), err != nil)
	return view, err
}

// validateVariant rejects unknown products and options the product does not
// offer, and returns the key spelled the way the catalog lists it.
func (s *service) validateVariant(ctx context.Context, key cart.VariantKey) (cart.VariantKey, error) {
	key = key.Normalize()
	if key.IsZero() {
		return key, pkgerrors.New(pkgerrors.CodeValidation, "product id is required").
			WithDetails(map[string]string{"product_id": "is required"})
	}
	product, err := s.catalog.Lookup(ctx, key.ProductID)
	if err != nil {
		return key, err
	}
	if problems := product.InvalidOptions(key); len(problems) > 0 {
		return key, pkgerrors.New(pkgerrors.CodeValidation, "unsupported product options").WithDetails(problems)
	}
	return product.CanonicalKey(key), nil
}

// canonicalKey spells key the way the catalog does. Products that have left
// the catalog keep the key as given so their lines can still be edited.
func (s *service) canonicalKey(ctx context.Context, key cart.VariantKey) (cart.VariantKey, error) {
	key = key.Normalize()
	if key.IsZero() {
		return key, nil
	}
	product, err := s.catalog.Lookup(ctx, key.ProductID)
	switch {
	case catalog.IsNotFound(err):
		return key, nil
	case err != nil:
		return key, err
	}
	return product.CanonicalKey(key), nil
}

// withSession loads or starts the session, applies fn and persists the result.
// A failing fn leaves the stored session untouched.
func (s *service) withSession(ctx context.Context, sessionID string, fn func(context.Context, *checkout.Session) error) (*SessionView, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session required")
	}
	if s.logg != nil {
		ctx = s.logg.WithSessionID(ctx, sessionID)
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	now := s.now()
	created := false
	sess, err := s.store.Load(ctx, sessionID)
	switch {
	case errors.Is(err, sessions.ErrSessionNotFound):
		sess = checkout.NewSession(sessionID, now)
		created = true
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}

	if err := fn(ctx, sess); err != nil {
		return nil, err
	}

	sess.Touch(now)
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save session")
	}
	if created {
		s.metrics.IncSessionCreated()
		if s.logg != nil {
			s.logg.Debug(ctx, "session.created")
		}
	}
	return s.render(ctx, sess)
}

func (s *service) render(ctx context.Context, sess *checkout.Session) (*SessionView, error) {
	totals, err := cart.ComputeTotals(ctx, sess.Cart, s.resolver, s.shipping)
	if err != nil {
		return nil, err
	}
	return &SessionView{
		SessionID: sess.ID,
		Phase:     sess.Phase,
		Cart:      cartView(sess.Cart, totals, s.money),
		Order:     orderView(sess.Order, s.money),
		UpdatedAt: sess.UpdatedAt,
	}, nil
}

func (s *service) warn(ctx context.Context, sessionID, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), msg)
}
