package checkout

import (
	"context"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

// Session is one shopper's cart, checkout phase and last confirmed order.
// It is not safe for concurrent use; callers serialise access per session.
type Session struct {
	ID        string             `json:"id"`
	Cart      *cart.Cart         `json:"cart"`
	Phase     enums.SessionPhase `json:"phase"`
	Order     *Order             `json:"order,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// NewSession starts an empty session in the browsing phase.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Cart:      cart.New(),
		Phase:     enums.SessionPhaseBrowsing,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

// Normalize repairs a session decoded from storage: a missing cart becomes
// empty, an unknown phase falls back to browsing and the phase is reconciled
// with the cart and order.
func (s *Session) Normalize() {
	if s.Cart == nil {
		s.Cart = cart.New()
	}
	if !s.Phase.IsValid() {
		s.Phase = enums.SessionPhaseBrowsing
	}
	if s.Phase == enums.SessionPhaseConfirmed && s.Order == nil {
		s.Phase = enums.SessionPhaseBrowsing
	}
	if s.Phase != enums.SessionPhaseConfirmed {
		s.Order = nil
	}
	s.syncPhase()
}

// Clone deep-copies the session.
func (s *Session) Clone() *Session {
	out := *s
	out.Cart = s.Cart.Clone()
	out.Order = s.Order.Clone()
	return &out
}

// Presenting reports whether the checkout form is shown.
func (s *Session) Presenting() bool {
	return s.Phase == enums.SessionPhaseCheckout
}

func (s *Session) AddItem(key cart.VariantKey, qty int) error {
	if err := s.ensureMutable(); err != nil {
		return err
	}
	return s.Cart.Add(key, qty)
}

func (s *Session) SetQuantity(key cart.VariantKey, qty int) error {
	if err := s.ensureMutable(); err != nil {
		return err
	}
	if err := s.Cart.SetQuantity(key, qty); err != nil {
		return err
	}
	s.syncPhase()
	return nil
}

func (s *Session) RemoveItem(key cart.VariantKey) error {
	if err := s.ensureMutable(); err != nil {
		return err
	}
	s.Cart.Remove(key)
	s.syncPhase()
	return nil
}

func (s *Session) ClearCart() error {
	if err := s.ensureMutable(); err != nil {
		return err
	}
	s.Cart.Clear()
	s.syncPhase()
	return nil
}

// OpenCheckout presents the checkout form. The phase is left untouched when
// the cart is empty.
func (s *Session) OpenCheckout() error {
	switch s.Phase {
	case enums.SessionPhaseConfirmed:
		return errOrderPending()
	case enums.SessionPhaseCheckout:
		return nil
	}
	if s.Cart.IsEmpty() {
		return pkgerrors.New(pkgerrors.CodeCartEmpty, "cart is empty")
	}
	s.Phase = enums.SessionPhaseCheckout
	return nil
}

// CancelCheckout hides the checkout form and keeps the cart.
func (s *Session) CancelCheckout() error {
	switch s.Phase {
	case enums.SessionPhaseConfirmed:
		return errOrderPending()
	case enums.SessionPhaseCheckout:
		s.Phase = enums.SessionPhaseBrowsing
	}
	return nil
}

// SubmitOrder snapshots the cart into an Order, clears the cart and moves to
// the confirmed phase. On any error the session is left unchanged.
func (s *Session) SubmitOrder(
	ctx context.Context,
	customer Customer,
	resolver cart.Resolver,
	policy cart.ShippingPolicy,
	ids IDGenerator,
	now time.Time,
) (*Order, error) {
	if s.Phase != enums.SessionPhaseCheckout {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout is not open")
	}
	if s.Cart.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeCartEmpty, "cart is empty")
	}
	customer = customer.Normalize()
	if err := ValidateCustomer(customer); err != nil {
		return nil, err
	}

	totals, err := cart.ComputeTotals(ctx, s.Cart, resolver, policy)
	if err != nil {
		return nil, err
	}
	if len(totals.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no cart item is currently available").
			WithDetails(map[string]any{"skipped": totals.Skipped})
	}

	id, err := ids.NextOrderID(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate order id")
	}

	order := &Order{
		ID:       id,
		Customer: customer,
		Items:    s.Cart.Lines(),
		Lines:    totals.Lines,
		Subtotal: totals.Subtotal,
		Shipping: totals.Shipping,
		Total:    totals.Total,
		PlacedAt: now.UTC(),
	}

	s.Order = order
	s.Cart.Clear()
	s.Phase = enums.SessionPhaseConfirmed
	return order.Clone(), nil
}

// DismissOrder drops the confirmation and returns to browsing.
func (s *Session) DismissOrder() {
	s.Order = nil
	if s.Phase == enums.SessionPhaseConfirmed {
		s.Phase = enums.SessionPhaseBrowsing
	}
}

// Touch records a change.
func (s *Session) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

func (s *Session) ensureMutable() error {
	if s.Phase == enums.SessionPhaseConfirmed {
		return errOrderPending()
	}
	return nil
}

// syncPhase leaves checkout once the cart is empty.
func (s *Session) syncPhase() {
	if s.Phase == enums.SessionPhaseCheckout && s.Cart.IsEmpty() {
		s.Phase = enums.SessionPhaseBrowsing
	}
}

func errOrderPending() error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "dismiss the confirmed order first")
}
