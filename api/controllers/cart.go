package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/storefront"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type variantPayload struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
	Size      string `json:"size,omitempty" validate:"max=32"`
	Sugar     string `json:"sugar,omitempty" validate:"max=32"`
	Ice       string `json:"ice,omitempty" validate:"max=32"`
}

func (p variantPayload) key() cart.VariantKey {
	return cart.VariantKey{
		ProductID: p.ProductID,
		Size:      p.Size,
		Sugar:     p.Sugar,
		Ice:       p.Ice,
	}.Normalize()
}

type addItemRequest struct {
	variantPayload
	Quantity *int `json:"quantity,omitempty" validate:"omitempty,gte=1,lte=999"`
}

type setQuantityRequest struct {
	variantPayload
	Quantity *int `json:"quantity" validate:"required,gte=0,lte=999"`
}

type removeItemRequest struct {
	variantPayload
}

// CartAddItem adds a configured product to the cart. Quantity defaults to one.
func CartAddItem(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(svc, logg, http.StatusOK, func(r *http.Request, sessionID string) (*storefront.SessionView, error) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		qty := 1
		if payload.Quantity != nil {
			qty = *payload.Quantity
		}
		return svc.AddItem(r.Context(), sessionID, payload.key(), qty)
	})
}

// CartSetQuantity replaces a line's quantity; zero removes the line.
func CartSetQuantity(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(svc, logg, http.StatusOK, func(r *http.Request, sessionID string) (*storefront.SessionView, error) {
		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.SetQuantity(r.Context(), sessionID, payload.key(), *payload.Quantity)
	})
}

func CartRemoveItem(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(svc, logg, http.StatusOK, func(r *http.Request, sessionID string) (*storefront.SessionView, error) {
		var payload removeItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.RemoveItem(r.Context(), sessionID, payload.key())
	})
}

func CartClear(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(svc, logg, http.StatusOK, func(r *http.Request, sessionID string) (*storefront.SessionView, error) {
		return svc.ClearCart(r.Context(), sessionID)
	})
}
