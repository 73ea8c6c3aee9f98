package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/internal/storefront"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type submitOrderRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone,omitempty"`
}

func (p submitOrderRequest) customer() checkout.Customer {
	return checkout.Customer{
		Name:    p.Name,
		Email:   p.Email,
		Address: p.Address,
		Phone:   p.Phone,
	}
}

func CheckoutOpen(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(svc, logg, http.StatusOK, func(r *http.Request, sessionID string) (*storefront.SessionView, error) {
		return svc.OpenCheckout(r.Context(), sessionID)
	})
}

func CheckoutCancel(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(svc, logg, http.StatusOK, func(r *http.Request, sessionID string) (*storefront.SessionView, error) {
		return svc.CancelCheckout(r.Context(), sessionID)
	})
}

// CheckoutSubmit confirms the order. Customer fields are validated by the
// checkout domain so the error details match regardless of entry point.
func CheckoutSubmit(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(svc, logg, http.StatusCreated, func(r *http.Request, sessionID string) (*storefront.SessionView, error) {
		var payload submitOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.SubmitOrder(r.Context(), sessionID, payload.customer())
	})
}

// OrderDismiss acknowledges the confirmation and starts a new shopping round.
func OrderDismiss(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(svc, logg, http.StatusOK, func(r *http.Request, sessionID string) (*storefront.SessionView, error) {
		return svc.DismissOrder(r.Context(), sessionID)
	})
}
