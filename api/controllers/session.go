package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/internal/storefront"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// sessionAction is one storefront operation applied to the caller's session.
type sessionAction func(r *http.Request, sessionID string) (*storefront.SessionView, error)

// sessionHandler resolves the session bound by the session middleware, runs
// action and renders the resulting session view with status.
func sessionHandler(svc storefront.Service, logg *logger.Logger, status int, action sessionAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session context missing"))
			return
		}

		view, err := action(r, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, status, view)
	}
}

// SessionGet returns the caller's session, creating an empty one on first use.
func SessionGet(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(svc, logg, http.StatusOK, func(r *http.Request, sessionID string) (*storefront.SessionView, error) {
		return svc.Session(r.Context(), sessionID)
	})
}
