package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/sessiontoken"
)

// SessionTokenHeader carries the signed shopper session token in both directions.
const SessionTokenHeader = "X-Session-Token"

// Session binds every request to a shopper session. A missing, expired or
// tampered token is replaced by a freshly minted one for a new session; the
// current token is always echoed back in the response header.
func Session(cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return sessionWithClock(cfg, logg, time.Now)
}

func sessionWithClock(cfg config.SessionConfig, logg *logger.Logger, now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := strings.TrimSpace(r.Header.Get(SessionTokenHeader))

			var sessionID string
			if token != "" {
				claims, err := sessiontoken.Parse(cfg, token)
				if err == nil {
					sessionID = claims.SessionID
				} else if logg != nil {
					logg.Debug(logg.WithField(ctx, "reason", err.Error()), "session.token_rejected")
				}
			}

			if sessionID == "" {
				sessionID = sessiontoken.NewSessionID()
				minted, err := sessiontoken.Mint(cfg, now(), sessionID)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token"))
					return
				}
				token = minted
				if logg != nil {
					logg.Info(logg.WithSessionID(ctx, sessionID), "session.token_minted")
				}
			}

			w.Header().Set(SessionTokenHeader, token)

			ctx = WithSessionID(ctx, sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
