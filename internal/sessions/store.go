package sessions

import (
	"context"
	"errors"

	"github.com/angelmondragon/storefront-backend/internal/checkout"
)

// ErrSessionNotFound is returned by Load for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// Store persists shopper sessions between requests. Implementations hand out
// copies: mutating a loaded session has no effect until Save.
type Store interface {
	Load(ctx context.Context, id string) (*checkout.Session, error)
	Save(ctx context.Context, session *checkout.Session) error
	Delete(ctx context.Context, id string) error
}
