package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/checkout"
	redisclient "github.com/angelmondragon/storefront-backend/pkg/redis"
)

type kvStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
}

// RedisStore keeps sessions as JSON documents that expire after the TTL
// since the last save.
type RedisStore struct {
	store kvStore
	keyer sessionKeyer
	ttl   time.Duration
}

// NewRedisStore constructs a session store backed by Redis.
func NewRedisStore(client *redisclient.Client, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &RedisStore{store: client, keyer: client, ttl: ttl}, nil
}

func (r *RedisStore) Load(ctx context.Context, id string) (*checkout.Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrSessionNotFound
	}
	raw, err := r.store.Get(ctx, r.keyer.SessionKey(id))
	if err != nil {
		if errors.Is(err, redisclient.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var session checkout.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	session.ID = id
	session.Normalize()
	return &session, nil
}

func (r *RedisStore) Save(ctx context.Context, session *checkout.Session) error {
	if session == nil || strings.TrimSpace(session.ID) == "" {
		return fmt.Errorf("session id is required")
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.store.Set(ctx, r.keyer.SessionKey(session.ID), string(payload), r.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	return r.store.Del(ctx, r.keyer.SessionKey(id))
}
