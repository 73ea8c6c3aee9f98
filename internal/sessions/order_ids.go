package sessions

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-backend/internal/checkout"
	redisclient "github.com/angelmondragon/storefront-backend/pkg/redis"
)

const orderCounterName = "orders"

type counter interface {
	Incr(ctx context.Context, key string) (int64, error)
	CounterKey(name string) string
}

// CounterIDs issues monotonic ORD-000001 style ids from a shared Redis counter.
type CounterIDs struct {
	counter counter
}

var _ checkout.IDGenerator = (*CounterIDs)(nil)

func NewCounterIDs(client *redisclient.Client) *CounterIDs {
	return &CounterIDs{counter: client}
}

func (c *CounterIDs) NextOrderID(ctx context.Context) (string, error) {
	n, err := c.counter.Incr(ctx, c.counter.CounterKey(orderCounterName))
	if err != nil {
		return "", fmt.Errorf("increment order counter: %w", err)
	}
	return fmt.Sprintf("%s%06d", checkout.OrderIDPrefix, n), nil
}
