package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
)

const (
	// EnvelopeVersion is bumped on breaking payload changes.
	EnvelopeVersion       = 1
	defaultPublishTimeout = 10 * time.Second
)

// Event is a domain event ready to be published.
type Event struct {
	Type        string
	AggregateID string
	OccurredAt  time.Time
	Data        any
}

// Envelope is the stable JSON body of every published message.
type Envelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	EventType  string          `json:"eventType"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// EventPublisher delivers domain events.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops every event. Used when Pub/Sub is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

type messagePublisher interface {
	Publish(context.Context, *pubsub.Message) publishResult
}

type publishResult interface {
	Get(ctx context.Context) (string, error)
}

// TopicPublisher publishes events to one topic and waits for the server ack.
type TopicPublisher struct {
	pub     messagePublisher
	stop    func()
	timeout time.Duration
	newID   func() string
}

// NewTopicPublisher wraps a Pub/Sub publisher handle.
func NewTopicPublisher(p *pubsub.Publisher) (*TopicPublisher, error) {
	if p == nil {
		return nil, errors.New("pubsub publisher is required")
	}
	return &TopicPublisher{
		pub:     &gcpPublisher{Publisher: p},
		stop:    p.Stop,
		timeout: defaultPublishTimeout,
		newID:   uuid.NewString,
	}, nil
}

func (t *TopicPublisher) Publish(ctx context.Context, event Event) error {
	msg, err := BuildMessage(event, t.newID())
	if err != nil {
		return err
	}
	publishCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	result := t.pub.Publish(publishCtx, msg)
	if result == nil {
		return fmt.Errorf("publisher returned nil for %s", event.Type)
	}
	if _, err := result.Get(publishCtx); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

// Stop flushes pending messages.
func (t *TopicPublisher) Stop() {
	if t != nil && t.stop != nil {
		t.stop()
	}
}

// BuildMessage wraps event in an Envelope and sets routing attributes.
func BuildMessage(event Event, eventID string) (*pubsub.Message, error) {
	if strings.TrimSpace(event.Type) == "" {
		return nil, errors.New("event type is required")
	}
	data, err := json.Marshal(event.Data)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", event.Type, err)
	}
	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}
	body, err := json.Marshal(Envelope{
		Version:    EnvelopeVersion,
		EventID:    eventID,
		EventType:  event.Type,
		OccurredAt: occurred.UTC(),
		Data:       data,
	})
	if err != nil {
		return nil, fmt.Errorf("encode %s envelope: %w", event.Type, err)
	}
	return &pubsub.Message{
		Data: body,
		Attributes: map[string]string{
			"event_id":     eventID,
			"event_type":   event.Type,
			"aggregate_id": event.AggregateID,
			"occurred_at":  occurred.UTC().Format(time.RFC3339Nano),
		},
	}, nil
}

type gcpPublisher struct {
	*pubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *pubsub.Message) publishResult {
	if p == nil || p.Publisher == nil {
		return nil
	}
	return p.Publisher.Publish(ctx, msg)
}
