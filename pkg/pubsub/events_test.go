package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
)

type orderPayload struct {
	OrderID string `json:"order_id"`
	Total   int64  `json:"total"`
}

func TestBuildMessageWrapsEnvelope(t *testing.T) {
	occurred := time.Date(2026, 3, 1, 10, 30, 0, 0, time.FixedZone("CST", 8*3600))
	msg, err := BuildMessage(Event{
		Type:        "order.confirmed",
		AggregateID: "ORD-000001",
		OccurredAt:  occurred,
		Data:        orderPayload{OrderID: "ORD-000001", Total: 3008},
	}, "evt-1")
	if err != nil {
		t.Fatalf("build message: %v", err)
	}

	wantAttrs := map[string]string{
		"event_id":     "evt-1",
		"event_type":   "order.confirmed",
		"aggregate_id": "ORD-000001",
		"occurred_at":  "2026-03-01T02:30:00Z",
	}
	for key, want := range wantAttrs {
		if got := msg.Attributes[key]; got != want {
			t.Fatalf("attribute %s = %q, want %q", key, got, want)
		}
	}

	var env Envelope
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Version != EnvelopeVersion || env.EventID != "evt-1" {
		t.Fatalf("unexpected envelope %+v", env)
	}
	if !env.OccurredAt.Equal(occurred) {
		t.Fatalf("expected occurred_at %v, got %v", occurred, env.OccurredAt)
	}

	var payload orderPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload != (orderPayload{OrderID: "ORD-000001", Total: 3008}) {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestBuildMessageRequiresType(t *testing.T) {
	if _, err := BuildMessage(Event{Data: 1}, "evt"); err == nil {
		t.Fatal("expected error for event without type")
	}
}

func TestTopicPublisherWaitsForAck(t *testing.T) {
	fake := &fakePublisher{result: &fakeResult{id: "server-1"}}
	pub := &TopicPublisher{pub: fake, timeout: time.Second, newID: func() string { return "evt-9" }}

	err := pub.Publish(context.Background(), Event{Type: "order.confirmed", AggregateID: "ORD-1", Data: map[string]string{}})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(fake.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(fake.messages))
	}
	if got := fake.messages[0].Attributes["event_id"]; got != "evt-9" {
		t.Fatalf("expected event id evt-9, got %q", got)
	}
}

func TestTopicPublisherSurfacesFailures(t *testing.T) {
	boom := errors.New("unavailable")
	pub := &TopicPublisher{pub: &fakePublisher{result: &fakeResult{err: boom}}, timeout: time.Second, newID: func() string { return "e" }}
	if err := pub.Publish(context.Background(), Event{Type: "order.confirmed"}); !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}

	pub = &TopicPublisher{pub: &fakePublisher{}, timeout: time.Second, newID: func() string { return "e" }}
	if err := pub.Publish(context.Background(), Event{Type: "order.confirmed"}); err == nil {
		t.Fatal("expected error when publish returns no result")
	}
}

func TestNewTopicPublisherRequiresHandle(t *testing.T) {
	if _, err := NewTopicPublisher(nil); err == nil {
		t.Fatal("expected error for nil publisher")
	}
	if err := (NoopPublisher{}).Publish(context.Background(), Event{}); err != nil {
		t.Fatalf("noop publish: %v", err)
	}
}

func TestTopicResourceName(t *testing.T) {
	c := &Client{projectID: "shop-prod"}
	cases := []struct {
		client *Client
		name   string
		want   string
	}{
		{c, "orders", "projects/shop-prod/topics/orders"},
		{c, "projects/other/topics/x", "projects/other/topics/x"},
		{c, " ", ""},
		{&Client{}, "orders", ""},
	}
	for _, tc := range cases {
		if got := tc.client.topicResourceName(tc.name); got != tc.want {
			t.Fatalf("topicResourceName(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

type fakePublisher struct {
	messages []*pubsub.Message
	result   publishResult
}

func (f *fakePublisher) Publish(_ context.Context, msg *pubsub.Message) publishResult {
	f.messages = append(f.messages, msg)
	if f.result == nil {
		return nil
	}
	return f.result
}

type fakeResult struct {
	id  string
	err error
}

func (r *fakeResult) Get(context.Context) (string, error) {
	return r.id, r.err
}
