// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package anime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/taibuivan/animeapi/internal/platform/constants"
	"github.com/taibuivan/animeapi/pkg/uuidv7"
)

// # Domain Events

// Action names the write that produced an [Event].
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event is published after a record is written.
type Event struct {
	EventID    string    `json:"event_id"`
	Action     Action    `json:"action"`
	AnimeID    int64     `json:"anime_id,omitempty"`
	Name       string    `json:"name"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Subject returns the NATS subject the event is published on.
func (event Event) Subject() string {
	return constants.EventSubjectPrefix + string(event.Action)
}

// EventPublisher delivers catalog events. Delivery is best-effort: the write
// that produced the event has already been committed.
type EventPublisher interface {
	Publish(context context.Context, event Event) error
}

// NopPublisher drops every event. It is used when NATS is not configured.
type NopPublisher struct{}

// Publish implements [EventPublisher].
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// # NATS JetStream

// JetStream is the subset of [nats.JetStreamContext] used for publishing.
type JetStream interface {
	Publish(subject string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// NATSPublisher publishes catalog events to JetStream.
type NATSPublisher struct {
	js     JetStream
	logger *slog.Logger
}

// NewNATSPublisher constructs a [NATSPublisher].
func NewNATSPublisher(js JetStream, logger *slog.Logger) *NATSPublisher {
	return &NATSPublisher{js: js, logger: logger}
}

// Publish implements [EventPublisher]. The event ID doubles as the JetStream
// message ID so redelivered publishes are deduplicated by the server.
func (publisher *NATSPublisher) Publish(context context.Context, event Event) error {
	if event.EventID == "" {
		event.EventID = uuidv7.New()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ack, err := publisher.js.Publish(event.Subject(), data, nats.Context(context), nats.MsgId(event.EventID))
	if err != nil {
		return err
	}

	publisher.logger.DebugContext(context, "anime_event_published",
		slog.String("subject", event.Subject()),
		slog.String("event_id", event.EventID),
		slog.Uint64("seq", ack.Sequence),
	)
	return nil
}
