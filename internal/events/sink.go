// Package events carries fire-and-forget domain events out of the
// governance core. Delivery is best effort: emitters log failures and move
// on, they never fail the primary operation.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	redisstore "github.com/keyper-app/keyper/internal/store/redis"
)

// Envelope is the wire shape published for every event.
type Envelope struct {
	Event   string         `json:"event"`
	At      time.Time      `json:"at"`
	Payload map[string]any `json:"payload"`
}

// Publisher abstracts the pub/sub publish operation.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Sink publishes events to the per-client redis channel. The payload's
// client_id selects the channel; every event also lands on the firehose
// channel for operational consumers.
type Sink struct {
	pub Publisher
}

func NewSink(pub Publisher) *Sink {
	return &Sink{pub: pub}
}

// FirehoseChannel receives a copy of every event regardless of client.
const FirehoseChannel = "events:all"

func (s *Sink) Emit(ctx context.Context, event string, payload map[string]any) error {
	raw, err := json.Marshal(Envelope{Event: event, At: time.Now(), Payload: payload})
	if err != nil {
		return fmt.Errorf("events.Sink.Emit: marshal: %w", err)
	}

	if cid, ok := payload["client_id"].(string); ok {
		if id, err := uuid.Parse(cid); err == nil {
			if err := s.pub.Publish(ctx, redisstore.EventChannel(id), raw); err != nil {
				return fmt.Errorf("events.Sink.Emit: %w", err)
			}
		}
	}

	if err := s.pub.Publish(ctx, FirehoseChannel, raw); err != nil {
		return fmt.Errorf("events.Sink.Emit: %w", err)
	}

	return nil
}

// LogSink writes events to the structured log. Used when redis is not
// configured and as the default in tests.
type LogSink struct{}

func (LogSink) Emit(_ context.Context, event string, payload map[string]any) error {
	log.Info().Str("event", event).Interface("payload", payload).Msg("event emitted")
	return nil
}
