// Package events publishes participant change notifications to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golfbot/internal/participant/models"
	"golfbot/internal/platform/kafka/producer"
	id "golfbot/pkg/domain"
	"golfbot/pkg/requestcontext"
)

// Event types carried in the event_type header and body.
const (
	TypeCreated = "participant.created"
	TypeUpdated = "participant.updated"
	TypeDeleted = "participant.deleted"
)

// Event is the JSON body of a change record. Participant is omitted for deletes.
type Event struct {
	Type          string    `json:"type"`
	ParticipantID string    `json:"participant_id"`
	Participant   *Snapshot `json:"participant,omitempty"`
	RequestID     string    `json:"request_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Snapshot mirrors the HTTP representation of a participant.
type Snapshot struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Scores []int  `json:"scores"`
}

// Producer is the subset of the Kafka producer used here.
type Producer interface {
	ProduceAsync(msg *producer.Message) error
}

// KafkaPublisher turns participant mutations into Kafka records keyed by ID,
// so every change to one participant lands on the same partition.
type KafkaPublisher struct {
	producer Producer
	topic    string
	logger   *slog.Logger
	now      func() time.Time
}

func NewKafkaPublisher(p Producer, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: p, topic: topic, logger: logger, now: time.Now}
}

func (k *KafkaPublisher) ParticipantCreated(ctx context.Context, p *models.Participant) {
	k.publish(ctx, TypeCreated, p.ID, p)
}

func (k *KafkaPublisher) ParticipantUpdated(ctx context.Context, p *models.Participant) {
	k.publish(ctx, TypeUpdated, p.ID, p)
}

func (k *KafkaPublisher) ParticipantDeleted(ctx context.Context, participantID id.ParticipantID) {
	k.publish(ctx, TypeDeleted, participantID, nil)
}

func (k *KafkaPublisher) publish(ctx context.Context, eventType string, participantID id.ParticipantID, p *models.Participant) {
	event := Event{
		Type:          eventType,
		ParticipantID: participantID.String(),
		RequestID:     requestcontext.RequestID(ctx),
		OccurredAt:    k.now().UTC(),
	}
	if p != nil {
		event.Participant = &Snapshot{ID: p.ID.String(), Name: p.Name, Scores: p.Scores}
	}

	if err := k.send(event); err != nil && k.logger != nil {
		k.logger.WarnContext(ctx, "failed to publish participant event",
			"event_type", eventType,
			"participant_id", participantID.String(),
			"error", err,
		)
	}
}

func (k *KafkaPublisher) send(event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return k.producer.ProduceAsync(&producer.Message{
		Topic:   k.topic,
		Key:     []byte(event.ParticipantID),
		Value:   body,
		Headers: map[string]string{"event_type": event.Type},
	})
}

// Noop discards every event. It is used when Kafka is not configured.
type Noop struct{}

func (Noop) ParticipantCreated(context.Context, *models.Participant) {}

func (Noop) ParticipantUpdated(context.Context, *models.Participant) {}

func (Noop) ParticipantDeleted(context.Context, id.ParticipantID) {}
