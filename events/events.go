// Package events publishes best-effort audit events. A failure to publish is
// logged and never reaches the request that caused the event.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/atmacsn/agriadmin/metrics"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const (
	AccountRegistered        = "account.registered"
	AuthLogin                = "auth.login"
	AuthLogout               = "auth.logout"
	FarmerCreated            = "farmer.created"
	FarmerGroupStatusChanged = "farmer_group.status_changed"
)

type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	ActorID    string         `json:"actorId,omitempty"`
	SubjectID  string         `json:"subjectId,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

func New(eventType, actorID, subjectID string, attrs map[string]any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		ActorID:    actorID,
		SubjectID:  subjectID,
		Attributes: attrs,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event)
	Close() error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) {}
func (NoopPublisher) Close() error                   { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer  messageWriter
	logger  logrus.FieldLogger
	metrics *metrics.Metrics
	timeout time.Duration
}

func NewKafkaPublisher(brokers []string, topic string, logger logrus.FieldLogger, m *metrics.Metrics) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
	return &KafkaPublisher{writer: w, logger: logger, metrics: m, timeout: 5 * time.Second}
}

// Publish writes the event keyed by its subject so events about one record
// stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, e Event) {
	if err := p.write(ctx, e); err != nil {
		p.metrics.Event(e.Type, "error")
		p.logger.WithError(err).WithField("event", e.Type).Warn("audit event not published")
		return
	}
	p.metrics.Event(e.Type, "ok")
}

func (p *KafkaPublisher) write(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	// the request context may be cancelled as soon as the response is written
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.SubjectID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(e.Type)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
