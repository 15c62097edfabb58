package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"parcel-portal/internal/core/logger"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

const (
	// TypeOrderCreated is published after an order was accepted.
	TypeOrderCreated = "order.created"
	// TypePickupOrdered is published after a pickup was confirmed (or simulated).
	TypePickupOrdered = "pickup.ordered"
)

// Event is a workflow notification for downstream consumers.
type Event struct {
	Type      string    `json:"type"`
	Waybill   string    `json:"waybill"`
	SessionID string    `json:"session_id,omitempty"`
	Payload   any       `json:"payload,omitempty"`
	EventTime time.Time `json:"event_time"`
}

// Publisher sends workflow events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event. It is used when no brokers are configured.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }

// KafkaPublisher publishes events as JSON messages keyed by waybill.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaPublisher wraps an existing producer.
func NewKafkaPublisher(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
	}
}

// ProducerConfig returns the sarama configuration used for the sync producer.
func ProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Version = sarama.V2_6_0_0
	return config
}

// NewPublisher connects to the comma-separated brokers, or returns a NopPublisher if none are set.
func NewPublisher(brokers, topic string) (Publisher, error) {
	list := splitBrokers(brokers)
	if len(list) == 0 {
		return NopPublisher{}, nil
	}

	producer, err := sarama.NewSyncProducer(list, ProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	logger.Get().Info("Kafka event publication enabled",
		zap.Strings("brokers", list),
		zap.String("topic", topic),
	)
	return NewKafkaPublisher(producer, topic), nil
}

// Publish implements Publisher.
func (p *KafkaPublisher) Publish(_ context.Context, event Event) error {
	if event.EventTime.IsZero() {
		event.EventTime = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Waybill),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send event %s: %w", event.Type, err)
	}

	logger.Get().Debug("Event published",
		zap.String("topic", p.topic),
		zap.String("type", event.Type),
		zap.String("waybill", event.Waybill),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

// Close implements Publisher.
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// PublishQuietly publishes the event and only logs a failure.
// Workflow actions never fail because of event publication.
func PublishQuietly(ctx context.Context, p Publisher, event Event) {
	if err := p.Publish(ctx, event); err != nil {
		logger.Get().Warn("Failed to publish event",
			zap.String("type", event.Type),
			zap.String("waybill", event.Waybill),
			zap.Error(err),
		)
	}
}

func splitBrokers(brokers string) []string {
	var list []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			list = append(list, b)
		}
	}
	return list
}
