package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"example.com/fitcoach/internal/domain"
)

// Publisher writes activity events to Kafka keyed by user id so that a
// single user's events land on the same partition in publish order.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a Publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Compression:  kafka.Snappy,
			Async:        false,
		},
	}
}

// PublishActivityCreated emits one activity.created record keyed by user id.
func (p *Publisher) PublishActivityCreated(ctx context.Context, activity domain.Activity) error {
	body, err := json.Marshal(NewActivityCreated(activity))
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(activity.UserID),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeActivityCreated)},
		},
	})
}

// Close releases the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
