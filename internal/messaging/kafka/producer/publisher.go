package producer

import (
	"context"

	"driftpro/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

// Key on company id so one tenant's events stay ordered within a partition.
func publishEvent(ctx context.Context, writer *kafkago.Writer, event kafka.OutboxEvent) error {
	msg := kafkago.Message{
		Topic: event.Topic,
		Key:   []byte(event.CompanyID),
		Value: event.Payload,
		Headers: []kafkago.Header{
			{Key: "event_id", Value: []byte(event.ID)},
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "aggregate_type", Value: []byte(event.AggregateType)},
			{Key: "aggregate_id", Value: []byte(event.AggregateID)},
		},
	}

	return writer.WriteMessages(ctx, msg)
}
