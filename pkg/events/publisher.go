package events

import (
	"context"

	"maitred/pkg/kafka"
	"maitred/pkg/model"
)

// Publisher emits reservation lifecycle events. Services treat publishing as
// best effort; a failed publish never rolls back the state change.
type Publisher interface {
	PublishReservationEvent(ctx context.Context, event *model.ReservationEvent) error
}

type KafkaPublisher struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaPublisher(producer *kafka.Producer, source string) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		source:   source,
	}
}

// PublishReservationEvent keys the message by reservation ID so all events
// for one reservation land on the same partition, in order.
func (p *KafkaPublisher) PublishReservationEvent(ctx context.Context, event *model.ReservationEvent) error {
	msg := kafka.NewMessage().
		WithKey(event.Reservation.ID).
		WithValue(event).
		WithEventType(event.Type).
		WithSource(p.source).
		Build()

	return p.producer.Publish(ctx, msg)
}

// NoopPublisher is used when Kafka is not configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishReservationEvent(context.Context, *model.ReservationEvent) error {
	return nil
}
