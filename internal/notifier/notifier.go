// Package notifier consumes reservation events and emails the customer
// about the life of their booking.
package notifier

import (
	"context"
	"fmt"

	"maitred/pkg/kafka"
	"maitred/pkg/logger"
	"maitred/pkg/model"
)

// Sender is the slice of the mailer the notifier needs.
type Sender interface {
	SendConfirmation(res *model.Reservation) error
	SendStatusChange(res *model.Reservation, previousStatus string) error
	SendPaymentChange(res *model.Reservation) error
}

type Notifier struct {
	sender Sender
	log    *logger.Logger
}

func New(sender Sender, log *logger.Logger) *Notifier {
	return &Notifier{
		sender: sender,
		log:    log,
	}
}

// Handle is the consumer callback. Malformed payloads are dropped with a
// log line rather than retried; they will never decode on a second pass.
func (n *Notifier) Handle(ctx context.Context, msg kafka.Message) error {
	var event model.ReservationEvent
	if err := msg.DecodeValue(&event); err != nil {
		n.log.Error("dropping undecodable reservation event",
			"key", msg.Key,
			"error", err,
		)
		return nil
	}

	if event.Reservation == nil || event.Reservation.CustomerEmail == "" {
		n.log.Warn("reservation event without a recipient",
			"event_type", event.Type,
			"key", msg.Key,
		)
		return nil
	}

	switch event.Type {
	case model.EventReservationCreated:
		if err := n.sender.SendConfirmation(event.Reservation); err != nil {
			return fmt.Errorf("failed to send confirmation email: %w", err)
		}
	case model.EventReservationStatusChanged:
		if err := n.sender.SendStatusChange(event.Reservation, event.PreviousStatus); err != nil {
			return fmt.Errorf("failed to send status email: %w", err)
		}
	case model.EventReservationPaymentChange:
		if err := n.sender.SendPaymentChange(event.Reservation); err != nil {
			return fmt.Errorf("failed to send payment email: %w", err)
		}
	default:
		n.log.Warn("unknown reservation event type", "event_type", event.Type, "key", msg.Key)
		return nil
	}

	n.log.Info("notification sent",
		"event_type", event.Type,
		"reservation_id", event.Reservation.ID,
		"to", event.Reservation.CustomerEmail,
	)
	return nil
}
