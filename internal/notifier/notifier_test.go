package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"maitred/pkg/kafka"
	"maitred/pkg/logger"
	"maitred/pkg/model"
)

type mockSender struct {
	confirmations  []*model.Reservation
	statusChanges  []string
	paymentChanges []*model.Reservation
	err            error
}

func (m *mockSender) SendConfirmation(res *model.Reservation) error {
	m.confirmations = append(m.confirmations, res)
	return m.err
}

func (m *mockSender) SendStatusChange(res *model.Reservation, previousStatus string) error {
	m.statusChanges = append(m.statusChanges, previousStatus)
	return m.err
}

func (m *mockSender) SendPaymentChange(res *model.Reservation) error {
	m.paymentChanges = append(m.paymentChanges, res)
	return m.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Output: io.Discard})
}

func eventMessage(t *testing.T, event model.ReservationEvent) kafka.Message {
	t.Helper()
	value, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return kafka.Message{Key: "665f1c2e9b3a4d0012345678", Value: value}
}

func testReservation() *model.Reservation {
	return &model.Reservation{
		ID:            "665f1c2e9b3a4d0012345678",
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		Status:        model.StatusConfirmed,
	}
}

func TestHandle_CreatedSendsConfirmation(t *testing.T) {
	sender := &mockSender{}
	n := New(sender, testLogger())

	msg := eventMessage(t, model.ReservationEvent{
		Type:        model.EventReservationCreated,
		Reservation: testReservation(),
		OccurredAt:  time.Now().UTC(),
	})

	if err := n.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if len(sender.confirmations) != 1 {
		t.Fatalf("confirmations = %d, want 1", len(sender.confirmations))
	}
	if sender.confirmations[0].CustomerEmail != "ada@example.com" {
		t.Errorf("recipient = %s", sender.confirmations[0].CustomerEmail)
	}
}

func TestHandle_StatusChangePassesPreviousStatus(t *testing.T) {
	sender := &mockSender{}
	n := New(sender, testLogger())

	msg := eventMessage(t, model.ReservationEvent{
		Type:           model.EventReservationStatusChanged,
		Reservation:    testReservation(),
		PreviousStatus: model.StatusPending,
	})

	if err := n.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if len(sender.statusChanges) != 1 || sender.statusChanges[0] != model.StatusPending {
		t.Errorf("statusChanges = %v, want [%s]", sender.statusChanges, model.StatusPending)
	}
}

func TestHandle_PaymentChange(t *testing.T) {
	sender := &mockSender{}
	n := New(sender, testLogger())

	msg := eventMessage(t, model.ReservationEvent{
		Type:        model.EventReservationPaymentChange,
		Reservation: testReservation(),
	})

	if err := n.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if len(sender.paymentChanges) != 1 {
		t.Errorf("paymentChanges = %d, want 1", len(sender.paymentChanges))
	}
}

func TestHandle_SendFailurePropagates(t *testing.T) {
	sender := &mockSender{err: errors.New("smtp timeout")}
	n := New(sender, testLogger())

	msg := eventMessage(t, model.ReservationEvent{
		Type:        model.EventReservationCreated,
		Reservation: testReservation(),
	})

	if err := n.Handle(context.Background(), msg); err == nil {
		t.Fatal("expected error from failed send")
	}
}

func TestHandle_MalformedPayloadDropped(t *testing.T) {
	sender := &mockSender{}
	n := New(sender, testLogger())

	msg := kafka.Message{Key: "k", Value: []byte("{not json")}
	if err := n.Handle(context.Background(), msg); err != nil {
		t.Fatalf("malformed payload should be dropped, got error: %v", err)
	}
	if len(sender.confirmations)+len(sender.statusChanges)+len(sender.paymentChanges) != 0 {
		t.Error("no email should be sent for a malformed payload")
	}
}

func TestHandle_MissingRecipientDropped(t *testing.T) {
	sender := &mockSender{}
	n := New(sender, testLogger())

	res := testReservation()
	res.CustomerEmail = ""
	msg := eventMessage(t, model.ReservationEvent{
		Type:        model.EventReservationCreated,
		Reservation: res,
	})

	if err := n.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if len(sender.confirmations) != 0 {
		t.Error("no email should be sent without a recipient")
	}
}

func TestHandle_UnknownEventTypeIgnored(t *testing.T) {
	sender := &mockSender{}
	n := New(sender, testLogger())

	msg := eventMessage(t, model.ReservationEvent{
		Type:        "reservation.totally_new",
		Reservation: testReservation(),
	})

	if err := n.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if len(sender.confirmations) != 0 {
		t.Error("unknown event types should be ignored")
	}
}
