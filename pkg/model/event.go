package model

import "time"

// Event types published on the reservations topic.
const (
	EventReservationCreated       = "reservation.created"
	EventReservationStatusChanged = "reservation.status_changed"
	EventReservationPaymentChange = "reservation.payment_changed"
)

// ReservationEvent is the payload published for every reservation state
// change. PreviousStatus is empty for creation events.
type ReservationEvent struct {
	Type           string       `json:"type"`
	Reservation    *Reservation `json:"reservation"`
	PreviousStatus string       `json:"previous_status,omitempty"`
	OccurredAt     time.Time    `json:"occurred_at"`
}
