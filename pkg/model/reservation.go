package model

import (
	"time"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"

	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"

	MethodCard   = "card"
	MethodCash   = "cash"
	MethodOnline = "online"
)

// ActiveStatuses are the reservation states that hold a table. At most one
// reservation in an active state may exist per (table, date, time) slot.
var ActiveStatuses = []string{StatusPending, StatusConfirmed}

type Reservation struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	CustomerName    string    `json:"customer_name" bson:"customer_name" validate:"required,min=2,max=100"`
	CustomerEmail   string    `json:"customer_email" bson:"customer_email" validate:"required,email"`
	CustomerPhone   string    `json:"customer_phone" bson:"customer_phone" validate:"required,min=7,max=20"`
	TableNumber     int       `json:"table_number" bson:"table_number" validate:"required,min=1"`
	BookingDate     time.Time `json:"booking_date" bson:"booking_date" validate:"required"`
	BookingTime     string    `json:"booking_time" bson:"booking_time" validate:"required,timeslot"`
	DurationHours   int       `json:"duration_hours" bson:"duration_hours" validate:"omitempty,min=1,max=12"`
	Guests          int       `json:"guests" bson:"guests" validate:"required,min=1,max=12"`
	Status          string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	PaymentStatus   string    `json:"payment_status" bson:"payment_status" validate:"required,oneof=pending paid refunded"`
	PaymentMethod   string    `json:"payment_method,omitempty" bson:"payment_method,omitempty" validate:"omitempty,oneof=card cash online"`
	TotalAmount     int       `json:"total_amount" bson:"total_amount" validate:"min=0"`
	SpecialRequests string    `json:"special_requests,omitempty" bson:"special_requests,omitempty" validate:"omitempty,max=500"`
	AccountID       string    `json:"account_id,omitempty" bson:"account_id,omitempty" validate:"omitempty,mongodb"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// PaymentUpdate carries a requested payment transition.
type PaymentUpdate struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending paid refunded"`
	PaymentMethod string `json:"payment_method,omitempty" validate:"omitempty,oneof=card cash online"`
}

// StatusUpdate carries a requested lifecycle transition.
type StatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

// Availability reports the free and taken tables for one slot.
type Availability struct {
	Date            time.Time `json:"date"`
	Time            string    `json:"time"`
	AvailableTables []int     `json:"available_tables"`
	BookedTables    []int     `json:"booked_tables"`
}
