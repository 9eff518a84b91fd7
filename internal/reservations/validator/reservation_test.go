package validator

import (
	"testing"
	"time"

	"maitred/pkg/logger"
	"maitred/pkg/model"
)

func testValidator(t *testing.T) *ReservationValidator {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	return NewReservationValidator(log)
}

func baseReservation() *model.Reservation {
	return &model.Reservation{
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		CustomerPhone: "+12025550123",
		TableNumber:   5,
		BookingDate:   time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC),
		BookingTime:   "19:30",
		Guests:        4,
		Status:        model.StatusPending,
		PaymentStatus: model.PaymentPending,
	}
}

func TestValidate_TimeslotFormat(t *testing.T) {
	v := testValidator(t)

	tests := []struct {
		slot  string
		valid bool
	}{
		{"00:00", true},
		{"09:05", true},
		{"19:30", true},
		{"23:59", true},
		{"24:00", false},
		{"19:60", false},
		{"9:30", false},
		{"19.30", false},
		{"7pm", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.slot, func(t *testing.T) {
			r := baseReservation()
			r.BookingTime = tt.slot
			err := v.Validate(r)
			if tt.valid && err != nil {
				t.Errorf("slot %q should be valid: %v", tt.slot, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("slot %q should be rejected", tt.slot)
			}
		})
	}
}

func TestValidate_GuestBounds(t *testing.T) {
	v := testValidator(t)

	for _, guests := range []int{1, 12} {
		r := baseReservation()
		r.Guests = guests
		if err := v.Validate(r); err != nil {
			t.Errorf("guests=%d should be valid: %v", guests, err)
		}
	}
	for _, guests := range []int{0, -1, 13} {
		r := baseReservation()
		r.Guests = guests
		if err := v.Validate(r); err == nil {
			t.Errorf("guests=%d should be rejected", guests)
		}
	}
}

func TestValidate_StatusValues(t *testing.T) {
	v := testValidator(t)

	r := baseReservation()
	r.Status = "tentative"
	if err := v.Validate(r); err == nil {
		t.Error("unknown status should be rejected")
	}

	r = baseReservation()
	r.PaymentStatus = "owing"
	if err := v.Validate(r); err == nil {
		t.Error("unknown payment status should be rejected")
	}
}

func TestValidate_ErrorMessagesNameField(t *testing.T) {
	v := testValidator(t)

	r := baseReservation()
	r.CustomerEmail = "nope"
	err := v.Validate(r)
	if err == nil {
		t.Fatal("expected validation error")
	}

	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(verrs) != 1 || verrs[0].Field != "CustomerEmail" {
		t.Errorf("unexpected validation errors: %v", verrs)
	}
}

func TestValidateStatusUpdate(t *testing.T) {
	v := testValidator(t)

	if err := v.ValidateStatusUpdate(&model.StatusUpdate{Status: model.StatusConfirmed}); err != nil {
		t.Errorf("valid status update rejected: %v", err)
	}
	if err := v.ValidateStatusUpdate(&model.StatusUpdate{Status: "archived"}); err == nil {
		t.Error("unknown status should be rejected")
	}
	if err := v.ValidateStatusUpdate(&model.StatusUpdate{}); err == nil {
		t.Error("empty status should be rejected")
	}
}

func TestValidatePaymentUpdate(t *testing.T) {
	v := testValidator(t)

	if err := v.ValidatePaymentUpdate(&model.PaymentUpdate{PaymentStatus: model.PaymentPaid, PaymentMethod: model.MethodCard}); err != nil {
		t.Errorf("valid payment update rejected: %v", err)
	}
	if err := v.ValidatePaymentUpdate(&model.PaymentUpdate{PaymentStatus: model.PaymentPaid, PaymentMethod: "barter"}); err == nil {
		t.Error("unknown payment method should be rejected")
	}
	if err := v.ValidatePaymentUpdate(&model.PaymentUpdate{}); err == nil {
		t.Error("empty payment status should be rejected")
	}
}
