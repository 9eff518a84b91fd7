package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  Conflict("table 5 already reserved"),
			want: "CONFLICT: table 5 already reserved",
		},
		{
			name: "with cause",
			err:  Internal("insert failed", errors.New("broken pipe")),
			want: "INTERNAL_ERROR: insert failed (caused by: broken pipe)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"not found", NotFound("reservation"), http.StatusNotFound},
		{"validation", Validation("bad input", nil), http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("missing date"), http.StatusBadRequest},
		{"conflict", Conflict("slot taken"), http.StatusConflict},
		{"invalid transition", InvalidTransition("completed", "pending"), http.StatusConflict},
		{"unauthorized", Unauthorized("missing token"), http.StatusUnauthorized},
		{"forbidden", Forbidden("staff only"), http.StatusForbidden},
		{"internal", Internal("boom", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.StatusCode(); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInvalidTransitionDetails(t *testing.T) {
	err := InvalidTransition("pending", "completed")
	if err.Code != CodeInvalidTransition {
		t.Fatalf("expected code %s, got %s", CodeInvalidTransition, err.Code)
	}
	if err.Details["from"] != "pending" || err.Details["to"] != "completed" {
		t.Errorf("unexpected details: %#v", err.Details)
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("menu item")
	if got := AsAppError(appErr); got != appErr {
		t.Error("AsAppError should return the same *AppError unchanged")
	}

	plain := errors.New("plain failure")
	wrapped := AsAppError(plain)
	if wrapped.Code != CodeInternal {
		t.Errorf("expected %s, got %s", CodeInternal, wrapped.Code)
	}
	if !errors.Is(wrapped, plain) {
		t.Error("wrapped error should unwrap to the original")
	}
}

func TestIsAppError(t *testing.T) {
	if !IsAppError(Conflict("taken")) {
		t.Error("expected true for *AppError")
	}
	if IsAppError(errors.New("nope")) {
		t.Error("expected false for plain error")
	}
}
