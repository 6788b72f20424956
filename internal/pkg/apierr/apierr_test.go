package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *Error
		wantStatus int
		wantCode   string
	}{
		{"validation", Validation("bad quantity %d", -1), http.StatusBadRequest, CodeValidation},
		{"not found", NotFound("order missing"), http.StatusNotFound, CodeNotFound},
		{"invalid state", InvalidState("order is completed"), http.StatusBadRequest, CodeInvalidState},
		{"invalid transition", InvalidTransition("pending to completed"), http.StatusBadRequest, CodeInvalidTransition},
		{"insufficient balance", InsufficientBalance(20, "not enough points"), http.StatusBadRequest, CodeInsufficientBalance},
		{"conflict", Conflict("duplicate"), http.StatusConflict, CodeConflict},
		{"internal", Internal(errors.New("boom")), http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", tt.err.Status, tt.wantStatus)
			}
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.wantCode)
			}
		})
	}
}

func TestInsufficientBalanceMeta(t *testing.T) {
	err := InsufficientBalance(42, "need more")
	remaining, ok := err.Meta["remaining_points"]
	if !ok {
		t.Fatal("expected remaining_points in Meta")
	}
	if remaining != 42 {
		t.Errorf("remaining_points = %v, want 42", remaining)
	}
}

func TestFrom(t *testing.T) {
	orig := NotFound("gone")
	if got := From(orig); got != orig {
		t.Errorf("From should return the original *Error")
	}

	wrapped := fmt.Errorf("fetch order: %w", orig)
	if got := From(wrapped); got.Code != CodeNotFound {
		t.Errorf("From(wrapped).Code = %q, want %q", got.Code, CodeNotFound)
	}

	plain := errors.New("driver exploded")
	got := From(plain)
	if got.Code != CodeInternal || got.Status != http.StatusInternalServerError {
		t.Errorf("From(plain) = %q/%d, want internal/500", got.Code, got.Status)
	}
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("outer: %w", Validation("inner"))
	if !Is(err, CodeValidation) {
		t.Error("Is should see through wrapping")
	}
	if Is(err, CodeNotFound) {
		t.Error("Is matched the wrong code")
	}
	if Is(errors.New("plain"), CodeValidation) {
		t.Error("Is matched a non-api error")
	}
}
