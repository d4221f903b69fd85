package apierr

import (
	"errors"
	"net/http"
	"testing"
)

func TestFromResponseMessagePrecedence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"message", `{"message":"course not found","detail":"ignored"}`, "course not found"},
		{"detail", `{"detail":"Authentication credentials were not provided."}`, "Authentication credentials were not provided."},
		{"error string", `{"error":"bad link"}`, "bad link"},
		{"error object", `{"error":{"message":"nested"}}`, "nested"},
		{"empty", ``, fallbackMessage},
		{"not json", `<html/>`, fallbackMessage},
	}
	for _, tt := range tests {
		if got := FromResponse(http.StatusBadRequest, []byte(tt.raw)).Message; got != tt.want {
			t.Fatalf("%s: want=%q got=%q", tt.name, tt.want, got)
		}
	}
	if got := FromResponse(http.StatusBadGateway, nil).Message; got != fallbackMessage+" (bad gateway)" {
		t.Fatalf("5xx fallback: got=%q", got)
	}
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Network(cause)
	if err.Status != StatusNetwork || err.Error() != "network error" {
		t.Fatalf("Network: got status=%d msg=%q", err.Status, err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("Network should wrap its cause")
	}
	if StatusOf(err) != 0 || StatusOf(cause) != -1 {
		t.Fatalf("StatusOf: got=%d/%d", StatusOf(err), StatusOf(cause))
	}
}

func TestValidationErrorField(t *testing.T) {
	err := NewValidationError(errors.New("invalid"), FieldError{Field: "end_time", Error: "must be after start time"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want *ValidationError")
	}
	if msg, ok := ve.Field("end_time"); !ok || msg != "must be after start time" {
		t.Fatalf("Field: got=%q ok=%v", msg, ok)
	}
	if _, ok := ve.Field("title"); ok {
		t.Fatalf("Field(title): want missing")
	}
	if ve.HTTPStatusCode() != http.StatusUnprocessableEntity {
		t.Fatalf("HTTPStatusCode: got=%d", ve.HTTPStatusCode())
	}
}
