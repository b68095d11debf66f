package domainerror

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"http-logging/domain/entity"
)

func TestHTTPError(t *testing.T) {
	t.Run("Error returns message without cause", func(t *testing.T) {
		err := NewNotFound("missing id=%d", 42)
		expected := "[NOT_FOUND] missing id=42"
		if err.Error() != expected {
			t.Errorf("Expected '%s', got '%s'", expected, err.Error())
		}
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		originalErr := errors.New("original")
		err := NewInternal("boom", originalErr)
		if err.Unwrap() != originalErr {
			t.Error("Expected Unwrap to return original cause")
		}
	})

	t.Run("Is matches by code", func(t *testing.T) {
		err := NewBadRequest("bad")
		if !errors.Is(err, &HTTPError{Code: CodeBadRequest}) {
			t.Error("Expected errors to match by code")
		}
		if errors.Is(err, &HTTPError{Code: CodeNotFound}) {
			t.Error("Expected different codes not to match")
		}
	})

	t.Run("HTTPStatus defaults by code", func(t *testing.T) {
		tests := []struct {
			code     ErrorCode
			expected int
		}{
			{CodeBadRequest, 400},
			{CodeUnauthorized, 401},
			{CodeForbidden, 403},
			{CodeNotFound, 404},
			{CodeConflict, 409},
			{CodeInternal, 500},
			{CodeConfig, 500},
		}
		for _, tt := range tests {
			if got := New(tt.code, "x").HTTPStatus(); got != tt.expected {
				t.Errorf("HTTPStatus(%s) = %d, want %d", tt.code, got, tt.expected)
			}
		}
	})

	t.Run("WithStatus overrides", func(t *testing.T) {
		if got := NewBadRequest("x").WithStatus(422).HTTPStatus(); got != 422 {
			t.Errorf("Expected 422, got %d", got)
		}
	})
}

func TestStatusOf(t *testing.T) {
	if _, ok := StatusOf(nil); ok {
		t.Error("nil error must not resolve a status")
	}
	if _, ok := StatusOf(errors.New("plain")); ok {
		t.Error("plain error must not resolve a status")
	}
	wrapped := fmt.Errorf("handler: %w", NewNotFound("gone"))
	status, ok := StatusOf(wrapped)
	if !ok || status != http.StatusNotFound {
		t.Errorf("Expected 404 through wrap chain, got %d (%v)", status, ok)
	}
}

type payloadErr struct{}

func (payloadErr) Error() string { return "payload err" }
func (payloadErr) Payload() any  { return map[string]any{"field": "name"} }

type envelopeErr struct{}

func (envelopeErr) Error() string  { return "envelope err" }
func (envelopeErr) Response() any { return entity.NewResponseEnvelope(409, "conflict body") }

type panickyErr struct{}

func (panickyErr) Error() string { return "panicky" }
func (panickyErr) Payload() any  { panic("no payload") }

func TestPayloadOf(t *testing.T) {
	t.Run("body wins", func(t *testing.T) {
		err := NewBadRequest("x").WithBody(map[string]any{"reason": "invalid"})
		got, ok := PayloadOf(err).(map[string]any)
		if !ok || got["reason"] != "invalid" {
			t.Errorf("Expected body payload, got %#v", PayloadOf(err))
		}
	})

	t.Run("payload method", func(t *testing.T) {
		got, ok := PayloadOf(payloadErr{}).(map[string]any)
		if !ok || got["field"] != "name" {
			t.Errorf("Expected Payload() result, got %#v", got)
		}
	})

	t.Run("response envelope is unwrapped", func(t *testing.T) {
		if got := PayloadOf(envelopeErr{}); got != "conflict body" {
			t.Errorf("Expected envelope body, got %#v", got)
		}
	})

	t.Run("falls back to message", func(t *testing.T) {
		got, ok := PayloadOf(NewNotFound("missing id=42")).(map[string]any)
		if !ok || !strings.Contains(got["message"].(string), "missing id=42") {
			t.Errorf("Expected message payload, got %#v", got)
		}
	})

	t.Run("blank message yields nil", func(t *testing.T) {
		if got := PayloadOf(errors.New("  ")); got != nil {
			t.Errorf("Expected nil, got %#v", got)
		}
	})

	t.Run("panicking accessor degrades to message", func(t *testing.T) {
		got, ok := PayloadOf(panickyErr{}).(map[string]any)
		if !ok || got["message"] != "panicky" {
			t.Errorf("Expected message fallback, got %#v", got)
		}
	})
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, NewNotFound("user 7").WithRequestID("req-1"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"request_id":"req-1"`) {
		t.Errorf("Expected request id in body, got %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	WriteError(rec, errors.New("plain"))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rec.Code)
	}
}
