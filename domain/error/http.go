package domainerror

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"http-logging/domain/entity"
)

// StatusCoder is implemented by errors that map to an HTTP status.
type StatusCoder interface {
	HTTPStatus() int
}

type bodyCarrier interface{ ErrorBody() any }
type payloadCarrier interface{ Payload() any }
type errorResponseCarrier interface{ ErrorResponse() any }
type responseCarrier interface{ Response() any }

// StatusOf resolves the HTTP status of err by searching the unwrap chain for a
// StatusCoder. It returns false when no status can be derived.
func StatusOf(err error) (int, bool) {
	if err == nil {
		return 0, false
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		if status := sc.HTTPStatus(); status > 0 {
			return status, true
		}
	}
	return 0, false
}

// PayloadOf extracts, best effort, something worth showing as the error's
// response payload. Candidates are tried in order: ErrorBody, Payload,
// ErrorResponse, Response; a ResponseEnvelope contributes its body. When none
// yields a value the message is used, and nil is returned for a blank message.
func PayloadOf(err error) (payload any) {
	if err == nil {
		return nil
	}
	defer func() {
		// 提取 payload 属于尽力而为，任何 panic 都降级为仅输出消息
		if r := recover(); r != nil {
			payload = messagePayload(err)
		}
	}()

	candidates := []func() any{
		func() any {
			var c bodyCarrier
			if errors.As(err, &c) {
				return c.ErrorBody()
			}
			return nil
		},
		func() any {
			var c payloadCarrier
			if errors.As(err, &c) {
				return c.Payload()
			}
			return nil
		},
		func() any {
			var c errorResponseCarrier
			if errors.As(err, &c) {
				return c.ErrorResponse()
			}
			return nil
		},
		func() any {
			var c responseCarrier
			if errors.As(err, &c) {
				return c.Response()
			}
			return nil
		},
	}
	for _, candidate := range candidates {
		v := candidate()
		if env, ok := v.(*entity.ResponseEnvelope); ok {
			if env == nil {
				continue
			}
			return env.Body
		}
		if v != nil {
			return v
		}
	}
	return messagePayload(err)
}

func messagePayload(err error) any {
	msg := err.Error()
	if strings.TrimSpace(msg) == "" {
		return nil
	}
	return map[string]any{"message": msg}
}

// APIErrorResponse represents the JSON error response format.
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents the error details in the response.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ToAPIResponse converts an HTTPError to an API error response.
func ToAPIResponse(err *HTTPError) APIErrorResponse {
	return APIErrorResponse{
		Error: ErrorDetail{
			Code:      string(err.Code),
			Message:   err.Message,
			RequestID: err.RequestID,
		},
	}
}

// WriteError writes err as a JSON response.
// If the error is not an HTTPError, it creates a generic internal error.
func WriteError(w http.ResponseWriter, err error) {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = NewInternal("内部错误", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpErr.HTTPStatus())
	json.NewEncoder(w).Encode(ToAPIResponse(httpErr))
}
