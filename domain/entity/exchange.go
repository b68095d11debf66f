package entity

import (
	"net/http"
	"time"
)

// Exchange represents one captured HTTP request/response pair ready for rendering.
type Exchange struct {
	RequestID string
	Method    string
	Path      string
	RawQuery  string

	RequestHeader http.Header
	RequestBody   *CapturedBody

	Status         int
	ResponseHeader http.Header
	ResponseBody   *CapturedBody

	Duration time.Duration

	// Failure is set when the handler panicked. It holds the recovered value.
	Failure any
	Stack   []byte
}

// Failed returns true if the handler did not complete normally.
func (e *Exchange) Failed() bool {
	return e.Failure != nil
}

// DurationMS returns the elapsed time in milliseconds.
func (e *Exchange) DurationMS() int64 {
	return e.Duration.Milliseconds()
}
