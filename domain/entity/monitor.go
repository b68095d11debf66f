package entity

import "net/http"

// MonitorFlags marks what a monitored method call should log.
type MonitorFlags struct {
	LogParameters    bool
	LogResult        bool
	LogExecutionTime bool
}

// DefaultMonitorFlags logs everything.
func DefaultMonitorFlags() MonitorFlags {
	return MonitorFlags{LogParameters: true, LogResult: true, LogExecutionTime: true}
}

// ResponseEnvelope is a handler result that carries its own status and headers.
// The monitor renders it as {_type, status, headers, body}.
type ResponseEnvelope struct {
	Status int
	Header http.Header
	Body   any
}

// NewResponseEnvelope creates an envelope.
func NewResponseEnvelope(status int, body any) *ResponseEnvelope {
	return &ResponseEnvelope{Status: status, Header: make(http.Header), Body: body}
}
