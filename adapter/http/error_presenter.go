package http

import (
	"errors"
	"net/http"

	"http-logging/application/correlation"
	domainerror "http-logging/domain/error"
	"http-logging/domain/port"
)

// ErrorPresenter turns handler errors into JSON error responses carrying the
// correlation id.
type ErrorPresenter struct {
	logger port.Logger
}

func NewErrorPresenter(logger port.Logger) *ErrorPresenter {
	return &ErrorPresenter{
		logger: logger,
	}
}

func (ep *ErrorPresenter) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := correlation.IDFromContext(r.Context())

	var httpErr *domainerror.HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = domainerror.NewInternal("unexpected error", err)
	}
	if reqID != "" {
		httpErr = httpErr.WithRequestID(reqID)
	}

	ep.logError(httpErr)

	domainerror.WriteError(w, httpErr)
}

func (ep *ErrorPresenter) logError(err *domainerror.HTTPError) {
	fields := []port.Field{
		port.String("error_code", string(err.Code)),
		port.String("message", err.Message),
		port.StatusCode(err.HTTPStatus()),
	}
	if err.RequestID != "" {
		fields = append(fields, port.RequestID(err.RequestID))
	}
	if err.Cause != nil {
		fields = append(fields, port.Error(err.Cause))
	}

	if err.HTTPStatus() >= http.StatusInternalServerError {
		ep.logger.Error("request failed", fields...)
	} else {
		ep.logger.Warn("request failed", fields...)
	}
}
