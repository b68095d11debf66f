package http

import (
	"encoding/json"
	"net/http"

	"http-logging/domain/entity"
	"http-logging/domain/port"
)

type HealthHandler struct {
	props  entity.LoggingProperties
	logger port.Logger
}

func NewHealthHandler(props entity.LoggingProperties, logger port.Logger) *HealthHandler {
	return &HealthHandler{
		props:  props,
		logger: logger,
	}
}

type HealthStatus struct {
	Status        string `json:"status"`
	Logging       bool   `json:"logging"`
	HTTPFilter    bool   `json:"http_filter"`
	Multiline     bool   `json:"multiline"`
	MaskSensitive bool   `json:"mask_sensitive"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:        "healthy",
		Logging:       h.props.Enabled,
		HTTPFilter:    h.props.Enabled && h.props.HTTPFilterEnabled,
		Multiline:     h.props.Multiline,
		MaskSensitive: h.props.MaskSensitive,
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(status); err != nil {
		h.logger.Error("failed to encode health status", port.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}
