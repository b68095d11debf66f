package config

import "http-logging/domain/entity"

// Properties is the resolved view of HTTPLogging.
type Properties = entity.LoggingProperties

// Resolve applies defaults and returns a Properties snapshot.
func (h *HTTPLogging) Resolve() Properties {
	return Properties{
		Enabled:                h.IsEnabled(),
		HTTPFilterEnabled:      h.IsHTTPFilterEnabled(),
		LogRequestHeaders:      h.ShouldLogRequestHeaders(),
		LogRequestBody:         h.ShouldLogRequestBody(),
		LogResponseHeaders:     h.ShouldLogResponseHeaders(),
		LogResponseBody:        h.ShouldLogResponseBody(),
		MaxBodyLength:          h.GetMaxBodyLength(),
		IndentSize:             h.GetIndentSize(),
		Multiline:              h.IsMultiline(),
		PrettyJSON:             h.IsPrettyJSON(),
		PrettyQueryParams:      h.IsPrettyQueryParams(),
		PrettyFormBody:         h.IsPrettyFormBody(),
		MaskSensitive:          h.ShouldMaskSensitive(),
		SensitiveKeys:          append([]string(nil), h.SensitiveKeys...),
		MaskReplacement:        h.GetMaskReplacement(),
		ExcludedPaths:          append([]string(nil), h.ExcludedPaths...),
		CorrelationHeaderName:  h.GetCorrelationHeaderName(),
		MDCKey:                 h.GetMDCKey(),
		DecodeCompressedBodies: h.ShouldDecodeCompressedBodies(),
		MaxRecordsPerSecond:    h.GetMaxRecordsPerSecond(),
	}
}

// DefaultProperties returns the defaults of every option.
func DefaultProperties() Properties {
	return (&HTTPLogging{}).Resolve()
}
