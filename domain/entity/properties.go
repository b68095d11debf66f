package entity

// LoggingProperties is the immutable, resolved logging configuration read by
// every stage of the pipeline. It is built once at startup and never mutated
// afterwards.
type LoggingProperties struct {
	Enabled            bool
	HTTPFilterEnabled  bool
	LogRequestHeaders  bool
	LogRequestBody     bool
	LogResponseHeaders bool
	LogResponseBody    bool
	MaxBodyLength      int
	IndentSize         int
	Multiline          bool
	PrettyJSON         bool
	PrettyQueryParams  bool
	PrettyFormBody     bool
	MaskSensitive      bool
	SensitiveKeys      []string
	MaskReplacement    string
	ExcludedPaths      []string

	CorrelationHeaderName string
	MDCKey                string

	DecodeCompressedBodies bool
	MaxRecordsPerSecond    float64
}
