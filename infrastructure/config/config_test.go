package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *int {
	return &i
}

func TestHTTPLogging_Defaults(t *testing.T) {
	p := DefaultProperties()

	if !p.Enabled || !p.HTTPFilterEnabled {
		t.Error("Expected logging enabled by default")
	}
	if !p.LogRequestHeaders || !p.LogRequestBody || !p.LogResponseHeaders || !p.LogResponseBody {
		t.Error("Expected every section enabled by default")
	}
	if p.MaxBodyLength != 2000 {
		t.Errorf("MaxBodyLength = %d, want 2000", p.MaxBodyLength)
	}
	if p.IndentSize != 2 {
		t.Errorf("IndentSize = %d, want 2", p.IndentSize)
	}
	if p.MaskReplacement != "****" {
		t.Errorf("MaskReplacement = %q, want ****", p.MaskReplacement)
	}
	if p.CorrelationHeaderName != "X-Request-Id" {
		t.Errorf("CorrelationHeaderName = %q", p.CorrelationHeaderName)
	}
	if p.MDCKey != "requestId" {
		t.Errorf("MDCKey = %q", p.MDCKey)
	}
	if !p.Multiline || !p.PrettyJSON || !p.PrettyQueryParams || !p.PrettyFormBody || !p.MaskSensitive {
		t.Error("Expected rendering toggles enabled by default")
	}
	if p.MaxRecordsPerSecond != 0 {
		t.Errorf("MaxRecordsPerSecond = %v, want 0", p.MaxRecordsPerSecond)
	}
}

func TestHTTPLogging_BoolGetters(t *testing.T) {
	tests := []struct {
		name     string
		value    *bool
		expected bool
	}{
		{"nil (default true)", nil, true},
		{"explicit true", boolPtr(true), true},
		{"explicit false", boolPtr(false), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &HTTPLogging{MaskSensitive: tt.value, Multiline: tt.value}
			if got := h.ShouldMaskSensitive(); got != tt.expected {
				t.Errorf("ShouldMaskSensitive() = %v, want %v", got, tt.expected)
			}
			if got := h.IsMultiline(); got != tt.expected {
				t.Errorf("IsMultiline() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHTTPLogging_FilterFollowsMasterSwitch(t *testing.T) {
	h := &HTTPLogging{Enabled: boolPtr(false), HTTPFilterEnabled: boolPtr(true)}
	if h.IsHTTPFilterEnabled() {
		t.Error("Expected filter disabled when master switch is off")
	}
}

func TestHTTPLogging_IndentSize(t *testing.T) {
	if got := (&HTTPLogging{IndentSize: intPtr(0)}).GetIndentSize(); got != 0 {
		t.Errorf("explicit zero indent = %d, want 0", got)
	}
	if got := (&HTTPLogging{IndentSize: intPtr(4)}).GetIndentSize(); got != 4 {
		t.Errorf("indent = %d, want 4", got)
	}
}

func TestResolve_CopiesSlices(t *testing.T) {
	h := &HTTPLogging{SensitiveKeys: []string{"password"}}
	p := h.Resolve()
	h.SensitiveKeys[0] = "changed"
	if p.SensitiveKeys[0] != "password" {
		t.Error("Expected Properties to be independent of the source config")
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
listen: ":9000"
http_logging:
  max_body_length: 500
  indent_size: 4
  multiline: false
  sensitive_keys: [password, Authorization]
  mask_replacement: "[hidden]"
  excluded_paths: ["/actuator/**"]
  correlation_header_name: X-Correlation-Id
logging:
  level: DEBUG
  target: both
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	p := cfg.HTTPLogging.Resolve()
	if cfg.GetListen() != ":9000" {
		t.Errorf("listen = %s", cfg.GetListen())
	}
	if p.MaxBodyLength != 500 || p.IndentSize != 4 || p.Multiline {
		t.Errorf("unexpected properties: %+v", p)
	}
	if len(p.SensitiveKeys) != 2 || p.MaskReplacement != "[hidden]" {
		t.Errorf("unexpected masking properties: %+v", p)
	}
	if p.CorrelationHeaderName != "X-Correlation-Id" {
		t.Errorf("header = %s", p.CorrelationHeaderName)
	}
	if cfg.Logging.GetLevel() != "debug" || cfg.Logging.GetTarget() != "both" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("http_logging: [")); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"defaults are valid", Config{}, ""},
		{"negative body length", Config{HTTPLogging: HTTPLogging{MaxBodyLength: -1}}, "max_body_length"},
		{"negative indent", Config{HTTPLogging: HTTPLogging{IndentSize: intPtr(-2)}}, "indent_size"},
		{"bad glob", Config{HTTPLogging: HTTPLogging{ExcludedPaths: []string{"/a/[b"}}}, "excluded_paths"},
		{"blank key", Config{HTTPLogging: HTTPLogging{SensitiveKeys: []string{" "}}}, "sensitive_keys"},
		{"unknown target", Config{Logging: Logging{Target: "syslog"}}, "logging.target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(&tt.cfg)
			if tt.wantErr == "" {
				if len(errs) != 0 {
					t.Errorf("Expected no errors, got %v", errs)
				}
				return
			}
			found := false
			for _, err := range errs {
				if strings.Contains(err.Error(), tt.wantErr) {
					found = true
				}
			}
			if !found {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, errs)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("http_logging:\n  max_body_length: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTPLogging.GetMaxBodyLength() != 10 {
		t.Errorf("max body length = %d", cfg.HTTPLogging.GetMaxBodyLength())
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("http_logging:\n  max_body_length: -5\n"), 0644)
	if _, err := Load(bad); err == nil {
		t.Error("Expected validation error")
	}
}
