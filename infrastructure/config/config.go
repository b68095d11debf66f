package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// HTTPLogging HTTP 流量日志配置
type HTTPLogging struct {
	Enabled            *bool    `yaml:"enabled,omitempty"`
	HTTPFilterEnabled  *bool    `yaml:"http_filter_enabled,omitempty"`
	LogRequestHeaders  *bool    `yaml:"log_request_headers,omitempty"`
	LogRequestBody     *bool    `yaml:"log_request_body,omitempty"`
	LogResponseHeaders *bool    `yaml:"log_response_headers,omitempty"`
	LogResponseBody    *bool    `yaml:"log_response_body,omitempty"`
	MaxBodyLength      int      `yaml:"max_body_length,omitempty"` // 截断阈值（字符数）
	IndentSize         *int     `yaml:"indent_size,omitempty"`
	Multiline          *bool    `yaml:"multiline,omitempty"`
	PrettyJSON         *bool    `yaml:"pretty_json,omitempty"`
	PrettyQueryParams  *bool    `yaml:"pretty_query_params,omitempty"`
	PrettyFormBody     *bool    `yaml:"pretty_form_body,omitempty"`
	MaskSensitive      *bool    `yaml:"mask_sensitive,omitempty"`
	SensitiveKeys      []string `yaml:"sensitive_keys,omitempty"`
	MaskReplacement    string   `yaml:"mask_replacement,omitempty"`
	ExcludedPaths      []string `yaml:"excluded_paths,omitempty"` // glob：* 匹配单段，** 匹配多段

	CorrelationHeaderName string `yaml:"correlation_header_name,omitempty"`
	MDCKey                string `yaml:"mdc_key,omitempty"`

	DecodeCompressedBodies *bool   `yaml:"decode_compressed_bodies,omitempty"`
	MaxRecordsPerSecond    float64 `yaml:"max_records_per_second,omitempty"` // 0 表示不限制
}

func isTrue(b *bool) bool {
	return b == nil || *b
}

func (h *HTTPLogging) IsEnabled() bool {
	return isTrue(h.Enabled)
}

func (h *HTTPLogging) IsHTTPFilterEnabled() bool {
	return h.IsEnabled() && isTrue(h.HTTPFilterEnabled)
}

func (h *HTTPLogging) ShouldLogRequestHeaders() bool {
	return isTrue(h.LogRequestHeaders)
}

func (h *HTTPLogging) ShouldLogRequestBody() bool {
	return isTrue(h.LogRequestBody)
}

func (h *HTTPLogging) ShouldLogResponseHeaders() bool {
	return isTrue(h.LogResponseHeaders)
}

func (h *HTTPLogging) ShouldLogResponseBody() bool {
	return isTrue(h.LogResponseBody)
}

func (h *HTTPLogging) GetMaxBodyLength() int {
	if h.MaxBodyLength <= 0 {
		return 2000
	}
	return h.MaxBodyLength
}

func (h *HTTPLogging) GetIndentSize() int {
	if h.IndentSize == nil || *h.IndentSize < 0 {
		return 2
	}
	return *h.IndentSize
}

func (h *HTTPLogging) IsMultiline() bool {
	return isTrue(h.Multiline)
}

func (h *HTTPLogging) IsPrettyJSON() bool {
	return isTrue(h.PrettyJSON)
}

func (h *HTTPLogging) IsPrettyQueryParams() bool {
	return isTrue(h.PrettyQueryParams)
}

func (h *HTTPLogging) IsPrettyFormBody() bool {
	return isTrue(h.PrettyFormBody)
}

func (h *HTTPLogging) ShouldMaskSensitive() bool {
	return isTrue(h.MaskSensitive)
}

func (h *HTTPLogging) GetMaskReplacement() string {
	if h.MaskReplacement == "" {
		return "****"
	}
	return h.MaskReplacement
}

func (h *HTTPLogging) GetCorrelationHeaderName() string {
	if strings.TrimSpace(h.CorrelationHeaderName) == "" {
		return "X-Request-Id"
	}
	return h.CorrelationHeaderName
}

func (h *HTTPLogging) GetMDCKey() string {
	if strings.TrimSpace(h.MDCKey) == "" {
		return "requestId"
	}
	return h.MDCKey
}

func (h *HTTPLogging) ShouldDecodeCompressedBodies() bool {
	return isTrue(h.DecodeCompressedBodies)
}

func (h *HTTPLogging) GetMaxRecordsPerSecond() float64 {
	if h.MaxRecordsPerSecond < 0 {
		return 0
	}
	return h.MaxRecordsPerSecond
}

// Logging 日志输出（sink）配置
type Logging struct {
	Level      string `yaml:"level"`
	Target     string `yaml:"target"` // console/file/both/none
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxAgeDays int    `yaml:"max_age_days,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
	Compress   bool   `yaml:"compress,omitempty"`
	Colorize   *bool  `yaml:"colorize,omitempty"`
	Async      bool   `yaml:"async"`
	BufferSize int    `yaml:"buffer_size"`
	DropOnFull bool   `yaml:"drop_on_full"`
}

func (l *Logging) GetLevel() string {
	if l.Level == "" {
		return "info"
	}
	return strings.ToLower(l.Level)
}

func (l *Logging) GetTarget() string {
	if l.Target == "" {
		return "console"
	}
	return strings.ToLower(l.Target)
}

func (l *Logging) GetFile() string {
	if l.File == "" {
		return "./logs/http.log"
	}
	return l.File
}

func (l *Logging) GetMaxSizeMB() int {
	if l.MaxSizeMB <= 0 {
		return 100
	}
	return l.MaxSizeMB
}

func (l *Logging) GetMaxAgeDays() int {
	if l.MaxAgeDays <= 0 {
		return 7
	}
	return l.MaxAgeDays
}

func (l *Logging) GetMaxBackups() int {
	if l.MaxBackups <= 0 {
		return 10
	}
	return l.MaxBackups
}

func (l *Logging) GetColorize() bool {
	return l.Colorize == nil || *l.Colorize
}

func (l *Logging) GetBufferSize() int {
	if l.BufferSize <= 0 {
		return 10000
	}
	return l.BufferSize
}

type Config struct {
	Listen      string      `yaml:"listen"`
	HTTPLogging HTTPLogging `yaml:"http_logging"`
	Logging     Logging     `yaml:"logging"`
}

func (c *Config) GetListen() string {
	if c.Listen == "" {
		return ":8080"
	}
	return c.Listen
}

// Default 返回全部使用默认值的配置
func Default() *Config {
	return &Config{}
}

// Parse 从 YAML 字节解析配置
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	return &cfg, nil
}

// Load 读取、解析并校验配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败 %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if errs := Validate(cfg); len(errs) > 0 {
		return nil, fmt.Errorf("配置校验失败: %v", errs)
	}
	return cfg, nil
}

func Validate(cfg *Config) []error {
	var errors []error

	h := &cfg.HTTPLogging
	if h.MaxBodyLength < 0 {
		errors = append(errors, fmt.Errorf("max_body_length 不能为负数: %d", h.MaxBodyLength))
	}
	if h.IndentSize != nil && *h.IndentSize < 0 {
		errors = append(errors, fmt.Errorf("indent_size 不能为负数: %d", *h.IndentSize))
	}
	if h.MaxRecordsPerSecond < 0 {
		errors = append(errors, fmt.Errorf("max_records_per_second 不能为负数: %v", h.MaxRecordsPerSecond))
	}
	for i, pattern := range h.ExcludedPaths {
		if !doublestar.ValidatePattern(pattern) {
			errors = append(errors, fmt.Errorf("excluded_paths #%d 格式无效: %s", i+1, pattern))
		}
	}
	for i, key := range h.SensitiveKeys {
		if strings.TrimSpace(key) == "" {
			errors = append(errors, fmt.Errorf("sensitive_keys #%d 不能为空", i+1))
		}
	}

	switch cfg.Logging.GetTarget() {
	case "console", "file", "both", "none":
	default:
		errors = append(errors, fmt.Errorf("logging.target 无效: %s", cfg.Logging.Target))
	}

	return errors
}
