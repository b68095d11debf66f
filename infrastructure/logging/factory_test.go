package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"http-logging/infrastructure/config"
)

func boolPtr(b bool) *bool {
	return &b
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		expected    zapcore.Level
		wantEnabled bool
	}{
		{"debug lowercase", "debug", zapcore.DebugLevel, true},
		{"DEBUG uppercase", "DEBUG", zapcore.DebugLevel, true},
		{"info lowercase", "info", zapcore.InfoLevel, true},
		{"warn lowercase", "warn", zapcore.WarnLevel, true},
		{"warning full word", "warning", zapcore.WarnLevel, true},
		{"ERROR uppercase", "ERROR", zapcore.ErrorLevel, true},
		{"none disables", "none", zapcore.FatalLevel + 1, false},
		{"unknown defaults to info", "unknown", zapcore.InfoLevel, true},
		{"empty string defaults to info", "", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, enabled := parseLevel(tt.level)
			if level != tt.expected || enabled != tt.wantEnabled {
				t.Errorf("parseLevel(%q) = %v, %v; want %v, %v", tt.level, level, enabled, tt.expected, tt.wantEnabled)
			}
		})
	}
}

func TestFieldValueString(t *testing.T) {
	tests := []struct {
		name     string
		field    zapcore.Field
		expected string
	}{
		{"string type", zap.String("key", "value"), "value"},
		{"int64 type", zap.Int64("key", 12345), "12345"},
		{"uint64 type", zap.Uint64("key", 888888), "888888"},
		{"bool true", zap.Bool("key", true), "true"},
		{"bool false", zap.Bool("key", false), "false"},
		{"duration", zap.Duration("key", 1500*time.Millisecond), "1.5s"},
		{"error", zap.Error(errors.New("boom")), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fieldValueString(tt.field); got != tt.expected {
				t.Errorf("fieldValueString() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNew_ConsoleLayout(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Logging{Level: "debug", Target: "console", Colorize: boolPtr(false)}

	out, err := newOutput(cfg, "requestId", zapcore.AddSync(&buf))
	if err != nil {
		t.Fatalf("newOutput() error = %v", err)
	}

	out.Logger.Info("hello", zap.String("requestId", "abc"), zap.Int("n", 3))
	out.Logger.With(zap.String("component", "filter")).Warn("second")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.HasSuffix(lines[0], " | INFO  | abc | hello [n=3]") {
		t.Errorf("unexpected first line: %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], " | WARN  | second [component=filter]") {
		t.Errorf("unexpected second line: %q", lines[1])
	}
}

func TestNew_ConsoleKeepsMultilineMessage(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Logging{Target: "console", Colorize: boolPtr(false)}

	out, err := newOutput(cfg, "requestId", zapcore.AddSync(&buf))
	if err != nil {
		t.Fatalf("newOutput() error = %v", err)
	}

	out.Logger.Info("[HTTP] [RequestId: x]\n-> Request: GET /a", zap.String("requestId", "x"))

	if !strings.Contains(buf.String(), "| x | [HTTP] [RequestId: x]\n-> Request: GET /a\n") {
		t.Errorf("multiline message altered: %q", buf.String())
	}
}

func TestNew_ErrorCarriesNoLoggerStack(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Logging{Target: "console", Colorize: boolPtr(false)}

	out, err := newOutput(cfg, "requestId", zapcore.AddSync(&buf))
	if err != nil {
		t.Fatalf("newOutput() error = %v", err)
	}
	out.Logger.Error("<- UserService.Find ERROR (3 ms):", zap.String("requestId", "r-9"))

	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Errorf("expected a single line without stack trace, got %q", buf.String())
	}
	if !strings.HasSuffix(buf.String(), " | ERROR | r-9 | <- UserService.Find ERROR (3 ms):\n") {
		t.Errorf("unexpected error line: %q", buf.String())
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Logging{Level: "warn", Target: "console", Colorize: boolPtr(false)}

	out, err := newOutput(cfg, "", zapcore.AddSync(&buf))
	if err != nil {
		t.Fatalf("newOutput() error = %v", err)
	}
	out.Logger.Info("dropped")
	out.Logger.Debug("dropped")

	if buf.Len() != 0 {
		t.Errorf("expected nothing below warn, got %q", buf.String())
	}
}

func TestNew_NoneTarget(t *testing.T) {
	for _, cfg := range []*config.Logging{
		{Target: "none"},
		{Level: "none", Target: "console"},
	} {
		out, err := New(cfg, "requestId")
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if out.Logger.Core().Enabled(zapcore.ErrorLevel) {
			t.Errorf("expected disabled logger for %+v", cfg)
		}
		if err := out.Shutdown(); err != nil {
			t.Errorf("Shutdown() error = %v", err)
		}
	}
}

func TestNew_FileTargetWritesJSON(t *testing.T) {
	for _, async := range []bool{false, true} {
		path := filepath.Join(t.TempDir(), "nested", "http.log")
		cfg := &config.Logging{Target: "file", File: path, Async: async, BufferSize: 16}

		out, err := New(cfg, "requestId")
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		out.Logger.Info("exchange", zap.String("requestId", "r-1"))
		if err := out.Shutdown(); err != nil {
			t.Fatalf("Shutdown() error = %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read log file: %v", err)
		}
		var entry map[string]any
		if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
			t.Fatalf("log line is not JSON (async=%v): %q", async, data)
		}
		if entry["msg"] != "exchange" || entry["level"] != "info" || entry["requestId"] != "r-1" {
			t.Errorf("unexpected entry (async=%v): %v", async, entry)
		}
	}
}

// blockingWriter 第一次写入时阻塞，直到 release 关闭
type blockingWriter struct {
	mu      sync.Mutex
	entered chan struct{}
	release chan struct{}
	once    sync.Once
	writes  int
}

func (w *blockingWriter) Write(p []byte) (int, error) {
	w.once.Do(func() {
		close(w.entered)
		<-w.release
	})
	w.mu.Lock()
	w.writes++
	w.mu.Unlock()
	return len(p), nil
}

func (w *blockingWriter) Sync() error { return nil }

func TestAsyncWriter_DropOnFull(t *testing.T) {
	w := &blockingWriter{entered: make(chan struct{}), release: make(chan struct{})}
	aw := newAsyncWriter(w, 1, true)

	aw.Write([]byte("one"))
	<-w.entered
	aw.Write([]byte("two"))   // 进入缓冲区
	aw.Write([]byte("three")) // 缓冲区已满

	close(w.release)
	aw.Stop()

	if aw.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", aw.Dropped())
	}
	if w.writes != 2 {
		t.Errorf("writes = %d, want 2", w.writes)
	}

	// 停止后同步写入
	aw.Write([]byte("four"))
	if w.writes != 3 {
		t.Errorf("writes after stop = %d, want 3", w.writes)
	}
}

func TestRequestColorManager(t *testing.T) {
	m := NewRequestColorManager(2)

	first := m.Color("a")
	if m.Color("a") != first {
		t.Error("expected stable color for the same id")
	}
	if m.Color("b") == first {
		t.Error("expected a different color for the next id")
	}

	m.Color("c")
	if _, ok := m.recent["a"]; ok {
		t.Error("expected oldest id evicted")
	}
	if len(m.recent) != 2 || len(m.order) != 2 {
		t.Errorf("expected 2 remembered ids, got %d", len(m.recent))
	}
}
