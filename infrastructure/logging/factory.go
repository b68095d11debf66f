package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"http-logging/infrastructure/config"
)

// Output 日志输出句柄，持有需要在退出时关闭的写入器
type Output struct {
	Logger *zap.Logger

	async []*asyncWriter
	files []interface{ Close() error }
}

// New 按配置构建 zap 日志：console / file / both / none
func New(cfg *config.Logging, idKey string) (*Output, error) {
	return newOutput(cfg, idKey, zapcore.Lock(os.Stdout))
}

func newOutput(cfg *config.Logging, idKey string, stdout zapcore.WriteSyncer) (*Output, error) {
	if cfg == nil {
		cfg = &config.Logging{}
	}
	if idKey == "" {
		idKey = "requestId"
	}

	out := &Output{}
	level, enabled := parseLevel(cfg.GetLevel())
	target := cfg.GetTarget()
	if !enabled || target == "none" {
		out.Logger = zap.NewNop()
		return out, nil
	}

	var cores []zapcore.Core

	// 文件输出
	if target == "file" || target == "both" {
		path := cfg.GetFile()
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("创建日志目录失败 %s: %w", path, err)
		}

		rotate := newFileWriter(cfg)
		out.files = append(out.files, rotate)

		var writer zapcore.WriteSyncer = zapcore.AddSync(rotate)
		// 异步写入
		if cfg.Async {
			aw := newAsyncWriter(writer, cfg.GetBufferSize(), cfg.DropOnFull)
			out.async = append(out.async, aw)
			writer = aw
		}

		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig()), writer, level))
	}

	// 控制台输出
	if target == "console" || target == "both" {
		enc := newConsoleEncoder(shouldUseColor(cfg.GetColorize()), idKey)
		cores = append(cores, newConsoleCore(enc, stdout, level))
	}

	if len(cores) == 0 {
		return nil, fmt.Errorf("logging.target 无效: %s", cfg.Target)
	}

	// HTTP 与方法记录自带 Stack 摘要，ERROR 不再附加日志协程的调用栈
	out.Logger = zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zap.DPanicLevel),
	)
	return out, nil
}

func fileEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// parseLevel 解析级别；none 表示完全关闭
func parseLevel(levelStr string) (zapcore.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return zapcore.DebugLevel, true
	case "info", "":
		return zapcore.InfoLevel, true
	case "warn", "warning":
		return zapcore.WarnLevel, true
	case "error":
		return zapcore.ErrorLevel, true
	case "none", "off":
		return zapcore.FatalLevel + 1, false
	default:
		return zapcore.InfoLevel, true
	}
}

// Shutdown 刷新并关闭所有写入器
func (o *Output) Shutdown() error {
	if o == nil {
		return nil
	}

	var firstErr error
	if o.Logger != nil {
		if err := o.Logger.Sync(); err != nil && !isBenignSyncError(err) {
			firstErr = err
		}
	}
	for _, aw := range o.async {
		aw.Stop()
	}
	for _, f := range o.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// stdout 在部分平台上不支持 fsync
func isBenignSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "/dev/stdout") ||
		strings.Contains(msg, "invalid argument") ||
		strings.Contains(msg, "inappropriate ioctl")
}
