package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB86C")).Bold(true)
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
	debugStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#BD93F9"))
	timeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F1FA8C"))

	bufferPool = buffer.NewPool()
)

// shouldUseColor 配置未关闭且 stdout 为终端时启用颜色
func shouldUseColor(colorize bool) bool {
	if !colorize {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// consoleEncoder 控制台编码器：
//
//	15:04:05 | INFO  | <requestId> | message [k=v, ...]
//
// requestId 字段提到行首，多行消息原样输出。
type consoleEncoder struct {
	colored bool
	idKey   string
	colors  *RequestColorManager
}

func newConsoleEncoder(colored bool, idKey string) *consoleEncoder {
	return &consoleEncoder{
		colored: colored,
		idKey:   idKey,
		colors:  NewRequestColorManager(20),
	}
}

func (enc *consoleEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	var line strings.Builder

	line.WriteString(enc.paint(timeStyle, entry.Time.Format("15:04:05")))
	line.WriteString(" | ")
	line.WriteString(enc.level(entry.Level))
	line.WriteString(" | ")

	var requestID string
	rest := make([]zapcore.Field, 0, len(fields))
	for _, field := range fields {
		if field.Key == enc.idKey && field.Type == zapcore.StringType {
			requestID = field.String
			continue
		}
		rest = append(rest, field)
	}

	if requestID != "" {
		line.WriteString(enc.paint(enc.colors.Style(requestID), requestID))
		line.WriteString(" | ")
	}

	line.WriteString(entry.Message)

	if len(rest) > 0 {
		line.WriteString(" [")
		for i, field := range rest {
			if i > 0 {
				line.WriteString(", ")
			}
			line.WriteString(enc.paint(keyStyle, field.Key))
			line.WriteString("=")
			line.WriteString(enc.paint(valueStyle, fieldValueString(field)))
		}
		line.WriteString("]")
	}

	if entry.Stack != "" {
		line.WriteString("\n")
		line.WriteString(entry.Stack)
	}
	line.WriteString("\n")

	buf := bufferPool.Get()
	buf.AppendString(line.String())
	return buf, nil
}

// consoleCore 使用 consoleEncoder 的 zapcore.Core，With 字段随每条记录一并编码
type consoleCore struct {
	zapcore.LevelEnabler
	enc    *consoleEncoder
	out    zapcore.WriteSyncer
	fields []zapcore.Field
}

func newConsoleCore(enc *consoleEncoder, out zapcore.WriteSyncer, level zapcore.LevelEnabler) *consoleCore {
	return &consoleCore{LevelEnabler: level, enc: enc, out: out}
}

func (c *consoleCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &consoleCore{LevelEnabler: c.LevelEnabler, enc: c.enc, out: c.out, fields: merged}
}

func (c *consoleCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c *consoleCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	all := fields
	if len(c.fields) > 0 {
		all = make([]zapcore.Field, 0, len(c.fields)+len(fields))
		all = append(all, c.fields...)
		all = append(all, fields...)
	}
	buf, err := c.enc.EncodeEntry(entry, all)
	if err != nil {
		return err
	}
	_, err = c.out.Write(buf.Bytes())
	buf.Free()
	if err != nil {
		return err
	}
	if entry.Level > zapcore.ErrorLevel {
		_ = c.out.Sync()
	}
	return nil
}

func (c *consoleCore) Sync() error {
	return c.out.Sync()
}

func (enc *consoleEncoder) level(l zapcore.Level) string {
	text := fmt.Sprintf("%-5s", l.CapitalString())
	switch l {
	case zapcore.DebugLevel:
		return enc.paint(debugStyle, text)
	case zapcore.InfoLevel:
		return enc.paint(infoStyle, text)
	case zapcore.WarnLevel:
		return enc.paint(warnStyle, text)
	default:
		return enc.paint(errorStyle, text)
	}
}

func (enc *consoleEncoder) paint(style lipgloss.Style, text string) string {
	if !enc.colored {
		return text
	}
	return style.Render(text)
}

func fieldValueString(field zapcore.Field) string {
	switch field.Type {
	case zapcore.StringType:
		return field.String
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", field.Integer)
	case zapcore.BoolType:
		if field.Integer == 1 {
			return "true"
		}
		return "false"
	case zapcore.DurationType:
		return time.Duration(field.Integer).String()
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok {
			return err.Error()
		}
		return ""
	case zapcore.StringerType:
		if s, ok := field.Interface.(fmt.Stringer); ok {
			return s.String()
		}
		return ""
	default:
		if field.Interface != nil {
			return fmt.Sprintf("%v", field.Interface)
		}
		return field.String
	}
}
