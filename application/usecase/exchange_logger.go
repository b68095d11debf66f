package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"http-logging/application/content"
	"http-logging/domain/entity"
	"http-logging/domain/port"
)

// ExchangeLogger renders a captured HTTP exchange into one record and hands it
// to the sink.
type ExchangeLogger struct {
	pipeline
}

// NewExchangeLogger creates an exchange logger. A nil sink or logger discards output.
func NewExchangeLogger(props entity.LoggingProperties, sink port.Sink, logger port.Logger) *ExchangeLogger {
	return &ExchangeLogger{pipeline: newPipeline(props, sink, logger)}
}

// Properties returns the configuration the logger was built with.
func (l *ExchangeLogger) Properties() entity.LoggingProperties {
	return l.props
}

// Begin starts a logging cycle for one request.
func (l *ExchangeLogger) Begin() *entity.Cycle {
	cycle := entity.NewCycle()
	_ = cycle.Advance(entity.PhaseCapturing)
	return cycle
}

// Complete renders ex and emits it. The cycle must be in HANDLER_RUNNING.
// Failed exchanges are emitted at error level.
func (l *ExchangeLogger) Complete(ctx context.Context, cycle *entity.Cycle, ex *entity.Exchange) error {
	outcome, level := entity.PhaseSucceeded, port.LevelInfo
	if ex.Failed() {
		outcome, level = entity.PhaseFailed, port.LevelError
	}
	if err := cycle.Advance(outcome); err != nil {
		return err
	}
	if err := cycle.Advance(entity.PhaseRendering); err != nil {
		return err
	}
	return l.emit(ctx, cycle, level, l.Render(ex))
}

// Render formats ex in the configured layout. It never panics.
func (l *ExchangeLogger) Render(ex *entity.Exchange) (out string) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Warn("渲染请求日志失败", port.RequestID(ex.RequestID), port.String("error", fmt.Sprint(r)))
			out = fmt.Sprintf("[HTTP]%s %s %s => DurationMs=%d", requestIDLabel(ex.RequestID), ex.Method, ex.Path, ex.DurationMS())
		}
	}()
	if l.props.Multiline {
		return l.renderMultiline(ex)
	}
	return l.renderSingleLine(ex)
}

func (l *ExchangeLogger) renderMultiline(ex *entity.Exchange) string {
	f := l.formatter
	pad := f.Pad()
	decode := l.props.DecodeCompressedBodies
	var b strings.Builder

	b.WriteString("[HTTP]" + requestIDLabel(ex.RequestID) + "\n")
	b.WriteString("-> Request: " + ex.Method + " " + ex.Path + "\n")
	if l.props.LogRequestHeaders {
		b.WriteString(pad + "Headers-Request:\n")
		b.WriteString(f.Headers(ex.RequestHeader))
	}
	reqBody := content.Extract(ex.RequestBody, decode)
	b.WriteString(f.QuerySection(ex.RawQuery, reqBody.Charset))
	if l.props.LogRequestBody {
		b.WriteString(f.BodySection(reqBody))
	}

	if ex.Failed() {
		b.WriteString("<- Response: ERROR (" + strconv.FormatInt(ex.DurationMS(), 10) + " ms)\n")
		l.writeFailure(&b, describeFailure(ex.Failure, ex.Stack))
		return strings.TrimRight(b.String(), "\n")
	}

	b.WriteString("<- Response: " + strconv.Itoa(ex.Status) + " (" + strconv.FormatInt(ex.DurationMS(), 10) + " ms)\n")
	if l.props.LogResponseHeaders {
		b.WriteString(pad + "Headers-Response:\n")
		b.WriteString(f.Headers(ex.ResponseHeader))
	}
	if l.props.LogResponseBody {
		b.WriteString(f.BodySection(content.Extract(ex.ResponseBody, decode)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (l *ExchangeLogger) renderSingleLine(ex *entity.Exchange) string {
	f := l.formatter
	decode := l.props.DecodeCompressedBodies
	var b strings.Builder

	b.WriteString("[HTTP] ")
	if ex.RequestID != "" {
		b.WriteString("[RequestId: " + ex.RequestID + "] ")
	}
	b.WriteString(ex.Method + " " + ex.Path)
	reqBody := content.Extract(ex.RequestBody, decode)
	if ex.RawQuery != "" {
		b.WriteString("?" + f.MaskedQuery(ex.RawQuery, reqBody.Charset))
	}
	if l.props.LogRequestBody {
		if text := f.Inline(reqBody); text != "" {
			b.WriteString(" RequestBody=" + text)
		}
	}

	if ex.Failed() {
		fail := describeFailure(ex.Failure, nil)
		b.WriteString(" => ")
		if fail.status > 0 {
			b.WriteString("Status=" + strconv.Itoa(fail.status) + ", ")
		}
		b.WriteString("DurationMs=" + strconv.FormatInt(ex.DurationMS(), 10))
		b.WriteString(", Error=" + fail.typeName)
		if fail.message != "" {
			b.WriteString(": " + f.Inline(content.Body{Text: fail.message}))
		}
		return b.String()
	}

	b.WriteString(" => Status=" + strconv.Itoa(ex.Status) + ", DurationMs=" + strconv.FormatInt(ex.DurationMS(), 10))
	if l.props.LogResponseBody {
		if text := f.Inline(content.Extract(ex.ResponseBody, decode)); text != "" {
			b.WriteString(", ResponseBody=" + text)
		}
	}
	return b.String()
}
