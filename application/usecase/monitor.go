package usecase

import (
	"context"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"http-logging/application/content"
	"http-logging/application/correlation"
	"http-logging/application/masking"
	"http-logging/domain/entity"
	"http-logging/domain/port"
)

const (
	monitorHeaderLine = "==========================[METHOD LOGGING START]=========================="
	monitorFooterLine = "=========================================================================="
	omittedValue      = "[omitted]"
)

// Call describes one monitored invocation.
type Call struct {
	Class  string
	Method string
	Args   []any
	Flags  entity.MonitorFlags
}

// Name returns "Class.Method", or just the method when no class is set.
func (c Call) Name() string {
	if c.Class == "" {
		return c.Method
	}
	return c.Class + "." + c.Method
}

// Monitor logs monitored function calls: the surrounding HTTP request when
// there is one, arguments, result or failure, and elapsed time.
type Monitor struct {
	pipeline
	correlation *correlation.Manager
}

// NewMonitor creates a monitor. A nil sink or logger discards output.
func NewMonitor(props entity.LoggingProperties, sink port.Sink, logger port.Logger) *Monitor {
	return &Monitor{
		pipeline:    newPipeline(props, sink, logger),
		correlation: correlation.NewManager(props.CorrelationHeaderName, props.MDCKey),
	}
}

// Invoke runs fn and emits one record for the call. An error returned by fn is
// returned unchanged; a panic in fn is logged and re-raised with the same value.
// Outside any request scope a fresh correlation id is generated for the call
// and made available to fn through ctx.
func (m *Monitor) Invoke(ctx context.Context, call Call, fn func(ctx context.Context) (any, error)) (result any, err error) {
	if !m.props.Enabled {
		return fn(ctx)
	}

	scope := correlation.FromContext(ctx)
	if scope == nil || scope.Ended() {
		var owned *correlation.Scope
		ctx, owned = m.correlation.Begin(ctx, "")
		defer owned.End()
		scope = owned
	}

	cycle := entity.NewCycle()
	_ = cycle.Advance(entity.PhaseCapturing)

	var b strings.Builder
	m.writeHead(&b, scope, call)

	start := time.Now()
	_ = cycle.Advance(entity.PhaseHandlerRunning)
	defer func() {
		took := time.Since(start)
		if rec := recover(); rec != nil {
			m.finish(ctx, cycle, &b, call, took, nil, describeFailure(rec, debug.Stack()), true)
			panic(rec)
		}
		if err != nil {
			m.finish(ctx, cycle, &b, call, took, nil, describeFailure(err, nil), true)
			return
		}
		m.finish(ctx, cycle, &b, call, took, result, failure{}, false)
	}()

	return fn(ctx)
}

// Observe is Invoke for a typed function.
func Observe[T any](ctx context.Context, m *Monitor, call Call, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	_, err := m.Invoke(ctx, call, func(ctx context.Context) (any, error) {
		v, err := fn(ctx)
		out = v
		return v, err
	})
	return out, err
}

func (m *Monitor) writeHead(b *strings.Builder, scope *correlation.Scope, call Call) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("渲染方法日志失败", port.String("method", call.Name()), port.String("error", fmt.Sprint(r)))
		}
	}()

	f := m.formatter
	pad := f.Pad()
	b.WriteString(monitorHeaderLine + "\n\n")

	if r := scope.Request(); r != nil {
		b.WriteString("[HTTP REQUEST]" + requestIDLabel(scope.ID()) + "\n")
		b.WriteString("-> " + r.Method + " " + r.URL.Path + "\n")
		if m.props.LogRequestHeaders {
			b.WriteString(pad + "Headers:\n")
			b.WriteString(f.Headers(r.Header))
		}
		body := content.Extract(scope.RequestBody(), m.props.DecodeCompressedBodies)
		b.WriteString(f.QuerySection(r.URL.RawQuery, body.Charset))
		if m.props.LogRequestBody && scope.RequestBody() != nil {
			b.WriteString(f.BodySection(body))
		}
		b.WriteString("\n")
	}

	if call.Flags.LogParameters {
		args := f.Renderer().Render(call.Args)
		b.WriteString("[METHOD] " + call.Name() + " Args:\n" + pad + f.Indent(args) + "\n\n")
	}
}

func (m *Monitor) finish(ctx context.Context, cycle *entity.Cycle, b *strings.Builder, call Call, took time.Duration, result any, fail failure, failed bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("渲染方法日志失败", port.String("method", call.Name()), port.String("error", fmt.Sprint(r)))
		}
	}()

	outcome, level := entity.PhaseSucceeded, port.LevelInfo
	if failed {
		outcome, level = entity.PhaseFailed, port.LevelError
	}
	if err := cycle.Advance(outcome); err != nil {
		m.logger.Warn("日志周期状态异常", port.String("error", err.Error()))
		return
	}
	_ = cycle.Advance(entity.PhaseRendering)

	f := m.formatter
	pad := f.Pad()
	ms := strconv.FormatInt(took.Milliseconds(), 10)

	switch {
	case failed:
		b.WriteString("<- " + call.Name() + " ERROR (" + ms + " ms):\n")
		m.writeFailure(b, fail)
	case call.Flags.LogResult:
		rendered := f.Renderer().Render(m.printable(result))
		b.WriteString("<- " + call.Name() + " Result (" + ms + " ms):\n" + pad + f.Indent(rendered) + "\n")
	case call.Flags.LogExecutionTime:
		b.WriteString("<- " + call.Name() + " (" + ms + " ms)\n")
	}
	b.WriteString("\n" + monitorFooterLine)

	if err := m.emit(ctx, cycle, level, b.String()); err != nil {
		m.logger.Warn("日志周期状态异常", port.String("error", err.Error()))
	}
}

// printable unwraps response envelopes and applies the response body toggle.
func (m *Monitor) printable(result any) any {
	env, ok := result.(*entity.ResponseEnvelope)
	if !ok || env == nil {
		if !m.props.LogResponseBody {
			return omittedValue
		}
		return result
	}
	out := masking.Ordered{
		{Key: "_type", Value: "ResponseEnvelope"},
		{Key: "status", Value: env.Status},
	}
	if m.props.LogResponseHeaders {
		out = append(out, masking.KV{Key: "headers", Value: maskedHeader(env.Header, m.formatter.Renderer().Policy())})
	}
	if m.props.LogResponseBody {
		out = append(out, masking.KV{Key: "body", Value: env.Body})
	} else {
		out = append(out, masking.KV{Key: "body", Value: omittedValue})
	}
	return out
}

func maskedHeader(h map[string][]string, policy masking.Policy) map[string][]string {
	out := make(map[string][]string, len(h))
	for name, values := range h {
		if policy.Matches(name) {
			out[name] = []string{policy.Replacement()}
			continue
		}
		out[name] = values
	}
	return out
}
