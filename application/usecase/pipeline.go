package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"http-logging/application/content"
	"http-logging/application/masking"
	"http-logging/domain/entity"
	domainerror "http-logging/domain/error"
	"http-logging/domain/port"
)

const (
	maxStackExcerpt = 500
	errorBodyHidden = "(omitted or handled by global exception handler)"
)

// pipeline holds what both the exchange logger and the monitor need to turn a
// finished cycle into one record.
type pipeline struct {
	props     entity.LoggingProperties
	formatter *content.Formatter
	sink      port.Sink
	logger    port.Logger
}

func newPipeline(props entity.LoggingProperties, sink port.Sink, logger port.Logger) pipeline {
	if sink == nil {
		sink = port.NopSink{}
	}
	if logger == nil {
		logger = &port.NopLogger{}
	}
	policy := masking.NewPolicy(props.MaskSensitive, props.SensitiveKeys, props.MaskReplacement)
	renderer := masking.NewRenderer(policy, props.IndentSize, props.MaxBodyLength)
	return pipeline{
		props: props,
		formatter: content.NewFormatter(renderer, content.Options{
			PrettyJSON:  props.PrettyJSON,
			PrettyQuery: props.PrettyQueryParams,
			PrettyForm:  props.PrettyFormBody,
		}),
		sink:   sink,
		logger: logger,
	}
}

// emit is the single handoff of a record to the sink.
func (p *pipeline) emit(ctx context.Context, cycle *entity.Cycle, level port.Level, text string) error {
	if !cycle.CanEmit() {
		return fmt.Errorf("cannot emit in phase %s", cycle.Phase())
	}
	p.handoff(ctx, level, text)
	if err := cycle.Advance(entity.PhaseEmitted); err != nil {
		return err
	}
	return cycle.Advance(entity.PhaseIdle)
}

func (p *pipeline) handoff(ctx context.Context, level port.Level, text string) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("日志输出失败", port.String("error", fmt.Sprint(r)))
		}
	}()
	p.sink.Emit(ctx, level, text)
}

// failure is the rendered view of a handler failure.
type failure struct {
	typeName string
	message  string
	status   int
	payload  any
	stack    string
}

func describeFailure(v any, stack []byte) failure {
	f := failure{typeName: fmt.Sprintf("%T", v), stack: stackExcerpt(stack)}
	if err, ok := v.(error); ok {
		f.message = safeString(err.Error)
		if status, ok := domainerror.StatusOf(err); ok {
			f.status = status
		}
		f.payload = domainerror.PayloadOf(err)
		return f
	}
	f.message = safeString(func() string { return fmt.Sprint(v) })
	if strings.TrimSpace(f.message) != "" {
		f.payload = map[string]any{"message": f.message}
	}
	return f
}

func safeString(fn func() string) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = ""
		}
	}()
	return fn()
}

func stackExcerpt(stack []byte) string {
	s := strings.TrimRight(string(stack), "\n")
	if len(s) > maxStackExcerpt {
		s = s[:maxStackExcerpt] + "..."
	}
	return s
}

// writeFailure appends the error block: type, message, status, payload and stack.
func (p *pipeline) writeFailure(b *strings.Builder, f failure) {
	pad := p.formatter.Pad()
	renderer := p.formatter.Renderer()

	b.WriteString(pad + "Exception: " + f.typeName + "\n")
	if f.message != "" {
		b.WriteString(pad + "Message: " + renderer.Truncate(f.message) + "\n")
	}
	if f.status > 0 {
		b.WriteString(pad + "Status: " + strconv.Itoa(f.status) + "\n")
	}
	if f.payload != nil {
		b.WriteString(pad + "Body:\n" + pad + p.formatter.Indent(renderer.Render(f.payload)) + "\n")
	} else {
		b.WriteString(pad + "Body: " + errorBodyHidden + "\n")
	}
	if f.stack != "" {
		b.WriteString(pad + "Stack:\n" + pad + p.formatter.Indent(f.stack) + "\n")
	}
}

func requestIDLabel(id string) string {
	if id == "" {
		return ""
	}
	return " [RequestId: " + id + "]"
}
