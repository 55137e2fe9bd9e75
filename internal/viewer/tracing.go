package viewer

import (
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Span names.
const (
	SpanDispatch    = "viewer.dispatch"
	SpanLoad        = "viewer.load"
	SpanMount       = "viewer.mount"
	SpanReady       = "viewer.ready"
	SpanHandlerInit = "viewer.handler_init"
	SpanTask        = "viewer.ready_task"
)

// Span attribute keys.
const (
	AttrHandler    = "viewer.handler"
	AttrPath       = "viewer.path"
	AttrInvocation = "viewer.invocation_id"
	AttrTask       = "viewer.task"
	AttrShared     = "viewer.load_shared"
)

func tracerOrNoop(t trace.Tracer) trace.Tracer {
	if t == nil {
		return noop.NewTracerProvider().Tracer("glance/viewer")
	}
	return t
}
