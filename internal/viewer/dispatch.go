package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/glance/internal/log"
	"github.com/zjrosen/glance/internal/nav"
	"github.com/zjrosen/glance/internal/surface"
)

// ErrorReporter receives dispatch failures for presentation. It is called
// exactly once per failed dispatch.
type ErrorReporter interface {
	Report(ctx context.Context, target *surface.Surface, err error)
}

// ReporterFunc adapts a function to the ErrorReporter interface.
type ReporterFunc func(ctx context.Context, target *surface.Surface, err error)

// Report calls f.
func (f ReporterFunc) Report(ctx context.Context, target *surface.Surface, err error) {
	f(ctx, target, err)
}

// Outcome summarizes one dispatch run.
type Outcome struct {
	Invocation string
	Path       string
	Handler    HandlerID
	Mounted    bool
	Duration   time.Duration
}

// DispatcherConfig holds the collaborators of a Dispatcher.
type DispatcherConfig struct {
	Resolver  Resolver
	Modules   Getter
	Table     TableSource
	Location  func() nav.Location
	Accessors Accessors
	Reporter  ErrorReporter
	Metrics   *Metrics
	Tracer    trace.Tracer
	// Observer, when set, is told about every finished run.
	Observer func(Outcome)
}

// Dispatcher runs resolve -> load -> mount for the current location.
type Dispatcher struct {
	cfg    DispatcherConfig
	tracer trace.Tracer
}

// NewDispatcher builds a Dispatcher. Resolver, Modules, Location and Reporter
// are required.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	if cfg.Table == nil {
		cfg.Table = func() TypeTable { return TypeTable{} }
	}
	return &Dispatcher{cfg: cfg, tracer: tracerOrNoop(cfg.Tracer)}
}

// Dispatch mounts the handler for the current location into target.
// Failures are handed to the reporter and never returned; the target keeps
// its previous content unless a mount succeeds.
func (d *Dispatcher) Dispatch(ctx context.Context, target *surface.Surface) Outcome {
	loc := d.cfg.Location()
	out := Outcome{
		Invocation: uuid.NewString(),
		Path:       loc.Path(),
	}

	ctx, span := d.tracer.Start(ctx, SpanDispatch, trace.WithAttributes(
		attribute.String(AttrInvocation, out.Invocation),
		attribute.String(AttrPath, out.Path),
	))
	defer span.End()

	start := time.Now()
	id, err := d.run(ctx, loc, target)
	out.Handler = id
	out.Duration = time.Since(start)
	span.SetAttributes(attribute.String(AttrHandler, string(id)))
	d.cfg.Metrics.dispatched(id, err, out.Duration)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatDispatch, "dispatch failed", err,
			"invocation", out.Invocation, "path", out.Path, "handler", id)
		d.cfg.Reporter.Report(ctx, target, err)
	} else {
		out.Mounted = true
		log.Info(log.CatDispatch, "viewer mounted",
			"invocation", out.Invocation, "path", out.Path, "handler", id, "took", out.Duration)
	}

	if d.cfg.Observer != nil {
		d.cfg.Observer(out)
	}
	return out
}

// run is the error boundary: every failure of resolve, load or mount,
// including panics, comes back as err.
func (d *Dispatcher) run(ctx context.Context, loc nav.Location, target *surface.Surface) (id HandlerID, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Handler: id, Value: r}
		}
	}()

	table := d.cfg.Table()
	if table == nil {
		table = TypeTable{}
	}

	var opts Options
	id, opts = d.cfg.Resolver.Resolve(loc.Basename(), table)

	mod, err := d.cfg.Modules.Get(ctx, id)
	if err != nil {
		return id, fmt.Errorf("load %s: %w", id, err)
	}

	dctx := newDispatchContext(opts, d.cfg.Accessors)
	staged := target.Stage()

	if err := d.mount(ctx, id, mod, staged, dctx); err != nil {
		return id, fmt.Errorf("mount %s: %w", id, err)
	}

	target.Commit(staged)
	return id, nil
}

func (d *Dispatcher) mount(ctx context.Context, id HandlerID, mod Module, staged *surface.Surface, dctx DispatchContext) error {
	ctx, span := d.tracer.Start(ctx, SpanMount, trace.WithAttributes(
		attribute.String(AttrHandler, string(id)),
	))
	defer span.End()
	return mod.Mount(ctx, staged, dctx)
}
