package viewer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/zjrosen/glance/internal/log"
	"github.com/zjrosen/glance/internal/nav"
)

// Task is one page setup step. Its failure fails page readiness.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// CoordinatorConfig holds the collaborators of a Coordinator.
type CoordinatorConfig struct {
	Tasks    []Task
	Resolver Resolver
	// Loader is used without memoization, only to reach the handler's Init.
	Loader   Loader
	Table    TableSource
	Location func() nav.Location
	Tracer   trace.Tracer
}

// Coordinator gates page readiness on its tasks and the current handler's
// optional Init hook.
type Coordinator struct {
	cfg    CoordinatorConfig
	tracer trace.Tracer
}

// NewCoordinator builds a Coordinator.
func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	if cfg.Table == nil {
		cfg.Table = func() TypeTable { return TypeTable{} }
	}
	return &Coordinator{cfg: cfg, tracer: tracerOrNoop(cfg.Tracer)}
}

// Ready runs every task and the handler init in parallel and waits for all of
// them. A failing task does not cancel the others. Handler init problems are
// logged and dropped; the first task error is returned.
func (c *Coordinator) Ready(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, SpanReady)
	defer span.End()

	var g errgroup.Group
	for _, task := range c.cfg.Tasks {
		g.Go(func() error {
			return c.runTask(ctx, task)
		})
	}
	if c.cfg.Resolver != nil && c.cfg.Loader != nil && c.cfg.Location != nil {
		g.Go(func() error {
			if err := c.initHandler(ctx); err != nil {
				log.Debug(log.CatLifecycle, "handler init skipped", "error", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatLifecycle, "page init failed", err)
		return err
	}
	log.Info(log.CatLifecycle, "page ready")
	return nil
}

func (c *Coordinator) runTask(ctx context.Context, task Task) error {
	ctx, span := c.tracer.Start(ctx, SpanTask, trace.WithAttributes(
		attribute.String(AttrTask, task.Name),
	))
	defer span.End()

	if err := task.Run(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%s: %w", task.Name, err)
	}
	log.Debug(log.CatLifecycle, "task done", "task", task.Name)
	return nil
}

func (c *Coordinator) initHandler(ctx context.Context) (err error) {
	var id HandlerID
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Handler: id, Value: r}
		}
	}()

	table := c.cfg.Table()
	if table == nil {
		table = TypeTable{}
	}
	id, _ = c.cfg.Resolver.Resolve(c.cfg.Location().Basename(), table)

	ctx, span := c.tracer.Start(ctx, SpanHandlerInit, trace.WithAttributes(
		attribute.String(AttrHandler, string(id)),
	))
	defer span.End()

	mod, err := c.cfg.Loader.Load(ctx, id)
	if err != nil {
		return err
	}
	initializer, ok := mod.(Initializer)
	if !ok {
		return nil
	}
	if err := initializer.Init(ctx); err != nil {
		return fmt.Errorf("init %s: %w", id, err)
	}
	log.Debug(log.CatLifecycle, "handler init done", "handler", id)
	return nil
}
