package viewer

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/zjrosen/glance/internal/log"
)

// MemoLoader loads each handler's Module at most once for the life of the
// process. Concurrent first requests for the same handler share one load.
// Failed loads are not remembered, so a later Get retries.
type MemoLoader struct {
	loader  Loader
	metrics *Metrics
	tracer  trace.Tracer

	group   singleflight.Group
	mu      sync.RWMutex
	modules map[HandlerID]Module
}

var _ Getter = (*MemoLoader)(nil)

// MemoOption configures a MemoLoader.
type MemoOption func(*MemoLoader)

// WithLoaderMetrics records load and cache-hit counters.
func WithLoaderMetrics(m *Metrics) MemoOption {
	return func(l *MemoLoader) { l.metrics = m }
}

// WithLoaderTracer emits a span for every underlying load.
func WithLoaderTracer(t trace.Tracer) MemoOption {
	return func(l *MemoLoader) { l.tracer = t }
}

// NewMemoLoader wraps loader with a process-wide module cache.
func NewMemoLoader(loader Loader, opts ...MemoOption) *MemoLoader {
	m := &MemoLoader{
		loader:  loader,
		modules: make(map[HandlerID]Module),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.tracer = tracerOrNoop(m.tracer)
	return m
}

// Get returns the cached Module for id, loading it on first use.
func (m *MemoLoader) Get(ctx context.Context, id HandlerID) (Module, error) {
	if mod, ok := m.lookup(id); ok {
		m.metrics.hit(id)
		log.Debug(log.CatLoader, "module cache hit", "handler", id)
		return mod, nil
	}

	v, err, shared := m.group.Do(string(id), func() (any, error) {
		// A flight that finished between our lookup and Do has already
		// stored its module.
		if mod, ok := m.lookup(id); ok {
			return mod, nil
		}
		mod, err := m.load(context.WithoutCancel(ctx), id)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.modules[id] = mod
		m.mu.Unlock()
		return mod, nil
	})
	trace.SpanFromContext(ctx).SetAttributes(attribute.Bool(AttrShared, shared))
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug(log.CatLoader, "joined in-flight module load", "handler", id)
	}
	return v.(Module), nil
}

func (m *MemoLoader) load(ctx context.Context, id HandlerID) (Module, error) {
	ctx, span := m.tracer.Start(ctx, SpanLoad, trace.WithAttributes(
		attribute.String(AttrHandler, string(id)),
	))
	defer span.End()

	mod, err := m.loader.Load(ctx, id)
	if err == nil && mod == nil {
		err = fmt.Errorf("loader returned no module for %q", id)
	}
	m.metrics.loaded(id, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatLoader, "module load failed", err, "handler", id)
		return nil, err
	}
	log.Info(log.CatLoader, "module loaded", "handler", id)
	return mod, nil
}

func (m *MemoLoader) lookup(id HandlerID) (Module, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mod, ok := m.modules[id]
	return mod, ok
}

// Cached reports whether id has a settled module in the cache.
func (m *MemoLoader) Cached(id HandlerID) bool {
	_, ok := m.lookup(id)
	return ok
}

// Len returns the number of cached modules.
func (m *MemoLoader) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.modules)
}
