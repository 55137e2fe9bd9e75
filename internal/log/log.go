// Package log is glance's debug log. Entries carry a level, a category and
// key=value fields, and are written as single text lines through a log/slog
// handler. Nothing is written until Init or InitWriter is called. Every line
// is also published on a broker so the TUI can tail it.
package log

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/zjrosen/glance/internal/pubsub"
)

// Level is a log severity. Values line up with slog's levels.
type Level = slog.Level

const (
	LevelDebug Level = slog.LevelDebug
	LevelInfo  Level = slog.LevelInfo
	LevelWarn  Level = slog.LevelWarn
	LevelError Level = slog.LevelError
)

// Category groups related entries.
type Category string

const (
	CatDispatch  Category = "dispatch"  // resolve, load, mount pipeline
	CatLoader    Category = "loader"    // viewer module loading and memoization
	CatLifecycle Category = "lifecycle" // page readiness tasks
	CatConfig    Category = "config"    // configuration loading
	CatCache     Category = "cache"     // file cache operations
	CatWatcher   Category = "watcher"   // file watcher events
	CatUI        Category = "ui"        // shell, menubar, app model
	CatTrace     Category = "trace"     // tracing provider
)

const categoryKey = "category"

var (
	mu      sync.RWMutex
	current *sink
	logger  *slog.Logger
)

// sink is where formatted lines end up.
type sink struct {
	w       io.Writer
	closer  io.Closer
	broker  *pubsub.Broker[string]
	level   slog.LevelVar
	enabled bool
	mu      sync.Mutex
}

// Init opens path for appending and routes the log there. The returned
// function closes the file.
func Init(path string) (func(), error) {
	if path == "" {
		return nil, errors.New("log: empty path")
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // G304: user supplied debug log path
	if err != nil {
		return nil, fmt.Errorf("log: open %s: %w", path, err)
	}
	s := install(f)
	s.closer = f
	return func() {
		mu.Lock()
		if current == s {
			current, logger = nil, nil
		}
		mu.Unlock()
		_ = f.Close()
	}, nil
}

// InitWriter routes the log to w.
func InitWriter(w io.Writer) {
	install(w)
}

func install(w io.Writer) *sink {
	s := &sink{w: w, broker: pubsub.NewBroker[string](), enabled: true}
	s.level.Set(LevelDebug)
	mu.Lock()
	current = s
	logger = slog.New(&lineHandler{sink: s})
	mu.Unlock()
	return s
}

// SetEnabled toggles logging without dropping the output.
func SetEnabled(enabled bool) {
	if s := active(); s != nil {
		s.mu.Lock()
		s.enabled = enabled
		s.mu.Unlock()
	}
}

// SetMinLevel drops entries below level.
func SetMinLevel(level Level) {
	if s := active(); s != nil {
		s.level.Set(level)
	}
}

func active() *sink {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func Debug(cat Category, msg string, fields ...any) { emit(LevelDebug, cat, msg, fields) }

func Info(cat Category, msg string, fields ...any) { emit(LevelInfo, cat, msg, fields) }

func Warn(cat Category, msg string, fields ...any) { emit(LevelWarn, cat, msg, fields) }

func Error(cat Category, msg string, fields ...any) { emit(LevelError, cat, msg, fields) }

// ErrorErr logs at error level with err appended as the "error" field.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	text := "<nil>"
	if err != nil {
		text = err.Error()
	}
	emit(LevelError, cat, msg, append(fields, "error", text))
}

func emit(level Level, cat Category, msg string, fields []any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l == nil {
		return
	}
	ctx := context.Background()
	if !l.Enabled(ctx, level) {
		return
	}
	attrs := make([]slog.Attr, 0, len(fields)/2+2)
	attrs = append(attrs, slog.String(categoryKey, string(cat)))
	for i := 0; i < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		if i+1 == len(fields) {
			attrs = append(attrs, slog.String(key, "<missing>"))
			break
		}
		attrs = append(attrs, slog.Any(key, fields[i+1]))
	}
	l.LogAttrs(ctx, level, msg, attrs...)
}

// lineHandler formats records as
//
//	2026-01-06T10:45:00 [ERROR] [dispatch] message key=value key2=value2
type lineHandler struct {
	sink  *sink
	attrs []slog.Attr
}

func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool {
	h.sink.mu.Lock()
	on := h.sink.enabled
	h.sink.mu.Unlock()
	return on && level >= h.sink.level.Level()
}

func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	cat := "-"
	var fields strings.Builder
	write := func(a slog.Attr) bool {
		if a.Key == categoryKey {
			cat = a.Value.String()
			return true
		}
		fmt.Fprintf(&fields, " %s=%v", a.Key, a.Value.Any())
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(write)

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	line := fmt.Sprintf("%s [%s] [%s] %s%s\n", ts.Format("2006-01-02T15:04:05"), r.Level, cat, r.Message, fields.String())

	h.sink.mu.Lock()
	_, err := io.WriteString(h.sink.w, line)
	h.sink.mu.Unlock()
	h.sink.broker.Publish(pubsub.CreatedEvent, line)
	return err
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &lineHandler{sink: h.sink, attrs: append(append([]slog.Attr(nil), h.attrs...), attrs...)}
}

// Groups are flattened; glance never nests fields.
func (h *lineHandler) WithGroup(string) slog.Handler { return h }

// LogListener receives each written line.
type LogListener = pubsub.ContinuousListener[string]

// NewListener subscribes to written lines. Returns nil before Init.
func NewListener(ctx context.Context) *LogListener {
	s := active()
	if s == nil {
		return nil
	}
	return pubsub.NewContinuousListener(ctx, s.broker)
}
