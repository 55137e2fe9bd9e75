package viewer

import (
	"context"
	"errors"
	"path"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/zjrosen/glance/internal/nav"
	"github.com/zjrosen/glance/internal/surface"
)

// fakeModule writes its handler name when mounted and records the contexts it saw.
type fakeModule struct {
	id       HandlerID
	mountErr error
	panicVal any
	mounts   atomic.Int32

	mu   sync.Mutex
	seen []DispatchContext
}

func (m *fakeModule) Mount(_ context.Context, target *surface.Surface, dctx DispatchContext) error {
	m.mounts.Add(1)
	m.mu.Lock()
	m.seen = append(m.seen, dctx)
	m.mu.Unlock()

	target.Append("viewer:" + string(m.id))
	if m.panicVal != nil {
		panic(m.panicVal)
	}
	return m.mountErr
}

func (m *fakeModule) contexts() []DispatchContext {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]DispatchContext(nil), m.seen...)
}

// initModule is a fakeModule with an Init hook.
type initModule struct {
	fakeModule
	initErr error
	inits   atomic.Int32
}

func (m *initModule) Init(context.Context) error {
	m.inits.Add(1)
	return m.initErr
}

// countingLoader builds a fresh module per Load so instance identity is observable.
type countingLoader struct {
	mu      sync.Mutex
	calls   map[HandlerID]int
	fail    map[HandlerID]error
	build   func(id HandlerID) Module
	release chan struct{}
	entered chan HandlerID
	path    string
}

func newCountingLoader() *countingLoader {
	return &countingLoader{
		calls: make(map[HandlerID]int),
		fail:  make(map[HandlerID]error),
	}
}

func (l *countingLoader) Load(ctx context.Context, id HandlerID) (Module, error) {
	l.mu.Lock()
	l.calls[id]++
	failErr := l.fail[id]
	build := l.build
	l.mu.Unlock()

	if l.entered != nil {
		l.entered <- id
	}
	if l.release != nil {
		<-l.release
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !id.Known() {
		return nil, &UnknownHandlerError{ID: id, Path: l.path}
	}
	if failErr != nil {
		return nil, failErr
	}
	if build != nil {
		return build(id), nil
	}
	return &fakeModule{id: id}, nil
}

func (l *countingLoader) count(id HandlerID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[id]
}

func (l *countingLoader) setFail(id HandlerID, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err == nil {
		delete(l.fail, id)
		return
	}
	l.fail[id] = err
}

// tableResolver matches the exact file name, then the extension.
var tableResolver = ResolverFunc(func(filename string, table TypeTable) (HandlerID, Options) {
	if o, ok := table[strings.ToLower(filename)]; ok {
		return o.Handler, o.Options
	}
	if o, ok := table[strings.TrimPrefix(path.Ext(filename), ".")]; ok {
		return o.Handler, o.Options
	}
	return HandlerDownload, nil
})

// recordingReporter keeps every reported error.
type recordingReporter struct {
	mu   sync.Mutex
	errs []error
}

func (r *recordingReporter) Report(_ context.Context, _ *surface.Surface, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recordingReporter) reported() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}

// locationVar is a swappable current location.
type locationVar struct {
	mu  sync.Mutex
	loc nav.Location
}

func newLocationVar(raw string) *locationVar {
	loc, err := nav.Parse(raw)
	if err != nil {
		panic(err)
	}
	return &locationVar{loc: loc}
}

func (v *locationVar) get() nav.Location {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loc
}

func (v *locationVar) set(raw string) {
	loc, err := nav.Parse(raw)
	if err != nil {
		panic(err)
	}
	v.mu.Lock()
	v.loc = loc
	v.mu.Unlock()
}

var errBoom = errors.New("boom")
