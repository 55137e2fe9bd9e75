// Package viewerpage is the viewer page controller. It wires the dispatch
// pipeline, the lifecycle coordinator and the chrome collaborators around
// one navigation target.
package viewerpage

import (
	"context"
	"errors"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/zjrosen/glance/internal/acl"
	"github.com/zjrosen/glance/internal/errview"
	"github.com/zjrosen/glance/internal/filecache"
	"github.com/zjrosen/glance/internal/log"
	"github.com/zjrosen/glance/internal/menubar"
	"github.com/zjrosen/glance/internal/mimetype"
	"github.com/zjrosen/glance/internal/nav"
	"github.com/zjrosen/glance/internal/pubsub"
	"github.com/zjrosen/glance/internal/shell"
	"github.com/zjrosen/glance/internal/styles"
	"github.com/zjrosen/glance/internal/surface"
	"github.com/zjrosen/glance/internal/viewer"
	"github.com/zjrosen/glance/internal/viewers"
)

// Deps are the collaborators of a Page. Location is required; every other
// field has a usable default or is skipped when nil.
type Deps struct {
	Location func() nav.Location
	Table    viewer.TableSource
	Resolver viewer.Resolver
	Loader   viewer.Loader
	Reporter viewer.ErrorReporter

	Shell   *shell.Shell
	Menubar *menubar.Menubar
	Cache   *filecache.Cache

	ThemeFile string
	Theme     styles.ThemeConfig

	DownloadBaseURL string
	MarkdownStyle   string

	Metrics *viewer.Metrics
	Tracer  trace.Tracer
}

// Page renders the current location into a frame.
type Page struct {
	deps        Deps
	modules     *viewer.MemoLoader
	dispatcher  *viewer.Dispatcher
	coordinator *viewer.Coordinator
	outcomes    *pubsub.Broker[viewer.Outcome]

	mu     sync.Mutex
	frame  *surface.Frame
	target *surface.Surface
	width  int
	last   viewer.Outcome
}

// New builds the page and its pipeline. Nothing runs until Init or Render.
func New(d Deps) *Page {
	if d.Resolver == nil {
		d.Resolver = mimetype.Resolver{}
	}
	if d.Table == nil {
		d.Table = mimetype.DefaultTable
	}
	if d.Reporter == nil {
		d.Reporter = errview.New()
	}
	if d.Loader == nil {
		d.Loader = &viewers.Catalog{
			Path:          func() string { return d.Location().Path() },
			MarkdownStyle: d.MarkdownStyle,
		}
	}

	p := &Page{deps: d, outcomes: pubsub.NewBroker[viewer.Outcome]()}
	p.modules = viewer.NewMemoLoader(d.Loader,
		viewer.WithLoaderMetrics(d.Metrics),
		viewer.WithLoaderTracer(d.Tracer),
	)
	p.dispatcher = viewer.NewDispatcher(viewer.DispatcherConfig{
		Resolver: d.Resolver,
		Modules:  p.modules,
		Table:    d.Table,
		Location: d.Location,
		Accessors: viewer.Accessors{
			ACL:         p.permissions,
			Filename:    func() string { return d.Location().Basename() },
			DownloadURL: func() string { return DownloadURL(d.DownloadBaseURL, d.Location().Path()) },
		},
		Reporter: d.Reporter,
		Metrics:  d.Metrics,
		Tracer:   d.Tracer,
		Observer: p.observe,
	})
	p.coordinator = viewer.NewCoordinator(viewer.CoordinatorConfig{
		Tasks:    p.tasks(),
		Resolver: d.Resolver,
		Loader:   d.Loader,
		Table:    d.Table,
		Location: d.Location,
		Tracer:   d.Tracer,
	})
	return p
}

func (p *Page) tasks() []viewer.Task {
	var tasks []viewer.Task
	if p.deps.Shell != nil {
		tasks = append(tasks, viewer.Task{Name: "shell", Run: p.deps.Shell.Init})
	}
	if p.deps.Menubar != nil {
		tasks = append(tasks, viewer.Task{Name: "menubar", Run: p.deps.Menubar.Init})
	}
	if p.deps.Cache != nil {
		tasks = append(tasks, viewer.Task{Name: "filecache", Run: p.deps.Cache.Init})
	}
	tasks = append(tasks, viewer.Task{Name: "styles", Run: func(ctx context.Context) error {
		return styles.Load(ctx, p.deps.ThemeFile, p.deps.Theme)
	}})
	return tasks
}

// Init prepares the page. It fails only when a chrome task fails; problems
// with the current handler's own setup are ignored.
func (p *Page) Init(ctx context.Context) error {
	return p.coordinator.Ready(ctx)
}

// Render attaches a fresh surface of the given width to frame, decorates the
// frame and dispatches the current location into the surface. The display
// mode is adjusted alongside the dispatch.
func (p *Page) Render(ctx context.Context, frame *surface.Frame, width int) viewer.Outcome {
	loc := p.deps.Location()
	target := frame.Attach(width)

	p.mu.Lock()
	p.frame, p.target, p.width = frame, target, width
	p.mu.Unlock()

	if p.deps.Shell != nil {
		p.deps.Shell.Decorate(frame, loc, width)
	}

	var g errgroup.Group
	g.Go(func() error {
		return viewer.AdjustDisplayMode(loc, target)
	})
	out := p.dispatcher.Dispatch(ctx, target)
	if err := g.Wait(); err != nil {
		log.ErrorErr(log.CatUI, "display mode", err, "path", loc.Path())
	}

	p.renderMenubar(ctx, out)
	return out
}

// Reload dispatches again into the surface from the last Render. The
// previous viewer is not unmounted; a successful mount replaces the
// content. Reload before Render is a no-op.
func (p *Page) Reload(ctx context.Context) (viewer.Outcome, bool) {
	p.mu.Lock()
	target := p.target
	p.mu.Unlock()
	if target == nil {
		return viewer.Outcome{}, false
	}

	if p.deps.Cache != nil {
		_ = p.deps.Cache.Invalidate(ctx, p.deps.Location().Path())
	}
	out := p.dispatcher.Dispatch(ctx, target)
	p.renderMenubar(ctx, out)
	return out, true
}

// Last returns the outcome of the most recent dispatch.
func (p *Page) Last() viewer.Outcome {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Outcomes publishes every dispatch outcome: MountedEvent on success,
// FailedEvent otherwise.
func (p *Page) Outcomes() *pubsub.Broker[viewer.Outcome] {
	return p.outcomes
}

// Close ends outcome subscriptions.
func (p *Page) Close() {
	p.outcomes.Close()
}

// Modules exposes the loader cache for inspection.
func (p *Page) Modules() *viewer.MemoLoader {
	return p.modules
}

func (p *Page) observe(out viewer.Outcome) {
	p.mu.Lock()
	p.last = out
	p.mu.Unlock()

	event := pubsub.FailedEvent
	if out.Mounted {
		event = pubsub.MountedEvent
	}
	p.outcomes.Publish(event, out)

	if !out.Mounted || p.deps.Cache == nil {
		return
	}
	err := p.deps.Cache.RecordView(context.Background(), out.Path, string(out.Handler))
	if err != nil && !errors.Is(err, filecache.ErrNoDisk) {
		log.ErrorErr(log.CatCache, "record view", err, "path", out.Path)
	}
}

func (p *Page) renderMenubar(ctx context.Context, out viewer.Outcome) {
	p.mu.Lock()
	frame, width := p.frame, p.width
	p.mu.Unlock()
	if p.deps.Menubar == nil || frame == nil {
		return
	}

	loc := p.deps.Location()
	info := menubar.Info{Name: loc.Basename(), Perms: acl.ReadOnly}
	if out.Mounted {
		info.Handler = string(out.Handler)
	}
	if p.deps.Cache != nil {
		if e, err := p.deps.Cache.Stat(ctx, loc.Path()); err == nil {
			info.Size = e.Size
			info.Perms = e.Permissions()
		}
	}
	frame.SetFooter(p.deps.Menubar.Render(info, width))
}

// permissions backs the ACL accessor. Without a cache, or when the file
// cannot be stat'ed, viewers get read-only access.
func (p *Page) permissions() acl.Permissions {
	if p.deps.Cache == nil {
		return acl.ReadOnly
	}
	e, err := p.deps.Cache.Stat(context.Background(), p.deps.Location().Path())
	if err != nil {
		log.Debug(log.CatCache, "stat for acl failed", "error", err)
		return acl.ReadOnly
	}
	return e.Permissions()
}

// DownloadURL builds the download link for path: base plus the escaped path
// when base is set, a file:// URL otherwise.
func DownloadURL(base, path string) string {
	if base != "" {
		escaped := (&url.URL{Path: "/" + strings.TrimPrefix(path, "/")}).EscapedPath()
		return strings.TrimRight(base, "/") + escaped
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}
