// Package viewer is the plugin dispatch core of glance.
//
// A file is resolved to a HandlerID through a Resolver, the handler's Module
// is loaded once through a MemoLoader, and the Module is mounted into a
// surface with a DispatchContext. Failures end at a single error boundary in
// the Dispatcher. The Coordinator gates page readiness on one-time setup
// tasks and the handler's optional Init hook.
package viewer

import (
	"context"
	"slices"

	"github.com/zjrosen/glance/internal/surface"
)

// HandlerID identifies a viewer plugin.
type HandlerID string

const (
	HandlerEditor   HandlerID = "editor"
	HandlerPDF      HandlerID = "pdf"
	HandlerImage    HandlerID = "image"
	HandlerDownload HandlerID = "download"
	HandlerForm     HandlerID = "form"
	HandlerAudio    HandlerID = "audio"
	HandlerVideo    HandlerID = "video"
	HandlerEbook    HandlerID = "ebook"
	Handler3D       HandlerID = "3d"
	HandlerAppFrame HandlerID = "appframe"
	HandlerMap      HandlerID = "map"
	HandlerURL      HandlerID = "url"
	HandlerTable    HandlerID = "table"
	HandlerSkeleton HandlerID = "skeleton"
	HandlerMarkdown HandlerID = "markdown"
)

var handlers = []HandlerID{
	HandlerEditor, HandlerPDF, HandlerImage, HandlerDownload, HandlerForm,
	HandlerAudio, HandlerVideo, HandlerEbook, Handler3D, HandlerAppFrame,
	HandlerMap, HandlerURL, HandlerTable, HandlerSkeleton, HandlerMarkdown,
}

// Handlers returns the closed set of known handler identifiers.
func Handlers() []HandlerID {
	return slices.Clone(handlers)
}

// Known reports whether id belongs to the closed set.
func (id HandlerID) Known() bool {
	return slices.Contains(handlers, id)
}

func (id HandlerID) String() string { return string(id) }

// Module is a loaded viewer plugin.
type Module interface {
	// Mount renders the viewer into target. It may block on I/O.
	Mount(ctx context.Context, target *surface.Surface, dctx DispatchContext) error
}

// Initializer is implemented by modules that need one-time page setup.
type Initializer interface {
	Init(ctx context.Context) error
}

// MountFunc adapts a function to the Module interface.
type MountFunc func(ctx context.Context, target *surface.Surface, dctx DispatchContext) error

// Mount calls f.
func (f MountFunc) Mount(ctx context.Context, target *surface.Surface, dctx DispatchContext) error {
	return f(ctx, target, dctx)
}

// Options are handler specific settings taken from the type table.
type Options map[string]any

// Opener is one entry of the type table.
type Opener struct {
	Handler HandlerID `mapstructure:"handler" yaml:"handler"`
	Options Options   `mapstructure:"options" yaml:"options,omitempty"`
}

// TypeTable maps a file type key (a file name or an extension) to an Opener.
type TypeTable map[string]Opener

// TableSource returns the current type table. It is called on every run so
// configuration changes are picked up.
type TableSource func() TypeTable

// Resolver picks the handler for a file name. Implementations must be pure.
type Resolver interface {
	Resolve(filename string, table TypeTable) (HandlerID, Options)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(filename string, table TypeTable) (HandlerID, Options)

// Resolve calls f.
func (f ResolverFunc) Resolve(filename string, table TypeTable) (HandlerID, Options) {
	return f(filename, table)
}
