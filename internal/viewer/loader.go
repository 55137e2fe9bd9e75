package viewer

import "context"

// Loader materializes the Module for a handler. It is a pure lookup and does
// no caching; unknown identifiers fail with *UnknownHandlerError.
type Loader interface {
	Load(ctx context.Context, id HandlerID) (Module, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, id HandlerID) (Module, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, id HandlerID) (Module, error) {
	return f(ctx, id)
}

// Getter returns the Module for a handler, possibly from a cache.
type Getter interface {
	Get(ctx context.Context, id HandlerID) (Module, error)
}
