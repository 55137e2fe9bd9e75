package viewer

import (
	"fmt"
	"maps"

	"github.com/zjrosen/glance/internal/acl"
)

// Accessors are the capabilities every viewer receives, whatever its type.
type Accessors struct {
	ACL         func() acl.Permissions
	Filename    func() string
	DownloadURL func() string
}

// DispatchContext is built fresh for every dispatch: the handler's options
// merged with the fixed accessors.
type DispatchContext struct {
	Options     Options
	ACL         func() acl.Permissions
	Filename    func() string
	DownloadURL func() string
}

func newDispatchContext(opts Options, access Accessors) DispatchContext {
	dctx := DispatchContext{
		Options:     maps.Clone(opts),
		ACL:         access.ACL,
		Filename:    access.Filename,
		DownloadURL: access.DownloadURL,
	}
	if dctx.Options == nil {
		dctx.Options = Options{}
	}
	if dctx.ACL == nil {
		dctx.ACL = func() acl.Permissions { return acl.ReadOnly }
	}
	if dctx.Filename == nil {
		dctx.Filename = func() string { return "" }
	}
	if dctx.DownloadURL == nil {
		dctx.DownloadURL = func() string { return "" }
	}
	return dctx
}

// Option returns a raw option value.
func (c DispatchContext) Option(key string) (any, bool) {
	v, ok := c.Options[key]
	return v, ok
}

// String returns an option formatted as a string, or def when unset.
func (c DispatchContext) String(key, def string) string {
	v, ok := c.Options[key]
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Bool returns a boolean option, or def when unset or not a bool.
func (c DispatchContext) Bool(key string, def bool) bool {
	if v, ok := c.Options[key].(bool); ok {
		return v
	}
	return def
}
