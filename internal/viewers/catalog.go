// Package viewers holds the viewer plugins and the catalog that loads them.
//
// Each viewer renders a compact preview of one file type into a surface.
// Viewers read the file named by the catalog's current path and take their
// capabilities (permissions, file name, download URL) from the dispatch
// context.
package viewers

import (
	"context"

	"github.com/zjrosen/glance/internal/viewer"
)

// Catalog constructs viewer modules. It is the plugin loader: it does not
// cache, so every Load builds a new module.
type Catalog struct {
	// Path returns the file currently being viewed.
	Path func() string
	// MarkdownStyle is the glamour style name ("dark", "light", "notty").
	MarkdownStyle string
}

var _ viewer.Loader = (*Catalog)(nil)

// Load returns a new module for id, or an UnknownHandlerError for ids
// outside the closed set.
func (c *Catalog) Load(ctx context.Context, id viewer.HandlerID) (viewer.Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src := source(c.path)

	switch id {
	case viewer.HandlerEditor:
		return &Editor{src: src}, nil
	case viewer.HandlerMarkdown:
		return &Markdown{src: src, style: c.MarkdownStyle}, nil
	case viewer.HandlerPDF:
		return &PDF{src: src}, nil
	case viewer.HandlerImage:
		return &Image{src: src}, nil
	case viewer.HandlerDownload:
		return &Download{src: src}, nil
	case viewer.HandlerForm:
		return &Form{src: src}, nil
	case viewer.HandlerAudio:
		return &Media{src: src, kind: "audio"}, nil
	case viewer.HandlerVideo:
		return &Media{src: src, kind: "video"}, nil
	case viewer.HandlerEbook:
		return &Ebook{src: src}, nil
	case viewer.Handler3D:
		return &Model3D{src: src}, nil
	case viewer.HandlerAppFrame:
		return &AppFrame{src: src}, nil
	case viewer.HandlerMap:
		return &Map{src: src}, nil
	case viewer.HandlerURL:
		return &URL{src: src}, nil
	case viewer.HandlerTable:
		return &Table{src: src}, nil
	case viewer.HandlerSkeleton:
		return &Skeleton{}, nil
	default:
		return nil, &viewer.UnknownHandlerError{ID: id, Path: c.path()}
	}
}

func (c *Catalog) path() string {
	if c.Path == nil {
		return ""
	}
	return c.Path()
}
