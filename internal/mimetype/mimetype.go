// Package mimetype maps file names to viewer handlers.
package mimetype

import (
	"maps"
	"path"
	"strings"

	"github.com/zjrosen/glance/internal/viewer"
)

// Resolver looks a file up in a type table: the exact lower-cased file name
// first, then its extension without the dot. Anything else opens with the
// download viewer.
type Resolver struct{}

var _ viewer.Resolver = Resolver{}

// Resolve implements viewer.Resolver.
func (Resolver) Resolve(filename string, table viewer.TypeTable) (viewer.HandlerID, viewer.Options) {
	name := strings.ToLower(path.Base(filename))
	if o, ok := table[name]; ok {
		return o.Handler, o.Options
	}
	if ext := Ext(name); ext != "" {
		if o, ok := table[ext]; ok {
			return o.Handler, o.Options
		}
	}
	return viewer.HandlerDownload, nil
}

// Ext returns the lower-cased extension of name without the leading dot.
// Dot files such as ".bashrc" have no extension.
func Ext(name string) string {
	base := path.Base(name)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 || i == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}

func opener(id viewer.HandlerID) viewer.Opener {
	return viewer.Opener{Handler: id}
}

// DefaultTable is the type table used when the configuration has none.
func DefaultTable() viewer.TypeTable {
	return maps.Clone(defaultTable)
}

var defaultTable = viewer.TypeTable{
	// text
	"txt":        opener(viewer.HandlerEditor),
	"go":         opener(viewer.HandlerEditor),
	"js":         opener(viewer.HandlerEditor),
	"ts":         opener(viewer.HandlerEditor),
	"py":         opener(viewer.HandlerEditor),
	"sh":         opener(viewer.HandlerEditor),
	"log":        opener(viewer.HandlerEditor),
	"xml":        opener(viewer.HandlerEditor),
	"toml":       opener(viewer.HandlerEditor),
	"makefile":   opener(viewer.HandlerEditor),
	"dockerfile": opener(viewer.HandlerEditor),
	"md":         opener(viewer.HandlerMarkdown),
	"markdown":   opener(viewer.HandlerMarkdown),

	// documents
	"pdf":  opener(viewer.HandlerPDF),
	"epub": opener(viewer.HandlerEbook),
	"csv":  opener(viewer.HandlerTable),
	"tsv":  {Handler: viewer.HandlerTable, Options: viewer.Options{"delimiter": "\t"}},
	"yaml": opener(viewer.HandlerForm),
	"yml":  opener(viewer.HandlerForm),
	"json": opener(viewer.HandlerForm),

	// media
	"png":  opener(viewer.HandlerImage),
	"jpg":  opener(viewer.HandlerImage),
	"jpeg": opener(viewer.HandlerImage),
	"gif":  opener(viewer.HandlerImage),
	"mp3":  opener(viewer.HandlerAudio),
	"wav":  opener(viewer.HandlerAudio),
	"flac": opener(viewer.HandlerAudio),
	"ogg":  opener(viewer.HandlerAudio),
	"mp4":  opener(viewer.HandlerVideo),
	"webm": opener(viewer.HandlerVideo),
	"mkv":  opener(viewer.HandlerVideo),
	"mov":  opener(viewer.HandlerVideo),

	// everything else
	"obj":     opener(viewer.Handler3D),
	"geojson": opener(viewer.HandlerMap),
	"url":     opener(viewer.HandlerURL),
	"webloc":  opener(viewer.HandlerURL),
	"html":    {Handler: viewer.HandlerAppFrame, Options: viewer.Options{"url": "{download_url}"}},
	"tmp":     opener(viewer.HandlerSkeleton),
}
