package filecache

import (
	"io/fs"
	"time"

	"github.com/zjrosen/glance/internal/acl"
)

// Entry is what the cache knows about one file.
type Entry struct {
	Path       string
	Size       int64
	Mode       fs.FileMode
	ModTime    time.Time
	CheckedAt  time.Time
	Views      int
	LastViewed time.Time
	// Handler is the viewer that last mounted the file.
	Handler string
}

// Permissions derives the viewer permissions from the file mode.
func (e Entry) Permissions() acl.Permissions {
	return acl.FromMode(e.Mode)
}

// statModel is the file_stats row with Unix timestamps.
type statModel struct {
	Path       string
	Size       int64
	Mode       int64
	ModTime    int64
	CheckedAt  int64
	Views      int
	LastViewed *int64 // nullable
	Handler    string
}

func toModel(e Entry) statModel {
	m := statModel{
		Path:      e.Path,
		Size:      e.Size,
		Mode:      int64(e.Mode),
		ModTime:   e.ModTime.Unix(),
		CheckedAt: e.CheckedAt.Unix(),
		Views:     e.Views,
		Handler:   e.Handler,
	}
	if !e.LastViewed.IsZero() {
		v := e.LastViewed.Unix()
		m.LastViewed = &v
	}
	return m
}

func (m statModel) toEntry() Entry {
	e := Entry{
		Path:      m.Path,
		Size:      m.Size,
		Mode:      fs.FileMode(m.Mode), //nolint:gosec // G115: stored from a FileMode
		ModTime:   time.Unix(m.ModTime, 0),
		CheckedAt: time.Unix(m.CheckedAt, 0),
		Views:     m.Views,
		Handler:   m.Handler,
	}
	if m.LastViewed != nil {
		e.LastViewed = time.Unix(*m.LastViewed, 0)
	}
	return e
}
