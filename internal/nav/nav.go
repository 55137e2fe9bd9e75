// Package nav holds the navigation state of the viewer: the file being viewed
// and the query flags that came with it.
package nav

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// FlagNav is the query flag that controls whether navigation chrome is shown.
const FlagNav = "nav"

// Location is the current navigation target. It is read-only once parsed.
type Location struct {
	path  string
	query url.Values
}

// Parse reads a target of the form "/docs/report.pdf?nav=false". The path is
// taken literally, so '%' and '#' are ordinary file name characters. Text
// after the last '?' is a query only when every part is a key=value pair;
// otherwise the '?' belongs to the file name.
func Parse(raw string) (Location, error) {
	if strings.TrimSpace(raw) == "" {
		return Location{}, fmt.Errorf("empty target path")
	}
	p, query := raw, url.Values{}
	if i := strings.LastIndexByte(raw, '?'); i >= 0 {
		if q, ok := parseFlags(raw[i+1:]); ok {
			p, query = raw[:i], q
		}
	}
	if p == "" {
		return Location{}, fmt.Errorf("target %q has no path", raw)
	}
	return Location{path: p, query: query}, nil
}

func parseFlags(s string) (url.Values, bool) {
	if s == "" {
		return nil, false
	}
	for _, part := range strings.Split(s, "&") {
		if k, _, ok := strings.Cut(part, "="); !ok || k == "" {
			return nil, false
		}
	}
	q, err := url.ParseQuery(s)
	if err != nil {
		return nil, false
	}
	return q, true
}

// New builds a Location from an already split path and query.
func New(p string, query url.Values) Location {
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	return Location{path: p, query: q}
}

// Path returns the target file path.
func (l Location) Path() string {
	return l.path
}

// Basename returns the last element of the path.
func (l Location) Basename() string {
	if l.path == "" {
		return ""
	}
	return path.Base(l.path)
}

// Query returns the first value of the named query flag.
func (l Location) Query(name string) (string, bool) {
	if l.query == nil {
		return "", false
	}
	vs, ok := l.query[name]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// WithQuery returns a copy of l with the flag set.
func (l Location) WithQuery(name, value string) Location {
	next := New(l.path, l.query)
	next.query.Set(name, value)
	return next
}

// WithPath returns a copy of l pointing at p with the same flags.
func (l Location) WithPath(p string) Location {
	return New(p, l.query)
}

// Segments splits the path into breadcrumb parts, without empty elements.
func (l Location) Segments() []string {
	var out []string
	for _, s := range strings.Split(l.path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (l Location) String() string {
	if len(l.query) == 0 {
		return l.path
	}
	return l.path + "?" + l.query.Encode()
}
