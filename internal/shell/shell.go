// Package shell owns the page chrome around the viewer: the terminal colour
// profile and the breadcrumb header.
package shell

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/zjrosen/glance/internal/log"
	"github.com/zjrosen/glance/internal/nav"
	"github.com/zjrosen/glance/internal/styles"
	"github.com/zjrosen/glance/internal/surface"
)

const separator = " › "

// Shell detects terminal capabilities and draws the breadcrumb.
type Shell struct {
	out    io.Writer
	forced *termenv.Profile

	mu      sync.RWMutex
	profile termenv.Profile
	ready   bool
}

// Option configures a Shell.
type Option func(*Shell)

// WithProfile skips detection and uses p.
func WithProfile(p termenv.Profile) Option {
	return func(s *Shell) { s.forced = &p }
}

// New returns a Shell that inspects out during Init.
func New(out io.Writer, opts ...Option) *Shell {
	s := &Shell{out: out, profile: termenv.Ascii}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init detects the colour profile and applies it to lipgloss.
func (s *Shell) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	profile := termenv.Ascii
	if s.forced != nil {
		profile = *s.forced
	} else if s.out != nil {
		profile = termenv.NewOutput(s.out).EnvColorProfile()
	}
	lipgloss.SetColorProfile(profile)

	s.mu.Lock()
	s.profile = profile
	s.ready = true
	s.mu.Unlock()

	log.Debug(log.CatUI, "shell ready", "profile", profileName(profile))
	return nil
}

// Profile returns the detected colour profile. Before Init it is Ascii.
func (s *Shell) Profile() termenv.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Ready reports whether Init has completed.
func (s *Shell) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Decorate installs the breadcrumb for loc as the frame header.
func (s *Shell) Decorate(frame *surface.Frame, loc nav.Location, width int) {
	frame.SetBorderColor(styles.BorderDefaultColor)
	frame.SetHeader(Breadcrumb(loc, width))
}

// Breadcrumb renders the path segments of loc, truncated from the left to
// fit width cells. The file name is always kept.
func Breadcrumb(loc nav.Location, width int) string {
	segs := loc.Segments()
	if len(segs) == 0 {
		return ""
	}

	dirs := segs[:len(segs)-1]
	name := styles.TitleStyle.Render(segs[len(segs)-1])
	if len(dirs) == 0 {
		return name
	}

	trail := styles.MutedStyle.Render(strings.Join(dirs, separator) + separator)
	line := trail + name
	if width <= 0 || ansi.StringWidth(line) <= width {
		return line
	}

	// Drop leading cells of the directory trail first.
	room := width - ansi.StringWidth(name)
	switch {
	case room < 1:
		return ansi.Truncate(name, width, "…")
	case room == 1:
		return styles.MutedStyle.Render("…") + name
	}
	plain := strings.Join(dirs, separator) + separator
	cut := ansi.StringWidth(plain) - (room - 1)
	return styles.MutedStyle.Render(ansi.TruncateLeft(plain, cut, "…")) + name
}

func profileName(p termenv.Profile) string {
	switch p {
	case termenv.TrueColor:
		return "truecolor"
	case termenv.ANSI256:
		return "ansi256"
	case termenv.ANSI:
		return "ansi"
	default:
		return "ascii"
	}
}
