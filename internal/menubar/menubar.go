// Package menubar renders the title bar above the viewer.
package menubar

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/glance/internal/acl"
	"github.com/zjrosen/glance/internal/keys"
	"github.com/zjrosen/glance/internal/log"
	"github.com/zjrosen/glance/internal/styles"
)

// Zone ids for mouse hit testing.
const (
	ZoneReload = "menubar-reload"
	ZoneQuit   = "menubar-quit"
)

// Action is what a click on the bar asks for.
type Action int

const (
	ActionNone Action = iota
	ActionReload
	ActionQuit
)

// Info is what the bar shows about the viewed file.
type Info struct {
	Name    string
	Size    int64
	Perms   acl.Permissions
	Handler string
}

// Menubar holds key bindings and click zones. It is usable only after Init.
type Menubar struct {
	mu    sync.RWMutex
	keys  keys.KeyMap
	help  help.Model
	zones *zone.Manager
}

// New returns an uninitialized Menubar.
func New() *Menubar {
	return &Menubar{}
}

// Init prepares key bindings and the zone manager.
func (m *Menubar) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h := help.New()
	h.ShortSeparator = "  "

	m.mu.Lock()
	m.keys = keys.DefaultKeyMap()
	m.help = h
	if m.zones == nil {
		m.zones = zone.New()
	}
	m.mu.Unlock()

	log.Debug(log.CatUI, "menubar ready")
	return nil
}

// Keys returns the bindings prepared by Init.
func (m *Menubar) Keys() keys.KeyMap {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.keys
}

// Render draws the bar for info, fitted to width.
func (m *Menubar) Render(info Info, width int) string {
	m.mu.RLock()
	zones, km, h := m.zones, m.keys, m.help
	m.mu.RUnlock()

	var left []string
	if info.Name != "" {
		left = append(left, styles.TitleStyle.Render(info.Name))
	}
	left = append(left, styles.MutedStyle.Render(styles.HumanSize(info.Size)))
	left = append(left, styles.LabelStyle.Render(info.Perms.Label()))
	if info.Handler != "" {
		left = append(left, styles.AccentStyle.Render(info.Handler))
	}

	reload, quit := "[r]eload", "[q]uit"
	if zones != nil {
		reload = zones.Mark(ZoneReload, reload)
		quit = zones.Mark(ZoneQuit, quit)
	}
	right := reload + " " + quit
	if km.Help.Enabled() {
		right = h.ShortHelpView([]key.Binding{km.Help}) + "  " + right
	}

	bar := joinEnds(strings.Join(left, "  "), right, width)
	return styles.StatusBarStyle.Render(bar)
}

// Scan strips zone markers from a full view and records their positions.
// It must run on the outermost view string.
func (m *Menubar) Scan(view string) string {
	m.mu.RLock()
	zones := m.zones
	m.mu.RUnlock()
	if zones == nil {
		return view
	}
	return zones.Scan(view)
}

// Hit maps a mouse release to an Action.
func (m *Menubar) Hit(msg tea.MouseMsg) Action {
	m.mu.RLock()
	zones := m.zones
	m.mu.RUnlock()
	if zones == nil || msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return ActionNone
	}
	if z := zones.Get(ZoneReload); z != nil && z.InBounds(msg) {
		return ActionReload
	}
	if z := zones.Get(ZoneQuit); z != nil && z.InBounds(msg) {
		return ActionQuit
	}
	return ActionNone
}

// Close stops the zone manager.
func (m *Menubar) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.zones != nil {
		m.zones.Close()
		m.zones = nil
	}
}

// joinEnds places left and right on one line of the given width, keeping
// right intact and truncating left.
func joinEnds(left, right string, width int) string {
	// The bar style pads one cell on each side.
	inner := width - 2
	rw := ansi.StringWidth(right)
	if inner <= rw {
		return right
	}
	left = ansi.Truncate(left, inner-rw-1, "…")
	gap := inner - rw - ansi.StringWidth(left)
	return left + strings.Repeat(" ", gap) + right
}

func (a Action) String() string {
	switch a {
	case ActionReload:
		return "reload"
	case ActionQuit:
		return "quit"
	default:
		return "none"
	}
}
