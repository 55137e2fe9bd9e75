// Package app contains the root application model.
package app

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/glance/internal/keys"
	"github.com/zjrosen/glance/internal/linediff"
	"github.com/zjrosen/glance/internal/log"
	"github.com/zjrosen/glance/internal/menubar"
	"github.com/zjrosen/glance/internal/nav"
	"github.com/zjrosen/glance/internal/pubsub"
	"github.com/zjrosen/glance/internal/styles"
	"github.com/zjrosen/glance/internal/surface"
	"github.com/zjrosen/glance/internal/toast"
	"github.com/zjrosen/glance/internal/viewer"
	"github.com/zjrosen/glance/internal/viewerpage"
	"github.com/zjrosen/glance/internal/viewers"
	"github.com/zjrosen/glance/internal/watcher"
)

const logTailLines = 6

// Model is the root application state.
type Model struct {
	page    *viewerpage.Page
	menubar *menubar.Menubar
	loc     nav.Location
	frame   *surface.Frame

	keys     keys.KeyMap
	viewport viewport.Model
	help     help.Model
	toast    toast.Model

	width     int
	height    int
	ready     bool
	initErr   error
	showHelp  bool
	showLog   bool
	debugMode bool
	logTail   []string
	status    string

	// File text as last seen, for reload line counts. snapshotOK is false
	// when the file is not text.
	snapshot   string
	snapshotOK bool

	ctx    context.Context
	cancel context.CancelFunc

	// File watcher for auto-reload (pubsub-based)
	watcherHandle   *watcher.Watcher
	watcherListener *pubsub.ContinuousListener[watcher.WatcherEvent]
	outcomeListener *pubsub.ContinuousListener[viewer.Outcome]
	logListener     *log.LogListener
}

// Config holds what the model needs to run.
type Config struct {
	Page       *viewerpage.Page
	Menubar    *menubar.Menubar
	Location   nav.Location
	AutoReload bool
	Debug      bool
	// ShowLog opens the log tail at startup. Only honored with Debug.
	ShowLog bool
}

type (
	pageReadyMsg struct {
		err      error
		snapshot string
		textOK   bool
	}
	renderedMsg struct {
		view string
		out  viewer.Outcome
	}
	editorDoneMsg struct{ err error }
	// fileDiffMsg carries the line counts between the previous snapshot
	// and the file on disk after a watcher change.
	fileDiffMsg struct {
		snapshot string
		textOK   bool
		stat     linediff.Stat
	}
)

// New creates the application model. Watcher setup failures are logged and
// leave auto-reload off.
func New(cfg Config) Model {
	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		page:      cfg.Page,
		menubar:   cfg.Menubar,
		loc:       cfg.Location,
		frame:     surface.NewFrame(),
		keys:      keys.DefaultKeyMap(),
		viewport:  viewport.New(0, 0),
		help:      help.New(),
		toast:     toast.New(),
		debugMode: cfg.Debug,
		showLog:   cfg.Debug && cfg.ShowLog,
		ctx:       ctx,
		cancel:    cancel,
	}
	m.outcomeListener = pubsub.NewContinuousListener(ctx, cfg.Page.Outcomes())

	if cfg.AutoReload {
		w, err := watcher.New(watcher.DefaultConfig(cfg.Location.Path()))
		if err == nil {
			m.watcherListener = pubsub.NewContinuousListener(ctx, w.Broker())
			if err = w.Start(); err == nil {
				m.watcherHandle = w
			} else {
				_ = w.Stop()
				m.watcherListener = nil
			}
		}
		if err != nil {
			log.Warn(log.CatWatcher, "auto-reload disabled", "error", err)
		}
	}

	if cfg.Debug {
		m.logListener = log.NewListener(ctx)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.initPage(), m.outcomeListener.Listen()}
	if m.watcherListener != nil {
		cmds = append(cmds, m.watcherListener.Listen())
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		if m.ready {
			return m, m.render()
		}
		return m, nil

	case pageReadyMsg:
		if msg.err != nil {
			m.initErr = msg.err
			return m, nil
		}
		m.ready = true
		m.snapshot, m.snapshotOK = msg.snapshot, msg.textOK
		if m.width > 0 {
			return m, m.render()
		}
		return m, nil

	case renderedMsg:
		m.viewport.SetContent(msg.view)
		return m, nil

	case fileDiffMsg:
		m.snapshot, m.snapshotOK = msg.snapshot, msg.textOK
		if msg.stat.IsZero() {
			return m, nil
		}
		var dismiss tea.Cmd
		m.toast, dismiss = m.toast.ShowFor(fmt.Sprintf("reloaded %s (%s)", m.loc.Basename(), msg.stat),
			toast.KindInfo, toast.DefaultDuration)
		return m, dismiss

	case editorDoneMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatUI, "external editor failed", msg.err)
			var dismiss tea.Cmd
			m.toast, dismiss = m.toast.ShowFor("editor: "+msg.err.Error(), toast.KindError, toast.DefaultDuration)
			return m, tea.Batch(m.reload(), dismiss)
		}
		return m, m.reload()

	case toast.DismissMsg:
		m.toast = m.toast.Update(msg)
		return m, nil

	case pubsub.Event[watcher.WatcherEvent]:
		switch msg.Payload.Type {
		case watcher.FileChanged:
			log.Debug(log.CatWatcher, "file changed, reloading", "path", msg.Payload.Path)
			var dismiss tea.Cmd
			m.toast, dismiss = m.toast.ShowFor("reloaded "+m.loc.Basename(), toast.KindInfo, toast.DefaultDuration)
			return m, tea.Batch(m.reload(), m.diffFile(), dismiss, m.watcherListener.Listen())
		case watcher.WatcherError:
			log.Warn(log.CatWatcher, "Watcher error received", "error", msg.Payload.Error)
		}
		return m, m.watcherListener.Listen()

	case pubsub.Event[viewer.Outcome]:
		m.status = outcomeStatus(msg.Type, msg.Payload)
		return m, m.outcomeListener.Listen()

	case pubsub.Event[string]:
		m.logTail = append(m.logTail, strings.TrimRight(msg.Payload, "\n"))
		if len(m.logTail) > logTailLines {
			m.logTail = m.logTail[len(m.logTail)-logTailLines:]
		}
		return m, m.logListener.Listen()

	case tea.MouseMsg:
		switch m.menubar.Hit(msg) {
		case menubar.ActionQuit:
			return m, tea.Quit
		case menubar.ActionReload:
			return m, m.reload()
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Reload):
		return m, m.reload()
	case key.Matches(msg, m.keys.Edit):
		if !m.ready {
			return m, nil
		}
		cmd := m.edit()
		if cmd == nil {
			var dismiss tea.Cmd
			m.toast, dismiss = m.toast.ShowFor("set $VISUAL or $EDITOR to edit", toast.KindWarn, toast.DefaultDuration)
			return m, dismiss
		}
		return m, cmd
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.resize()
		return m, nil
	case key.Matches(msg, m.keys.ToggleLog):
		if m.debugMode {
			m.showLog = !m.showLog
			m.resize()
		}
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) resize() {
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-m.chromeHeight(), 1)
	m.help.Width = m.width
}

func (m Model) chromeHeight() int {
	h := 1 // status line
	if m.showHelp {
		h += len(m.keys.FullHelp()[0])
	}
	if m.showLog {
		h += logTailLines
	}
	return h
}

// contentWidth is the surface width inside the frame border and padding.
func (m Model) contentWidth() int {
	return max(m.width-4, 10)
}

func (m Model) initPage() tea.Cmd {
	page, ctx, path := m.page, m.ctx, m.loc.Path()
	return func() tea.Msg {
		if err := page.Init(ctx); err != nil {
			return pageReadyMsg{err: err}
		}
		text, err := linediff.Snapshot(path)
		return pageReadyMsg{snapshot: text, textOK: err == nil}
	}
}

// diffFile counts the lines changed since the last snapshot. Files that were
// or became non-text report no change.
func (m Model) diffFile() tea.Cmd {
	if !m.ready {
		return nil
	}
	before, beforeOK, path := m.snapshot, m.snapshotOK, m.loc.Path()
	return func() tea.Msg {
		after, err := linediff.Snapshot(path)
		msg := fileDiffMsg{snapshot: after, textOK: err == nil}
		if beforeOK && msg.textOK {
			msg.stat = linediff.Lines(before, after)
		}
		return msg
	}
}

func (m Model) render() tea.Cmd {
	page, frame, ctx, width := m.page, m.frame, m.ctx, m.contentWidth()
	return func() tea.Msg {
		out := page.Render(ctx, frame, width)
		return renderedMsg{view: frame.View(), out: out}
	}
}

func (m Model) reload() tea.Cmd {
	if !m.ready {
		return nil
	}
	page, frame, ctx := m.page, m.frame, m.ctx
	return func() tea.Msg {
		out, ok := page.Reload(ctx)
		if !ok {
			return nil
		}
		return renderedMsg{view: frame.View(), out: out}
	}
}

func (m Model) edit() tea.Cmd {
	editor := viewers.ExternalEditor()
	if editor == "" {
		return nil
	}
	cmd := exec.Command(editor, m.loc.Path()) //nolint:gosec // G204: editor comes from $VISUAL/$EDITOR
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorDoneMsg{err: err}
	})
}

func outcomeStatus(event pubsub.EventType, out viewer.Outcome) string {
	if event == pubsub.MountedEvent {
		return fmt.Sprintf("%s · %s", out.Handler, out.Duration.Round(time.Millisecond))
	}
	return fmt.Sprintf("%s failed", out.Handler)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.initErr != nil {
		box := styles.RenderTitledBox([]string{m.initErr.Error(), "", "press q to quit"},
			"Startup Error", max(m.width, 40), styles.StatusErrorColor)
		return box
	}
	if !m.ready {
		return styles.MutedStyle.Render("Loading " + m.loc.Basename() + "…")
	}

	parts := []string{m.viewport.View()}
	if m.showLog {
		tail := make([]string, logTailLines)
		copy(tail[logTailLines-min(len(m.logTail), logTailLines):], m.logTail)
		parts = append(parts, styles.MutedStyle.Render(strings.Join(tail, "\n")))
	}
	if m.showHelp {
		parts = append(parts, m.help.FullHelpView(m.keys.FullHelp()))
	}
	parts = append(parts, m.statusLine())

	view := m.toast.Overlay(lipgloss.JoinVertical(lipgloss.Left, parts...), m.width)
	return m.menubar.Scan(view)
}

func (m Model) statusLine() string {
	left := m.help.ShortHelpView(m.keys.ShortHelp())
	if m.status == "" {
		return left
	}
	right := styles.MutedStyle.Render(m.status)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	m.cancel()
	m.page.Close()
	m.menubar.Close()
	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return err
		}
	}
	return nil
}
