package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/glance/internal/menubar"
	"github.com/zjrosen/glance/internal/nav"
	"github.com/zjrosen/glance/internal/pubsub"
	"github.com/zjrosen/glance/internal/shell"
	"github.com/zjrosen/glance/internal/viewer"
	"github.com/zjrosen/glance/internal/viewerpage"
	"github.com/zjrosen/glance/internal/viewers"
	"github.com/zjrosen/glance/internal/watcher"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestModel creates a Model over a temp text file without a watcher.
func createTestModel(t *testing.T, cfg Config) Model {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world\nsecond line\n"), 0o644))

	loc := nav.New(path, nil)
	bar := menubar.New()
	page := viewerpage.New(viewerpage.Deps{
		Location:      func() nav.Location { return loc },
		Shell:         shell.New(nil, shell.WithProfile(termenv.Ascii)),
		Menubar:       bar,
		MarkdownStyle: "notty",
	})

	cfg.Page = page
	cfg.Menubar = bar
	cfg.Location = loc
	m := New(cfg)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

// readyModel runs page init and the first render synchronously.
func readyModel(t *testing.T, cfg Config) Model {
	t.Helper()
	m := createTestModel(t, cfg)

	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = newModel.(Model)

	newModel, cmd := m.Update(m.initPage()())
	m = newModel.(Model)
	require.True(t, m.ready)
	require.NotNil(t, cmd, "ready page with a size should render")

	newModel, _ = m.Update(cmd())
	return newModel.(Model)
}

func TestApp_WindowSizeMsg(t *testing.T) {
	m := createTestModel(t, Config{})

	newModel, cmd := m.Update(tea.WindowSizeMsg{Width: 120, Height: 50})
	m = newModel.(Model)

	assert.Equal(t, 120, m.width, "expected width to be updated")
	assert.Equal(t, 50, m.height, "expected height to be updated")
	assert.Equal(t, 49, m.viewport.Height, "status line takes one row")
	assert.Nil(t, cmd, "no render before the page is ready")
}

func TestApp_LoadingViewBeforeReady(t *testing.T) {
	m := createTestModel(t, Config{})
	assert.Contains(t, m.View(), "Loading notes.txt")
}

func TestApp_RendersFile(t *testing.T) {
	m := readyModel(t, Config{})

	view := m.View()
	assert.Contains(t, view, "hello world")
	assert.Contains(t, view, "notes.txt")
}

func TestApp_ResizeRerenders(t *testing.T) {
	m := readyModel(t, Config{})

	_, cmd := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	require.NotNil(t, cmd)
	msg, ok := cmd().(renderedMsg)
	require.True(t, ok)
	assert.True(t, msg.out.Mounted)
	assert.Equal(t, viewer.HandlerEditor, msg.out.Handler)
}

func TestApp_InitErrorView(t *testing.T) {
	m := createTestModel(t, Config{})

	newModel, cmd := m.Update(pageReadyMsg{err: errors.New("theme file broken")})
	m = newModel.(Model)

	assert.Nil(t, cmd)
	assert.False(t, m.ready)
	assert.Contains(t, m.View(), "theme file broken")
	assert.Contains(t, m.View(), "Startup Error")
}

func TestApp_QuitKey(t *testing.T) {
	m := createTestModel(t, Config{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestApp_ReloadBeforeReadyIsNoop(t *testing.T) {
	m := createTestModel(t, Config{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	assert.Nil(t, cmd)
}

func TestApp_ReloadKeyRedispatches(t *testing.T) {
	m := readyModel(t, Config{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	require.NotNil(t, cmd)
	msg, ok := cmd().(renderedMsg)
	require.True(t, ok)
	assert.True(t, msg.out.Mounted)
	assert.Contains(t, msg.view, "hello world")
}

func TestApp_HelpToggle(t *testing.T) {
	m := readyModel(t, Config{})
	before := m.viewport.Height

	newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = newModel.(Model)

	assert.True(t, m.showHelp)
	assert.Less(t, m.viewport.Height, before)

	newModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = newModel.(Model)
	assert.False(t, m.showHelp)
	assert.Equal(t, before, m.viewport.Height)
}

func TestApp_ToggleLogRequiresDebug(t *testing.T) {
	m := readyModel(t, Config{})
	newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.False(t, newModel.(Model).showLog)

	m = readyModel(t, Config{Debug: true})
	newModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.True(t, newModel.(Model).showLog)
}

func TestApp_ShowLogNeedsDebug(t *testing.T) {
	assert.False(t, createTestModel(t, Config{ShowLog: true}).showLog)
	assert.True(t, createTestModel(t, Config{ShowLog: true, Debug: true}).showLog)
}

func TestApp_OutcomeUpdatesStatus(t *testing.T) {
	m := readyModel(t, Config{})

	newModel, cmd := m.Update(pubsub.Event[viewer.Outcome]{
		Type:    pubsub.MountedEvent,
		Payload: viewer.Outcome{Handler: viewer.HandlerEditor, Mounted: true, Duration: 12 * time.Millisecond},
	})
	m = newModel.(Model)

	assert.NotNil(t, cmd, "listener keeps listening")
	assert.Equal(t, "editor · 12ms", m.status)
	assert.Contains(t, m.View(), "editor · 12ms")

	newModel, _ = m.Update(pubsub.Event[viewer.Outcome]{
		Type:    pubsub.FailedEvent,
		Payload: viewer.Outcome{Handler: viewer.HandlerPDF},
	})
	assert.Equal(t, "pdf failed", newModel.(Model).status)
}

func TestApp_LogTailIsBounded(t *testing.T) {
	m := readyModel(t, Config{Debug: true})
	m.logListener = pubsub.NewContinuousListener(context.Background(), pubsub.NewBroker[string]())

	for i := range logTailLines + 3 {
		newModel, _ := m.Update(pubsub.Event[string]{Payload: string(rune('a'+i)) + "\n"})
		m = newModel.(Model)
	}

	require.Len(t, m.logTail, logTailLines)
	assert.Equal(t, "d", m.logTail[0])
	assert.Equal(t, "i", m.logTail[logTailLines-1])
}

func TestApp_WatcherChangeReloads(t *testing.T) {
	m := readyModel(t, Config{AutoReload: true})
	require.NotNil(t, m.watcherHandle)

	_, cmd := m.Update(pubsub.Event[watcher.WatcherEvent]{
		Type:    pubsub.UpdatedEvent,
		Payload: watcher.WatcherEvent{Type: watcher.FileChanged, Path: m.loc.Path()},
	})
	assert.NotNil(t, cmd)
}

func TestApp_WatcherErrorKeepsListening(t *testing.T) {
	m := readyModel(t, Config{AutoReload: true})

	_, cmd := m.Update(pubsub.Event[watcher.WatcherEvent]{
		Payload: watcher.WatcherEvent{Type: watcher.WatcherError, Error: errors.New("overflow")},
	})
	assert.NotNil(t, cmd)
}

func TestApp_MissingDirDisablesAutoReload(t *testing.T) {
	loc := nav.New(filepath.Join(t.TempDir(), "gone", "file.txt"), nil)
	bar := menubar.New()
	page := viewerpage.New(viewerpage.Deps{Location: func() nav.Location { return loc }})

	m := New(Config{Page: page, Menubar: bar, Location: loc, AutoReload: true})
	t.Cleanup(func() { _ = m.Close() })

	assert.Nil(t, m.watcherHandle)
	assert.Nil(t, m.watcherListener)
}

func TestApp_CloseIsSafe(t *testing.T) {
	m := readyModel(t, Config{AutoReload: true})
	require.NoError(t, m.Close())
}

func TestApp_WatcherChangeShowsToast(t *testing.T) {
	m := readyModel(t, Config{AutoReload: true})

	newModel, _ := m.Update(pubsub.Event[watcher.WatcherEvent]{
		Type:    pubsub.UpdatedEvent,
		Payload: watcher.WatcherEvent{Type: watcher.FileChanged, Path: m.loc.Path()},
	})
	m = newModel.(Model)

	assert.Equal(t, "reloaded notes.txt", m.toast.Message())
	assert.Contains(t, m.View(), "reloaded notes.txt")
}

func TestApp_WatcherChangeCountsLines(t *testing.T) {
	m := readyModel(t, Config{})
	require.True(t, m.snapshotOK)
	assert.Equal(t, "hello world\nsecond line\n", m.snapshot)

	require.NoError(t, os.WriteFile(m.loc.Path(), []byte("hello world\nthird line\nfourth line\n"), 0o644))
	msg, ok := m.diffFile()().(fileDiffMsg)
	require.True(t, ok)
	assert.Equal(t, 2, msg.stat.Added)
	assert.Equal(t, 1, msg.stat.Removed)

	newModel, cmd := m.Update(msg)
	m = newModel.(Model)
	assert.NotNil(t, cmd, "dismiss is scheduled")
	assert.Equal(t, "reloaded notes.txt (+2 -1)", m.toast.Message())
	assert.Contains(t, m.snapshot, "fourth line")
}

func TestApp_WatcherChangeWithoutEditsKeepsToast(t *testing.T) {
	m := readyModel(t, Config{})

	msg := m.diffFile()().(fileDiffMsg)
	assert.True(t, msg.stat.IsZero())

	newModel, cmd := m.Update(msg)
	m = newModel.(Model)
	assert.Nil(t, cmd)
	assert.Empty(t, m.toast.Message())
}

func TestApp_WatcherChangeToBinarySkipsCounts(t *testing.T) {
	m := readyModel(t, Config{})

	require.NoError(t, os.WriteFile(m.loc.Path(), []byte{0xff, 0xfe, 0x00}, 0o644))
	msg := m.diffFile()().(fileDiffMsg)
	assert.False(t, msg.textOK)
	assert.True(t, msg.stat.IsZero())
}

func TestApp_EditWithoutEditorWarns(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	if viewers.ExternalEditor() != "" {
		t.Skip("external editor already resolved in this process")
	}
	m := readyModel(t, Config{})

	newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	m = newModel.(Model)

	assert.NotNil(t, cmd, "dismiss is scheduled")
	assert.Contains(t, m.toast.Message(), "$EDITOR")
}

func TestApp_EditorFailureShowsError(t *testing.T) {
	m := readyModel(t, Config{})

	newModel, _ := m.Update(editorDoneMsg{err: errors.New("exit status 1")})
	m = newModel.(Model)

	assert.Equal(t, "editor: exit status 1", m.toast.Message())
}
