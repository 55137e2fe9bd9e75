package menubar

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/glance/internal/acl"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func newMenubar(t *testing.T) *Menubar {
	t.Helper()
	m := New()
	require.NoError(t, m.Init(context.Background()))
	t.Cleanup(m.Close)
	return m
}

func TestRender_ShowsFileInfo(t *testing.T) {
	m := newMenubar(t)
	info := Info{Name: "report.pdf", Size: 1536, Perms: acl.Permissions{CanRead: true}, Handler: "pdf"}

	out := m.Scan(m.Render(info, 80))
	require.Contains(t, out, "report.pdf")
	require.Contains(t, out, "1.5 KiB")
	require.Contains(t, out, "r-")
	require.Contains(t, out, "pdf")
	require.Contains(t, out, "[r]eload [q]uit")
	require.Equal(t, 80, ansi.StringWidth(out))
}

func TestRender_NarrowKeepsActions(t *testing.T) {
	m := newMenubar(t)
	out := m.Scan(m.Render(Info{Name: strings.Repeat("x", 100)}, 40))

	require.True(t, strings.HasSuffix(strings.TrimRight(out, " "), "[q]uit"))
	require.LessOrEqual(t, ansi.StringWidth(out), 40)
	require.Contains(t, out, "…")
}

func TestRender_BeforeInit(t *testing.T) {
	m := New()
	out := m.Render(Info{Name: "a.txt"}, 60)
	require.Contains(t, out, "a.txt")
	require.Contains(t, out, "[r]eload", "no zone markers without a manager")
	require.Equal(t, out, m.Scan(out))
}

func TestInit_PreparesKeys(t *testing.T) {
	m := newMenubar(t)
	require.Equal(t, []string{"r"}, m.Keys().Reload.Keys())
	require.Contains(t, m.Keys().Quit.Keys(), "q")
}

func TestInit_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := New()
	require.ErrorIs(t, m.Init(ctx), context.Canceled)
	require.Empty(t, m.Keys().Reload.Keys())
}

func TestHit_IgnoresNonClicks(t *testing.T) {
	m := newMenubar(t)
	require.Equal(t, ActionNone, m.Hit(tea.MouseMsg{Action: tea.MouseActionMotion}))
	require.Equal(t, ActionNone, New().Hit(tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}))
}

func TestAction_String(t *testing.T) {
	require.Equal(t, "reload", ActionReload.String())
	require.Equal(t, "quit", ActionQuit.String())
	require.Equal(t, "none", ActionNone.String())
}
