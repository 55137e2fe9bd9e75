package shell

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/glance/internal/nav"
	"github.com/zjrosen/glance/internal/surface"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestInit_ForcedProfile(t *testing.T) {
	s := New(nil, WithProfile(termenv.ANSI256))
	require.False(t, s.Ready())
	require.Equal(t, termenv.Ascii, s.Profile())

	require.NoError(t, s.Init(context.Background()))
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.Ascii) })

	require.True(t, s.Ready())
	require.Equal(t, termenv.ANSI256, s.Profile())
	require.Equal(t, termenv.ANSI256, lipgloss.ColorProfile())
}

func TestInit_DetectsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	s := New(&bytes.Buffer{})
	require.NoError(t, s.Init(context.Background()))
	require.Equal(t, termenv.Ascii, s.Profile())
}

func TestInit_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := New(nil)
	require.ErrorIs(t, s.Init(ctx), context.Canceled)
	require.False(t, s.Ready())
}

func TestBreadcrumb(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		width int
		want  string
	}{
		{"empty", "", 40, ""},
		{"root file", "/report.pdf", 40, "report.pdf"},
		{"nested", "/docs/q3/report.pdf", 40, "docs › q3 › report.pdf"},
		{"unbounded", "/a/b/c.txt", 0, "a › b › c.txt"},
		{"truncated", "/docs/q3/report.pdf", 16, "…q3 › report.pdf"},
		{"name only fits", "/docs/q3/report.pdf", 11, "…report.pdf"},
		{"name too long", "/docs/quarterly-report.pdf", 8, "quarter…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Breadcrumb(nav.New(tt.path, nil), tt.width))
		})
	}
}

func TestBreadcrumb_FitsWidth(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		segs := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,12}`), 1, 6).Draw(t, "segs")
		width := rapid.IntRange(1, 60).Draw(t, "width")

		path := ""
		for _, s := range segs {
			path += "/" + s
		}
		got := Breadcrumb(nav.New(path, nil), width)
		if w := ansi.StringWidth(got); w > width {
			t.Fatalf("breadcrumb %q is %d cells, want <= %d", got, w, width)
		}
	})
}

func TestDecorate_SetsHeader(t *testing.T) {
	frame := surface.NewFrame()
	s := New(nil)
	s.Decorate(frame, nav.New("/docs/report.pdf", nil), 80)
	require.Equal(t, "docs › report.pdf", frame.Header())
	require.True(t, frame.Bordered(), "decorating leaves chrome alone")
}
