package toast

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestNew(t *testing.T) {
	m := New()

	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestShow_ReplacesExisting(t *testing.T) {
	m := New().
		Show("First", KindSuccess).
		Show("Second", KindError)

	assert.True(t, m.Visible())
	assert.Contains(t, m.View(), "Second")
	assert.NotContains(t, m.View(), "First")
}

func TestView_Markers(t *testing.T) {
	tests := []struct {
		kind   Kind
		marker string
	}{
		{KindInfo, "i "},
		{KindSuccess, "✓"},
		{KindWarn, "!"},
		{KindError, "✗"},
	}
	for _, tt := range tests {
		view := New().Show("reloaded", tt.kind).View()
		assert.Contains(t, view, tt.marker)
		assert.Contains(t, view, "reloaded")
		assert.Contains(t, view, "╭", "rounded border")
	}
}

func TestShowFor_DismissesOwnNotice(t *testing.T) {
	m, cmd := New().ShowFor("reloaded", KindInfo, time.Millisecond)
	require.NotNil(t, cmd)

	msg, ok := cmd().(DismissMsg)
	require.True(t, ok)

	m = m.Update(msg)
	assert.False(t, m.Visible())
}

func TestShowFor_StaleDismissIgnored(t *testing.T) {
	m, first := New().ShowFor("first", KindInfo, time.Millisecond)
	m, _ = m.ShowFor("second", KindWarn, time.Hour)

	m = m.Update(first().(DismissMsg))

	assert.True(t, m.Visible())
	assert.Equal(t, "second", m.Message())
}

func TestOverlay_HiddenLeavesBackground(t *testing.T) {
	bg := "line one\nline two"
	assert.Equal(t, bg, New().Overlay(bg, 40))
}

func TestOverlay_TopRight(t *testing.T) {
	bg := strings.Repeat(strings.Repeat(".", 40)+"\n", 5)
	bg = strings.TrimSuffix(bg, "\n")

	out := New().Show("hi", KindInfo).Overlay(bg, 40)
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 5)
	assert.Equal(t, strings.Repeat(".", 40), lines[0], "first line untouched")
	assert.Contains(t, lines[2], "i hi")
	assert.True(t, strings.HasSuffix(lines[2], "."), "one cell of margin keeps the last column")
	assert.True(t, strings.HasPrefix(lines[2], "...."))
}

func TestOverlay_ShortBackgroundGrows(t *testing.T) {
	out := New().Show("hi", KindInfo).Overlay("x", 20)
	assert.Len(t, strings.Split(out, "\n"), 4, "box is three lines starting at line 1")
}

func TestOverlay_PreservesWidth(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		width := rapid.IntRange(20, 120).Draw(t, "width")
		msg := rapid.StringMatching(`[a-z ]{1,12}`).Draw(t, "msg")
		bg := strings.Repeat(strings.Repeat("x", width)+"\n", 4) + strings.Repeat("x", width)

		out := New().Show(msg, KindSuccess).Overlay(bg, width)
		for i, line := range strings.Split(out, "\n") {
			if ansi.StringWidth(line) != width {
				t.Fatalf("line %d width %d, want %d: %q", i, ansi.StringWidth(line), width, line)
			}
		}
	})
}
