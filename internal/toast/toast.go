// Package toast shows short notices over the viewer: a reload after a file
// change, an editor that failed to start, a config that no longer parses.
package toast

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/glance/internal/styles"
)

// DefaultDuration is how long a notice stays up.
const DefaultDuration = 2 * time.Second

// Kind picks the marker and border colour of a notice.
type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindWarn
	KindError
)

// Model holds at most one visible notice. Each Show bumps the sequence so
// an older dismissal cannot hide a newer notice.
type Model struct {
	message string
	kind    Kind
	seq     int
}

// DismissMsg hides the notice it was scheduled for.
type DismissMsg struct{ seq int }

// New creates an empty model.
func New() Model {
	return Model{}
}

// Show replaces the current notice.
func (m Model) Show(message string, kind Kind) Model {
	m.message = message
	m.kind = kind
	m.seq++
	return m
}

// ShowFor shows the notice and returns the command that dismisses it after d.
func (m Model) ShowFor(message string, kind Kind, d time.Duration) (Model, tea.Cmd) {
	m = m.Show(message, kind)
	seq := m.seq
	return m, tea.Tick(d, func(time.Time) tea.Msg { return DismissMsg{seq: seq} })
}

// Update handles DismissMsg. Stale dismissals are ignored.
func (m Model) Update(msg DismissMsg) Model {
	if msg.seq == m.seq {
		m.message = ""
	}
	return m
}

// Visible reports whether a notice is showing.
func (m Model) Visible() bool {
	return m.message != ""
}

// Message returns the visible notice text.
func (m Model) Message() string {
	return m.message
}

// View renders the notice box, or "" when nothing is showing.
func (m Model) View() string {
	if !m.Visible() {
		return ""
	}

	var color lipgloss.TerminalColor
	var marker string
	switch m.kind {
	case KindSuccess:
		color, marker = styles.StatusSuccessColor, "✓"
	case KindWarn:
		color, marker = styles.StatusWarningColor, "!"
	case KindError:
		color, marker = styles.StatusErrorColor, "✗"
	default:
		color, marker = styles.AccentColor, "i"
	}

	return lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Render(lipgloss.NewStyle().Foreground(color).Render(marker) + " " + m.message)
}

// Overlay draws the notice in the top right corner of bg, which is width
// cells wide. Lines of bg outside the box are untouched.
func (m Model) Overlay(bg string, width int) string {
	if !m.Visible() {
		return bg
	}
	return place(m.View(), bg, width, 1)
}

// place writes fg over bg, right aligned with one cell of margin, starting
// at line top. ANSI styling on both sides is preserved.
func place(fg, bg string, width, top int) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")
	for len(bgLines) < top+len(fgLines) {
		bgLines = append(bgLines, "")
	}

	startX := max(width-lipgloss.Width(fg)-1, 0)
	for i, fgLine := range fgLines {
		y := top + i
		line := bgLines[y]

		left := ansi.Truncate(line, startX, "")
		if w := ansi.StringWidth(left); w < startX {
			left += strings.Repeat(" ", startX-w)
		}

		var right string
		if end := startX + ansi.StringWidth(fgLine); end < ansi.StringWidth(line) {
			right = ansi.TruncateLeft(line, end, "")
		}
		bgLines[y] = left + fgLine + right
	}
	return strings.Join(bgLines, "\n")
}
