// Package surface provides the render target viewers mount into.
//
// A Frame is the decorated parent: it owns the border and rounded corners
// (the chrome) plus an optional header. A Surface is the content area inside
// a Frame. Viewers only ever write to a Surface.
package surface

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Frame is the chrome around a surface.
type Frame struct {
	mu       sync.RWMutex
	bordered bool
	rounded  bool
	color    lipgloss.TerminalColor
	header   string
	footer   string
	child    *Surface
}

// NewFrame returns a frame with a rounded border.
func NewFrame() *Frame {
	return &Frame{
		bordered: true,
		rounded:  true,
		color:    lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#555555"},
	}
}

// Attach creates the page surface inside the frame, replacing any previous one.
func (f *Frame) Attach(width int) *Surface {
	s := &Surface{parent: f, width: width}
	f.mu.Lock()
	f.child = s
	f.mu.Unlock()
	return s
}

// Surface returns the attached surface, or nil.
func (f *Frame) Surface() *Surface {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.child
}

// StripChrome removes the border and the rounded corners.
func (f *Frame) StripChrome() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bordered = false
	f.rounded = false
}

// Bordered reports whether the frame draws a border.
func (f *Frame) Bordered() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.bordered
}

// Rounded reports whether the border corners are rounded.
func (f *Frame) Rounded() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.rounded
}

// SetBorderColor changes the border foreground.
func (f *Frame) SetBorderColor(c lipgloss.TerminalColor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.color = c
}

// SetHeader sets the line drawn above the surface (breadcrumb, menubar).
func (f *Frame) SetHeader(header string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.header = header
}

// Header returns the current header line.
func (f *Frame) Header() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.header
}

// SetFooter sets the line drawn below the surface.
func (f *Frame) SetFooter(footer string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.footer = footer
}

// Style returns the lipgloss style for the current chrome state.
func (f *Frame) Style() lipgloss.Style {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.styleLocked()
}

func (f *Frame) styleLocked() lipgloss.Style {
	style := lipgloss.NewStyle()
	if !f.bordered {
		return style
	}
	border := lipgloss.NormalBorder()
	if f.rounded {
		border = lipgloss.RoundedBorder()
	}
	return style.Border(border).BorderForeground(f.color).Padding(0, 1)
}

// View renders header, surface content and footer inside the chrome.
func (f *Frame) View() string {
	f.mu.RLock()
	header, footer, child := f.header, f.footer, f.child
	style := f.styleLocked()
	f.mu.RUnlock()

	var parts []string
	if header != "" {
		parts = append(parts, header)
	}
	if child != nil {
		parts = append(parts, child.Content())
	}
	if footer != "" {
		parts = append(parts, footer)
	}
	return style.Render(strings.Join(parts, "\n"))
}

// Surface is a render target. Writes are safe from multiple goroutines.
type Surface struct {
	mu     sync.RWMutex
	parent *Frame
	width  int
	blocks []string
}

// New returns a detached surface, mostly useful in tests.
func New(width int) *Surface {
	return &Surface{width: width}
}

// Parent returns the enclosing frame, or nil for a detached surface.
func (s *Surface) Parent() *Frame {
	return s.parent
}

// Width is the number of columns available to content.
func (s *Surface) Width() int {
	return s.width
}

// Append adds a block of rendered content.
func (s *Surface) Append(block string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks = append(s.blocks, block)
}

// Replace discards current content and writes block.
func (s *Surface) Replace(block string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks = []string{block}
}

// Content returns the blocks joined by newlines.
func (s *Surface) Content() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return strings.Join(s.blocks, "\n")
}

// Empty reports whether nothing has been written.
func (s *Surface) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blocks) == 0
}

// Stage returns a scratch surface with the same parent and width. Content
// written to it is invisible until passed to Commit.
func (s *Surface) Stage() *Surface {
	return &Surface{parent: s.parent, width: s.width}
}

// Commit replaces the content of s with the content of staged.
func (s *Surface) Commit(staged *Surface) {
	staged.mu.RLock()
	blocks := append([]string(nil), staged.blocks...)
	staged.mu.RUnlock()

	s.mu.Lock()
	s.blocks = blocks
	s.mu.Unlock()
}
