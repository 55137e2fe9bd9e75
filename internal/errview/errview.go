// Package errview renders dispatch failures in place of the viewer.
package errview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/glance/internal/log"
	"github.com/zjrosen/glance/internal/styles"
	"github.com/zjrosen/glance/internal/surface"
	"github.com/zjrosen/glance/internal/viewer"
)

// Card titles.
const (
	TitleInternal = "Internal Error"
	TitleError    = "Error"
)

const defaultWidth = 60

// Reporter draws an error card into the render target.
type Reporter struct {
	mu    sync.Mutex
	count int
	last  error
}

var _ viewer.ErrorReporter = (*Reporter)(nil)

// New returns a Reporter.
func New() *Reporter {
	return &Reporter{}
}

// Report replaces the target content with a card describing err.
func (r *Reporter) Report(_ context.Context, target *surface.Surface, err error) {
	r.mu.Lock()
	r.count++
	r.last = err
	r.mu.Unlock()

	title := Title(err)
	log.Warn(log.CatDispatch, "showing error card", "title", title, "error", err)
	if target == nil {
		return
	}

	width := target.Width()
	if width <= 0 {
		width = defaultWidth
	}
	target.Replace(Card(err, width))
}

// Count returns how many errors have been reported.
func (r *Reporter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Last returns the most recent error, or nil.
func (r *Reporter) Last() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Title picks the card title: unknown handlers are configuration bugs.
func Title(err error) string {
	if viewer.IsUnknownHandler(err) {
		return TitleInternal
	}
	return TitleError
}

// Card renders err as a titled box width cells wide.
func Card(err error, width int) string {
	inner := max(width-2, 8)

	var lines []string
	for _, h := range hint(err) {
		lines = append(lines, wrap(h, inner)...)
	}
	lines = append(lines, "")
	for _, l := range wrap(err.Error(), inner) {
		lines = append(lines, styles.MutedStyle.Render(l))
	}
	return styles.RenderTitledBox(lines, Title(err), width, styles.StatusErrorColor)
}

func hint(err error) []string {
	var (
		unknown  *viewer.UnknownHandlerError
		panicked *viewer.PanicError
	)
	switch {
	case errors.As(err, &unknown):
		return []string{
			fmt.Sprintf("No viewer is registered as %q.", unknown.ID),
			"Check the mime table in your config.",
		}
	case errors.As(err, &panicked):
		return []string{"The " + string(panicked.Handler) + " viewer crashed."}
	default:
		return []string{"This file could not be displayed."}
	}
}

func wrap(s string, width int) []string {
	return strings.Split(wordwrap.String(s, width), "\n")
}
