package viewers

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/zjrosen/glance/internal/surface"
	"github.com/zjrosen/glance/internal/viewer"
)

// noMarginStyle is a JSON style that removes document margins.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

const defaultMarkdownWidth = 80

// Markdown renders a markdown document with glamour.
type Markdown struct {
	src   source
	style string
}

var (
	_ viewer.Module      = (*Markdown)(nil)
	_ viewer.Initializer = (*Markdown)(nil)
)

type rendererKey struct {
	style string
	width int
}

var (
	renderersMu sync.Mutex
	renderers   = map[rendererKey]*glamour.TermRenderer{}
)

// renderer returns a shared glamour renderer for style and width. Building
// one parses the style sheet, so they are kept for the life of the process.
func renderer(style string, width int) (*glamour.TermRenderer, error) {
	if style == "" {
		style = "dark"
	}
	key := rendererKey{style: style, width: width}

	renderersMu.Lock()
	defer renderersMu.Unlock()
	if r, ok := renderers[key]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: %w", err)
	}
	renderers[key] = r
	return r, nil
}

// Init builds the renderer for the default width.
func (m *Markdown) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := renderer(m.style, defaultMarkdownWidth)
	return err
}

// Mount implements viewer.Module.
func (m *Markdown) Mount(ctx context.Context, target *surface.Surface, _ viewer.DispatchContext) error {
	data, _, err := m.src.read(ctx, maxPreviewBytes)
	if err != nil {
		return err
	}
	width := target.Width()
	if width <= 0 {
		width = defaultMarkdownWidth
	}
	r, err := renderer(m.style, width)
	if err != nil {
		return err
	}

	// TermRenderer is not safe for concurrent Render calls.
	renderersMu.Lock()
	out, err := r.Render(string(data))
	renderersMu.Unlock()
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	target.Append(out)
	return nil
}
