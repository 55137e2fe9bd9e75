package viewers

import (
	"context"
	"strings"

	"github.com/zjrosen/glance/internal/styles"
	"github.com/zjrosen/glance/internal/surface"
	"github.com/zjrosen/glance/internal/viewer"
)

// Skeleton draws a loading placeholder. Option lines sets the bar count.
type Skeleton struct{}

// Mount implements viewer.Module.
func (Skeleton) Mount(ctx context.Context, target *surface.Surface, dctx viewer.DispatchContext) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n := 3
	if v, ok := dctx.Option("lines"); ok {
		if i, ok := toInt(v); ok && i > 0 {
			n = i
		}
	}
	width := max(target.Width(), 8)

	bars := make([]string, n)
	for i := range bars {
		// Alternate full and shorter bars like a paragraph of text.
		w := width
		if i%2 == 1 {
			w = width * 2 / 3
		}
		bars[i] = styles.MutedStyle.Render(strings.Repeat("░", w))
	}
	target.Append(strings.Join(bars, "\n"))
	return nil
}
