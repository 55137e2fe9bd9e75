package viewers

import (
	"context"
	"strings"

	"github.com/zjrosen/glance/internal/styles"
	"github.com/zjrosen/glance/internal/surface"
	"github.com/zjrosen/glance/internal/viewer"
)

// Media describes an audio or video file.
type Media struct {
	src  source
	kind string
}

// Mount implements viewer.Module.
func (m *Media) Mount(ctx context.Context, target *surface.Surface, dctx viewer.DispatchContext) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := m.src.stat()
	if err != nil {
		return err
	}
	container := strings.ToUpper(m.src.ext())
	if container == "" {
		container = "unknown"
	}

	lines := []string{
		heading(dctx.Filename()),
		field("type", m.kind),
		field("container", container),
		field("size", styles.HumanSize(info.Size())),
	}
	if dctx.Bool("autoplay", false) {
		lines = append(lines, field("autoplay", "on"))
	}
	lines = append(lines, downloadLine(dctx))
	target.Append(block(lines...))
	return nil
}
