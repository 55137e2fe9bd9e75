package viewers

import (
	"context"

	"github.com/zjrosen/glance/internal/styles"
	"github.com/zjrosen/glance/internal/surface"
	"github.com/zjrosen/glance/internal/viewer"
)

// Download is the fallback viewer: file facts and a download link.
type Download struct {
	src source
}

// Mount implements viewer.Module.
func (d *Download) Mount(ctx context.Context, target *surface.Surface, dctx viewer.DispatchContext) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := d.src.stat()
	if err != nil {
		return err
	}
	target.Append(block(
		heading(dctx.Filename()),
		styles.MutedStyle.Render("No preview available for this file type."),
		"",
		field("size", styles.HumanSize(info.Size())),
		field("modified", info.ModTime().Format("2006-01-02 15:04")),
		downloadLine(dctx),
	))
	return nil
}
