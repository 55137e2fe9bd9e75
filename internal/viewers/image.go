package viewers

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"

	"github.com/zjrosen/glance/internal/surface"
	"github.com/zjrosen/glance/internal/viewer"
)

// Image shows the format and dimensions of a raster image.
type Image struct {
	src source
}

// Mount implements viewer.Module.
func (v *Image) Mount(ctx context.Context, target *surface.Surface, dctx viewer.DispatchContext) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Open(v.src.name())
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", dctx.Filename(), err)
	}

	target.Append(block(
		heading(dctx.Filename()),
		field("format", format),
		field("size", fmt.Sprintf("%d × %d px", cfg.Width, cfg.Height)),
		field("megapixel", fmt.Sprintf("%.2f", float64(cfg.Width*cfg.Height)/1e6)),
		downloadLine(dctx),
	))
	return nil
}
