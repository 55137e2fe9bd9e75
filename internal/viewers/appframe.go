package viewers

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/zjrosen/glance/internal/styles"
	"github.com/zjrosen/glance/internal/surface"
	"github.com/zjrosen/glance/internal/viewer"
)

// ErrNoAppURL is returned when the appframe handler has no url option.
var ErrNoAppURL = errors.New("appframe requires a url option")

// AppFrame links to an external application configured through the url
// option. The option may reference {download_url} and {filename}.
type AppFrame struct {
	src source
}

// Mount implements viewer.Module.
func (a *AppFrame) Mount(ctx context.Context, target *surface.Surface, dctx viewer.DispatchContext) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmpl := dctx.String("url", "")
	if tmpl == "" {
		return ErrNoAppURL
	}
	app := ExpandAppURL(tmpl, dctx.DownloadURL(), dctx.Filename())

	title := dctx.String("title", "Embedded application")
	target.Append(block(
		heading(title),
		field("file", dctx.Filename()),
		field("open", link(app, "")),
		"",
		styles.MutedStyle.Render("Terminal frames cannot host web applications; open the link to continue."),
	))
	return nil
}

// ExpandAppURL substitutes the template placeholders, query-escaping each value
// unless the placeholder is the whole template.
func ExpandAppURL(tmpl, downloadURL, filename string) string {
	if tmpl == "{download_url}" {
		return downloadURL
	}
	return strings.NewReplacer(
		"{download_url}", url.QueryEscape(downloadURL),
		"{filename}", url.QueryEscape(filename),
	).Replace(tmpl)
}
