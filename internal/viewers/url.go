package viewers

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/zjrosen/glance/internal/surface"
	"github.com/zjrosen/glance/internal/viewer"
)

// ErrNoShortcutTarget is returned when a shortcut file names no URL.
var ErrNoShortcutTarget = errors.New("shortcut has no URL")

var weblocURL = regexp.MustCompile(`(?s)<key>URL</key>\s*<string>([^<]+)</string>`)

// URL follows an internet shortcut (.url or .webloc) to its target.
type URL struct {
	src source
}

// Mount implements viewer.Module.
func (u *URL) Mount(ctx context.Context, target *surface.Surface, dctx viewer.DispatchContext) error {
	data, _, err := u.src.read(ctx, 64*1024)
	if err != nil {
		return err
	}
	dest, err := ShortcutTarget(data)
	if err != nil {
		return fmt.Errorf("%s: %w", dctx.Filename(), err)
	}
	target.Append(block(
		heading(dctx.Filename()),
		field("target", link(dest, "")),
	))
	return nil
}

// ShortcutTarget extracts the URL from a Windows .url file or an Apple
// .webloc property list.
func ShortcutTarget(data []byte) (string, error) {
	if m := weblocURL.FindSubmatch(data); m != nil {
		return strings.TrimSpace(string(m[1])), nil
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if ok && strings.EqualFold(key, "URL") && value != "" {
			return strings.TrimSpace(value), nil
		}
	}
	return "", ErrNoShortcutTarget
}
