package viewers

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/glance/internal/styles"
	"github.com/zjrosen/glance/internal/viewer"
)

// maxPreviewBytes caps how much of a file a viewer reads.
const maxPreviewBytes = 1 << 20

// source yields the path of the file being viewed.
type source func() string

func (s source) name() string {
	return s()
}

func (s source) stat() (fs.FileInfo, error) {
	info, err := os.Stat(s())
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", s())
	}
	return info, nil
}

// read returns at most limit bytes and whether the file was longer. A
// truncated read never ends inside a UTF-8 sequence.
func (s source) read(ctx context.Context, limit int64) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	f, err := os.Open(s())
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(data)) > limit {
		return trimPartialRune(data[:limit]), true, nil
	}
	return data, false, nil
}

// trimPartialRune drops a trailing incomplete UTF-8 sequence.
func trimPartialRune(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return b[:i]
			}
			break
		}
	}
	return b
}

func (s source) ext() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(s())), ".")
}

// field renders "label  value" with the label padded to a fixed column.
func field(label, value string) string {
	return styles.LabelStyle.Render(fmt.Sprintf("%-10s", label)) + " " + value
}

func heading(title string) string {
	return styles.TitleStyle.Render(title)
}

func block(lines ...string) string {
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// link renders text as an OSC 8 hyperlink to uri.
func link(uri, text string) string {
	if text == "" {
		text = uri
	}
	return ansi.SetHyperlink(uri) + styles.LinkStyle.Render(text) + ansi.ResetHyperlink()
}

// downloadLine describes the download target, or why there is none.
func downloadLine(dctx viewer.DispatchContext) string {
	if !dctx.ACL().CanDownload {
		return field("download", styles.MutedStyle.Render("not permitted"))
	}
	u := dctx.DownloadURL()
	if u == "" {
		return field("download", styles.MutedStyle.Render("unavailable"))
	}
	return field("download", link(u, ""))
}
