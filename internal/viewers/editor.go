package viewers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/muesli/reflow/wordwrap"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/glance/internal/log"
	"github.com/zjrosen/glance/internal/styles"
	"github.com/zjrosen/glance/internal/surface"
	"github.com/zjrosen/glance/internal/viewer"
)

// ErrNotText is returned when a file handed to the editor is not UTF-8.
var ErrNotText = errors.New("file is not UTF-8 text")

const tabWidth = 4

// Editor shows a text file with line numbers.
type Editor struct {
	src source
}

var (
	_ viewer.Module      = (*Editor)(nil)
	_ viewer.Initializer = (*Editor)(nil)
)

var (
	editorOnce sync.Once
	editorCmd  string
)

// ExternalEditor resolves $VISUAL or $EDITOR to an executable once per process.
func ExternalEditor() string {
	editorOnce.Do(func() {
		for _, env := range []string{"VISUAL", "EDITOR"} {
			name := strings.Fields(os.Getenv(env))
			if len(name) == 0 {
				continue
			}
			if p, err := exec.LookPath(name[0]); err == nil {
				editorCmd = p
				return
			}
		}
	})
	return editorCmd
}

// Init looks up the external editor ahead of the first mount.
func (e *Editor) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cmd := ExternalEditor(); cmd != "" {
		log.Debug(log.CatUI, "external editor found", "cmd", cmd)
	}
	return nil
}

// Mount implements viewer.Module.
func (e *Editor) Mount(ctx context.Context, target *surface.Surface, dctx viewer.DispatchContext) error {
	data, truncated, err := e.src.read(ctx, maxPreviewBytes)
	if err != nil {
		return err
	}
	if !utf8.Valid(data) {
		return fmt.Errorf("%s: %w", dctx.Filename(), ErrNotText)
	}

	text := strings.ReplaceAll(string(data), "\t", strings.Repeat(" ", tabWidth))
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	target.Append(numberLines(lines, target.Width()))

	perms := dctx.ACL()
	status := []string{
		fmt.Sprintf("%d lines", len(lines)),
		fmt.Sprintf("%d chars", uniseg.GraphemeClusterCount(text)),
	}
	if perms.CanEdit {
		if cmd := ExternalEditor(); cmd != "" {
			status = append(status, "e: edit in "+cmd)
		}
	} else {
		status = append(status, styles.WarningStyle.Render("read-only"))
	}
	if truncated {
		status = append(status, "truncated")
	}
	target.Append(styles.MutedStyle.Render(strings.Join(status, " · ")))
	return nil
}

// numberLines wraps each line to fit width and prefixes a line-number gutter.
// Continuation rows get an empty gutter.
func numberLines(lines []string, width int) string {
	gutter := len(strconv.Itoa(len(lines)))
	wrap := max(width-gutter-3, 10)

	var b strings.Builder
	for i, line := range lines {
		for j, part := range strings.Split(wordwrap.String(line, wrap), "\n") {
			num := ""
			if j == 0 {
				num = strconv.Itoa(i + 1)
			}
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(styles.GutterStyle.Render(fmt.Sprintf("%*s │", gutter, num)))
			b.WriteByte(' ')
			b.WriteString(part)
		}
	}
	return b.String()
}
