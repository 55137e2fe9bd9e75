package viewers

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/glance/internal/styles"
	"github.com/zjrosen/glance/internal/surface"
	"github.com/zjrosen/glance/internal/viewer"
)

const (
	defaultMaxRows = 100
	minCellWidth   = 6
)

// Table renders delimited text as a grid. Options: delimiter (single
// character, default ","), max_rows (default 100).
type Table struct {
	src source
}

// Mount implements viewer.Module.
func (t *Table) Mount(ctx context.Context, target *surface.Surface, dctx viewer.DispatchContext) error {
	data, truncated, err := t.src.read(ctx, maxPreviewBytes)
	if err != nil {
		return err
	}
	delim, err := delimiter(dctx.String("delimiter", ","))
	if err != nil {
		return err
	}
	maxRows := defaultMaxRows
	if v, ok := dctx.Option("max_rows"); ok {
		if n, ok := toInt(v); ok && n > 0 {
			maxRows = n
		}
	}

	rows, more, err := ReadRows(data, delim, maxRows+1)
	if err != nil {
		return fmt.Errorf("%s: %w", dctx.Filename(), err)
	}
	if len(rows) == 0 {
		target.Append(styles.MutedStyle.Render("empty table"))
		return nil
	}

	target.Append(RenderTable(rows, target.Width()))
	if more || truncated {
		target.Append(styles.MutedStyle.Render(fmt.Sprintf("showing first %d rows", len(rows)-1)))
	}
	return nil
}

// ReadRows parses at most limit records. more reports whether input remained.
func ReadRows(data []byte, delim rune, limit int) (rows [][]string, more bool, err error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = false

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, false, nil
		}
		if err != nil {
			return rows, false, err
		}
		if len(rows) == limit {
			return rows, true, nil
		}
		rows = append(rows, rec)
	}
}

// RenderTable draws rows with the first row as header, truncating cells so
// the grid fits width.
func RenderTable(rows [][]string, width int) string {
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	// Each column costs a separator and one cell of padding on each side.
	cellWidth := max((width-1)/max(cols, 1)-3, minCellWidth)

	fit := func(rec []string) []string {
		out := make([]string, cols)
		for i := range out {
			if i < len(rec) {
				out[i] = runewidth.Truncate(rec[i], cellWidth, "…")
			}
		}
		return out
	}

	body := make([][]string, 0, len(rows)-1)
	for _, r := range rows[1:] {
		body = append(body, fit(r))
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.HeadingColor).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.BorderDefaultColor)).
		Headers(fit(rows[0])...).
		Rows(body...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

func delimiter(s string) (rune, error) {
	if s == `\t` {
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) || r == '"' || r == '\n' || r == '\r' {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r, nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
