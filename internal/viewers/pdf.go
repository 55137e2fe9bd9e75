package viewers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/zjrosen/glance/internal/surface"
	"github.com/zjrosen/glance/internal/viewer"
)

// ErrNotPDF is returned when the file lacks a PDF header.
var ErrNotPDF = errors.New("missing %PDF header")

var pdfPage = regexp.MustCompile(`/Type\s*/Page[^s]`)

// PDF shows the document version and an estimated page count.
type PDF struct {
	src source
}

// PDFInfo is what the PDF viewer extracts from a document.
type PDFInfo struct {
	Version string
	Pages   int
	// Partial is set when only a prefix of the file was scanned.
	Partial bool
}

// Mount implements viewer.Module.
func (p *PDF) Mount(ctx context.Context, target *surface.Surface, dctx viewer.DispatchContext) error {
	data, truncated, err := p.src.read(ctx, maxPreviewBytes)
	if err != nil {
		return err
	}
	info, err := ParsePDF(data)
	if err != nil {
		return fmt.Errorf("%s: %w", dctx.Filename(), err)
	}
	info.Partial = truncated

	pages := strconv.Itoa(info.Pages)
	if info.Partial {
		pages = "≥ " + pages
	}
	lines := []string{
		heading(dctx.Filename()),
		field("format", "PDF "+info.Version),
		field("pages", pages),
	}
	if zoom := dctx.String("zoom", ""); zoom != "" {
		lines = append(lines, field("zoom", zoom))
	}
	lines = append(lines, downloadLine(dctx))
	target.Append(block(lines...))
	return nil
}

// ParsePDF reads the header version and counts page objects in data.
func ParsePDF(data []byte) (PDFInfo, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return PDFInfo{}, ErrNotPDF
	}
	header := data[len("%PDF-"):]
	if i := bytes.IndexAny(header, "\r\n \t"); i >= 0 {
		header = header[:i]
	}
	return PDFInfo{
		Version: string(header),
		Pages:   len(pdfPage.FindAllIndex(data, -1)),
	}, nil
}
