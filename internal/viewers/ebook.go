package viewers

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/zjrosen/glance/internal/surface"
	"github.com/zjrosen/glance/internal/viewer"
)

// ErrNoPackage is returned when an EPUB archive has no OPF package document.
var ErrNoPackage = errors.New("epub has no package document")

// Ebook shows the metadata of an EPUB archive.
type Ebook struct {
	src source
}

// EbookInfo is the metadata read from an EPUB package document.
type EbookInfo struct {
	Title    string
	Authors  []string
	Language string
	Chapters int
	Entries  int
}

type opfPackage struct {
	Metadata struct {
		Title    []string `xml:"title"`
		Creator  []string `xml:"creator"`
		Language string   `xml:"language"`
	} `xml:"metadata"`
	Spine struct {
		Items []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

// Mount implements viewer.Module.
func (e *Ebook) Mount(ctx context.Context, target *surface.Surface, dctx viewer.DispatchContext) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := ReadEbook(e.src.name())
	if err != nil {
		return err
	}

	title := info.Title
	if title == "" {
		title = dctx.Filename()
	}
	lines := []string{heading(title)}
	if len(info.Authors) > 0 {
		lines = append(lines, field("by", strings.Join(info.Authors, ", ")))
	}
	if info.Language != "" {
		lines = append(lines, field("language", info.Language))
	}
	lines = append(lines,
		field("chapters", strconv.Itoa(info.Chapters)),
		field("entries", strconv.Itoa(info.Entries)),
		downloadLine(dctx),
	)
	target.Append(block(lines...))
	return nil
}

// ReadEbook opens the EPUB at path and reads its first package document.
func ReadEbook(path string) (EbookInfo, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return EbookInfo{}, fmt.Errorf("opening epub: %w", err)
	}
	defer func() { _ = r.Close() }()

	info := EbookInfo{Entries: len(r.File)}
	for _, f := range r.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".opf") {
			continue
		}
		pkg, err := readPackage(f)
		if err != nil {
			return info, err
		}
		if len(pkg.Metadata.Title) > 0 {
			info.Title = strings.TrimSpace(pkg.Metadata.Title[0])
		}
		for _, c := range pkg.Metadata.Creator {
			info.Authors = append(info.Authors, strings.TrimSpace(c))
		}
		info.Language = strings.TrimSpace(pkg.Metadata.Language)
		info.Chapters = len(pkg.Spine.Items)
		return info, nil
	}
	return info, ErrNoPackage
}

func readPackage(f *zip.File) (opfPackage, error) {
	var pkg opfPackage
	rc, err := f.Open()
	if err != nil {
		return pkg, err
	}
	defer func() { _ = rc.Close() }()

	if err := xml.NewDecoder(io.LimitReader(rc, maxPreviewBytes)).Decode(&pkg); err != nil {
		return pkg, fmt.Errorf("parsing %s: %w", f.Name, err)
	}
	return pkg, nil
}
