package viewers

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/zjrosen/glance/internal/surface"
	"github.com/zjrosen/glance/internal/viewer"
)

// Map summarizes a GeoJSON document.
type Map struct {
	src source
}

// GeometryCount is the number of features with one geometry type.
type GeometryCount struct {
	Type  string
	Count int
}

type geoGeometry struct {
	Type string `json:"type"`
}

type geoDocument struct {
	Type     string        `json:"type"`
	Geometry *geoGeometry  `json:"geometry"`
	Features []geoDocument `json:"features"`
}

// Mount implements viewer.Module.
func (m *Map) Mount(ctx context.Context, target *surface.Surface, dctx viewer.DispatchContext) error {
	data, truncated, err := m.src.read(ctx, maxPreviewBytes)
	if err != nil {
		return err
	}
	if truncated {
		return fmt.Errorf("%s: geojson larger than %d bytes", dctx.Filename(), maxPreviewBytes)
	}
	counts, err := CountGeometries(data)
	if err != nil {
		return fmt.Errorf("%s: %w", dctx.Filename(), err)
	}

	total := 0
	lines := []string{heading(dctx.Filename())}
	for _, c := range counts {
		total += c.Count
		lines = append(lines, field(c.Type, strconv.Itoa(c.Count)))
	}
	lines = append(lines, field("features", strconv.Itoa(total)), downloadLine(dctx))
	target.Append(block(lines...))
	return nil
}

// CountGeometries counts features by geometry type, most common first.
func CountGeometries(data []byte) ([]GeometryCount, error) {
	var doc geoDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing geojson: %w", err)
	}

	byType := map[string]int{}
	switch doc.Type {
	case "FeatureCollection":
		for _, f := range doc.Features {
			byType[geometryType(f)]++
		}
	case "Feature":
		byType[geometryType(doc)]++
	case "":
		return nil, errors.New("geojson has no type")
	default:
		byType[doc.Type]++
	}

	counts := make([]GeometryCount, 0, len(byType))
	for t, n := range byType {
		counts = append(counts, GeometryCount{Type: t, Count: n})
	}
	slices.SortFunc(counts, func(a, b GeometryCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Type, b.Type)
	})
	return counts, nil
}

func geometryType(f geoDocument) string {
	if f.Geometry == nil || f.Geometry.Type == "" {
		return "null"
	}
	return f.Geometry.Type
}
