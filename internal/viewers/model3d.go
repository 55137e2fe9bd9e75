package viewers

import (
	"bufio"
	"bytes"
	"context"
	"strconv"

	"github.com/zjrosen/glance/internal/surface"
	"github.com/zjrosen/glance/internal/viewer"
)

// Model3D summarizes a Wavefront OBJ mesh.
type Model3D struct {
	src source
}

// MeshStats counts the statements of an OBJ file.
type MeshStats struct {
	Vertices int
	Normals  int
	UVs      int
	Faces    int
	Objects  int
}

// Mount implements viewer.Module.
func (m *Model3D) Mount(ctx context.Context, target *surface.Surface, dctx viewer.DispatchContext) error {
	data, truncated, err := m.src.read(ctx, maxPreviewBytes)
	if err != nil {
		return err
	}
	stats := CountOBJ(data)

	lines := []string{
		heading(dctx.Filename()),
		field("vertices", strconv.Itoa(stats.Vertices)),
		field("normals", strconv.Itoa(stats.Normals)),
		field("uvs", strconv.Itoa(stats.UVs)),
		field("faces", strconv.Itoa(stats.Faces)),
		field("objects", strconv.Itoa(stats.Objects)),
	}
	if truncated {
		lines = append(lines, field("note", "counts cover the first MiB"))
	}
	lines = append(lines, downloadLine(dctx))
	target.Append(block(lines...))
	return nil
}

// CountOBJ counts vertex, normal, texture, face and object statements.
func CountOBJ(data []byte) MeshStats {
	var s MeshStats
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), maxPreviewBytes)
	for sc.Scan() {
		fields := bytes.Fields(sc.Bytes())
		if len(fields) == 0 {
			continue
		}
		switch string(fields[0]) {
		case "v":
			s.Vertices++
		case "vn":
			s.Normals++
		case "vt":
			s.UVs++
		case "f":
			s.Faces++
		case "o", "g":
			s.Objects++
		}
	}
	return s
}
