package viewers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/glance/internal/viewer"
)

func TestAppFrame(t *testing.T) {
	path := writeFile(t, "page.html", []byte("<html/>"))

	out, err := mount(t, viewer.HandlerAppFrame, path, readWrite,
		viewer.Options{"url": "https://apps.example.test/view?src={download_url}", "title": "Viewer"})
	require.NoError(t, err)
	require.Contains(t, out, "Viewer")
	require.Contains(t, out, "https://apps.example.test/view?src=file%3A%2F%2F")
}

func TestAppFrame_RequiresURL(t *testing.T) {
	path := writeFile(t, "page.html", []byte("<html/>"))
	_, err := mount(t, viewer.HandlerAppFrame, path, readWrite, nil)
	require.ErrorIs(t, err, ErrNoAppURL)
}

func TestExpandAppURL(t *testing.T) {
	require.Equal(t, "file:///a b.html", ExpandAppURL("{download_url}", "file:///a b.html", "a b.html"))
	require.Equal(t, "https://x.test/?f=a+b.html", ExpandAppURL("https://x.test/?f={filename}", "", "a b.html"))
}

func TestMap(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point"}},
		{"type":"Feature","geometry":{"type":"Point"}},
		{"type":"Feature","geometry":{"type":"Polygon"}},
		{"type":"Feature","geometry":null}]}`

	counts, err := CountGeometries([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, []GeometryCount{
		{Type: "Point", Count: 2},
		{Type: "Polygon", Count: 1},
		{Type: "null", Count: 1},
	}, counts)

	out, err := mount(t, viewer.HandlerMap, writeFile(t, "m.geojson", []byte(doc)), readWrite, nil)
	require.NoError(t, err)
	require.Contains(t, out, "Point")
	require.Contains(t, out, "features")
}

func TestCountGeometries_SingleGeometry(t *testing.T) {
	counts, err := CountGeometries([]byte(`{"type":"LineString","coordinates":[[0,0],[1,1]]}`))
	require.NoError(t, err)
	require.Equal(t, []GeometryCount{{Type: "LineString", Count: 1}}, counts)

	_, err = CountGeometries([]byte(`{}`))
	require.Error(t, err)
	_, err = CountGeometries([]byte(`not json`))
	require.ErrorContains(t, err, "parsing geojson")
}

func TestURL(t *testing.T) {
	path := writeFile(t, "site.url", []byte("[InternetShortcut]\r\nURL=https://example.test/docs\r\n"))

	out, err := mount(t, viewer.HandlerURL, path, readWrite, nil)
	require.NoError(t, err)
	require.Contains(t, out, "https://example.test/docs")
}

func TestShortcutTarget(t *testing.T) {
	webloc := `<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0"><dict>
	<key>URL</key>
	<string>https://example.test/mac</string>
</dict></plist>`

	got, err := ShortcutTarget([]byte(webloc))
	require.NoError(t, err)
	require.Equal(t, "https://example.test/mac", got)

	_, err = ShortcutTarget([]byte("[InternetShortcut]\nIconIndex=0\n"))
	require.ErrorIs(t, err, ErrNoShortcutTarget)
}

func TestSkeleton(t *testing.T) {
	out, err := mount(t, viewer.HandlerSkeleton, "", readWrite, viewer.Options{"lines": 4})
	require.NoError(t, err)
	require.Len(t, splitLines(out), 4)
	require.Contains(t, out, "░")
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}
