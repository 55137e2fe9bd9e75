package viewers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/glance/internal/acl"
	"github.com/zjrosen/glance/internal/surface"
	"github.com/zjrosen/glance/internal/viewer"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func dispatchContext(path string, perms acl.Permissions, opts viewer.Options) viewer.DispatchContext {
	if opts == nil {
		opts = viewer.Options{}
	}
	return viewer.DispatchContext{
		Options:     opts,
		ACL:         func() acl.Permissions { return perms },
		Filename:    func() string { return filepath.Base(path) },
		DownloadURL: func() string { return "file://" + path },
	}
}

// mount loads id from a catalog pointed at path and mounts it into a fresh surface.
func mount(t *testing.T, id viewer.HandlerID, path string, perms acl.Permissions, opts viewer.Options) (string, error) {
	t.Helper()
	cat := &Catalog{Path: func() string { return path }, MarkdownStyle: "notty"}
	mod, err := cat.Load(context.Background(), id)
	require.NoError(t, err)

	target := surface.NewFrame().Attach(80)
	err = mod.Mount(context.Background(), target, dispatchContext(path, perms, opts))
	return target.Content(), err
}

var (
	readWrite = acl.Permissions{CanRead: true, CanEdit: true, CanDownload: true}
	readOnly  = acl.Permissions{CanRead: true}
)
