package filecache

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNewDB_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "test.db")

	db, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db.Close()

	info, err := os.Stat(filepath.Dir(dbPath))
	require.NoError(t, err)
	require.True(t, info.IsDir())
	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), info.Mode().Perm())
	}
	require.Equal(t, dbPath, db.Path())
}

func TestNewDB_RunsMigrations(t *testing.T) {
	db := newTestDB(t)

	var name string
	err := db.conn.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='file_stats'").Scan(&name)
	require.NoError(t, err)
	require.Equal(t, "file_stats", name)

	var handlerCol int
	err = db.conn.QueryRow("SELECT COUNT(*) FROM pragma_table_info('file_stats') WHERE name = 'handler'").Scan(&handlerCol)
	require.NoError(t, err)
	require.Equal(t, 1, handlerCol)
}

func TestNewDB_ReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db1, err := NewDB(path)
	require.NoError(t, err)
	require.NoError(t, db1.Upsert(context.Background(), Entry{Path: "/a", Size: 1, ModTime: time.Unix(10, 0), CheckedAt: time.Unix(20, 0)}))
	require.NoError(t, db1.Close())

	db2, err := NewDB(path)
	require.NoError(t, err)
	defer db2.Close()
	e, err := db2.Get(context.Background(), "/a")
	require.NoError(t, err)
	require.EqualValues(t, 1, e.Size)
}

func TestDB_UpsertKeepsViews(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	e := Entry{Path: "/docs/a.pdf", Size: 10, Mode: 0o644, ModTime: time.Unix(100, 0), CheckedAt: time.Unix(200, 0)}
	require.NoError(t, db.Upsert(ctx, e))
	require.NoError(t, db.RecordView(ctx, e.Path, "pdf", time.Unix(300, 0)))

	e.Size = 20
	e.CheckedAt = time.Unix(400, 0)
	require.NoError(t, db.Upsert(ctx, e))

	got, err := db.Get(ctx, e.Path)
	require.NoError(t, err)
	require.EqualValues(t, 20, got.Size)
	require.Equal(t, 1, got.Views)
	require.Equal(t, "pdf", got.Handler)
	require.Equal(t, time.Unix(300, 0), got.LastViewed)
	require.Equal(t, time.Unix(400, 0), got.CheckedAt)
}

func TestDB_GetMissing(t *testing.T) {
	_, err := newTestDB(t).Get(context.Background(), "/nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDB_RecordViewMissing(t *testing.T) {
	err := newTestDB(t).RecordView(context.Background(), "/nope", "pdf", time.Now())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDB_RecentAndPrune(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	for i, p := range []string{"/a", "/b", "/c"} {
		require.NoError(t, db.Upsert(ctx, Entry{Path: p, CheckedAt: time.Unix(int64(100*(i+1)), 0)}))
	}
	require.NoError(t, db.RecordView(ctx, "/a", "editor", time.Unix(1000, 0)))
	require.NoError(t, db.RecordView(ctx, "/c", "pdf", time.Unix(2000, 0)))

	recent, err := db.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "/c", recent[0].Path)
	require.Equal(t, "/a", recent[1].Path)

	n, err := db.Prune(ctx, time.Unix(250, 0))
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	_, err = db.Get(ctx, "/c")
	require.NoError(t, err)
	_, err = db.Get(ctx, "/a")
	require.ErrorIs(t, err, ErrNotFound)
}
