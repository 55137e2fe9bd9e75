package filecache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when the store has no row for a path.
var ErrNotFound = errors.New("file not in cache")

const selectColumns = `path, size, mode, mod_time, checked_at, views, last_viewed, handler`

// Upsert writes the stat fields of e, keeping view history.
func (db *DB) Upsert(ctx context.Context, e Entry) error {
	m := toModel(e)
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO file_stats (path, size, mode, mod_time, checked_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			size = excluded.size,
			mode = excluded.mode,
			mod_time = excluded.mod_time,
			checked_at = excluded.checked_at`,
		m.Path, m.Size, m.Mode, m.ModTime, m.CheckedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting %s: %w", e.Path, err)
	}
	return nil
}

// Get returns the stored entry for path.
func (db *DB) Get(ctx context.Context, path string) (Entry, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM file_stats WHERE path = ?`, path)
	m, err := scanModel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return m.toEntry(), nil
}

// RecordView bumps the view counter of path and remembers the handler.
func (db *DB) RecordView(ctx context.Context, path, handler string, at time.Time) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE file_stats SET views = views + 1, last_viewed = ?, handler = ? WHERE path = ?`,
		at.Unix(), handler, path,
	)
	if err != nil {
		return fmt.Errorf("recording view of %s: %w", path, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Recent lists the last viewed files, newest first.
func (db *DB) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM file_stats
		 WHERE last_viewed IS NOT NULL
		 ORDER BY last_viewed DESC, path ASC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m.toEntry())
	}
	return out, rows.Err()
}

// Prune deletes rows not checked since before cutoff and returns how many.
func (db *DB) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM file_stats WHERE checked_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("pruning cache: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanModel(s scanner) (statModel, error) {
	var m statModel
	err := s.Scan(&m.Path, &m.Size, &m.Mode, &m.ModTime, &m.CheckedAt, &m.Views, &m.LastViewed, &m.Handler)
	return m, err
}
